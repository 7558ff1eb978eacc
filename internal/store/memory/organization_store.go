package memory

import (
	"context"
	"sort"
	"time"

	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

// InsertOrganization creates a new organization in memory.
// Organization names are unique.
func (s *Store) InsertOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tenants {
		if t.org.Name == org.Name {
			return nil, store.ErrOrganizationAlreadyExists
		}
	}

	s.nextOrgID++
	id := s.nextOrgID

	now := time.Now()
	t := &tenant{
		org: models.Organization{
			ID:        id,
			Name:      org.Name,
			CreatedAt: now,
			UpdatedAt: now,
		},
		departments: make(map[int64]*models.Department),
		employees:   make(map[int64]*models.Employee),
		shifts:      make(map[shiftKey]int64),
	}
	s.tenants[id] = t

	clone := t.org
	return &clone, nil
}

// GetOrganization retrieves an organization by ID.
func (s *Store) GetOrganization(ctx context.Context, orgID int64) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return nil, err
	}

	// Clone to avoid external modifications
	clone := t.org
	return &clone, nil
}

// UpdateOrganization updates an existing organization.
func (s *Store) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(org.ID)
	if err != nil {
		return err
	}

	for id, other := range s.tenants {
		if id != org.ID && other.org.Name == org.Name {
			return store.ErrOrganizationAlreadyExists
		}
	}

	t.org.Name = org.Name
	t.org.UpdatedAt = time.Now()

	return nil
}

// RemoveOrganization deletes an organization with everything it owns.
func (s *Store) RemoveOrganization(ctx context.Context, orgID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.tenant(orgID); err != nil {
		return err
	}

	delete(s.tenants, orgID)

	return nil
}

// GetDepartments returns all departments of the organization ordered by internal id.
func (s *Store) GetDepartments(ctx context.Context, orgID int64) ([]*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Department, 0, len(t.departments))
	for _, d := range t.departments {
		result = append(result, t.departmentView(d))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// GetDepartment returns a department by external ID.
func (s *Store) GetDepartment(ctx context.Context, orgID, externalDeptID int64) (*models.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return nil, err
	}

	d, ok := t.departmentByExternalID(externalDeptID)
	if !ok {
		return nil, store.ErrDepartmentNotFound
	}

	return t.departmentView(d), nil
}

// InsertDepartment creates a department in the organization.
func (s *Store) InsertDepartment(ctx context.Context, orgID int64, dept *models.Department) (*models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return nil, err
	}

	s.nextDeptID++
	t.nextDeptExternalID++

	d := cloneDepartment(dept)
	d.ID = s.nextDeptID
	d.ExternalID = t.nextDeptExternalID
	d.HeadEmployeeID = nil
	t.departments[d.ID] = d

	return t.departmentView(d), nil
}

// UpdateDepartment updates name, budget and head of a department.
func (s *Store) UpdateDepartment(ctx context.Context, orgID int64, dept *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return err
	}

	d, ok := t.departments[dept.ID]
	if !ok {
		return store.ErrDepartmentNotFound
	}

	if dept.HeadEmployeeID != nil {
		head, ok := t.employees[*dept.HeadEmployeeID]
		if !ok || head.DepartmentID != d.ID {
			return store.ErrEmployeeNotFound
		}
	}

	updated := cloneDepartment(dept)
	updated.ExternalID = d.ExternalID
	t.departments[d.ID] = updated

	return nil
}

// RemoveDepartment deletes a department and its employees.
func (s *Store) RemoveDepartment(ctx context.Context, orgID, externalDeptID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return err
	}

	d, ok := t.departmentByExternalID(externalDeptID)
	if !ok {
		return store.ErrDepartmentNotFound
	}

	for id, e := range t.employees {
		if e.DepartmentID == d.ID {
			t.removeEmployee(id)
		}
	}
	delete(t.departments, d.ID)

	return nil
}
