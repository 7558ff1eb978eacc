package memory

import (
	"context"

	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

// GetEmployees returns all employees of the organization ordered by internal id.
func (s *Store) GetEmployees(ctx context.Context, orgID int64) ([]*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return nil, err
	}

	return t.sortedEmployees(), nil
}

// GetEmployee returns an employee by external ID.
func (s *Store) GetEmployee(ctx context.Context, orgID, externalEmployeeID int64) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return nil, err
	}

	e, ok := t.employeeByExternalID(externalEmployeeID)
	if !ok {
		return nil, store.ErrEmployeeNotFound
	}

	return cloneEmployee(e), nil
}

// AddEmployeeToDepartment creates an employee in the department.
func (s *Store) AddEmployeeToDepartment(ctx context.Context, orgID, deptID int64, emp *models.Employee) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return -1, err
	}

	if _, ok := t.departments[deptID]; !ok {
		return -1, store.ErrDepartmentNotFound
	}

	s.nextEmpID++
	t.nextEmpExternalID++

	e := cloneEmployee(emp)
	e.ID = s.nextEmpID
	e.ExternalID = t.nextEmpExternalID
	e.DepartmentID = deptID
	t.employees[e.ID] = e

	emp.ID = e.ID
	emp.ExternalID = e.ExternalID
	emp.DepartmentID = deptID

	return e.ID, nil
}

// UpdateEmployee replaces the stored employee with the same internal ID.
// Identity fields (external id, department) are preserved.
func (s *Store) UpdateEmployee(ctx context.Context, orgID int64, emp *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return err
	}

	current, ok := t.employees[emp.ID]
	if !ok {
		return store.ErrEmployeeNotFound
	}

	updated := cloneEmployee(emp)
	updated.ExternalID = current.ExternalID
	updated.DepartmentID = current.DepartmentID
	t.employees[emp.ID] = updated

	return nil
}

// RemoveEmployeeFromDepartment deletes the employee and their shifts.
func (s *Store) RemoveEmployeeFromDepartment(ctx context.Context, orgID, deptID, employeeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return err
	}

	e, ok := t.employees[employeeID]
	if !ok || e.DepartmentID != deptID {
		return store.ErrEmployeeNotFound
	}

	t.removeEmployee(employeeID)

	return nil
}
