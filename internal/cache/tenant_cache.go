package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
	"github.com/wolfeidau/hrroster/internal/telemetry"
)

// TenantCache holds the in-memory snapshot of one organization.
//
// Writes go to the store first and are serialized by mu. The snapshot is
// swapped atomically once a write succeeds, so readers observe either the
// snapshot before a write or the one after it.
type TenantCache struct {
	orgID   int64
	store   store.Store
	metrics *telemetry.Metrics

	mu       sync.Mutex
	snapshot atomic.Pointer[models.Organization]
}

func newTenantCache(st store.Store, org *models.Organization) *TenantCache {
	tc := &TenantCache{
		orgID:   org.ID,
		store:   st,
		metrics: telemetry.GetMetrics(),
	}
	tc.snapshot.Store(org)
	return tc
}

// OrgID returns the id of the cached organization.
func (tc *TenantCache) OrgID() int64 {
	return tc.orgID
}

// Organization returns the current snapshot. The snapshot is shared and must not be modified.
func (tc *TenantCache) Organization() *models.Organization {
	return tc.snapshot.Load()
}

// Employee looks up an employee by external id in the current snapshot.
func (tc *TenantCache) Employee(externalID int64) (*models.Employee, bool) {
	return tc.Organization().EmployeeByExternalID(externalID)
}

// Department looks up a department by external id in the current snapshot.
func (tc *TenantCache) Department(externalID int64) (*models.Department, bool) {
	return tc.Organization().DepartmentByExternalID(externalID)
}

// UpdateEmployee writes emp through to the store, then replaces the record with
// the same internal id in the organization list and every department list.
// If the store rejects the write the snapshot is left untouched.
func (tc *TenantCache) UpdateEmployee(ctx context.Context, emp *models.Employee) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	return tc.updateEmployeeLocked(ctx, emp)
}

// ModifyEmployee applies patch to a copy of the current record of the employee with
// the given external id and writes the result through. The read, the patch and the
// write all happen under the cache lock, so concurrent partial updates compose.
// Returns store.ErrEmployeeNotFound if the employee isn't cached.
func (tc *TenantCache) ModifyEmployee(ctx context.Context, externalID int64, patch func(*models.Employee)) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	current, ok := tc.snapshot.Load().EmployeeByExternalID(externalID)
	if !ok {
		return store.ErrEmployeeNotFound
	}

	updated := *current
	patch(&updated)

	return tc.updateEmployeeLocked(ctx, &updated)
}

func (tc *TenantCache) updateEmployeeLocked(ctx context.Context, emp *models.Employee) error {
	current := tc.snapshot.Load()

	updated := *emp
	for _, e := range current.Employees {
		if e.ID == emp.ID {
			updated.ExternalID = e.ExternalID
			updated.DepartmentID = e.DepartmentID
			updated.HireDate = e.HireDate
			break
		}
	}

	if err := tc.store.UpdateEmployee(ctx, tc.orgID, &updated); err != nil {
		log.Warn().
			Err(err).
			Int64("org_id", tc.orgID).
			Int64("employee_id", updated.ExternalID).
			Msg("Store rejected employee update, cache unchanged")
		return err
	}

	next := current.Clone()
	replaceEmployee(next.Employees, &updated)
	for _, d := range next.Departments {
		replaceEmployee(d.Employees, &updated)
	}
	tc.snapshot.Store(next)

	log.Debug().
		Int64("org_id", tc.orgID).
		Int64("employee_id", updated.ExternalID).
		Msg("Updated employee")

	return nil
}

// AddEmployeeToDepartment creates emp in the department with the given external id
// and returns the employee's new external id.
func (tc *TenantCache) AddEmployeeToDepartment(ctx context.Context, deptExternalID int64, emp *models.Employee) (int64, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	dept, ok := tc.snapshot.Load().DepartmentByExternalID(deptExternalID)
	if !ok {
		return 0, store.ErrDepartmentNotFound
	}

	created := *emp
	if _, err := tc.store.AddEmployeeToDepartment(ctx, tc.orgID, dept.ID, &created); err != nil {
		return 0, err
	}

	if err := tc.reloadLocked(ctx); err != nil {
		return 0, err
	}

	return created.ExternalID, nil
}

// RemoveEmployeeFromDepartment deletes the employee from the department, both by external id.
func (tc *TenantCache) RemoveEmployeeFromDepartment(ctx context.Context, deptExternalID, employeeExternalID int64) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	org := tc.snapshot.Load()

	dept, ok := org.DepartmentByExternalID(deptExternalID)
	if !ok {
		return store.ErrDepartmentNotFound
	}
	emp, ok := org.EmployeeByExternalID(employeeExternalID)
	if !ok || emp.DepartmentID != dept.ID {
		return store.ErrEmployeeNotFound
	}

	if err := tc.store.RemoveEmployeeFromDepartment(ctx, tc.orgID, dept.ID, emp.ID); err != nil {
		return err
	}

	return tc.reloadLocked(ctx)
}

// InsertDepartment creates a department and returns it with its ids assigned.
func (tc *TenantCache) InsertDepartment(ctx context.Context, dept *models.Department) (*models.Department, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	created, err := tc.store.InsertDepartment(ctx, tc.orgID, dept)
	if err != nil {
		return nil, err
	}

	if err := tc.reloadLocked(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateDepartment writes the department's name, budget and head through to the store.
func (tc *TenantCache) UpdateDepartment(ctx context.Context, dept *models.Department) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if err := tc.store.UpdateDepartment(ctx, tc.orgID, dept); err != nil {
		return err
	}

	return tc.reloadLocked(ctx)
}

// RemoveDepartment deletes the department with the given external id and its employees.
func (tc *TenantCache) RemoveDepartment(ctx context.Context, deptExternalID int64) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if err := tc.store.RemoveDepartment(ctx, tc.orgID, deptExternalID); err != nil {
		return err
	}

	return tc.reloadLocked(ctx)
}

// UpdateOrganization renames the organization.
func (tc *TenantCache) UpdateOrganization(ctx context.Context, name string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	next := tc.snapshot.Load().Clone()
	next.Name = name

	if err := tc.store.UpdateOrganization(ctx, next); err != nil {
		return err
	}

	tc.snapshot.Store(next)
	return nil
}

// Reload rebuilds the snapshot from the store.
func (tc *TenantCache) Reload(ctx context.Context) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	return tc.reloadLocked(ctx)
}

func (tc *TenantCache) reloadLocked(ctx context.Context) error {
	org, err := loadOrganization(ctx, tc.store, tc.orgID)
	if err != nil {
		return fmt.Errorf("failed to reload organization %d: %w", tc.orgID, err)
	}

	tc.snapshot.Store(org)
	tc.metrics.CacheRefreshesTotal.Add(ctx, 1)

	return nil
}

// loadOrganization reads an organization with its departments and employees and
// links them so every department list points at the organization's employee records.
func loadOrganization(ctx context.Context, st store.Store, orgID int64) (*models.Organization, error) {
	org, err := st.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	depts, err := st.GetDepartments(ctx, orgID)
	if err != nil {
		return nil, err
	}

	employees, err := st.GetEmployees(ctx, orgID)
	if err != nil {
		return nil, err
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })

	byDept := make(map[int64][]*models.Employee, len(depts))
	for _, e := range employees {
		byDept[e.DepartmentID] = append(byDept[e.DepartmentID], e)
	}
	for _, d := range depts {
		d.Employees = byDept[d.ID]
	}

	org.Departments = depts
	org.Employees = employees

	return org, nil
}

func replaceEmployee(list []*models.Employee, emp *models.Employee) {
	for i, e := range list {
		if e.ID == emp.ID {
			list[i] = emp
		}
	}
}
