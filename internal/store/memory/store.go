package memory

import (
	"sort"
	"sync"

	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store using in-memory storage.
// Data is lost on restart; it backs development servers and tests.
type Store struct {
	mu sync.RWMutex

	tenants map[int64]*tenant // org_id -> tenant data

	nextOrgID  int64
	nextDeptID int64
	nextEmpID  int64
}

type shiftKey struct {
	day  models.DayOfWeek
	slot models.TimeSlot
}

type tenant struct {
	org         models.Organization
	departments map[int64]*models.Department // internal dept id -> department (Employees unset)
	employees   map[int64]*models.Employee   // internal employee id -> employee
	shifts      map[shiftKey]int64           // (day, slot) -> internal employee id

	nextDeptExternalID int64
	nextEmpExternalID  int64
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		tenants: make(map[int64]*tenant),
	}
}

// tenant returns the tenant for orgID. Callers must hold s.mu.
func (s *Store) tenant(orgID int64) (*tenant, error) {
	t, ok := s.tenants[orgID]
	if !ok {
		return nil, store.ErrOrganizationNotFound
	}
	return t, nil
}

func (t *tenant) employeeByExternalID(externalID int64) (*models.Employee, bool) {
	for _, e := range t.employees {
		if e.ExternalID == externalID {
			return e, true
		}
	}
	return nil, false
}

func (t *tenant) departmentByExternalID(externalID int64) (*models.Department, bool) {
	for _, d := range t.departments {
		if d.ExternalID == externalID {
			return d, true
		}
	}
	return nil, false
}

// departmentView clones a department and populates its employees.
func (t *tenant) departmentView(d *models.Department) *models.Department {
	clone := cloneDepartment(d)
	for _, e := range t.sortedEmployees() {
		if e.DepartmentID == d.ID {
			clone.Employees = append(clone.Employees, e)
		}
	}
	return clone
}

// sortedEmployees returns clones of all employees ordered by internal id.
func (t *tenant) sortedEmployees() []*models.Employee {
	result := make([]*models.Employee, 0, len(t.employees))
	for _, e := range t.employees {
		result = append(result, cloneEmployee(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (t *tenant) removeEmployee(id int64) {
	delete(t.employees, id)
	for key, empID := range t.shifts {
		if empID == id {
			delete(t.shifts, key)
		}
	}
	for _, d := range t.departments {
		if d.HeadEmployeeID != nil && *d.HeadEmployeeID == id {
			d.HeadEmployeeID = nil
		}
	}
}

func cloneEmployee(e *models.Employee) *models.Employee {
	clone := *e
	return &clone
}

func cloneDepartment(d *models.Department) *models.Department {
	clone := *d
	clone.Employees = nil
	if d.HeadEmployeeID != nil {
		head := *d.HeadEmployeeID
		clone.HeadEmployeeID = &head
	}
	return &clone
}
