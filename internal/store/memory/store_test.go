package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

func newTenant(t *testing.T, st *Store) (org *models.Organization, dept *models.Department, emp *models.Employee) {
	t.Helper()
	ctx := context.Background()

	org, err := st.InsertOrganization(ctx, &models.Organization{Name: "Acme"})
	require.NoError(t, err)

	dept, err = st.InsertDepartment(ctx, org.ID, &models.Department{
		Name:   "Engineering",
		Budget: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	emp = &models.Employee{
		Name:        "Ada",
		Position:    "Engineer",
		Salary:      decimal.NewFromInt(5000),
		Performance: 88,
		HireDate:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	_, err = st.AddEmployeeToDepartment(ctx, org.ID, dept.ID, emp)
	require.NoError(t, err)

	return org, dept, emp
}

func TestNewStore(t *testing.T) {
	st := NewStore()
	require.NotNil(t, st)
}

func TestMemoryStore_Organization(t *testing.T) {
	t.Run("insert assigns ids", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		first, err := st.InsertOrganization(ctx, &models.Organization{Name: "first"})
		require.NoError(t, err)
		second, err := st.InsertOrganization(ctx, &models.Organization{Name: "second"})
		require.NoError(t, err)

		require.NotZero(t, first.ID)
		require.NotEqual(t, first.ID, second.ID)
	})

	t.Run("insert duplicate name returns error", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()

		_, err := st.InsertOrganization(ctx, &models.Organization{Name: "dup"})
		require.NoError(t, err)

		_, err = st.InsertOrganization(ctx, &models.Organization{Name: "dup"})
		require.Equal(t, store.ErrOrganizationAlreadyExists, err)
	})

	t.Run("get nonexistent organization returns error", func(t *testing.T) {
		st := NewStore()

		_, err := st.GetOrganization(context.Background(), 42)
		require.Equal(t, store.ErrOrganizationNotFound, err)
	})

	t.Run("update and remove", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, _, _ := newTenant(t, st)

		org.Name = "Acme Corp"
		require.NoError(t, st.UpdateOrganization(ctx, org))

		got, err := st.GetOrganization(ctx, org.ID)
		require.NoError(t, err)
		require.Equal(t, "Acme Corp", got.Name)

		require.NoError(t, st.RemoveOrganization(ctx, org.ID))
		require.Equal(t, store.ErrOrganizationNotFound, st.RemoveOrganization(ctx, org.ID))

		_, err = st.GetEmployees(ctx, org.ID)
		require.Equal(t, store.ErrOrganizationNotFound, err)
	})
}

func TestMemoryStore_Departments(t *testing.T) {
	t.Run("departments carry their employees", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, dept, emp := newTenant(t, st)

		depts, err := st.GetDepartments(ctx, org.ID)
		require.NoError(t, err)
		require.Len(t, depts, 1)
		require.Equal(t, dept.ExternalID, depts[0].ExternalID)
		require.Len(t, depts[0].Employees, 1)
		require.Equal(t, emp.ID, depts[0].Employees[0].ID)
	})

	t.Run("external ids are per organization", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org1, dept1, _ := newTenant(t, st)

		org2, err := st.InsertOrganization(ctx, &models.Organization{Name: "Other"})
		require.NoError(t, err)
		dept2, err := st.InsertDepartment(ctx, org2.ID, &models.Department{Name: "Ops"})
		require.NoError(t, err)

		require.Equal(t, dept1.ExternalID, dept2.ExternalID)
		require.NotEqual(t, dept1.ID, dept2.ID)

		_, err = st.GetDepartment(ctx, org1.ID, dept1.ExternalID)
		require.NoError(t, err)
	})

	t.Run("set head requires a member", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, dept, emp := newTenant(t, st)

		dept.HeadEmployeeID = &emp.ID
		require.NoError(t, st.UpdateDepartment(ctx, org.ID, dept))

		got, err := st.GetDepartment(ctx, org.ID, dept.ExternalID)
		require.NoError(t, err)
		head, ok := got.Head()
		require.True(t, ok)
		require.Equal(t, emp.ID, head.ID)

		stranger := int64(999)
		dept.HeadEmployeeID = &stranger
		require.Equal(t, store.ErrEmployeeNotFound, st.UpdateDepartment(ctx, org.ID, dept))
	})

	t.Run("remove department removes employees and shifts", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, dept, emp := newTenant(t, st)

		require.NoError(t, st.AssignShift(ctx, org.ID, emp.ExternalID, models.Monday, models.Morning))
		require.NoError(t, st.RemoveDepartment(ctx, org.ID, dept.ExternalID))

		emps, err := st.GetEmployees(ctx, org.ID)
		require.NoError(t, err)
		require.Empty(t, emps)

		shifts, err := st.GetShifts(ctx, org.ID, store.ShiftFilter{})
		require.NoError(t, err)
		require.Empty(t, shifts)

		require.Equal(t, store.ErrDepartmentNotFound, st.RemoveDepartment(ctx, org.ID, dept.ExternalID))
	})
}

func TestMemoryStore_Employees(t *testing.T) {
	t.Run("add writes ids back", func(t *testing.T) {
		st := NewStore()
		_, dept, emp := newTenant(t, st)

		require.NotZero(t, emp.ID)
		require.Equal(t, int64(1), emp.ExternalID)
		require.Equal(t, dept.ID, emp.DepartmentID)
	})

	t.Run("add to missing department", func(t *testing.T) {
		st := NewStore()
		org, _, _ := newTenant(t, st)

		id, err := st.AddEmployeeToDepartment(context.Background(), org.ID, 999, &models.Employee{Name: "x"})
		require.Equal(t, store.ErrDepartmentNotFound, err)
		require.Equal(t, int64(-1), id)
	})

	t.Run("update preserves identity", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, _, emp := newTenant(t, st)

		updated := *emp
		updated.Position = "Staff Engineer"
		updated.ExternalID = 77
		require.NoError(t, st.UpdateEmployee(ctx, org.ID, &updated))

		got, err := st.GetEmployee(ctx, org.ID, emp.ExternalID)
		require.NoError(t, err)
		require.Equal(t, "Staff Engineer", got.Position)
	})

	t.Run("returned employees are copies", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, _, emp := newTenant(t, st)

		got, err := st.GetEmployee(ctx, org.ID, emp.ExternalID)
		require.NoError(t, err)
		got.Name = "modified"

		again, err := st.GetEmployee(ctx, org.ID, emp.ExternalID)
		require.NoError(t, err)
		require.Equal(t, "Ada", again.Name)
	})

	t.Run("remove from wrong department", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, dept, emp := newTenant(t, st)

		require.Equal(t, store.ErrEmployeeNotFound, st.RemoveEmployeeFromDepartment(ctx, org.ID, dept.ID+1, emp.ID))
		require.NoError(t, st.RemoveEmployeeFromDepartment(ctx, org.ID, dept.ID, emp.ID))

		_, err := st.GetEmployee(ctx, org.ID, emp.ExternalID)
		require.Equal(t, store.ErrEmployeeNotFound, err)
	})
}

func TestMemoryStore_Shifts(t *testing.T) {
	t.Run("slot is unique across employees", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, dept, emp := newTenant(t, st)

		other := &models.Employee{Name: "Grace", Position: "Engineer"}
		_, err := st.AddEmployeeToDepartment(ctx, org.ID, dept.ID, other)
		require.NoError(t, err)

		require.NoError(t, st.AssignShift(ctx, org.ID, emp.ExternalID, models.Monday, models.Morning))
		require.Equal(t, store.ErrSlotTaken, st.AssignShift(ctx, org.ID, other.ExternalID, models.Monday, models.Morning))
		require.Equal(t, store.ErrSlotTaken, st.AssignShift(ctx, org.ID, emp.ExternalID, models.Monday, models.Morning))
		require.NoError(t, st.AssignShift(ctx, org.ID, other.ExternalID, models.Monday, models.Evening))
	})

	t.Run("unknown employee", func(t *testing.T) {
		st := NewStore()
		org, _, _ := newTenant(t, st)

		err := st.AssignShift(context.Background(), org.ID, 404, models.Monday, models.Morning)
		require.Equal(t, store.ErrEmployeeNotFound, err)
	})

	t.Run("filters", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, _, emp := newTenant(t, st)

		require.NoError(t, st.AssignShift(ctx, org.ID, emp.ExternalID, models.Monday, models.Morning))
		require.NoError(t, st.AssignShift(ctx, org.ID, emp.ExternalID, models.Tuesday, models.Evening))

		all, err := st.GetShifts(ctx, org.ID, store.ShiftFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)

		tuesday := models.Tuesday
		filtered, err := st.GetShifts(ctx, org.ID, store.ShiftFilter{Day: &tuesday})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		require.Equal(t, models.Evening, filtered[0].Slot)
		require.Equal(t, "Ada", filtered[0].EmployeeName)

		nobody := int64(99)
		none, err := st.GetShifts(ctx, org.ID, store.ShiftFilter{EmployeeID: &nobody})
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("remove requires matching employee", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, _, emp := newTenant(t, st)

		require.NoError(t, st.AssignShift(ctx, org.ID, emp.ExternalID, models.Friday, models.Afternoon))
		require.Equal(t, store.ErrShiftNotFound, st.RemoveShift(ctx, org.ID, emp.ExternalID+1, models.Friday, models.Afternoon))
		require.NoError(t, st.RemoveShift(ctx, org.ID, emp.ExternalID, models.Friday, models.Afternoon))
		require.Equal(t, store.ErrShiftNotFound, st.RemoveShift(ctx, org.ID, emp.ExternalID, models.Friday, models.Afternoon))
	})

	t.Run("concurrent assignment admits one winner", func(t *testing.T) {
		st := NewStore()
		ctx := context.Background()
		org, _, emp := newTenant(t, st)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := st.AssignShift(ctx, org.ID, emp.ExternalID, models.Sunday, models.Evening); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, successes)
	})
}
