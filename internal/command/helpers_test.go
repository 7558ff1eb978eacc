package command

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/hrroster/internal/cache"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store/memory"
)

// spyStore counts roster writes that reach the store and can hold an employee
// update in flight.
type spyStore struct {
	*memory.Store

	assignCalls atomic.Int64
	removeCalls atomic.Int64
	hold        atomic.Pointer[updateHold]
}

type updateHold struct {
	entered chan struct{}
	release chan struct{}
}

// holdNextUpdate blocks the next UpdateEmployee inside the store until release is closed.
// entered is closed once that update has reached the store.
func (s *spyStore) holdNextUpdate() (entered, release chan struct{}) {
	h := &updateHold{entered: make(chan struct{}), release: make(chan struct{})}
	s.hold.Store(h)
	return h.entered, h.release
}

func (s *spyStore) UpdateEmployee(ctx context.Context, orgID int64, emp *models.Employee) error {
	if h := s.hold.Swap(nil); h != nil {
		close(h.entered)
		<-h.release
	}
	return s.Store.UpdateEmployee(ctx, orgID, emp)
}

func (s *spyStore) AssignShift(ctx context.Context, orgID, employeeID int64, day models.DayOfWeek, slot models.TimeSlot) error {
	s.assignCalls.Add(1)
	return s.Store.AssignShift(ctx, orgID, employeeID, day, slot)
}

func (s *spyStore) RemoveShift(ctx context.Context, orgID, employeeID int64, day models.DayOfWeek, slot models.TimeSlot) error {
	s.removeCalls.Add(1)
	return s.Store.RemoveShift(ctx, orgID, employeeID, day, slot)
}

type env struct {
	exec  *Executor
	store *spyStore
	orgID int64
	dept  int64 // external department id
	ada   int64 // external employee ids
	grace int64
	linus int64
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	st := &spyStore{Store: memory.NewStore()}
	exec, err := NewExecutor(cache.NewRegistry(st))
	require.NoError(t, err)

	res, err := exec.Execute(ctx, InsertOrganization{Name: "Acme"})
	require.NoError(t, err)
	require.True(t, res.OK())
	orgID := res.Fields["id"].(int64)

	res, err = exec.Execute(ctx, InsertDepartment{OrgID: orgID, Name: "Engineering", Budget: decimal.NewFromInt(30000)})
	require.NoError(t, err)
	require.True(t, res.OK())
	deptID := res.Fields["departmentId"].(int64)

	add := func(name, position string, salary int64, perf float64) int64 {
		res, err := exec.Execute(ctx, AddEmployeeToDepartment{
			OrgID:        orgID,
			DepartmentID: deptID,
			Employee: models.Employee{
				Name:        name,
				Position:    position,
				Salary:      decimal.NewFromInt(salary),
				Performance: perf,
				HireDate:    time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			},
		})
		require.NoError(t, err)
		require.True(t, res.OK(), res.Message())
		return res.Fields["employeeId"].(int64)
	}

	return &env{
		exec:  exec,
		store: st,
		orgID: orgID,
		dept:  deptID,
		ada:   add("Ada", "Engineer", 9000, 92),
		grace: add("Grace", "Manager", 11000, 75),
		linus: add("Linus", "Engineer", 7000, 60),
	}
}

func (e *env) execute(t *testing.T, cmd Command) *Result {
	t.Helper()
	res, err := e.exec.Execute(context.Background(), cmd)
	require.NoError(t, err)
	return res
}
