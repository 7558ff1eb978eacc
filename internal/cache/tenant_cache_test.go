package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
	"golang.org/x/sync/errgroup"
)

func TestTenantCache_UpdateEmployee(t *testing.T) {
	t.Run("replaces record in every list", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		tc, err := NewRegistry(f.store).GetOrCreate(ctx, f.orgID)
		require.NoError(t, err)

		before := tc.Organization()

		updated := *f.ada
		updated.Position = "Principal Engineer"
		updated.Salary = decimal.NewFromInt(9000)
		require.NoError(t, tc.UpdateEmployee(ctx, &updated))

		after := tc.Organization()
		emp, ok := after.EmployeeByExternalID(f.ada.ExternalID)
		require.True(t, ok)
		require.Equal(t, "Principal Engineer", emp.Position)

		dept, ok := after.DepartmentByExternalID(f.dept.ExternalID)
		require.True(t, ok)
		for _, e := range dept.Employees {
			if e.ID == f.ada.ID {
				require.Same(t, emp, e)
			}
		}

		// the previous snapshot is untouched
		old, ok := before.EmployeeByExternalID(f.ada.ExternalID)
		require.True(t, ok)
		require.Equal(t, "Engineer", old.Position)

		stored, err := f.store.GetEmployee(ctx, f.orgID, f.ada.ExternalID)
		require.NoError(t, err)
		require.Equal(t, "Principal Engineer", stored.Position)
	})

	t.Run("store failure leaves cache untouched", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		tc, err := NewRegistry(f.store).GetOrCreate(ctx, f.orgID)
		require.NoError(t, err)

		before := tc.Organization()
		f.store.failUpdate = errStoreDown

		updated := *f.ada
		updated.Position = "CTO"
		require.ErrorIs(t, tc.UpdateEmployee(ctx, &updated), errStoreDown)

		require.Same(t, before, tc.Organization())
		emp, _ := tc.Employee(f.ada.ExternalID)
		require.Equal(t, "Engineer", emp.Position)
	})

	t.Run("readers never see a torn snapshot", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		tc, err := NewRegistry(f.store).GetOrCreate(ctx, f.orgID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		stop := make(chan struct{})

		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
					}
					org := tc.Organization()
					top, _ := org.EmployeeByExternalID(f.ada.ExternalID)
					dept, _ := org.DepartmentByExternalID(f.dept.ExternalID)
					for _, e := range dept.Employees {
						if e.ID == top.ID && e.Position != top.Position {
							t.Errorf("torn snapshot: %q vs %q", e.Position, top.Position)
							return
						}
					}
				}
			}()
		}

		for i := range 100 {
			updated := *f.ada
			updated.Performance = float64(i)
			updated.Position = decimal.NewFromInt(int64(i)).String()
			require.NoError(t, tc.UpdateEmployee(ctx, &updated))
		}
		close(stop)
		wg.Wait()
	})
}

func TestTenantCache_ModifyEmployee(t *testing.T) {
	t.Run("concurrent patches compose", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		tc, err := NewRegistry(f.store).GetOrCreate(ctx, f.orgID)
		require.NoError(t, err)

		var g errgroup.Group
		for range 50 {
			g.Go(func() error {
				return tc.ModifyEmployee(ctx, f.ada.ExternalID, func(emp *models.Employee) {
					emp.Salary = emp.Salary.Add(decimal.NewFromInt(1))
				})
			})
		}
		require.NoError(t, g.Wait())

		emp, ok := tc.Employee(f.ada.ExternalID)
		require.True(t, ok)
		require.Equal(t, "5050", emp.Salary.String())

		stored, err := f.store.GetEmployee(ctx, f.orgID, f.ada.ExternalID)
		require.NoError(t, err)
		require.Equal(t, "5050", stored.Salary.String())
	})

	t.Run("unknown employee", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		tc, err := NewRegistry(f.store).GetOrCreate(ctx, f.orgID)
		require.NoError(t, err)

		err = tc.ModifyEmployee(ctx, 404, func(*models.Employee) {
			t.Fatal("patch applied to a missing employee")
		})
		require.ErrorIs(t, err, store.ErrEmployeeNotFound)
	})
}

func TestTenantCache_Mutations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tc, err := NewRegistry(f.store).GetOrCreate(ctx, f.orgID)
	require.NoError(t, err)

	t.Run("add employee", func(t *testing.T) {
		id, err := tc.AddEmployeeToDepartment(ctx, f.dept.ExternalID, &models.Employee{Name: "Linus", Position: "Engineer"})
		require.NoError(t, err)

		emp, ok := tc.Employee(id)
		require.True(t, ok)
		require.Equal(t, "Linus", emp.Name)

		_, err = tc.AddEmployeeToDepartment(ctx, 999, &models.Employee{Name: "Nobody"})
		require.ErrorIs(t, err, store.ErrDepartmentNotFound)
	})

	t.Run("set head", func(t *testing.T) {
		dept, ok := tc.Department(f.dept.ExternalID)
		require.True(t, ok)

		next := dept.Clone()
		next.HeadEmployeeID = &f.grace.ID
		require.NoError(t, tc.UpdateDepartment(ctx, next))

		dept, _ = tc.Department(f.dept.ExternalID)
		head, ok := dept.Head()
		require.True(t, ok)
		require.Equal(t, "Grace", head.Name)
	})

	t.Run("remove employee from wrong department", func(t *testing.T) {
		other, err := tc.InsertDepartment(ctx, &models.Department{Name: "Sales"})
		require.NoError(t, err)

		err = tc.RemoveEmployeeFromDepartment(ctx, other.ExternalID, f.ada.ExternalID)
		require.ErrorIs(t, err, store.ErrEmployeeNotFound)

		require.NoError(t, tc.RemoveEmployeeFromDepartment(ctx, f.dept.ExternalID, f.ada.ExternalID))
		_, ok := tc.Employee(f.ada.ExternalID)
		require.False(t, ok)
	})

	t.Run("rename and remove department", func(t *testing.T) {
		require.NoError(t, tc.UpdateOrganization(ctx, "Acme Holdings"))
		require.Equal(t, "Acme Holdings", tc.Organization().Name)

		require.NoError(t, tc.RemoveDepartment(ctx, f.dept.ExternalID))
		_, ok := tc.Department(f.dept.ExternalID)
		require.False(t, ok)
		_, ok = tc.Employee(f.grace.ExternalID)
		require.False(t, ok)
	})
}
