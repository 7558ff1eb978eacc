//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*Store, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := NewPool(ctx, &PoolConfig{
		ConnString: fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
	})
	require.NoError(t, err)

	require.NoError(t, RunMigrations(ctx, pool))

	st, err := NewStore(pool, nil)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return st, cleanup
}

func TestIntegration_Roster(t *testing.T) {
	ctx := context.Background()
	st, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	org, err := st.InsertOrganization(ctx, &models.Organization{Name: "Acme"})
	require.NoError(t, err)

	_, err = st.InsertOrganization(ctx, &models.Organization{Name: "Acme"})
	require.ErrorIs(t, err, store.ErrOrganizationAlreadyExists)

	dept, err := st.InsertDepartment(ctx, org.ID, &models.Department{
		Name:   "Engineering",
		Budget: decimal.RequireFromString("250000.50"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), dept.ExternalID)

	ada := &models.Employee{Name: "Ada", Position: "Engineer", Salary: decimal.NewFromInt(9000), Performance: 91}
	_, err = st.AddEmployeeToDepartment(ctx, org.ID, dept.ID, ada)
	require.NoError(t, err)
	require.Equal(t, int64(1), ada.ExternalID)

	grace := &models.Employee{Name: "Grace", Position: "Engineer", Salary: decimal.NewFromInt(8000), Performance: 80}
	_, err = st.AddEmployeeToDepartment(ctx, org.ID, dept.ID, grace)
	require.NoError(t, err)

	t.Run("department round trip", func(t *testing.T) {
		dept.HeadEmployeeID = &ada.ID
		require.NoError(t, st.UpdateDepartment(ctx, org.ID, dept))

		got, err := st.GetDepartment(ctx, org.ID, dept.ExternalID)
		require.NoError(t, err)
		require.True(t, got.Budget.Equal(decimal.RequireFromString("250000.50")))
		require.Len(t, got.Employees, 2)

		head, ok := got.Head()
		require.True(t, ok)
		require.Equal(t, "Ada", head.Name)
	})

	t.Run("update employee", func(t *testing.T) {
		updated := *ada
		updated.Salary = decimal.NewFromInt(9500)
		require.NoError(t, st.UpdateEmployee(ctx, org.ID, &updated))

		got, err := st.GetEmployee(ctx, org.ID, ada.ExternalID)
		require.NoError(t, err)
		require.True(t, got.Salary.Equal(decimal.NewFromInt(9500)))

		missing := updated
		missing.ID = 999999
		require.ErrorIs(t, st.UpdateEmployee(ctx, org.ID, &missing), store.ErrEmployeeNotFound)
	})

	t.Run("shift slot is unique", func(t *testing.T) {
		require.NoError(t, st.AssignShift(ctx, org.ID, ada.ExternalID, models.Monday, models.Morning))
		require.ErrorIs(t, st.AssignShift(ctx, org.ID, grace.ExternalID, models.Monday, models.Morning), store.ErrSlotTaken)
		require.ErrorIs(t, st.AssignShift(ctx, org.ID, 404, models.Monday, models.Evening), store.ErrEmployeeNotFound)

		monday := models.Monday
		shifts, err := st.GetShifts(ctx, org.ID, store.ShiftFilter{Day: &monday})
		require.NoError(t, err)
		require.Len(t, shifts, 1)
		require.Equal(t, "Ada", shifts[0].EmployeeName)

		require.ErrorIs(t, st.RemoveShift(ctx, org.ID, grace.ExternalID, models.Monday, models.Morning), store.ErrShiftNotFound)
		require.NoError(t, st.RemoveShift(ctx, org.ID, ada.ExternalID, models.Monday, models.Morning))
	})

	t.Run("removing employee clears shifts and head", func(t *testing.T) {
		require.NoError(t, st.AssignShift(ctx, org.ID, ada.ExternalID, models.Friday, models.Evening))
		require.NoError(t, st.RemoveEmployeeFromDepartment(ctx, org.ID, dept.ID, ada.ID))

		shifts, err := st.GetShifts(ctx, org.ID, store.ShiftFilter{})
		require.NoError(t, err)
		require.Empty(t, shifts)

		got, err := st.GetDepartment(ctx, org.ID, dept.ExternalID)
		require.NoError(t, err)
		require.Nil(t, got.HeadEmployeeID)
	})

	t.Run("remove organization cascades", func(t *testing.T) {
		require.NoError(t, st.RemoveOrganization(ctx, org.ID))

		_, err := st.GetEmployees(ctx, org.ID)
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
		require.ErrorIs(t, st.RemoveOrganization(ctx, org.ID), store.ErrOrganizationNotFound)
	})
}
