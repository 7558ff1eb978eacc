package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

const employeeColumns = `
	SELECT id, external_id, department_id, name, position, salary, performance, hire_date
	FROM employees
`

// GetEmployees returns all employees of the organization.
func (s *Store) GetEmployees(ctx context.Context, orgID int64) ([]*models.Employee, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	if err := s.ensureOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	return s.listEmployees(ctx, orgID)
}

func (s *Store) listEmployees(ctx context.Context, orgID int64) ([]*models.Employee, error) {
	rows, err := s.pool.Query(ctx, employeeColumns+`
		WHERE org_id = $1
		ORDER BY id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", mapPostgresError(err))
	}

	return collectEmployees(rows)
}

// GetEmployee returns an employee by external ID.
func (s *Store) GetEmployee(ctx context.Context, orgID, externalEmployeeID int64) (*models.Employee, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, employeeColumns+`
		WHERE org_id = $1 AND external_id = $2
	`, orgID, externalEmployeeID)

	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEmployeeNotFound
		}
		return nil, err
	}

	return emp, nil
}

// AddEmployeeToDepartment inserts the employee and writes the assigned ids back to emp.
func (s *Store) AddEmployeeToDepartment(ctx context.Context, orgID, deptID int64, emp *models.Employee) (int64, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return -1, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	var found int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM departments WHERE org_id = $1 AND id = $2
	`, orgID, deptID).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return -1, store.ErrDepartmentNotFound
		}
		return -1, fmt.Errorf("failed to check department: %w", mapPostgresError(err))
	}

	externalID, err := nextExternalID(ctx, tx, orgID, "next_employee_external_id")
	if err != nil {
		return -1, err
	}

	hireDate := emp.HireDate
	if hireDate.IsZero() {
		hireDate = time.Now().UTC()
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO employees (org_id, department_id, external_id, name, position, salary, performance, hire_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, orgID, deptID, externalID, emp.Name, emp.Position, emp.Salary, emp.Performance, hireDate).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to create employee: %w", mapPostgresError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return -1, fmt.Errorf("failed to commit employee: %w", err)
	}

	emp.ID = id
	emp.ExternalID = externalID
	emp.DepartmentID = deptID
	emp.HireDate = hireDate

	log.Debug().
		Int64("org_id", orgID).
		Int64("employee_id", externalID).
		Msg("Added employee to department")

	return id, nil
}

// UpdateEmployee updates the mutable fields of the employee with the given internal ID.
func (s *Store) UpdateEmployee(ctx context.Context, orgID int64, emp *models.Employee) error {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	result, err := s.pool.Exec(ctx, `
		UPDATE employees SET
			name = $3,
			position = $4,
			salary = $5,
			performance = $6
		WHERE org_id = $1 AND id = $2
	`, orgID, emp.ID, emp.Name, emp.Position, emp.Salary, emp.Performance)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrEmployeeNotFound
	}

	return nil
}

// RemoveEmployeeFromDepartment deletes the employee. Shifts cascade and a
// department head reference is cleared by the FK.
func (s *Store) RemoveEmployeeFromDepartment(ctx context.Context, orgID, deptID, employeeID int64) error {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	result, err := s.pool.Exec(ctx, `
		DELETE FROM employees WHERE org_id = $1 AND department_id = $2 AND id = $3
	`, orgID, deptID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrEmployeeNotFound
	}

	log.Debug().
		Int64("org_id", orgID).
		Int64("employee_internal_id", employeeID).
		Msg("Removed employee from department")

	return nil
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var emp models.Employee
	err := row.Scan(
		&emp.ID,
		&emp.ExternalID,
		&emp.DepartmentID,
		&emp.Name,
		&emp.Position,
		&emp.Salary,
		&emp.Performance,
		&emp.HireDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &emp, nil
}

func collectEmployees(rows pgx.Rows) ([]*models.Employee, error) {
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}
