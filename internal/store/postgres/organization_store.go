package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

// InsertOrganization creates a new organization in the database.
func (s *Store) InsertOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO organizations (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`

	var created models.Organization
	err := s.pool.QueryRow(ctx, query, org.Name).Scan(
		&created.ID,
		&created.Name,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrOrganizationAlreadyExists
		}
		return nil, fmt.Errorf("failed to create organization: %w", mapPostgresError(err))
	}

	log.Debug().
		Int64("org_id", created.ID).
		Str("name", created.Name).
		Msg("Created organization")

	return &created, nil
}

// GetOrganization retrieves an organization by ID.
func (s *Store) GetOrganization(ctx context.Context, orgID int64) (*models.Organization, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, name, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var org models.Organization
	err := s.pool.QueryRow(ctx, query, orgID).Scan(
		&org.ID,
		&org.Name,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", mapPostgresError(err))
	}

	return &org, nil
}

// UpdateOrganization updates an existing organization.
func (s *Store) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE organizations SET
			name = $2,
			updated_at = now()
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query, org.ID, org.Name)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Debug().
		Int64("org_id", org.ID).
		Msg("Updated organization")

	return nil
}

// RemoveOrganization deletes an organization by ID.
// Departments, employees and shifts are cascade-deleted via FK constraints.
func (s *Store) RemoveOrganization(ctx context.Context, orgID int64) error {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	result, err := s.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Info().
		Int64("org_id", orgID).
		Msg("Deleted organization (and cascade-deleted departments, employees and shifts)")

	return nil
}

// GetDepartments returns all departments of the organization with their employees.
func (s *Store) GetDepartments(ctx context.Context, orgID int64) ([]*models.Department, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	if err := s.ensureOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, external_id, name, budget, head_employee_id
		FROM departments
		WHERE org_id = $1
		ORDER BY id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var (
		depts []*models.Department
		byID  = make(map[int64]*models.Department)
	)
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		depts = append(depts, dept)
		byID[dept.ID] = dept
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating departments: %w", err)
	}

	employees, err := s.listEmployees(ctx, orgID)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		if dept, ok := byID[e.DepartmentID]; ok {
			dept.Employees = append(dept.Employees, e)
		}
	}

	return depts, nil
}

// GetDepartment returns a department by external ID with its employees.
func (s *Store) GetDepartment(ctx context.Context, orgID, externalDeptID int64) (*models.Department, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `
		SELECT id, external_id, name, budget, head_employee_id
		FROM departments
		WHERE org_id = $1 AND external_id = $2
	`, orgID, externalDeptID)

	dept, err := scanDepartment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrDepartmentNotFound
		}
		return nil, err
	}

	rows, err := s.pool.Query(ctx, employeeColumns+`
		WHERE org_id = $1 AND department_id = $2
		ORDER BY id
	`, orgID, dept.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department employees: %w", mapPostgresError(err))
	}
	dept.Employees, err = collectEmployees(rows)
	if err != nil {
		return nil, err
	}

	return dept, nil
}

// InsertDepartment creates a department, allocating its external id from the organization.
func (s *Store) InsertDepartment(ctx context.Context, orgID int64, dept *models.Department) (*models.Department, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	externalID, err := nextExternalID(ctx, tx, orgID, "next_department_external_id")
	if err != nil {
		return nil, err
	}

	created := &models.Department{
		ExternalID: externalID,
		Name:       dept.Name,
		Budget:     dept.Budget,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO departments (org_id, external_id, name, budget)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, orgID, externalID, dept.Name, dept.Budget).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", mapPostgresError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit department: %w", err)
	}

	log.Debug().
		Int64("org_id", orgID).
		Int64("department_id", created.ExternalID).
		Msg("Created department")

	return created, nil
}

// UpdateDepartment updates name, budget and head of a department.
// The head, when set, must be an employee of the department.
func (s *Store) UpdateDepartment(ctx context.Context, orgID int64, dept *models.Department) error {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	var locked int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM departments WHERE org_id = $1 AND id = $2 FOR UPDATE
	`, orgID, dept.ID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to lock department: %w", mapPostgresError(err))
	}

	if dept.HeadEmployeeID != nil {
		var member bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1 AND department_id = $2)
		`, *dept.HeadEmployeeID, dept.ID).Scan(&member)
		if err != nil {
			return fmt.Errorf("failed to check department head: %w", mapPostgresError(err))
		}
		if !member {
			return store.ErrEmployeeNotFound
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE departments SET
			name = $3,
			budget = $4,
			head_employee_id = $5
		WHERE org_id = $1 AND id = $2
	`, orgID, dept.ID, dept.Name, dept.Budget, dept.HeadEmployeeID)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", mapPostgresError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit department: %w", err)
	}

	return nil
}

// RemoveDepartment deletes a department; employees and their shifts cascade.
func (s *Store) RemoveDepartment(ctx context.Context, orgID, externalDeptID int64) error {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	result, err := s.pool.Exec(ctx, `
		DELETE FROM departments WHERE org_id = $1 AND external_id = $2
	`, orgID, externalDeptID)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrDepartmentNotFound
	}

	log.Info().
		Int64("org_id", orgID).
		Int64("department_id", externalDeptID).
		Msg("Deleted department")

	return nil
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	var dept models.Department
	err := row.Scan(
		&dept.ID,
		&dept.ExternalID,
		&dept.Name,
		&dept.Budget,
		&dept.HeadEmployeeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan department: %w", err)
	}
	return &dept, nil
}
