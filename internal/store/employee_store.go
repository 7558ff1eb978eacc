package store

import (
	"context"

	"github.com/wolfeidau/hrroster/internal/models"
)

// EmployeeStore defines employee storage operations within an organization.
type EmployeeStore interface {
	// GetEmployees returns all employees of the organization.
	GetEmployees(ctx context.Context, orgID int64) ([]*models.Employee, error)

	// GetEmployee returns an employee by external ID.
	// Returns ErrEmployeeNotFound if the employee doesn't exist.
	GetEmployee(ctx context.Context, orgID, externalEmployeeID int64) (*models.Employee, error)

	// AddEmployeeToDepartment creates an employee in the department identified by its
	// internal ID and returns the new internal employee ID. The external ID is assigned
	// by the store and written back to emp.
	// Returns ErrDepartmentNotFound if the department doesn't exist.
	AddEmployeeToDepartment(ctx context.Context, orgID, deptID int64, emp *models.Employee) (int64, error)

	// UpdateEmployee updates the employee identified by its internal ID.
	// Returns ErrEmployeeNotFound if the employee doesn't exist.
	UpdateEmployee(ctx context.Context, orgID int64, emp *models.Employee) error

	// RemoveEmployeeFromDepartment deletes the employee (internal ID) from the
	// department (internal ID) together with the employee's shifts.
	// Returns ErrEmployeeNotFound if the employee is not in that department.
	RemoveEmployeeFromDepartment(ctx context.Context, orgID, deptID, employeeID int64) error
}
