package store

import (
	"context"

	"github.com/wolfeidau/hrroster/internal/models"
)

// OrganizationStore defines the interface for organization storage operations.
// Organizations represent tenants in the system.
type OrganizationStore interface {
	// InsertOrganization creates a new organization and returns it with its assigned ID.
	// Departments and employees on the input are ignored.
	// Returns ErrOrganizationAlreadyExists if an organization with the same name exists.
	InsertOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error)

	// GetOrganization retrieves an organization by ID without its departments or employees.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	GetOrganization(ctx context.Context, orgID int64) (*models.Organization, error)

	// UpdateOrganization updates the organization's own fields.
	// Returns ErrOrganizationNotFound if the organization doesn't exist and
	// ErrOrganizationAlreadyExists if the new name is taken.
	UpdateOrganization(ctx context.Context, org *models.Organization) error

	// RemoveOrganization deletes an organization with all of its departments,
	// employees and shifts.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	RemoveOrganization(ctx context.Context, orgID int64) error
}

// DepartmentStore defines department storage operations within an organization.
type DepartmentStore interface {
	// GetDepartments returns all departments of the organization with their employees populated.
	GetDepartments(ctx context.Context, orgID int64) ([]*models.Department, error)

	// GetDepartment returns a department by external ID with its employees populated.
	// Returns ErrDepartmentNotFound if the department doesn't exist.
	GetDepartment(ctx context.Context, orgID, externalDeptID int64) (*models.Department, error)

	// InsertDepartment creates a department and returns it with its internal and external IDs assigned.
	InsertDepartment(ctx context.Context, orgID int64, dept *models.Department) (*models.Department, error)

	// UpdateDepartment updates name, budget and head of the department identified by its internal ID.
	// Returns ErrDepartmentNotFound if the department doesn't exist.
	UpdateDepartment(ctx context.Context, orgID int64, dept *models.Department) error

	// RemoveDepartment deletes a department by external ID along with its employees.
	// Returns ErrDepartmentNotFound if the department doesn't exist.
	RemoveDepartment(ctx context.Context, orgID, externalDeptID int64) error
}
