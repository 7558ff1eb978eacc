package command

import (
	"context"
	"errors"

	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

func (e *Executor) getOrganization(ctx context.Context, c GetOrganization) (*Result, error) {
	tc, err := e.tenant(ctx, c.OrgID)
	if err != nil {
		return nil, err
	}

	org := tc.Organization()

	departments := make([]DepartmentSummary, 0, len(org.Departments))
	departmentIDs := make([]int64, 0, len(org.Departments))
	for _, d := range org.Departments {
		summary := DepartmentSummary{
			ID:            d.ExternalID,
			Name:          d.Name,
			EmployeeCount: len(d.Employees),
		}
		if head, ok := d.Head(); ok {
			summary.Head = head.Name
		}
		departments = append(departments, summary)
		departmentIDs = append(departmentIDs, d.ExternalID)
	}

	return Success(map[string]any{
		"id":             org.ID,
		"name":           org.Name,
		"departments":    departments,
		"departments_id": departmentIDs,
		"employees":      employeeViews(org.Employees),
	}), nil
}

func (e *Executor) insertOrganization(ctx context.Context, c InsertOrganization) (*Result, error) {
	tc, err := e.registry.InsertOrganization(ctx, &models.Organization{Name: c.Name})
	if err != nil {
		if errors.Is(err, store.ErrOrganizationAlreadyExists) {
			return Failed("Organization already exists"), nil
		}
		return nil, err
	}

	return Success(map[string]any{
		"message": "Organization created successfully",
		"id":      tc.OrgID(),
		"name":    tc.Organization().Name,
	}), nil
}

func (e *Executor) renameOrganization(ctx context.Context, c RenameOrganization) (*Result, error) {
	tc, err := e.tenant(ctx, c.OrgID)
	if err != nil {
		return nil, err
	}

	if err := tc.UpdateOrganization(ctx, c.Name); err != nil {
		if errors.Is(err, store.ErrOrganizationAlreadyExists) {
			return Failed("Organization already exists"), nil
		}
		logStoreFailure(ctx, err, c)
		return Failed("Failed to rename organization"), nil
	}

	return Success(map[string]any{
		"message": "Organization renamed successfully",
		"id":      tc.OrgID(),
		"name":    tc.Organization().Name,
	}), nil
}

func (e *Executor) removeOrganization(ctx context.Context, c RemoveOrganization) (*Result, error) {
	if err := e.registry.RemoveOrganization(ctx, c.OrgID); err != nil {
		if errors.Is(err, store.ErrOrganizationNotFound) {
			return nil, notFound("organization %d not found", c.OrgID)
		}
		return nil, err
	}

	return Success(map[string]any{
		"message": "Organization removed successfully",
	}), nil
}
