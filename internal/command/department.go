package command

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/hrroster/internal/cache"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

// department resolves a tenant and one of its departments by external id.
func (e *Executor) department(ctx context.Context, orgID, deptID int64) (*cache.TenantCache, *models.Department, error) {
	tc, err := e.tenant(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}

	dept, ok := tc.Department(deptID)
	if !ok {
		return nil, nil, notFound("department %d not found", deptID)
	}

	return tc, dept, nil
}

func (e *Executor) getDepartment(ctx context.Context, c GetDepartment) (*Result, error) {
	_, dept, err := e.department(ctx, c.OrgID, c.DepartmentID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"id":        dept.ExternalID,
		"name":      dept.Name,
		"budget":    dept.Budget,
		"head":      "",
		"employees": employeeViews(dept.Employees),
	}
	if head, ok := dept.Head(); ok {
		fields["head"] = head.Name
		fields["headId"] = head.ExternalID
	}

	return Success(fields), nil
}

func (e *Executor) insertDepartment(ctx context.Context, c InsertDepartment) (*Result, error) {
	tc, err := e.tenant(ctx, c.OrgID)
	if err != nil {
		return nil, err
	}

	created, err := tc.InsertDepartment(ctx, &models.Department{Name: c.Name, Budget: c.Budget})
	if err != nil {
		logStoreFailure(ctx, err, c)
		return Failed("Failed to create department"), nil
	}

	return Success(map[string]any{
		"message":      "Department created successfully",
		"departmentId": created.ExternalID,
	}), nil
}

func (e *Executor) removeDepartment(ctx context.Context, c RemoveDepartment) (*Result, error) {
	tc, err := e.tenant(ctx, c.OrgID)
	if err != nil {
		return nil, err
	}

	if err := tc.RemoveDepartment(ctx, c.DepartmentID); err != nil {
		if errors.Is(err, store.ErrDepartmentNotFound) {
			return nil, notFound("department %d not found", c.DepartmentID)
		}
		logStoreFailure(ctx, err, c)
		return Failed("Failed to remove department"), nil
	}

	return Success(map[string]any{
		"message": "Department removed successfully",
	}), nil
}

func (e *Executor) setDepartmentHead(ctx context.Context, c SetDepartmentHead) (*Result, error) {
	tc, dept, err := e.department(ctx, c.OrgID, c.DepartmentID)
	if err != nil {
		return nil, err
	}

	emp, ok := tc.Employee(c.EmployeeID)
	if !ok {
		return nil, notFound("employee %d not found", c.EmployeeID)
	}
	if emp.DepartmentID != dept.ID {
		return Failed("Employee is not a member of the department"), nil
	}

	next := dept.Clone()
	next.HeadEmployeeID = &emp.ID
	if err := tc.UpdateDepartment(ctx, next); err != nil {
		logStoreFailure(ctx, err, c)
		return Failed("Failed to set department head"), nil
	}

	return Success(map[string]any{
		"message": "Department head set successfully",
		"head":    emp.Name,
		"headId":  emp.ExternalID,
	}), nil
}

func logStoreFailure(ctx context.Context, err error, cmd Command) {
	zerolog.Ctx(ctx).Warn().
		Err(err).
		Str("command", cmd.name()).
		Msg("Store rejected write")
}
