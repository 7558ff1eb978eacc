package command

import (
	"context"
	"errors"

	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

func (e *Executor) getEmployee(ctx context.Context, c GetEmployee) (*Result, error) {
	tc, err := e.tenant(ctx, c.OrgID)
	if err != nil {
		return nil, err
	}

	emp, ok := tc.Employee(c.EmployeeID)
	if !ok {
		return nil, notFound("employee %d not found", c.EmployeeID)
	}

	view := employeeView(emp, departmentOf(tc.Organization(), emp))

	return Success(map[string]any{
		"id":          view.ID,
		"name":        view.Name,
		"department":  view.Department,
		"position":    view.Position,
		"salary":      view.Salary,
		"performance": view.Performance,
		"hireDate":    view.HireDate,
	}), nil
}

func (e *Executor) updateEmployee(ctx context.Context, c UpdateEmployee) (*Result, error) {
	tc, err := e.tenant(ctx, c.OrgID)
	if err != nil {
		return nil, err
	}

	err = tc.ModifyEmployee(ctx, c.EmployeeID, func(emp *models.Employee) {
		if c.Position != nil {
			emp.Position = *c.Position
		}
		if c.Salary != nil {
			emp.Salary = *c.Salary
		}
		if c.Performance != nil {
			emp.Performance = *c.Performance
		}
	})
	if err != nil {
		if errors.Is(err, store.ErrEmployeeNotFound) {
			return nil, notFound("employee %d not found", c.EmployeeID)
		}
		logStoreFailure(ctx, err, c)
		return Failed("Failed to update employee"), nil
	}

	return Success(map[string]any{
		"message": "Employee updated successfully",
	}), nil
}

func (e *Executor) addEmployeeToDepartment(ctx context.Context, c AddEmployeeToDepartment) (*Result, error) {
	tc, _, err := e.department(ctx, c.OrgID, c.DepartmentID)
	if err != nil {
		return nil, err
	}

	emp := c.Employee
	id, err := tc.AddEmployeeToDepartment(ctx, c.DepartmentID, &emp)
	if err != nil {
		if errors.Is(err, store.ErrDepartmentNotFound) {
			return nil, notFound("department %d not found", c.DepartmentID)
		}
		logStoreFailure(ctx, err, c)
		return Failed("Failed to add employee to department"), nil
	}

	return Success(map[string]any{
		"message":    "Employee added to department successfully",
		"employeeId": id,
	}), nil
}

func (e *Executor) removeEmployeeFromDepartment(ctx context.Context, c RemoveEmployeeFromDepartment) (*Result, error) {
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

	if err := tc.RemoveEmployeeFromDepartment(ctx, c.DepartmentID, c.EmployeeID); err != nil {
		logStoreFailure(ctx, err, c)
		return Failed("Failed to remove employee from department"), nil
	}

	return Success(map[string]any{
		"message": "Employee removed from department successfully",
	}), nil
}
