package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wolfeidau/hrroster/internal/models"
)

type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type RenameOrganizationRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type CreateDepartmentRequest struct {
	Name   string          `json:"name" validate:"required,max=255"`
	Budget decimal.Decimal `json:"budget"`
}

type AddEmployeeRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Position    string          `json:"position" validate:"required,max=255"`
	Salary      decimal.Decimal `json:"salary"`
	Performance float64         `json:"performance" validate:"gte=0,lte=100"`
	HireDate    string          `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
}

// Employee converts the request into a model, hire date defaulting to today.
func (r AddEmployeeRequest) Employee() models.Employee {
	hireDate := time.Now().UTC().Truncate(24 * time.Hour)
	if r.HireDate != "" {
		// already validated against the same layout
		hireDate, _ = time.Parse(time.DateOnly, r.HireDate)
	}

	return models.Employee{
		Name:        r.Name,
		Position:    r.Position,
		Salary:      r.Salary,
		Performance: r.Performance,
		HireDate:    hireDate,
	}
}

type UpdateEmployeeRequest struct {
	Position    *string          `json:"position" validate:"omitempty,min=1,max=255"`
	Salary      *decimal.Decimal `json:"salary"`
	Performance *float64         `json:"performance" validate:"omitempty,gte=0,lte=100"`
}
