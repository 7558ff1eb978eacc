package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Organization represents a tenant in the system.
// Each organization owns its departments, employees and a weekly shift roster.
type Organization struct {
	ID   int64
	Name string

	Departments []*Department
	Employees   []*Employee

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Department is a unit of an organization. Employees is a subset of the
// owning organization's employees.
type Department struct {
	ID         int64 // internal id
	ExternalID int64 // tenant-visible id
	Name       string
	Budget     decimal.Decimal

	HeadEmployeeID *int64 // internal id of the department head, if any

	Employees []*Employee
}

// Employee belongs to exactly one department of one organization.
// Identity is the internal ID; ExternalID is the handle exposed to tenants.
type Employee struct {
	ID           int64
	ExternalID   int64
	DepartmentID int64 // internal department id
	Name         string
	Position     string
	Salary       decimal.Decimal
	Performance  float64
	HireDate     time.Time
}

// EmployeeByExternalID returns the employee with the given external id.
func (o *Organization) EmployeeByExternalID(externalID int64) (*Employee, bool) {
	for _, e := range o.Employees {
		if e.ExternalID == externalID {
			return e, true
		}
	}
	return nil, false
}

// DepartmentByExternalID returns the department with the given external id.
func (o *Organization) DepartmentByExternalID(externalID int64) (*Department, bool) {
	for _, d := range o.Departments {
		if d.ExternalID == externalID {
			return d, true
		}
	}
	return nil, false
}

// Head returns the department head if one is set and is a member of the department.
func (d *Department) Head() (*Employee, bool) {
	if d.HeadEmployeeID == nil {
		return nil, false
	}
	for _, e := range d.Employees {
		if e.ID == *d.HeadEmployeeID {
			return e, true
		}
	}
	return nil, false
}

// Clone copies the organization and its department and employee lists.
// Employee records are shared, callers must treat them as immutable.
func (o *Organization) Clone() *Organization {
	clone := *o
	clone.Employees = append([]*Employee(nil), o.Employees...)
	clone.Departments = make([]*Department, len(o.Departments))
	for i, d := range o.Departments {
		clone.Departments[i] = d.Clone()
	}
	return &clone
}

// Clone copies the department and its employee list.
func (d *Department) Clone() *Department {
	clone := *d
	if d.HeadEmployeeID != nil {
		head := *d.HeadEmployeeID
		clone.HeadEmployeeID = &head
	}
	clone.Employees = append([]*Employee(nil), d.Employees...)
	return &clone
}
