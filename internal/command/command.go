package command

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wolfeidau/hrroster/internal/models"
)

// Command is one request against a tenant. The set of commands is closed:
// only the types in this package implement it.
type Command interface {
	// name identifies the command in logs and metrics.
	name() string
	// validate rejects malformed parameters before anything is read or written.
	validate() error
}

type GetOrganization struct {
	OrgID int64
}

type InsertOrganization struct {
	Name string
}

type RenameOrganization struct {
	OrgID int64
	Name  string
}

type RemoveOrganization struct {
	OrgID int64
}

type GetDepartment struct {
	OrgID        int64
	DepartmentID int64
}

type InsertDepartment struct {
	OrgID  int64
	Name   string
	Budget decimal.Decimal
}

type RemoveDepartment struct {
	OrgID        int64
	DepartmentID int64
}

type SetDepartmentHead struct {
	OrgID        int64
	DepartmentID int64
	EmployeeID   int64
}

type DepartmentBudgetStats struct {
	OrgID        int64
	DepartmentID int64
}

type DepartmentPerformanceStats struct {
	OrgID        int64
	DepartmentID int64
}

type DepartmentPositionStats struct {
	OrgID        int64
	DepartmentID int64
}

type GetEmployee struct {
	OrgID      int64
	EmployeeID int64
}

// UpdateEmployee changes the fields that are set and leaves the rest alone.
type UpdateEmployee struct {
	OrgID       int64
	EmployeeID  int64
	Position    *string
	Salary      *decimal.Decimal
	Performance *float64
}

type AddEmployeeToDepartment struct {
	OrgID        int64
	DepartmentID int64
	Employee     models.Employee
}

type RemoveEmployeeFromDepartment struct {
	OrgID        int64
	DepartmentID int64
	EmployeeID   int64
}

// AddShift books an employee into a (day, slot) pair. Build it with NewAddShift.
type AddShift struct {
	OrgID      int64
	EmployeeID int64
	Day        models.DayOfWeek
	Slot       models.TimeSlot
}

// GetShift lists the roster. With no filter set it returns the weekly schedule
// and the free slots of every day.
type GetShift struct {
	OrgID      int64
	Day        *models.DayOfWeek
	EmployeeID *int64
}

// RemoveShift frees a (day, slot) pair held by an employee. Build it with NewRemoveShift.
type RemoveShift struct {
	OrgID      int64
	EmployeeID int64
	Day        models.DayOfWeek
	Slot       models.TimeSlot
}

// NewAddShift decodes the numeric day (1-7) and slot (0-2) encodings.
func NewAddShift(orgID, employeeID int64, day, slot int) (AddShift, error) {
	d, s, err := decodeShift(day, slot)
	if err != nil {
		return AddShift{}, err
	}
	return AddShift{OrgID: orgID, EmployeeID: employeeID, Day: d, Slot: s}, nil
}

// NewRemoveShift decodes the numeric day (1-7) and slot (0-2) encodings.
func NewRemoveShift(orgID, employeeID int64, day, slot int) (RemoveShift, error) {
	d, s, err := decodeShift(day, slot)
	if err != nil {
		return RemoveShift{}, err
	}
	return RemoveShift{OrgID: orgID, EmployeeID: employeeID, Day: d, Slot: s}, nil
}

// NewGetShift decodes the optional numeric day filter.
func NewGetShift(orgID int64, day *int, employeeID *int64) (GetShift, error) {
	cmd := GetShift{OrgID: orgID, EmployeeID: employeeID}
	if day != nil {
		d, err := models.ParseDayOfWeek(*day)
		if err != nil {
			return GetShift{}, invalidArgument(err, "invalid day of week %d", *day)
		}
		cmd.Day = &d
	}
	return cmd, nil
}

func decodeShift(day, slot int) (models.DayOfWeek, models.TimeSlot, error) {
	d, err := models.ParseDayOfWeek(day)
	if err != nil {
		return 0, 0, invalidArgument(err, "invalid day of week %d", day)
	}
	s, err := models.ParseTimeSlot(slot)
	if err != nil {
		return 0, 0, invalidArgument(err, "invalid time slot %d", slot)
	}
	return d, s, nil
}

func validateShift(day models.DayOfWeek, slot models.TimeSlot) error {
	if !day.Valid() {
		return invalidArgument(models.ErrInvalidDay, "invalid day of week %d", int(day))
	}
	if !slot.Valid() {
		return invalidArgument(models.ErrInvalidTimeSlot, "invalid time slot %d", int(slot))
	}
	return nil
}

func validateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidArgument(nil, "%s must not be empty", field)
	}
	return nil
}

func validateAmount(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return invalidArgument(nil, "%s must not be negative", field)
	}
	return nil
}

func (GetOrganization) name() string              { return "get_organization" }
func (InsertOrganization) name() string           { return "insert_organization" }
func (RenameOrganization) name() string           { return "rename_organization" }
func (RemoveOrganization) name() string           { return "remove_organization" }
func (GetDepartment) name() string                { return "get_department" }
func (InsertDepartment) name() string             { return "insert_department" }
func (RemoveDepartment) name() string             { return "remove_department" }
func (SetDepartmentHead) name() string            { return "set_department_head" }
func (DepartmentBudgetStats) name() string        { return "department_budget_stats" }
func (DepartmentPerformanceStats) name() string   { return "department_performance_stats" }
func (DepartmentPositionStats) name() string      { return "department_position_stats" }
func (GetEmployee) name() string                  { return "get_employee" }
func (UpdateEmployee) name() string               { return "update_employee" }
func (AddEmployeeToDepartment) name() string      { return "add_employee_to_department" }
func (RemoveEmployeeFromDepartment) name() string { return "remove_employee_from_department" }
func (AddShift) name() string                     { return "add_shift" }
func (GetShift) name() string                     { return "get_shift" }
func (RemoveShift) name() string                  { return "remove_shift" }

func (GetOrganization) validate() error { return nil }

func (c InsertOrganization) validate() error { return validateName("organization name", c.Name) }

func (c RenameOrganization) validate() error { return validateName("organization name", c.Name) }

func (RemoveOrganization) validate() error { return nil }

func (GetDepartment) validate() error { return nil }

func (c InsertDepartment) validate() error {
	if err := validateName("department name", c.Name); err != nil {
		return err
	}
	return validateAmount("budget", c.Budget)
}

func (RemoveDepartment) validate() error { return nil }

func (SetDepartmentHead) validate() error { return nil }

func (DepartmentBudgetStats) validate() error { return nil }

func (DepartmentPerformanceStats) validate() error { return nil }

func (DepartmentPositionStats) validate() error { return nil }

func (GetEmployee) validate() error { return nil }

func (c UpdateEmployee) validate() error {
	if c.Position == nil && c.Salary == nil && c.Performance == nil {
		return invalidArgument(nil, "nothing to update")
	}
	if c.Salary != nil {
		if err := validateAmount("salary", *c.Salary); err != nil {
			return err
		}
	}
	return nil
}

func (c AddEmployeeToDepartment) validate() error {
	if err := validateName("employee name", c.Employee.Name); err != nil {
		return err
	}
	return validateAmount("salary", c.Employee.Salary)
}

func (RemoveEmployeeFromDepartment) validate() error { return nil }

func (c AddShift) validate() error { return validateShift(c.Day, c.Slot) }

func (c GetShift) validate() error {
	if c.Day != nil && !c.Day.Valid() {
		return invalidArgument(models.ErrInvalidDay, "invalid day of week %d", int(*c.Day))
	}
	return nil
}

func (c RemoveShift) validate() error { return validateShift(c.Day, c.Slot) }
