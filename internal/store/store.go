package store

import (
	"errors"

	"github.com/wolfeidau/hrroster/internal/models"
)

// Sentinel errors for common error conditions
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
	ErrDepartmentNotFound        = errors.New("department not found")
	ErrEmployeeNotFound          = errors.New("employee not found")
	ErrShiftNotFound             = errors.New("shift not found")
	ErrSlotTaken                 = errors.New("time slot already assigned")
)

// Store is the durable backing store for organizations, departments, employees
// and shift assignments. Every operation except organization insertion is
// scoped to a single organization.
type Store interface {
	OrganizationStore
	DepartmentStore
	EmployeeStore
	ShiftStore
}

// ShiftFilter narrows a GetShifts query. Nil fields are not filtered on.
type ShiftFilter struct {
	Day        *models.DayOfWeek
	EmployeeID *int64 // external employee id
}

// IsZero reports whether the filter selects every shift of the organization.
func (f ShiftFilter) IsZero() bool {
	return f.Day == nil && f.EmployeeID == nil
}

// Matches reports whether the assignment passes the filter.
func (f ShiftFilter) Matches(s *models.ShiftAssignment) bool {
	if f.Day != nil && s.Day != *f.Day {
		return false
	}
	if f.EmployeeID != nil && s.EmployeeID != *f.EmployeeID {
		return false
	}
	return true
}
