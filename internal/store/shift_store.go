package store

import (
	"context"

	"github.com/wolfeidau/hrroster/internal/models"
)

// ShiftStore defines weekly roster operations. The store is the sole enforcement
// point for the rule that a (day, slot) pair holds at most one assignment per organization.
type ShiftStore interface {
	// AssignShift books the employee (external ID) into the (day, slot) pair.
	// Returns ErrEmployeeNotFound if the employee doesn't exist and ErrSlotTaken
	// if the pair is already assigned.
	AssignShift(ctx context.Context, orgID, employeeID int64, day models.DayOfWeek, slot models.TimeSlot) error

	// GetShifts returns the organization's assignments matching the filter.
	// No ordering is guaranteed.
	GetShifts(ctx context.Context, orgID int64, filter ShiftFilter) ([]*models.ShiftAssignment, error)

	// RemoveShift deletes the employee's assignment for the (day, slot) pair.
	// Returns ErrShiftNotFound if no such assignment exists.
	RemoveShift(ctx context.Context, orgID, employeeID int64, day models.DayOfWeek, slot models.TimeSlot) error
}
