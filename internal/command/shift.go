package command

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	msgEmployeeNotFound = "Employee not found"
	msgAddShiftFailed   = "Failed to add shift - time slot might be already assigned"
	msgRemoveFailed     = "Failed to remove shift"
)

// addShift checks the employee exists, then leaves the (day, slot) uniqueness
// check to the store. Any store rejection is reported the same way.
func (e *Executor) addShift(ctx context.Context, c AddShift) (*Result, error) {
	tc, err := e.tenant(ctx, c.OrgID)
	if err != nil {
		return nil, err
	}

	emp, ok := tc.Employee(c.EmployeeID)
	if !ok {
		return Failed(msgEmployeeNotFound), nil
	}

	if err := e.store.AssignShift(ctx, c.OrgID, c.EmployeeID, c.Day, c.Slot); err != nil {
		e.metrics.ShiftConflictsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("day", c.Day.String())))
		zerolog.Ctx(ctx).Debug().
			Err(err).
			Int64("org_id", c.OrgID).
			Int64("employee_id", c.EmployeeID).
			Stringer("day", c.Day).
			Stringer("slot", c.Slot).
			Msg("Shift assignment rejected")
		return Failed(msgAddShiftFailed), nil
	}
	e.metrics.ShiftsAssignedTotal.Add(ctx, 1)

	return Success(map[string]any{
		"message":      "Shift added successfully",
		"employeeName": emp.Name,
		"dayOfWeek":    c.Day.String(),
		"timeSlot":     c.Slot.TimeRange(),
	}), nil
}

// getShift returns the weekly planning view when unfiltered, or the matching shifts otherwise.
func (e *Executor) getShift(ctx context.Context, c GetShift) (*Result, error) {
	if _, err := e.tenant(ctx, c.OrgID); err != nil {
		return nil, err
	}

	filter := store.ShiftFilter{Day: c.Day, EmployeeID: c.EmployeeID}

	shifts, err := e.store.GetShifts(ctx, c.OrgID, filter)
	if err != nil {
		return nil, err
	}

	if !filter.IsZero() {
		views := make([]ShiftView, 0, len(shifts))
		for _, s := range shifts {
			views = append(views, shiftView(s))
		}
		return Success(map[string]any{
			"shifts": views,
		}), nil
	}

	schedule, available := planWeek(shifts)

	return Success(map[string]any{
		"schedule":       schedule,
		"availableSlots": available,
	}), nil
}

func (e *Executor) removeShift(ctx context.Context, c RemoveShift) (*Result, error) {
	if _, err := e.tenant(ctx, c.OrgID); err != nil {
		return nil, err
	}

	if err := e.store.RemoveShift(ctx, c.OrgID, c.EmployeeID, c.Day, c.Slot); err != nil {
		zerolog.Ctx(ctx).Debug().
			Err(err).
			Int64("org_id", c.OrgID).
			Int64("employee_id", c.EmployeeID).
			Msg("Shift removal rejected")
		return Failed(msgRemoveFailed), nil
	}
	e.metrics.ShiftsRemovedTotal.Add(ctx, 1)

	return Success(map[string]any{
		"message": "Shift removed successfully",
	}), nil
}

// planWeek groups shifts by day, every day present and each sorted by slot, and
// computes the slots nobody holds on each day.
func planWeek(shifts []*models.ShiftAssignment) (map[string][]ShiftView, map[string][]SlotView) {
	schedule := make(map[string][]ShiftView, 7)
	for _, day := range models.AllDays() {
		schedule[day.String()] = []ShiftView{}
	}

	for _, s := range shifts {
		key := s.Day.String()
		schedule[key] = append(schedule[key], shiftView(s))
	}

	available := make(map[string][]SlotView, 7)
	for _, day := range models.AllDays() {
		key := day.String()
		dayShifts := schedule[key]
		sort.SliceStable(dayShifts, func(i, j int) bool {
			return dayShifts[i].TimeSlot < dayShifts[j].TimeSlot
		})

		used := make(map[models.TimeSlot]bool, len(dayShifts))
		for _, s := range dayShifts {
			used[s.TimeSlot] = true
		}

		free := []SlotView{}
		for _, slot := range models.AllTimeSlots() {
			if !used[slot] {
				free = append(free, SlotView{TimeSlot: slot, TimeRange: slot.TimeRange()})
			}
		}
		available[key] = free
	}

	return schedule, available
}
