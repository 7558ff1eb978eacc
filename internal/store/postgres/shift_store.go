package postgres

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

// AssignShift books the employee into the (day, slot) pair. The primary key on
// (org_id, day_of_week, time_slot) rejects a second booking of the same pair.
func (s *Store) AssignShift(ctx context.Context, orgID, employeeID int64, day models.DayOfWeek, slot models.TimeSlot) error {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	result, err := s.pool.Exec(ctx, `
		INSERT INTO shift_assignments (org_id, employee_id, day_of_week, time_slot)
		SELECT e.org_id, e.id, $3, $4
		FROM employees e
		WHERE e.org_id = $1 AND e.external_id = $2
	`, orgID, employeeID, int16(day), int16(slot))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrSlotTaken
		}
		return fmt.Errorf("failed to assign shift: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrEmployeeNotFound
	}

	log.Debug().
		Int64("org_id", orgID).
		Int64("employee_id", employeeID).
		Stringer("day", day).
		Stringer("slot", slot).
		Msg("Assigned shift")

	return nil
}

// GetShifts returns the organization's assignments matching the filter.
func (s *Store) GetShifts(ctx context.Context, orgID int64, filter store.ShiftFilter) ([]*models.ShiftAssignment, error) {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	if err := s.ensureOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	var day, employee any
	if filter.Day != nil {
		day = int16(*filter.Day)
	}
	if filter.EmployeeID != nil {
		employee = *filter.EmployeeID
	}

	rows, err := s.pool.Query(ctx, `
		SELECT e.external_id, e.name, sa.day_of_week, sa.time_slot
		FROM shift_assignments sa
		JOIN employees e ON e.id = sa.employee_id
		WHERE sa.org_id = $1
		  AND ($2::smallint IS NULL OR sa.day_of_week = $2)
		  AND ($3::bigint IS NULL OR e.external_id = $3)
	`, orgID, day, employee)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var shifts []*models.ShiftAssignment
	for rows.Next() {
		var (
			shift     models.ShiftAssignment
			dayOfWeek int16
			timeSlot  int16
		)
		if err := rows.Scan(&shift.EmployeeID, &shift.EmployeeName, &dayOfWeek, &timeSlot); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shift.Day = models.DayOfWeek(dayOfWeek)
		shift.Slot = models.TimeSlot(timeSlot)
		shifts = append(shifts, &shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// RemoveShift deletes the employee's assignment for the (day, slot) pair.
func (s *Store) RemoveShift(ctx context.Context, orgID, employeeID int64, day models.DayOfWeek, slot models.TimeSlot) error {
	ctx, cancel := s.cfg.queryContext(ctx)
	defer cancel()

	result, err := s.pool.Exec(ctx, `
		DELETE FROM shift_assignments sa
		USING employees e
		WHERE sa.employee_id = e.id
		  AND sa.org_id = $1
		  AND e.external_id = $2
		  AND sa.day_of_week = $3
		  AND sa.time_slot = $4
	`, orgID, employeeID, int16(day), int16(slot))
	if err != nil {
		return fmt.Errorf("failed to remove shift: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrShiftNotFound
	}

	return nil
}
