package memory

import (
	"context"

	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
)

// AssignShift books the employee into the (day, slot) pair if it is free.
// The check and the write happen under one lock, so concurrent requests for the
// same pair cannot both succeed.
func (s *Store) AssignShift(ctx context.Context, orgID, employeeID int64, day models.DayOfWeek, slot models.TimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return err
	}

	e, ok := t.employeeByExternalID(employeeID)
	if !ok {
		return store.ErrEmployeeNotFound
	}

	key := shiftKey{day: day, slot: slot}
	if _, taken := t.shifts[key]; taken {
		return store.ErrSlotTaken
	}
	t.shifts[key] = e.ID

	return nil
}

// GetShifts returns the assignments matching the filter.
func (s *Store) GetShifts(ctx context.Context, orgID int64, filter store.ShiftFilter) ([]*models.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return nil, err
	}

	var result []*models.ShiftAssignment
	for key, empID := range t.shifts {
		e, ok := t.employees[empID]
		if !ok {
			continue
		}
		shift := &models.ShiftAssignment{
			EmployeeID:   e.ExternalID,
			EmployeeName: e.Name,
			Day:          key.day,
			Slot:         key.slot,
		}
		if filter.Matches(shift) {
			result = append(result, shift)
		}
	}

	return result, nil
}

// RemoveShift deletes the employee's assignment for the (day, slot) pair.
func (s *Store) RemoveShift(ctx context.Context, orgID, employeeID int64, day models.DayOfWeek, slot models.TimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tenant(orgID)
	if err != nil {
		return err
	}

	key := shiftKey{day: day, slot: slot}
	empID, ok := t.shifts[key]
	if !ok {
		return store.ErrShiftNotFound
	}

	e, ok := t.employees[empID]
	if !ok || e.ExternalID != employeeID {
		return store.ErrShiftNotFound
	}

	delete(t.shifts, key)

	return nil
}
