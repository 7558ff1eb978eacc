package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDay      = errors.New("invalid day of week")
	ErrInvalidTimeSlot = errors.New("invalid time slot")
)

// DayOfWeek is an ISO-8601 weekday, MONDAY=1 through SUNDAY=7.
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

// AllDays returns the days of the week in order.
func AllDays() []DayOfWeek {
	return []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParseDayOfWeek decodes the numeric 1-7 encoding.
func ParseDayOfWeek(v int) (DayOfWeek, error) {
	d := DayOfWeek(v)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDay, v)
	}
	return d, nil
}

// ParseDayName decodes a day name such as "monday" or "MONDAY".
func ParseDayName(name string) (DayOfWeek, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i := Monday; i <= Sunday; i++ {
		if dayNames[i] == upper {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, name)
}

func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

func (d DayOfWeek) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, int(d))
	}
	return []byte(d.String()), nil
}

func (d *DayOfWeek) UnmarshalText(text []byte) error {
	parsed, err := ParseDayName(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeSlot is one of the three fixed daily work windows.
// Slots order as MORNING < AFTERNOON < EVENING.
type TimeSlot int

const (
	Morning TimeSlot = iota
	Afternoon
	Evening
)

var (
	slotNames  = [...]string{"MORNING", "AFTERNOON", "EVENING"}
	slotRanges = [...]string{"09:00-12:00", "14:00-17:00", "18:00-21:00"}
)

// AllTimeSlots returns every slot in ascending order.
func AllTimeSlots() []TimeSlot {
	return []TimeSlot{Morning, Afternoon, Evening}
}

// ParseTimeSlot decodes the numeric 0-2 encoding.
func ParseTimeSlot(v int) (TimeSlot, error) {
	s := TimeSlot(v)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTimeSlot, v)
	}
	return s, nil
}

// ParseTimeSlotName decodes a slot name such as "morning" or "EVENING".
func ParseTimeSlotName(name string) (TimeSlot, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range slotNames {
		if n == upper {
			return TimeSlot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, name)
}

func (s TimeSlot) Valid() bool {
	return s >= Morning && s <= Evening
}

func (s TimeSlot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("TimeSlot(%d)", int(s))
	}
	return slotNames[s]
}

// TimeRange returns the display range, e.g. "09:00-12:00".
func (s TimeSlot) TimeRange() string {
	if !s.Valid() {
		return ""
	}
	return slotRanges[s]
}

func (s TimeSlot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeSlot, int(s))
	}
	return []byte(s.String()), nil
}

func (s *TimeSlot) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeSlotName(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ShiftAssignment books one employee into a (day, slot) pair of the weekly roster.
// Within an organization a (day, slot) pair holds at most one assignment.
type ShiftAssignment struct {
	EmployeeID   int64  // external employee id
	EmployeeName string // denormalized for display
	Day          DayOfWeek
	Slot         TimeSlot
}
