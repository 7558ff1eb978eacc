package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/wolfeidau/hrroster/internal/command"
	"github.com/wolfeidau/hrroster/internal/models"
)

type ShiftsCmd struct {
	List   ShiftsListCmd   `cmd:"" help:"Show the weekly roster or a filtered list of shifts"`
	Add    ShiftsAddCmd    `cmd:"" help:"Assign an employee to a shift"`
	Remove ShiftsRemoveCmd `cmd:"" help:"Remove an employee from a shift"`
}

type ShiftsListCmd struct {
	ClientFlags `embed:""`

	CID      string `help:"Client id of the organization" required:"" env:"HRROSTER_CID"`
	Day      string `help:"Only shifts on this day (monday..sunday)"`
	Employee int64  `help:"Only shifts of this employee id"`
}

func (c *ShiftsListCmd) Run(ctx context.Context, globals *Globals) error {
	var (
		day        *int
		employeeID *int64
	)
	if c.Day != "" {
		d, err := models.ParseDayName(c.Day)
		if err != nil {
			return err
		}
		n := int(d)
		day = &n
	}
	if c.Employee != 0 {
		employeeID = &c.Employee
	}

	cl, err := c.client(globals)
	if err != nil {
		return err
	}

	res, err := cl.Shifts(ctx, c.CID, day, employeeID)
	if err != nil {
		return fmt.Errorf("failed to list shifts: %w", err)
	}

	if day != nil || employeeID != nil {
		return c.print(res, func(w io.Writer) error {
			var shifts []command.ShiftView
			if err := field(res, "shifts", &shifts); err != nil {
				return err
			}
			if len(shifts) == 0 {
				_, err := fmt.Fprintln(w, "No shifts found.")
				return err
			}
			printShiftHeader(w)
			for _, s := range shifts {
				printShift(w, s)
			}
			return nil
		})
	}

	return c.print(res, func(w io.Writer) error {
		var (
			schedule  map[string][]command.ShiftView
			available map[string][]command.SlotView
		)
		if err := field(res, "schedule", &schedule); err != nil {
			return err
		}
		if err := field(res, "availableSlots", &available); err != nil {
			return err
		}

		printShiftHeader(w)
		for _, d := range models.AllDays() {
			for _, s := range schedule[d.String()] {
				printShift(w, s)
			}
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Available:")
		for _, d := range models.AllDays() {
			slots := available[d.String()]
			names := make([]string, 0, len(slots))
			for _, s := range slots {
				names = append(names, s.TimeRange)
			}
			if len(names) == 0 {
				names = append(names, "none")
			}
			fmt.Fprintf(w, "  %-10s %s\n", d, strings.Join(names, ", "))
		}
		return nil
	})
}

func printShiftHeader(w io.Writer) {
	fmt.Fprintf(w, "%-10s %-10s %-12s %-6s %s\n", "Day", "Slot", "Time", "ID", "Employee")
	fmt.Fprintln(w, strings.Repeat("─", 60))
}

func printShift(w io.Writer, s command.ShiftView) {
	fmt.Fprintf(w, "%-10s %-10s %-12s %-6d %s\n", s.DayOfWeek, s.TimeSlot, s.TimeRange, s.EmployeeID, s.EmployeeName)
}

// ShiftArgs identifies one booking.
type ShiftArgs struct {
	CID      string `help:"Client id of the organization" required:"" env:"HRROSTER_CID"`
	Employee int64  `help:"Employee id" required:""`
	Day      string `help:"Day of the week (monday..sunday)" required:""`
	Slot     string `help:"Time slot (morning, afternoon, evening)" required:""`
}

func (a ShiftArgs) parse() (models.DayOfWeek, models.TimeSlot, error) {
	day, err := models.ParseDayName(a.Day)
	if err != nil {
		return 0, 0, err
	}
	slot, err := models.ParseTimeSlotName(a.Slot)
	if err != nil {
		return 0, 0, err
	}
	return day, slot, nil
}

type ShiftsAddCmd struct {
	ClientFlags `embed:""`
	ShiftArgs   `embed:""`
}

func (c *ShiftsAddCmd) Run(ctx context.Context, globals *Globals) error {
	day, slot, err := c.parse()
	if err != nil {
		return err
	}

	cl, err := c.client(globals)
	if err != nil {
		return err
	}

	res, err := cl.AddShift(ctx, c.CID, c.Employee, int(day), int(slot))
	if err != nil {
		return fmt.Errorf("failed to add shift: %w", err)
	}

	return c.print(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s: %v on %v %v\n", res.Message(), res.Fields["employeeName"], res.Fields["dayOfWeek"], res.Fields["timeSlot"])
		return err
	})
}

type ShiftsRemoveCmd struct {
	ClientFlags `embed:""`
	ShiftArgs   `embed:""`
}

func (c *ShiftsRemoveCmd) Run(ctx context.Context, globals *Globals) error {
	day, slot, err := c.parse()
	if err != nil {
		return err
	}

	cl, err := c.client(globals)
	if err != nil {
		return err
	}

	res, err := cl.RemoveShift(ctx, c.CID, c.Employee, int(day), int(slot))
	if err != nil {
		return fmt.Errorf("failed to remove shift: %w", err)
	}

	return c.print(res, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, res.Message())
		return err
	})
}
