package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/wolfeidau/hrroster/internal/command"
)

type OrgCmd struct {
	Create OrgCreateCmd `cmd:"" help:"Create an organization"`
	Show   OrgShowCmd   `cmd:"" help:"Show an organization with its departments and employees"`
	Rename OrgRenameCmd `cmd:"" help:"Rename an organization"`
}

type OrgCreateCmd struct {
	ClientFlags `embed:""`

	Name string `arg:"" help:"Organization name"`
}

func (c *OrgCreateCmd) Run(ctx context.Context, globals *Globals) error {
	cl, err := c.client(globals)
	if err != nil {
		return err
	}

	res, err := cl.CreateOrganization(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return c.print(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Created organization %q (id %v, client id %v)\n", res.Fields["name"], res.Fields["id"], res.Fields["clientId"])
		return err
	})
}

type OrgShowCmd struct {
	ClientFlags `embed:""`

	CID string `help:"Client id of the organization" required:"" env:"HRROSTER_CID"`
}

func (c *OrgShowCmd) Run(ctx context.Context, globals *Globals) error {
	cl, err := c.client(globals)
	if err != nil {
		return err
	}

	res, err := cl.Organization(ctx, c.CID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}

	return c.print(res, func(w io.Writer) error {
		var departments []command.DepartmentSummary
		if err := field(res, "departments", &departments); err != nil {
			return err
		}
		var employees []command.EmployeeView
		if err := field(res, "employees", &employees); err != nil {
			return err
		}

		fmt.Fprintf(w, "%v (id %v)\n\n", res.Fields["name"], res.Fields["id"])

		fmt.Fprintf(w, "%-6s %-25s %-20s %s\n", "ID", "Department", "Head", "Employees")
		fmt.Fprintln(w, strings.Repeat("─", 62))
		for _, d := range departments {
			fmt.Fprintf(w, "%-6d %-25s %-20s %d\n", d.ID, d.Name, d.Head, d.EmployeeCount)
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-6s %-20s %-20s %10s %6s\n", "ID", "Employee", "Position", "Salary", "Perf")
		fmt.Fprintln(w, strings.Repeat("─", 66))
		for _, e := range employees {
			fmt.Fprintf(w, "%-6d %-20s %-20s %10s %6.1f\n", e.ID, e.Name, e.Position, e.Salary.StringFixed(2), e.Performance)
		}

		_, err := fmt.Fprintf(w, "\nTotal employees: %d\n", len(employees))
		return err
	})
}

type OrgRenameCmd struct {
	ClientFlags `embed:""`

	CID  string `help:"Client id of the organization" required:"" env:"HRROSTER_CID"`
	Name string `arg:"" help:"New organization name"`
}

func (c *OrgRenameCmd) Run(ctx context.Context, globals *Globals) error {
	cl, err := c.client(globals)
	if err != nil {
		return err
	}

	res, err := cl.RenameOrganization(ctx, c.CID, c.Name)
	if err != nil {
		return fmt.Errorf("failed to rename organization: %w", err)
	}

	return c.print(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Renamed organization %v to %q\n", res.Fields["id"], res.Fields["name"])
		return err
	})
}
