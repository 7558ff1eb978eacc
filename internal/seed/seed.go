// Package seed loads a YAML roster dataset and writes it into a store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
	"gopkg.in/yaml.v3"
)

const hireDateLayout = "2006-01-02"

// Dataset is the root of a seed file.
type Dataset struct {
	Organizations []Organization `yaml:"organizations"`
}

type Organization struct {
	Name        string       `yaml:"name"`
	Departments []Department `yaml:"departments"`
	Shifts      []Shift      `yaml:"shifts"`
}

type Department struct {
	Name      string          `yaml:"name"`
	Budget    decimal.Decimal `yaml:"budget"`
	Head      string          `yaml:"head,omitempty"` // employee name
	Employees []Employee      `yaml:"employees"`
}

type Employee struct {
	Name        string          `yaml:"name"`
	Position    string          `yaml:"position"`
	Salary      decimal.Decimal `yaml:"salary"`
	Performance float64         `yaml:"performance"`
	HireDate    string          `yaml:"hire_date,omitempty"`
}

// Shift books an employee, referenced by name, into a day and slot given by name.
type Shift struct {
	Employee string           `yaml:"employee"`
	Day      models.DayOfWeek `yaml:"day"`
	Slot     models.TimeSlot  `yaml:"slot"`
}

// Summary counts what Apply wrote.
type Summary struct {
	Organizations int
	Departments   int
	Employees     int
	Shifts        int
	Skipped       int
}

// Load reads and validates a dataset file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses and validates a dataset.
func Decode(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	return &ds, nil
}

// Validate checks names are present, amounts are not negative and every
// referenced employee is defined in the same organization.
func (ds *Dataset) Validate() error {
	var errs []error

	for i, org := range ds.Organizations {
		if strings.TrimSpace(org.Name) == "" {
			errs = append(errs, fmt.Errorf("organizations[%d]: name is required", i))
			continue
		}

		names := map[string]bool{}
		for _, dept := range org.Departments {
			if strings.TrimSpace(dept.Name) == "" {
				errs = append(errs, fmt.Errorf("%s: department name is required", org.Name))
			}
			if dept.Budget.IsNegative() {
				errs = append(errs, fmt.Errorf("%s/%s: budget must not be negative", org.Name, dept.Name))
			}
			for _, emp := range dept.Employees {
				if names[emp.Name] {
					errs = append(errs, fmt.Errorf("%s: duplicate employee %q", org.Name, emp.Name))
				}
				names[emp.Name] = true

				if emp.Salary.IsNegative() {
					errs = append(errs, fmt.Errorf("%s/%s: salary must not be negative", org.Name, emp.Name))
				}
				if emp.Performance < 0 || emp.Performance > 100 {
					errs = append(errs, fmt.Errorf("%s/%s: performance must be between 0 and 100", org.Name, emp.Name))
				}
				if emp.HireDate != "" {
					if _, err := time.Parse(hireDateLayout, emp.HireDate); err != nil {
						errs = append(errs, fmt.Errorf("%s/%s: invalid hire date: %w", org.Name, emp.Name, err))
					}
				}
			}
		}

		for _, dept := range org.Departments {
			if dept.Head != "" && !memberOf(dept, dept.Head) {
				errs = append(errs, fmt.Errorf("%s/%s: head %q is not a member", org.Name, dept.Name, dept.Head))
			}
		}

		for _, s := range org.Shifts {
			if !names[s.Employee] {
				errs = append(errs, fmt.Errorf("%s: shift references unknown employee %q", org.Name, s.Employee))
			}
		}
	}

	return errors.Join(errs...)
}

func memberOf(dept Department, name string) bool {
	for _, emp := range dept.Employees {
		if emp.Name == name {
			return true
		}
	}
	return false
}

// Apply writes the dataset to st. Organizations that already exist are skipped
// so a seed file can be applied on every start.
func Apply(ctx context.Context, st store.Store, ds *Dataset) (Summary, error) {
	var sum Summary

	for _, org := range ds.Organizations {
		created, err := st.InsertOrganization(ctx, &models.Organization{Name: org.Name})
		if errors.Is(err, store.ErrOrganizationAlreadyExists) {
			log.Info().Str("organization", org.Name).Msg("Organization exists, skipping seed")
			sum.Skipped++
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("failed to create organization %q: %w", org.Name, err)
		}
		sum.Organizations++

		if err := applyOrganization(ctx, st, created.ID, org, &sum); err != nil {
			return sum, fmt.Errorf("failed to seed organization %q: %w", org.Name, err)
		}

		log.Info().
			Int64("org_id", created.ID).
			Str("organization", org.Name).
			Int("departments", len(org.Departments)).
			Int("shifts", len(org.Shifts)).
			Msg("Seeded organization")
	}

	return sum, nil
}

func applyOrganization(ctx context.Context, st store.Store, orgID int64, org Organization, sum *Summary) error {
	// employee name -> external id, for shifts
	employees := map[string]int64{}

	for _, d := range org.Departments {
		dept, err := st.InsertDepartment(ctx, orgID, &models.Department{Name: d.Name, Budget: d.Budget})
		if err != nil {
			return fmt.Errorf("department %q: %w", d.Name, err)
		}
		sum.Departments++

		for _, e := range d.Employees {
			emp := &models.Employee{
				Name:        e.Name,
				Position:    e.Position,
				Salary:      e.Salary,
				Performance: e.Performance,
			}
			if e.HireDate != "" {
				// validated by Decode
				emp.HireDate, _ = time.Parse(hireDateLayout, e.HireDate)
			}

			id, err := st.AddEmployeeToDepartment(ctx, orgID, dept.ID, emp)
			if err != nil {
				return fmt.Errorf("employee %q: %w", e.Name, err)
			}
			sum.Employees++

			employees[e.Name] = emp.ExternalID
			if e.Name == d.Head {
				dept.HeadEmployeeID = &id
			}
		}

		if dept.HeadEmployeeID != nil {
			if err := st.UpdateDepartment(ctx, orgID, dept); err != nil {
				return fmt.Errorf("department %q head: %w", d.Name, err)
			}
		}
	}

	for _, s := range org.Shifts {
		extID, ok := employees[s.Employee]
		if !ok {
			return fmt.Errorf("shift references unknown employee %q", s.Employee)
		}
		if err := st.AssignShift(ctx, orgID, extID, s.Day, s.Slot); err != nil {
			return fmt.Errorf("shift %s %s for %q: %w", s.Day, s.Slot, s.Employee, err)
		}
		sum.Shifts++
	}

	return nil
}
