package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/hrroster/internal/seed"
)

type SeedCmd struct {
	File  string     `arg:"" help:"YAML dataset to load" type:"existingfile"`
	Store StoreFlags `embed:""`
}

func (c *SeedCmd) Run(ctx context.Context, globals *Globals) error {
	log := setupLogging(globals)

	ds, err := seed.Load(c.File)
	if err != nil {
		return err
	}

	if c.Store.StoreType == "memory" {
		log.Warn().Msg("Seeding the in-memory store only validates the dataset, nothing is persisted")
	}

	st, closeStore, err := c.Store.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	sum, err := seed.Apply(ctx, st, ds)
	if err != nil {
		return err
	}

	log.Info().
		Int("organizations", sum.Organizations).
		Int("departments", sum.Departments).
		Int("employees", sum.Employees).
		Int("shifts", sum.Shifts).
		Int("skipped", sum.Skipped).
		Msg("Seed complete")
	return nil
}
