package commands

import (
	"context"

	"github.com/wolfeidau/hrroster/internal/store/postgres"
)

type MigrateCmd struct {
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	log := setupLogging(globals)

	if err := c.PostgresStore.Validate(); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, c.PostgresStore.poolConfig())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return err
	}

	log.Info().Msg("Migrations complete")
	return nil
}
