package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfeidau/hrroster/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	cfg  *StoreConfig
}

// NewStore creates a new PostgreSQL-backed store on a shared connection pool.
func NewStore(pool *pgxpool.Pool, cfg *StoreConfig) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool is required")
	}
	if cfg == nil {
		cfg = &StoreConfig{}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	return &Store{
		pool: pool,
		cfg:  cfg,
	}, nil
}

// ensureOrganization returns ErrOrganizationNotFound if orgID doesn't exist.
func (s *Store) ensureOrganization(ctx context.Context, orgID int64) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM organizations WHERE id = $1)`, orgID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check organization: %w", mapPostgresError(err))
	}
	if !exists {
		return store.ErrOrganizationNotFound
	}

	return nil
}

// nextExternalID bumps and returns the per-organization counter in column.
func nextExternalID(ctx context.Context, tx pgx.Tx, orgID int64, column string) (int64, error) {
	var next int64
	err := tx.QueryRow(ctx, `
		UPDATE organizations SET `+column+` = `+column+` + 1
		WHERE id = $1
		RETURNING `+column, orgID).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, store.ErrOrganizationNotFound
		}
		return 0, fmt.Errorf("failed to allocate external id: %w", mapPostgresError(err))
	}
	return next, nil
}
