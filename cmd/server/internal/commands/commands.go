package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/hrroster/internal/logger"
	"github.com/wolfeidau/hrroster/internal/store"
	memorystore "github.com/wolfeidau/hrroster/internal/store/memory"
	postgresstore "github.com/wolfeidau/hrroster/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Version string
}

// setupLogging builds the process logger and installs it as the global and context default.
func setupLogging(globals *Globals) zerolog.Logger {
	l := logger.Setup(globals.Debug)
	log.Logger = l
	zerolog.DefaultContextLogger = &l
	return l
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

type PostgresStoreFlags struct {
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20" env:"HRROSTER_POSTGRES_MAX_CONNS"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5" env:"HRROSTER_POSTGRES_MIN_CONNS"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`
	QueryTimeout    int32 `help:"query timeout in seconds, negative disables it" default:"10" env:"HRROSTER_POSTGRES_QUERY_TIMEOUT"`

	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"HRROSTER_POSTGRES_AUTO_MIGRATE"`
}

func (s *PostgresStoreFlags) Validate() error {
	if s.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (s *PostgresStoreFlags) poolConfig() *postgresstore.PoolConfig {
	return &postgresstore.PoolConfig{
		ConnString:      s.ConnString,
		MaxConns:        s.MaxConns,
		MinConns:        s.MinConns,
		MaxConnLifetime: s.MaxConnLifetime,
		MaxConnIdleTime: s.MaxConnIdleTime,
	}
}

// StoreFlags selects and configures the backing store.
type StoreFlags struct {
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"HRROSTER_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

// open returns the configured store and a function releasing its resources.
func (f *StoreFlags) open(ctx context.Context) (store.Store, func(), error) {
	switch f.StoreType {
	case "memory":
		log.Info().Msg("Using in-memory store")
		return memorystore.NewStore(), func() {}, nil

	case "postgres":
		if err := f.PostgresStore.Validate(); err != nil {
			return nil, nil, err
		}

		pool, err := postgresstore.NewPool(ctx, f.PostgresStore.poolConfig())
		if err != nil {
			return nil, nil, err
		}

		if f.PostgresStore.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		st, err := postgresstore.NewStore(pool, &postgresstore.StoreConfig{QueryTimeoutSeconds: f.PostgresStore.QueryTimeout})
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		log.Info().Int32("max_conns", f.PostgresStore.MaxConns).Msg("Using PostgreSQL store")
		return st, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store type %q", f.StoreType)
	}
}
