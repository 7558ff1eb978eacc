package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/hrroster/internal/api"
	"github.com/wolfeidau/hrroster/internal/cache"
	"github.com/wolfeidau/hrroster/internal/command"
	httpmiddleware "github.com/wolfeidau/hrroster/internal/http"
	"github.com/wolfeidau/hrroster/internal/logger"
	"github.com/wolfeidau/hrroster/internal/seed"
	"github.com/wolfeidau/hrroster/internal/store"
	"github.com/wolfeidau/hrroster/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type ServeCmd struct {
	// Server configuration
	Listen          string        `help:"HTTP server listen address" default:"localhost:8080" env:"HRROSTER_LISTEN"`
	ShutdownTimeout time.Duration `help:"time allowed for in-flight requests on shutdown" default:"10s" env:"HRROSTER_SHUTDOWN_TIMEOUT"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"HRROSTER_CORS_ORIGINS"`

	// Response compression
	Gzip        bool `help:"gzip responses for clients that accept it" default:"true" negatable:"" env:"HRROSTER_GZIP"`
	GzipMinSize int  `help:"minimum response size in bytes before compressing" default:"1024" env:"HRROSTER_GZIP_MIN_SIZE"`

	// Telemetry
	Tracing          bool    `help:"enable tracing and OTLP metrics" default:"false" env:"HRROSTER_TRACING"`
	TraceSampleRatio float64 `help:"fraction of requests traced" default:"1" env:"HRROSTER_TRACE_SAMPLE_RATIO"`

	SeedFile string `help:"YAML dataset applied on startup and on SIGHUP, existing organizations are skipped" env:"HRROSTER_SEED_FILE"`

	Store StoreFlags `embed:""`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := setupLogging(globals)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	// Setup telemetry if enabled
	if c.Tracing {
		log.Info().Float64("sample_ratio", c.TraceSampleRatio).Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, telemetry.Config{
			ServiceName: "hrroster-server",
			Version:     globals.Version,
			SampleRatio: c.TraceSampleRatio,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	st, closeStore, err := c.Store.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	if c.SeedFile != "" {
		if err := c.applySeed(ctx, st); err != nil {
			return err
		}
	}

	registry := cache.NewRegistry(st)

	exec, err := command.NewExecutor(registry)
	if err != nil {
		return err
	}

	go c.reloadOnHangup(ctx, st, registry)

	middleware := []httpmiddleware.Middleware{
		httpmiddleware.ClientIP(),
		httpmiddleware.RequestID(),
		logger.NewRequestLogger(log),
	}
	if c.Gzip {
		gz, err := httpmiddleware.Gzip(c.GzipMinSize)
		if err != nil {
			return err
		}
		middleware = append(middleware, gz)
	}

	handler := withCORS(c.CORSOrigins, httpmiddleware.Chain(api.NewHandler(exec), middleware...))
	if c.Tracing {
		handler = otelhttp.NewHandler(handler, "hrroster")
	}

	srv := configureHTTPServer(c.Listen, handler)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Listen).Str("store", c.Store.StoreType).Msg("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", c.ShutdownTimeout).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (c *ServeCmd) applySeed(ctx context.Context, st store.Store) error {
	ds, err := seed.Load(c.SeedFile)
	if err != nil {
		return err
	}

	sum, err := seed.Apply(ctx, st, ds)
	if err != nil {
		return fmt.Errorf("failed to apply seed file: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("file", c.SeedFile).
		Int("organizations", sum.Organizations).
		Int("skipped", sum.Skipped).
		Msg("Seed file applied")

	return nil
}

// reloadOnHangup re-applies the seed file and reloads every cached tenant from the
// store on SIGHUP, picking up changes made by `seed` or another server instance.
func (c *ServeCmd) reloadOnHangup(ctx context.Context, st store.Store, registry *cache.Registry) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	log := zerolog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}

		if c.SeedFile != "" {
			if err := c.applySeed(ctx, st); err != nil {
				log.Error().Err(err).Msg("Failed to re-apply seed file")
			}
		}

		n, err := registry.RefreshAll(ctx)
		if err != nil {
			log.Error().Err(err).Int("refreshed", n).Msg("Failed to refresh tenant caches")
			continue
		}
		log.Info().Int("refreshed", n).Msg("Tenant caches refreshed")
	}
}

// withCORS adds CORS support for browser clients of the JSON API.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", httpmiddleware.RequestIDHeader},
		ExposedHeaders: []string{httpmiddleware.RequestIDHeader},
	})
	return middleware.Handler(h)
}
