package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store"
	"github.com/wolfeidau/hrroster/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

// ErrNotInitialized is returned when a Registry is used before NewRegistry wired it to a store.
var ErrNotInitialized = errors.New("cache registry not initialized")

// Registry maps organization ids to their TenantCache.
//
// At most one TenantCache is constructed per organization id, no matter how many
// callers ask for it concurrently. Entries are never evicted or replaced; Refresh
// reloads them in place and they are dropped when the organization is removed.
type Registry struct {
	store   store.Store
	metrics *telemetry.Metrics

	mu      sync.RWMutex
	tenants map[int64]*TenantCache
	retired map[int64]struct{}

	group singleflight.Group
}

// NewRegistry creates a registry backed by st.
func NewRegistry(st store.Store) *Registry {
	return &Registry{
		store:   st,
		metrics: telemetry.GetMetrics(),
		tenants: make(map[int64]*TenantCache),
		retired: make(map[int64]struct{}),
	}
}

func (r *Registry) ready() error {
	if r == nil || r.store == nil || r.tenants == nil {
		return ErrNotInitialized
	}
	return nil
}

// Store returns the backing store.
func (r *Registry) Store() store.Store {
	if r == nil {
		return nil
	}
	return r.store
}

// Len returns the number of registered tenant caches.
func (r *Registry) Len() int {
	if r.ready() != nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tenants)
}

// GetOrCreate returns the TenantCache for orgID, loading it from the store on first use.
// Returns store.ErrOrganizationNotFound if the organization doesn't exist.
func (r *Registry) GetOrCreate(ctx context.Context, orgID int64) (*TenantCache, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	if tc, ok := r.lookup(orgID); ok {
		r.metrics.CacheHitsTotal.Add(ctx, 1)
		return tc, nil
	}
	r.metrics.CacheMissesTotal.Add(ctx, 1)

	// Waiters share the first caller's load, so it must not die with that caller's request.
	loadCtx := context.WithoutCancel(ctx)

	v, err, shared := r.group.Do(strconv.FormatInt(orgID, 10), func() (any, error) {
		// A previous flight may have registered the tenant after our fast path missed.
		if tc, ok := r.lookup(orgID); ok {
			return tc, nil
		}

		tc, err := r.load(loadCtx, orgID)
		if err != nil {
			return nil, err
		}

		return r.register(orgID, tc)
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int64("org_id", orgID).
		Bool("shared", shared).
		Msg("Tenant cache resolved")

	return v.(*TenantCache), nil
}

// InsertOrganization stores a new organization and registers its cache immediately.
func (r *Registry) InsertOrganization(ctx context.Context, org *models.Organization) (*TenantCache, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	created, err := r.store.InsertOrganization(ctx, org)
	if err != nil {
		return nil, err
	}

	// A new organization has no departments or employees yet.
	tc := newTenantCache(r.store, created)
	registered, err := r.register(created.ID, tc)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("org_id", created.ID).
		Str("name", created.Name).
		Msg("Registered tenant cache")

	return registered, nil
}

// RemoveOrganization deletes the organization from the store and retires its cache.
func (r *Registry) RemoveOrganization(ctx context.Context, orgID int64) error {
	if err := r.ready(); err != nil {
		return err
	}

	if err := r.store.RemoveOrganization(ctx, orgID); err != nil {
		return err
	}

	r.mu.Lock()
	_, registered := r.tenants[orgID]
	delete(r.tenants, orgID)
	r.retired[orgID] = struct{}{}
	r.mu.Unlock()

	if registered {
		r.metrics.CacheTenantsActive.Add(ctx, -1)
	}
	r.metrics.CacheRetiredTotal.Add(ctx, 1)

	log.Info().
		Int64("org_id", orgID).
		Msg("Retired tenant cache")

	return nil
}

// Refresh reloads the registered cache of orgID in place, so callers already holding
// it observe the new snapshot. If no cache is registered one is loaded as by GetOrCreate.
func (r *Registry) Refresh(ctx context.Context, orgID int64) (*TenantCache, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	_, retired := r.retired[orgID]
	tc, ok := r.tenants[orgID]
	r.mu.RUnlock()

	if retired {
		return nil, store.ErrOrganizationNotFound
	}
	if !ok {
		return r.GetOrCreate(ctx, orgID)
	}

	if err := tc.Reload(ctx); err != nil {
		return nil, err
	}

	return tc, nil
}

// RefreshAll reloads every registered cache in place.
func (r *Registry) RefreshAll(ctx context.Context) (int, error) {
	if err := r.ready(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	ids := make([]int64, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	var errs []error
	refreshed := 0
	for _, id := range ids {
		if _, err := r.Refresh(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		refreshed++
	}

	return refreshed, errors.Join(errs...)
}

func (r *Registry) lookup(orgID int64) (*TenantCache, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tc, ok := r.tenants[orgID]
	return tc, ok
}

// register stores tc unless another cache already won, in which case the winner is returned.
func (r *Registry) register(orgID int64, tc *TenantCache) (*TenantCache, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.retired[orgID]; ok {
		return nil, store.ErrOrganizationNotFound
	}
	if existing, ok := r.tenants[orgID]; ok {
		return existing, nil
	}

	r.tenants[orgID] = tc
	r.metrics.CacheTenantsActive.Add(context.Background(), 1)

	return tc, nil
}

func (r *Registry) load(ctx context.Context, orgID int64) (*TenantCache, error) {
	start := time.Now()

	org, err := loadOrganization(ctx, r.store, orgID)

	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	r.metrics.CacheLoadsTotal.Add(ctx, 1, attrs)
	r.metrics.CacheLoadDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	if err != nil {
		r.metrics.CacheLoadErrorsTotal.Add(ctx, 1)
		if errors.Is(err, store.ErrOrganizationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load organization %d: %w", orgID, err)
	}

	log.Debug().
		Int64("org_id", orgID).
		Int("departments", len(org.Departments)).
		Int("employees", len(org.Employees)).
		Dur("duration", time.Since(start)).
		Msg("Loaded tenant cache")

	return newTenantCache(r.store, org), nil
}
