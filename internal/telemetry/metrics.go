package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/hrroster"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Cache metrics
	CacheHitsTotal       metric.Int64Counter
	CacheMissesTotal     metric.Int64Counter
	CacheLoadsTotal      metric.Int64Counter
	CacheLoadErrorsTotal metric.Int64Counter
	CacheLoadDuration    metric.Float64Histogram
	CacheRefreshesTotal  metric.Int64Counter
	CacheRetiredTotal    metric.Int64Counter
	CacheTenantsActive   metric.Int64UpDownCounter

	// Command metrics
	CommandsTotal        metric.Int64Counter
	CommandFailuresTotal metric.Int64Counter
	CommandDuration      metric.Float64Histogram

	// Shift metrics
	ShiftsAssignedTotal metric.Int64Counter
	ShiftConflictsTotal metric.Int64Counter
	ShiftsRemovedTotal  metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.CacheHitsTotal, _ = meter.Int64Counter(
		"hrroster.cache.hits.total",
		metric.WithDescription("Total number of registry lookups served by a registered tenant cache"),
		metric.WithUnit("{lookup}"),
	)

	m.CacheMissesTotal, _ = meter.Int64Counter(
		"hrroster.cache.misses.total",
		metric.WithDescription("Total number of registry lookups that required construction"),
		metric.WithUnit("{lookup}"),
	)

	m.CacheLoadErrorsTotal, _ = meter.Int64Counter(
		"hrroster.cache.load_errors.total",
		metric.WithDescription("Total number of failed tenant cache loads"),
		metric.WithUnit("{error}"),
	)

	m.CacheRefreshesTotal, _ = meter.Int64Counter(
		"hrroster.cache.refreshes.total",
		metric.WithDescription("Total number of tenant snapshot reloads after a write"),
		metric.WithUnit("{refresh}"),
	)

	m.CacheLoadsTotal, _ = meter.Int64Counter(
		"hrroster.cache.loads.total",
		metric.WithDescription("Total number of tenant cache loads from the store"),
		metric.WithUnit("{load}"),
	)

	m.CacheLoadDuration, _ = meter.Float64Histogram(
		"hrroster.cache.load.duration",
		metric.WithDescription("Duration of tenant cache loads"),
		metric.WithUnit("ms"),
	)

	m.CacheRetiredTotal, _ = meter.Int64Counter(
		"hrroster.cache.retired.total",
		metric.WithDescription("Total number of tenant caches retired"),
		metric.WithUnit("{tenant}"),
	)

	m.CacheTenantsActive, _ = meter.Int64UpDownCounter(
		"hrroster.cache.tenants.active",
		metric.WithDescription("Number of tenant caches currently registered"),
		metric.WithUnit("{tenant}"),
	)

	m.CommandsTotal, _ = meter.Int64Counter(
		"hrroster.commands.total",
		metric.WithDescription("Total number of commands executed"),
		metric.WithUnit("{command}"),
	)

	m.CommandFailuresTotal, _ = meter.Int64Counter(
		"hrroster.commands.failures.total",
		metric.WithDescription("Total number of commands that returned an error or failed result"),
		metric.WithUnit("{command}"),
	)

	m.CommandDuration, _ = meter.Float64Histogram(
		"hrroster.commands.duration",
		metric.WithDescription("Duration of command execution"),
		metric.WithUnit("ms"),
	)

	m.ShiftsAssignedTotal, _ = meter.Int64Counter(
		"hrroster.shifts.assigned.total",
		metric.WithDescription("Total number of shift assignments"),
		metric.WithUnit("{shift}"),
	)

	m.ShiftConflictsTotal, _ = meter.Int64Counter(
		"hrroster.shifts.conflicts.total",
		metric.WithDescription("Total number of rejected shift assignments"),
		metric.WithUnit("{shift}"),
	)

	m.ShiftsRemovedTotal, _ = meter.Int64Counter(
		"hrroster.shifts.removed.total",
		metric.WithDescription("Total number of shift assignments removed"),
		metric.WithUnit("{shift}"),
	)

	return m
}
