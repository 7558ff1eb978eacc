package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/hrroster/internal/cache"
	"github.com/wolfeidau/hrroster/internal/store"
	"github.com/wolfeidau/hrroster/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Executor runs commands against the tenant caches and the store behind them.
type Executor struct {
	registry *cache.Registry
	store    store.Store
	metrics  *telemetry.Metrics
}

// NewExecutor creates an executor over an initialized registry.
func NewExecutor(registry *cache.Registry) (*Executor, error) {
	if registry == nil || registry.Store() == nil {
		return nil, cache.ErrNotInitialized
	}

	return &Executor{
		registry: registry,
		store:    registry.Store(),
		metrics:  telemetry.GetMetrics(),
	}, nil
}

// Execute validates cmd and dispatches it to its handler.
//
// A returned error is structural (see Error) or an unexpected store failure.
// Business failures come back as a Result with StatusFailed.
func (e *Executor) Execute(ctx context.Context, cmd Command) (*Result, error) {
	if cmd == nil {
		return nil, invalidArgument(nil, "no command")
	}

	start := time.Now()

	res, err := e.dispatch(ctx, cmd)

	attrs := metric.WithAttributes(attribute.String("command", cmd.name()))
	e.metrics.CommandsTotal.Add(ctx, 1, attrs)
	e.metrics.CommandDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	if err != nil || !res.OK() {
		e.metrics.CommandFailuresTotal.Add(ctx, 1, attrs)
	}

	logger := zerolog.Ctx(ctx)
	switch {
	case err != nil:
		logger.Debug().Err(err).Str("command", cmd.name()).Msg("Command rejected")
	case !res.OK():
		logger.Debug().Str("command", cmd.name()).Str("message", res.Message()).Msg("Command failed")
	default:
		logger.Debug().Str("command", cmd.name()).Dur("duration", time.Since(start)).Msg("Command executed")
	}

	return res, err
}

func (e *Executor) dispatch(ctx context.Context, cmd Command) (*Result, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	switch c := cmd.(type) {
	case GetOrganization:
		return e.getOrganization(ctx, c)
	case InsertOrganization:
		return e.insertOrganization(ctx, c)
	case RenameOrganization:
		return e.renameOrganization(ctx, c)
	case RemoveOrganization:
		return e.removeOrganization(ctx, c)
	case GetDepartment:
		return e.getDepartment(ctx, c)
	case InsertDepartment:
		return e.insertDepartment(ctx, c)
	case RemoveDepartment:
		return e.removeDepartment(ctx, c)
	case SetDepartmentHead:
		return e.setDepartmentHead(ctx, c)
	case DepartmentBudgetStats:
		return e.departmentBudgetStats(ctx, c)
	case DepartmentPerformanceStats:
		return e.departmentPerformanceStats(ctx, c)
	case DepartmentPositionStats:
		return e.departmentPositionStats(ctx, c)
	case GetEmployee:
		return e.getEmployee(ctx, c)
	case UpdateEmployee:
		return e.updateEmployee(ctx, c)
	case AddEmployeeToDepartment:
		return e.addEmployeeToDepartment(ctx, c)
	case RemoveEmployeeFromDepartment:
		return e.removeEmployeeFromDepartment(ctx, c)
	case AddShift:
		return e.addShift(ctx, c)
	case GetShift:
		return e.getShift(ctx, c)
	case RemoveShift:
		return e.removeShift(ctx, c)
	default:
		return nil, invalidArgument(nil, "unsupported command %T", cmd)
	}
}

// tenant resolves the organization's cache, turning a missing organization into a NotFound error.
func (e *Executor) tenant(ctx context.Context, orgID int64) (*cache.TenantCache, error) {
	tc, err := e.registry.GetOrCreate(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrOrganizationNotFound) {
			return nil, notFound("organization %d not found", orgID)
		}
		return nil, fmt.Errorf("failed to resolve organization %d: %w", orgID, err)
	}
	return tc, nil
}
