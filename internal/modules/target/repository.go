package target

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines data access for daily targets.
type Repository interface {
	// UpsertTarget inserts the target or, when one exists for the same
	// (date, driver) pair, overwrites its amount.
	UpsertTarget(ctx context.Context, t *Target) error

	GetTargetByID(ctx context.Context, id string) (*Target, error)

	// GetTarget returns the target for a date and optional driver, or
	// sql.ErrNoRows when none is set.
	GetTarget(ctx context.Context, date, driverID string) (*Target, error)

	// ListTargets returns targets within [from, to] inclusive, oldest first.
	ListTargets(ctx context.Context, from, to string) ([]*Target, error)

	// SumSales totals driver sales recorded on the given date. An empty
	// driverID sums across all drivers.
	SumSales(ctx context.Context, date, driverID string) (decimal.Decimal, error)

	DeleteTarget(ctx context.Context, id string) error
}
