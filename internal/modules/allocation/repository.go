package allocation

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines data access for allocations and driver sales. Multi-table
// effects (stock withdrawal, sold counters, credit collections) are applied
// inside single transactions by the implementation.
type Repository interface {
	// CreateAllocation inserts the allocation and its items and applies the
	// given signed stock deltas to the products table atomically. A delta that
	// would drive stock negative aborts the transaction.
	CreateAllocation(ctx context.Context, a *Allocation, stockDeltas map[string]int) error

	// ReplaceItems swaps an allocation's item set and applies stock deltas
	// atomically (used when editing a day's allocation).
	ReplaceItems(ctx context.Context, a *Allocation, stockDeltas map[string]int) error

	GetAllocationByID(ctx context.Context, id string) (*Allocation, error)

	// GetAllocationByDriverDate returns the single allocation for a driver on
	// a date, or sql.ErrNoRows when none exists.
	GetAllocationByDriverDate(ctx context.Context, driverID, date string) (*Allocation, error)

	// ListActiveByDriver returns the driver's ALLOCATED allocations oldest
	// first.
	ListActiveByDriver(ctx context.Context, driverID string) ([]*Allocation, error)

	ListAllocations(ctx context.Context, driverID, status, date string) ([]*Allocation, error)

	// RecordSale inserts the sale and its items, bumps sold counters and sales
	// totals on the given allocations, and — when creditDelta is positive —
	// raises the customer's outstanding balance and opens a credit collection,
	// all in one transaction.
	RecordSale(ctx context.Context, sale *Sale, updates map[string]ItemUpdate, creditDelta decimal.Decimal) error

	// Reconcile marks the allocation RECONCILED, stores returned quantities,
	// and re-adds returned stock to the warehouse in one transaction.
	Reconcile(ctx context.Context, allocationID string, returned map[string]int) error

	GetSaleByID(ctx context.Context, id string) (*Sale, error)
	ListSalesByDriver(ctx context.Context, driverID string) ([]*Sale, error)

	// GetProductPrice fetches the current catalog price for a product.
	GetProductPrice(ctx context.Context, productID string) (decimal.Decimal, error)

	// GetProductStock fetches the current warehouse quantity for a product.
	GetProductStock(ctx context.Context, productID string) (int, error)
}
