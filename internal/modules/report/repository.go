package report

import "context"

// Repository defines the read-only aggregate queries behind reports. Rollups
// run server-side in SQL rather than being recomputed by clients.
type Repository interface {
	GetSummary(ctx context.Context, lowStockThreshold, upcomingChequeDays int) (*Summary, error)

	// GetDriverSales aggregates sales per driver over [from, to] inclusive.
	GetDriverSales(ctx context.Context, from, to string) ([]*DriverSalesRow, error)

	// ListOrderRows flattens orders (joined with customer names) for export,
	// optionally filtered by status.
	ListOrderRows(ctx context.Context, status string) ([]*OrderRow, error)

	// ListProductRows flattens the catalog for export.
	ListProductRows(ctx context.Context) ([]*ProductRow, error)
}
