package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// Filter narrows order listings.
type Filter struct {
	Status     string
	CustomerID string
	DriverID   string
}

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically in a transaction.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items by UUID.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable order number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListOrders returns orders matching the filter, newest first.
	ListOrders(ctx context.Context, f Filter) ([]*Order, error)

	// UpdateStatus advances an order to a new status.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// AssignDriver sets the delivery driver for an order.
	AssignDriver(ctx context.Context, id string, driverID string) error

	// ApplyReturn records a customer return, increasing return_amount and
	// reducing the credit balance by creditReduce in one statement.
	ApplyReturn(ctx context.Context, id string, amount, creditReduce decimal.Decimal) error

	// GetProductPrice fetches the current catalog price for a product.
	GetProductPrice(ctx context.Context, productID string) (decimal.Decimal, error)
}
