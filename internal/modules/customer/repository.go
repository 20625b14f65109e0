package customer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines customer data storage.
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomerByID(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id string) error

	// AdjustOutstanding applies a signed delta to a customer's outstanding
	// balance. The update fails when it would drive the balance negative.
	AdjustOutstanding(ctx context.Context, id string, delta decimal.Decimal) error

	// GetSummary returns derived order aggregates for a customer.
	GetSummary(ctx context.Context, id string) (*Summary, error)
}
