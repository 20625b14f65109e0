package cheque

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines data access for cheques. Settlement effects on orders
// and collections are applied inside single transactions by the
// implementation.
type Repository interface {
	CreateCheque(ctx context.Context, c *Cheque) error
	GetChequeByID(ctx context.Context, id string) (*Cheque, error)

	// ListCheques returns cheques newest first, optionally filtered by status.
	ListCheques(ctx context.Context, status string) ([]*Cheque, error)

	// ListUpcoming returns RECEIVED cheques whose deposit date falls within
	// the next `days` days (inclusive of today).
	ListUpcoming(ctx context.Context, days int) ([]*Cheque, error)

	// Clear marks the cheque CLEARED and settles the linked order: amount_paid
	// rises by the cheque amount, cheque_balance falls by the same amount with
	// any excess taken from credit_balance, and the linked collection (if any)
	// is marked COMPLETE. All in one transaction; insufficient combined
	// balance aborts.
	Clear(ctx context.Context, chequeID uuid.UUID, orderID, collectionID *uuid.UUID, amount decimal.Decimal) error

	// Bounce marks the cheque BOUNCED, moves the amount from the order's
	// cheque balance to its credit balance, and inserts exactly one new
	// PENDING credit collection for the same amount and order, all in one
	// transaction.
	Bounce(ctx context.Context, c *Cheque) error

	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error
	DeleteCheque(ctx context.Context, id string) error
}
