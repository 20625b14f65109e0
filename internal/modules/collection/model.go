package collection

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type distinguishes how an awaited payment is expected to arrive.
type Type string

const (
	TypeCheque Type = "CHEQUE"
	TypeCredit Type = "CREDIT"
)

// Status represents the lifecycle state of a collection.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusComplete Status = "COMPLETE"
)

// Collection is a pending-payment record linking an order or customer to an
// amount awaiting recognition.
type Collection struct {
	ID          uuid.UUID       `json:"id"`
	Type        Type            `json:"collection_type"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateCollectionRequest is the payload for opening a pending collection.
type CreateCollectionRequest struct {
	Type       string          `json:"collection_type" validate:"required,oneof=CHEQUE CREDIT"`
	OrderID    string          `json:"order_id,omitempty" validate:"omitempty,uuid4"`
	CustomerID string          `json:"customer_id,omitempty" validate:"omitempty,uuid4"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Reference  string          `json:"reference,omitempty"`
}
