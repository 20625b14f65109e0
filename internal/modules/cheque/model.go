package cheque

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a cheque.
type Status string

const (
	StatusReceived  Status = "RECEIVED"
	StatusCleared   Status = "CLEARED"
	StatusBounced   Status = "BOUNCED"
	StatusCancelled Status = "CANCELLED"
)

// validTransitions defines allowed status changes. RECEIVED is the only
// non-terminal state.
var validTransitions = map[Status][]Status{
	StatusReceived:  {StatusCleared, StatusBounced, StatusCancelled},
	StatusCleared:   {},
	StatusBounced:   {},
	StatusCancelled: {},
}

func canTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Cheque is a post-dated payment instrument held against an order. It is
// never deleted by lifecycle transitions; bouncing leaves the row in place
// and spawns a compensating credit collection.
type Cheque struct {
	ID           uuid.UUID       `json:"id"`
	Payer        string          `json:"payer"`
	Amount       decimal.Decimal `json:"amount"`
	Bank         string          `json:"bank,omitempty"`
	ChequeNumber string          `json:"cheque_number"`
	DepositDate  time.Time       `json:"deposit_date"`
	Status       Status          `json:"status"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
	CollectionID *uuid.UUID      `json:"collection_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateChequeRequest is the payload for registering a received cheque.
type CreateChequeRequest struct {
	Payer        string          `json:"payer" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	Bank         string          `json:"bank,omitempty"`
	ChequeNumber string          `json:"cheque_number" validate:"required"`
	DepositDate  string          `json:"deposit_date" validate:"required"`
	OrderID      string          `json:"order_id,omitempty" validate:"omitempty,uuid4"`
	CollectionID string          `json:"collection_id,omitempty" validate:"omitempty,uuid4"`
}

// DeleteChequeRequest carries the password gate for removing a cheque record.
type DeleteChequeRequest struct {
	Password string `json:"password" validate:"required"`
}
