package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer represents a buyer the business sells and delivers to.
type Customer struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone,omitempty"`
	Email              string          `json:"email,omitempty"`
	Address            string          `json:"address,omitempty"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Summary carries derived aggregates for a customer.
type Summary struct {
	CustomerID         uuid.UUID       `json:"customer_id"`
	Name               string          `json:"name"`
	OrderCount         int             `json:"order_count"`
	TotalOrdered       decimal.Decimal `json:"total_ordered"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

// UpsertRequest holds data for creating or updating a customer.
type UpsertRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}
