package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Order represents a customer order. The cheque and credit balances track the
// unsettled portions of the total attributable to cheque and credit payment;
// they only decrease through the corresponding settlement actions.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	DriverID      *uuid.UUID      `json:"driver_id,omitempty"`
	Status        Status          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	ChequeBalance decimal.Decimal `json:"cheque_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	ReturnAmount  decimal.Decimal `json:"return_amount"`
	Notes         string          `json:"notes,omitempty"`
	Items         []*Item         `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Item is a single line item within an order.
type Item struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
}

// CartItem describes a requested line during order placement. Unit prices are
// snapshotted server-side from the product catalog.
type CartItem struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	CustomerID   string          `json:"customer_id" validate:"required,uuid4"`
	DriverID     string          `json:"driver_id,omitempty"`
	Items        []CartItem      `json:"items" validate:"required,min=1,dive"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	ChequeAmount decimal.Decimal `json:"cheque_amount"`
	Notes        string          `json:"notes,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ReturnRequest is the payload for processing a customer return against an order.
type ReturnRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
