package allocation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a driver allocation.
type Status string

const (
	StatusAllocated  Status = "ALLOCATED"
	StatusReconciled Status = "RECONCILED"
)

// PaymentMethod represents how a driver sale was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCheque PaymentMethod = "CHEQUE"
	PaymentCredit PaymentMethod = "CREDIT"
)

// Allocation is the stock assigned to a driver for a given day. There is at
// most one allocation per (driver, date); re-allocating the same day edits
// the existing row.
type Allocation struct {
	ID           uuid.UUID       `json:"id"`
	DriverID     uuid.UUID       `json:"driver_id"`
	Date         time.Time       `json:"date"`
	Status       Status          `json:"status"`
	SalesTotal   decimal.Decimal `json:"sales_total"`
	Items        []*Item         `json:"items"`
	ReconciledAt *time.Time      `json:"reconciled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Item tracks one product within an allocation. Invariants: sold ≤ allocated
// and sold + returned ≤ allocated.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Allocated int       `json:"allocated"`
	Sold      int       `json:"sold"`
	Returned  int       `json:"returned"`
}

// Remaining is the quantity still on the truck and available to sell.
func (i *Item) Remaining() int { return i.Allocated - i.Sold }

// Sale records goods a driver sold to a customer. Immutable once created.
type Sale struct {
	ID            uuid.UUID       `json:"id"`
	DriverID      uuid.UUID       `json:"driver_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	Items         []*SaleItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaleItem is one product line within a driver sale.
type SaleItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// AllocateRequest is the payload for allocating (or re-allocating) stock to a
// driver for a day. Items map product id to quantity.
type AllocateRequest struct {
	DriverID string         `json:"driver_id" validate:"required,uuid4"`
	Date     string         `json:"date" validate:"required"`
	Items    map[string]int `json:"items" validate:"required,min=1"`
}

// RecordSaleRequest is the payload for recording a driver sale.
type RecordSaleRequest struct {
	DriverID      string          `json:"driver_id" validate:"required,uuid4"`
	CustomerID    string          `json:"customer_id" validate:"required,uuid4"`
	Items         map[string]int  `json:"items" validate:"required,min=1"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Notes         string          `json:"notes,omitempty"`
}

// ReconcileRequest is the payload for end-of-day reconciliation. Returned maps
// product id to the physically returned quantity; omitted products count as
// zero returned.
type ReconcileRequest struct {
	Returned map[string]int `json:"returned"`
}

// Discrepancy flags a product whose returned quantity does not match the
// unsold remainder of the allocation.
type Discrepancy struct {
	ProductID uuid.UUID `json:"product_id"`
	Expected  int       `json:"expected"` // allocated − sold
	Returned  int       `json:"returned"`
	Missing   int       `json:"missing"` // expected − returned
}

// ReconcileResult reports the reconciled allocation plus any discrepancies.
type ReconcileResult struct {
	Allocation    *Allocation   `json:"allocation"`
	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`
}

// ItemUpdate carries the per-allocation changes a recorded sale produces.
type ItemUpdate struct {
	Sold       map[string]int  // product id → quantity increment
	SalesDelta decimal.Decimal // monetary value of the units taken from this allocation
}
