package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the dashboard roll-up: headline counts and money positions
// computed server-side in one pass.
type Summary struct {
	TotalProducts       int             `json:"total_products"`
	LowStockProducts    int             `json:"low_stock_products"`
	TotalCustomers      int             `json:"total_customers"`
	TotalSuppliers      int             `json:"total_suppliers"`
	PendingOrders       int             `json:"pending_orders"`
	OrdersToday         int             `json:"orders_today"`
	SalesToday          decimal.Decimal `json:"sales_today"`
	OutstandingTotal    decimal.Decimal `json:"outstanding_total"`
	UpcomingCheques     int             `json:"upcoming_cheques"`
	ChequeAmountOnHand  decimal.Decimal `json:"cheque_amount_on_hand"`
	ActiveAllocations   int             `json:"active_allocations"`
	PendingCollections  int             `json:"pending_collections"`
	CollectionsToRecoup decimal.Decimal `json:"collections_to_recoup"`
}

// DriverSalesRow aggregates one driver's sales over a date range.
type DriverSalesRow struct {
	DriverID    uuid.UUID       `json:"driver_id"`
	DriverName  string          `json:"driver_name"`
	SaleCount   int             `json:"sale_count"`
	PaidTotal   decimal.Decimal `json:"paid_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// OrderRow is one order flattened for export.
type OrderRow struct {
	OrderNumber   string          `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	ChequeBalance decimal.Decimal `json:"cheque_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProductRow is one product flattened for export.
type ProductRow struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	SKU           string          `json:"sku"`
	SupplierName  string          `json:"supplier_name"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int             `json:"stock_quantity"`
}
