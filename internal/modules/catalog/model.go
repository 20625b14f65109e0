package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents an item held in the warehouse.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int             `json:"stock_quantity"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateProductRequest holds data for adding a product.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Category      string          `json:"category"`
	SKU           string          `json:"sku" validate:"required"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	SupplierName  string          `json:"supplier_name"`
	ImageURL      string          `json:"image_url"`
}

// UpdateProductRequest holds mutable product fields.
type UpdateProductRequest struct {
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"`
	SupplierName string           `json:"supplier_name"`
	ImageURL     string           `json:"image_url"`
}
