package catalog

import "context"

// Repository defines product data storage.
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProductByID(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, category, supplier string) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	// AdjustStock applies a signed delta to a product's stock quantity.
	// The update fails when it would drive stock below zero.
	AdjustStock(ctx context.Context, id string, delta int) error

	// ListLowStock returns products at or below the given quantity.
	ListLowStock(ctx context.Context, threshold int) ([]*Product, error)
}
