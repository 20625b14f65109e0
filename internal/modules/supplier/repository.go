package supplier

import "context"

// Repository defines supplier data storage.
type Repository interface {
	CreateSupplier(ctx context.Context, s *Supplier) error
	GetSupplierByID(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, s *Supplier) error
	DeleteSupplier(ctx context.Context, id string) error
}
