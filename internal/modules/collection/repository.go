package collection

import "context"

// Repository defines data access for collections.
type Repository interface {
	CreateCollection(ctx context.Context, c *Collection) error
	GetCollectionByID(ctx context.Context, id string) (*Collection, error)

	// ListCollections returns collections newest first, optionally filtered by
	// type, status and order.
	ListCollections(ctx context.Context, collectionType, status, orderID string) ([]*Collection, error)

	// Complete marks a PENDING collection COMPLETE. For CREDIT collections it
	// also lowers the linked order's credit balance and the linked customer's
	// outstanding balance by the collection amount, all in one transaction.
	// A balance that would go negative aborts.
	Complete(ctx context.Context, c *Collection) error
}
