package user

import "context"

// Repository defines user data storage.
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, role string) ([]*User, error)
	UpdateSettings(ctx context.Context, id string, settings []byte) error
	SetActive(ctx context.Context, id string, active bool) error

	// ReplaceSuppliers swaps the full supplier assignment set for a user
	// atomically.
	ReplaceSuppliers(ctx context.Context, userID string, supplierIDs []string) error
	ListSupplierIDs(ctx context.Context, userID string) ([]string, error)
}
