package supplier

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
)

// Service defines supplier business logic.
type Service interface {
	CreateSupplier(ctx context.Context, req UpsertRequest) (*Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, id string, req UpsertRequest) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a new supplier service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateSupplier(ctx context.Context, req UpsertRequest) (*Supplier, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	sup := &Supplier{
		ID:            uuid.New(),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}
	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	return s.repo.GetSupplierByID(ctx, id)
}

func (s *service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *service) UpdateSupplier(ctx context.Context, id string, req UpsertRequest) (*Supplier, error) {
	sup, err := s.repo.GetSupplierByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("supplier not found: %w", err)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	sup.Name = req.Name
	sup.ContactPerson = req.ContactPerson
	sup.Phone = req.Phone
	sup.Email = req.Email
	sup.Address = req.Address
	if err := s.repo.UpdateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) DeleteSupplier(ctx context.Context, id string) error {
	return s.repo.DeleteSupplier(ctx, id)
}
