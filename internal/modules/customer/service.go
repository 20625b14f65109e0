package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
	"github.com/shopspring/decimal"
)

// Service defines customer business logic.
type Service interface {
	CreateCustomer(ctx context.Context, req UpsertRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, id string, req UpsertRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetSummary(ctx context.Context, id string) (*Summary, error)
}

type service struct{ repo Repository }

// NewService creates a new customer service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCustomer(ctx context.Context, req UpsertRequest) (*Customer, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	c := &Customer{
		ID:                 uuid.New(),
		Name:               req.Name,
		Phone:              req.Phone,
		Email:              req.Email,
		Address:            req.Address,
		OutstandingBalance: decimal.Zero,
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetCustomerByID(ctx, id)
}

func (s *service) ListCustomers(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *service) UpdateCustomer(ctx context.Context, id string, req UpsertRequest) (*Customer, error) {
	c, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Phone = req.Phone
	c.Email = req.Email
	c.Address = req.Address
	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id string) error {
	c, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return fmt.Errorf("customer not found: %w", err)
	}
	if c.OutstandingBalance.IsPositive() {
		return fmt.Errorf("customer has an outstanding balance of %s and cannot be deleted", c.OutstandingBalance)
	}
	return s.repo.DeleteCustomer(ctx, id)
}

func (s *service) GetSummary(ctx context.Context, id string) (*Summary, error) {
	return s.repo.GetSummary(ctx, id)
}
