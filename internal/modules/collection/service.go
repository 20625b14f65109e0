package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
)

// Service defines collection business operations.
type Service interface {
	CreateCollection(ctx context.Context, req CreateCollectionRequest) (*Collection, error)
	GetCollection(ctx context.Context, id string) (*Collection, error)
	ListCollections(ctx context.Context, collectionType, status, orderID string) ([]*Collection, error)

	// CompleteCollection recognizes the payment. Completing a credit
	// collection settles the linked order and customer balances.
	CompleteCollection(ctx context.Context, id string) (*Collection, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCollection(ctx context.Context, req CreateCollectionRequest) (*Collection, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, errors.New("collection amount must be positive")
	}
	if req.OrderID == "" && req.CustomerID == "" {
		return nil, errors.New("a collection needs an order or a customer")
	}
	c := &Collection{
		ID:        uuid.New(),
		Type:      Type(req.Type),
		Amount:    req.Amount,
		Status:    StatusPending,
		Reference: req.Reference,
	}
	if req.OrderID != "" {
		oid, err := uuid.Parse(req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("invalid order_id: %w", err)
		}
		c.OrderID = &oid
	}
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id: %w", err)
		}
		c.CustomerID = &cid
	}
	if err := s.repo.CreateCollection(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetCollectionByID(ctx, c.ID.String())
}

func (s *service) GetCollection(ctx context.Context, id string) (*Collection, error) {
	return s.repo.GetCollectionByID(ctx, id)
}

func (s *service) ListCollections(ctx context.Context, collectionType, status, orderID string) ([]*Collection, error) {
	return s.repo.ListCollections(ctx, collectionType, status, orderID)
}

func (s *service) CompleteCollection(ctx context.Context, id string) (*Collection, error) {
	c, err := s.repo.GetCollectionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusPending {
		return nil, fmt.Errorf("collection %s is already %s", id, c.Status)
	}
	if err := s.repo.Complete(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetCollectionByID(ctx, id)
}
