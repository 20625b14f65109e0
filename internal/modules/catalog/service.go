package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
)

// Service defines product business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, category, supplier string) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListLowStock(ctx context.Context, threshold int) ([]*Product, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() || req.CostPrice.IsNegative() {
		return nil, fmt.Errorf("price and cost_price must not be negative")
	}
	p := &Product{
		ID:            uuid.New(),
		Name:          req.Name,
		Category:      req.Category,
		SKU:           req.SKU,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		SupplierName:  req.SupplierName,
		ImageURL:      req.ImageURL,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, category, supplier string) ([]*Product, error) {
	return s.repo.ListProducts(ctx, category, supplier)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("price must not be negative")
		}
		p.Price = *req.Price
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, fmt.Errorf("cost_price must not be negative")
		}
		p.CostPrice = *req.CostPrice
	}
	if req.SupplierName != "" {
		p.SupplierName = req.SupplierName
	}
	if req.ImageURL != "" {
		p.ImageURL = req.ImageURL
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) AdjustStock(ctx context.Context, id string, delta int) (*Product, error) {
	if delta == 0 {
		return nil, fmt.Errorf("delta must not be zero")
	}
	if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}
	return s.repo.GetProductByID(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *service) ListLowStock(ctx context.Context, threshold int) ([]*Product, error) {
	if threshold <= 0 {
		threshold = 10
	}
	return s.repo.ListLowStock(ctx, threshold)
}
