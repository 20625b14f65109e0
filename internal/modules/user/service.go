package user

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, role string) ([]*User, error)
	UpdateSettings(ctx context.Context, id string, settings json.RawMessage) error
	AssignSuppliers(ctx context.Context, id string, supplierIDs []string) error
	Deactivate(ctx context.Context, id string) error
}

// RegisterRequest holds data for creating a user account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	role := Role(strings.ToUpper(req.Role))
	if !ValidRole(role) {
		return nil, fmt.Errorf("invalid role: %s (allowed: ADMIN, MANAGER, SECRETARY, SALES, DRIVER)", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.ListSupplierIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, sid := range ids {
		parsed, err := uuid.Parse(sid)
		if err != nil {
			continue
		}
		u.SupplierIDs = append(u.SupplierIDs, parsed)
	}
	return u, nil
}

func (s *service) ListUsers(ctx context.Context, role string) ([]*User, error) {
	return s.repo.ListUsers(ctx, strings.ToUpper(role))
}

func (s *service) UpdateSettings(ctx context.Context, id string, settings json.RawMessage) error {
	if len(settings) == 0 {
		return fmt.Errorf("settings payload is required")
	}
	if !json.Valid(settings) {
		return fmt.Errorf("settings must be valid JSON")
	}
	return s.repo.UpdateSettings(ctx, id, settings)
}

func (s *service) AssignSuppliers(ctx context.Context, id string, supplierIDs []string) error {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	if u.Role != RoleSales {
		return fmt.Errorf("suppliers can only be assigned to SALES users (user is %s)", u.Role)
	}
	for _, sid := range supplierIDs {
		if _, err := uuid.Parse(sid); err != nil {
			return fmt.Errorf("invalid supplier id %q: %w", sid, err)
		}
	}
	return s.repo.ReplaceSuppliers(ctx, id, supplierIDs)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, false)
}
