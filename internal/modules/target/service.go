package target

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Service defines daily-target business operations.
type Service interface {
	// SetTarget creates or overwrites the target for a (date, driver) pair.
	SetTarget(ctx context.Context, req UpsertTargetRequest, createdBy string) (*Target, error)

	GetTarget(ctx context.Context, id string) (*Target, error)
	ListTargets(ctx context.Context, from, to string) ([]*Target, error)

	// GetAchievement compares a date's target with the driver sales recorded
	// that day.
	GetAchievement(ctx context.Context, date, driverID string) (*Achievement, error)

	DeleteTarget(ctx context.Context, id string) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) SetTarget(ctx context.Context, req UpsertTargetRequest, createdBy string) (*Target, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, errors.New("target amount must not be negative")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid target_date, want YYYY-MM-DD: %w", err)
	}
	t := &Target{
		ID:     uuid.New(),
		Date:   date,
		Amount: req.Amount,
	}
	if req.DriverID != "" {
		did, err := uuid.Parse(req.DriverID)
		if err != nil {
			return nil, fmt.Errorf("invalid driver_id: %w", err)
		}
		t.DriverID = &did
	}
	if createdBy != "" {
		if uid, err := uuid.Parse(createdBy); err == nil {
			t.CreatedBy = &uid
		}
	}
	if err := s.repo.UpsertTarget(ctx, t); err != nil {
		return nil, err
	}
	return s.repo.GetTarget(ctx, req.Date, req.DriverID)
}

func (s *service) GetTarget(ctx context.Context, id string) (*Target, error) {
	return s.repo.GetTargetByID(ctx, id)
}

func (s *service) ListTargets(ctx context.Context, from, to string) ([]*Target, error) {
	if _, err := time.Parse(dateLayout, from); err != nil {
		return nil, fmt.Errorf("invalid from date, want YYYY-MM-DD: %w", err)
	}
	if _, err := time.Parse(dateLayout, to); err != nil {
		return nil, fmt.Errorf("invalid to date, want YYYY-MM-DD: %w", err)
	}
	return s.repo.ListTargets(ctx, from, to)
}

func (s *service) GetAchievement(ctx context.Context, date, driverID string) (*Achievement, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date, want YYYY-MM-DD: %w", err)
	}
	t, err := s.repo.GetTarget(ctx, date, driverID)
	if err != nil {
		return nil, err
	}
	achieved, err := s.repo.SumSales(ctx, date, driverID)
	if err != nil {
		return nil, err
	}
	percent := decimal.Zero
	if t.Amount.IsPositive() {
		percent = achieved.Div(t.Amount).Mul(hundred).Round(2)
	}
	return &Achievement{Target: t, Achieved: achieved, Percent: percent}, nil
}

func (s *service) DeleteTarget(ctx context.Context, id string) error {
	return s.repo.DeleteTarget(ctx, id)
}
