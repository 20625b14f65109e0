package cheque

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
)

const dateLayout = "2006-01-02"

// Service defines cheque business operations.
type Service interface {
	CreateCheque(ctx context.Context, req CreateChequeRequest) (*Cheque, error)
	GetCheque(ctx context.Context, id string) (*Cheque, error)
	ListCheques(ctx context.Context, status string) ([]*Cheque, error)

	// ListUpcoming returns cheques due for deposit within the configured
	// horizon (or `days` when positive).
	ListUpcoming(ctx context.Context, days int) ([]*Cheque, error)

	// ClearCheque settles the cheque against its linked order.
	ClearCheque(ctx context.Context, id string) (*Cheque, error)

	// BounceCheque marks the cheque bounced and opens a compensating credit
	// collection. The cheque record itself is kept.
	BounceCheque(ctx context.Context, id string) (*Cheque, error)

	CancelCheque(ctx context.Context, id string) (*Cheque, error)

	// DeleteCheque removes the record outright. Gated on the configured
	// delete password; a wrong password leaves the cheque untouched.
	DeleteCheque(ctx context.Context, id string, req DeleteChequeRequest) error
}

type service struct {
	repo           Repository
	deletePassword string
	upcomingDays   int
}

func NewService(repo Repository, deletePassword string, upcomingDays int) Service {
	return &service{repo: repo, deletePassword: deletePassword, upcomingDays: upcomingDays}
}

func (s *service) CreateCheque(ctx context.Context, req CreateChequeRequest) (*Cheque, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, errors.New("cheque amount must be positive")
	}
	depositDate, err := time.Parse(dateLayout, req.DepositDate)
	if err != nil {
		return nil, fmt.Errorf("invalid deposit_date, want YYYY-MM-DD: %w", err)
	}
	c := &Cheque{
		ID:           uuid.New(),
		Payer:        req.Payer,
		Amount:       req.Amount,
		Bank:         req.Bank,
		ChequeNumber: req.ChequeNumber,
		DepositDate:  depositDate,
		Status:       StatusReceived,
	}
	if req.OrderID != "" {
		oid, err := uuid.Parse(req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("invalid order_id: %w", err)
		}
		c.OrderID = &oid
	}
	if req.CollectionID != "" {
		cid, err := uuid.Parse(req.CollectionID)
		if err != nil {
			return nil, fmt.Errorf("invalid collection_id: %w", err)
		}
		c.CollectionID = &cid
	}
	if err := s.repo.CreateCheque(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetChequeByID(ctx, c.ID.String())
}

func (s *service) GetCheque(ctx context.Context, id string) (*Cheque, error) {
	return s.repo.GetChequeByID(ctx, id)
}

func (s *service) ListCheques(ctx context.Context, status string) ([]*Cheque, error) {
	return s.repo.ListCheques(ctx, status)
}

func (s *service) ListUpcoming(ctx context.Context, days int) ([]*Cheque, error) {
	if days <= 0 {
		days = s.upcomingDays
	}
	return s.repo.ListUpcoming(ctx, days)
}

func (s *service) ClearCheque(ctx context.Context, id string) (*Cheque, error) {
	c, err := s.repo.GetChequeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(c.Status, StatusCleared) {
		return nil, fmt.Errorf("cannot clear a cheque in status %s", c.Status)
	}
	if err := s.repo.Clear(ctx, c.ID, c.OrderID, c.CollectionID, c.Amount); err != nil {
		return nil, err
	}
	return s.repo.GetChequeByID(ctx, id)
}

func (s *service) BounceCheque(ctx context.Context, id string) (*Cheque, error) {
	c, err := s.repo.GetChequeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(c.Status, StatusBounced) {
		return nil, fmt.Errorf("cannot bounce a cheque in status %s", c.Status)
	}
	if err := s.repo.Bounce(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetChequeByID(ctx, id)
}

func (s *service) CancelCheque(ctx context.Context, id string) (*Cheque, error) {
	c, err := s.repo.GetChequeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(c.Status, StatusCancelled) {
		return nil, fmt.Errorf("cannot cancel a cheque in status %s", c.Status)
	}
	if err := s.repo.UpdateStatus(ctx, c.ID, c.Status, StatusCancelled); err != nil {
		return nil, err
	}
	return s.repo.GetChequeByID(ctx, id)
}

func (s *service) DeleteCheque(ctx context.Context, id string, req DeleteChequeRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if s.deletePassword == "" || req.Password != s.deletePassword {
		return errors.New("incorrect delete password")
	}
	if _, err := s.repo.GetChequeByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteCheque(ctx, id)
}
