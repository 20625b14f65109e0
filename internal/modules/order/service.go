package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
	"github.com/shopspring/decimal"
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates the cart, snapshots prices, computes the payment
	// split, and persists the order atomically.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	GetOrder(ctx context.Context, id string) (*Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListOrders(ctx context.Context, f Filter) ([]*Order, error)

	// UpdateStatus advances an order through the delivery state machine.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// AssignDriver sets the delivery driver on a PENDING or SHIPPED order.
	AssignDriver(ctx context.Context, id string, driverID string) (*Order, error)

	// CancelOrder cancels a PENDING or SHIPPED order.
	CancelOrder(ctx context.Context, id string) error

	// ProcessReturn records a customer return against the order's credit balance.
	ProcessReturn(ctx context.Context, id string, req ReturnRequest) (*Order, error)
}

type service struct{ repo Repository }

// NewService creates a new order service.
func NewService(repo Repository) Service { return &service{repo: repo} }

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id: %w", err)
	}

	// ── Build order items with snapshotted prices ─────────────────────────────
	var items []*Item
	total := decimal.Zero
	for _, ci := range req.Items {
		price, err := s.repo.GetProductPrice(ctx, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", ci.ProductID)
		}
		pid, err := uuid.Parse(ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, &Item{
			ID:        uuid.New(),
			ProductID: pid,
			Quantity:  ci.Quantity,
			UnitPrice: price,
			LineTotal: lineTotal,
		})
	}

	// ── Payment split ─────────────────────────────────────────────────────────
	// Whatever is not paid up front or covered by a cheque becomes credit.
	amountPaid := req.AmountPaid
	chequeAmount := req.ChequeAmount
	if amountPaid.IsNegative() || chequeAmount.IsNegative() {
		return nil, fmt.Errorf("amount_paid and cheque_amount must not be negative")
	}
	if amountPaid.Add(chequeAmount).GreaterThan(total) {
		return nil, fmt.Errorf("amount_paid plus cheque_amount (%s) exceeds order total (%s)",
			amountPaid.Add(chequeAmount), total)
	}
	creditBalance := total.Sub(amountPaid).Sub(chequeAmount)

	o := &Order{
		ID:            uuid.New(),
		OrderNumber:   generateOrderNumber(),
		CustomerID:    customerID,
		Status:        StatusPending,
		Total:         total,
		AmountPaid:    amountPaid,
		ChequeBalance: chequeAmount,
		CreditBalance: creditBalance,
		ReturnAmount:  decimal.Zero,
		Notes:         req.Notes,
		Items:         items,
	}
	if req.DriverID != "" {
		did, err := uuid.Parse(req.DriverID)
		if err != nil {
			return nil, fmt.Errorf("invalid driver_id: %w", err)
		}
		o.DriverID = &did
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *service) ListOrders(ctx context.Context, f Filter) ([]*Order, error) {
	f.Status = strings.ToUpper(f.Status)
	return s.repo.ListOrders(ctx, f)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}

	newStatus := Status(strings.ToUpper(req.Status))
	allowed := validTransitions[o.Status]
	valid := false
	for _, st := range allowed {
		if st == newStatus {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("cannot transition order from %s to %s", o.Status, newStatus)
	}
	if newStatus == StatusShipped && o.DriverID == nil {
		return nil, fmt.Errorf("order cannot be shipped without an assigned driver")
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	return o, nil
}

func (s *service) AssignDriver(ctx context.Context, id string, driverID string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if o.Status != StatusPending && o.Status != StatusShipped {
		return nil, fmt.Errorf("driver can only be assigned to PENDING or SHIPPED orders (current: %s)", o.Status)
	}
	if _, err := uuid.Parse(driverID); err != nil {
		return nil, fmt.Errorf("invalid driver_id: %w", err)
	}
	if err := s.repo.AssignDriver(ctx, id, driverID); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) CancelOrder(ctx context.Context, id string) error {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return fmt.Errorf("order not found: %w", err)
	}
	if o.Status != StatusPending && o.Status != StatusShipped {
		return fmt.Errorf("only PENDING or SHIPPED orders can be cancelled (current: %s)", o.Status)
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

func (s *service) ProcessReturn(ctx context.Context, id string, req ReturnRequest) (*Order, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("return amount must be greater than zero")
	}
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	// Returns settle against what the customer still owes on credit; the
	// cheque balance is only touched by cheque settlement.
	if req.Amount.GreaterThan(o.CreditBalance) {
		return nil, fmt.Errorf("return amount %s exceeds credit balance %s", req.Amount, o.CreditBalance)
	}
	if err := s.repo.ApplyReturn(ctx, id, req.Amount, req.Amount); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, id)
}

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}
