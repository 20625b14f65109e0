package order

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	orders map[string]*Order
	prices map[string]decimal.Decimal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders: make(map[string]*Order),
		prices: make(map[string]decimal.Decimal),
	}
}

func (f *fakeRepo) CreateOrder(_ context.Context, o *Order) error {
	f.orders[o.ID.String()] = o
	return nil
}

func (f *fakeRepo) GetOrderByID(_ context.Context, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return o, nil
}

func (f *fakeRepo) GetOrderByNumber(_ context.Context, orderNumber string) (*Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ListOrders(_ context.Context, filter Filter) ([]*Order, error) {
	var out []*Order
	for _, o := range f.orders {
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	o, ok := f.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.Status = status
	return nil
}

func (f *fakeRepo) AssignDriver(_ context.Context, id string, driverID string) error {
	o, ok := f.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	did := uuid.MustParse(driverID)
	o.DriverID = &did
	return nil
}

func (f *fakeRepo) ApplyReturn(_ context.Context, id string, amount, creditReduce decimal.Decimal) error {
	o, ok := f.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.ReturnAmount = o.ReturnAmount.Add(amount)
	o.CreditBalance = o.CreditBalance.Sub(creditReduce)
	return nil
}

func (f *fakeRepo) GetProductPrice(_ context.Context, productID string) (decimal.Decimal, error) {
	p, ok := f.prices[productID]
	if !ok {
		return decimal.Zero, sql.ErrNoRows
	}
	return p, nil
}

func placeTestOrder(t *testing.T, svc Service, repo *fakeRepo, paid, cheque int64) *Order {
	t.Helper()
	product := uuid.New().String()
	repo.prices[product] = decimal.NewFromInt(100)
	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID:   uuid.New().String(),
		Items:        []CartItem{{ProductID: product, Quantity: 10}}, // total 1000
		AmountPaid:   decimal.NewFromInt(paid),
		ChequeAmount: decimal.NewFromInt(cheque),
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	return o
}

func TestPlaceOrderPaymentSplit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	o := placeTestOrder(t, svc, repo, 400, 350)
	if !o.Total.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("total = %s, want 1000", o.Total)
	}
	if !o.AmountPaid.Equal(decimal.NewFromInt(400)) {
		t.Errorf("amount paid = %s, want 400", o.AmountPaid)
	}
	if !o.ChequeBalance.Equal(decimal.NewFromInt(350)) {
		t.Errorf("cheque balance = %s, want 350", o.ChequeBalance)
	}
	if !o.CreditBalance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("credit balance = %s, want 250", o.CreditBalance)
	}
	if o.Status != StatusPending {
		t.Errorf("status = %s, want %s", o.Status, StatusPending)
	}
}

func TestPlaceOrderRejectsOverpayment(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	product := uuid.New().String()
	repo.prices[product] = decimal.NewFromInt(100)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		CustomerID:   uuid.New().String(),
		Items:        []CartItem{{ProductID: product, Quantity: 1}}, // total 100
		AmountPaid:   decimal.NewFromInt(80),
		ChequeAmount: decimal.NewFromInt(30),
	})
	if err == nil {
		t.Fatal("expected error when paid plus cheque exceeds total")
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      string
		driver  bool
		wantErr bool
	}{
		{"pending to shipped with driver", StatusPending, "SHIPPED", true, false},
		{"pending to shipped without driver", StatusPending, "SHIPPED", false, true},
		{"pending to delivered skips shipped", StatusPending, "DELIVERED", true, true},
		{"shipped to delivered", StatusShipped, "DELIVERED", true, false},
		{"delivered is terminal", StatusDelivered, "SHIPPED", true, true},
		{"cancelled is terminal", StatusCancelled, "SHIPPED", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := NewService(repo)
			o := placeTestOrder(t, svc, repo, 1000, 0)
			o.Status = tt.from
			if tt.driver {
				did := uuid.New()
				o.DriverID = &did
			}

			_, err := svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: tt.to})
			if tt.wantErr && err == nil {
				t.Fatalf("transition %s -> %s: expected error", tt.from, tt.to)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("transition %s -> %s: %v", tt.from, tt.to, err)
			}
		})
	}
}

func TestAssignDriverOnlyBeforeDelivery(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	o := placeTestOrder(t, svc, repo, 1000, 0)
	o.Status = StatusDelivered

	if _, err := svc.AssignDriver(context.Background(), o.ID.String(), uuid.New().String()); err == nil {
		t.Fatal("expected error assigning driver to a delivered order")
	}
}

func TestProcessReturnGuardsCreditBalance(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	o := placeTestOrder(t, svc, repo, 600, 0) // credit balance 400

	updated, err := svc.ProcessReturn(context.Background(), o.ID.String(), ReturnRequest{
		Amount: decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("ProcessReturn: %v", err)
	}
	if !updated.ReturnAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("return amount = %s, want 150", updated.ReturnAmount)
	}
	if !updated.CreditBalance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("credit balance = %s, want 250", updated.CreditBalance)
	}

	if _, err := svc.ProcessReturn(context.Background(), o.ID.String(), ReturnRequest{
		Amount: decimal.NewFromInt(300),
	}); err == nil {
		t.Fatal("expected error returning more than the remaining credit balance")
	}
}

func TestCancelOrderOnlyActive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	o := placeTestOrder(t, svc, repo, 1000, 0)

	if err := svc.CancelOrder(context.Background(), o.ID.String()); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if o.Status != StatusCancelled {
		t.Errorf("status = %s, want %s", o.Status, StatusCancelled)
	}
	if err := svc.CancelOrder(context.Background(), o.ID.String()); err == nil {
		t.Fatal("expected error cancelling a cancelled order")
	}
}
