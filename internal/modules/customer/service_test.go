package customer

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	customers map[string]*Customer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: make(map[string]*Customer)}
}

func (f *fakeRepo) CreateCustomer(_ context.Context, c *Customer) error {
	f.customers[c.ID.String()] = c
	return nil
}

func (f *fakeRepo) GetCustomerByID(_ context.Context, id string) (*Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeRepo) ListCustomers(_ context.Context) ([]*Customer, error) {
	var out []*Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) UpdateCustomer(_ context.Context, c *Customer) error {
	if _, ok := f.customers[c.ID.String()]; !ok {
		return sql.ErrNoRows
	}
	f.customers[c.ID.String()] = c
	return nil
}

func (f *fakeRepo) DeleteCustomer(_ context.Context, id string) error {
	if _, ok := f.customers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeRepo) AdjustOutstanding(_ context.Context, id string, delta decimal.Decimal) error {
	c, ok := f.customers[id]
	if !ok {
		return sql.ErrNoRows
	}
	next := c.OutstandingBalance.Add(delta)
	if next.IsNegative() {
		return sql.ErrTxDone
	}
	c.OutstandingBalance = next
	return nil
}

func (f *fakeRepo) GetSummary(_ context.Context, id string) (*Summary, error) {
	return &Summary{}, nil
}

func TestCreateCustomerRequiresName(t *testing.T) {
	svc := NewService(newFakeRepo())
	if _, err := svc.CreateCustomer(context.Background(), UpsertRequest{}); err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestDeleteCustomerBlockedByOutstanding(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	c, err := svc.CreateCustomer(context.Background(), UpsertRequest{Name: "Perera Stores"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	c.OutstandingBalance = decimal.NewFromInt(500)

	if err := svc.DeleteCustomer(context.Background(), c.ID.String()); err == nil {
		t.Fatal("expected error deleting a customer with outstanding balance")
	}
	if _, ok := repo.customers[c.ID.String()]; !ok {
		t.Fatal("customer was deleted despite outstanding balance")
	}

	c.OutstandingBalance = decimal.Zero
	if err := svc.DeleteCustomer(context.Background(), c.ID.String()); err != nil {
		t.Fatalf("DeleteCustomer with zero balance: %v", err)
	}
}
