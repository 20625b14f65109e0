package allocation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	allocations map[string]*Allocation
	sales       map[string]*Sale
	stock       map[string]int
	prices      map[string]decimal.Decimal
	creditDelta decimal.Decimal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		allocations: make(map[string]*Allocation),
		sales:       make(map[string]*Sale),
		stock:       make(map[string]int),
		prices:      make(map[string]decimal.Decimal),
	}
}

func (f *fakeRepo) applyStockDeltas(deltas map[string]int) error {
	for pid, delta := range deltas {
		if f.stock[pid]+delta < 0 {
			return sql.ErrTxDone
		}
	}
	for pid, delta := range deltas {
		f.stock[pid] += delta
	}
	return nil
}

func (f *fakeRepo) CreateAllocation(_ context.Context, a *Allocation, stockDeltas map[string]int) error {
	if err := f.applyStockDeltas(stockDeltas); err != nil {
		return err
	}
	f.allocations[a.ID.String()] = a
	return nil
}

func (f *fakeRepo) ReplaceItems(_ context.Context, a *Allocation, stockDeltas map[string]int) error {
	if err := f.applyStockDeltas(stockDeltas); err != nil {
		return err
	}
	f.allocations[a.ID.String()] = a
	return nil
}

func (f *fakeRepo) GetAllocationByID(_ context.Context, id string) (*Allocation, error) {
	a, ok := f.allocations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (f *fakeRepo) GetAllocationByDriverDate(_ context.Context, driverID, date string) (*Allocation, error) {
	for _, a := range f.allocations {
		if a.DriverID.String() == driverID && a.Date.Format(dateLayout) == date {
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ListActiveByDriver(_ context.Context, driverID string) ([]*Allocation, error) {
	var active []*Allocation
	for _, a := range f.allocations {
		if a.DriverID.String() == driverID && a.Status == StatusAllocated {
			active = append(active, a)
		}
	}
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			if active[j].Date.Before(active[i].Date) {
				active[i], active[j] = active[j], active[i]
			}
		}
	}
	return active, nil
}

func (f *fakeRepo) ListAllocations(_ context.Context, driverID, status, date string) ([]*Allocation, error) {
	var out []*Allocation
	for _, a := range f.allocations {
		if driverID != "" && a.DriverID.String() != driverID {
			continue
		}
		if status != "" && string(a.Status) != status {
			continue
		}
		if date != "" && a.Date.Format("2006-01-02") != date {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) RecordSale(_ context.Context, sale *Sale, updates map[string]ItemUpdate, creditDelta decimal.Decimal) error {
	for allocID, u := range updates {
		a := f.allocations[allocID]
		for pid, inc := range u.Sold {
			for _, it := range a.Items {
				if it.ProductID.String() == pid {
					it.Sold += inc
				}
			}
		}
		a.SalesTotal = a.SalesTotal.Add(u.SalesDelta)
	}
	f.sales[sale.ID.String()] = sale
	f.creditDelta = f.creditDelta.Add(creditDelta)
	return nil
}

func (f *fakeRepo) Reconcile(_ context.Context, allocationID string, returned map[string]int) error {
	a, ok := f.allocations[allocationID]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	a.Status = StatusReconciled
	a.ReconciledAt = &now
	for pid, qty := range returned {
		for _, it := range a.Items {
			if it.ProductID.String() == pid {
				it.Returned = qty
			}
		}
		f.stock[pid] += qty
	}
	return nil
}

func (f *fakeRepo) GetSaleByID(_ context.Context, id string) (*Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeRepo) ListSalesByDriver(_ context.Context, driverID string) ([]*Sale, error) {
	var out []*Sale
	for _, s := range f.sales {
		if s.DriverID.String() == driverID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetProductPrice(_ context.Context, productID string) (decimal.Decimal, error) {
	p, ok := f.prices[productID]
	if !ok {
		return decimal.Zero, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeRepo) GetProductStock(_ context.Context, productID string) (int, error) {
	qty, ok := f.stock[productID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return qty, nil
}

func TestListAllocationsFiltersByDateAlone(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	product := uuid.New().String()
	repo.stock[product] = 100

	for _, date := range []string{"2026-08-28", "2026-08-29"} {
		if _, err := svc.Allocate(context.Background(), AllocateRequest{
			DriverID: uuid.New().String(),
			Date:     date,
			Items:    map[string]int{product: 10},
		}); err != nil {
			t.Fatalf("Allocate %s: %v", date, err)
		}
	}

	got, err := svc.ListAllocations(context.Background(), "", "", "2026-08-29")
	if err != nil {
		t.Fatalf("ListAllocations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("allocations = %d, want 1", len(got))
	}
	if got[0].Date.Format("2006-01-02") != "2026-08-29" {
		t.Errorf("date = %s, want 2026-08-29", got[0].Date.Format("2006-01-02"))
	}
}

func TestAllocateWithdrawsStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	repo.stock[product] = 60

	a, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 50},
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if repo.stock[product] != 10 {
		t.Errorf("stock after allocation = %d, want 10", repo.stock[product])
	}
	if len(a.Items) != 1 || a.Items[0].Allocated != 50 {
		t.Errorf("allocation items = %+v, want one item with 50 allocated", a.Items)
	}
	if a.Status != StatusAllocated {
		t.Errorf("status = %s, want %s", a.Status, StatusAllocated)
	}
}

func TestAllocateRejectsInsufficientStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	product := uuid.New().String()
	repo.stock[product] = 5

	_, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: uuid.New().String(),
		Date:     "2026-08-29",
		Items:    map[string]int{product: 10},
	})
	if err == nil {
		t.Fatal("expected error allocating 10 with 5 in stock")
	}
	if repo.stock[product] != 5 {
		t.Errorf("stock = %d, want untouched 5", repo.stock[product])
	}
}

func TestAllocateEditReturnsAndWithdrawsDelta(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	repo.stock[product] = 100

	_, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 50},
	})
	if err != nil {
		t.Fatalf("first Allocate: %v", err)
	}

	// Same driver and date edits the existing row. Lowering 50 to 30 puts 20
	// back in the warehouse.
	a, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 30},
	})
	if err != nil {
		t.Fatalf("edit Allocate: %v", err)
	}
	if repo.stock[product] != 70 {
		t.Errorf("stock after edit = %d, want 70", repo.stock[product])
	}
	if len(repo.allocations) != 1 {
		t.Errorf("allocation rows = %d, want 1", len(repo.allocations))
	}
	if a.Items[0].Allocated != 30 {
		t.Errorf("allocated = %d, want 30", a.Items[0].Allocated)
	}
}

func TestAllocateEditRejectsBelowSold(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	customer := uuid.New().String()
	repo.stock[product] = 100
	repo.prices[product] = decimal.NewFromInt(10)

	if _, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 50},
	}); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, err := svc.RecordSale(context.Background(), RecordSaleRequest{
		DriverID:      driver,
		CustomerID:    customer,
		Items:         map[string]int{product: 20},
		AmountPaid:    decimal.NewFromInt(200),
		PaymentMethod: "CASH",
	}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	_, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 15},
	})
	if err == nil {
		t.Fatal("expected error reducing allocation below 20 already sold")
	}
}

func TestRecordSaleDistributesOldestFirst(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	customer := uuid.New().String()
	repo.stock[product] = 100
	repo.prices[product] = decimal.NewFromInt(5)

	first, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-28",
		Items:    map[string]int{product: 10},
	})
	if err != nil {
		t.Fatalf("Allocate day one: %v", err)
	}
	second, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 10},
	})
	if err != nil {
		t.Fatalf("Allocate day two: %v", err)
	}

	// 15 sold: the older allocation is drained first, the newer takes the rest.
	if _, err := svc.RecordSale(context.Background(), RecordSaleRequest{
		DriverID:      driver,
		CustomerID:    customer,
		Items:         map[string]int{product: 15},
		AmountPaid:    decimal.NewFromInt(75),
		PaymentMethod: "CASH",
	}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	if got := repo.allocations[first.ID.String()].Items[0].Sold; got != 10 {
		t.Errorf("older allocation sold = %d, want 10", got)
	}
	if got := repo.allocations[second.ID.String()].Items[0].Sold; got != 5 {
		t.Errorf("newer allocation sold = %d, want 5", got)
	}
}

func TestRecordSaleRejectsOverRemaining(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	repo.stock[product] = 100
	repo.prices[product] = decimal.NewFromInt(5)

	if _, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 10},
	}); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	_, err := svc.RecordSale(context.Background(), RecordSaleRequest{
		DriverID:      driver,
		CustomerID:    uuid.New().String(),
		Items:         map[string]int{product: 11},
		AmountPaid:    decimal.NewFromInt(55),
		PaymentMethod: "CASH",
	})
	if err == nil {
		t.Fatal("expected error selling 11 with 10 remaining")
	}
	if len(repo.sales) != 0 {
		t.Errorf("sales recorded = %d, want 0", len(repo.sales))
	}
}

func TestRecordSalePartialPaymentOpensCredit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	repo.stock[product] = 100
	repo.prices[product] = decimal.NewFromInt(10)

	if _, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 10},
	}); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	sale, err := svc.RecordSale(context.Background(), RecordSaleRequest{
		DriverID:      driver,
		CustomerID:    uuid.New().String(),
		Items:         map[string]int{product: 10}, // total 100
		AmountPaid:    decimal.NewFromInt(60),
		PaymentMethod: "CREDIT",
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if !sale.CreditAmount.Equal(decimal.NewFromInt(40)) {
		t.Errorf("credit amount = %s, want 40", sale.CreditAmount)
	}
	if !repo.creditDelta.Equal(decimal.NewFromInt(40)) {
		t.Errorf("customer credit delta = %s, want 40", repo.creditDelta)
	}
}

func TestRecordSaleRejectsOverpayment(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	repo.stock[product] = 100
	repo.prices[product] = decimal.NewFromInt(10)

	if _, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 10},
	}); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	_, err := svc.RecordSale(context.Background(), RecordSaleRequest{
		DriverID:      driver,
		CustomerID:    uuid.New().String(),
		Items:         map[string]int{product: 5}, // total 50
		AmountPaid:    decimal.NewFromInt(60),
		PaymentMethod: "CASH",
	})
	if err == nil {
		t.Fatal("expected error when amount_paid exceeds sale total")
	}
}

func TestReconcileFlagsDiscrepancy(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	repo.stock[product] = 60
	repo.prices[product] = decimal.NewFromInt(10)

	a, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 50},
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, err := svc.RecordSale(context.Background(), RecordSaleRequest{
		DriverID:      driver,
		CustomerID:    uuid.New().String(),
		Items:         map[string]int{product: 20},
		AmountPaid:    decimal.NewFromInt(200),
		PaymentMethod: "CASH",
	}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	stockBefore := repo.stock[product]

	// 30 expected back, only 25 returned: reconciles but flags 5 missing.
	result, err := svc.Reconcile(context.Background(), a.ID.String(), ReconcileRequest{
		Returned: map[string]int{product: 25},
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.Allocation.Status != StatusReconciled {
		t.Errorf("status = %s, want %s", result.Allocation.Status, StatusReconciled)
	}
	if repo.stock[product] != stockBefore+25 {
		t.Errorf("stock = %d, want %d", repo.stock[product], stockBefore+25)
	}
	if len(result.Discrepancies) != 1 {
		t.Fatalf("discrepancies = %d, want 1", len(result.Discrepancies))
	}
	d := result.Discrepancies[0]
	if d.Expected != 30 || d.Returned != 25 || d.Missing != 5 {
		t.Errorf("discrepancy = %+v, want expected 30 / returned 25 / missing 5", d)
	}
}

func TestReconcileRejectsExcessReturn(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	repo.stock[product] = 60
	repo.prices[product] = decimal.NewFromInt(10)

	a, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 50},
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, err := svc.RecordSale(context.Background(), RecordSaleRequest{
		DriverID:      driver,
		CustomerID:    uuid.New().String(),
		Items:         map[string]int{product: 20},
		AmountPaid:    decimal.NewFromInt(200),
		PaymentMethod: "CASH",
	}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	_, err = svc.Reconcile(context.Background(), a.ID.String(), ReconcileRequest{
		Returned: map[string]int{product: 31},
	})
	if err == nil {
		t.Fatal("expected error when sold + returned exceeds allocated")
	}
}

func TestReconcileRejectsAlreadyReconciled(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	driver := uuid.New().String()
	product := uuid.New().String()
	repo.stock[product] = 60
	repo.prices[product] = decimal.NewFromInt(10)

	a, err := svc.Allocate(context.Background(), AllocateRequest{
		DriverID: driver,
		Date:     "2026-08-29",
		Items:    map[string]int{product: 50},
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, err := svc.Reconcile(context.Background(), a.ID.String(), ReconcileRequest{
		Returned: map[string]int{product: 50},
	}); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}

	if _, err := svc.Reconcile(context.Background(), a.ID.String(), ReconcileRequest{}); err == nil {
		t.Fatal("expected error reconciling twice")
	}
}
