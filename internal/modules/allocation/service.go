package allocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rliyanage/distro-backend/internal/validate"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Service defines the allocation and driver-sale business logic.
type Service interface {
	// Allocate assigns stock to a driver for a day. If an allocation already
	// exists for (driver, date) it is edited in place: per-product deltas are
	// computed and warehouse stock is returned or withdrawn accordingly.
	Allocate(ctx context.Context, req AllocateRequest) (*Allocation, error)

	GetAllocation(ctx context.Context, id string) (*Allocation, error)
	GetByDriverDate(ctx context.Context, driverID, date string) (*Allocation, error)
	ListAllocations(ctx context.Context, driverID, status, date string) ([]*Allocation, error)

	// RecordSale creates an immutable sale and distributes the sold quantities
	// across the driver's active allocations oldest first. A partial payment
	// raises the customer's outstanding balance by the shortfall.
	RecordSale(ctx context.Context, req RecordSaleRequest) (*Sale, error)

	GetSale(ctx context.Context, id string) (*Sale, error)
	ListSales(ctx context.Context, driverID string) ([]*Sale, error)

	// Reconcile settles an allocation at end of day: returned stock goes back
	// to the warehouse, the allocation becomes RECONCILED, and any shortfall
	// between expected and returned quantities is flagged.
	Reconcile(ctx context.Context, allocationID string, req ReconcileRequest) (*ReconcileResult, error)
}

type service struct{ repo Repository }

// NewService creates a new allocation service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Allocate(ctx context.Context, req AllocateRequest) (*Allocation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return nil, fmt.Errorf("invalid driver_id: %w", err)
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", req.Date)
	}
	for pid, qty := range req.Items {
		if qty <= 0 {
			return nil, fmt.Errorf("quantity for product %s must be greater than zero", pid)
		}
		if _, err := uuid.Parse(pid); err != nil {
			return nil, fmt.Errorf("invalid product id %q: %w", pid, err)
		}
	}

	existing, err := s.repo.GetAllocationByDriverDate(ctx, req.DriverID, req.Date)
	switch {
	case err == nil:
		return s.editAllocation(ctx, existing, req.Items)
	case errors.Is(err, sql.ErrNoRows):
		// fall through to create
	default:
		return nil, err
	}

	stockDeltas := make(map[string]int, len(req.Items))
	a := &Allocation{
		ID:         uuid.New(),
		DriverID:   driverID,
		Date:       date,
		Status:     StatusAllocated,
		SalesTotal: decimal.Zero,
	}
	for pid, qty := range req.Items {
		available, err := s.repo.GetProductStock(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", pid)
		}
		if qty > available {
			return nil, fmt.Errorf("cannot allocate %d of product %s: only %d in stock", qty, pid, available)
		}
		a.Items = append(a.Items, &Item{ProductID: uuid.MustParse(pid), Allocated: qty})
		stockDeltas[pid] = -qty
	}

	if err := s.repo.CreateAllocation(ctx, a, stockDeltas); err != nil {
		return nil, err
	}
	return a, nil
}

// editAllocation recomputes per-product deltas against the existing row.
// Quantities may not drop below what has already been sold.
func (s *service) editAllocation(ctx context.Context, existing *Allocation, items map[string]int) (*Allocation, error) {
	if existing.Status == StatusReconciled {
		return nil, fmt.Errorf("allocation for %s on %s is already reconciled",
			existing.DriverID, existing.Date.Format(dateLayout))
	}

	oldItems := make(map[string]*Item, len(existing.Items))
	for _, it := range existing.Items {
		oldItems[it.ProductID.String()] = it
	}

	stockDeltas := make(map[string]int)
	var newItems []*Item

	for pid, qty := range items {
		old, ok := oldItems[pid]
		sold := 0
		oldQty := 0
		if ok {
			sold = old.Sold
			oldQty = old.Allocated
		}
		if qty < sold {
			return nil, fmt.Errorf("cannot reduce product %s below %d already sold", pid, sold)
		}
		delta := qty - oldQty
		if delta > 0 {
			available, err := s.repo.GetProductStock(ctx, pid)
			if err != nil {
				return nil, fmt.Errorf("product %s not found", pid)
			}
			if delta > available {
				return nil, fmt.Errorf("cannot allocate %d more of product %s: only %d in stock", delta, pid, available)
			}
		}
		if delta != 0 {
			stockDeltas[pid] = -delta
		}
		newItems = append(newItems, &Item{ProductID: uuid.MustParse(pid), Allocated: qty, Sold: sold})
	}

	// Products dropped from the allocation go back to the warehouse in full;
	// a product with recorded sales cannot be dropped.
	for pid, old := range oldItems {
		if _, kept := items[pid]; kept {
			continue
		}
		if old.Sold > 0 {
			return nil, fmt.Errorf("cannot remove product %s: %d already sold", pid, old.Sold)
		}
		stockDeltas[pid] = old.Allocated
	}

	updated := *existing
	updated.Items = newItems
	if err := s.repo.ReplaceItems(ctx, &updated, stockDeltas); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *service) GetAllocation(ctx context.Context, id string) (*Allocation, error) {
	return s.repo.GetAllocationByID(ctx, id)
}

func (s *service) GetByDriverDate(ctx context.Context, driverID, date string) (*Allocation, error) {
	return s.repo.GetAllocationByDriverDate(ctx, driverID, date)
}

func (s *service) ListAllocations(ctx context.Context, driverID, status, date string) ([]*Allocation, error) {
	return s.repo.ListAllocations(ctx, driverID, strings.ToUpper(status), date)
}

func (s *service) RecordSale(ctx context.Context, req RecordSaleRequest) (*Sale, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	method := PaymentMethod(strings.ToUpper(req.PaymentMethod))
	switch method {
	case PaymentCash, PaymentCheque, PaymentCredit:
		// valid
	default:
		return nil, fmt.Errorf("invalid payment_method: %s (allowed: CASH, CHEQUE, CREDIT)", req.PaymentMethod)
	}
	if req.AmountPaid.IsNegative() {
		return nil, fmt.Errorf("amount_paid must not be negative")
	}
	for pid, qty := range req.Items {
		if qty <= 0 {
			return nil, fmt.Errorf("quantity for product %s must be greater than zero", pid)
		}
	}

	active, err := s.repo.ListActiveByDriver(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("driver %s has no active allocation", req.DriverID)
	}

	// ── Distribute sold quantities oldest-first ───────────────────────────────
	updates := make(map[string]ItemUpdate)
	var saleItems []*SaleItem
	saleTotal := decimal.Zero

	for pid, qty := range req.Items {
		remaining := 0
		for _, a := range active {
			for _, it := range a.Items {
				if it.ProductID.String() == pid {
					remaining += it.Remaining()
				}
			}
		}
		if qty > remaining {
			return nil, fmt.Errorf("sale of %d units of product %s exceeds the %d remaining on allocation", qty, pid, remaining)
		}

		price, err := s.repo.GetProductPrice(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", pid)
		}

		need := qty
		for _, a := range active {
			if need == 0 {
				break
			}
			for _, it := range a.Items {
				if it.ProductID.String() != pid || it.Remaining() == 0 {
					continue
				}
				take := it.Remaining()
				if take > need {
					take = need
				}
				u := updates[a.ID.String()]
				if u.Sold == nil {
					u.Sold = make(map[string]int)
					u.SalesDelta = decimal.Zero
				}
				u.Sold[pid] += take
				u.SalesDelta = u.SalesDelta.Add(price.Mul(decimal.NewFromInt(int64(take))))
				updates[a.ID.String()] = u
				need -= take
				break
			}
		}

		saleItems = append(saleItems, &SaleItem{
			ProductID: uuid.MustParse(pid),
			Quantity:  qty,
			UnitPrice: price,
		})
		saleTotal = saleTotal.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}

	if req.AmountPaid.GreaterThan(saleTotal) {
		return nil, fmt.Errorf("amount_paid %s exceeds sale total %s", req.AmountPaid, saleTotal)
	}
	shortfall := saleTotal.Sub(req.AmountPaid)

	sale := &Sale{
		ID:            uuid.New(),
		DriverID:      uuid.MustParse(req.DriverID),
		CustomerID:    uuid.MustParse(req.CustomerID),
		AmountPaid:    req.AmountPaid,
		CreditAmount:  shortfall,
		PaymentMethod: method,
		Notes:         req.Notes,
		Items:         saleItems,
	}
	if err := s.repo.RecordSale(ctx, sale, updates, shortfall); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) GetSale(ctx context.Context, id string) (*Sale, error) {
	return s.repo.GetSaleByID(ctx, id)
}

func (s *service) ListSales(ctx context.Context, driverID string) ([]*Sale, error) {
	return s.repo.ListSalesByDriver(ctx, driverID)
}

func (s *service) Reconcile(ctx context.Context, allocationID string, req ReconcileRequest) (*ReconcileResult, error) {
	a, err := s.repo.GetAllocationByID(ctx, allocationID)
	if err != nil {
		return nil, fmt.Errorf("allocation not found: %w", err)
	}
	if a.Status != StatusAllocated {
		return nil, fmt.Errorf("allocation is already %s", a.Status)
	}

	itemsByID := make(map[string]*Item, len(a.Items))
	for _, it := range a.Items {
		itemsByID[it.ProductID.String()] = it
	}

	returned := make(map[string]int, len(a.Items))
	for pid, qty := range req.Returned {
		it, ok := itemsByID[pid]
		if !ok {
			return nil, fmt.Errorf("product %s is not part of this allocation", pid)
		}
		if qty < 0 {
			return nil, fmt.Errorf("returned quantity for product %s must not be negative", pid)
		}
		if it.Sold+qty > it.Allocated {
			return nil, fmt.Errorf("returned %d plus sold %d exceeds the %d allocated for product %s",
				qty, it.Sold, it.Allocated, pid)
		}
		returned[pid] = qty
	}

	var discrepancies []Discrepancy
	for _, it := range a.Items {
		expected := it.Allocated - it.Sold
		got := returned[it.ProductID.String()]
		if got != expected {
			discrepancies = append(discrepancies, Discrepancy{
				ProductID: it.ProductID,
				Expected:  expected,
				Returned:  got,
				Missing:   expected - got,
			})
		}
	}

	if err := s.repo.Reconcile(ctx, allocationID, returned); err != nil {
		return nil, err
	}
	reconciled, err := s.repo.GetAllocationByID(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	return &ReconcileResult{Allocation: reconciled, Discrepancies: discrepancies}, nil
}
