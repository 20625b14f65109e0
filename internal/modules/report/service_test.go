package report

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	orders     []*OrderRow
	products   []*ProductRow
	driverRows []*DriverSalesRow
}

func (f *fakeRepo) GetSummary(_ context.Context, lowStockThreshold, upcomingChequeDays int) (*Summary, error) {
	return &Summary{}, nil
}

func (f *fakeRepo) GetDriverSales(_ context.Context, from, to string) ([]*DriverSalesRow, error) {
	return f.driverRows, nil
}

func (f *fakeRepo) ListOrderRows(_ context.Context, status string) ([]*OrderRow, error) {
	var out []*OrderRow
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListProductRows(_ context.Context) ([]*ProductRow, error) {
	return f.products, nil
}

func TestOrdersCSV(t *testing.T) {
	repo := &fakeRepo{orders: []*OrderRow{
		{
			OrderNumber:   "ORD-20260829-AB12",
			CustomerName:  "Perera Stores",
			Status:        "PENDING",
			Total:         decimal.NewFromInt(1000),
			AmountPaid:    decimal.NewFromInt(600),
			ChequeBalance: decimal.NewFromInt(250),
			CreditBalance: decimal.NewFromInt(150),
			CreatedAt:     time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewService(repo, 10, 7)

	data, err := svc.OrdersCSV(context.Background(), "")
	if err != nil {
		t.Fatalf("OrdersCSV: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header plus one order", len(records))
	}
	row := records[1]
	if row[0] != "ORD-20260829-AB12" || row[1] != "Perera Stores" {
		t.Errorf("row = %v", row)
	}
	if row[3] != "1000.00" || row[6] != "150.00" {
		t.Errorf("money columns = %v, want fixed two decimals", row)
	}
}

func TestProductsExcel(t *testing.T) {
	repo := &fakeRepo{products: []*ProductRow{
		{Name: "Milk Powder 400g", Category: "Dairy", SKU: "MP-400", SupplierName: "Highland",
			Price: decimal.NewFromInt(950), CostPrice: decimal.NewFromInt(800), StockQuantity: 120},
	}}
	svc := NewService(repo, 10, 7)

	f, err := svc.ProductsExcel(context.Background())
	if err != nil {
		t.Fatalf("ProductsExcel: %v", err)
	}
	name, err := f.GetCellValue("Products", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if name != "Milk Powder 400g" {
		t.Errorf("A2 = %q, want product name", name)
	}
	stock, err := f.GetCellValue("Products", "G2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if stock != "120" {
		t.Errorf("G2 = %q, want 120", stock)
	}
}

func TestDriverSalesExcelSplitsPaidAndCredit(t *testing.T) {
	repo := &fakeRepo{driverRows: []*DriverSalesRow{
		{DriverName: "Kasun", SaleCount: 4,
			PaidTotal:   decimal.NewFromInt(7000),
			CreditTotal: decimal.NewFromInt(3000),
			GrandTotal:  decimal.NewFromInt(10000)},
	}}
	svc := NewService(repo, 10, 7)

	f, err := svc.DriverSalesExcel(context.Background(), "2026-08-01", "2026-08-29")
	if err != nil {
		t.Fatalf("DriverSalesExcel: %v", err)
	}
	header, err := f.GetCellValue("Driver Sales", "C1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if header != "Paid Total" {
		t.Errorf("C1 = %q, want Paid Total", header)
	}
	paid, err := f.GetCellValue("Driver Sales", "C2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if paid != "7000" {
		t.Errorf("C2 = %q, want 7000", paid)
	}
}

func TestDriverSalesExcelRejectsBadRange(t *testing.T) {
	svc := NewService(&fakeRepo{}, 10, 7)
	if _, err := svc.DriverSalesExcel(context.Background(), "29-08-2026", "2026-08-30"); err == nil {
		t.Fatal("expected error for malformed from date")
	}
}
