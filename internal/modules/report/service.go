package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// Service defines reporting and export operations.
type Service interface {
	GetSummary(ctx context.Context) (*Summary, error)
	GetDriverSales(ctx context.Context, from, to string) ([]*DriverSalesRow, error)

	// OrdersCSV renders the orders export as CSV bytes.
	OrdersCSV(ctx context.Context, status string) ([]byte, error)

	// ProductsExcel renders the catalog export as a workbook.
	ProductsExcel(ctx context.Context) (*excelize.File, error)

	// DriverSalesExcel renders the per-driver sales report as a workbook.
	DriverSalesExcel(ctx context.Context, from, to string) (*excelize.File, error)
}

type service struct {
	repo               Repository
	lowStockThreshold  int
	upcomingChequeDays int
}

func NewService(repo Repository, lowStockThreshold, upcomingChequeDays int) Service {
	return &service{repo: repo, lowStockThreshold: lowStockThreshold, upcomingChequeDays: upcomingChequeDays}
}

func (s *service) GetSummary(ctx context.Context) (*Summary, error) {
	return s.repo.GetSummary(ctx, s.lowStockThreshold, s.upcomingChequeDays)
}

func (s *service) GetDriverSales(ctx context.Context, from, to string) ([]*DriverSalesRow, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.GetDriverSales(ctx, from, to)
}

func (s *service) OrdersCSV(ctx context.Context, status string) ([]byte, error) {
	orders, err := s.repo.ListOrderRows(ctx, status)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Order Number", "Customer", "Status", "Total",
		"Amount Paid", "Cheque Balance", "Credit Balance", "Created At"}); err != nil {
		return nil, err
	}
	for _, o := range orders {
		record := []string{
			o.OrderNumber,
			o.CustomerName,
			o.Status,
			o.Total.StringFixed(2),
			o.AmountPaid.StringFixed(2),
			o.ChequeBalance.StringFixed(2),
			o.CreditBalance.StringFixed(2),
			o.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *service) ProductsExcel(ctx context.Context) (*excelize.File, error) {
	products, err := s.repo.ListProductRows(ctx)
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Category", "SKU", "Supplier", "Price", "Cost Price", "Stock"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, p := range products {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Category)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.SKU)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.SupplierName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.Price.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.CostPrice.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), p.StockQuantity)
	}
	return f, nil
}

func (s *service) DriverSalesExcel(ctx context.Context, from, to string) (*excelize.File, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}
	sales, err := s.repo.GetDriverSales(ctx, from, to)
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	sheet := "Driver Sales"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Driver", "Sales", "Paid Total", "Credit Total", "Grand Total"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range sales {
		n := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", n), row.DriverName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), row.SaleCount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", n), row.PaidTotal.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", n), row.CreditTotal.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", n), row.GrandTotal.InexactFloat64())
	}
	return f, nil
}

func validRange(from, to string) error {
	if _, err := time.Parse(dateLayout, from); err != nil {
		return fmt.Errorf("invalid from date, want YYYY-MM-DD: %w", err)
	}
	if _, err := time.Parse(dateLayout, to); err != nil {
		return fmt.Errorf("invalid to date, want YYYY-MM-DD: %w", err)
	}
	return nil
}
