package report

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed report repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetSummary(ctx context.Context, lowStockThreshold, upcomingChequeDays int) (*Summary, error) {
	s := &Summary{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE stock_quantity <= $1),
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM suppliers),
			(SELECT COUNT(*) FROM orders WHERE status = 'PENDING'),
			(SELECT COUNT(*) FROM orders WHERE created_at::date = CURRENT_DATE AND status <> 'CANCELLED'),
			(SELECT COALESCE(SUM(amount_paid + credit_amount), 0) FROM driver_sales WHERE created_at::date = CURRENT_DATE),
			(SELECT COALESCE(SUM(outstanding_balance), 0) FROM customers),
			(SELECT COUNT(*) FROM cheques WHERE status = 'RECEIVED'
				AND deposit_date >= CURRENT_DATE
				AND deposit_date <= CURRENT_DATE + $2 * INTERVAL '1 day'),
			(SELECT COALESCE(SUM(amount), 0) FROM cheques WHERE status = 'RECEIVED'),
			(SELECT COUNT(*) FROM driver_allocations WHERE status = 'ALLOCATED'),
			(SELECT COUNT(*) FROM collections WHERE status = 'PENDING'),
			(SELECT COALESCE(SUM(amount), 0) FROM collections WHERE status = 'PENDING')`,
		lowStockThreshold, upcomingChequeDays).
		Scan(&s.TotalProducts, &s.LowStockProducts, &s.TotalCustomers, &s.TotalSuppliers,
			&s.PendingOrders, &s.OrdersToday, &s.SalesToday, &s.OutstandingTotal,
			&s.UpcomingCheques, &s.ChequeAmountOnHand, &s.ActiveAllocations,
			&s.PendingCollections, &s.CollectionsToRecoup)
	if err != nil {
		return nil, fmt.Errorf("summary rollup: %w", err)
	}
	return s, nil
}

func (r *postgresRepo) GetDriverSales(ctx context.Context, from, to string) ([]*DriverSalesRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.driver_id, u.name,
		       COUNT(*),
		       COALESCE(SUM(s.amount_paid), 0),
		       COALESCE(SUM(s.credit_amount), 0),
		       COALESCE(SUM(s.amount_paid + s.credit_amount), 0)
		FROM driver_sales s
		JOIN users u ON u.id = s.driver_id
		WHERE s.created_at::date >= $1 AND s.created_at::date <= $2
		GROUP BY s.driver_id, u.name
		ORDER BY 6 DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []*DriverSalesRow
	for rows.Next() {
		row := &DriverSalesRow{}
		if err := rows.Scan(&row.DriverID, &row.DriverName, &row.SaleCount,
			&row.PaidTotal, &row.CreditTotal, &row.GrandTotal); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *postgresRepo) ListOrderRows(ctx context.Context, status string) ([]*OrderRow, error) {
	query := `
		SELECT o.order_number, c.name, o.status, o.total, o.amount_paid,
		       o.cheque_balance, o.credit_balance, o.created_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE o.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []*OrderRow
	for rows.Next() {
		row := &OrderRow{}
		if err := rows.Scan(&row.OrderNumber, &row.CustomerName, &row.Status,
			&row.Total, &row.AmountPaid, &row.ChequeBalance, &row.CreditBalance,
			&row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *postgresRepo) ListProductRows(ctx context.Context) ([]*ProductRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, COALESCE(category, ''), sku, COALESCE(supplier_name, ''),
		       price, cost_price, stock_quantity
		FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []*ProductRow
	for rows.Next() {
		row := &ProductRow{}
		if err := rows.Scan(&row.Name, &row.Category, &row.SKU, &row.SupplierName,
			&row.Price, &row.CostPrice, &row.StockQuantity); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
