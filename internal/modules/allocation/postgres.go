package allocation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed allocation repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateAllocation(ctx context.Context, a *Allocation, stockDeltas map[string]int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO driver_allocations (id, driver_id, alloc_date, status, sales_total)
		VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.DriverID, a.Date, a.Status, a.SalesTotal)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	for _, it := range a.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO allocation_items (allocation_id, product_id, allocated, sold, returned)
			VALUES ($1,$2,$3,$4,$5)`,
			a.ID, it.ProductID, it.Allocated, it.Sold, it.Returned)
		if err != nil {
			return fmt.Errorf("insert allocation_item: %w", err)
		}
	}
	if err := applyStockDeltas(ctx, tx, stockDeltas); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) ReplaceItems(ctx context.Context, a *Allocation, stockDeltas map[string]int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM allocation_items WHERE allocation_id=$1`, a.ID); err != nil {
		return fmt.Errorf("clear allocation_items: %w", err)
	}
	for _, it := range a.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO allocation_items (allocation_id, product_id, allocated, sold, returned)
			VALUES ($1,$2,$3,$4,$5)`,
			a.ID, it.ProductID, it.Allocated, it.Sold, it.Returned)
		if err != nil {
			return fmt.Errorf("insert allocation_item: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE driver_allocations SET updated_at=NOW() WHERE id=$1`, a.ID); err != nil {
		return err
	}
	if err := applyStockDeltas(ctx, tx, stockDeltas); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetAllocationByID(ctx context.Context, id string) (*Allocation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	a := &Allocation{}
	var reconciledAt sql.NullTime
	err = r.db.QueryRowContext(ctx, `
		SELECT id, driver_id, alloc_date, status, sales_total, reconciled_at, created_at, updated_at
		FROM driver_allocations WHERE id=$1`, uid).
		Scan(&a.ID, &a.DriverID, &a.Date, &a.Status, &a.SalesTotal,
			&reconciledAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reconciledAt.Valid {
		a.ReconciledAt = &reconciledAt.Time
	}
	a.Items, err = r.listItems(ctx, a.ID)
	return a, err
}

func (r *postgresRepo) GetAllocationByDriverDate(ctx context.Context, driverID, date string) (*Allocation, error) {
	uid, err := uuid.Parse(driverID)
	if err != nil {
		return nil, err
	}
	a := &Allocation{}
	var reconciledAt sql.NullTime
	err = r.db.QueryRowContext(ctx, `
		SELECT id, driver_id, alloc_date, status, sales_total, reconciled_at, created_at, updated_at
		FROM driver_allocations WHERE driver_id=$1 AND alloc_date=$2`, uid, date).
		Scan(&a.ID, &a.DriverID, &a.Date, &a.Status, &a.SalesTotal,
			&reconciledAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reconciledAt.Valid {
		a.ReconciledAt = &reconciledAt.Time
	}
	a.Items, err = r.listItems(ctx, a.ID)
	return a, err
}

func (r *postgresRepo) ListActiveByDriver(ctx context.Context, driverID string) ([]*Allocation, error) {
	return r.queryAllocations(ctx, `
		SELECT id, driver_id, alloc_date, status, sales_total, reconciled_at, created_at, updated_at
		FROM driver_allocations
		WHERE driver_id=$1 AND status='ALLOCATED'
		ORDER BY alloc_date ASC, created_at ASC`, driverID)
}

func (r *postgresRepo) ListAllocations(ctx context.Context, driverID, status, date string) ([]*Allocation, error) {
	query := `SELECT id, driver_id, alloc_date, status, sales_total, reconciled_at, created_at, updated_at
	          FROM driver_allocations WHERE 1=1`
	args := []interface{}{}
	if driverID != "" {
		args = append(args, driverID)
		query += fmt.Sprintf(` AND driver_id=$%d`, len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status=$%d`, len(args))
	}
	if date != "" {
		args = append(args, date)
		query += fmt.Sprintf(` AND alloc_date=$%d`, len(args))
	}
	query += ` ORDER BY alloc_date DESC`
	return r.queryAllocations(ctx, query, args...)
}

func (r *postgresRepo) RecordSale(ctx context.Context, sale *Sale, updates map[string]ItemUpdate, creditDelta decimal.Decimal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO driver_sales (id, driver_id, customer_id, amount_paid, credit_amount, payment_method, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		sale.ID, sale.DriverID, sale.CustomerID, sale.AmountPaid,
		sale.CreditAmount, sale.PaymentMethod, sale.Notes)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO driver_sale_items (sale_id, product_id, quantity, unit_price)
			VALUES ($1,$2,$3,$4)`,
			sale.ID, it.ProductID, it.Quantity, it.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert sale_item: %w", err)
		}
	}

	for allocID, u := range updates {
		for pid, inc := range u.Sold {
			res, err := tx.ExecContext(ctx, `
				UPDATE allocation_items SET sold = sold + $1
				WHERE allocation_id=$2 AND product_id=$3 AND sold + $1 <= allocated`,
				inc, allocID, pid)
			if err != nil {
				return fmt.Errorf("bump sold counter: %w", err)
			}
			n, _ := res.RowsAffected()
			if n == 0 {
				return fmt.Errorf("sold increment of %d rejected for product %s on allocation %s", inc, pid, allocID)
			}
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE driver_allocations SET sales_total = sales_total + $1, updated_at=NOW()
			WHERE id=$2`, u.SalesDelta, allocID)
		if err != nil {
			return fmt.Errorf("bump sales total: %w", err)
		}
	}

	if creditDelta.IsPositive() {
		_, err = tx.ExecContext(ctx, `
			UPDATE customers SET outstanding_balance = outstanding_balance + $1, updated_at=NOW()
			WHERE id=$2`, creditDelta, sale.CustomerID)
		if err != nil {
			return fmt.Errorf("raise customer outstanding: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO collections (id, collection_type, customer_id, amount, status, reference)
			VALUES ($1,'CREDIT',$2,$3,'PENDING',$4)`,
			uuid.New(), sale.CustomerID, creditDelta, "SALE-"+sale.ID.String()[:8])
		if err != nil {
			return fmt.Errorf("open credit collection: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) Reconcile(ctx context.Context, allocationID string, returned map[string]int) error {
	uid, err := uuid.Parse(allocationID)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE driver_allocations SET status='RECONCILED', reconciled_at=NOW(), updated_at=NOW()
		WHERE id=$1 AND status='ALLOCATED'`, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("allocation %s is not in ALLOCATED state", allocationID)
	}

	for pid, qty := range returned {
		if qty == 0 {
			continue
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE allocation_items SET returned=$1
			WHERE allocation_id=$2 AND product_id=$3 AND sold + $1 <= allocated`,
			qty, uid, pid)
		if err != nil {
			return fmt.Errorf("store returned quantity: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("returned quantity %d rejected for product %s", qty, pid)
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE products SET stock_quantity = stock_quantity + $1, updated_at=NOW()
			WHERE id=$2`, qty, pid)
		if err != nil {
			return fmt.Errorf("restock product: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetSaleByID(ctx context.Context, id string) (*Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	sale := &Sale{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, driver_id, customer_id, amount_paid, credit_amount, payment_method, notes, created_at
		FROM driver_sales WHERE id=$1`, uid).
		Scan(&sale.ID, &sale.DriverID, &sale.CustomerID, &sale.AmountPaid,
			&sale.CreditAmount, &sale.PaymentMethod, &sale.Notes, &sale.CreatedAt)
	if err != nil {
		return nil, err
	}
	sale.Items, err = r.listSaleItems(ctx, sale.ID)
	return sale, err
}

func (r *postgresRepo) ListSalesByDriver(ctx context.Context, driverID string) ([]*Sale, error) {
	uid, err := uuid.Parse(driverID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, driver_id, customer_id, amount_paid, credit_amount, payment_method, notes, created_at
		FROM driver_sales WHERE driver_id=$1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sales []*Sale
	for rows.Next() {
		sale := &Sale{}
		if err := rows.Scan(&sale.ID, &sale.DriverID, &sale.CustomerID, &sale.AmountPaid,
			&sale.CreditAmount, &sale.PaymentMethod, &sale.Notes, &sale.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, sale := range sales {
		if sale.Items, err = r.listSaleItems(ctx, sale.ID); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (r *postgresRepo) GetProductPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT price FROM products WHERE id=$1`, productID).Scan(&price)
	return price, err
}

func (r *postgresRepo) GetProductStock(ctx context.Context, productID string) (int, error) {
	var qty int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock_quantity FROM products WHERE id=$1`, productID).Scan(&qty)
	return qty, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

// applyStockDeltas adjusts product stock inside the transaction. A withdrawal
// that would drive stock negative aborts the whole operation.
func applyStockDeltas(ctx context.Context, tx *sql.Tx, deltas map[string]int) error {
	for pid, delta := range deltas {
		if delta == 0 {
			continue
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE products SET stock_quantity = stock_quantity + $1, updated_at=NOW()
			WHERE id=$2 AND stock_quantity + $1 >= 0`, delta, pid)
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("stock adjustment of %d rejected for product %s", delta, pid)
		}
	}
	return nil
}

func (r *postgresRepo) listItems(ctx context.Context, allocationID uuid.UUID) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, allocated, sold, returned
		FROM allocation_items WHERE allocation_id=$1`, allocationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		it := &Item{}
		if err := rows.Scan(&it.ProductID, &it.Allocated, &it.Sold, &it.Returned); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) listSaleItems(ctx context.Context, saleID uuid.UUID) ([]*SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, quantity, unit_price
		FROM driver_sale_items WHERE sale_id=$1`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SaleItem
	for rows.Next() {
		it := &SaleItem{}
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) queryAllocations(ctx context.Context, query string, args ...interface{}) ([]*Allocation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var allocations []*Allocation
	for rows.Next() {
		a := &Allocation{}
		var reconciledAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.DriverID, &a.Date, &a.Status, &a.SalesTotal,
			&reconciledAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if reconciledAt.Valid {
			a.ReconciledAt = &reconciledAt.Time
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, a := range allocations {
		if a.Items, err = r.listItems(ctx, a.ID); err != nil {
			return nil, err
		}
	}
	return allocations, nil
}
