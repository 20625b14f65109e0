package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, order_number, customer_id, driver_id, status, total,
       amount_paid, cheque_balance, credit_balance, return_amount, notes, created_at, updated_at`

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_id, driver_id, status, total,
		   amount_paid, cheque_balance, credit_balance, return_amount, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.OrderNumber, o.CustomerID, o.DriverID, o.Status, o.Total,
		o.AmountPaid, o.ChequeBalance, o.CreditBalance, o.ReturnAmount, o.Notes)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, o.ID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, err := scanOrderRow(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := scanOrderRow(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrders(ctx context.Context, f Filter) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status=$%d`, len(args))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		query += fmt.Sprintf(` AND customer_id=$%d`, len(args))
	}
	if f.DriverID != "" {
		args = append(args, f.DriverID)
		query += fmt.Sprintf(` AND driver_id=$%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return err
}

func (r *postgresRepo) AssignDriver(ctx context.Context, id string, driverID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET driver_id=$1, updated_at=NOW() WHERE id=$2`, driverID, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("order %s not found", id)
	}
	return nil
}

func (r *postgresRepo) ApplyReturn(ctx context.Context, id string, amount, creditReduce decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET return_amount = return_amount + $1,
		    credit_balance = credit_balance - $2,
		    updated_at = NOW()
		WHERE id=$3 AND credit_balance - $2 >= 0`,
		amount, creditReduce, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("return of %s rejected for order %s", amount, id)
	}
	return nil
}

func (r *postgresRepo) GetProductPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT price FROM products WHERE id=$1`, productID).Scan(&price)
	return price, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrderRow(row rowScanner) (*Order, error) {
	o := &Order{}
	var driverID sql.NullString
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &driverID, &o.Status, &o.Total,
		&o.AmountPaid, &o.ChequeBalance, &o.CreditBalance, &o.ReturnAmount,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if driverID.Valid {
		uid, _ := uuid.Parse(driverID.String)
		o.DriverID = &uid
	}
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, line_total, created_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
