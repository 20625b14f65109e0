package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed customer repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateCustomer(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, address, outstanding_balance)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.OutstandingBalance)
	return err
}

func (r *postgresRepo) GetCustomerByID(ctx context.Context, id string) (*Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	c := &Customer{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, address, outstanding_balance, created_at, updated_at
		FROM customers WHERE id=$1`, uid).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address,
			&c.OutstandingBalance, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListCustomers(ctx context.Context) ([]*Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, email, address, outstanding_balance, created_at, updated_at
		FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []*Customer
	for rows.Next() {
		c := &Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address,
			&c.OutstandingBalance, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *postgresRepo) UpdateCustomer(ctx context.Context, c *Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET name=$1, phone=$2, email=$3, address=$4, updated_at=NOW()
		WHERE id=$5`,
		c.Name, c.Phone, c.Email, c.Address, c.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("customer %s not found", c.ID)
	}
	return nil
}

func (r *postgresRepo) DeleteCustomer(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("customer %s not found", id)
	}
	return nil
}

func (r *postgresRepo) AdjustOutstanding(ctx context.Context, id string, delta decimal.Decimal) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET outstanding_balance = outstanding_balance + $1, updated_at=NOW()
		WHERE id=$2 AND outstanding_balance + $1 >= 0`, delta, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("outstanding adjustment of %s rejected for customer %s", delta, id)
	}
	return nil
}

func (r *postgresRepo) GetSummary(ctx context.Context, id string) (*Summary, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	s := &Summary{}
	err = r.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.outstanding_balance,
		       COUNT(o.id), COALESCE(SUM(o.total), 0)
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id AND o.status <> 'CANCELLED'
		WHERE c.id=$1
		GROUP BY c.id, c.name, c.outstanding_balance`, uid).
		Scan(&s.CustomerID, &s.Name, &s.OutstandingBalance, &s.OrderCount, &s.TotalOrdered)
	if err != nil {
		return nil, err
	}
	return s, nil
}
