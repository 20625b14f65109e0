package collection

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed collection repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const collectionColumns = `id, collection_type, order_id, customer_id, amount, status, reference, completed_at, created_at, updated_at`

func (r *postgresRepo) CreateCollection(ctx context.Context, c *Collection) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collections (id, collection_type, order_id, customer_id, amount, status, reference)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.Type, c.OrderID, c.CustomerID, c.Amount, c.Status, c.Reference)
	return err
}

func (r *postgresRepo) GetCollectionByID(ctx context.Context, id string) (*Collection, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id=$1`, uid)
	return scanCollection(row)
}

func (r *postgresRepo) ListCollections(ctx context.Context, collectionType, status, orderID string) ([]*Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE 1=1`
	args := []interface{}{}
	if collectionType != "" {
		args = append(args, collectionType)
		query += fmt.Sprintf(` AND collection_type=$%d`, len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status=$%d`, len(args))
	}
	if orderID != "" {
		args = append(args, orderID)
		query += fmt.Sprintf(` AND order_id=$%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var collections []*Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *postgresRepo) Complete(ctx context.Context, c *Collection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE collections SET status='COMPLETE', completed_at=NOW(), updated_at=NOW()
		WHERE id=$1 AND status='PENDING'`, c.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("collection %s is not in PENDING state", c.ID)
	}

	if c.Type == TypeCredit {
		if c.OrderID != nil {
			res, err := tx.ExecContext(ctx, `
				UPDATE orders SET credit_balance = credit_balance - $1,
				                  amount_paid = amount_paid + $1,
				                  updated_at = NOW()
				WHERE id=$2 AND credit_balance >= $1`, c.Amount, c.OrderID)
			if err != nil {
				return fmt.Errorf("settle order credit balance: %w", err)
			}
			n, _ := res.RowsAffected()
			if n == 0 {
				return fmt.Errorf("collection amount %s exceeds the order's credit balance", c.Amount)
			}
		}
		if c.CustomerID != nil {
			res, err := tx.ExecContext(ctx, `
				UPDATE customers SET outstanding_balance = outstanding_balance - $1, updated_at=NOW()
				WHERE id=$2 AND outstanding_balance >= $1`, c.Amount, c.CustomerID)
			if err != nil {
				return fmt.Errorf("lower customer outstanding: %w", err)
			}
			n, _ := res.RowsAffected()
			if n == 0 {
				return fmt.Errorf("collection amount %s exceeds the customer's outstanding balance", c.Amount)
			}
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollection(row rowScanner) (*Collection, error) {
	c := &Collection{}
	var orderID, customerID, reference sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(&c.ID, &c.Type, &orderID, &customerID, &c.Amount,
		&c.Status, &reference, &completedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Reference = reference.String
	if orderID.Valid {
		id, err := uuid.Parse(orderID.String)
		if err != nil {
			return nil, err
		}
		c.OrderID = &id
	}
	if customerID.Valid {
		id, err := uuid.Parse(customerID.String)
		if err != nil {
			return nil, err
		}
		c.CustomerID = &id
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	return c, nil
}
