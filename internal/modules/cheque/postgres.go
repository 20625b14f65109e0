package cheque

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed cheque repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const chequeColumns = `id, payer, amount, bank, cheque_number, deposit_date, status, order_id, collection_id, created_at, updated_at`

func (r *postgresRepo) CreateCheque(ctx context.Context, c *Cheque) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cheques (id, payer, amount, bank, cheque_number, deposit_date, status, order_id, collection_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.Payer, c.Amount, c.Bank, c.ChequeNumber, c.DepositDate,
		c.Status, c.OrderID, c.CollectionID)
	return err
}

func (r *postgresRepo) GetChequeByID(ctx context.Context, id string) (*Cheque, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+chequeColumns+` FROM cheques WHERE id=$1`, uid)
	return scanCheque(row)
}

func (r *postgresRepo) ListCheques(ctx context.Context, status string) ([]*Cheque, error) {
	query := `SELECT ` + chequeColumns + ` FROM cheques`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY deposit_date DESC, created_at DESC`
	return r.queryCheques(ctx, query, args...)
}

func (r *postgresRepo) ListUpcoming(ctx context.Context, days int) ([]*Cheque, error) {
	return r.queryCheques(ctx, `
		SELECT `+chequeColumns+` FROM cheques
		WHERE status='RECEIVED'
		  AND deposit_date >= CURRENT_DATE
		  AND deposit_date <= CURRENT_DATE + $1 * INTERVAL '1 day'
		ORDER BY deposit_date ASC`, days)
}

func (r *postgresRepo) Clear(ctx context.Context, chequeID uuid.UUID, orderID, collectionID *uuid.UUID, amount decimal.Decimal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE cheques SET status='CLEARED', updated_at=NOW()
		WHERE id=$1 AND status='RECEIVED'`, chequeID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("cheque %s is not in RECEIVED state", chequeID)
	}

	if orderID != nil {
		var chequeBalance, creditBalance decimal.Decimal
		err = tx.QueryRowContext(ctx,
			`SELECT cheque_balance, credit_balance FROM orders WHERE id=$1 FOR UPDATE`, orderID).
			Scan(&chequeBalance, &creditBalance)
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		chequeReduce := amount
		creditReduce := decimal.Zero
		if chequeBalance.LessThan(amount) {
			chequeReduce = chequeBalance
			creditReduce = amount.Sub(chequeBalance)
		}
		if creditReduce.GreaterThan(creditBalance) {
			return fmt.Errorf("cheque amount %s exceeds the order's unsettled balance", amount)
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE orders SET amount_paid = amount_paid + $1,
			                  cheque_balance = cheque_balance - $2,
			                  credit_balance = credit_balance - $3,
			                  updated_at = NOW()
			WHERE id=$4`, amount, chequeReduce, creditReduce, orderID)
		if err != nil {
			return fmt.Errorf("settle order balances: %w", err)
		}
	}

	if collectionID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE collections SET status='COMPLETE', completed_at=NOW(), updated_at=NOW()
			WHERE id=$1 AND status='PENDING'`, collectionID)
		if err != nil {
			return fmt.Errorf("complete collection: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) Bounce(ctx context.Context, c *Cheque) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE cheques SET status='BOUNCED', updated_at=NOW()
		WHERE id=$1 AND status='RECEIVED'`, c.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("cheque %s is not in RECEIVED state", c.ID)
	}

	// The bounced amount is no longer awaiting a cheque; move it to the
	// order's credit balance so the compensating collection can settle it.
	if c.OrderID != nil {
		res, err = tx.ExecContext(ctx, `
			UPDATE orders SET cheque_balance = cheque_balance - $1,
			                  credit_balance = credit_balance + $1,
			                  updated_at = NOW()
			WHERE id=$2 AND cheque_balance >= $1`, c.Amount, c.OrderID)
		if err != nil {
			return fmt.Errorf("reclassify bounced amount: %w", err)
		}
		n, _ = res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("bounced amount %s exceeds the order's cheque balance", c.Amount)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collections (id, collection_type, order_id, amount, status, reference)
		VALUES ($1,'CREDIT',$2,$3,'PENDING',$4)`,
		uuid.New(), c.OrderID, c.Amount, "BOUNCE-"+c.ChequeNumber)
	if err != nil {
		return fmt.Errorf("open compensating collection: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cheques SET status=$1, updated_at=NOW()
		WHERE id=$2 AND status=$3`, to, id, from)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("cheque %s is not in %s state", id, from)
	}
	return nil
}

func (r *postgresRepo) DeleteCheque(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM cheques WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCheque(row rowScanner) (*Cheque, error) {
	c := &Cheque{}
	var bank sql.NullString
	var orderID, collectionID sql.NullString
	err := row.Scan(&c.ID, &c.Payer, &c.Amount, &bank, &c.ChequeNumber,
		&c.DepositDate, &c.Status, &orderID, &collectionID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Bank = bank.String
	if orderID.Valid {
		id, err := uuid.Parse(orderID.String)
		if err != nil {
			return nil, err
		}
		c.OrderID = &id
	}
	if collectionID.Valid {
		id, err := uuid.Parse(collectionID.String)
		if err != nil {
			return nil, err
		}
		c.CollectionID = &id
	}
	return c, nil
}

func (r *postgresRepo) queryCheques(ctx context.Context, query string, args ...interface{}) ([]*Cheque, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cheques []*Cheque
	for rows.Next() {
		c, err := scanCheque(rows)
		if err != nil {
			return nil, err
		}
		cheques = append(cheques, c)
	}
	return cheques, rows.Err()
}
