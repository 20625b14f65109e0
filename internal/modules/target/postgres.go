package target

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed target repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const targetColumns = `id, target_date, driver_id, amount, created_by, created_at, updated_at`

func (r *postgresRepo) UpsertTarget(ctx context.Context, t *Target) error {
	// The unique index on (target_date, COALESCE(driver_id, zero-uuid)) makes
	// this a true upsert for both driver-scoped and company-wide targets.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_targets (id, target_date, driver_id, amount, created_by)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (target_date, COALESCE(driver_id, '00000000-0000-0000-0000-000000000000'::uuid))
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()`,
		t.ID, t.Date, t.DriverID, t.Amount, t.CreatedBy)
	return err
}

func (r *postgresRepo) GetTargetByID(ctx context.Context, id string) (*Target, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM daily_targets WHERE id=$1`, uid)
	return scanTarget(row)
}

func (r *postgresRepo) GetTarget(ctx context.Context, date, driverID string) (*Target, error) {
	var row *sql.Row
	if driverID == "" {
		row = r.db.QueryRowContext(ctx,
			`SELECT `+targetColumns+` FROM daily_targets WHERE target_date=$1 AND driver_id IS NULL`, date)
	} else {
		row = r.db.QueryRowContext(ctx,
			`SELECT `+targetColumns+` FROM daily_targets WHERE target_date=$1 AND driver_id=$2`, date, driverID)
	}
	return scanTarget(row)
}

func (r *postgresRepo) ListTargets(ctx context.Context, from, to string) ([]*Target, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+targetColumns+` FROM daily_targets
		WHERE target_date >= $1 AND target_date <= $2
		ORDER BY target_date ASC, created_at ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var targets []*Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

func (r *postgresRepo) SumSales(ctx context.Context, date, driverID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_paid + credit_amount), 0)
		FROM driver_sales WHERE created_at::date = $1`
	args := []interface{}{date}
	if driverID != "" {
		query += ` AND driver_id = $2`
		args = append(args, driverID)
	}
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *postgresRepo) DeleteTarget(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_targets WHERE id=$1`, uid)
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

func scanTarget(row rowScanner) (*Target, error) {
	t := &Target{}
	var driverID, createdBy sql.NullString
	err := row.Scan(&t.ID, &t.Date, &driverID, &t.Amount, &createdBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if driverID.Valid {
		id, err := uuid.Parse(driverID.String)
		if err != nil {
			return nil, err
		}
		t.DriverID = &id
	}
	if createdBy.Valid {
		id, err := uuid.Parse(createdBy.String)
		if err != nil {
			return nil, err
		}
		t.CreatedBy = &id
	}
	return t, nil
}
