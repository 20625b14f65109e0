package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed user repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateUser(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, settings, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, nullableJSON(u.Settings), u.IsActive)
	return err
}

func (r *postgresRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, settings, is_active, created_at, updated_at
		FROM users WHERE id=$1`, uid))
}

func (r *postgresRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, settings, is_active, created_at, updated_at
		FROM users WHERE email=$1`, email))
}

func (r *postgresRepo) ListUsers(ctx context.Context, role string) ([]*User, error) {
	query := `SELECT id, email, password_hash, name, role, settings, is_active, created_at, updated_at
	          FROM users`
	args := []interface{}{}
	if role != "" {
		query += ` WHERE role=$1`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []*User
	for rows.Next() {
		u := &User{}
		var settings []byte
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
			&settings, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Settings = settings
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresRepo) UpdateSettings(ctx context.Context, id string, settings []byte) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET settings=$1, updated_at=NOW() WHERE id=$2`, settings, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

func (r *postgresRepo) SetActive(ctx context.Context, id string, active bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, uid)
	return err
}

func (r *postgresRepo) ReplaceSuppliers(ctx context.Context, userID string, supplierIDs []string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_suppliers WHERE user_id=$1`, uid); err != nil {
		return fmt.Errorf("clear supplier assignments: %w", err)
	}
	for _, sid := range supplierIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_suppliers (user_id, supplier_id) VALUES ($1,$2)`, uid, sid); err != nil {
			return fmt.Errorf("insert supplier assignment: %w", err)
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) ListSupplierIDs(ctx context.Context, userID string) ([]string, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT supplier_id FROM user_suppliers WHERE user_id=$1`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepo) scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	var settings []byte
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&settings, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Settings = settings
	return u, nil
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
