package supplier

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed supplier repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateSupplier(ctx context.Context, s *Supplier) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact_person, phone, email, address)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address)
	return err
}

func (r *postgresRepo) GetSupplierByID(ctx context.Context, id string) (*Supplier, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	s := &Supplier{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, contact_person, phone, email, address, created_at, updated_at
		FROM suppliers WHERE id=$1`, uid).
		Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &s.Email, &s.Address,
			&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, contact_person, phone, email, address, created_at, updated_at
		FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var suppliers []*Supplier
	for rows.Next() {
		s := &Supplier{}
		if err := rows.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &s.Email,
			&s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *postgresRepo) UpdateSupplier(ctx context.Context, s *Supplier) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name=$1, contact_person=$2, phone=$3, email=$4, address=$5, updated_at=NOW()
		WHERE id=$6`,
		s.Name, s.ContactPerson, s.Phone, s.Email, s.Address, s.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("supplier %s not found", s.ID)
	}
	return nil
}

func (r *postgresRepo) DeleteSupplier(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("supplier %s not found", id)
	}
	return nil
}
