package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed product repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, name, category, sku, price, cost_price, stock_quantity, supplier_name, image_url, created_at, updated_at`

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, sku, price, cost_price, stock_quantity, supplier_name, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Category, p.SKU, p.Price, p.CostPrice,
		p.StockQuantity, p.SupplierName, p.ImageURL)
	return err
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p := &Product{}
	err = r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, uid).
		Scan(&p.ID, &p.Name, &p.Category, &p.SKU, &p.Price, &p.CostPrice,
			&p.StockQuantity, &p.SupplierName, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListProducts(ctx context.Context, category, supplier string) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND category=$%d`, len(args))
	}
	if supplier != "" {
		args = append(args, supplier)
		query += fmt.Sprintf(` AND supplier_name=$%d`, len(args))
	}
	query += ` ORDER BY name ASC`
	return r.queryProducts(ctx, query, args...)
}

func (r *postgresRepo) UpdateProduct(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, category=$2, price=$3, cost_price=$4, supplier_name=$5, image_url=$6, updated_at=NOW()
		WHERE id=$7`,
		p.Name, p.Category, p.Price, p.CostPrice, p.SupplierName, p.ImageURL, p.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("product %s not found", p.ID)
	}
	return nil
}

func (r *postgresRepo) DeleteProduct(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

func (r *postgresRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET stock_quantity = stock_quantity + $1, updated_at=NOW()
		WHERE id=$2 AND stock_quantity + $1 >= 0`, delta, uid)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("stock adjustment of %d rejected for product %s (not found or insufficient stock)", delta, id)
	}
	return nil
}

func (r *postgresRepo) ListLowStock(ctx context.Context, threshold int) ([]*Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock_quantity <= $1 ORDER BY stock_quantity ASC`,
		threshold)
}

func (r *postgresRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.SKU, &p.Price, &p.CostPrice,
			&p.StockQuantity, &p.SupplierName, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
