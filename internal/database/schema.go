package database

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('ADMIN', 'MANAGER', 'SECRETARY', 'SALES', 'DRIVER')),
    settings JSONB,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

-- Supplier assignments for SALES users
CREATE TABLE IF NOT EXISTS user_suppliers (
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    supplier_id UUID NOT NULL,
    PRIMARY KEY (user_id, supplier_id)
);

-- Suppliers
CREATE TABLE IF NOT EXISTS suppliers (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    contact_person TEXT,
    phone TEXT,
    email TEXT,
    address TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Customers
CREATE TABLE IF NOT EXISTS customers (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT,
    email TEXT,
    address TEXT,
    outstanding_balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (outstanding_balance >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Products
CREATE TABLE IF NOT EXISTS products (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT,
    sku TEXT NOT NULL UNIQUE,
    price NUMERIC(14,2) NOT NULL DEFAULT 0,
    cost_price NUMERIC(14,2) NOT NULL DEFAULT 0,
    stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
    supplier_name TEXT,
    image_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

-- Orders
CREATE TABLE IF NOT EXISTS orders (
    id UUID PRIMARY KEY,
    order_number TEXT NOT NULL UNIQUE,
    customer_id UUID NOT NULL REFERENCES customers(id),
    driver_id UUID REFERENCES users(id),
    status TEXT NOT NULL CHECK (status IN ('PENDING', 'SHIPPED', 'DELIVERED', 'CANCELLED')),
    total NUMERIC(14,2) NOT NULL DEFAULT 0,
    amount_paid NUMERIC(14,2) NOT NULL DEFAULT 0,
    cheque_balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (cheque_balance >= 0),
    credit_balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (credit_balance >= 0),
    return_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_driver ON orders(driver_id);

CREATE TABLE IF NOT EXISTS order_items (
    id UUID PRIMARY KEY,
    order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id UUID NOT NULL REFERENCES products(id),
    quantity INTEGER NOT NULL CHECK (quantity > 0),
    unit_price NUMERIC(14,2) NOT NULL,
    line_total NUMERIC(14,2) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

-- Driver allocations: one row per driver per day
CREATE TABLE IF NOT EXISTS driver_allocations (
    id UUID PRIMARY KEY,
    driver_id UUID NOT NULL REFERENCES users(id),
    alloc_date DATE NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('ALLOCATED', 'RECONCILED')),
    sales_total NUMERIC(14,2) NOT NULL DEFAULT 0,
    reconciled_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (driver_id, alloc_date)
);

CREATE INDEX IF NOT EXISTS idx_driver_allocations_driver ON driver_allocations(driver_id);

CREATE TABLE IF NOT EXISTS allocation_items (
    allocation_id UUID NOT NULL REFERENCES driver_allocations(id) ON DELETE CASCADE,
    product_id UUID NOT NULL REFERENCES products(id),
    allocated INTEGER NOT NULL CHECK (allocated > 0),
    sold INTEGER NOT NULL DEFAULT 0 CHECK (sold >= 0 AND sold <= allocated),
    returned INTEGER NOT NULL DEFAULT 0 CHECK (returned >= 0 AND sold + returned <= allocated),
    PRIMARY KEY (allocation_id, product_id)
);

-- Driver sales are immutable once created
CREATE TABLE IF NOT EXISTS driver_sales (
    id UUID PRIMARY KEY,
    driver_id UUID NOT NULL REFERENCES users(id),
    customer_id UUID NOT NULL REFERENCES customers(id),
    amount_paid NUMERIC(14,2) NOT NULL DEFAULT 0,
    credit_amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (credit_amount >= 0),
    payment_method TEXT NOT NULL CHECK (payment_method IN ('CASH', 'CHEQUE', 'CREDIT')),
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_driver_sales_driver ON driver_sales(driver_id);
CREATE INDEX IF NOT EXISTS idx_driver_sales_customer ON driver_sales(customer_id);

CREATE TABLE IF NOT EXISTS driver_sale_items (
    sale_id UUID NOT NULL REFERENCES driver_sales(id) ON DELETE CASCADE,
    product_id UUID NOT NULL REFERENCES products(id),
    quantity INTEGER NOT NULL CHECK (quantity > 0),
    unit_price NUMERIC(14,2) NOT NULL,
    PRIMARY KEY (sale_id, product_id)
);

-- Cheques
CREATE TABLE IF NOT EXISTS cheques (
    id UUID PRIMARY KEY,
    payer TEXT NOT NULL,
    amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
    bank TEXT,
    cheque_number TEXT NOT NULL,
    deposit_date DATE NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('RECEIVED', 'CLEARED', 'BOUNCED', 'CANCELLED')),
    order_id UUID REFERENCES orders(id),
    collection_id UUID,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_cheques_status ON cheques(status);
CREATE INDEX IF NOT EXISTS idx_cheques_deposit_date ON cheques(deposit_date);

-- Collections: pending payments awaiting recognition
CREATE TABLE IF NOT EXISTS collections (
    id UUID PRIMARY KEY,
    collection_type TEXT NOT NULL CHECK (collection_type IN ('CHEQUE', 'CREDIT')),
    order_id UUID REFERENCES orders(id),
    customer_id UUID REFERENCES customers(id),
    amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
    status TEXT NOT NULL CHECK (status IN ('PENDING', 'COMPLETE')),
    reference TEXT,
    completed_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_collections_status ON collections(status);
CREATE INDEX IF NOT EXISTS idx_collections_order ON collections(order_id);

-- Daily sales targets
CREATE TABLE IF NOT EXISTS daily_targets (
    id UUID PRIMARY KEY,
    target_date DATE NOT NULL,
    driver_id UUID REFERENCES users(id),
    amount NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
    created_by UUID REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_targets_date_driver
    ON daily_targets(target_date, COALESCE(driver_id, '00000000-0000-0000-0000-000000000000'::uuid));
`
