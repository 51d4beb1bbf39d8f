package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied on startup. Statements are idempotent so repeated
// boots against the same database are safe.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id             UUID PRIMARY KEY,
    name           TEXT NOT NULL,
    email          TEXT NOT NULL,
    phone          TEXT NOT NULL,
    password_hash  TEXT NOT NULL,
    role           TEXT NOT NULL DEFAULT 'customer',
    phone_verified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email);
CREATE UNIQUE INDEX IF NOT EXISTS users_phone_key ON users (phone);

CREATE TABLE IF NOT EXISTS products (
    id           UUID PRIMARY KEY,
    title        TEXT NOT NULL,
    slug         TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    category     TEXT NOT NULL DEFAULT '',
    images       TEXT[] NOT NULL DEFAULT '{}',
    price        NUMERIC(12,2) NOT NULL,
    stock        INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
    sales_count  INTEGER NOT NULL DEFAULT 0,
    rating       DOUBLE PRECISION NOT NULL DEFAULT 0,
    review_count INTEGER NOT NULL DEFAULT 0,
    is_active    BOOLEAN NOT NULL DEFAULT TRUE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS products_slug_key ON products (slug);
CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);

CREATE TABLE IF NOT EXISTS orders (
    id                    UUID PRIMARY KEY,
    order_number          TEXT NOT NULL,
    user_id               UUID REFERENCES users (id),
    customer_name         TEXT NOT NULL,
    customer_email        TEXT NOT NULL DEFAULT '',
    customer_phone        TEXT NOT NULL,
    ship_street           TEXT NOT NULL,
    ship_city             TEXT NOT NULL,
    ship_region           TEXT NOT NULL,
    ship_postal_code      TEXT NOT NULL DEFAULT '',
    payment_method        TEXT NOT NULL,
    payment_status        TEXT NOT NULL,
    status                TEXT NOT NULL,
    subtotal              NUMERIC(12,2) NOT NULL,
    shipping_cost         NUMERIC(12,2) NOT NULL,
    discount              NUMERIC(12,2) NOT NULL DEFAULT 0,
    total                 NUMERIC(12,2) NOT NULL,
    courier_name          TEXT,
    courier_tracking      TEXT,
    payment_tx_id         TEXT,
    payment_sender        TEXT,
    payment_amount        NUMERIC(12,2),
    payment_verified_by   TEXT,
    payment_verified_at   TIMESTAMPTZ,
    return_reason         TEXT,
    return_status         TEXT,
    return_requested_at   TIMESTAMPTZ,
    delivered_at          TIMESTAMPTZ,
    created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS orders_order_number_key ON orders (order_number);
CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS order_items (
    id         BIGSERIAL PRIMARY KEY,
    order_id   UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    product_id UUID NOT NULL,
    title      TEXT NOT NULL,
    image      TEXT NOT NULL DEFAULT '',
    price      NUMERIC(12,2) NOT NULL,
    quantity   INTEGER NOT NULL CHECK (quantity > 0),
    variant    TEXT NOT NULL DEFAULT '',
    subtotal   NUMERIC(12,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id);

CREATE TABLE IF NOT EXISTS order_timeline (
    id         BIGSERIAL PRIMARY KEY,
    order_id   UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    status     TEXT NOT NULL,
    message    TEXT NOT NULL DEFAULT '',
    actor      TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS order_timeline_order_id_idx ON order_timeline (order_id, created_at);

CREATE TABLE IF NOT EXISTS otps (
    id         UUID PRIMARY KEY,
    phone      TEXT NOT NULL,
    code       TEXT NOT NULL,
    purpose    TEXT NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    verified   BOOLEAN NOT NULL DEFAULT FALSE,
    attempts   INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS otps_phone_purpose_idx ON otps (phone, purpose);

CREATE TABLE IF NOT EXISTS reviews (
    id                   UUID PRIMARY KEY,
    product_id           UUID NOT NULL REFERENCES products (id),
    user_id              UUID NOT NULL REFERENCES users (id),
    order_id             UUID,
    rating               INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    title                TEXT NOT NULL DEFAULT '',
    comment              TEXT NOT NULL DEFAULT '',
    images               TEXT[] NOT NULL DEFAULT '{}',
    status               TEXT NOT NULL DEFAULT 'pending',
    is_verified_purchase BOOLEAN NOT NULL DEFAULT FALSE,
    admin_response       TEXT,
    responded_at         TIMESTAMPTZ,
    helpful              INTEGER NOT NULL DEFAULT 0,
    not_helpful          INTEGER NOT NULL DEFAULT 0,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS reviews_user_product_key ON reviews (user_id, product_id);
CREATE INDEX IF NOT EXISTS reviews_product_status_idx ON reviews (product_id, status, created_at DESC);
`

// EnsureSchema creates all tables and indexes the service relies on.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
