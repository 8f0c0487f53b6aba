package store

import (
	"context"
	"database/sql"
	"fmt"
)

// stock.product_id carries no foreign key. A deleted product's stock row
// stays until the orphan purge removes it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS category (
		category_id   BIGSERIAL PRIMARY KEY,
		category_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS supplier (
		supplier_id   BIGSERIAL PRIMARY KEY,
		supplier_name TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS product (
		product_id   BIGSERIAL PRIMARY KEY,
		product_name TEXT NOT NULL,
		brand        TEXT NOT NULL DEFAULT '',
		price        NUMERIC(12, 2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		warranty     INTEGER NOT NULL DEFAULT 0 CHECK (warranty >= 0),
		category_id  BIGINT REFERENCES category (category_id),
		supplier_id  BIGINT REFERENCES supplier (supplier_id)
	)`,
	`CREATE TABLE IF NOT EXISTS stock (
		product_id BIGINT PRIMARY KEY,
		quantity   INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)
	)`,
}

// EnsureSchema creates the inventory tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
