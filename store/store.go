// Package store is the data access layer over the category, supplier,
// product and stock tables.
package store

import (
	"context"

	"stockroom/models"
)

// Store exposes the four inventory tables. Implementations return rows in
// key order.
type Store interface {
	Categories(ctx context.Context) ([]models.Category, error)
	InsertCategory(ctx context.Context, c models.Category) (models.Category, error)

	Suppliers(ctx context.Context) ([]models.Supplier, error)
	InsertSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error)

	Products(ctx context.Context) ([]models.Product, error)
	// InsertProduct returns the stored row including its generated id.
	InsertProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error

	StockLevels(ctx context.Context) ([]models.Stock, error)
	// StockFor reports found=false when the product has no stock row.
	StockFor(ctx context.Context, productID int64) (s models.Stock, found bool, err error)
	InsertStock(ctx context.Context, s models.Stock) error
	SetQuantity(ctx context.Context, productID int64, quantity int) error
	DeleteStock(ctx context.Context, productID int64) error

	// Atomic runs fn against a Store whose writes either all persist or
	// are all undone when fn returns an error. Nested calls join the
	// outer unit.
	Atomic(ctx context.Context, fn func(Store) error) error

	Close() error
}
