package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stockroom/models"
)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Postgres is a Store over a database/sql handle, normally opened with the
// pgx driver.
type Postgres struct {
	db   *sql.DB
	q    dbtx
	inTx bool
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, q: db}
}

func (p *Postgres) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := p.q.QueryContext(ctx,
		`SELECT category_id, category_name FROM category ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("select category: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.CategoryID, &c.CategoryName); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertCategory(ctx context.Context, c models.Category) (models.Category, error) {
	err := p.q.QueryRowContext(ctx,
		`INSERT INTO category (category_name) VALUES ($1) RETURNING category_id`,
		c.CategoryName,
	).Scan(&c.CategoryID)
	if err != nil {
		return c, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (p *Postgres) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := p.q.QueryContext(ctx,
		`SELECT supplier_id, supplier_name, COALESCE(phone, ''), COALESCE(email, '')
		 FROM supplier ORDER BY supplier_id`)
	if err != nil {
		return nil, fmt.Errorf("select supplier: %w", err)
	}
	defer rows.Close()

	var out []models.Supplier
	for rows.Next() {
		var s models.Supplier
		if err := rows.Scan(&s.SupplierID, &s.SupplierName, &s.Phone, &s.Email); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	err := p.q.QueryRowContext(ctx,
		`INSERT INTO supplier (supplier_name, phone, email) VALUES ($1, $2, $3) RETURNING supplier_id`,
		s.SupplierName, s.Phone, s.Email,
	).Scan(&s.SupplierID)
	if err != nil {
		return s, fmt.Errorf("insert supplier: %w", err)
	}
	return s, nil
}

func (p *Postgres) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := p.q.QueryContext(ctx,
		`SELECT product_id, product_name, COALESCE(brand, ''), COALESCE(price, 0),
		        COALESCE(warranty, 0), category_id, supplier_id
		 FROM product ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var pr models.Product
		if err := rows.Scan(&pr.ProductID, &pr.ProductName, &pr.Brand, &pr.Price,
			&pr.Warranty, &pr.CategoryID, &pr.SupplierID); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertProduct(ctx context.Context, pr models.Product) (models.Product, error) {
	err := p.q.QueryRowContext(ctx,
		`INSERT INTO product (product_name, brand, price, warranty, category_id, supplier_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING product_id`,
		pr.ProductName, pr.Brand, pr.Price, pr.Warranty, pr.CategoryID, pr.SupplierID,
	).Scan(&pr.ProductID)
	if err != nil {
		return pr, fmt.Errorf("insert product: %w", err)
	}
	return pr, nil
}

func (p *Postgres) DeleteProduct(ctx context.Context, productID int64) error {
	if _, err := p.q.ExecContext(ctx, `DELETE FROM product WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	return nil
}

func (p *Postgres) StockLevels(ctx context.Context) ([]models.Stock, error) {
	rows, err := p.q.QueryContext(ctx, `SELECT product_id, quantity FROM stock ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("select stock: %w", err)
	}
	defer rows.Close()

	var out []models.Stock
	for rows.Next() {
		var s models.Stock
		if err := rows.Scan(&s.ProductID, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StockFor locks the row when called inside Atomic so a read-modify-write
// of the quantity cannot interleave with another one.
func (p *Postgres) StockFor(ctx context.Context, productID int64) (models.Stock, bool, error) {
	query := `SELECT product_id, quantity FROM stock WHERE product_id = $1`
	if p.inTx {
		query += ` FOR UPDATE`
	}

	var s models.Stock
	err := p.q.QueryRowContext(ctx, query, productID).Scan(&s.ProductID, &s.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return s, false, nil
	}
	if err != nil {
		return s, false, fmt.Errorf("select stock %d: %w", productID, err)
	}
	return s, true, nil
}

func (p *Postgres) InsertStock(ctx context.Context, s models.Stock) error {
	if _, err := p.q.ExecContext(ctx,
		`INSERT INTO stock (product_id, quantity) VALUES ($1, $2)`,
		s.ProductID, s.Quantity,
	); err != nil {
		return fmt.Errorf("insert stock %d: %w", s.ProductID, err)
	}
	return nil
}

func (p *Postgres) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if _, err := p.q.ExecContext(ctx,
		`UPDATE stock SET quantity = $1 WHERE product_id = $2`,
		quantity, productID,
	); err != nil {
		return fmt.Errorf("update stock %d: %w", productID, err)
	}
	return nil
}

func (p *Postgres) DeleteStock(ctx context.Context, productID int64) error {
	if _, err := p.q.ExecContext(ctx, `DELETE FROM stock WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete stock %d: %w", productID, err)
	}
	return nil
}

func (p *Postgres) Atomic(ctx context.Context, fn func(Store) error) (err error) {
	if p.inTx {
		return fn(p)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(&Postgres{db: p.db, q: tx, inTx: true}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
