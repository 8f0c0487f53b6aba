package store

import (
	"context"
	"sync"

	"stockroom/models"
)

type memData struct {
	categories []models.Category
	suppliers  []models.Supplier
	products   []models.Product
	stock      []models.Stock

	lastCategory, lastSupplier, lastProduct int64
}

func (d *memData) clone() *memData {
	c := *d
	c.categories = append([]models.Category(nil), d.categories...)
	c.suppliers = append([]models.Supplier(nil), d.suppliers...)
	c.products = append([]models.Product(nil), d.products...)
	c.stock = append([]models.Stock(nil), d.stock...)
	return &c
}

// Memory is a process-local Store for demos and tests. Atomic restores a
// snapshot when fn fails.
type Memory struct {
	mu   *sync.Mutex
	d    *memData
	inTx bool
}

func NewMemory() *Memory {
	return &Memory{mu: &sync.Mutex{}, d: &memData{}}
}

// lock is a no-op inside Atomic, which already holds the mutex.
func (m *Memory) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *Memory) Categories(ctx context.Context) ([]models.Category, error) {
	defer m.lock()()
	return append([]models.Category(nil), m.d.categories...), ctx.Err()
}

func (m *Memory) InsertCategory(ctx context.Context, c models.Category) (models.Category, error) {
	defer m.lock()()
	if err := ctx.Err(); err != nil {
		return c, err
	}
	m.d.lastCategory++
	c.CategoryID = m.d.lastCategory
	m.d.categories = append(m.d.categories, c)
	return c, nil
}

func (m *Memory) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	defer m.lock()()
	return append([]models.Supplier(nil), m.d.suppliers...), ctx.Err()
}

func (m *Memory) InsertSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	defer m.lock()()
	if err := ctx.Err(); err != nil {
		return s, err
	}
	m.d.lastSupplier++
	s.SupplierID = m.d.lastSupplier
	m.d.suppliers = append(m.d.suppliers, s)
	return s, nil
}

func (m *Memory) Products(ctx context.Context) ([]models.Product, error) {
	defer m.lock()()
	return append([]models.Product(nil), m.d.products...), ctx.Err()
}

func (m *Memory) InsertProduct(ctx context.Context, p models.Product) (models.Product, error) {
	defer m.lock()()
	if err := ctx.Err(); err != nil {
		return p, err
	}
	m.d.lastProduct++
	p.ProductID = m.d.lastProduct
	m.d.products = append(m.d.products, p)
	return p, nil
}

func (m *Memory) DeleteProduct(ctx context.Context, productID int64) error {
	defer m.lock()()
	if err := ctx.Err(); err != nil {
		return err
	}
	kept := m.d.products[:0:0]
	for _, p := range m.d.products {
		if p.ProductID != productID {
			kept = append(kept, p)
		}
	}
	m.d.products = kept
	return nil
}

func (m *Memory) StockLevels(ctx context.Context) ([]models.Stock, error) {
	defer m.lock()()
	return append([]models.Stock(nil), m.d.stock...), ctx.Err()
}

func (m *Memory) StockFor(ctx context.Context, productID int64) (models.Stock, bool, error) {
	defer m.lock()()
	if err := ctx.Err(); err != nil {
		return models.Stock{}, false, err
	}
	for _, s := range m.d.stock {
		if s.ProductID == productID {
			return s, true, nil
		}
	}
	return models.Stock{}, false, nil
}

func (m *Memory) InsertStock(ctx context.Context, s models.Stock) error {
	defer m.lock()()
	if err := ctx.Err(); err != nil {
		return err
	}
	m.d.stock = append(m.d.stock, s)
	return nil
}

func (m *Memory) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	defer m.lock()()
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range m.d.stock {
		if m.d.stock[i].ProductID == productID {
			m.d.stock[i].Quantity = quantity
		}
	}
	return nil
}

func (m *Memory) DeleteStock(ctx context.Context, productID int64) error {
	defer m.lock()()
	if err := ctx.Err(); err != nil {
		return err
	}
	kept := m.d.stock[:0:0]
	for _, s := range m.d.stock {
		if s.ProductID != productID {
			kept = append(kept, s)
		}
	}
	m.d.stock = kept
	return nil
}

func (m *Memory) Atomic(ctx context.Context, fn func(Store) error) error {
	if m.inTx {
		return fn(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.d.clone()
	if err := fn(&Memory{mu: m.mu, d: m.d, inTx: true}); err != nil {
		*m.d = *snapshot
		return err
	}
	return nil
}

func (m *Memory) Close() error { return nil }
