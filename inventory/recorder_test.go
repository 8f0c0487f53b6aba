package inventory

import (
	"context"
	"strings"

	"stockroom/models"
	"stockroom/store"
)

// callLog is shared by a recorder and the transactional recorders it
// hands to Atomic callbacks.
type callLog struct {
	names      []string
	stock      []models.Stock
	quantities []int
	fail       map[string]error
}

type recorder struct {
	store.Store
	log *callLog
}

func newRecorder(s store.Store) *recorder {
	return &recorder{Store: s, log: &callLog{fail: map[string]error{}}}
}

func (r *recorder) hit(name string) error {
	r.log.names = append(r.log.names, name)
	return r.log.fail[name]
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.log.names {
		if c == name {
			n++
		}
	}
	return n
}

func (r *recorder) writes() []string {
	var out []string
	for _, c := range r.log.names {
		if strings.HasPrefix(c, "Insert") || strings.HasPrefix(c, "Delete") || c == "SetQuantity" {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) Categories(ctx context.Context) ([]models.Category, error) {
	if err := r.hit("Categories"); err != nil {
		return nil, err
	}
	return r.Store.Categories(ctx)
}

func (r *recorder) InsertCategory(ctx context.Context, c models.Category) (models.Category, error) {
	if err := r.hit("InsertCategory"); err != nil {
		return c, err
	}
	return r.Store.InsertCategory(ctx, c)
}

func (r *recorder) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	if err := r.hit("Suppliers"); err != nil {
		return nil, err
	}
	return r.Store.Suppliers(ctx)
}

func (r *recorder) InsertSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	if err := r.hit("InsertSupplier"); err != nil {
		return s, err
	}
	return r.Store.InsertSupplier(ctx, s)
}

func (r *recorder) Products(ctx context.Context) ([]models.Product, error) {
	if err := r.hit("Products"); err != nil {
		return nil, err
	}
	return r.Store.Products(ctx)
}

func (r *recorder) InsertProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := r.hit("InsertProduct"); err != nil {
		return p, err
	}
	return r.Store.InsertProduct(ctx, p)
}

func (r *recorder) DeleteProduct(ctx context.Context, id int64) error {
	if err := r.hit("DeleteProduct"); err != nil {
		return err
	}
	return r.Store.DeleteProduct(ctx, id)
}

func (r *recorder) StockLevels(ctx context.Context) ([]models.Stock, error) {
	if err := r.hit("StockLevels"); err != nil {
		return nil, err
	}
	return r.Store.StockLevels(ctx)
}

func (r *recorder) StockFor(ctx context.Context, id int64) (models.Stock, bool, error) {
	if err := r.hit("StockFor"); err != nil {
		return models.Stock{}, false, err
	}
	return r.Store.StockFor(ctx, id)
}

func (r *recorder) InsertStock(ctx context.Context, s models.Stock) error {
	if err := r.hit("InsertStock"); err != nil {
		return err
	}
	r.log.stock = append(r.log.stock, s)
	return r.Store.InsertStock(ctx, s)
}

func (r *recorder) SetQuantity(ctx context.Context, id int64, q int) error {
	if err := r.hit("SetQuantity"); err != nil {
		return err
	}
	r.log.quantities = append(r.log.quantities, q)
	return r.Store.SetQuantity(ctx, id, q)
}

func (r *recorder) DeleteStock(ctx context.Context, id int64) error {
	if err := r.hit("DeleteStock"); err != nil {
		return err
	}
	return r.Store.DeleteStock(ctx, id)
}

func (r *recorder) Atomic(ctx context.Context, fn func(store.Store) error) error {
	return r.Store.Atomic(ctx, func(tx store.Store) error {
		return fn(&recorder{Store: tx, log: r.log})
	})
}
