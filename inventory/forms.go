package inventory

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"stockroom/models"
	"stockroom/store"
)

func (s *Service) AddCategory(ctx context.Context, in models.CategoryInput) (models.Notice, error) {
	if in.CategoryName == "" {
		return models.Notice{}, warn(ErrValidation, "Enter category name")
	}

	c, err := s.store.InsertCategory(ctx, models.Category{CategoryName: in.CategoryName})
	if err != nil {
		return models.Notice{}, fmt.Errorf("add category: %w", err)
	}
	s.log.Info("category added",
		zap.Int64("category_id", c.CategoryID),
		zap.String("category_name", c.CategoryName))
	return success("Category added successfully!"), nil
}

func (s *Service) AddSupplier(ctx context.Context, in models.SupplierInput) (models.Notice, error) {
	if in.SupplierName == "" {
		return models.Notice{}, warn(ErrValidation, "Supplier name required")
	}

	sup, err := s.store.InsertSupplier(ctx, models.Supplier{
		SupplierName: in.SupplierName,
		Phone:        in.Phone,
		Email:        in.Email,
	})
	if err != nil {
		return models.Notice{}, fmt.Errorf("add supplier: %w", err)
	}
	s.log.Info("supplier added",
		zap.Int64("supplier_id", sup.SupplierID),
		zap.String("supplier_name", sup.SupplierName))
	return success("Supplier added successfully!"), nil
}

// choices maps display names to ids the way a selector does: names keep
// the order they first appear in, a repeated name points at its last row.
type choices struct {
	names []string
	ids   map[string]int64
}

func (c *choices) add(name string, id int64) {
	if _, ok := c.ids[name]; !ok {
		c.names = append(c.names, name)
	}
	c.ids[name] = id
}

func newChoices(n int) *choices {
	return &choices{names: make([]string, 0, n), ids: make(map[string]int64, n)}
}

type productRefs struct {
	categories *choices
	suppliers  *choices
}

func (s *Service) productRefs(ctx context.Context) (*productRefs, error) {
	cats, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	sups, err := s.store.Suppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}
	if len(cats) == 0 || len(sups) == 0 {
		return nil, warn(ErrPrecondition, "Add at least one category and supplier first.")
	}

	refs := &productRefs{categories: newChoices(len(cats)), suppliers: newChoices(len(sups))}
	for _, c := range cats {
		refs.categories.add(c.CategoryName, c.CategoryID)
	}
	for _, sup := range sups {
		refs.suppliers.add(sup.SupplierName, sup.SupplierID)
	}
	return refs, nil
}

// ProductForm returns the Add Product selector choices, or a precondition
// Warning when there is no category or no supplier yet.
func (s *Service) ProductForm(ctx context.Context) (*models.ProductForm, error) {
	refs, err := s.productRefs(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ProductForm{
		Categories: refs.categories.names,
		Suppliers:  refs.suppliers.names,
	}, nil
}

// AddProduct inserts the product and its zero stock row as one unit.
func (s *Service) AddProduct(ctx context.Context, in models.ProductInput) (models.Notice, error) {
	switch {
	case in.ProductName == "":
		return models.Notice{}, warn(ErrValidation, "Product name required")
	case in.Price.IsNegative():
		return models.Notice{}, warn(ErrValidation, "Price must be at least 0")
	case in.Warranty < 0:
		return models.Notice{}, warn(ErrValidation, "Warranty must be at least 0 months")
	}

	refs, err := s.productRefs(ctx)
	if err != nil {
		return models.Notice{}, err
	}
	catID, ok := refs.categories.ids[in.Category]
	if !ok {
		return models.Notice{}, warn(ErrValidation, fmt.Sprintf("Unknown category %q", in.Category))
	}
	supID, ok := refs.suppliers.ids[in.Supplier]
	if !ok {
		return models.Notice{}, warn(ErrValidation, fmt.Sprintf("Unknown supplier %q", in.Supplier))
	}

	var created models.Product
	err = s.store.Atomic(ctx, func(tx store.Store) error {
		p, err := tx.InsertProduct(ctx, models.Product{
			ProductName: in.ProductName,
			Brand:       in.Brand,
			Price:       in.Price,
			Warranty:    in.Warranty,
			CategoryID:  &catID,
			SupplierID:  &supID,
		})
		if err != nil {
			return err
		}
		created = p
		return tx.InsertStock(ctx, models.Stock{ProductID: p.ProductID, Quantity: 0})
	})
	if err != nil {
		return models.Notice{}, fmt.Errorf("add product: %w", err)
	}

	s.log.Info("product added",
		zap.Int64("product_id", created.ProductID),
		zap.String("product_name", created.ProductName))
	return success("Product added successfully!"), nil
}

func (s *Service) productChoices(ctx context.Context, emptyMsg string) (*choices, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if len(products) == 0 {
		return nil, warn(ErrPrecondition, emptyMsg)
	}
	c := newChoices(len(products))
	for _, p := range products {
		c.add(p.ProductName, p.ProductID)
	}
	return c, nil
}

const (
	noProductsToStock  = "No products found."
	noProductsToDelete = "No products available."
)

// MaxQuantity is the largest quantity the stock.quantity INTEGER column holds.
const MaxQuantity = math.MaxInt32

func tooMuchStock() error {
	return warn(ErrValidation, fmt.Sprintf("Stock quantity cannot exceed %d", MaxQuantity))
}

// StockForm returns the Update Stock product selector.
func (s *Service) StockForm(ctx context.Context) (*models.ProductPicker, error) {
	c, err := s.productChoices(ctx, noProductsToStock)
	if err != nil {
		return nil, err
	}
	return &models.ProductPicker{Products: c.names}, nil
}

// UpdateStock adds in.Quantity to the product's stock. A product without a
// stock row is left untouched and reported with ErrMissingStock.
func (s *Service) UpdateStock(ctx context.Context, in models.StockInput) (models.Notice, error) {
	if in.Quantity < 1 {
		return models.Notice{}, warn(ErrValidation, "Quantity to add must be at least 1")
	}
	if in.Quantity > MaxQuantity {
		return models.Notice{}, tooMuchStock()
	}
	if in.Product == "" {
		return models.Notice{}, warn(ErrValidation, "Select a product")
	}

	products, err := s.productChoices(ctx, noProductsToStock)
	if err != nil {
		return models.Notice{}, err
	}
	productID, ok := products.ids[in.Product]
	if !ok {
		return models.Notice{}, warn(ErrValidation, fmt.Sprintf("Unknown product %q", in.Product))
	}

	var total int
	err = s.store.Atomic(ctx, func(tx store.Store) error {
		current, found, err := tx.StockFor(ctx, productID)
		if err != nil {
			return err
		}
		if !found {
			return warn(ErrMissingStock,
				fmt.Sprintf("No stock record for %q; nothing was updated.", in.Product))
		}
		if in.Quantity > MaxQuantity-current.Quantity {
			return tooMuchStock()
		}
		total = current.Quantity + in.Quantity
		return tx.SetQuantity(ctx, productID, total)
	})
	if err != nil {
		if w, ok := AsWarning(err); ok {
			s.log.Warn("stock not updated",
				zap.Int64("product_id", productID),
				zap.String("reason", w.Message))
			return models.Notice{}, err
		}
		return models.Notice{}, fmt.Errorf("update stock: %w", err)
	}

	s.log.Info("stock updated",
		zap.Int64("product_id", productID),
		zap.Int("added", in.Quantity),
		zap.Int("quantity", total))
	return success("Stock updated successfully!"), nil
}

// DeleteForm returns the Delete Product selector.
func (s *Service) DeleteForm(ctx context.Context) (*models.ProductPicker, error) {
	c, err := s.productChoices(ctx, noProductsToDelete)
	if err != nil {
		return nil, err
	}
	return &models.ProductPicker{Products: c.names}, nil
}

// DeleteProduct removes the product row only. Its stock row is kept and
// shows up as orphaned on the dashboard.
func (s *Service) DeleteProduct(ctx context.Context, in models.DeleteProductInput) (models.Notice, error) {
	if in.Product == "" {
		return models.Notice{}, warn(ErrValidation, "Select a product")
	}

	products, err := s.productChoices(ctx, noProductsToDelete)
	if err != nil {
		return models.Notice{}, err
	}
	productID, ok := products.ids[in.Product]
	if !ok {
		return models.Notice{}, warn(ErrValidation, fmt.Sprintf("Unknown product %q", in.Product))
	}

	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return models.Notice{}, fmt.Errorf("delete product: %w", err)
	}
	s.log.Info("product deleted", zap.Int64("product_id", productID))
	return success("Product deleted successfully!"), nil
}
