package inventory

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/models"
	"stockroom/store"
)

func refsOnly(t *testing.T) *store.Memory {
	t.Helper()
	ctx := context.Background()
	m := store.NewMemory()
	_, err := m.InsertCategory(ctx, models.Category{CategoryName: "Resistors"})
	require.NoError(t, err)
	_, err = m.InsertSupplier(ctx, models.Supplier{SupplierName: "Acme"})
	require.NoError(t, err)
	return m
}

func TestAddCategory_EmptyName(t *testing.T) {
	rec := newRecorder(store.NewMemory())
	svc := NewService(rec, nil, 0)

	_, err := svc.AddCategory(context.Background(), models.CategoryInput{CategoryName: ""})

	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Enter category name")
	assert.Empty(t, rec.log.names)
}

func TestAddCategory_WhitespaceIsNotEmpty(t *testing.T) {
	rec := newRecorder(store.NewMemory())
	svc := NewService(rec, nil, 0)

	_, err := svc.AddCategory(context.Background(), models.CategoryInput{CategoryName: " "})

	require.NoError(t, err)
	assert.Equal(t, []string{"InsertCategory"}, rec.writes())
}

func TestAddCategory(t *testing.T) {
	m := store.NewMemory()
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)
	ctx := context.Background()

	notice, err := svc.AddCategory(ctx, models.CategoryInput{CategoryName: "Resistors"})

	require.NoError(t, err)
	assert.Equal(t, models.Notice{Level: models.NoticeSuccess, Message: "Category added successfully!"}, notice)
	assert.Equal(t, []string{"InsertCategory"}, rec.log.names)

	cats, err := m.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Resistors", cats[0].CategoryName)
}

func TestAddCategory_DuplicatesAllowed(t *testing.T) {
	m := store.NewMemory()
	svc := NewService(m, nil, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.AddCategory(ctx, models.CategoryInput{CategoryName: "Resistors"})
		require.NoError(t, err)
	}

	cats, err := m.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestAddSupplier(t *testing.T) {
	m := store.NewMemory()
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)
	ctx := context.Background()

	_, err := svc.AddSupplier(ctx, models.SupplierInput{Phone: "555"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, rec.log.names)

	notice, err := svc.AddSupplier(ctx, models.SupplierInput{SupplierName: "Acme", Email: "not-an-email"})
	require.NoError(t, err)
	assert.Equal(t, "Supplier added successfully!", notice.Message)

	sups, err := m.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, sups, 1)
	assert.Equal(t, models.Supplier{SupplierID: 1, SupplierName: "Acme", Phone: "", Email: "not-an-email"}, sups[0])
}

func TestAddProduct_RequiresReferenceData(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	_, err := m.InsertCategory(ctx, models.Category{CategoryName: "Resistors"})
	require.NoError(t, err)
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)

	_, err = svc.AddProduct(ctx, models.ProductInput{ProductName: "LED 5mm", Category: "Resistors", Supplier: "Acme"})

	assert.ErrorIs(t, err, ErrPrecondition)
	assert.EqualError(t, err, "Add at least one category and supplier first.")
	assert.Empty(t, rec.writes())

	_, err = svc.ProductForm(ctx)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestAddProduct(t *testing.T) {
	m := refsOnly(t)
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)
	ctx := context.Background()

	notice, err := svc.AddProduct(ctx, models.ProductInput{
		ProductName: "LED 5mm",
		Brand:       "Nichia",
		Price:       decimal.RequireFromString("0.35"),
		Warranty:    12,
		Category:    "Resistors",
		Supplier:    "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, "Product added successfully!", notice.Message)
	assert.Equal(t, []string{"InsertProduct", "InsertStock"}, rec.writes())

	products, err := m.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, "LED 5mm", p.ProductName)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("0.35")))
	require.NotNil(t, p.CategoryID)
	require.NotNil(t, p.SupplierID)
	assert.Equal(t, int64(1), *p.CategoryID)
	assert.Equal(t, int64(1), *p.SupplierID)

	require.Len(t, rec.log.stock, 1)
	assert.Equal(t, models.Stock{ProductID: p.ProductID, Quantity: 0}, rec.log.stock[0])
}

func TestAddProduct_EmptyNameMakesNoCalls(t *testing.T) {
	rec := newRecorder(refsOnly(t))
	svc := NewService(rec, nil, 0)

	_, err := svc.AddProduct(context.Background(), models.ProductInput{Category: "Resistors", Supplier: "Acme"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Product name required")
	assert.Empty(t, rec.log.names)
}

func TestAddProduct_RejectsBadInput(t *testing.T) {
	cases := map[string]models.ProductInput{
		"negative price":    {ProductName: "x", Price: decimal.NewFromInt(-1), Category: "Resistors", Supplier: "Acme"},
		"negative warranty": {ProductName: "x", Warranty: -1, Category: "Resistors", Supplier: "Acme"},
		"unknown category":  {ProductName: "x", Category: "Capacitors", Supplier: "Acme"},
		"unknown supplier":  {ProductName: "x", Category: "Resistors", Supplier: "Nobody"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			rec := newRecorder(refsOnly(t))
			svc := NewService(rec, nil, 0)

			_, err := svc.AddProduct(context.Background(), in)

			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, rec.writes())
		})
	}
}

func TestAddProduct_StockFailureLeavesNoProduct(t *testing.T) {
	m := refsOnly(t)
	rec := newRecorder(m)
	rec.log.fail["InsertStock"] = assert.AnError
	svc := NewService(rec, nil, 0)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, models.ProductInput{ProductName: "LED 5mm", Category: "Resistors", Supplier: "Acme"})

	assert.ErrorIs(t, err, assert.AnError)
	_, isWarning := AsWarning(err)
	assert.False(t, isWarning)

	products, err := m.Products(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAddProduct_DuplicateReferenceNamesUseLastRow(t *testing.T) {
	ctx := context.Background()
	m := refsOnly(t)
	_, err := m.InsertCategory(ctx, models.Category{CategoryName: "Resistors"})
	require.NoError(t, err)
	svc := NewService(m, nil, 0)

	form, err := svc.ProductForm(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Resistors"}, form.Categories)

	_, err = svc.AddProduct(ctx, models.ProductInput{ProductName: "10k", Category: "Resistors", Supplier: "Acme"})
	require.NoError(t, err)

	products, err := m.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(2), *products[0].CategoryID)
}

func withStock(t *testing.T, qty int) (*store.Memory, models.Product) {
	t.Helper()
	ctx := context.Background()
	m := refsOnly(t)
	p, err := m.InsertProduct(ctx, models.Product{ProductName: "LED 5mm"})
	require.NoError(t, err)
	require.NoError(t, m.InsertStock(ctx, models.Stock{ProductID: p.ProductID, Quantity: qty}))
	return m, p
}

func TestUpdateStock(t *testing.T) {
	m, p := withStock(t, 10)
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)
	ctx := context.Background()

	notice, err := svc.UpdateStock(ctx, models.StockInput{Product: "LED 5mm", Quantity: 5})

	require.NoError(t, err)
	assert.Equal(t, "Stock updated successfully!", notice.Message)
	assert.Equal(t, []string{"SetQuantity"}, rec.writes())
	assert.Equal(t, []int{15}, rec.log.quantities)

	s, found, err := m.StockFor(ctx, p.ProductID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 15, s.Quantity)
}

func TestUpdateStock_MissingRow(t *testing.T) {
	ctx := context.Background()
	m := refsOnly(t)
	_, err := m.InsertProduct(ctx, models.Product{ProductName: "LED 5mm"})
	require.NoError(t, err)
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)

	_, err = svc.UpdateStock(ctx, models.StockInput{Product: "LED 5mm", Quantity: 5})

	assert.ErrorIs(t, err, ErrMissingStock)
	assert.Equal(t, 0, rec.count("SetQuantity"))
	assert.Equal(t, 0, rec.count("InsertStock"))

	stock, err := m.StockLevels(ctx)
	require.NoError(t, err)
	assert.Empty(t, stock)
}

func TestUpdateStock_Validation(t *testing.T) {
	m, _ := withStock(t, 10)
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)
	ctx := context.Background()

	_, err := svc.UpdateStock(ctx, models.StockInput{Product: "LED 5mm", Quantity: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStock(ctx, models.StockInput{Product: "", Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStock(ctx, models.StockInput{Product: "Ghost", Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, rec.writes())
}

func TestUpdateStock_RejectsOverflow(t *testing.T) {
	m, p := withStock(t, 10)
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)
	ctx := context.Background()

	_, err := svc.UpdateStock(ctx, models.StockInput{Product: "LED 5mm", Quantity: math.MaxInt})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStock(ctx, models.StockInput{Product: "LED 5mm", Quantity: MaxQuantity - 9})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, rec.writes())

	notice, err := svc.UpdateStock(ctx, models.StockInput{Product: "LED 5mm", Quantity: MaxQuantity - 10})
	require.NoError(t, err)
	assert.Equal(t, "Stock updated successfully!", notice.Message)

	s, found, err := m.StockFor(ctx, p.ProductID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, MaxQuantity, s.Quantity)
}

func TestUpdateStock_NoProducts(t *testing.T) {
	svc := NewService(store.NewMemory(), nil, 0)
	ctx := context.Background()

	_, err := svc.UpdateStock(ctx, models.StockInput{Product: "LED 5mm", Quantity: 1})
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.EqualError(t, err, "No products found.")

	_, err = svc.StockForm(ctx)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestDeleteProduct_LeavesStock(t *testing.T) {
	m, p := withStock(t, 3)
	rec := newRecorder(m)
	svc := NewService(rec, nil, 0)
	ctx := context.Background()

	notice, err := svc.DeleteProduct(ctx, models.DeleteProductInput{Product: "LED 5mm"})

	require.NoError(t, err)
	assert.Equal(t, "Product deleted successfully!", notice.Message)
	assert.Equal(t, []string{"Products", "DeleteProduct"}, rec.log.names)

	products, err := m.Products(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	s, found, err := m.StockFor(ctx, p.ProductID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, s.Quantity)
}

func TestDeleteProduct_DuplicateNameDeletesLast(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	first, err := m.InsertProduct(ctx, models.Product{ProductName: "Fuse"})
	require.NoError(t, err)
	_, err = m.InsertProduct(ctx, models.Product{ProductName: "Fuse"})
	require.NoError(t, err)
	svc := NewService(m, nil, 0)

	picker, err := svc.DeleteForm(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fuse"}, picker.Products)

	_, err = svc.DeleteProduct(ctx, models.DeleteProductInput{Product: "Fuse"})
	require.NoError(t, err)

	products, err := m.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, first.ProductID, products[0].ProductID)
}

func TestDeleteProduct_Preconditions(t *testing.T) {
	svc := NewService(store.NewMemory(), nil, 0)
	ctx := context.Background()

	_, err := svc.DeleteProduct(ctx, models.DeleteProductInput{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.DeleteProduct(ctx, models.DeleteProductInput{Product: "LED 5mm"})
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.EqualError(t, err, "No products available.")
}
