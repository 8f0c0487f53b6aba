package models

import "github.com/shopspring/decimal"

type Product struct {
	ProductID   int64           `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Warranty    int             `json:"warranty"` // months
	CategoryID  *int64          `json:"category_id"`
	SupplierID  *int64          `json:"supplier_id"`
}

// ProductInput is what the Add Product form submits. Category and supplier
// are picked by name and resolved to ids against the reference data.
type ProductInput struct {
	ProductName string          `json:"product_name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Warranty    int             `json:"warranty"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
}

type DeleteProductInput struct {
	Product string `json:"product"`
}
