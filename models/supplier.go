package models

type Supplier struct {
	SupplierID   int64  `json:"supplier_id,omitempty"`
	SupplierName string `json:"supplier_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

type SupplierInput struct {
	SupplierName string `json:"supplier_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}
