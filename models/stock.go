package models

type Stock struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type StockInput struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}
