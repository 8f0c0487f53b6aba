package models

type DashboardRow struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Brand       string  `json:"brand"`
	Category    *string `json:"category"`
	Quantity    int     `json:"quantity"`
}

type Dashboard struct {
	Rows        []DashboardRow `json:"rows"`
	LowStock    []DashboardRow `json:"low_stock"`
	OrphanStock []Stock        `json:"orphan_stock"`
	Threshold   int            `json:"low_stock_threshold"`
}
