package models

type Category struct {
	CategoryID   int64  `json:"category_id,omitempty"`
	CategoryName string `json:"category_name"`
}

type CategoryInput struct {
	CategoryName string `json:"category_name"`
}
