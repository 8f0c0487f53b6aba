package models

type ViewName string

const (
	ViewDashboard     ViewName = "dashboard"
	ViewAddCategory   ViewName = "add-category"
	ViewAddSupplier   ViewName = "add-supplier"
	ViewAddProduct    ViewName = "add-product"
	ViewUpdateStock   ViewName = "update-stock"
	ViewDeleteProduct ViewName = "delete-product"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

type NavItem struct {
	View   ViewName `json:"view"`
	Title  string   `json:"title"`
	Active bool     `json:"active"`
}

// Page is everything needed to draw one view. Exactly one of the view
// specific fields is set, and only when the view's preconditions hold.
type Page struct {
	View    ViewName  `json:"view"`
	Title   string    `json:"title"`
	Nav     []NavItem `json:"nav"`
	Notices []Notice  `json:"notices"`

	Dashboard   *Dashboard     `json:"dashboard,omitempty"`
	ProductForm *ProductForm   `json:"product_form,omitempty"`
	Picker      *ProductPicker `json:"picker,omitempty"`
}

// ProductForm carries the selector choices for Add Product.
type ProductForm struct {
	Categories []string `json:"categories"`
	Suppliers  []string `json:"suppliers"`
}

// ProductPicker carries the product selector shared by Update Stock and
// Delete Product.
type ProductPicker struct {
	Products []string `json:"products"`
}
