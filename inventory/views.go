package inventory

import (
	"context"
	"fmt"

	"stockroom/models"
)

var navigation = []models.NavItem{
	{View: models.ViewDashboard, Title: "Dashboard"},
	{View: models.ViewAddCategory, Title: "Add Category"},
	{View: models.ViewAddSupplier, Title: "Add Supplier"},
	{View: models.ViewAddProduct, Title: "Add Product"},
	{View: models.ViewUpdateStock, Title: "Update Stock"},
	{View: models.ViewDeleteProduct, Title: "Delete Product"},
}

// LookupView resolves a view name and its title.
func LookupView(name string) (models.ViewName, string, bool) {
	for _, n := range navigation {
		if string(n.View) == name {
			return n.View, n.Title, true
		}
	}
	return "", "", false
}

func nav(active models.ViewName) []models.NavItem {
	items := make([]models.NavItem, len(navigation))
	copy(items, navigation)
	for i := range items {
		items[i].Active = items[i].View == active
	}
	return items
}

// Resolve builds the page for view from a fresh read of the store. Nothing
// is kept between calls. Precondition failures become warning notices and
// leave the view's form unset.
func (s *Service) Resolve(ctx context.Context, view models.ViewName) (*models.Page, error) {
	_, title, ok := LookupView(string(view))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}

	page := &models.Page{
		View:    view,
		Title:   title,
		Nav:     nav(view),
		Notices: []models.Notice{},
	}

	var err error
	switch view {
	case models.ViewDashboard:
		page.Dashboard, err = s.Dashboard(ctx)
		if err == nil && len(page.Dashboard.Rows) == 0 {
			page.Notices = append(page.Notices, info("No products available."))
		}
	case models.ViewAddProduct:
		page.ProductForm, err = s.ProductForm(ctx)
	case models.ViewUpdateStock:
		page.Picker, err = s.StockForm(ctx)
	case models.ViewDeleteProduct:
		page.Picker, err = s.DeleteForm(ctx)
	}

	if w, ok := AsWarning(err); ok {
		page.Notices = append(page.Notices, w.Notice())
		return page, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", view, err)
	}
	return page, nil
}
