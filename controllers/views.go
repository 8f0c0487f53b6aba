package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockroom/inventory"
	"stockroom/models"
)

const actionPurgeOrphans = "purge-orphans"

// Views serves every view twice: as an HTML page and as JSON under /api.
type Views struct {
	svc  *inventory.Service
	log  *zap.Logger
	auth bool
}

func NewViews(svc *inventory.Service, log *zap.Logger, authEnabled bool) *Views {
	return &Views{svc: svc, log: log, auth: authEnabled}
}

func viewParam(c *fiber.Ctx) (models.ViewName, error) {
	view, _, ok := inventory.LookupView(c.Params("view"))
	if !ok {
		return "", fiber.NewError(fiber.StatusNotFound, "unknown view")
	}
	return view, nil
}

func invalid(msg string) error {
	return &inventory.Warning{Kind: inventory.ErrValidation, Message: msg}
}

// outcome turns a submission result into the notice to show and the
// status to answer with. Errors other than warnings are returned as is.
func outcome(notice models.Notice, err error) (models.Notice, int, error) {
	w, ok := inventory.AsWarning(err)
	switch {
	case ok && errors.Is(w, inventory.ErrValidation):
		return w.Notice(), fiber.StatusUnprocessableEntity, nil
	case ok:
		return w.Notice(), fiber.StatusConflict, nil
	case err != nil:
		return models.Notice{}, 0, err
	}
	return notice, fiber.StatusOK, nil
}

func (h *Views) render(c *fiber.Ctx, view models.ViewName, status int, notice *models.Notice) error {
	page, err := h.svc.Resolve(c.UserContext(), view)
	if err != nil {
		return err
	}
	if notice != nil {
		page.Notices = append([]models.Notice{*notice}, page.Notices...)
	}
	return c.Status(status).Render("index", fiber.Map{"Page": page, "Auth": h.auth})
}

// GET /views/:view
func (h *Views) Page(c *fiber.Ctx) error {
	view, err := viewParam(c)
	if err != nil {
		return err
	}
	return h.render(c, view, fiber.StatusOK, nil)
}

// POST /views/:view
func (h *Views) Submit(c *fiber.Ctx) error {
	view, err := viewParam(c)
	if err != nil {
		return err
	}
	notice, status, err := outcome(h.submit(c, view))
	if err != nil {
		return err
	}
	return h.render(c, view, status, &notice)
}

// GET /api/views/:view
func (h *Views) APIPage(c *fiber.Ctx) error {
	view, err := viewParam(c)
	if err != nil {
		return err
	}
	page, err := h.svc.Resolve(c.UserContext(), view)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// POST /api/views/:view
func (h *Views) APISubmit(c *fiber.Ctx) error {
	view, err := viewParam(c)
	if err != nil {
		return err
	}
	notice, status, err := outcome(h.submit(c, view))
	if err != nil {
		return err
	}
	page, err := h.svc.Resolve(c.UserContext(), view)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"notice": notice, "page": page})
}

func (h *Views) submit(c *fiber.Ctx, view models.ViewName) (models.Notice, error) {
	ctx := c.UserContext()

	switch view {
	case models.ViewDashboard:
		var in struct {
			Action string `json:"action"`
		}
		if err := bind(c, &in, func() error {
			in.Action = c.FormValue("action")
			return nil
		}); err != nil {
			return models.Notice{}, err
		}
		if in.Action != actionPurgeOrphans {
			return models.Notice{}, invalid("Unknown dashboard action")
		}
		return h.svc.PurgeOrphanStock(ctx)

	case models.ViewAddCategory:
		var in models.CategoryInput
		if err := bind(c, &in, func() error {
			in.CategoryName = c.FormValue("category_name")
			return nil
		}); err != nil {
			return models.Notice{}, err
		}
		return h.svc.AddCategory(ctx, in)

	case models.ViewAddSupplier:
		var in models.SupplierInput
		if err := bind(c, &in, func() error {
			in.SupplierName = c.FormValue("supplier_name")
			in.Phone = c.FormValue("phone")
			in.Email = c.FormValue("email")
			return nil
		}); err != nil {
			return models.Notice{}, err
		}
		return h.svc.AddSupplier(ctx, in)

	case models.ViewAddProduct:
		var in models.ProductInput
		if err := bind(c, &in, func() error {
			return productForm(c, &in)
		}); err != nil {
			return models.Notice{}, err
		}
		return h.svc.AddProduct(ctx, in)

	case models.ViewUpdateStock:
		in := models.StockInput{Quantity: 1}
		if err := bind(c, &in, func() error {
			in.Product = c.FormValue("product")
			if q := c.FormValue("quantity"); q != "" {
				n, err := strconv.Atoi(q)
				if err != nil {
					return invalid("Quantity to add must be a whole number")
				}
				in.Quantity = n
			}
			return nil
		}); err != nil {
			return models.Notice{}, err
		}
		return h.svc.UpdateStock(ctx, in)

	case models.ViewDeleteProduct:
		var in models.DeleteProductInput
		if err := bind(c, &in, func() error {
			in.Product = c.FormValue("product")
			return nil
		}); err != nil {
			return models.Notice{}, err
		}
		return h.svc.DeleteProduct(ctx, in)
	}

	return models.Notice{}, fiber.ErrMethodNotAllowed
}

// bind decodes a JSON body into dst, or runs fromForm for form posts.
// Fields already set on dst act as defaults for JSON.
func bind(c *fiber.Ctx, dst interface{}, fromForm func() error) error {
	if c.Is("json") {
		if err := c.BodyParser(dst); err != nil {
			return invalid("Invalid request body")
		}
		return nil
	}
	return fromForm()
}

func productForm(c *fiber.Ctx, in *models.ProductInput) error {
	in.ProductName = c.FormValue("product_name")
	in.Brand = c.FormValue("brand")
	in.Category = c.FormValue("category")
	in.Supplier = c.FormValue("supplier")

	if v := c.FormValue("price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return invalid("Price must be a number")
		}
		in.Price = price
	}
	if v := c.FormValue("warranty"); v != "" {
		months, err := strconv.Atoi(v)
		if err != nil {
			return invalid("Warranty must be a whole number of months")
		}
		in.Warranty = months
	}
	return nil
}
