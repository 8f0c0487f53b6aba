package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"stockroom/models"
)

// APIError is a non-2xx answer from the REST endpoint.
type APIError struct {
	Method string
	Table  string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Table, e.Status, e.Body)
}

// Rest is a Store speaking the PostgREST dialect served by Supabase at
// {project}/rest/v1. PostgREST has no client-side transactions, so Atomic
// undoes completed inserts with compensating deletes and re-inserts deleted
// stock rows. Quantity updates and product deletes are not compensated.
type Rest struct {
	base    string
	key     string
	client  *fasthttp.Client
	timeout time.Duration

	undo *[]func(context.Context) error
}

func NewRest(projectURL, key string, timeout time.Duration) *Rest {
	return &Rest{
		base:    strings.TrimRight(projectURL, "/") + "/rest/v1",
		key:     key,
		client:  &fasthttp.Client{Name: "stockroom"},
		timeout: timeout,
	}
}

func (r *Rest) do(ctx context.Context, method, table string, query url.Values, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	uri := r.base + "/" + table
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", table, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(b)
	}
	if method == fasthttp.MethodPost && out != nil {
		req.Header.Set("Prefer", "return=representation")
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return context.DeadlineExceeded
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	var err error
	if timeout > 0 {
		err = r.client.DoTimeout(req, resp, timeout)
	} else {
		err = r.client.Do(req, resp)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	if status := resp.StatusCode(); status >= 300 {
		return &APIError{Method: method, Table: table, Status: status, Body: string(resp.Body())}
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode %s: %w", table, err)
		}
	}
	return nil
}

func selectAll(order string) url.Values {
	return url.Values{"select": {"*"}, "order": {order + ".asc"}}
}

func eq(column string, id int64) url.Values {
	return url.Values{column: {"eq." + strconv.FormatInt(id, 10)}}
}

func (r *Rest) compensate(fn func(context.Context) error) {
	if r.undo != nil {
		*r.undo = append(*r.undo, fn)
	}
}

func (r *Rest) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.do(ctx, fasthttp.MethodGet, "category", selectAll("category_id"), nil, &out)
	return out, err
}

func (r *Rest) InsertCategory(ctx context.Context, c models.Category) (models.Category, error) {
	var out []models.Category
	if err := r.do(ctx, fasthttp.MethodPost, "category", nil, c, &out); err != nil {
		return c, err
	}
	if len(out) == 0 {
		return c, fmt.Errorf("insert category: empty representation")
	}
	id := out[0].CategoryID
	r.compensate(func(ctx context.Context) error {
		return r.do(ctx, fasthttp.MethodDelete, "category", eq("category_id", id), nil, nil)
	})
	return out[0], nil
}

func (r *Rest) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	var out []models.Supplier
	err := r.do(ctx, fasthttp.MethodGet, "supplier", selectAll("supplier_id"), nil, &out)
	return out, err
}

func (r *Rest) InsertSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	var out []models.Supplier
	if err := r.do(ctx, fasthttp.MethodPost, "supplier", nil, s, &out); err != nil {
		return s, err
	}
	if len(out) == 0 {
		return s, fmt.Errorf("insert supplier: empty representation")
	}
	id := out[0].SupplierID
	r.compensate(func(ctx context.Context) error {
		return r.do(ctx, fasthttp.MethodDelete, "supplier", eq("supplier_id", id), nil, nil)
	})
	return out[0], nil
}

func (r *Rest) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := r.do(ctx, fasthttp.MethodGet, "product", selectAll("product_id"), nil, &out)
	return out, err
}

func (r *Rest) InsertProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var out []models.Product
	if err := r.do(ctx, fasthttp.MethodPost, "product", nil, p, &out); err != nil {
		return p, err
	}
	if len(out) == 0 {
		return p, fmt.Errorf("insert product: empty representation")
	}
	id := out[0].ProductID
	r.compensate(func(ctx context.Context) error {
		return r.DeleteProduct(ctx, id)
	})
	return out[0], nil
}

func (r *Rest) DeleteProduct(ctx context.Context, productID int64) error {
	return r.do(ctx, fasthttp.MethodDelete, "product", eq("product_id", productID), nil, nil)
}

func (r *Rest) StockLevels(ctx context.Context) ([]models.Stock, error) {
	var out []models.Stock
	err := r.do(ctx, fasthttp.MethodGet, "stock", selectAll("product_id"), nil, &out)
	return out, err
}

func (r *Rest) StockFor(ctx context.Context, productID int64) (models.Stock, bool, error) {
	q := eq("product_id", productID)
	q.Set("select", "product_id,quantity")

	var out []models.Stock
	if err := r.do(ctx, fasthttp.MethodGet, "stock", q, nil, &out); err != nil {
		return models.Stock{}, false, err
	}
	if len(out) == 0 {
		return models.Stock{}, false, nil
	}
	return out[0], true, nil
}

func (r *Rest) InsertStock(ctx context.Context, s models.Stock) error {
	if err := r.do(ctx, fasthttp.MethodPost, "stock", nil, s, nil); err != nil {
		return err
	}
	r.compensate(func(ctx context.Context) error {
		return r.deleteStock(ctx, s.ProductID)
	})
	return nil
}

func (r *Rest) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return r.do(ctx, fasthttp.MethodPatch, "stock", eq("product_id", productID), body, nil)
}

// DeleteStock removes the product's stock row. Inside Atomic the row is
// read first so a later failure can put it back.
func (r *Rest) DeleteStock(ctx context.Context, productID int64) error {
	if r.undo == nil {
		return r.deleteStock(ctx, productID)
	}

	prev, found, err := r.StockFor(ctx, productID)
	if err != nil {
		return err
	}
	if err := r.deleteStock(ctx, productID); err != nil {
		return err
	}
	if found {
		r.compensate(func(ctx context.Context) error {
			return r.do(ctx, fasthttp.MethodPost, "stock", nil, prev, nil)
		})
	}
	return nil
}

func (r *Rest) deleteStock(ctx context.Context, productID int64) error {
	return r.do(ctx, fasthttp.MethodDelete, "stock", eq("product_id", productID), nil, nil)
}

func (r *Rest) Atomic(ctx context.Context, fn func(Store) error) error {
	if r.undo != nil {
		return fn(r)
	}

	var undo []func(context.Context) error
	tx := &Rest{base: r.base, key: r.key, client: r.client, timeout: r.timeout, undo: &undo}
	err := fn(tx)
	if err == nil {
		return nil
	}

	cctx := context.WithoutCancel(ctx)
	for i := len(undo) - 1; i >= 0; i-- {
		if uerr := undo[i](cctx); uerr != nil {
			return fmt.Errorf("%w (compensation failed: %v)", err, uerr)
		}
	}
	return err
}

func (r *Rest) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
