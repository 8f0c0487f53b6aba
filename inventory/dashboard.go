package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stockroom/models"
	"stockroom/store"
)

const DefaultLowStockThreshold = 5

// BuildDashboard joins products with their category name and quantity.
// A missing category yields a nil Category, a missing stock row a zero
// quantity.
func BuildDashboard(products []models.Product, categories []models.Category, stock []models.Stock) []models.DashboardRow {
	catName := make(map[int64]string, len(categories))
	for _, c := range categories {
		catName[c.CategoryID] = c.CategoryName
	}
	qty := make(map[int64]int, len(stock))
	for _, s := range stock {
		qty[s.ProductID] = s.Quantity
	}

	rows := make([]models.DashboardRow, 0, len(products))
	for _, p := range products {
		row := models.DashboardRow{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Brand:       p.Brand,
			Quantity:    qty[p.ProductID],
		}
		if p.CategoryID != nil {
			if name, ok := catName[*p.CategoryID]; ok {
				row.Category = &name
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// LowStock keeps the rows at or below threshold.
func LowStock(rows []models.DashboardRow, threshold int) []models.DashboardRow {
	var low []models.DashboardRow
	for _, r := range rows {
		if r.Quantity <= threshold {
			low = append(low, r)
		}
	}
	return low
}

// OrphanStock returns stock rows whose product no longer exists.
func OrphanStock(products []models.Product, stock []models.Stock) []models.Stock {
	known := make(map[int64]struct{}, len(products))
	for _, p := range products {
		known[p.ProductID] = struct{}{}
	}
	var orphans []models.Stock
	for _, s := range stock {
		if _, ok := known[s.ProductID]; !ok {
			orphans = append(orphans, s)
		}
	}
	return orphans
}

func (s *Service) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	stock, err := s.store.StockLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	rows := BuildDashboard(products, categories, stock)
	return &models.Dashboard{
		Rows:        rows,
		LowStock:    LowStock(rows, s.threshold),
		OrphanStock: OrphanStock(products, stock),
		Threshold:   s.threshold,
	}, nil
}

// PurgeOrphanStock deletes stock rows left behind by deleted products.
func (s *Service) PurgeOrphanStock(ctx context.Context) (models.Notice, error) {
	var removed int
	err := s.store.Atomic(ctx, func(tx store.Store) error {
		products, err := tx.Products(ctx)
		if err != nil {
			return err
		}
		stock, err := tx.StockLevels(ctx)
		if err != nil {
			return err
		}
		for _, o := range OrphanStock(products, stock) {
			if err := tx.DeleteStock(ctx, o.ProductID); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return models.Notice{}, fmt.Errorf("purge orphan stock: %w", err)
	}

	if removed == 0 {
		return info("No orphaned stock rows."), nil
	}
	s.log.Info("orphan stock purged", zap.Int("rows", removed))
	return success(fmt.Sprintf("Removed %d orphaned stock row(s).", removed)), nil
}
