package repository

import (
	"context"

	"omnistock/internal/domain/model"
)

// Aggregate view over the whole catalog's stock.
type StockStatistics struct {
	TotalProducts      int64   `json:"total_products"`
	ProductsWithStock  int64   `json:"products_with_stock"`
	ProductsOutOfStock int64   `json:"products_out_of_stock"`
	LowStockProducts   int64   `json:"low_stock_products"`
	TotalStock         int64   `json:"total_stock"`
	AverageStock       float64 `json:"average_stock"`
	MaxStock           int64   `json:"max_stock"`
	MinStock           int64   `json:"min_stock"`
}

// Stock persistence. Every write also advances last_synced_at; the
// per-SKU serialization of check-then-act sequences lives in the usecase.
type InventoryRepository interface {
	// SetStock overwrites the current quantity and advances last_synced_at.
	SetStock(ctx context.Context, sku string, newStock int64) error

	// DecreaseStockIfEnough subtracts qty only when the stored quantity
	// covers it, in a single conditional update. Returns false when the
	// quantity is insufficient.
	DecreaseStockIfEnough(ctx context.Context, sku string, qty int64) (bool, error)

	// IncreaseStock adds qty unconditionally and advances last_synced_at.
	IncreaseStock(ctx context.Context, sku string, qty int64) error

	// TouchLastSynced advances last_synced_at without changing stock.
	TouchLastSynced(ctx context.Context, sku string) error

	// CreateAdjustment appends one row of stock movement history.
	CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error

	// Statistics aggregates stock figures across the catalog.
	Statistics(ctx context.Context, lowStockThreshold int64) (StockStatistics, error)
}
