package repository

import (
	"context"
	"time"

	"omnistock/internal/domain/model"
	repo "omnistock/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// SetStock overwrites the quantity and advances last_synced_at.
func (r *InventoryGormRepository) SetStock(ctx context.Context, sku string, newStock int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("sku = ?", model.NormalizeSKU(sku)).
		Updates(map[string]interface{}{
			"stock":          newStock,
			"last_synced_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// DecreaseStockIfEnough subtracts only when the stored quantity covers qty.
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, sku string, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("sku = ? AND stock >= ?", model.NormalizeSKU(sku), qty).
		Updates(map[string]interface{}{
			"stock":          gorm.Expr("stock - ?", qty),
			"last_synced_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// IncreaseStock adds qty unconditionally.
func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, sku string, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("sku = ?", model.NormalizeSKU(sku)).
		Updates(map[string]interface{}{
			"stock":          gorm.Expr("stock + ?", qty),
			"last_synced_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// TouchLastSynced advances last_synced_at only. The sync attempt itself,
// not full success, moves the timestamp.
func (r *InventoryGormRepository) TouchLastSynced(ctx context.Context, sku string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("sku = ?", model.NormalizeSKU(sku)).
		Update("last_synced_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// CreateAdjustment appends a stock movement row.
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(&adj).Error
}

// Statistics aggregates stock figures over the live catalog.
func (r *InventoryGormRepository) Statistics(ctx context.Context, lowStockThreshold int64) (repo.StockStatistics, error) {
	var stats repo.StockStatistics

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Product{})
	}

	if err := base().Count(&stats.TotalProducts).Error; err != nil {
		return repo.StockStatistics{}, err
	}
	if err := base().Where("stock > 0").Count(&stats.ProductsWithStock).Error; err != nil {
		return repo.StockStatistics{}, err
	}
	if err := base().Where("stock = 0").Count(&stats.ProductsOutOfStock).Error; err != nil {
		return repo.StockStatistics{}, err
	}
	if err := base().Where("stock > 0 AND stock <= ?", lowStockThreshold).
		Count(&stats.LowStockProducts).Error; err != nil {
		return repo.StockStatistics{}, err
	}

	if stats.TotalProducts == 0 {
		return stats, nil
	}

	row := struct {
		TotalStock   int64
		AverageStock float64
		MaxStock     int64
		MinStock     int64
	}{}
	err := base().
		Select("COALESCE(SUM(stock),0) AS total_stock, COALESCE(AVG(stock),0) AS average_stock, COALESCE(MAX(stock),0) AS max_stock, COALESCE(MIN(stock),0) AS min_stock").
		Scan(&row).Error
	if err != nil {
		return repo.StockStatistics{}, err
	}

	stats.TotalStock = row.TotalStock
	stats.AverageStock = row.AverageStock
	stats.MaxStock = row.MaxStock
	stats.MinStock = row.MinStock
	return stats, nil
}
