package usecase

import (
	"context"
	"fmt"

	"omnistock/internal/domain/model"
	repo "omnistock/internal/repository"

	"go.uber.org/zap"
)

// DefaultLowStockThreshold is the cutoff used when the caller supplies none.
const DefaultLowStockThreshold = 10

// StockChange describes one applied ledger mutation.
type StockChange struct {
	SKU           string `json:"sku"`
	PreviousStock int64  `json:"previous_stock"`
	CurrentStock  int64  `json:"current_stock"`
	Delta         int64  `json:"delta"`
}

// StockUsecase is the stock ledger: it owns the canonical per-SKU quantity
// and is the only path through which it mutates. Every mutation holds the
// SKU's lock across the whole read-check-write sequence and advances
// last_synced_at.
type StockUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	locks         *skuLocks
	logger        *zap.Logger
}

// DI
func NewStockUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	logger *zap.Logger,
) *StockUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		locks:         newSKULocks(),
		logger:        logger,
	}
}

// Read returns the product with its quantity, channel list and
// last_synced_at.
func (u *StockUsecase) Read(ctx context.Context, sku string) (model.Product, error) {
	return u.productRepo.FindBySKU(ctx, model.NormalizeSKU(sku))
}

// Set overwrites the quantity unconditionally. Used when a channel is
// treated as the source of truth.
func (u *StockUsecase) Set(ctx context.Context, sku string, newStock int64, source string) (StockChange, error) {
	if newStock < 0 {
		return StockChange{}, fmt.Errorf("%w: stock must be >= 0", ErrInvalidQuantity)
	}

	sku = model.NormalizeSKU(sku)
	lock := u.locks.of(sku)
	lock.Lock()
	defer lock.Unlock()

	p, err := u.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return StockChange{}, err
	}

	if err := u.inventoryRepo.SetStock(ctx, sku, newStock); err != nil {
		return StockChange{}, err
	}
	if newStock != p.Stock {
		u.recordAdjustment(ctx, p.ID, newStock-p.Stock, "stock set", source)
	}

	u.logger.Info("stock set",
		zap.String("sku", sku),
		zap.Int64("previous", p.Stock),
		zap.Int64("current", newStock),
		zap.String("source", source),
	)

	return StockChange{
		SKU:           sku,
		PreviousStock: p.Stock,
		CurrentStock:  newStock,
		Delta:         newStock - p.Stock,
	}, nil
}

// Decrease subtracts qty, rejecting any amount exceeding the available
// quantity. A zero qty is a no-op that still advances last_synced_at.
func (u *StockUsecase) Decrease(ctx context.Context, sku string, qty int64, source string) (StockChange, error) {
	if qty < 0 {
		return StockChange{}, fmt.Errorf("%w: amount must be >= 0", ErrInvalidQuantity)
	}

	sku = model.NormalizeSKU(sku)
	lock := u.locks.of(sku)
	lock.Lock()
	defer lock.Unlock()

	p, err := u.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return StockChange{}, err
	}
	if qty > p.Stock {
		return StockChange{}, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, p.Stock, qty)
	}

	// Conditional update backs the in-memory lock: a writer outside this
	// process cannot drive the quantity negative either.
	ok, err := u.inventoryRepo.DecreaseStockIfEnough(ctx, sku, qty)
	if err != nil {
		return StockChange{}, err
	}
	if !ok {
		return StockChange{}, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, p.Stock, qty)
	}
	if qty > 0 {
		u.recordAdjustment(ctx, p.ID, -qty, "stock decrease", source)
	}

	u.logger.Info("stock decreased",
		zap.String("sku", sku),
		zap.Int64("quantity", qty),
		zap.Int64("remaining", p.Stock-qty),
		zap.String("source", source),
	)

	return StockChange{
		SKU:           sku,
		PreviousStock: p.Stock,
		CurrentStock:  p.Stock - qty,
		Delta:         -qty,
	}, nil
}

// Increase adds qty unconditionally. The amount must be positive.
func (u *StockUsecase) Increase(ctx context.Context, sku string, qty int64, source string) (StockChange, error) {
	if qty <= 0 {
		return StockChange{}, fmt.Errorf("%w: amount must be > 0", ErrInvalidQuantity)
	}

	sku = model.NormalizeSKU(sku)
	lock := u.locks.of(sku)
	lock.Lock()
	defer lock.Unlock()

	p, err := u.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return StockChange{}, err
	}

	if err := u.inventoryRepo.IncreaseStock(ctx, sku, qty); err != nil {
		return StockChange{}, err
	}
	u.recordAdjustment(ctx, p.ID, qty, "stock increase", source)

	u.logger.Info("stock increased",
		zap.String("sku", sku),
		zap.Int64("quantity", qty),
		zap.Int64("total", p.Stock+qty),
		zap.String("source", source),
	)

	return StockChange{
		SKU:           sku,
		PreviousStock: p.Stock,
		CurrentStock:  p.Stock + qty,
		Delta:         qty,
	}, nil
}

// Touch advances last_synced_at without changing the quantity.
func (u *StockUsecase) Touch(ctx context.Context, sku string) error {
	sku = model.NormalizeSKU(sku)
	lock := u.locks.of(sku)
	lock.Lock()
	defer lock.Unlock()
	return u.inventoryRepo.TouchLastSynced(ctx, sku)
}

// LowStock lists products whose quantity is at or below the threshold.
func (u *StockUsecase) LowStock(ctx context.Context, threshold int64) ([]model.Product, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must be >= 0", ErrInvalidQuantity)
	}
	return u.productRepo.List(ctx, repo.ProductListQuery{MaxStock: &threshold})
}

// Statistics aggregates stock figures across the catalog.
func (u *StockUsecase) Statistics(ctx context.Context) (repo.StockStatistics, error) {
	return u.inventoryRepo.Statistics(ctx, DefaultLowStockThreshold)
}

// Movement history is best effort; a failed history row never rolls back
// the applied mutation.
func (u *StockUsecase) recordAdjustment(ctx context.Context, productID int64, delta int64, reason, source string) {
	adj := model.InventoryAdjustment{
		ProductID: productID,
		Delta:     delta,
		Reason:    reason,
		Source:    source,
	}
	if err := u.inventoryRepo.CreateAdjustment(ctx, adj); err != nil {
		u.logger.Warn("failed to record stock adjustment",
			zap.Int64("product_id", productID),
			zap.Int64("delta", delta),
			zap.Error(err),
		)
	}
}
