package repository

import (
	"context"
	"errors"

	"omnistock/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// Catalog listing filter. Zero value means the whole catalog.
type ProductListQuery struct {
	// Only products listed on this channel.
	Channel string

	// Only products with stock at or below this threshold.
	MaxStock *int64
}

// Catalog persistence. All lookups are by canonical (uppercased) SKU.
type ProductRepository interface {
	FindBySKU(ctx context.Context, sku string) (model.Product, error)
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, sku string) error
}
