package repository

import (
	"context"
	"encoding/json"
	"errors"

	"omnistock/internal/domain/model"
	repo "omnistock/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// FindBySKU looks a product up by its canonical SKU.
func (r *ProductGormRepository) FindBySKU(ctx context.Context, sku string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ?", model.NormalizeSKU(sku)).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// List returns products matching the filter, whole catalog when empty.
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if q.Channel != "" {
		// jsonb containment: channels @> ["<name>"]
		filter, err := json.Marshal([]string{q.Channel})
		if err != nil {
			return nil, err
		}
		tx = tx.Where("channels @> ?", string(filter))
	}
	if q.MaxStock != nil {
		tx = tx.Where("stock <= ?", *q.MaxStock).Order("stock asc")
	} else {
		tx = tx.Order("sku asc")
	}

	var products []model.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new product.
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p.SKU = model.NormalizeSKU(p.SKU)
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// Update overwrites the catalog fields of an existing product.
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	// Map updates bypass the field serializer, so the channel list is
	// marshaled by hand.
	channels, err := json.Marshal(p.Channels)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("sku = ?", model.NormalizeSKU(p.SKU)).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"channels":    string(channels),
			"image_url":   p.ImageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// SoftDelete removes a product from the catalog; it drops out of all
// future sync cycles.
func (r *ProductGormRepository) SoftDelete(ctx context.Context, sku string) error {
	res := r.db.WithContext(ctx).
		Where("sku = ?", model.NormalizeSKU(sku)).
		Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
