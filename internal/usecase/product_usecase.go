package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"omnistock/internal/domain/model"
	repo "omnistock/internal/repository"
)

// ProductUsecase serves the catalog surface. Stock is read-only here;
// quantity mutations go through the StockUsecase exclusively.
type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

type ProductInput struct {
	SKU         string
	Name        string
	Description string
	Price       int64
	Stock       int64
	Channels    []string
	ImageURL    string
}

// List returns the catalog, optionally narrowed to one channel.
func (u *ProductUsecase) List(ctx context.Context, channelFilter string) ([]model.Product, error) {
	products, err := u.productRepo.List(ctx, repo.ProductListQuery{Channel: channelFilter})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

// Get returns one product by SKU.
func (u *ProductUsecase) Get(ctx context.Context, sku string) (model.Product, error) {
	sku = model.NormalizeSKU(sku)
	if sku == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "sku required")
	}

	p, err := u.productRepo.FindBySKU(ctx, sku)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %s not found", sku))
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// Create inserts a new catalog entry with a canonical SKU.
func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	sku := model.NormalizeSKU(in.SKU)
	if sku == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "sku required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	_, err := u.productRepo.FindBySKU(ctx, sku)
	if err == nil {
		return model.Product{}, NewHTTPError(http.StatusConflict, fmt.Sprintf("product %s already exists", sku))
	}
	if err != repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		SKU:         sku,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Channels:    normalizeChannels(in.Channels),
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// Update overwrites the catalog fields of an existing product. Stock is
// deliberately not part of the update.
func (u *ProductUsecase) Update(ctx context.Context, sku string, in ProductInput) (model.Product, error) {
	sku = model.NormalizeSKU(sku)
	if sku == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "sku required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	err := u.productRepo.Update(ctx, model.Product{
		SKU:         sku,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Channels:    normalizeChannels(in.Channels),
		ImageURL:    in.ImageURL,
	})
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %s not found", sku))
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, sku)
}

// Delete removes a product; it drops out of all future sync cycles.
func (u *ProductUsecase) Delete(ctx context.Context, sku string) error {
	sku = model.NormalizeSKU(sku)
	if sku == "" {
		return NewHTTPError(http.StatusBadRequest, "sku required")
	}

	err := u.productRepo.SoftDelete(ctx, sku)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %s not found", sku))
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// normalizeChannels drops empty names and deduplicates, keeping order.
func normalizeChannels(channels []string) []string {
	out := make([]string, 0, len(channels))
	seen := make(map[string]struct{}, len(channels))
	for _, c := range channels {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
