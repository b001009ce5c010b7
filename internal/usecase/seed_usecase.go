package usecase

import (
	"context"
	"net/http"

	"omnistock/internal/channel"
	"omnistock/internal/domain/model"
	repo "omnistock/internal/repository"

	"go.uber.org/zap"
)

// Demo catalog inserted by the seed endpoint. The POS channel has no
// integration on purpose; it exercises the no-integration path during
// sync.
var demoProducts = []model.Product{
	{
		SKU:         "PROD-001",
		Name:        "Wireless Mouse",
		Description: "2.4GHz wireless mouse with USB receiver",
		Price:       12500,
		Stock:       40,
		Channels:    []string{model.ChannelMercadoLibre, model.ChannelTiendaNube},
	},
	{
		SKU:         "PROD-002",
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless mechanical keyboard, brown switches",
		Price:       48000,
		Stock:       15,
		Channels:    []string{model.ChannelMercadoLibre, model.ChannelShopify},
	},
	{
		SKU:         "PROD-003",
		Name:        "USB-C Hub",
		Description: "7-in-1 USB-C hub with HDMI and card reader",
		Price:       18000,
		Stock:       25,
		Channels:    []string{model.ChannelShopify},
	},
	{
		SKU:         "PROD-004",
		Name:        "Notebook Stand",
		Description: "Adjustable aluminium notebook stand",
		Price:       9900,
		Stock:       0,
		Channels:    []string{model.ChannelTiendaNube, "POS"},
	},
	{
		SKU:         "PROD-005",
		Name:        "Webcam 1080p",
		Description: "Full HD webcam with built-in microphone",
		Price:       22000,
		Stock:       8,
		Channels:    []string{model.ChannelMercadoLibre, model.ChannelTiendaNube, model.ChannelShopify},
	},
}

type SeedResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	SKUs    []string `json:"skus"`
	Errors  []string `json:"errors,omitempty"`
}

// SeedUsecase inserts the demo catalog and primes the mock channel
// adapters with matching remote quantities.
type SeedUsecase struct {
	productRepo repo.ProductRepository
	registry    *channel.Registry
	logger      *zap.Logger
}

// DI
func NewSeedUsecase(productRepo repo.ProductRepository, registry *channel.Registry, logger *zap.Logger) *SeedUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedUsecase{productRepo: productRepo, registry: registry, logger: logger}
}

// Seed inserts any demo products missing from the catalog. Existing SKUs
// are skipped, never overwritten.
func (u *SeedUsecase) Seed(ctx context.Context) (SeedResult, error) {
	result := SeedResult{SKUs: []string{}}

	for _, demo := range demoProducts {
		_, err := u.productRepo.FindBySKU(ctx, demo.SKU)
		if err == nil {
			result.Skipped++
			continue
		}
		if err != repo.ErrNotFound {
			return SeedResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created, err := u.productRepo.Create(ctx, demo)
		if err != nil {
			result.Errors = append(result.Errors, demo.SKU+": "+err.Error())
			continue
		}

		u.primeRemotes(created)
		result.Created++
		result.SKUs = append(result.SKUs, created.SKU)
	}

	u.logger.Info("seed finished",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// primeRemotes makes the mock channels agree with the seeded quantity so
// a fresh environment starts in sync.
func (u *SeedUsecase) primeRemotes(p model.Product) {
	for _, name := range p.Channels {
		adapter, err := u.registry.Lookup(name)
		if err != nil {
			continue
		}
		if primer, ok := adapter.(channel.RemotePrimer); ok {
			primer.SetRemoteQuantity(p.SKU, p.Stock)
		}
	}
}
