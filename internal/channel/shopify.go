package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"omnistock/internal/domain/model"

	"github.com/google/uuid"
)

type shopifyVariant struct {
	ProductGID string
	Quantity   int64
}

// ShopifyAdapter is a mock-backed storefront integration modeled after the
// inventory_levels/set endpoint: writes are accepted for any known or new
// variant.
type ShopifyAdapter struct {
	mu          sync.RWMutex
	variants    map[string]shopifyVariant
	latency     time.Duration
	unavailable bool
}

func NewShopifyAdapter(latency time.Duration) *ShopifyAdapter {
	return &ShopifyAdapter{
		variants: make(map[string]shopifyVariant),
		latency:  latency,
	}
}

func (a *ShopifyAdapter) Name() string { return model.ChannelShopify }

func (a *ShopifyAdapter) PushQuantity(ctx context.Context, sku string, quantity int64) (Ack, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return Ack{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unavailable {
		return Ack{}, fmt.Errorf("%w: Shopify API not reachable", ErrChannelUnavailable)
	}

	sku = model.NormalizeSKU(sku)
	v, ok := a.variants[sku]
	if !ok {
		v = shopifyVariant{ProductGID: shopifyGID()}
	}
	v.Quantity = quantity
	a.variants[sku] = v

	return Ack{
		Message:        fmt.Sprintf("stock updated on Shopify: %d units", quantity),
		PushedQuantity: quantity,
	}, nil
}

func (a *ShopifyAdapter) FetchQuantity(ctx context.Context, sku string) (int64, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return 0, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.unavailable {
		return 0, fmt.Errorf("%w: Shopify API not reachable", ErrChannelUnavailable)
	}

	v, ok := a.variants[model.NormalizeSKU(sku)]
	if !ok {
		return 0, fmt.Errorf("%w: no Shopify variant for SKU %s", ErrChannelRejected, model.NormalizeSKU(sku))
	}
	return v.Quantity, nil
}

func (a *ShopifyAdapter) CreateListing(ctx context.Context, p model.Product) (string, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unavailable {
		return "", fmt.Errorf("%w: Shopify API not reachable", ErrChannelUnavailable)
	}

	gid := shopifyGID()
	a.variants[model.NormalizeSKU(p.SKU)] = shopifyVariant{ProductGID: gid, Quantity: p.Stock}
	return gid, nil
}

// SetUnavailable toggles the simulated outage.
func (a *ShopifyAdapter) SetUnavailable(down bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unavailable = down
}

// SetRemoteQuantity primes the mock remote state. Used by seeding and tests.
func (a *ShopifyAdapter) SetRemoteQuantity(sku string, quantity int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sku = model.NormalizeSKU(sku)
	v, ok := a.variants[sku]
	if !ok {
		v = shopifyVariant{ProductGID: shopifyGID()}
	}
	v.Quantity = quantity
	a.variants[sku] = v
}

func shopifyGID() string {
	return "gid://shopify/Product/" + uuid.NewString()
}
