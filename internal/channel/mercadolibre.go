package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"omnistock/internal/domain/model"

	"github.com/google/uuid"
)

type meliListing struct {
	ItemID   string
	Quantity int64
}

// MercadoLibreAdapter is a mock-backed marketplace integration. The real
// API requires an existing item per SKU, so pushes to unlisted SKUs are
// rejected rather than upserted.
type MercadoLibreAdapter struct {
	mu          sync.RWMutex
	listings    map[string]meliListing
	latency     time.Duration
	unavailable bool
}

func NewMercadoLibreAdapter(latency time.Duration) *MercadoLibreAdapter {
	return &MercadoLibreAdapter{
		listings: make(map[string]meliListing),
		latency:  latency,
	}
}

func (a *MercadoLibreAdapter) Name() string { return model.ChannelMercadoLibre }

func (a *MercadoLibreAdapter) PushQuantity(ctx context.Context, sku string, quantity int64) (Ack, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return Ack{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unavailable {
		return Ack{}, fmt.Errorf("%w: MercadoLibre API not reachable", ErrChannelUnavailable)
	}

	sku = model.NormalizeSKU(sku)
	l, ok := a.listings[sku]
	if !ok {
		return Ack{}, fmt.Errorf("%w: no MercadoLibre item for SKU %s", ErrChannelRejected, sku)
	}
	l.Quantity = quantity
	a.listings[sku] = l

	return Ack{
		Message:        fmt.Sprintf("stock updated on MercadoLibre: %d units", quantity),
		PushedQuantity: quantity,
	}, nil
}

func (a *MercadoLibreAdapter) FetchQuantity(ctx context.Context, sku string) (int64, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return 0, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.unavailable {
		return 0, fmt.Errorf("%w: MercadoLibre API not reachable", ErrChannelUnavailable)
	}

	l, ok := a.listings[model.NormalizeSKU(sku)]
	if !ok {
		return 0, fmt.Errorf("%w: no MercadoLibre item for SKU %s", ErrChannelRejected, model.NormalizeSKU(sku))
	}
	return l.Quantity, nil
}

func (a *MercadoLibreAdapter) CreateListing(ctx context.Context, p model.Product) (string, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unavailable {
		return "", fmt.Errorf("%w: MercadoLibre API not reachable", ErrChannelUnavailable)
	}

	itemID := "MLA" + uuid.NewString()
	a.listings[model.NormalizeSKU(p.SKU)] = meliListing{ItemID: itemID, Quantity: p.Stock}
	return itemID, nil
}

// SetUnavailable toggles the simulated outage.
func (a *MercadoLibreAdapter) SetUnavailable(down bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unavailable = down
}

// SetRemoteQuantity primes the mock remote state without going through
// PushQuantity. Used by seeding and tests.
func (a *MercadoLibreAdapter) SetRemoteQuantity(sku string, quantity int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sku = model.NormalizeSKU(sku)
	l, ok := a.listings[sku]
	if !ok {
		l = meliListing{ItemID: "MLA" + uuid.NewString()}
	}
	l.Quantity = quantity
	a.listings[sku] = l
}
