package channel

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"omnistock/internal/domain/model"
)

type nubeProduct struct {
	ProductID int64
	Quantity  int64
}

// TiendaNubeAdapter is a mock-backed storefront integration. The storefront
// accepts stock writes for any SKU and creates the variant on first push.
type TiendaNubeAdapter struct {
	mu          sync.RWMutex
	products    map[string]nubeProduct
	nextID      int64
	latency     time.Duration
	unavailable bool
}

func NewTiendaNubeAdapter(latency time.Duration) *TiendaNubeAdapter {
	return &TiendaNubeAdapter{
		products: make(map[string]nubeProduct),
		nextID:   1000,
		latency:  latency,
	}
}

func (a *TiendaNubeAdapter) Name() string { return model.ChannelTiendaNube }

func (a *TiendaNubeAdapter) PushQuantity(ctx context.Context, sku string, quantity int64) (Ack, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return Ack{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unavailable {
		return Ack{}, fmt.Errorf("%w: TiendaNube API not reachable", ErrChannelUnavailable)
	}

	sku = model.NormalizeSKU(sku)
	p, ok := a.products[sku]
	if !ok {
		p = nubeProduct{ProductID: a.nextID}
		a.nextID++
	}
	p.Quantity = quantity
	a.products[sku] = p

	return Ack{
		Message:        fmt.Sprintf("stock updated on TiendaNube: %d units", quantity),
		PushedQuantity: quantity,
	}, nil
}

func (a *TiendaNubeAdapter) FetchQuantity(ctx context.Context, sku string) (int64, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return 0, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.unavailable {
		return 0, fmt.Errorf("%w: TiendaNube API not reachable", ErrChannelUnavailable)
	}

	p, ok := a.products[model.NormalizeSKU(sku)]
	if !ok {
		return 0, fmt.Errorf("%w: SKU %s not published on TiendaNube", ErrChannelRejected, model.NormalizeSKU(sku))
	}
	return p.Quantity, nil
}

func (a *TiendaNubeAdapter) CreateListing(ctx context.Context, p model.Product) (string, error) {
	if err := simulateCall(ctx, a.latency); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unavailable {
		return "", fmt.Errorf("%w: TiendaNube API not reachable", ErrChannelUnavailable)
	}

	id := a.nextID
	a.nextID++
	a.products[model.NormalizeSKU(p.SKU)] = nubeProduct{ProductID: id, Quantity: p.Stock}
	return strconv.FormatInt(id, 10), nil
}

// SetUnavailable toggles the simulated outage.
func (a *TiendaNubeAdapter) SetUnavailable(down bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unavailable = down
}

// SetRemoteQuantity primes the mock remote state. Used by seeding and tests.
func (a *TiendaNubeAdapter) SetRemoteQuantity(sku string, quantity int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sku = model.NormalizeSKU(sku)
	p, ok := a.products[sku]
	if !ok {
		p = nubeProduct{ProductID: a.nextID}
		a.nextID++
	}
	p.Quantity = quantity
	a.products[sku] = p
}
