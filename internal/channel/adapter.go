package channel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"omnistock/internal/domain/model"
)

var (
	// ErrChannelUnavailable means the remote side could not be reached.
	ErrChannelUnavailable = errors.New("channel unavailable")

	// ErrChannelRejected means the remote side refused the operation,
	// e.g. the SKU has no listing on that channel.
	ErrChannelRejected = errors.New("channel rejected")

	// ErrChannelTimeout means the call was abandoned before the remote
	// side answered.
	ErrChannelTimeout = errors.New("channel timeout")

	// ErrNoIntegration means the channel name has no registered adapter.
	ErrNoIntegration = errors.New("no integration")
)

// Ack reports a successful quantity push.
type Ack struct {
	Message        string `json:"message"`
	PushedQuantity int64  `json:"pushed_quantity"`
}

// Adapter translates canonical stock operations into one channel's native
// API calls. Adapters hold no business logic; reconciliation policy lives
// in the sync usecase.
type Adapter interface {
	// Name returns the channel name the adapter serves.
	Name() string

	// PushQuantity writes the local quantity to the remote system.
	PushQuantity(ctx context.Context, sku string, quantity int64) (Ack, error)

	// FetchQuantity reads the remote system's current quantity.
	FetchQuantity(ctx context.Context, sku string) (int64, error)

	// CreateListing registers the product on the channel and returns the
	// remote identifier. Best effort, errors surfaced as-is.
	CreateListing(ctx context.Context, p model.Product) (string, error)
}

// RemotePrimer is implemented by adapters whose remote state can be
// primed directly, bypassing PushQuantity. Seeding and tests use it.
type RemotePrimer interface {
	SetRemoteQuantity(sku string, quantity int64)
}

// Registry maps channel names to adapters. Built once at process start and
// passed into the sync usecase explicitly.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Name()] = a
	}
	return &Registry{adapters: m}
}

// Lookup returns the adapter for a channel name, or ErrNoIntegration.
func (r *Registry) Lookup(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoIntegration, name)
	}
	return a, nil
}

// Names returns the registered channel names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// simulateCall stands in for the network round trip of the mock adapters.
// A canceled or expired context becomes a channel timeout.
func simulateCall(ctx context.Context, latency time.Duration) error {
	if latency <= 0 {
		if ctx.Err() != nil {
			return ErrChannelTimeout
		}
		return nil
	}
	select {
	case <-time.After(latency):
		return nil
	case <-ctx.Done():
		return ErrChannelTimeout
	}
}
