package usecase

import (
	"context"
	"fmt"

	"omnistock/internal/channel"
	repo "omnistock/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Recommended reconciliation actions reported by CompareStock.
const (
	ActionInSync     = "in sync"
	ActionPushLocal  = "push local to remote"
	ActionPullRemote = "pull remote into local"
)

// ChannelSyncResult is the outcome of one channel push during a product
// sync.
type ChannelSyncResult struct {
	Channel        string `json:"channel"`
	PushedQuantity int64  `json:"pushed_quantity,omitempty"`
	OK             bool   `json:"ok"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
}

// SyncProductResult aggregates the per-channel outcomes of one product
// sync. Produced fresh on every call, never cached.
type SyncProductResult struct {
	SKU        string              `json:"sku"`
	Name       string              `json:"name,omitempty"`
	LocalStock int64               `json:"local_stock"`
	Channels   []ChannelSyncResult `json:"channels"`
	Success    bool                `json:"success"`
	Error      string              `json:"error,omitempty"`
}

// SyncAllResult aggregates a bulk sync run.
type SyncAllResult struct {
	Total     int                 `json:"total"`
	Successes int                 `json:"successes"`
	Failures  int                 `json:"failures"`
	Results   []SyncProductResult `json:"results"`
	Success   bool                `json:"success"`
}

// StockComparison reports local vs. remote quantity for one channel. It
// only recommends an action; it never mutates either side.
type StockComparison struct {
	SKU         string `json:"sku"`
	Channel     string `json:"channel"`
	LocalStock  int64  `json:"local_stock"`
	RemoteStock int64  `json:"remote_stock"`
	Difference  int64  `json:"difference"`
	NeedsSync   bool   `json:"needs_sync"`
	Action      string `json:"action"`
}

// ListingResult is the outcome of one best-effort channel listing creation.
type ListingResult struct {
	Channel  string `json:"channel"`
	RemoteID string `json:"remote_id,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// SyncUsecase coordinates per-SKU and catalog-wide synchronization between
// the stock ledger and the channel adapters. All reconciliation policy
// lives here; adapters stay pure boundary translators.
type SyncUsecase struct {
	productRepo repo.ProductRepository
	stock       *StockUsecase
	registry    *channel.Registry
	logger      *zap.Logger

	// Upper bound for concurrent per-product syncs during SyncAll.
	// Channel pushes within one product stay sequential on purpose.
	concurrency int
}

// DI
func NewSyncUsecase(
	productRepo repo.ProductRepository,
	stock *StockUsecase,
	registry *channel.Registry,
	concurrency int,
	logger *zap.Logger,
) *SyncUsecase {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncUsecase{
		productRepo: productRepo,
		stock:       stock,
		registry:    registry,
		logger:      logger,
		concurrency: concurrency,
	}
}

// SyncProduct pushes the local quantity of one SKU to every channel the
// product is listed on. One failing channel never aborts the others, and
// the sync timestamp advances even when some pushes fail.
func (u *SyncUsecase) SyncProduct(ctx context.Context, sku string) (SyncProductResult, error) {
	p, err := u.stock.Read(ctx, sku)
	if err != nil {
		return SyncProductResult{}, err
	}

	result := SyncProductResult{
		SKU:        p.SKU,
		Name:       p.Name,
		LocalStock: p.Stock,
		Channels:   make([]ChannelSyncResult, 0, len(p.Channels)),
	}

	// Channels are processed one at a time, in listing order.
	for _, name := range p.Channels {
		adapter, err := u.registry.Lookup(name)
		if err != nil {
			result.Channels = append(result.Channels, ChannelSyncResult{
				Channel: name,
				OK:      false,
				Error:   fmt.Sprintf("no integration for %s", name),
			})
			continue
		}

		ack, err := adapter.PushQuantity(ctx, p.SKU, p.Stock)
		if err != nil {
			u.logger.Warn("channel push failed",
				zap.String("sku", p.SKU),
				zap.String("channel", name),
				zap.Error(err),
			)
			result.Channels = append(result.Channels, ChannelSyncResult{
				Channel: name,
				OK:      false,
				Error:   err.Error(),
			})
			continue
		}

		result.Channels = append(result.Channels, ChannelSyncResult{
			Channel:        name,
			PushedQuantity: ack.PushedQuantity,
			OK:             true,
			Message:        ack.Message,
		})
	}

	// The attempt itself advances the timestamp, not full success.
	if err := u.stock.Touch(ctx, p.SKU); err != nil {
		u.logger.Warn("failed to touch last_synced_at",
			zap.String("sku", p.SKU),
			zap.Error(err),
		)
	}

	result.Success = true
	for _, c := range result.Channels {
		if !c.OK {
			result.Success = false
			break
		}
	}

	return result, nil
}

// SyncAll syncs every product, or only those listed on channelFilter when
// it is non-empty. Bulk sync is best effort: one product's failure is
// recorded and never stops the run. Distinct SKUs may sync concurrently
// up to the configured bound.
func (u *SyncUsecase) SyncAll(ctx context.Context, channelFilter string) (SyncAllResult, error) {
	products, err := u.productRepo.List(ctx, repo.ProductListQuery{Channel: channelFilter})
	if err != nil {
		return SyncAllResult{}, err
	}

	if len(products) == 0 {
		return SyncAllResult{Success: true, Results: []SyncProductResult{}}, nil
	}

	results := make([]SyncProductResult, len(products))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			res, err := u.SyncProduct(ctx, p.SKU)
			if err != nil {
				res = SyncProductResult{
					SKU:     p.SKU,
					Name:    p.Name,
					Success: false,
					Error:   err.Error(),
				}
			}
			results[i] = res
			return nil
		})
	}
	// Workers never return errors; failures live in the result list.
	_ = g.Wait()

	out := SyncAllResult{
		Total:   len(products),
		Results: results,
	}
	for _, r := range results {
		if r.Success {
			out.Successes++
		} else {
			out.Failures++
		}
	}
	out.Success = out.Failures == 0

	u.logger.Info("bulk sync finished",
		zap.String("channel_filter", channelFilter),
		zap.Int("total", out.Total),
		zap.Int("successes", out.Successes),
		zap.Int("failures", out.Failures),
	)

	return out, nil
}

// CompareStock reads the local and remote quantity for one channel and
// reports the difference with a recommended action.
func (u *SyncUsecase) CompareStock(ctx context.Context, sku, channelName string) (StockComparison, error) {
	p, err := u.stock.Read(ctx, sku)
	if err != nil {
		return StockComparison{}, err
	}

	adapter, err := u.registry.Lookup(channelName)
	if err != nil {
		return StockComparison{}, err
	}

	remote, err := adapter.FetchQuantity(ctx, p.SKU)
	if err != nil {
		return StockComparison{}, err
	}

	diff := p.Stock - remote
	action := ActionInSync
	switch {
	case diff > 0:
		action = ActionPushLocal
	case diff < 0:
		action = ActionPullRemote
	}

	return StockComparison{
		SKU:         p.SKU,
		Channel:     channelName,
		LocalStock:  p.Stock,
		RemoteStock: remote,
		Difference:  diff,
		NeedsSync:   diff != 0,
		Action:      action,
	}, nil
}

// CreateListings registers the product on every channel it is listed on.
// Best effort: each channel's error is surfaced as-is in its result.
func (u *SyncUsecase) CreateListings(ctx context.Context, sku string) ([]ListingResult, error) {
	p, err := u.stock.Read(ctx, sku)
	if err != nil {
		return nil, err
	}

	results := make([]ListingResult, 0, len(p.Channels))
	for _, name := range p.Channels {
		adapter, err := u.registry.Lookup(name)
		if err != nil {
			results = append(results, ListingResult{
				Channel: name,
				OK:      false,
				Error:   fmt.Sprintf("no integration for %s", name),
			})
			continue
		}

		remoteID, err := adapter.CreateListing(ctx, p)
		if err != nil {
			results = append(results, ListingResult{Channel: name, OK: false, Error: err.Error()})
			continue
		}
		results = append(results, ListingResult{Channel: name, RemoteID: remoteID, OK: true})
	}
	return results, nil
}
