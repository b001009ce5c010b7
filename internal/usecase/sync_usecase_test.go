package usecase

import (
	"context"
	"testing"
	"time"

	"omnistock/internal/channel"
	"omnistock/internal/domain/model"
	repo "omnistock/internal/repository"

	"github.com/stretchr/testify/assert"
)

type syncFixture struct {
	store    *memStore
	meli     *channel.MercadoLibreAdapter
	nube     *channel.TiendaNubeAdapter
	shopify  *channel.ShopifyAdapter
	registry *channel.Registry
	uc       *SyncUsecase
}

func newSyncFixture(products ...model.Product) *syncFixture {
	store := newMemStore(products...)
	meli := channel.NewMercadoLibreAdapter(0)
	nube := channel.NewTiendaNubeAdapter(0)
	shopify := channel.NewShopifyAdapter(0)
	registry := channel.NewRegistry(meli, nube, shopify)
	stock := NewStockUsecase(store, store, nil)
	return &syncFixture{
		store:    store,
		meli:     meli,
		nube:     nube,
		shopify:  shopify,
		registry: registry,
		uc:       NewSyncUsecase(store, stock, registry, 4, nil),
	}
}

func TestSyncUsecase_SyncProduct_NotFound(t *testing.T) {
	f := newSyncFixture()

	_, err := f.uc.SyncProduct(context.Background(), "GHOST-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSyncUsecase_SyncProduct_PushesToAllChannels(t *testing.T) {
	f := newSyncFixture(model.Product{
		SKU:      "PROD-001",
		Name:     "Coffee",
		Stock:    7,
		Channels: []string{model.ChannelTiendaNube, model.ChannelShopify},
	})

	result, err := f.uc.SyncProduct(context.Background(), "PROD-001")
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(7), result.LocalStock)
	assert.Len(t, result.Channels, 2)
	for _, c := range result.Channels {
		assert.True(t, c.OK)
		assert.Equal(t, int64(7), c.PushedQuantity)
	}

	remote, err := f.shopify.FetchQuantity(context.Background(), "PROD-001")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), remote)
}

// One unreachable channel never blocks the others, and the attempt still
// advances last_synced_at.
func TestSyncUsecase_SyncProduct_PartialFailure(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	f := newSyncFixture(model.Product{
		SKU:          "PROD-001",
		Stock:        7,
		Channels:     []string{model.ChannelMercadoLibre, model.ChannelShopify},
		LastSyncedAt: past,
	})
	f.meli.SetUnavailable(true)

	result, err := f.uc.SyncProduct(context.Background(), "PROD-001")
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Len(t, result.Channels, 2)

	assert.False(t, result.Channels[0].OK)
	assert.Contains(t, result.Channels[0].Error, "channel unavailable")
	assert.True(t, result.Channels[1].OK)

	assert.True(t, f.store.lastSyncedAt("PROD-001").After(past))
}

func TestSyncUsecase_SyncProduct_UnknownChannel(t *testing.T) {
	f := newSyncFixture(model.Product{
		SKU:      "PROD-004",
		Stock:    3,
		Channels: []string{"POS", model.ChannelShopify},
	})

	result, err := f.uc.SyncProduct(context.Background(), "PROD-004")
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "no integration for POS", result.Channels[0].Error)
	assert.True(t, result.Channels[1].OK)
}

// MercadoLibre has no upsert: pushing an unlisted SKU is rejected by the
// remote side, not silently created.
func TestSyncUsecase_SyncProduct_RejectedByChannel(t *testing.T) {
	f := newSyncFixture(model.Product{
		SKU:      "PROD-001",
		Stock:    7,
		Channels: []string{model.ChannelMercadoLibre},
	})

	result, err := f.uc.SyncProduct(context.Background(), "PROD-001")
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Channels[0].Error, "no MercadoLibre item for SKU PROD-001")
}

func TestSyncUsecase_SyncAll_EmptyCatalog(t *testing.T) {
	f := newSyncFixture()

	result, err := f.uc.SyncAll(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Results)
}

func TestSyncUsecase_SyncAll_CountsOutcomes(t *testing.T) {
	f := newSyncFixture(
		model.Product{SKU: "PROD-001", Stock: 7, Channels: []string{model.ChannelShopify}},
		model.Product{SKU: "PROD-002", Stock: 2, Channels: []string{model.ChannelMercadoLibre}},
	)

	result, err := f.uc.SyncAll(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Successes)
	assert.Equal(t, 1, result.Failures)
	assert.Len(t, result.Results, 2)
}

func TestSyncUsecase_SyncAll_ChannelFilter(t *testing.T) {
	f := newSyncFixture(
		model.Product{SKU: "PROD-001", Stock: 7, Channels: []string{model.ChannelShopify}},
		model.Product{SKU: "PROD-002", Stock: 2, Channels: []string{model.ChannelTiendaNube}},
	)

	result, err := f.uc.SyncAll(context.Background(), model.ChannelShopify)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "PROD-001", result.Results[0].SKU)
}

func TestSyncUsecase_CompareStock_LocalAhead(t *testing.T) {
	f := newSyncFixture(model.Product{SKU: "PROD-001", Stock: 12, Channels: []string{model.ChannelShopify}})
	f.shopify.SetRemoteQuantity("PROD-001", 10)

	cmp, err := f.uc.CompareStock(context.Background(), "PROD-001", model.ChannelShopify)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), cmp.LocalStock)
	assert.Equal(t, int64(10), cmp.RemoteStock)
	assert.Equal(t, int64(2), cmp.Difference)
	assert.True(t, cmp.NeedsSync)
	assert.Equal(t, ActionPushLocal, cmp.Action)
}

func TestSyncUsecase_CompareStock_RemoteAhead(t *testing.T) {
	f := newSyncFixture(model.Product{SKU: "PROD-001", Stock: 5, Channels: []string{model.ChannelTiendaNube}})
	f.nube.SetRemoteQuantity("PROD-001", 9)

	cmp, err := f.uc.CompareStock(context.Background(), "PROD-001", model.ChannelTiendaNube)
	assert.NoError(t, err)
	assert.Equal(t, int64(-4), cmp.Difference)
	assert.True(t, cmp.NeedsSync)
	assert.Equal(t, ActionPullRemote, cmp.Action)
}

func TestSyncUsecase_CompareStock_InSync(t *testing.T) {
	f := newSyncFixture(model.Product{SKU: "PROD-001", Stock: 7, Channels: []string{model.ChannelShopify}})
	f.shopify.SetRemoteQuantity("PROD-001", 7)

	cmp, err := f.uc.CompareStock(context.Background(), "PROD-001", model.ChannelShopify)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), cmp.Difference)
	assert.False(t, cmp.NeedsSync)
	assert.Equal(t, ActionInSync, cmp.Action)
}

func TestSyncUsecase_CompareStock_NoIntegration(t *testing.T) {
	f := newSyncFixture(model.Product{SKU: "PROD-001", Stock: 7, Channels: []string{"POS"}})

	_, err := f.uc.CompareStock(context.Background(), "PROD-001", "POS")
	assert.ErrorIs(t, err, channel.ErrNoIntegration)
}

func TestSyncUsecase_CreateListings_BestEffort(t *testing.T) {
	f := newSyncFixture(model.Product{
		SKU:      "PROD-001",
		Name:     "Coffee",
		Stock:    7,
		Channels: []string{model.ChannelMercadoLibre, "POS"},
	})

	results, err := f.uc.CreateListings(context.Background(), "PROD-001")
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	assert.True(t, results[0].OK)
	assert.NotEmpty(t, results[0].RemoteID)
	assert.False(t, results[1].OK)
	assert.Equal(t, "no integration for POS", results[1].Error)

	// The listing now exists, so a later push is accepted.
	_, err = f.meli.PushQuantity(context.Background(), "PROD-001", 7)
	assert.NoError(t, err)
}
