package usecase

import (
	"context"
	"fmt"

	"omnistock/internal/domain/model"

	"go.uber.org/zap"
)

// MercadoLibreWebhook is the marketplace's native notification shape.
type MercadoLibreWebhook struct {
	Topic         string `json:"topic"`
	Resource      string `json:"resource"`
	ApplicationID int64  `json:"application_id"`
	Data          struct {
		Items []MercadoLibreOrderItem `json:"items"`
	} `json:"data"`
}

type MercadoLibreOrderItem struct {
	ID        string `json:"id"`
	SellerSKU string `json:"seller_sku"`
	SKU       string `json:"sku"`
	Quantity  int64  `json:"quantity"`
}

// TiendaNubeWebhook is the storefront's native notification shape.
type TiendaNubeWebhook struct {
	Event   string `json:"event"`
	StoreID int64  `json:"store_id"`
	ID      int64  `json:"id"`
	Data    struct {
		Products []TiendaNubeOrderProduct `json:"products"`
	} `json:"data"`
}

type TiendaNubeOrderProduct struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

// ShopifyWebhook is the order notification shape Shopify delivers.
type ShopifyWebhook struct {
	Topic      string            `json:"topic"`
	ShopDomain string            `json:"shop_domain"`
	LineItems  []ShopifyLineItem `json:"line_items"`
}

type ShopifyLineItem struct {
	VariantID int64  `json:"variant_id"`
	SKU       string `json:"sku"`
	Quantity  int64  `json:"quantity"`
}

// WebhookItemResult is one successfully applied decrement.
type WebhookItemResult struct {
	SKU            string `json:"sku"`
	Quantity       int64  `json:"quantity"`
	RemainingStock int64  `json:"remaining_stock"`
}

// WebhookItemError is one line item that could not be applied. Sibling
// items in the same payload are unaffected.
type WebhookItemError struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// WebhookResult is the per-payload outcome; partial success is the normal
// case, not an exception.
type WebhookResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Results []WebhookItemResult `json:"results"`
	Errors  []WebhookItemError  `json:"errors"`
}

// WebhookUsecase normalizes channel-native sale notifications into
// canonical stock decrements. Events are applied on every accepted
// delivery; there is no dedup window, so a redelivered webhook decrements
// again.
type WebhookUsecase struct {
	stock  *StockUsecase
	logger *zap.Logger
}

// DI
func NewWebhookUsecase(stock *StockUsecase, logger *zap.Logger) *WebhookUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookUsecase{stock: stock, logger: logger}
}

// ProcessMercadoLibreSale applies the decrements of one MercadoLibre order
// notification.
func (u *WebhookUsecase) ProcessMercadoLibreSale(ctx context.Context, payload MercadoLibreWebhook) WebhookResult {
	if payload.Topic != "orders_v2" && payload.Topic != "items" {
		return unsupportedEvent(payload.Topic)
	}

	result := WebhookResult{}
	for _, item := range payload.Data.Items {
		sku := item.SellerSKU
		if sku == "" {
			sku = item.SKU
		}
		ev := model.SaleEvent{
			SKU:      sku,
			Quantity: defaultQuantity(item.Quantity),
			Channel:  model.ChannelMercadoLibre,
		}
		u.applySale(ctx, ev, item.ID, &result)
	}
	finishResult(&result, "items")
	u.logResult(model.ChannelMercadoLibre, result)
	return result
}

// ProcessTiendaNubeSale applies the decrements of one TiendaNube order
// notification.
func (u *WebhookUsecase) ProcessTiendaNubeSale(ctx context.Context, payload TiendaNubeWebhook) WebhookResult {
	if payload.Event != "order/created" && payload.Event != "order/paid" {
		return unsupportedEvent(payload.Event)
	}

	result := WebhookResult{}
	for _, p := range payload.Data.Products {
		ev := model.SaleEvent{
			SKU:      p.SKU,
			Quantity: defaultQuantity(p.Quantity),
			Channel:  model.ChannelTiendaNube,
		}
		u.applySale(ctx, ev, fmt.Sprintf("%d", p.ID), &result)
	}
	finishResult(&result, "products")
	u.logResult(model.ChannelTiendaNube, result)
	return result
}

// ProcessShopifySale applies the decrements of one Shopify order
// notification.
func (u *WebhookUsecase) ProcessShopifySale(ctx context.Context, payload ShopifyWebhook) WebhookResult {
	if payload.Topic != "orders/create" && payload.Topic != "orders/paid" {
		return unsupportedEvent(payload.Topic)
	}

	result := WebhookResult{}
	for _, item := range payload.LineItems {
		ev := model.SaleEvent{
			SKU:      item.SKU,
			Quantity: defaultQuantity(item.Quantity),
			Channel:  model.ChannelShopify,
		}
		u.applySale(ctx, ev, fmt.Sprintf("%d", item.VariantID), &result)
	}
	finishResult(&result, "items")
	u.logResult(model.ChannelShopify, result)
	return result
}

// ProcessStockUpdate overwrites the local quantity with a value pushed by
// a channel, treating that channel as the source of truth.
func (u *WebhookUsecase) ProcessStockUpdate(ctx context.Context, channelName, sku string, newStock int64) (StockChange, error) {
	change, err := u.stock.Set(ctx, sku, newStock, "channel:"+channelName)
	if err != nil {
		return StockChange{}, err
	}
	u.logger.Info("stock updated from channel",
		zap.String("channel", channelName),
		zap.String("sku", change.SKU),
		zap.Int64("stock", change.CurrentStock),
	)
	return change, nil
}

// applySale converts one canonical sale event into a ledger decrement.
// An item without a SKU, or one the ledger rejects, is recorded as an
// error and never aborts its siblings.
func (u *WebhookUsecase) applySale(ctx context.Context, ev model.SaleEvent, itemRef string, result *WebhookResult) {
	if ev.SKU == "" {
		result.Errors = append(result.Errors, WebhookItemError{
			Item:  itemRef,
			Error: "SKU not found in item",
		})
		return
	}

	change, err := u.stock.Decrease(ctx, ev.SKU, ev.Quantity, "webhook:"+ev.Channel)
	if err != nil {
		result.Errors = append(result.Errors, WebhookItemError{
			Item:  itemRef,
			Error: err.Error(),
		})
		return
	}

	result.Results = append(result.Results, WebhookItemResult{
		SKU:            change.SKU,
		Quantity:       ev.Quantity,
		RemainingStock: change.CurrentStock,
	})
}

func (u *WebhookUsecase) logResult(channelName string, result WebhookResult) {
	u.logger.Info("webhook processed",
		zap.String("channel", channelName),
		zap.Int("applied", len(result.Results)),
		zap.Int("errors", len(result.Errors)),
	)
}

// Unrecognized event types are a no-op, not an error: the endpoint still
// answers 200 so the sender does not retry indefinitely.
func unsupportedEvent(eventType string) WebhookResult {
	return WebhookResult{
		Success: false,
		Message: fmt.Sprintf("unsupported event type: %s", eventType),
	}
}

func finishResult(result *WebhookResult, noun string) {
	result.Success = len(result.Errors) == 0
	result.Message = fmt.Sprintf("processed %d %s, %d errors", len(result.Results), noun, len(result.Errors))
}

func defaultQuantity(q int64) int64 {
	if q == 0 {
		return 1
	}
	return q
}
