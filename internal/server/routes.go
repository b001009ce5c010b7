package server

import (
	"omnistock/internal/config"
	"omnistock/internal/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the API. Reads are public; everything that
// mutates catalog or stock from the operator side is admin-guarded.
// Webhook endpoints carry their channel's own verification instead.
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	api := e.Group("/api")

	admin := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.AdminRoleGuard(),
	}

	// catalog
	api.GET("/products", h.Product.List)
	api.GET("/products/:sku", h.Product.Get)
	api.POST("/products", h.Product.Create, admin...)
	api.PUT("/products/:sku", h.Product.Update, admin...)
	api.DELETE("/products/:sku", h.Product.Delete, admin...)
	api.POST("/products/:sku/listings", h.Product.CreateListings, admin...)

	// stock ledger
	api.GET("/stock/low", h.Stock.LowStock)
	api.GET("/stock/statistics", h.Stock.Statistics)
	api.GET("/stock/:sku", h.Stock.Get)
	api.PUT("/stock/:sku", h.Stock.Set, admin...)
	api.POST("/stock/:sku/decrease", h.Stock.Decrease, admin...)
	api.POST("/stock/:sku/increase", h.Stock.Increase, admin...)

	// reconciliation
	api.POST("/sync/product/:sku", h.Sync.SyncProduct, admin...)
	api.POST("/sync/all", h.Sync.SyncAll, admin...)
	api.POST("/sync/run", h.Sync.RunScheduledSync, admin...)
	api.GET("/sync/compare/:sku/:channel", h.Sync.CompareStock)

	// inbound webhooks
	api.POST("/webhooks/mercadolibre", h.Webhook.MercadoLibre, middleware.VerifyMercadoLibreWebhook(cfg))
	api.POST("/webhooks/tiendanube", h.Webhook.TiendaNube, middleware.VerifyTiendaNubeWebhook(cfg))
	api.POST("/webhooks/shopify", h.Webhook.Shopify, middleware.VerifyShopifyWebhook(cfg))
	api.POST("/webhooks/:channel/stock", h.Webhook.StockUpdate, admin...)

	// demo data
	api.POST("/seed", h.Seed.Seed, admin...)
}
