package server

import (
	"net/http"

	"omnistock/internal/config"
	"omnistock/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Product *handler.ProductHandler
	Stock   *handler.StockHandler
	Sync    *handler.SyncHandler
	Webhook *handler.WebhookHandler
	Seed    *handler.SeedHandler
}

// New builds the echo instance with all routes registered.
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	RegisterRoutes(e, cfg, h)
	return e
}

// Start runs the HTTP server.
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
