package handler

import (
	"net/http"

	"omnistock/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/webhooks ingestion surface. Every accepted delivery answers 200,
// carrying the per-item outcome; senders treat non-200 as "retry", so
// item-level failures must not bounce the whole delivery.
type WebhookHandler struct {
	uc *usecase.WebhookUsecase
}

// DI
func NewWebhookHandler(uc *usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

func (h *WebhookHandler) MercadoLibre(c echo.Context) error {
	var payload usecase.MercadoLibreWebhook
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}

	result := h.uc.ProcessMercadoLibreSale(c.Request().Context(), payload)
	return c.JSON(http.StatusOK, APIResponse{
		Success: result.Success,
		Message: result.Message,
		Data:    result,
	})
}

func (h *WebhookHandler) TiendaNube(c echo.Context) error {
	var payload usecase.TiendaNubeWebhook
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}

	result := h.uc.ProcessTiendaNubeSale(c.Request().Context(), payload)
	return c.JSON(http.StatusOK, APIResponse{
		Success: result.Success,
		Message: result.Message,
		Data:    result,
	})
}

func (h *WebhookHandler) Shopify(c echo.Context) error {
	var payload usecase.ShopifyWebhook
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}

	result := h.uc.ProcessShopifySale(c.Request().Context(), payload)
	return c.JSON(http.StatusOK, APIResponse{
		Success: result.Success,
		Message: result.Message,
		Data:    result,
	})
}

type stockUpdateRequest struct {
	SKU   string `json:"sku"`
	Stock int64  `json:"stock"`
}

// StockUpdate applies a quantity a channel pushed to us, treating that
// channel as the source of truth for the SKU.
func (h *WebhookHandler) StockUpdate(c echo.Context) error {
	var req stockUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}

	change, err := h.uc.ProcessStockUpdate(c.Request().Context(), c.Param("channel"), req.SKU, req.Stock)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "stock updated from " + c.Param("channel"),
		Data:    change,
	})
}
