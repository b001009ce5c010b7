package handler

import (
	"net/http"
	"strconv"

	"omnistock/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/stock ledger surface.
type StockHandler struct {
	uc *usecase.StockUsecase
}

// DI
func NewStockHandler(uc *usecase.StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

type stockSetRequest struct {
	Stock int64 `json:"stock"`
}

type stockAmountRequest struct {
	Quantity int64 `json:"quantity"`
}

// ledgerView is the read contract of the stock ledger: quantity, channel
// membership and the sync timestamp.
type ledgerView struct {
	SKU          string   `json:"sku"`
	Stock        int64    `json:"stock"`
	Channels     []string `json:"channels"`
	LastSyncedAt string   `json:"last_synced_at"`
}

func (h *StockHandler) Get(c echo.Context) error {
	p, err := h.uc.Read(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ledgerView{
		SKU:          p.SKU,
		Stock:        p.Stock,
		Channels:     p.Channels,
		LastSyncedAt: p.LastSyncedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *StockHandler) Set(c echo.Context) error {
	var req stockSetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	change, err := h.uc.Set(c.Request().Context(), c.Param("sku"), req.Stock, "manual")
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, change)
}

func (h *StockHandler) Decrease(c echo.Context) error {
	var req stockAmountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	change, err := h.uc.Decrease(c.Request().Context(), c.Param("sku"), req.Quantity, "manual")
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, change)
}

func (h *StockHandler) Increase(c echo.Context) error {
	var req stockAmountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	change, err := h.uc.Increase(c.Request().Context(), c.Param("sku"), req.Quantity, "manual")
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, change)
}

func (h *StockHandler) LowStock(c echo.Context) error {
	threshold := int64(usecase.DefaultLowStockThreshold)
	if v := c.QueryParam("threshold"); v != "" {
		t, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid threshold"})
		}
		threshold = t
	}

	products, err := h.uc.LowStock(c.Request().Context(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *StockHandler) Statistics(c echo.Context) error {
	stats, err := h.uc.Statistics(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
