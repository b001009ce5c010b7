package handler

import (
	"net/http"

	"omnistock/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/products catalog surface.
type ProductHandler struct {
	uc     *usecase.ProductUsecase
	syncUC *usecase.SyncUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, syncUC *usecase.SyncUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, syncUC: syncUC}
}

type productRequest struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Stock       int64    `json:"stock"`
	Channels    []string `json:"channels"`
	ImageURL    string   `json:"image_url"`
}

func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.uc.List(c.Request().Context(), c.QueryParam("channel"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.uc.Get(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Create(c.Request().Context(), usecase.ProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Channels:    req.Channels,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Update(c.Request().Context(), c.Param("sku"), usecase.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Channels:    req.Channels,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("sku")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateListings registers the product on each of its channels, best
// effort per channel.
func (h *ProductHandler) CreateListings(c echo.Context) error {
	results, err := h.syncUC.CreateListings(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}

	ok := true
	for _, r := range results {
		if !r.OK {
			ok = false
			break
		}
	}
	return c.JSON(http.StatusOK, APIResponse{
		Success: ok,
		Message: "listing creation attempted on all channels",
		Data:    results,
	})
}
