package handler

import (
	"fmt"
	"net/http"

	"omnistock/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/seed demo-data surface.
type SeedHandler struct {
	uc *usecase.SeedUsecase
}

// DI
func NewSeedHandler(uc *usecase.SeedUsecase) *SeedHandler {
	return &SeedHandler{uc: uc}
}

func (h *SeedHandler) Seed(c echo.Context) error {
	result, err := h.uc.Seed(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, APIResponse{
		Success: len(result.Errors) == 0,
		Message: fmt.Sprintf("seed finished: %d created, %d skipped", result.Created, result.Skipped),
		Data:    result,
	})
}
