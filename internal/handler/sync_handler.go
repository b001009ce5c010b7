package handler

import (
	"fmt"
	"net/http"

	"omnistock/internal/scheduler"
	"omnistock/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/sync reconciliation surface.
type SyncHandler struct {
	uc    *usecase.SyncUsecase
	sched *scheduler.Scheduler
}

// DI
func NewSyncHandler(uc *usecase.SyncUsecase, sched *scheduler.Scheduler) *SyncHandler {
	return &SyncHandler{uc: uc, sched: sched}
}

func (h *SyncHandler) SyncProduct(c echo.Context) error {
	result, err := h.uc.SyncProduct(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}

	msg := "product synchronized"
	if !result.Success {
		msg = "product synchronized with some errors"
	}
	return c.JSON(http.StatusOK, APIResponse{
		Success: result.Success,
		Message: msg,
		Data:    result,
	})
}

func (h *SyncHandler) SyncAll(c echo.Context) error {
	result, err := h.uc.SyncAll(c.Request().Context(), c.QueryParam("channel"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, APIResponse{
		Success: result.Success,
		Message: fmt.Sprintf("sync finished: %d succeeded, %d failed", result.Successes, result.Failures),
		Data:    result,
	})
}

func (h *SyncHandler) CompareStock(c echo.Context) error {
	cmp, err := h.uc.CompareStock(c.Request().Context(), c.Param("sku"), c.Param("channel"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: cmp.Action,
		Data:    cmp,
	})
}

// RunScheduledSync is the manual trigger with the same semantics as a
// scheduler tick, including the no-overlap guard.
func (h *SyncHandler) RunScheduledSync(c echo.Context) error {
	result, err := h.sched.RunScheduledSync(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, APIResponse{
		Success: result.Success,
		Message: fmt.Sprintf("sync finished: %d succeeded, %d failed", result.Successes, result.Failures),
		Data:    result,
	})
}
