package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/service"
)

// CounterHandler handles the per-room cup counter endpoints.
type CounterHandler struct {
	service *service.CounterService
}

func NewCounterHandler(service *service.CounterService) *CounterHandler {
	return &CounterHandler{service: service}
}

// Report handles POST /v1/cups — one cups-need-cleaning alert for the
// requester's own room (taken from the identity claims, not the body).
//
// @Summary      Report empty cups in the requester's room
// @Tags         cups
// @Security     BearerAuth
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /v1/cups [post]
func (h *CounterHandler) Report(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Report(c.Request().Context(), id.Room); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear handles DELETE /v1/cups/:room — staff zeroes the room's counter.
//
// @Summary      Clear a room's cup counter
// @Tags         cups
// @Security     BearerAuth
// @Param        room  path  string  true  "Room name"
// @Success      204
// @Router       /v1/cups/{room} [delete]
func (h *CounterHandler) Clear(c echo.Context) error {
	if err := h.service.Clear(c.Request().Context(), c.Param("room")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Dashboard handles GET /v1/cups — rooms with cups waiting.
//
// @Summary      List rooms with non-zero cup counters
// @Tags         cups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Counter
// @Router       /v1/cups [get]
func (h *CounterHandler) Dashboard(c echo.Context) error {
	counters, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	if counters == nil {
		counters = []domain.Counter{}
	}
	return c.JSON(http.StatusOK, counters)
}
