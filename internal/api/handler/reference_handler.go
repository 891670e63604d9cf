package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

// ReferenceHandler serves the read-only menu and room lists the requester UI
// builds its pickers from. Both are owned by administrative tooling.
type ReferenceHandler struct {
	menu  ports.MenuRepository
	rooms ports.RoomRepository
}

func NewReferenceHandler(menu ports.MenuRepository, rooms ports.RoomRepository) *ReferenceHandler {
	return &ReferenceHandler{menu: menu, rooms: rooms}
}

// Menu handles GET /v1/menu — the currently available buffet items.
//
// @Summary      List available menu items
// @Tags         reference
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.MenuItem
// @Router       /v1/menu [get]
func (h *ReferenceHandler) Menu(c echo.Context) error {
	items, err := h.menu.ListAvailable(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// Rooms handles GET /v1/rooms — the full room list.
//
// @Summary      List rooms
// @Tags         reference
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Room
// @Router       /v1/rooms [get]
func (h *ReferenceHandler) Rooms(c echo.Context) error {
	rooms, err := h.rooms.ListRooms(c.Request().Context())
	if err != nil {
		return err
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	return c.JSON(http.StatusOK, rooms)
}
