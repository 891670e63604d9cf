package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

// TicketHandler handles requester-facing ticket operations.
type TicketHandler struct {
	service ports.TicketService
}

func NewTicketHandler(service ports.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

type createTicketRequest struct {
	Category  string `json:"category" validate:"required,oneof=buffet it_support"`
	Item      string `json:"item" validate:"required,max=100"`
	Sweetness string `json:"sweetness,omitempty" validate:"max=50"`
	Details   string `json:"details,omitempty" validate:"max=1000"`
}

type createTicketResponse struct {
	ID        string `json:"id"`
	Item      string `json:"item"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Create handles POST /v1/tickets. The requester's name and room come from
// the authenticated identity, captured as a snapshot on the ticket.
//
// @Summary      Create a service request ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Ticket details"
// @Success      201   {object}  createTicketResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateTicketInput{
		RequesterName:     id.Name,
		RequesterLocation: id.Room,
		Category:          domain.Category(req.Category),
		Item:              req.Item,
		Sweetness:         req.Sweetness,
		Details:           req.Details,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createTicketResponse{
		ID:        result.ID,
		Item:      result.Item,
		Status:    string(result.Status),
		CreatedAt: result.CreatedAt.UTC().Format(time.RFC3339),
	})
}
