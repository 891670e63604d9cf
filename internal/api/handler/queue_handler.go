package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/service"
)

// QueueHandler exposes the fulfillment staff live queue view: an SSE stream
// driven by the per-session poll loop, plus the completion command.
type QueueHandler struct {
	sessions *service.SessionManager
}

func NewQueueHandler(sessions *service.SessionManager) *QueueHandler {
	return &QueueHandler{sessions: sessions}
}

// Live handles GET /v1/queue/live. The viewer's queue is derived from their
// role; admins pick one with ?category=. Each poll cycle is pushed as one
// SSE "snapshot" event carrying the session id, so the client knows where to
// send completion commands.
//
// @Summary      Stream the live fulfillment queue
// @Tags         queue
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        category  query  string  false  "Queue category (admin only)"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /v1/queue/live [get]
func (h *QueueHandler) Live(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	category, err := viewerCategory(id, c.QueryParam("category"))
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	session := h.sessions.Open(category)
	defer h.sessions.Close(session.ID())

	// The poll loop stops when the client disconnects and the request
	// context is cancelled; nothing in-flight needs unwinding.
	ctx := c.Request().Context()
	go session.Run(ctx)

	for snapshot := range session.Snapshots() {
		payload, err := json.Marshal(snapshot)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(res, "event: snapshot\ndata: %s\n\n", payload); err != nil {
			return nil
		}
		res.Flush()
	}
	return nil
}

type completeRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
}

// Complete handles POST /v1/queue/sessions/:session_id/complete. The ticket
// is suppressed in this viewer's session immediately; the durable write is
// asynchronous and idempotent, so double clicks and racing viewers are safe.
//
// @Summary      Mark a ticket complete
// @Tags         queue
// @Accept       json
// @Security     BearerAuth
// @Param        session_id  path  string           true  "Live session id"
// @Param        body        body  completeRequest  true  "Ticket to complete"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/queue/sessions/{session_id}/complete [post]
func (h *QueueHandler) Complete(c echo.Context) error {
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	session, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		return err
	}

	session.Complete(c.Request().Context(), req.TicketID)
	return c.NoContent(http.StatusNoContent)
}

// viewerCategory resolves which queue a viewer may watch. Fulfillment roles
// are pinned to their own queue; admins choose explicitly.
func viewerCategory(id identity, requested string) (domain.Category, error) {
	if category, ok := domain.QueueCategory(id.Role); ok {
		return category, nil
	}
	if id.Role == domain.RoleAdmin {
		category := domain.Category(requested)
		if !category.Valid() {
			return "", echo.NewHTTPError(http.StatusBadRequest, "category query parameter required")
		}
		return category, nil
	}
	return "", echo.NewHTTPError(http.StatusForbidden, "forbidden")
}
