package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

// ReportHandler is the reporting collaborator's read surface: raw ticket
// range reads keyed by the write-time month and date keys. Aggregation and
// export formats live in downstream tooling, not here.
type ReportHandler struct {
	repo ports.TicketRepository
}

func NewReportHandler(repo ports.TicketRepository) *ReportHandler {
	return &ReportHandler{repo: repo}
}

// Tickets handles GET /v1/reports/tickets?month=2026-08 or ?date=2026-08-28.
//
// @Summary      List tickets for a month or day
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        month  query  string  false  "Month key (YYYY-MM)"
// @Param        date   query  string  false  "Date key (YYYY-MM-DD)"
// @Success      200  {array}   domain.Ticket
// @Failure      400  {object}  map[string]string
// @Router       /v1/reports/tickets [get]
func (h *ReportHandler) Tickets(c echo.Context) error {
	month := c.QueryParam("month")
	date := c.QueryParam("date")

	var (
		tickets []domain.Ticket
		err     error
	)
	switch {
	case month != "":
		tickets, err = h.repo.FetchByMonth(c.Request().Context(), month)
	case date != "":
		tickets, err = h.repo.FetchByDate(c.Request().Context(), date)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "month or date query parameter required")
	}
	if err != nil {
		return err
	}

	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return c.JSON(http.StatusOK, tickets)
}
