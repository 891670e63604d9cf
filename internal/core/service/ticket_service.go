package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/itqan-cloud/service-desk/internal/api/metrics"
	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

// TicketService implements ticket creation for requesters.
type TicketService struct {
	repo     ports.TicketRepository
	menu     ports.MenuRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewTicketService(repo ports.TicketRepository, menu ports.MenuRepository, notifier ports.Notifier, logger zerolog.Logger) *TicketService {
	return &TicketService{repo: repo, menu: menu, notifier: notifier, logger: logger}
}

// Create validates the request, builds the ticket with write-time report
// keys, and persists it. Validation failures reject before any write is
// attempted; no partial ticket is ever persisted.
func (s *TicketService) Create(ctx context.Context, input ports.CreateTicketInput) (*ports.TicketResult, error) {
	if strings.TrimSpace(input.RequesterName) == "" {
		return nil, domain.ErrInvalidRequester
	}
	if !input.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	item := strings.TrimSpace(input.Item)
	if item == "" {
		return nil, fmt.Errorf("%w: empty item", domain.ErrItemUnavailable)
	}

	if input.Category == domain.CategoryBuffet {
		if err := s.checkMenu(ctx, item); err != nil {
			return nil, err
		}
		if sweetness := strings.TrimSpace(input.Sweetness); sweetness != "" {
			item = item + " - " + sweetness
		}
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		RequesterName:     input.RequesterName,
		RequesterLocation: input.RequesterLocation,
		Category:          input.Category,
		Item:              item,
		Details:           input.Details,
		Status:            domain.StatusNew,
		CreatedAt:         now.Truncate(time.Second),
		DateKey:           domain.DateKeyFor(now),
		MonthKey:          domain.MonthKeyFor(now),
	}

	id, err := s.repo.Create(ctx, ticket)
	if err != nil {
		s.logger.Error().Err(err).Str("category", string(input.Category)).Msg("failed to create ticket")
		return nil, err
	}
	ticket.ID = id

	metrics.TicketsCreatedTotal.WithLabelValues(string(ticket.Category)).Inc()
	s.logger.Info().
		Str("ticket_id", id).
		Str("category", string(ticket.Category)).
		Str("requester", ticket.RequesterName).
		Msg("ticket created")

	if s.notifier != nil {
		s.notifier.TicketCreated(ctx, ticket)
	}

	return &ports.TicketResult{
		ID:        id,
		Item:      ticket.Item,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt,
	}, nil
}

func (s *TicketService) checkMenu(ctx context.Context, item string) error {
	available, err := s.menu.ListAvailable(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("menu lookup failed")
		return err
	}
	for _, m := range available {
		if strings.EqualFold(m.Name, item) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrItemUnavailable, item)
}
