package ports

import (
	"context"
	"time"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

// CreateTicketInput carries all data needed to create a ticket. Requester
// identity comes from the authenticated session, never from the request body.
type CreateTicketInput struct {
	RequesterName     string
	RequesterLocation string
	Category          domain.Category
	Item              string
	// Sweetness is composed into the item label for buffet orders
	// ("Tea - no sugar"); ignored for IT tickets.
	Sweetness string
	Details   string
}

// TicketResult is returned by the service after creating a ticket.
type TicketResult struct {
	ID        string
	Item      string
	Status    domain.TicketStatus
	CreatedAt time.Time
}

// TicketService defines the requester-facing use cases.
type TicketService interface {
	Create(ctx context.Context, input CreateTicketInput) (*TicketResult, error)
}

// QueueSnapshot is one rendered frame of a viewer's live queue.
type QueueSnapshot struct {
	SessionID string          `json:"session_id"`
	Category  domain.Category `json:"category"`
	Tickets   []domain.Ticket `json:"tickets"`
	// Idle is true when there is nothing to show; the UI renders the
	// empty state instead of a list.
	Idle bool `json:"idle"`
	// StoreError is set when the poll's fetch failed; the session keeps
	// running and retries on the next cycle.
	StoreError string    `json:"store_error,omitempty"`
	At         time.Time `json:"at"`
}

// AuthService authenticates accounts and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
}

// Notifier delivers best-effort side-effect notifications. Failures are
// logged and swallowed; correctness never depends on delivery.
type Notifier interface {
	TicketCreated(ctx context.Context, t *domain.Ticket)
	TicketCompleted(ctx context.Context, category domain.Category, ticketID string)
	CupsAlert(ctx context.Context, room string)
}
