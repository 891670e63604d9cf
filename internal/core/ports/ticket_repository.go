package ports

import (
	"context"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

// TicketRepository defines persistence operations for tickets.
type TicketRepository interface {
	// Create persists a new ticket and returns its store-assigned id.
	// Duplicate tickets are allowed; there is no uniqueness constraint.
	Create(ctx context.Context, t *domain.Ticket) (string, error)

	// FetchOpen returns every ticket with status New in the given category,
	// in store-native order. Callers must not rely on ordering for
	// correctness.
	FetchOpen(ctx context.Context, category domain.Category) ([]domain.Ticket, error)

	// SetStatus updates a ticket's status. Idempotent: setting Done on an
	// already-Done ticket, or on an id that never existed, is a no-op.
	SetStatus(ctx context.Context, id string, status domain.TicketStatus) error

	// FetchByMonth and FetchByDate are the read path for the reporting
	// collaborator; they never touch the write path.
	FetchByMonth(ctx context.Context, monthKey string) ([]domain.Ticket, error)
	FetchByDate(ctx context.Context, dateKey string) ([]domain.Ticket, error)
}

// CounterRepository defines the per-room cup counter operations. Increment
// and Reset must be atomic at the store; the application layer never does a
// read-modify-write pair.
type CounterRepository interface {
	// Increment adds one to the room's counter, creating the record when
	// absent (upsert).
	Increment(ctx context.Context, room string) error

	// Reset sets the room's counter back to zero.
	Reset(ctx context.Context, room string) error

	// ListNonZero returns rooms with a count above zero, for the
	// fulfillment dashboard.
	ListNonZero(ctx context.Context) ([]domain.Counter, error)
}
