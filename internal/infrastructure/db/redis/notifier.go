package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

// Channel layout: notify:<category> for ticket events, notify:cups for cup
// alerts. Frontends subscribe to play the alert sound.
const cupsChannel = "notify:cups"

// Notifier publishes best-effort notifications over Redis pub/sub. Delivery
// is cosmetic only: a dropped message never affects ticket state, so publish
// errors are logged and swallowed.
type Notifier struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewNotifier(client *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{client: client, log: log}
}

type notification struct {
	Event    string          `json:"event"`
	TicketID string          `json:"ticket_id,omitempty"`
	Category domain.Category `json:"category,omitempty"`
	Item     string          `json:"item,omitempty"`
	Room     string          `json:"room,omitempty"`
	At       time.Time       `json:"at"`
}

func (n *Notifier) TicketCreated(ctx context.Context, t *domain.Ticket) {
	n.publish(ctx, channelFor(t.Category), notification{
		Event:    "ticket_created",
		TicketID: t.ID,
		Category: t.Category,
		Item:     t.Item,
		At:       time.Now().UTC(),
	})
}

func (n *Notifier) TicketCompleted(ctx context.Context, category domain.Category, ticketID string) {
	n.publish(ctx, channelFor(category), notification{
		Event:    "ticket_completed",
		TicketID: ticketID,
		Category: category,
		At:       time.Now().UTC(),
	})
}

func (n *Notifier) CupsAlert(ctx context.Context, room string) {
	n.publish(ctx, cupsChannel, notification{
		Event: "cups_alert",
		Room:  room,
		At:    time.Now().UTC(),
	})
}

func (n *Notifier) publish(ctx context.Context, channel string, msg notification) {
	payload, err := json.Marshal(msg)
	if err != nil {
		n.log.Warn().Err(err).Str("channel", channel).Msg("notification encode failed")
		return
	}
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.log.Warn().Err(err).Str("channel", channel).Msg("notification publish failed")
	}
}

func channelFor(category domain.Category) string {
	return "notify:" + string(category)
}
