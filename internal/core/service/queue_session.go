package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/itqan-cloud/service-desk/internal/api/metrics"
	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

const (
	defaultPollInterval   = 2 * time.Second
	defaultSuppressionTTL = 30 * time.Second
)

// StatusWriter abstracts the fire-and-forget durable write issued on
// completion (the sharded write-back queue in production).
type StatusWriter interface {
	Enqueue(ticketID string)
}

// suppressionSet holds ticket ids the viewer has completed locally but which
// a fresh FetchOpen read may still return. Entries expire after a TTL well
// above the poll interval, so a ticket whose durable write failed for good
// eventually reappears in the acting viewer's own stream.
type suppressionSet struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
}

func newSuppressionSet(ttl time.Duration) *suppressionSet {
	if ttl <= 0 {
		ttl = defaultSuppressionTTL
	}
	return &suppressionSet{ttl: ttl, entries: make(map[string]time.Time)}
}

func (s *suppressionSet) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = time.Now()
}

// Filter returns tickets minus the suppressed ones, pruning expired entries
// along the way.
func (s *suppressionSet) Filter(tickets []domain.Ticket) []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, added := range s.entries {
		if now.Sub(added) > s.ttl {
			delete(s.entries, id)
		}
	}

	visible := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if _, suppressed := s.entries[t.ID]; suppressed {
			metrics.SuppressionHitsTotal.Inc()
			continue
		}
		visible = append(visible, t)
	}
	return visible
}

// LiveQueueSession drives one viewer's live queue view: a fixed-delay poll
// loop over FetchOpen, filtered through the session's suppression set. There
// is no shared in-process state between sessions; the only shared mutable
// resource is the durable store.
type LiveQueueSession struct {
	id       string
	category domain.Category
	repo     ports.TicketRepository
	notifier ports.Notifier
	writer   StatusWriter
	suppress *suppressionSet
	interval time.Duration

	snapshots chan ports.QueueSnapshot
	kick      chan struct{}
	log       zerolog.Logger
}

// SessionConfig tunes a live queue session. Zero values fall back to
// defaults.
type SessionConfig struct {
	PollInterval   time.Duration
	SuppressionTTL time.Duration
}

func NewLiveQueueSession(
	id string,
	category domain.Category,
	repo ports.TicketRepository,
	notifier ports.Notifier,
	writer StatusWriter,
	cfg SessionConfig,
	log zerolog.Logger,
) *LiveQueueSession {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &LiveQueueSession{
		id:        id,
		category:  category,
		repo:      repo,
		notifier:  notifier,
		writer:    writer,
		suppress:  newSuppressionSet(cfg.SuppressionTTL),
		interval:  interval,
		snapshots: make(chan ports.QueueSnapshot, 1),
		kick:      make(chan struct{}, 1),
		log:       log,
	}
}

// ID returns the session identifier handed to the viewer.
func (s *LiveQueueSession) ID() string { return s.id }

// Category returns the queue this session is watching.
func (s *LiveQueueSession) Category() domain.Category { return s.category }

// Snapshots is the stream of rendered queue frames, one per poll cycle.
// The channel is closed when Run returns.
func (s *LiveQueueSession) Snapshots() <-chan ports.QueueSnapshot {
	return s.snapshots
}

// Run executes the poll loop until ctx is cancelled: fetch open tickets,
// subtract the suppression set, emit a snapshot, sleep. A store error
// renders an error state and the next cycle simply retries; nothing is
// fatal to the session.
func (s *LiveQueueSession) Run(ctx context.Context) {
	defer close(s.snapshots)
	metrics.LiveSessionsGauge.Inc()
	defer metrics.LiveSessionsGauge.Dec()

	for {
		snap := s.poll(ctx)
		select {
		case s.snapshots <- snap:
		case <-ctx.Done():
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-s.kick:
			// A completion just happened; re-render without waiting out
			// the full interval so the viewer sees the ticket vanish.
		case <-time.After(s.interval):
		}
	}
}

func (s *LiveQueueSession) poll(ctx context.Context) ports.QueueSnapshot {
	metrics.PollCyclesTotal.WithLabelValues(string(s.category)).Inc()

	snap := ports.QueueSnapshot{
		SessionID: s.id,
		Category:  s.category,
		At:        time.Now().UTC(),
	}

	fetched, err := s.repo.FetchOpen(ctx, s.category)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", s.id).Msg("queue poll failed")
		snap.StoreError = domain.ErrStoreUnavailable.Error()
		return snap
	}

	snap.Tickets = s.suppress.Filter(fetched)
	snap.Idle = len(snap.Tickets) == 0
	return snap
}

// Complete handles one completion click. The local suppression insert comes
// first so the ticket disappears for this viewer before the durable write's
// outcome is known; the write itself is enqueued fire-and-forget and is safe
// to race or retry because SetStatus is idempotent.
func (s *LiveQueueSession) Complete(ctx context.Context, ticketID string) {
	s.suppress.Add(ticketID)

	if s.notifier != nil {
		s.notifier.TicketCompleted(ctx, s.category, ticketID)
	}

	s.writer.Enqueue(ticketID)
	metrics.TicketsCompletedTotal.WithLabelValues(string(s.category)).Inc()

	s.log.Info().
		Str("session_id", s.id).
		Str("ticket_id", ticketID).
		Msg("ticket completed")

	select {
	case s.kick <- struct{}{}:
	default:
	}
}
