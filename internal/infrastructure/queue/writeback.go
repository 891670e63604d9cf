package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/itqan-cloud/service-desk/internal/api/metrics"
	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// WriteBack performs the fire-and-forget durable status writes issued by
// completion commands. Tickets are sharded onto a fixed set of workers by
// ticket id, so retried or racing completions of the same ticket are applied
// in order. A failed write is logged and dropped: SetStatus is idempotent
// and the viewer's suppression entry expires, so the ticket simply reappears
// on a later poll.
type WriteBack struct {
	workers []chan string
	repo    ports.TicketRepository
	log     zerolog.Logger
}

// NewWriteBack creates a WriteBack with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewWriteBack(numWorkers int, repo ports.TicketRepository, log zerolog.Logger) *WriteBack {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &WriteBack{
		workers: make([]chan string, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan string, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (w *WriteBack) Start(ctx context.Context) {
	for i, ch := range w.workers {
		go w.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules the Done write for a ticket. Non-blocking up to
// channelBuffer capacity.
func (w *WriteBack) Enqueue(ticketID string) {
	w.workers[w.shardIndex(ticketID)] <- ticketID
}

// shardIndex maps a ticket id deterministically to a worker index.
func (w *WriteBack) shardIndex(ticketID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ticketID))
	return int(h.Sum32()) % len(w.workers)
}

func (w *WriteBack) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case ticketID, ok := <-ch:
			if !ok {
				return
			}
			if err := w.repo.SetStatus(ctx, ticketID, domain.StatusDone); err != nil {
				metrics.WritebackErrorsTotal.Inc()
				w.log.Error().Err(err).
					Str("ticket_id", ticketID).
					Int("worker_id", id).
					Msg("status write failed")
			}
		}
	}
}
