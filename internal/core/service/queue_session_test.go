package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
	"github.com/itqan-cloud/service-desk/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubTicketRepo struct {
	mu       sync.Mutex
	tickets  map[string]*domain.Ticket
	nextID   int
	fetchErr error

	setStatusCalls  int
	doneTransitions int
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *stubTicketRepo) Create(_ context.Context, t *domain.Ticket) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("t%03d", r.nextID)
	clone := *t
	clone.ID = id
	r.tickets[id] = &clone
	return id, nil
}

func (r *stubTicketRepo) FetchOpen(_ context.Context, category domain.Category) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	var out []domain.Ticket
	for _, t := range r.tickets {
		if t.Status == domain.StatusNew && t.Category == category {
			out = append(out, *t)
		}
	}
	return out, nil
}

// SetStatus mirrors the Mongo implementation's contract: unknown ids and
// repeated writes are silent no-ops.
func (r *stubTicketRepo) SetStatus(_ context.Context, id string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setStatusCalls++
	if t, ok := r.tickets[id]; ok && t.Status != status {
		t.Status = status
		r.doneTransitions++
	}
	return nil
}

func (r *stubTicketRepo) FetchByMonth(_ context.Context, monthKey string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, t := range r.tickets {
		if t.MonthKey == monthKey {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) FetchByDate(_ context.Context, dateKey string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, t := range r.tickets {
		if t.DateKey == dateKey {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) seed(category domain.Category, item string) string {
	id, _ := r.Create(context.Background(), &domain.Ticket{
		RequesterName:     "Ali Adel",
		RequesterLocation: "Yellow Room",
		Category:          category,
		Item:              item,
		Status:            domain.StatusNew,
		CreatedAt:         time.Now().UTC(),
	})
	return id
}

// recordingWriter captures enqueued ids without touching the store,
// simulating a durable write that has not landed yet.
type recordingWriter struct {
	mu  sync.Mutex
	ids []string
}

func (w *recordingWriter) Enqueue(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ids = append(w.ids, id)
}

func (w *recordingWriter) enqueued() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.ids...)
}

// syncWriter applies the durable write immediately.
type syncWriter struct {
	repo ports.TicketRepository
}

func (w *syncWriter) Enqueue(id string) {
	_ = w.repo.SetStatus(context.Background(), id, domain.StatusDone)
}

type stubNotifier struct {
	mu        sync.Mutex
	created   int
	completed int
	cups      int
}

func (n *stubNotifier) TicketCreated(context.Context, *domain.Ticket) {
	n.mu.Lock()
	n.created++
	n.mu.Unlock()
}

func (n *stubNotifier) TicketCompleted(context.Context, domain.Category, string) {
	n.mu.Lock()
	n.completed++
	n.mu.Unlock()
}

func (n *stubNotifier) CupsAlert(context.Context, string) {
	n.mu.Lock()
	n.cups++
	n.mu.Unlock()
}

var discardLogger = zerolog.Nop()

func newTestSession(repo ports.TicketRepository, writer StatusWriter, cfg SessionConfig) *LiveQueueSession {
	return NewLiveQueueSession("session-1", domain.CategoryBuffet, repo, &stubNotifier{}, writer, cfg, discardLogger)
}

// ---------------------------------------------------------------------------
// Suppression
// ---------------------------------------------------------------------------

func TestSession_Poll_ShowsOpenTickets(t *testing.T) {
	repo := newStubTicketRepo()
	id := repo.seed(domain.CategoryBuffet, "Tea - no sugar")
	s := newTestSession(repo, &recordingWriter{}, SessionConfig{})

	snap := s.poll(context.Background())
	if len(snap.Tickets) != 1 || snap.Tickets[0].ID != id {
		t.Fatalf("expected ticket %s in snapshot, got %+v", id, snap.Tickets)
	}
	if snap.Idle {
		t.Error("snapshot must not be idle with an open ticket")
	}
}

func TestSession_Complete_HidesTicketBeforeWriteLands(t *testing.T) {
	repo := newStubTicketRepo()
	id := repo.seed(domain.CategoryBuffet, "Coffee")
	writer := &recordingWriter{}
	s := newTestSession(repo, writer, SessionConfig{})

	s.Complete(context.Background(), id)

	// The durable write has not landed: FetchOpen still returns the ticket.
	fetched, _ := repo.FetchOpen(context.Background(), domain.CategoryBuffet)
	if len(fetched) != 1 {
		t.Fatalf("precondition: store must still hold the ticket, got %d", len(fetched))
	}

	snap := s.poll(context.Background())
	for _, tk := range snap.Tickets {
		if tk.ID == id {
			t.Fatal("completed ticket must never render in the acting viewer's session")
		}
	}
	if !snap.Idle {
		t.Error("snapshot should be idle after the only ticket was suppressed")
	}

	if got := writer.enqueued(); len(got) != 1 || got[0] != id {
		t.Errorf("expected one enqueued write for %s, got %v", id, got)
	}
}

func TestSession_SuppressionOnlyAffectsOwnSession(t *testing.T) {
	repo := newStubTicketRepo()
	id := repo.seed(domain.CategoryBuffet, "Coffee")

	acting := newTestSession(repo, &recordingWriter{}, SessionConfig{})
	other := NewLiveQueueSession("session-2", domain.CategoryBuffet, repo, &stubNotifier{}, &recordingWriter{}, SessionConfig{}, discardLogger)

	acting.Complete(context.Background(), id)

	snap := other.poll(context.Background())
	if len(snap.Tickets) != 1 {
		t.Fatalf("other viewer must still see the ticket until their store read catches up, got %d", len(snap.Tickets))
	}
}

func TestSession_SuppressionExpires(t *testing.T) {
	repo := newStubTicketRepo()
	id := repo.seed(domain.CategoryBuffet, "Coffee")
	s := newTestSession(repo, &recordingWriter{}, SessionConfig{SuppressionTTL: 20 * time.Millisecond})

	s.Complete(context.Background(), id)
	if snap := s.poll(context.Background()); len(snap.Tickets) != 0 {
		t.Fatal("ticket must be hidden right after completion")
	}

	// The durable write never landed; once the suppression entry ages out
	// the ticket reappears for the acting viewer too.
	time.Sleep(40 * time.Millisecond)
	snap := s.poll(context.Background())
	if len(snap.Tickets) != 1 || snap.Tickets[0].ID != id {
		t.Fatalf("expected ticket to reappear after suppression TTL, got %+v", snap.Tickets)
	}
}

// ---------------------------------------------------------------------------
// Idempotent completion
// ---------------------------------------------------------------------------

func TestSession_DoubleComplete_SingleDoneTransition(t *testing.T) {
	repo := newStubTicketRepo()
	id := repo.seed(domain.CategoryBuffet, "Tea")
	s := newTestSession(repo, &syncWriter{repo: repo}, SessionConfig{})

	s.Complete(context.Background(), id)
	s.Complete(context.Background(), id)

	if repo.setStatusCalls != 2 {
		t.Errorf("expected 2 SetStatus calls, got %d", repo.setStatusCalls)
	}
	if repo.doneTransitions != 1 {
		t.Errorf("expected exactly one New->Done transition, got %d", repo.doneTransitions)
	}
	if repo.tickets[id].Status != domain.StatusDone {
		t.Errorf("ticket must end Done, got %s", repo.tickets[id].Status)
	}
}

func TestSession_ConcurrentCompletionRace(t *testing.T) {
	repo := newStubTicketRepo()
	id := repo.seed(domain.CategoryITSupport, "Printer")

	a := NewLiveQueueSession("a", domain.CategoryITSupport, repo, &stubNotifier{}, &syncWriter{repo: repo}, SessionConfig{}, discardLogger)
	b := NewLiveQueueSession("b", domain.CategoryITSupport, repo, &stubNotifier{}, &syncWriter{repo: repo}, SessionConfig{}, discardLogger)

	var wg sync.WaitGroup
	for _, s := range []*LiveQueueSession{a, b} {
		wg.Add(1)
		go func(s *LiveQueueSession) {
			defer wg.Done()
			s.Complete(context.Background(), id)
		}(s)
	}
	wg.Wait()

	if repo.doneTransitions != 1 {
		t.Errorf("racing completions must record exactly one Done transition, got %d", repo.doneTransitions)
	}
	for _, s := range []*LiveQueueSession{a, b} {
		if snap := s.poll(context.Background()); len(snap.Tickets) != 0 {
			t.Errorf("session %s must not render the completed ticket", s.ID())
		}
	}
}

func TestSetStatus_UnknownIDIsNoOp(t *testing.T) {
	repo := newStubTicketRepo()
	if err := repo.SetStatus(context.Background(), "never-existed", domain.StatusDone); err != nil {
		t.Fatalf("unknown id must be a silent no-op, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Poll loop
// ---------------------------------------------------------------------------

func TestSession_Run_EmitsSnapshotsUntilCancelled(t *testing.T) {
	repo := newStubTicketRepo()
	repo.seed(domain.CategoryBuffet, "Water")
	s := newTestSession(repo, &recordingWriter{}, SessionConfig{PollInterval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	for i := 0; i < 3; i++ {
		select {
		case snap, ok := <-s.Snapshots():
			if !ok {
				t.Fatal("snapshot channel closed early")
			}
			if snap.SessionID != s.ID() {
				t.Errorf("snapshot carries wrong session id %q", snap.SessionID)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for snapshot")
		}
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-s.Snapshots():
			if !ok {
				return // channel closed, loop terminated
			}
		case <-deadline:
			t.Fatal("poll loop did not stop after cancellation")
		}
	}
}

func TestSession_Run_StoreErrorRendersErrorStateAndRetries(t *testing.T) {
	repo := newStubTicketRepo()
	repo.seed(domain.CategoryBuffet, "Tea")
	repo.fetchErr = errors.New("connection refused")
	s := newTestSession(repo, &recordingWriter{}, SessionConfig{PollInterval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	snap := <-s.Snapshots()
	if snap.StoreError == "" {
		t.Fatal("expected error state in snapshot while store is down")
	}
	if len(snap.Tickets) != 0 {
		t.Errorf("error snapshot must not carry tickets, got %d", len(snap.Tickets))
	}

	// Recovery on a later cycle without session restart.
	repo.mu.Lock()
	repo.fetchErr = nil
	repo.mu.Unlock()

	deadline := time.After(time.Second)
	for {
		select {
		case snap := <-s.Snapshots():
			if snap.StoreError == "" && len(snap.Tickets) == 1 {
				return
			}
		case <-deadline:
			t.Fatal("session did not recover after store came back")
		}
	}
}

func TestSession_Complete_KicksImmediateRerender(t *testing.T) {
	repo := newStubTicketRepo()
	id := repo.seed(domain.CategoryBuffet, "Coffee")
	// Long interval: only the completion kick can produce a second
	// snapshot within the test window.
	s := newTestSession(repo, &recordingWriter{}, SessionConfig{PollInterval: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	first := <-s.Snapshots()
	if len(first.Tickets) != 1 {
		t.Fatalf("expected initial snapshot with ticket, got %d", len(first.Tickets))
	}

	s.Complete(context.Background(), id)

	select {
	case second := <-s.Snapshots():
		if len(second.Tickets) != 0 {
			t.Errorf("post-completion snapshot must hide the ticket, got %d", len(second.Tickets))
		}
	case <-time.After(time.Second):
		t.Fatal("completion did not trigger an immediate re-render")
	}
}

// ---------------------------------------------------------------------------
// Category isolation
// ---------------------------------------------------------------------------

func TestSession_CategoryIsolation(t *testing.T) {
	repo := newStubTicketRepo()
	repo.seed(domain.CategoryBuffet, "Tea")
	itID := repo.seed(domain.CategoryITSupport, "Network down")
	doneID := repo.seed(domain.CategoryBuffet, "Coffee")
	_ = repo.SetStatus(context.Background(), doneID, domain.StatusDone)

	s := newTestSession(repo, &recordingWriter{}, SessionConfig{})
	snap := s.poll(context.Background())

	if len(snap.Tickets) != 1 {
		t.Fatalf("buffet session must see exactly the one open buffet ticket, got %d", len(snap.Tickets))
	}
	for _, tk := range snap.Tickets {
		if tk.ID == itID {
			t.Error("buffet session rendered an IT ticket")
		}
		if tk.Status != domain.StatusNew {
			t.Errorf("rendered ticket has status %s, want new", tk.Status)
		}
	}
}

// ---------------------------------------------------------------------------
// Session manager
// ---------------------------------------------------------------------------

func TestSessionManager_OpenGetClose(t *testing.T) {
	repo := newStubTicketRepo()
	m := NewSessionManager(repo, &stubNotifier{}, &recordingWriter{}, SessionConfig{}, discardLogger)

	s := m.Open(domain.CategoryBuffet)
	got, err := m.Get(s.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Fatal("Get returned a different session")
	}

	m.Close(s.ID())
	if _, err := m.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after close, got %v", err)
	}
}
