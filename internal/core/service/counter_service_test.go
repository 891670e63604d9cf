package service

import (
	"context"
	"sync"
	"testing"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

// stubCounterRepo serializes increments and resets the way the store's
// atomic operators do.
type stubCounterRepo struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newStubCounterRepo() *stubCounterRepo {
	return &stubCounterRepo{counts: make(map[string]int64)}
}

func (r *stubCounterRepo) Increment(_ context.Context, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[room]++
	return nil
}

func (r *stubCounterRepo) Reset(_ context.Context, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[room] = 0
	return nil
}

func (r *stubCounterRepo) ListNonZero(_ context.Context) ([]domain.Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Counter
	for room, count := range r.counts {
		if count > 0 {
			out = append(out, domain.Counter{Room: room, Count: count})
		}
	}
	return out, nil
}

func TestCounterService_ConcurrentReports_NoLostUpdates(t *testing.T) {
	repo := newStubCounterRepo()
	svc := NewCounterService(repo, &stubNotifier{}, discardLogger)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Report(context.Background(), "Kitchen"); err != nil {
				t.Errorf("report failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := repo.counts["Kitchen"]; got != n {
		t.Fatalf("expected count %d after %d concurrent reports, got %d", n, n, got)
	}
}

func TestCounterService_ResetThenReport(t *testing.T) {
	repo := newStubCounterRepo()
	svc := NewCounterService(repo, &stubNotifier{}, discardLogger)

	for i := 0; i < 5; i++ {
		_ = svc.Report(context.Background(), "Kitchen")
	}
	if err := svc.Clear(context.Background(), "Kitchen"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := svc.Report(context.Background(), "Kitchen"); err != nil {
		t.Fatalf("report failed: %v", err)
	}

	if got := repo.counts["Kitchen"]; got != 1 {
		t.Fatalf("reset then one increment must yield 1, got %d", got)
	}
}

func TestCounterService_Dashboard(t *testing.T) {
	repo := newStubCounterRepo()
	svc := NewCounterService(repo, &stubNotifier{}, discardLogger)

	for i := 0; i < 3; i++ {
		_ = svc.Report(context.Background(), "Kitchen")
	}

	counters, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(counters) != 1 || counters[0].Room != "Kitchen" || counters[0].Count != 3 {
		t.Fatalf("expected {Kitchen 3}, got %+v", counters)
	}

	_ = svc.Clear(context.Background(), "Kitchen")
	counters, _ = svc.Dashboard(context.Background())
	for _, c := range counters {
		if c.Room == "Kitchen" {
			t.Error("cleared room must not appear on the dashboard")
		}
	}
}

func TestCounterService_Report_EmptyRoomRejected(t *testing.T) {
	repo := newStubCounterRepo()
	svc := NewCounterService(repo, &stubNotifier{}, discardLogger)

	if err := svc.Report(context.Background(), ""); err == nil {
		t.Fatal("empty room must be rejected")
	}
	if len(repo.counts) != 0 {
		t.Error("no counter may be created for a rejected report")
	}
}

func TestCounterService_Report_FiresCupsAlert(t *testing.T) {
	repo := newStubCounterRepo()
	notifier := &stubNotifier{}
	svc := NewCounterService(repo, notifier, discardLogger)

	_ = svc.Report(context.Background(), "Kitchen")
	if notifier.cups != 1 {
		t.Errorf("expected 1 cups alert, got %d", notifier.cups)
	}
}
