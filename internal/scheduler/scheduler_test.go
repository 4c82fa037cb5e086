package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Hidendra/nzbget-capped-download-queue/internal/config"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/data"
)

// fakeQueue is an in-memory stand-in for the host's download pool.
type fakeQueue struct {
	mu        sync.Mutex
	items     data.Items
	listErr   error
	pauseErr  error
	resumeErr error

	listCalls   int
	pauseCalls  []int
	resumeCalls [][]int
}

func (f *fakeQueue) List(ctx context.Context) (data.Items, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(data.Items, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeQueue) Pause(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pauseErr != nil {
		return f.pauseErr
	}
	f.pauseCalls = append(f.pauseCalls, id)
	f.set(id, data.StatusPaused)
	return nil
}

func (f *fakeQueue) Resume(ctx context.Context, ids []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resumeErr != nil {
		return f.resumeErr
	}
	f.resumeCalls = append(f.resumeCalls, ids)
	for _, id := range ids {
		f.set(id, data.StatusQueued)
	}
	return nil
}

func (f *fakeQueue) set(id int, st data.ItemStatus) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = st
		}
	}
}

func (f *fakeQueue) get(id int) data.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == id {
			return it
		}
	}
	return data.Item{}
}

// stubReporter records published events.
type stubReporter struct {
	mu     sync.Mutex
	events []Event
}

func (r *stubReporter) Report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *stubReporter) byType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(capacity int64, interval time.Duration) *config.Config {
	return &config.Config{CapacityBytes: capacity, RefreshInterval: interval}
}

func TestTickAdmitsWithinBudget(t *testing.T) {
	q := &fakeQueue{items: data.Items{
		paused(1, data.PriorityNormal, 0, 6*gb),
		paused(2, data.PriorityNormal, 1, 5*gb),
		paused(3, data.PriorityNormal, 2, 2*gb),
	}}
	rep := &stubReporter{}
	s := New(testLogger(), q, testConfig(10*gb, time.Second), rep)

	s.Tick(context.Background())

	if len(q.resumeCalls) != 1 {
		t.Fatalf("expected one resume batch, got %d", len(q.resumeCalls))
	}
	ids := q.resumeCalls[0]
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("resumed %v, want [1 3]", ids)
	}
	if st := q.get(2).Status; st != data.StatusPaused {
		t.Fatalf("item 2 status = %v, want Paused", st)
	}
	if got := rep.byType(EventAdmitted); len(got) != 2 {
		t.Fatalf("expected 2 admitted events, got %d", len(got))
	}
	ticks := rep.byType(EventTick)
	if len(ticks) != 1 {
		t.Fatalf("expected 1 tick event, got %d", len(ticks))
	}
	sum := ticks[0].Tick
	if sum.ReservedBytes != 8*gb || sum.Admitted != 2 || sum.Held != 1 {
		t.Fatalf("unexpected tick summary: %+v", sum)
	}
}

func TestTickResumeFailureRetriedNextPass(t *testing.T) {
	q := &fakeQueue{
		items:     data.Items{paused(1, data.PriorityNormal, 0, gb)},
		resumeErr: errors.New("host down"),
	}
	s := New(testLogger(), q, testConfig(10*gb, time.Second), nil)

	s.Tick(context.Background())
	if st := q.get(1).Status; st != data.StatusPaused {
		t.Fatalf("item 1 should remain paused after failed resume, got %v", st)
	}

	// The host recovers; the item is re-evaluated and admitted normally.
	q.mu.Lock()
	q.resumeErr = nil
	q.mu.Unlock()
	s.Tick(context.Background())
	if st := q.get(1).Status; st != data.StatusQueued {
		t.Fatalf("item 1 status = %v, want Queued after retry", st)
	}
}

func TestTickListErrorIssuesNoCommands(t *testing.T) {
	q := &fakeQueue{listErr: errors.New("timeout")}
	s := New(testLogger(), q, testConfig(10*gb, time.Second), nil)

	s.Tick(context.Background())
	if len(q.resumeCalls) != 0 || len(q.pauseCalls) != 0 {
		t.Fatalf("no commands expected on snapshot failure")
	}
}

func TestTickOvercommittedAdmitsNothing(t *testing.T) {
	q := &fakeQueue{items: data.Items{
		active(1, 12*gb),
		paused(2, data.PriorityForce, 1, gb),
	}}
	s := New(testLogger(), q, testConfig(10*gb, time.Second), nil)

	s.Tick(context.Background())
	if len(q.resumeCalls) != 0 {
		t.Fatalf("expected no admissions while overcommitted, got %v", q.resumeCalls)
	}
}

func TestSchedulerNeverPausesAdmittedItems(t *testing.T) {
	// Run several passes with completions and arrivals between them; the
	// scheduler must never issue a pause, only the intake gate does.
	q := &fakeQueue{items: data.Items{
		paused(1, data.PriorityNormal, 0, 6*gb),
		paused(2, data.PriorityNormal, 1, 5*gb),
	}}
	s := New(testLogger(), q, testConfig(10*gb, time.Second), nil)

	s.Tick(context.Background())

	// Item 1 completes and leaves the pool; a bigger high-priority item arrives held.
	q.mu.Lock()
	q.items = data.Items{
		paused(2, data.PriorityNormal, 1, 5*gb),
		paused(3, data.PriorityForce, 2, 9*gb),
	}
	q.mu.Unlock()
	s.Tick(context.Background())
	s.Tick(context.Background())

	if len(q.pauseCalls) != 0 {
		t.Fatalf("scheduler paused items %v, activation must be monotonic", q.pauseCalls)
	}
}

func TestSnapshotIssuesNoCommands(t *testing.T) {
	q := &fakeQueue{items: data.Items{
		active(1, 7*gb),
		paused(2, data.PriorityNormal, 1, 5*gb),
	}}
	s := New(testLogger(), q, testConfig(10*gb, time.Second), nil)

	view, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.ReservedBytes != 7*gb || view.BudgetBytes != 3*gb || view.CapacityBytes != 10*gb {
		t.Fatalf("unexpected accounting: %+v", view)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(view.Items))
	}
	if len(q.resumeCalls) != 0 || len(q.pauseCalls) != 0 {
		t.Fatalf("snapshot must not mutate the pool")
	}
}

func TestRunStop(t *testing.T) {
	q := &fakeQueue{items: data.Items{paused(1, data.PriorityNormal, 0, gb)}}
	s := New(testLogger(), q, testConfig(10*gb, 5*time.Millisecond), nil)

	s.Run()
	deadline := time.After(2 * time.Second)
	for {
		q.mu.Lock()
		calls := q.listCalls
		q.mu.Unlock()
		if calls >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("scheduler loop did not tick twice in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
	s.Stop()

	q.mu.Lock()
	after := q.listCalls
	q.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	q.mu.Lock()
	final := q.listCalls
	q.mu.Unlock()
	if final != after {
		t.Fatalf("loop still ticking after Stop: %d -> %d", after, final)
	}
}
