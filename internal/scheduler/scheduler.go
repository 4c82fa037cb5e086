package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Hidendra/nzbget-capped-download-queue/internal/config"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/data"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/metrics"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/queue"
	"github.com/google/uuid"
)

// Scheduler reconciles the host's download pool against the storage budget.
// One mutex serializes every "snapshot the pool and issue commands" section,
// shared by the periodic tick and the intake gate, so a pass always works on
// a consistent view.
type Scheduler struct {
	q   queue.Queue
	cfg *config.Config
	log *slog.Logger
	rep Reporter

	mu  sync.Mutex
	ctx context.Context

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a Scheduler over the given host queue. rep may be nil when no
// observer is wired.
func New(log *slog.Logger, q queue.Queue, cfg *config.Config, rep Reporter) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{q: q, cfg: cfg, log: log, rep: rep, ctx: context.Background()}
}

// Run starts the scheduling loop. The first pass runs immediately; each
// following pass is scheduled one refresh interval after the previous one
// finished, so passes never overlap and a slow host only stretches the
// cadence.
func (s *Scheduler) Run() {
	s.stop = make(chan struct{})
	// Tag this run with a stable operation_id for easier correlation.
	opID := uuid.NewString()
	log := s.log.With("operation_id", opID)
	log.Info("starting capacity scheduler", "capacity_bytes", s.cfg.CapacityBytes, "interval", s.cfg.RefreshInterval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(0)
		defer timer.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-timer.C:
				s.Tick(s.ctx)
				timer.Reset(s.cfg.RefreshInterval)
			}
		}
	}()
}

// Stop terminates the loop. A pass already in flight finishes issuing its
// decided commands before Stop returns; interrupting it halfway would leave
// the pool with some admissions applied and others not.
func (s *Scheduler) Stop() {
	if s.stop != nil {
		close(s.stop)
		s.wg.Wait()
	}
}

// Tick runs one full scheduling pass: snapshot, plan, admit.
func (s *Scheduler) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.q.List(ctx)
	if err != nil {
		s.log.Error("list queue", "err", err)
		return
	}

	plan := BuildPlan(items, s.cfg.CapacityBytes)
	metrics.ReservedBytes.Set(float64(plan.Reserved))
	metrics.HeldItems.Set(float64(plan.Candidates - len(plan.Admit)))

	if plan.Overcommitted {
		s.log.Warn("reserved capacity exceeds budget, admitting nothing",
			"reserved_bytes", plan.Reserved, "capacity_bytes", plan.Capacity)
	}

	if len(plan.Admit) > 0 {
		ids := plan.Admit.IDs()
		if err := s.q.Resume(ctx, ids); err != nil {
			// The batch stays paused and is re-evaluated next pass.
			s.log.Error("resume downloads", "ids", ids, "err", err)
			return
		}
		for _, it := range plan.Admit {
			metrics.Admissions.Inc()
			s.report(Event{Type: EventAdmitted, ID: it.ID, Name: it.Name, SizeBytes: it.LeftBytes})
		}
		s.log.Info("resumed downloads",
			"ids", ids,
			"old_reserved_bytes", plan.Reserved,
			"new_reserved_bytes", plan.Reserved+plan.AdmittedBytes())
	}

	metrics.SchedulerTicks.Inc()
	s.report(Event{Type: EventTick, Tick: &TickSummary{
		ReservedBytes: plan.Reserved + plan.AdmittedBytes(),
		BudgetBytes:   plan.Budget - plan.AdmittedBytes(),
		Admitted:      len(plan.Admit),
		Held:          plan.Candidates - len(plan.Admit),
	}})
}

// Snapshot returns the current pool with the accounting a pass would use,
// without issuing any commands.
func (s *Scheduler) Snapshot(ctx context.Context) (SnapshotView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.q.List(ctx)
	if err != nil {
		return SnapshotView{}, err
	}
	plan := BuildPlan(items, s.cfg.CapacityBytes)
	return SnapshotView{
		CapacityBytes: plan.Capacity,
		ReservedBytes: plan.Reserved,
		BudgetBytes:   plan.Budget,
		Items:         items,
	}, nil
}

// SnapshotView is the read-only queue state served by the HTTP API.
type SnapshotView struct {
	CapacityBytes int64      `json:"capacityBytes"`
	ReservedBytes int64      `json:"reservedBytes"`
	BudgetBytes   int64      `json:"budgetBytes"`
	Items         data.Items `json:"items"`
}

func (s *Scheduler) report(e Event) {
	if s.rep != nil {
		s.rep.Report(e)
	}
}

// hold pauses a newly added item under the shared lock. See Gate for the
// intake contract.
func (s *Scheduler) hold(ctx context.Context, id int) (data.Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.q.List(ctx)
	if err != nil {
		return data.Item{}, false, err
	}
	it, err := items.Get(id)
	if err != nil {
		return data.Item{}, false, err
	}

	switch it.Status {
	case data.StatusPaused:
		// Already held; re-delivery of the add event is a no-op.
		return it, false, nil
	case data.StatusQueued:
		if err := s.q.Pause(ctx, id); err != nil {
			return it, false, err
		}
		return it, true, nil
	default:
		// Transferring or post-processing already; activation is monotonic,
		// so leave it alone.
		return it, false, nil
	}
}
