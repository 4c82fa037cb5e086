package scheduler

import (
	"context"
	"log/slog"

	"github.com/Hidendra/nzbget-capped-download-queue/internal/metrics"
)

// Gate pauses newly added downloads before the host starts transferring
// them, so every item enters the pool held and gets picked up by the next
// scheduling pass in priority order. It shares the Scheduler's lock.
type Gate struct {
	s   *Scheduler
	log *slog.Logger
}

func NewGate(log *slog.Logger, s *Scheduler) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{s: s, log: log}
}

// ItemAdded handles the host's add notification synchronously. Pausing an
// already-paused item is a no-op; an item that is already transferring is
// left alone. A pause failure is logged and surfaced, not retried: the item
// falls back to the host's default behavior.
func (g *Gate) ItemAdded(ctx context.Context, id int) error {
	it, held, err := g.s.hold(ctx, id)
	if err != nil {
		g.log.Error("hold new download", "id", id, "err", err)
		return err
	}
	if !held {
		g.log.Info("new download already settled", "id", id, "status", it.Status)
		return nil
	}
	metrics.IntakeHolds.Inc()
	g.s.report(Event{Type: EventHeld, ID: it.ID, Name: it.Name, SizeBytes: it.LeftBytes})
	g.log.Info("paused newly added download", "id", id, "name", it.Name, "size_bytes", it.SizeBytes)
	return nil
}
