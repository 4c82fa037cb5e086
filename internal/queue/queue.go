// Package queue defines the capability surface this system consumes from the
// host download manager. Tests substitute an in-memory fake; production wires
// the NZBGet adapter.
package queue

import (
	"context"

	"github.com/Hidendra/nzbget-capped-download-queue/internal/data"
)

// Queue is the host's download pool: a queryable snapshot plus the two
// mutations this system is allowed to make.
type Queue interface {
	// List returns a snapshot of every item the host currently knows about,
	// in queue order.
	List(ctx context.Context) (data.Items, error)
	// Pause holds a single item so it stops consuming capacity.
	Pause(ctx context.Context, id int) error
	// Resume admits a batch of held items in one host command. Failure
	// leaves the whole batch paused.
	Resume(ctx context.Context, ids []int) error
}

// Pinger is implemented by adapters that can check host reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
