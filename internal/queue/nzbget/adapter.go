// Package nzbgetq adapts the NZBGet JSON-RPC API to the queue capability
// interface.
package nzbgetq

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Hidendra/nzbget-capped-download-queue/internal/data"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/nzbget"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/queue"
)

// Adapter implements the Queue interface over an NZBGet client. It translates
// group listings into item snapshots and queue commands into editqueue calls.
type Adapter struct {
	cl  *nzbget.Client
	log *slog.Logger
}

func NewAdapter(cl *nzbget.Client) *Adapter {
	return &Adapter{cl: cl, log: slog.Default()}
}

var _ queue.Queue = (*Adapter)(nil)
var _ queue.Pinger = (*Adapter)(nil)

// SetLogger allows wiring a shared application logger into the adapter.
func (a *Adapter) SetLogger(l *slog.Logger) {
	if l != nil {
		a.log = l
	}
}

// List maps the host's group listing to item snapshots. Slice order is the
// host's queue order; the index doubles as the tie-break position.
func (a *Adapter) List(ctx context.Context) (data.Items, error) {
	groups, err := a.cl.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	items := make(data.Items, 0, len(groups))
	for pos, g := range groups {
		items = append(items, data.Item{
			ID:         g.NZBID,
			Name:       g.NZBName,
			Status:     mapStatus(g.Status),
			HostStatus: g.Status,
			Priority:   g.MaxPriority,
			QueuePos:   pos,
			SizeBytes:  g.FileSizeMB << 20,
			LeftBytes:  g.RemainingSizeMB << 20,
		})
	}
	return items, nil
}

// Pause holds one group: editqueue("GroupPause", [id]).
func (a *Adapter) Pause(ctx context.Context, id int) error {
	ok, err := a.cl.EditQueue(ctx, "GroupPause", []int{id})
	if err != nil {
		return err
	}
	if !ok {
		return data.ErrRejected
	}
	return nil
}

// Resume admits a batch of groups: editqueue("GroupResume", ids).
func (a *Adapter) Resume(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := a.cl.EditQueue(ctx, "GroupResume", ids)
	if err != nil {
		return err
	}
	if !ok {
		return data.ErrRejected
	}
	return nil
}

// Ping checks host reachability with a version call.
func (a *Adapter) Ping(ctx context.Context) error {
	_, err := a.cl.Version(ctx)
	return err
}

// mapStatus collapses NZBGet's status zoo into the three states the
// scheduler cares about. Anything that is neither paused nor waiting in the
// queue is already doing work (downloading, post-processing, scripting) and
// counts against capacity.
func mapStatus(hostStatus string) data.ItemStatus {
	switch strings.ToUpper(hostStatus) {
	case "PAUSED":
		return data.StatusPaused
	case "QUEUED":
		return data.StatusQueued
	default:
		return data.StatusActive
	}
}
