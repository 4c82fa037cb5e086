package v1

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Hidendra/nzbget-capped-download-queue/internal/data"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/scheduler"
)

// Gate is the intake surface the webhook delivers into.
type Gate interface {
	ItemAdded(ctx context.Context, id int) error
}

// StatusProvider serves the read-only queue accounting view.
type StatusProvider interface {
	Snapshot(ctx context.Context) (scheduler.SnapshotView, error)
}

// Subscriber hands out scheduler event streams for the websocket endpoint.
type Subscriber interface {
	Subscribe() (<-chan scheduler.Event, func())
}

// QueueHandler exposes the sidecar's HTTP surface: the intake webhook, the
// queue accounting view and the event stream.
type QueueHandler struct {
	l      *slog.Logger
	gate   Gate
	status StatusProvider
	events Subscriber
}

type addedBody struct {
	NZBID int `json:"nzbId"`
}

type rwLogger struct {
	http.ResponseWriter
	status int
	bytes  int
	err    error
}

func (w *rwLogger) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *rwLogger) SetErr(err error) {
	w.err = err
}

func (w *rwLogger) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

type errorSetter interface {
	SetErr(error)
}

func markErr(w http.ResponseWriter, err error) {
	if es, ok := w.(errorSetter); ok {
		es.SetErr(err)
	}
}

// context keys
type ctxKeyAdded struct{}

func NewQueueHandler(l *slog.Logger, gate Gate, status StatusProvider, events Subscriber) *QueueHandler {
	return &QueueHandler{l: l, gate: gate, status: status, events: events}
}

// GetQueue serves the current pool snapshot with capacity accounting.
func (h *QueueHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	view, err := h.status.Snapshot(r.Context())
	if err != nil {
		markErr(w, err)
		http.Error(w, "host unreachable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, view)
}

// ItemAdded is the intake webhook. The host's queue-script shim posts here
// synchronously on every add event, before the host starts any transfer.
func (h *QueueHandler) ItemAdded(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyAdded{})
	body, ok := v.(addedBody)
	if !ok || body.NZBID <= 0 {
		markErr(w, ErrAddedCtx)
		http.Error(w, ErrAddedCtx.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.gate.ItemAdded(r.Context(), body.NZBID); err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			markErr(w, err)
			http.Error(w, "unknown download", http.StatusNotFound)
		default:
			markErr(w, err)
			http.Error(w, "failed to hold download", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]any{"nzbId": body.NZBID, "held": true})
}
