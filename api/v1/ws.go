package v1

import (
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// StreamEvents upgrades the connection and forwards scheduler decisions as
// JSON frames until the client goes away. Events missed while the client is
// slow are dropped by the hub, not buffered indefinitely.
func (h *QueueHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		markErr(w, err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "done") }()

	ch, cancel := h.events.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, conn, e); err != nil {
				return
			}
		}
	}
}
