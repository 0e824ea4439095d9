package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/search"
)

// socketQuery is one keystroke sent by the browser.
type socketQuery struct {
	Term string `json:"term"`
}

// HandleSearchSocket handles GET /ui/ws/search. Each connection owns one
// adapter; a newer keystroke cancels the query in flight and stale results
// are never written back.
func (h *Handler) HandleSearchSocket(w http.ResponseWriter, r *http.Request) {
	// The server write timeout would otherwise close the socket.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("Search socket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	adapter := h.svc.NewAdapter()
	defer adapter.Close()

	for {
		var q socketQuery
		if err := wsjson.Read(ctx, conn, &q); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			h.log.Debug().Err(err).Msg("Search socket read failed")
			return
		}

		// Sequence numbers follow read order; only the request runs async.
		pending := adapter.Begin(ctx, q.Term)
		go func() {
			res := adapter.Run(pending)
			if res.Stale {
				return
			}
			h.writeResult(ctx, conn, res)
		}()
	}
}

func (h *Handler) writeResult(ctx context.Context, conn *websocket.Conn, res search.Result[domain.Account]) {
	if err := wsjson.Write(ctx, conn, res); err != nil && !errors.Is(err, context.Canceled) {
		h.log.Debug().Err(err).Msg("Search socket write failed")
	}
}
