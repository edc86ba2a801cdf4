package changefeed

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/serenatasalon/booking-api/pkg/logging"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// WSHandler pushes change events to connected clients over a websocket.
// The booking UI keeps its slot picker fresh by recomputing occupied slots
// whenever a message arrives; the payload carries the affected date so
// clients can skip recomputes for other days.
type WSHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

// NewWSHandler creates the websocket endpoint handler.
func NewWSHandler(hub *Hub, allowedOrigins []string, logger *logging.Logger) *WSHandler {
	if logger == nil {
		logger = logging.Default()
	}
	allow := make(map[string]struct{}, len(allowedOrigins))
	allowAny := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAny = true
			continue
		}
		allow[o] = struct{}{}
	}
	return &WSHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAny {
					return true
				}
				_, ok := allow[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// ServeHTTP upgrades the connection and streams events until the client
// disconnects.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	events, cancel := h.hub.Subscribe()
	defer cancel()
	defer conn.Close()

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice close frames.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
