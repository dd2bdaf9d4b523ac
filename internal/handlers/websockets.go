package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"growbox_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Upgrader for HTTP -> WebSocket. The device serves a LAN dashboard, so any origin is accepted.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Push stream (WebSocket)
// @Description  Each message is {"type": "sensor_update"|"status_update", "data": {...}}. The current snapshots are sent first.
// @Tags         stream
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	ctx := c.Request.Context()

	msgs, unsubscribe := h.services.Broadcaster.Subscribe()
	defer unsubscribe()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	// Send the current snapshots first.
	initial, err := h.initialMessages(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_initial_failed", "err", err)
		}
		return
	}
	for _, m := range initial {
		if err := writeEnvelope(conn, m); err != nil {
			if h.log != nil {
				h.log.Infow("ws_write_failed_initial", "err", err)
			}
			return
		}
	}

	// Writer/select loop.
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case m, ok := <-msgs:
			if !ok {
				h.closeNormally(conn)
				return
			}
			if err := writeEnvelope(conn, m); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// writeEnvelope writes m as a {"type","data"} text frame with a write deadline.
func writeEnvelope(conn *websocket.Conn, m service.Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: m.Kind, Data: m.Data})
}

func (h *Handler) closeNormally(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
