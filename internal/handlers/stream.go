package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/service"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Stream tuning shared by the SSE and WebSocket handlers.
const (
	sseRetry      = 3 * time.Second
	keepAlive     = 15 * time.Second
	errStreamInit = "failed to load initial snapshots"
)

// initialMessages returns the current sensors and status so that a new
// subscriber starts from a full view.
func (h *Handler) initialMessages(ctx context.Context) ([]service.Message, error) {
	sensors, err := h.services.Monitoring.Sensors(ctx)
	if err != nil {
		return nil, err
	}
	status, err := h.services.Monitoring.Status(ctx)
	if err != nil {
		return nil, err
	}
	sensorData, err := json.Marshal(sensors)
	if err != nil {
		return nil, err
	}
	statusData, err := json.Marshal(status)
	if err != nil {
		return nil, err
	}
	return []service.Message{
		{ID: uuid.NewString(), Kind: models.PushSensorUpdate, Data: sensorData},
		{ID: uuid.NewString(), Kind: models.PushStatusUpdate, Data: statusData},
	}, nil
}

// @Summary      Push stream (Server-Sent Events)
// @Description  Emits sensor_update and status_update events whose data is the same JSON as GET /api/sensors and GET /api/status. The current snapshots are sent first.
// @Tags         stream
// @Produce      text/event-stream
// @Success      200
// @Failure      500  {object}  map[string]string
// @Router       /events [get]
func (h *Handler) sseConnect(c *gin.Context) {
	ctx := c.Request.Context()

	msgs, unsubscribe := h.services.Broadcaster.Subscribe()
	defer unsubscribe()

	initial, err := h.initialMessages(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errStreamInit, "sse_initial_failed", err)
		return
	}

	hdr := c.Writer.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if h.log != nil {
		h.log.Infow("sse_connected", "remote", c.ClientIP(), "last_event_id", c.GetHeader("Last-Event-ID"))
		defer h.log.Infow("sse_closed", "remote", c.ClientIP())
	}

	for i, m := range initial {
		ev := sseEvent(m)
		if i == 0 {
			ev.Retry = uint(sseRetry / time.Millisecond)
		}
		if err := h.writeSSE(c, ev); err != nil {
			return
		}
	}

	ping := time.NewTicker(keepAlive)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			if err := h.writeSSE(c, sseEvent(m)); err != nil {
				return
			}
		case <-ping.C:
			if _, err := c.Writer.WriteString(": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

func sseEvent(m service.Message) sse.Event {
	return sse.Event{Id: m.ID, Event: m.Kind, Data: m.Data}
}

func (h *Handler) writeSSE(c *gin.Context, ev sse.Event) error {
	if err := sse.Encode(c.Writer, ev); err != nil {
		if h.log != nil {
			h.log.Infow("sse_write_failed", "err", err)
		}
		return err
	}
	c.Writer.Flush()
	return nil
}
