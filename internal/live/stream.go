package live

import (
	"context"
	"errors"
	"time"

	"growbox_dashboard/internal/models"
)

// Push event kinds.
const (
	KindSensorUpdate = models.PushSensorUpdate
	KindStatusUpdate = models.PushStatusUpdate
)

// DefaultRetry is the reconnection delay used until the server sends one.
const DefaultRetry = 3 * time.Second

// ErrStreamClosed is reported when the server ends the push stream.
var ErrStreamClosed = errors.New("push stream closed by server")

// Stream is a self-reconnecting push connection. Run delivers events to
// handle and connection failures to onErr, and returns ctx.Err() once ctx
// is done. onErr may be nil.
type Stream interface {
	Run(ctx context.Context, handle func(Event), onErr func(error)) error
}

// sleep waits for d or until ctx is done. It reports whether the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
