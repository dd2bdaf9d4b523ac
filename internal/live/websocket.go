package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"growbox_dashboard/internal/logger"

	"github.com/gorilla/websocket"
)

// maxMessageBytes bounds a single WebSocket message.
const maxMessageBytes = 1 << 16

const handshakeTimeout = 10 * time.Second

// envelope is the WebSocket framing of a push event.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WebSocketURL rewrites an http(s) base URL into the ws(s) URL of path.
func WebSocketURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", base, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = path
	return u.String(), nil
}

// WebSocketStream reads push events framed as {"type", "data"} envelopes
// and redials after a fixed delay whenever the connection drops.
type WebSocketStream struct {
	url    string
	dialer *websocket.Dialer
	retry  time.Duration
	log    *logger.Logger
}

// NewWebSocketStream returns a stream for the ws:// or wss:// url. A nil
// dialer gets a default handshake timeout; a non-positive retry means DefaultRetry.
func NewWebSocketStream(url string, dialer *websocket.Dialer, retry time.Duration, log *logger.Logger) *WebSocketStream {
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	}
	if retry <= 0 {
		retry = DefaultRetry
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WebSocketStream{url: url, dialer: dialer, retry: retry, log: log}
}

// Run dials and keeps redialing until ctx is done.
func (s *WebSocketStream) Run(ctx context.Context, handle func(Event), onErr func(error)) error {
	for {
		err := s.connect(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if onErr != nil {
			onErr(err)
		}
		if !sleep(ctx, s.retry) {
			return ctx.Err()
		}
	}
}

func (s *WebSocketStream) connect(ctx context.Context, handle func(Event)) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock ReadMessage on cancellation.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	conn.SetReadLimit(maxMessageBytes)
	s.log.Infow("push_connected", "url", s.url)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) && ce.Code == websocket.CloseNormalClosure {
				return ErrStreamClosed
			}
			return fmt.Errorf("read %s: %w", s.url, err)
		}

		var env envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			s.log.Warnw("push_envelope_malformed", "err", err)
			continue
		}
		handle(Event{Type: env.Type, Data: env.Data})
	}
}
