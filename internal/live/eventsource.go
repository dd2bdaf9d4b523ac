package live

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"sync"
	"time"

	"growbox_dashboard/internal/api"
	"growbox_dashboard/internal/logger"
)

const eventStreamType = "text/event-stream"

// EventSource is a Server-Sent Events client with browser reconnection
// semantics: after any failure it waits the current retry delay and
// reconnects, sending the last seen event id in Last-Event-ID. A "retry:"
// field from the server replaces the delay.
type EventSource struct {
	url    string
	client *http.Client
	log    *logger.Logger

	mu     sync.Mutex
	retry  time.Duration
	lastID string
}

// NewEventSource returns a source for url. The client must not set a
// Timeout, since the response body stays open for the whole session. A nil
// client means http.DefaultClient; a non-positive retry means DefaultRetry.
func NewEventSource(url string, client *http.Client, retry time.Duration, log *logger.Logger) *EventSource {
	if client == nil {
		client = http.DefaultClient
	}
	if retry <= 0 {
		retry = DefaultRetry
	}
	if log == nil {
		log = logger.Nop()
	}
	return &EventSource{url: url, client: client, retry: retry, log: log}
}

// Retry returns the current reconnection delay.
func (s *EventSource) Retry() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retry
}

// LastEventID returns the id that will be sent on the next reconnect.
func (s *EventSource) LastEventID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastID
}

// Run connects and keeps reconnecting until ctx is done.
func (s *EventSource) Run(ctx context.Context, handle func(Event), onErr func(error)) error {
	for {
		err := s.connect(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if onErr != nil {
			onErr(err)
		}
		if !sleep(ctx, s.Retry()) {
			return ctx.Err()
		}
	}
}

// connect runs one connection to completion and returns why it ended.
func (s *EventSource) connect(ctx context.Context, handle func(Event)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", eventStreamType)
	req.Header.Set("Cache-Control", "no-cache")
	lastID := s.LastEventID()
	if lastID != "" {
		req.Header.Set("Last-Event-ID", lastID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("connect %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &api.StatusError{StatusCode: resp.StatusCode}
	}
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err != nil || mt != eventStreamType {
		return fmt.Errorf("connect %s: unexpected content type %q", s.url, resp.Header.Get("Content-Type"))
	}

	s.log.Infow("push_connected", "url", s.url, "last_event_id", lastID)

	sc := newEventScanner(resp.Body, lastID)
	for sc.Next() {
		s.observe(sc)
		handle(sc.Event())
	}
	s.observe(sc)
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", s.url, err)
	}
	return ErrStreamClosed
}

func (s *EventSource) observe(sc *eventScanner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID = sc.LastID()
	if r := sc.Retry(); r > 0 {
		s.retry = r
	}
}
