package live

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// scanBufferSize is the initial read buffer of the event scanner.
const scanBufferSize = 64 * 1024

// Event is one push message.
type Event struct {
	// ID is the last event id seen on the stream when this event was dispatched.
	ID string

	// Type is the event kind, e.g. "sensor_update". Empty for the default
	// "message" kind.
	Type string

	Data []byte
}

// eventScanner reads Server-Sent Events from a response body.
//
// Events are delimited by blank lines. "data:" lines are joined with
// newlines, "event:" sets the kind, "id:" updates the last event id and
// "retry:" updates the reconnection delay. Comments and unknown fields are
// ignored.
type eventScanner struct {
	reader  *bufio.Reader
	current Event
	lastID  string
	retry   time.Duration
	err     error
}

func newEventScanner(r io.Reader, lastID string) *eventScanner {
	return &eventScanner{
		reader: bufio.NewReaderSize(r, scanBufferSize),
		lastID: lastID,
	}
}

// Next advances to the next event. It returns false at the end of the
// stream or on a read error; Err tells the two apart.
func (s *eventScanner) Next() bool {
	s.current = Event{}

	var data []string
	var kind string
	hasData := false

	dispatch := func() {
		s.current = Event{
			ID:   s.lastID,
			Type: kind,
			Data: []byte(strings.Join(data, "\n")),
		}
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			// An unterminated trailing event is discarded, as browsers do.
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if hasData {
				dispatch()
				return true
			}
			kind = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, hasColon := strings.Cut(line, ":")
		if !hasColon {
			field = line
			value = ""
		} else {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			data = append(data, value)
			hasData = true
		case "event":
			kind = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				s.lastID = value
			}
		case "retry":
			if ms, err := strconv.ParseUint(value, 10, 32); err == nil {
				s.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}

// Event returns the event parsed by the last successful Next.
func (s *eventScanner) Event() Event {
	return s.current
}

// LastID returns the most recent id field seen, including ids of blocks
// that carried no data.
func (s *eventScanner) LastID() string {
	return s.lastID
}

// Retry returns the most recent retry field, or zero when none was sent.
func (s *eventScanner) Retry() time.Duration {
	return s.retry
}

// Err returns the read error that ended the stream, or nil on clean EOF.
func (s *eventScanner) Err() error {
	return s.err
}
