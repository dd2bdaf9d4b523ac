package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/repository"
)

// ErrInvalidLogFilter marks a log filter that cannot be answered.
var ErrInvalidLogFilter = errors.New("invalid log filter")

// LogFilter selects entries of the actuation log.
type LogFilter struct {
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	Actuator string    // models.ActuatorLight, models.ActuatorHumidifier or "" for all
	Type     string    // one of the models.Event* types, or "" for all
}

// ActuationLog is a filtered slice of the log.
type ActuationLog struct {
	Count  int                  `json:"count"`
	Events []models.DeviceEvent `json:"events"`
	// SwitchOns counts ON transitions per actuator among Events.
	SwitchOns map[string]int `json:"switch_ons"`
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns the events selected by f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) (ActuationLog, error) {
	q, err := eventQuery(f)
	if err != nil {
		return ActuationLog{}, err
	}
	events, err := s.eventRepo.List(ctx, q)
	if err != nil {
		return ActuationLog{}, err
	}
	if events == nil {
		events = []models.DeviceEvent{}
	}
	return ActuationLog{
		Count:     len(events),
		Events:    events,
		SwitchOns: switchOns(events),
	}, nil
}

// eventQuery resolves the actuator and type of f into the event types to
// match. A type that does not belong to the actuator is an error rather
// than an empty result.
func eventQuery(f LogFilter) (models.EventQuery, error) {
	q := models.EventQuery{From: f.From, To: f.To}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return q, fmt.Errorf("%w: from must not be after to", ErrInvalidLogFilter)
	}

	typ := strings.ToUpper(strings.TrimSpace(f.Type))
	if typ != "" && !models.IsEventType(typ) {
		return q, fmt.Errorf("%w: unknown event type %q", ErrInvalidLogFilter, f.Type)
	}

	actuator := strings.ToLower(strings.TrimSpace(f.Actuator))
	if actuator == "" {
		if typ != "" {
			q.Types = []string{typ}
		}
		return q, nil
	}

	on, off, ok := models.RelayEvents(actuator)
	if !ok {
		return q, fmt.Errorf("%w: unknown actuator %q", ErrInvalidLogFilter, f.Actuator)
	}
	q.Types = []string{on, off}
	if typ != "" {
		if !slices.Contains(q.Types, typ) {
			return q, fmt.Errorf("%w: %s is not a %s event", ErrInvalidLogFilter, typ, actuator)
		}
		q.Types = []string{typ}
	}
	return q, nil
}

func switchOns(events []models.DeviceEvent) map[string]int {
	out := make(map[string]int, len(models.Actuators))
	for _, a := range models.Actuators {
		out[a] = 0
	}
	for _, ev := range events {
		for _, a := range models.Actuators {
			if on, _, _ := models.RelayEvents(a); ev.Type == on {
				out[a]++
			}
		}
	}
	return out
}
