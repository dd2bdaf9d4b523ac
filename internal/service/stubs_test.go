package service

import (
	"context"
	"encoding/json"
	"sync"

	"growbox_dashboard/internal/models"
)

// ---- Test doubles ----

type targetRepoStub struct {
	loadResp models.Targets
	loadErr  error
	saveErr  error
	saves    []models.Targets
}

func (s *targetRepoStub) Load(ctx context.Context) (models.Targets, error) {
	return s.loadResp, s.loadErr
}

func (s *targetRepoStub) Save(ctx context.Context, t models.Targets) error {
	s.saves = append(s.saves, t)
	if s.saveErr == nil {
		s.loadResp = t
	}
	return s.saveErr
}

type eventRepoStub struct {
	appendErr error
	appends   []models.DeviceEvent

	// List
	events  []models.DeviceEvent
	listErr error
	calls   int
	gotQ    models.EventQuery
}

func (e *eventRepoStub) Append(ctx context.Context, ev models.DeviceEvent) error {
	e.appends = append(e.appends, ev)
	return e.appendErr
}

func (e *eventRepoStub) List(ctx context.Context, q models.EventQuery) ([]models.DeviceEvent, error) {
	e.calls++
	e.gotQ = q
	return e.events, e.listErr
}

func (e *eventRepoStub) types() []string {
	var out []string
	for _, ev := range e.appends {
		out = append(out, ev.Type)
	}
	return out
}

// publisherStub records published messages.
type publisherStub struct {
	mu       sync.Mutex
	messages []Message
}

func (p *publisherStub) Subscribe() (<-chan Message, func()) {
	return nil, func() {}
}

func (p *publisherStub) Publish(kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, Message{Kind: kind, Data: data})
	return nil
}

func (p *publisherStub) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, m := range p.messages {
		out = append(out, m.Kind)
	}
	return out
}

func (p *publisherStub) last(kind string) (Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].Kind == kind {
			return p.messages[i], true
		}
	}
	return Message{}, false
}
