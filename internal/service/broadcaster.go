package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer is how many messages a subscriber may lag behind before
// new messages are dropped for it.
const subscriberBuffer = 16

// Message is one push event ready to be framed by a transport.
type Message struct {
	ID   string
	Kind string
	Data json.RawMessage
}

// Hub delivers every published message to every current subscriber.
// Publishing never blocks: a subscriber whose buffer is full misses the message.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Message]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Message]struct{})}
}

// Subscribe registers a subscriber. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish encodes payload and fans it out under a fresh event id.
func (h *Hub) Publish(kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	msg := Message{ID: uuid.NewString(), Kind: kind, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
