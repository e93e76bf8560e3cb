package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventReturnUpdated is published after every accepted sync.
const EventReturnUpdated = "return.updated"

// Event is one server-sent event payload.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Version     int64     `json:"version"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	At          time.Time `json:"at"`
}

func newEvent(typ string, version int64, fingerprint string) Event {
	return Event{ID: uuid.NewString(), Type: typ, Version: version, Fingerprint: fingerprint, At: time.Now().UTC()}
}

// Hub fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event and catches up on the next one,
// since every event carries the full current version.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]chan Event
	next   uint64
	buffer int
	closed bool
}

// NewHub returns a hub with per-subscriber buffers of size buffer.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: make(map[uint64]chan Event), buffer: buffer}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers ev to every subscriber with room and reports how many
// received it.
func (h *Hub) Publish(ev Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, ch := range h.subs {
		select {
		case ch <- ev:
			n++
		default:
		}
	}
	return n
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber. Later subscribers get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
