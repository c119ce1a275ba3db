package sse

import (
	"sync"

	"github.com/hamzaalmahdi/civitai/pkg/metrics"
)

// Event represents a server-sent notification event payload.
// Type is used as SSE "event:" name, Data is an arbitrary JSON-serialisable body.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub keeps in-memory SSE subscribers grouped by user.
// This hub is process-local and intended for single-instance or dev environments.
// Internally it uses sync.Map to minimise lock contention at high scale.
type Hub struct {
	// subscribers maps user ID -> *sync.Map representing a set of channels.
	subscribers sync.Map // map[int64]*sync.Map
}

// NewHub constructs a Hub.
func NewHub() *Hub {
	return &Hub{}
}

var defaultHub = NewHub()

// DefaultHub exposes the process-global hub.
func DefaultHub() *Hub {
	return defaultHub
}

// Subscribe registers a user-specific subscriber and returns a channel
// plus an unsubscribe function that should be called on disconnect.
func (h *Hub) Subscribe(userID int64) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	// Lazily create the inner set for this user.
	v, _ := h.subscribers.LoadOrStore(userID, &sync.Map{})
	inner := v.(*sync.Map)
	inner.Store(ch, struct{}{})
	metrics.SSESubscribers.Inc()

	unsubscribe := func() {
		inner.Delete(ch)
		close(ch)
		metrics.SSESubscribers.Dec()
		// Note: we intentionally do not remove empty inner maps from
		// the outer subscribers map to keep implementation simple.
	}

	return ch, unsubscribe
}

// Publish sends an event to all subscribers of the given user.
// Slow consumers are skipped to avoid blocking producer code.
func (h *Hub) Publish(userID int64, ev Event) {
	v, ok := h.subscribers.Load(userID)
	if !ok {
		return
	}
	inner := v.(*sync.Map)

	inner.Range(func(key, _ interface{}) bool {
		ch, ok := key.(chan Event)
		if !ok {
			return true
		}
		select {
		case ch <- ev:
		default:
			// drop if subscriber is slow
		}
		return true
	})
}
