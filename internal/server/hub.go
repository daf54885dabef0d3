package server

import (
	"sync"

	"github.com/jonathan/trip-consensus/internal/types"
)

// subscriberBuffer gives slow clients some slack before updates are dropped.
const subscriberBuffer = 8

// Hub fans trip aggregate updates out to SSE subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan types.TripAggregate]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan types.TripAggregate]bool)}
}

// Subscribe registers interest in a trip's aggregate updates.
func (h *Hub) Subscribe(tripID string) chan types.TripAggregate {
	ch := make(chan types.TripAggregate, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[tripID] == nil {
		h.subs[tripID] = make(map[chan types.TripAggregate]bool)
	}
	h.subs[tripID][ch] = true
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(tripID string, ch chan types.TripAggregate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[tripID]; ok {
		if set[ch] {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(h.subs, tripID)
		}
	}
}

// Broadcast delivers an aggregate to every subscriber of its trip. Sends
// never block; a subscriber with a full buffer misses the update and will
// catch up on the next one.
func (h *Hub) Broadcast(tripID string, agg types.TripAggregate) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[tripID] {
		select {
		case ch <- agg:
		default:
		}
	}
}
