package changefeed

import (
	"sync"

	"github.com/serenatasalon/booking-api/pkg/logging"
)

const subscriberBuffer = 16

// Hub fans change events out to in-process subscribers: websocket sessions,
// the catalog cache invalidator, metrics. Subscribers that fall behind have
// events dropped rather than blocking the feed; a dropped event is safe
// because every consumer recomputes from the store on the next event.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	logger *logging.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{subs: make(map[int]chan Event), logger: logger}
}

// Subscribe registers a listener. The returned cancel func must be called on
// teardown or the subscription leaks.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if ch, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (h *Hub) Publish(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.logger.Warn("change feed subscriber lagging, event dropped",
				"subscriber", id, "table", evt.Table, "action", evt.Action)
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
