package realtime

import "sync"

// Event is the payload delivered to clients watching an order.
type Event struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

const subscriberBuffer = 16

// Subscriber receives events for one channel until it leaves.
type Subscriber struct {
	events chan Event
}

func (s *Subscriber) Events() <-chan Event { return s.events }

// Hub fans order events out to the clients subscribed to that order's
// channel. Delivery is best-effort and at-most-once: nobody subscribed at
// publish time means the event is gone, and a subscriber whose buffer is
// full misses the event rather than stalling the publisher. Clients that
// need the current state re-query the order through the read path.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{channels: make(map[string]map[*Subscriber]struct{})}
}

func (h *Hub) Join(channelID string) *Subscriber {
	sub := &Subscriber{events: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	subs := h.channels[channelID]
	if subs == nil {
		subs = make(map[*Subscriber]struct{})
		h.channels[channelID] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Leave removes the subscriber and closes its event channel. Publish
// sends under the read lock, so closing here cannot race a send.
func (h *Hub) Leave(channelID string, sub *Subscriber) {
	h.mu.Lock()
	if subs, ok := h.channels[channelID]; ok {
		if _, member := subs[sub]; member {
			delete(subs, sub)
			close(sub.events)
		}
		if len(subs) == 0 {
			delete(h.channels, channelID)
		}
	}
	h.mu.Unlock()
}

// Publish delivers ev to every current subscriber of the channel.
// Publishing to a channel nobody joined is a no-op.
func (h *Hub) Publish(channelID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.channels[channelID] {
		select {
		case sub.events <- ev:
		default:
			// slow subscriber, drop
		}
	}
}
