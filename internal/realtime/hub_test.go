package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Join("order-1")
	b := hub.Join("order-1")
	other := hub.Join("order-2")

	ev := Event{OrderID: "order-1", Status: "ready", Message: "Your order status is now: ready"}
	hub.Publish("order-1", ev)

	require.Equal(t, ev, <-a.Events())
	require.Equal(t, ev, <-b.Events())
	select {
	case got := <-other.Events():
		t.Fatalf("subscriber of another channel received %+v", got)
	default:
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Publish("nobody-home", Event{OrderID: "nobody-home", Status: "ready"})
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	sub := hub.Join("order-1")
	hub.Leave("order-1", sub)

	hub.Publish("order-1", Event{OrderID: "order-1", Status: "ready"})

	// The subscriber's channel is closed and drained.
	_, open := <-sub.Events()
	require.False(t, open)
}

func TestLeaveTwiceIsSafe(t *testing.T) {
	hub := NewHub()
	sub := hub.Join("order-1")
	hub.Leave("order-1", sub)
	hub.Leave("order-1", sub)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	sub := hub.Join("order-1")

	// Overfill the buffer; extra events are dropped, never blocking.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("order-1", Event{OrderID: "order-1", Status: "preparing"})
	}

	received := 0
	for {
		select {
		case <-sub.Events():
			received++
			continue
		default:
		}
		break
	}
	require.Equal(t, subscriberBuffer, received)
}
