package websocket

import (
	"encoding/json"
	"testing"

	"github.com/frostpaw/icechase/game/engine"
)

func newTestClient(h *Hub, matchID string) *Client {
	return &Client{
		hub:     h,
		send:    make(chan []byte, sendBufferSize),
		matchID: matchID,
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, "m1")

	h.registerClient(c)
	if len(h.matches["m1"]) != 1 {
		t.Fatalf("expected 1 registered client, got %d", len(h.matches["m1"]))
	}

	h.unregisterClient(c)
	if _, ok := h.matches["m1"]; ok {
		t.Error("expected empty match entry removed")
	}
	if _, open := <-c.send; open {
		t.Error("expected send channel closed on unregister")
	}

	// Unregistering twice is a no-op.
	h.unregisterClient(c)
}

func TestHub_BroadcastScopedToMatch(t *testing.T) {
	h := NewHub()
	observer := newTestClient(h, "m1")
	bystander := newTestClient(h, "m2")
	h.registerClient(observer)
	h.registerClient(bystander)

	h.broadcastMessage(&Message{
		MatchID: "m1",
		Event:   engine.Event{Type: engine.EventUpdateTime, Payload: engine.TimeUpdate{Remaining: 42}},
	})

	select {
	case data := <-observer.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("broadcast is not valid JSON: %v", err)
		}
		if msg.MatchID != "m1" || msg.Event.Type != engine.EventUpdateTime {
			t.Errorf("unexpected message %+v", msg)
		}
	default:
		t.Fatal("observer received no message")
	}

	select {
	case <-bystander.send:
		t.Error("bystander of another match must not receive the event")
	default:
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := NewHub()
	c := &Client{hub: h, send: make(chan []byte), matchID: "m1"}
	h.registerClient(c)

	// The unbuffered channel rejects the send; the hub drops the client.
	h.broadcastMessage(&Message{MatchID: "m1", Event: engine.Event{Type: engine.EventEnd}})

	if _, ok := h.matches["m1"]; ok {
		t.Error("expected slow client unregistered")
	}
}

func TestHub_BroadcastEncodingFailureDegradesToErrorEvent(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, "m1")
	h.registerClient(c)

	// Channels cannot be marshaled; observers still get an error event.
	h.broadcastMessage(&Message{
		MatchID: "m1",
		Event:   engine.Event{Type: engine.EventUpdateAll, Payload: make(chan int)},
	})

	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("fallback is not valid JSON: %v", err)
		}
		if msg.MatchID != "m1" || msg.Event.Type != engine.EventError {
			t.Errorf("unexpected fallback message %+v", msg)
		}
	default:
		t.Fatal("observer received no fallback message")
	}
}

func TestHub_NotifierFor(t *testing.T) {
	h := NewHub()
	notifier := h.NotifierFor("m1")

	notifier.Notify(engine.Event{Type: engine.EventEnd, Payload: engine.EndUpdate{Reason: engine.EndReasonWin}})

	select {
	case msg := <-h.broadcast:
		if msg.MatchID != "m1" || msg.Event.Type != engine.EventEnd {
			t.Errorf("unexpected queued message %+v", msg)
		}
	default:
		t.Fatal("expected event queued on the hub")
	}
}

func TestHub_NotifierForDropsWhenFull(t *testing.T) {
	h := NewHub()
	notifier := h.NotifierFor("m1")

	// Fill the hub queue; the overflowing event is dropped, never blocking
	// the board.
	for i := 0; i < sendBufferSize+10; i++ {
		notifier.Notify(engine.Event{Type: engine.EventUpdateTime})
	}
	if len(h.broadcast) != sendBufferSize {
		t.Errorf("expected a full queue of %d, got %d", sendBufferSize, len(h.broadcast))
	}
}
