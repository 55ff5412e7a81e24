package bus

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesMatchingSubscribers(t *testing.T) {
	b := NewBus(8)
	defer b.Close()

	var completed, failed atomic.Int32
	b.Subscribe(EventReplyCompleted, func(_ context.Context, e *Event) {
		var d MessageEventData
		if err := e.ParseData(&d); err != nil || d.SessionKey != "chat-1" {
			t.Errorf("ParseData = %+v, %v", d, err)
		}
		completed.Add(1)
	})
	b.Subscribe(EventReplyFailed, func(context.Context, *Event) { failed.Add(1) })

	evt, err := NewEvent(EventReplyCompleted, "test", MessageEventData{SessionKey: "chat-1", Text: "hi"})
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if !strings.HasPrefix(evt.ID, "evt-") {
		t.Fatalf("event id = %q", evt.ID)
	}
	if !b.Publish(evt) {
		t.Fatal("Publish returned false")
	}
	waitFor(t, func() bool { return completed.Load() == 1 })
	if failed.Load() != 0 {
		t.Fatal("reply.failed handler ran for reply.completed")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus(8)
	var calls atomic.Int32
	id := b.Subscribe(EventMessageSubmitted, func(context.Context, *Event) { calls.Add(1) })
	b.Unsubscribe(id)
	b.Unsubscribe("sub-missing")

	evt, _ := NewEvent(EventMessageSubmitted, "test", nil)
	b.Publish(evt)
	b.Close()
	if calls.Load() != 0 {
		t.Fatalf("unsubscribed handler ran %d times", calls.Load())
	}
}

func TestCloseDrainsQueuedEvents(t *testing.T) {
	b := NewBus(16)
	var calls atomic.Int32
	b.Subscribe(EventMessageSubmitted, func(context.Context, *Event) { calls.Add(1) })
	for i := 0; i < 5; i++ {
		evt, _ := NewEvent(EventMessageSubmitted, "test", nil)
		b.Publish(evt)
	}
	b.Close()
	if got := calls.Load(); got != 5 {
		t.Fatalf("handled %d events, want 5", got)
	}

	evt, _ := NewEvent(EventMessageSubmitted, "test", nil)
	if b.Publish(evt) {
		t.Fatal("Publish after Close succeeded")
	}
	b.Close()
}

func TestHandlerPanicIsContained(t *testing.T) {
	b := NewBus(4)
	var ok atomic.Bool
	b.Subscribe(EventReplyFailed, func(context.Context, *Event) { panic("boom") })
	b.Subscribe(EventReplyFailed, func(context.Context, *Event) { ok.Store(true) })

	evt, _ := NewEvent(EventReplyFailed, "test", MessageEventData{Error: "x"})
	b.Publish(evt)
	b.Close()
	if !ok.Load() {
		t.Fatal("second handler did not run")
	}
}
