package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/linanwx/nagochat/bus"
)

func TestSendResultDocument(t *testing.T) {
	doc, err := sendResult{
		SessionKey: "chat-1",
		Provider:   "echo",
		Model:      "echo",
		Reply:      "line one\n\"quoted\"",
		Tokens:     12,
	}.document()
	if err != nil {
		t.Fatalf("document() error = %v", err)
	}
	if !gjson.Valid(doc) {
		t.Fatalf("document() = %s, not valid JSON", doc)
	}
	if got := gjson.Get(doc, "reply").String(); got != "line one\n\"quoted\"" {
		t.Fatalf("reply = %q", got)
	}
	if got := gjson.Get(doc, "usage.totalTokens").Int(); got != 12 {
		t.Fatalf("usage.totalTokens = %d", got)
	}
	if gjson.Get(doc, "error").Exists() {
		t.Fatalf("document() = %s, want no error field", doc)
	}
}

func TestSendResultDocumentOnError(t *testing.T) {
	doc, err := sendResult{SessionKey: "chat-1", Error: "boom"}.document()
	if err != nil {
		t.Fatalf("document() error = %v", err)
	}
	if gjson.Get(doc, "reply").Exists() || gjson.Get(doc, "usage").Exists() {
		t.Fatalf("document() = %s, want only session and error", doc)
	}
	if gjson.Get(doc, "error").String() != "boom" || gjson.Get(doc, "session").String() != "chat-1" {
		t.Fatalf("document() = %s", doc)
	}
}

func publishTurn(t *testing.T, events *bus.Bus, typ bus.EventType, data bus.MessageEventData) {
	t.Helper()
	evt, err := bus.NewEvent(typ, "test", data)
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}
	if !events.Publish(evt) {
		t.Fatal("Publish() = false")
	}
}

func TestAwaitTurnFiltersBySession(t *testing.T) {
	events := bus.NewBus(8)
	defer events.Close()
	results := awaitTurn(events, "mine")

	publishTurn(t, events, bus.EventReplyCompleted, bus.MessageEventData{SessionKey: "other", Text: "nope"})
	publishTurn(t, events, bus.EventReplyFailed, bus.MessageEventData{SessionKey: "mine", Provider: "echo"})

	select {
	case res := <-results:
		if res.SessionKey != "mine" || res.Error != "reply failed" || res.Reply != "" {
			t.Fatalf("awaitTurn() = %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("awaitTurn() delivered nothing")
	}
}

func TestAwaitTurnCompleted(t *testing.T) {
	events := bus.NewBus(8)
	defer events.Close()
	results := awaitTurn(events, "mine")
	publishTurn(t, events, bus.EventReplyCompleted, bus.MessageEventData{
		SessionKey: "mine", Text: "answer", Model: "m", Tokens: 3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case res := <-results:
		if res.Reply != "answer" || res.Model != "m" || res.Tokens != 3 || res.Error != "" {
			t.Fatalf("awaitTurn() = %+v", res)
		}
	case <-ctx.Done():
		t.Fatal("awaitTurn() delivered nothing")
	}
}
