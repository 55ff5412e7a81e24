// Package bus is an in-process async event bus. Threads publish message
// lifecycle events; the chat list refresher and the send command consume
// them.
package bus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event.
type EventType string

const (
	EventMessageSubmitted EventType = "message.submitted"
	EventReplyCompleted   EventType = "reply.completed"
	EventReplyFailed      EventType = "reply.failed"
)

// Event represents a bus event.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewEvent creates an event with data encoded as JSON.
func NewEvent(eventType EventType, source string, data any) (*Event, error) {
	var raw json.RawMessage
	if data != nil {
		var err error
		raw, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}
	return &Event{
		ID:        "evt-" + uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now(),
		Data:      raw,
	}, nil
}

// ParseData unmarshals the event data into v.
func (e *Event) ParseData(v any) error {
	if e.Data == nil {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// MessageEventData describes one turn of a chat.
type MessageEventData struct {
	SessionKey string `json:"session_key"`
	Channel    string `json:"channel"`
	Text       string `json:"text,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	Tokens     int    `json:"tokens,omitempty"`
	Error      string `json:"error,omitempty"`
}
