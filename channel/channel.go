// Package channel provides messaging channel interfaces and implementations.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/provider"
)

// ErrChannelNotFound is returned by Manager.SendTo for unknown names.
var ErrChannelNotFound = errors.New("channel not found")

// Message represents an incoming message from a channel.
type Message struct {
	ID         string            // Unique message ID
	ChannelID  string            // Channel identifier (e.g., "cli:local")
	SessionKey string            // Chat the message belongs to
	UserID     string            // User identifier
	Username   string            // Human-readable username
	Text       string            // Message text
	Open       bool              // Request to show SessionKey rather than send Text
	Metadata   map[string]string // Channel-specific metadata
}

// Response represents a response to send back.
type Response struct {
	Text       string // Response text
	SessionKey string // Chat the response belongs to
}

// Channel is the interface for messaging channels.
type Channel interface {
	// Name returns the channel name (e.g., "cli").
	Name() string

	// Start begins listening for messages.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the channel.
	Stop() error

	// Send sends a response message.
	Send(ctx context.Context, resp *Response) error

	// Messages returns a channel for receiving incoming messages.
	Messages() <-chan *Message
}

// SessionInfo summarises a stored chat for channels that list them.
type SessionInfo struct {
	Key       string
	Title     string
	Preview   string
	UpdatedAt time.Time
}

// SessionViewer is implemented by channels that can browse stored chats.
type SessionViewer interface {
	ShowSessions(sessions []SessionInfo)
	ShowTranscript(key string, messages []provider.Message)
}

// Manager manages multiple channels as a pure registry.
type Manager struct {
	channels map[string]Channel
}

// NewManager creates a new channel manager.
func NewManager() *Manager {
	return &Manager{
		channels: make(map[string]Channel),
	}
}

// Register adds a channel to the manager and logs it. Nil is silently ignored.
func (m *Manager) Register(ch Channel) {
	if ch == nil {
		return
	}
	m.channels[ch.Name()] = ch
	logger.Info("channel registered", "channel", ch.Name())
}

// Get returns a channel by name.
func (m *Manager) Get(name string) (Channel, bool) {
	ch, ok := m.channels[name]
	return ch, ok
}

// SendTo sends a text message to a named channel.
func (m *Manager) SendTo(ctx context.Context, channelName string, resp *Response) error {
	ch, ok := m.channels[channelName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, channelName)
	}
	return ch.Send(ctx, resp)
}

// StartAll starts all registered channels in name order.
func (m *Manager) StartAll(ctx context.Context) error {
	for _, name := range m.names() {
		if err := m.channels[name].Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", name, err)
		}
	}
	return nil
}

// StopAll stops all registered channels, returning the first error.
func (m *Manager) StopAll() error {
	var first error
	for _, name := range m.names() {
		if err := m.channels[name].Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Each iterates over all registered channels.
func (m *Manager) Each(fn func(Channel)) {
	for _, name := range m.names() {
		fn(m.channels[name])
	}
}

func (m *Manager) names() []string {
	names := make([]string, 0, len(m.channels))
	for name := range m.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isQuitCommand reports whether text asks the interactive channel to exit.
func isQuitCommand(text string) bool {
	switch text {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}
