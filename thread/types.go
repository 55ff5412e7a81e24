// Package thread runs chat turns. Each session key owns a thread with a wake
// queue; the manager schedules idle threads that have pending messages.
package thread

import (
	"context"
	"sync"
	"time"

	"github.com/linanwx/nagochat/bus"
	"github.com/linanwx/nagochat/provider"
	"github.com/linanwx/nagochat/session"
)

// Sink delivers a thread's reply.
type Sink func(ctx context.Context, response string) error

// WakeMessage is an item in a thread's wake queue.
type WakeMessage struct {
	Source  string // channel name the message came from
	Message string
	Sink    Sink // nil drops the reply
}

// threadState represents the runtime state of a thread.
type threadState int

const (
	threadIdle    threadState = iota // No pending work.
	threadRunning                    // Currently executing.
)

const (
	defaultMaxConcurrency = 4
	defaultInboxSize      = 64
	defaultThreadTTL      = 30 * time.Minute
	defaultTurnTimeout    = 2 * time.Minute
	gcInterval            = 5 * time.Minute

	defaultSystemPrompt = "You are a helpful assistant. Answer in Markdown."

	// emptyReplyText stands in for a reply with no visible content so every
	// turn still reaches its sink.
	emptyReplyText = "(empty reply)"
)

// Config contains shared dependencies for running turns.
type Config struct {
	Provider     provider.Provider
	ProviderName string
	ModelName    string
	SystemPrompt string
	HistoryLimit int           // messages of history sent with each turn; 0 sends all
	TurnTimeout  time.Duration // per provider call
	Sessions     *session.Manager
	Bus          *bus.Bus // optional
}

// Thread is the execution unit for one session key.
type Thread struct {
	id         string
	mgr        *Manager
	sessionKey string

	state  threadState
	wakers int // Wake calls between lookup and enqueue; guarded by Manager.mu
	inbox  chan *WakeMessage
	signal chan struct{} // shared with Manager for notification

	mu           sync.Mutex
	backlog      []*WakeMessage // taken from inbox but deferred to a later turn
	lastActiveAt time.Time
}

// SessionKey returns the key this thread serves.
func (t *Thread) SessionKey() string { return t.sessionKey }

// cfg returns the shared config from the manager.
func (t *Thread) cfg() *Config {
	if t.mgr != nil {
		return t.mgr.cfg
	}
	return &Config{}
}
