package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/linanwx/nagochat/bus"
	"github.com/linanwx/nagochat/channel"
	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/session"
	"github.com/linanwx/nagochat/thread"
)

// Dispatcher routes channel messages to threads. It is the bridge between
// the channel layer (pure I/O) and the thread layer (async execution).
type Dispatcher struct {
	channels *channel.Manager
	threads  *thread.Manager
	sessions *session.Manager
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(
	channels *channel.Manager,
	threads *thread.Manager,
	sessions *session.Manager,
) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		threads:  threads,
		sessions: sessions,
	}
}

// Run starts a goroutine for each channel that reads messages and dispatches
// them to threads. Blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.channels.Each(func(ch channel.Channel) {
		go d.processChannel(ctx, ch)
	})
	<-ctx.Done()
}

// Subscribe refreshes the chat lists whenever a turn stores messages.
func (d *Dispatcher) Subscribe(events *bus.Bus) {
	refresh := func(_ context.Context, _ *bus.Event) { d.RefreshSessions() }
	events.Subscribe(bus.EventMessageSubmitted, refresh)
	events.Subscribe(bus.EventReplyCompleted, refresh)
	events.Subscribe(bus.EventReplyFailed, refresh)
}

func (d *Dispatcher) processChannel(ctx context.Context, ch channel.Channel) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch.Messages():
			if !ok {
				return
			}
			d.dispatch(ctx, ch, msg)
		}
	}
}

func (d *Dispatcher) dispatch(_ context.Context, ch channel.Channel, msg *channel.Message) {
	if msg == nil {
		return
	}
	sessionKey := d.route(msg)

	if msg.Open {
		d.open(ch, sessionKey)
		return
	}

	logger.Debug("dispatching message",
		"channel", ch.Name(),
		"channelID", msg.ChannelID,
		"session", sessionKey,
		"text", truncate(msg.Text, 50),
	)
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	d.threads.Wake(sessionKey, &thread.WakeMessage{
		Source:  ch.Name(),
		Message: text,
		Sink:    d.buildSink(ch, sessionKey),
	})
}

// route determines the session key for a message.
func (d *Dispatcher) route(msg *channel.Message) string {
	if key := strings.TrimSpace(msg.SessionKey); key != "" {
		return key
	}
	if msg.ChannelID == "" {
		return "main"
	}
	sessionKey := msg.ChannelID
	if msg.UserID != "" {
		sessionKey = msg.ChannelID + ":" + msg.UserID
	}
	return sessionKey
}

// buildSink creates a per-wake sink that delivers the response back to the
// originating channel, tagged with its chat.
func (d *Dispatcher) buildSink(ch channel.Channel, sessionKey string) thread.Sink {
	manager := d.channels
	channelName := ch.Name()
	return func(ctx context.Context, response string) error {
		if strings.TrimSpace(response) == "" {
			return nil
		}
		return manager.SendTo(ctx, channelName, &channel.Response{
			Text:       response,
			SessionKey: sessionKey,
		})
	}
}

// open shows a stored chat on channels that can browse them. An unknown key
// opens as an empty chat.
func (d *Dispatcher) open(ch channel.Channel, sessionKey string) {
	viewer, ok := ch.(channel.SessionViewer)
	if !ok {
		return
	}
	s, err := d.sessions.Peek(sessionKey)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		viewer.ShowTranscript(sessionKey, nil)
	case err != nil:
		logger.Warn("open session failed", "session", sessionKey, "err", err)
	default:
		viewer.ShowTranscript(sessionKey, s.Messages)
	}
}

// RefreshSessions pushes the stored chats to every channel that lists them.
func (d *Dispatcher) RefreshSessions() {
	list, err := d.sessions.List()
	if err != nil {
		logger.Warn("list sessions failed", "err", err)
		return
	}
	infos := make([]channel.SessionInfo, 0, len(list))
	for _, s := range list {
		infos = append(infos, channel.SessionInfo{
			Key:       s.Key,
			Title:     s.Title,
			Preview:   s.Preview(),
			UpdatedAt: s.UpdatedAt,
		})
	}
	d.channels.Each(func(ch channel.Channel) {
		if viewer, ok := ch.(channel.SessionViewer); ok {
			viewer.ShowSessions(infos)
		}
	})
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
