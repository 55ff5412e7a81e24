package channel

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/nagochat/channel/tui"
	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/provider"
)

const (
	tuiMessageBufferSize = 64
	tuiLogBufferSize     = 256
)

// TUIChannel implements Channel with the bubbletea chat interface.
type TUIChannel struct {
	opts        tui.Options
	programOpts []tea.ProgramOption
	app         *tui.App
	program     *tea.Program
	messages    chan *Message
	logLines    chan string
	done        chan struct{} // closed by Stop
	finished    chan struct{} // closed when the program exits
	wg          sync.WaitGroup
	msgID       atomic.Int64
	stopOnce    sync.Once
}

// NewTUIChannel creates the interactive channel. Options are passed to
// tui.NewApp.
func NewTUIChannel(opts tui.Options) *TUIChannel {
	return &TUIChannel{
		opts:        opts,
		programOpts: []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()},
		messages:    make(chan *Message, tuiMessageBufferSize),
		logLines:    make(chan string, tuiLogBufferSize),
		done:        make(chan struct{}),
		finished:    make(chan struct{}),
	}
}

// WithProgramOptions replaces the bubbletea program options used by Start.
func (c *TUIChannel) WithProgramOptions(opts ...tea.ProgramOption) *TUIChannel {
	c.programOpts = opts
	return c
}

func (c *TUIChannel) Name() string { return "cli" }

// Done is closed when the TUI exits.
func (c *TUIChannel) Done() <-chan struct{} { return c.finished }

func (c *TUIChannel) Start(ctx context.Context) error {
	c.app = tui.NewApp(c.opts)
	c.program = tea.NewProgram(c.app, c.programOpts...)

	// Log records may come from inside Update, so they are queued and pumped
	// into the program from a separate goroutine.
	logger.Intercept(logger.NewLineWriter(func(line string) {
		if line == "" {
			return
		}
		select {
		case c.logLines <- line:
		default:
		}
	}))
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case line := <-c.logLines:
				c.program.Send(tui.LogLineMsg{Line: line})
			case <-c.finished:
				return
			case <-c.done:
				return
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.finished)
		if _, err := c.program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case <-c.finished:
				return
			case in := <-c.app.InputCh:
				if isQuitCommand(strings.TrimSpace(in.Text)) {
					c.program.Quit()
					return
				}
				select {
				case c.messages <- c.toMessage(in):
				case <-c.done:
					return
				}
			}
		}
	}()

	logger.Info("cli channel started (TUI mode)", "session", c.opts.SessionKey)
	return nil
}

func (c *TUIChannel) toMessage(in tui.Input) *Message {
	id := c.msgID.Add(1)
	return &Message{
		ID:         fmt.Sprintf("cli-%d", id),
		ChannelID:  "cli:local",
		SessionKey: in.SessionKey,
		UserID:     "local",
		Username:   os.Getenv("USER"),
		Text:       in.Text,
		Open:       in.Open,
		Metadata:   make(map[string]string),
	}
}

func (c *TUIChannel) Stop() error {
	c.stopOnce.Do(func() {
		close(c.done)
		if c.program != nil {
			c.program.Quit()
		}
		c.wg.Wait()
		logger.Restore()
		close(c.messages)
		logger.Info("cli channel stopped")
	})
	return nil
}

func (c *TUIChannel) Send(_ context.Context, resp *Response) error {
	if c.program == nil {
		return nil
	}
	c.program.Send(tui.ChatMsg{SessionKey: resp.SessionKey, Text: resp.Text})
	return nil
}

func (c *TUIChannel) Messages() <-chan *Message {
	return c.messages
}

// ShowSessions refreshes the chat list.
func (c *TUIChannel) ShowSessions(sessions []SessionInfo) {
	if c.program == nil {
		return
	}
	c.program.Send(tui.SessionsMsg{Sessions: toSummaries(sessions)})
}

// ShowTranscript replaces the conversation panel with a stored chat.
func (c *TUIChannel) ShowTranscript(key string, messages []provider.Message) {
	if c.program == nil {
		return
	}
	c.program.Send(toTranscript(key, messages))
}

func toSummaries(sessions []SessionInfo) []tui.SessionSummary {
	out := make([]tui.SessionSummary, len(sessions))
	for i, s := range sessions {
		out[i] = tui.SessionSummary{Key: s.Key, Title: s.Title, Preview: s.Preview, UpdatedAt: s.UpdatedAt}
	}
	return out
}

func toTranscript(key string, messages []provider.Message) tui.TranscriptMsg {
	msg := tui.TranscriptMsg{SessionKey: key}
	for _, m := range messages {
		switch m.Role {
		case "user":
			msg.Messages = append(msg.Messages, tui.ChatMsg{Text: m.Content, IsUser: true})
		case "assistant":
			msg.Messages = append(msg.Messages, tui.ChatMsg{Text: m.Content})
		}
	}
	return msg
}
