package channel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/linanwx/nagochat/channel/tui"
	"github.com/linanwx/nagochat/logger"
)

const (
	cliMessageBufferSize = 10
	cliStopWaitTimeout   = 500 * time.Millisecond
	cliPrompt            = "nagochat> "
	cliNewChatCommand    = "/new"
)

// NewCLIChannel returns the TUI channel when stdin is a terminal and a
// line-oriented channel for pipes and redirected input.
func NewCLIChannel(opts tui.Options) Channel {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return NewTUIChannel(opts)
	}
	return newPlainCLIChannel(os.Stdin, os.Stdout, opts.SessionKey)
}

// plainCLIChannel treats each input line as one message and waits for its
// reply before prompting again. "/new" switches to a fresh chat.
type plainCLIChannel struct {
	in  io.Reader
	out io.Writer

	key      atomic.Value // string
	seq      atomic.Int64
	awaiting atomic.Bool
	replied  chan struct{}

	messages chan *Message
	stop     chan struct{}
	finished chan struct{}
	reader   sync.WaitGroup
	stopOnce sync.Once
}

func newPlainCLIChannel(in io.Reader, out io.Writer, sessionKey string) *plainCLIChannel {
	if sessionKey == "" {
		sessionKey = tui.NewSessionKey()
	}
	c := &plainCLIChannel{
		in:       in,
		out:      out,
		replied:  make(chan struct{}, 1),
		messages: make(chan *Message, cliMessageBufferSize),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	c.key.Store(sessionKey)
	return c
}

func (c *plainCLIChannel) sessionKeyNow() string { return c.key.Load().(string) }

func (c *plainCLIChannel) Name() string { return "cli" }

// Done is closed once input ends or the user quits.
func (c *plainCLIChannel) Done() <-chan struct{} { return c.finished }

func (c *plainCLIChannel) Messages() <-chan *Message { return c.messages }

func (c *plainCLIChannel) Start(ctx context.Context) error {
	logger.Info("cli channel started", "mode", "plain", "session", c.sessionKeyNow())
	c.reader.Add(1)
	go func() {
		defer close(c.finished)
		defer c.reader.Done()
		c.readLoop(ctx)
	}()
	return nil
}

func (c *plainCLIChannel) Stop() error {
	c.stopOnce.Do(func() {
		close(c.stop)
		waited := make(chan struct{})
		go func() {
			c.reader.Wait()
			close(waited)
		}()
		select {
		case <-waited:
			close(c.messages)
		case <-time.After(cliStopWaitTimeout):
			logger.Warn("cli channel stop timed out waiting for input loop")
		}
		logger.Info("cli channel stopped")
	})
	return nil
}

// Send prints a reply. The prompt is only reprinted for replies nobody is
// waiting on; otherwise the read loop prints it.
func (c *plainCLIChannel) Send(_ context.Context, resp *Response) error {
	fmt.Fprintf(c.out, "\n%s\n\n", resp.Text)
	if !c.awaiting.CompareAndSwap(true, false) {
		fmt.Fprint(c.out, cliPrompt)
		return nil
	}
	select {
	case c.replied <- struct{}{}:
	default:
	}
	return nil
}

func (c *plainCLIChannel) readLoop(ctx context.Context) {
	scanner := bufio.NewScanner(c.in)
	for c.alive(ctx) {
		fmt.Fprint(c.out, cliPrompt)
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
			continue
		case isQuitCommand(text):
			fmt.Fprintln(c.out, "Goodbye!")
			return
		case text == cliNewChatCommand:
			c.key.Store(tui.NewSessionKey())
			fmt.Fprintf(c.out, "Started chat %s\n", c.sessionKeyNow())
			continue
		}
		if !c.exchange(ctx, c.newMessage(text)) {
			return
		}
	}
}

// exchange hands msg to the dispatcher and blocks until its reply is printed.
// It reports false when the channel is shutting down.
func (c *plainCLIChannel) exchange(ctx context.Context, msg *Message) bool {
	select {
	case <-c.replied:
	default:
	}
	c.awaiting.Store(true)

	select {
	case c.messages <- msg:
	case <-c.stop:
		c.awaiting.Store(false)
		return false
	case <-ctx.Done():
		c.awaiting.Store(false)
		return false
	}

	select {
	case <-c.replied:
		return true
	case <-c.stop:
	case <-ctx.Done():
	}
	c.awaiting.Store(false)
	return false
}

func (c *plainCLIChannel) newMessage(text string) *Message {
	return &Message{
		ID:         fmt.Sprintf("cli-%d", c.seq.Add(1)),
		ChannelID:  "cli:local",
		SessionKey: c.sessionKeyNow(),
		UserID:     "local",
		Username:   os.Getenv("USER"),
		Text:       text,
		Metadata:   make(map[string]string),
	}
}

func (c *plainCLIChannel) alive(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.stop:
		return false
	default:
		return true
	}
}
