package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/linanwx/nagochat/bus"
	"github.com/linanwx/nagochat/channel/tui"
	"github.com/linanwx/nagochat/thread"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send one message and print the reply",
	Long: `Send one message through the configured provider without opening the chat
interface. The turn is stored like any other chat.

Examples:
  nagochat send -m "summarise RFC 9110 in three lines"
  nagochat send -m "and now in one" --session work
  nagochat send -m "hello" --json`,
	GroupID: "internal",
	RunE:    runSend,
}

var (
	sendMessage string
	sendSession string
	sendJSON    bool
)

const sendGrace = 10 * time.Second

func init() {
	sendCmd.Flags().StringVarP(&sendMessage, "message", "m", "", "Message text (required)")
	sendCmd.Flags().StringVar(&sendSession, "session", "", "Chat to continue (default: a new chat)")
	sendCmd.Flags().BoolVar(&sendJSON, "json", false, "Print the result as a JSON document")
	_ = sendCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(sendCmd)
}

// sendResult is one finished turn as seen on the bus.
type sendResult struct {
	SessionKey string
	Provider   string
	Model      string
	Reply      string
	Tokens     int
	Error      string
}

func runSend(cmd *cobra.Command, _ []string) error {
	text := strings.TrimSpace(sendMessage)
	if text == "" {
		return fmt.Errorf("--message is empty")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	events := bus.NewBus(eventBufferSize)
	defer events.Close()
	rt, err := buildRuntime(cfg, events)
	if err != nil {
		return err
	}

	key := strings.TrimSpace(sendSession)
	if key == "" {
		key = tui.NewSessionKey()
	}
	results := awaitTurn(events, key)

	timeout := time.Duration(cfg.Chat.TimeoutSeconds)*time.Second + sendGrace
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	threadsDone := make(chan struct{})
	go func() {
		defer close(threadsDone)
		rt.threads.Run(ctx)
	}()

	rt.threads.Wake(key, &thread.WakeMessage{Source: "send", Message: text})

	var res sendResult
	select {
	case res = <-results:
	case <-ctx.Done():
		res = sendResult{SessionKey: key, Error: "timed out waiting for reply"}
	}
	cancel()
	<-threadsDone

	out := cmd.OutOrStdout()
	if sendJSON {
		doc, err := res.document()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, doc)
	} else if res.Error == "" {
		fmt.Fprintln(out, res.Reply)
	}
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

// awaitTurn returns a channel that receives the first completed or failed
// turn for sessionKey.
func awaitTurn(events *bus.Bus, sessionKey string) <-chan sendResult {
	results := make(chan sendResult, 1)
	handler := func(_ context.Context, evt *bus.Event) {
		var data bus.MessageEventData
		if err := evt.ParseData(&data); err != nil || data.SessionKey != sessionKey {
			return
		}
		res := sendResult{
			SessionKey: data.SessionKey,
			Provider:   data.Provider,
			Model:      data.Model,
			Tokens:     data.Tokens,
		}
		if evt.Type == bus.EventReplyFailed {
			res.Error = data.Error
			if res.Error == "" {
				res.Error = "reply failed"
			}
		} else {
			res.Reply = data.Text
		}
		select {
		case results <- res:
		default:
		}
	}
	events.Subscribe(bus.EventReplyCompleted, handler)
	events.Subscribe(bus.EventReplyFailed, handler)
	return results
}

// document renders r as JSON. Empty fields are left out.
func (r sendResult) document() (string, error) {
	doc := `{}`
	set := func(path string, v any) error {
		var err error
		doc, err = sjson.Set(doc, path, v)
		return err
	}
	fields := []struct {
		path  string
		value any
		skip  bool
	}{
		{"session", r.SessionKey, false},
		{"provider", r.Provider, r.Provider == ""},
		{"model", r.Model, r.Model == ""},
		{"reply", r.Reply, r.Error != ""},
		{"usage.totalTokens", r.Tokens, r.Tokens == 0},
		{"error", r.Error, r.Error == ""},
	}
	for _, f := range fields {
		if f.skip {
			continue
		}
		if err := set(f.path, f.value); err != nil {
			return "", fmt.Errorf("encode %s: %w", f.path, err)
		}
	}
	return doc, nil
}
