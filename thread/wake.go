package thread

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linanwx/nagochat/bus"
	"github.com/linanwx/nagochat/logger"
)

// Enqueue queues msg for the next turn and pokes the manager.
func (t *Thread) Enqueue(msg *WakeMessage) {
	if msg == nil {
		return
	}
	t.inbox <- msg
	select {
	case t.signal <- struct{}{}:
	default:
	}
}

func (t *Thread) hasMessages() bool {
	if len(t.inbox) > 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.backlog) > 0
}

// pending returns the deferred backlog followed by everything in the inbox,
// oldest first, and clears the backlog.
func (t *Thread) pending() []*WakeMessage {
	t.mu.Lock()
	queued := t.backlog
	t.backlog = nil
	t.mu.Unlock()
	return append(queued, t.drain()...)
}

// drain empties the inbox without blocking.
func (t *Thread) drain() []*WakeMessage {
	var out []*WakeMessage
	for {
		select {
		case m := <-t.inbox:
			out = append(out, m)
		default:
			return out
		}
	}
}

// coalesce folds every queued message from head's source into one turn. The
// reply goes to the newest sink. Messages from other sources keep their order
// and are returned as rest.
func coalesce(head *WakeMessage, queued []*WakeMessage) (turn *WakeMessage, folded int, rest []*WakeMessage) {
	turn = &WakeMessage{Source: head.Source, Message: head.Message, Sink: head.Sink}
	parts := []string{head.Message}
	for _, m := range queued {
		if m.Source != head.Source {
			rest = append(rest, m)
			continue
		}
		parts = append(parts, m.Message)
		turn.Sink = m.Sink
		folded++
	}
	turn.Message = strings.Join(parts, "\n")
	return turn, folded, rest
}

// RunOnce takes the oldest queued message, folds in its followers and runs a
// single turn. Messages it cannot fold wait in the backlog for the next turn.
// It returns immediately when nothing is queued.
func (t *Thread) RunOnce(ctx context.Context) {
	queued := t.pending()
	if len(queued) == 0 {
		return
	}

	msg, folded, rest := coalesce(queued[0], queued[1:])
	t.mu.Lock()
	t.backlog = rest
	t.mu.Unlock()
	if folded > 0 {
		logger.Info("merged wake messages",
			"threadID", t.id,
			"sessionKey", t.sessionKey,
			"source", msg.Source,
			"merged", folded+1,
			"deferred", len(rest),
		)
	}

	reply, err := t.run(ctx, msg)
	if err != nil {
		logger.Error("turn failed", "threadID", t.id, "sessionKey", t.sessionKey, "source", msg.Source, "err", err)
		t.publish(bus.EventReplyFailed, msg.Source, bus.MessageEventData{Error: err.Error()})
		reply = fmt.Sprintf("[Error] %v", err)
	}

	t.mu.Lock()
	t.lastActiveAt = time.Now()
	t.mu.Unlock()

	t.deliver(ctx, msg.Sink, reply)
}

func (t *Thread) deliver(ctx context.Context, sink Sink, reply string) {
	if sink == nil || strings.TrimSpace(reply) == "" {
		return
	}
	if err := sink(ctx, reply); err != nil {
		logger.Error("sink delivery error", "threadID", t.id, "sessionKey", t.sessionKey, "err", err)
	}
}
