package thread

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linanwx/nagochat/bus"
	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/provider"
	"github.com/linanwx/nagochat/tokens"
)

// run executes one turn: persist the user message, ask the provider with the
// session history, persist the reply. Errors are published by RunOnce.
func (t *Thread) run(ctx context.Context, msg *WakeMessage) (string, error) {
	userMessage := strings.TrimSpace(msg.Message)
	if userMessage == "" {
		return "", nil
	}
	cfg := t.cfg()
	if cfg.Provider == nil {
		return "", fmt.Errorf("no provider configured")
	}
	if cfg.Sessions == nil {
		return "", fmt.Errorf("no session store configured")
	}

	sess, err := cfg.Sessions.Get(t.sessionKey)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	history := sess.History(cfg.HistoryLimit)

	// Write-ahead: the user message survives a failed provider call.
	sess.Append(provider.UserMessage(userMessage))
	if err := cfg.Sessions.Save(sess); err != nil {
		logger.Warn("write-ahead save failed", "key", t.sessionKey, "err", err)
	}
	t.publish(bus.EventMessageSubmitted, msg.Source, bus.MessageEventData{Text: userMessage})

	systemPrompt := strings.TrimSpace(cfg.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	messages := make([]provider.Message, 0, len(history)+2)
	messages = append(messages, provider.SystemMessage(systemPrompt))
	messages = append(messages, history...)
	messages = append(messages, provider.UserMessage(userMessage))

	logger.Debug(
		"context estimate",
		"threadID", t.id,
		"sessionKey", t.sessionKey,
		"historyMessages", len(history),
		"requestEstimatedTokens", estimateMessagesTokens(messages),
	)

	callCtx, cancel := context.WithTimeout(ctx, cfg.TurnTimeout)
	defer cancel()
	start := time.Now()
	resp, err := cfg.Provider.Chat(callCtx, &provider.Request{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("provider error: %w", err)
	}

	reply := provider.AssistantMessage(resp.Content)
	reply.ReasoningContent = resp.ReasoningContent
	sess.Append(reply)
	if err := cfg.Sessions.Save(sess); err != nil {
		logger.Warn("session save failed", "key", t.sessionKey, "err", err)
	}

	logger.Info(
		"turn completed",
		"threadID", t.id,
		"sessionKey", t.sessionKey,
		"totalTokens", resp.Usage.TotalTokens,
		"latencyMs", time.Since(start).Milliseconds(),
	)
	t.publish(bus.EventReplyCompleted, msg.Source, bus.MessageEventData{
		Text:   resp.Content,
		Tokens: resp.Usage.TotalTokens,
	})
	if strings.TrimSpace(resp.Content) == "" {
		logger.Warn("provider returned an empty reply", "threadID", t.id, "sessionKey", t.sessionKey)
		return emptyReplyText, nil
	}
	return resp.Content, nil
}

func (t *Thread) publish(typ bus.EventType, source string, data bus.MessageEventData) {
	cfg := t.cfg()
	if cfg.Bus == nil {
		return
	}
	data.SessionKey = t.sessionKey
	data.Channel = source
	data.Provider = cfg.ProviderName
	data.Model = cfg.ModelName
	evt, err := bus.NewEvent(typ, t.id, data)
	if err != nil {
		logger.Warn("event encode failed", "type", typ, "err", err)
		return
	}
	cfg.Bus.Publish(evt)
}

func estimateMessagesTokens(messages []provider.Message) int {
	n := 0
	for _, m := range messages {
		n += tokens.Count(m.Content)
	}
	return n
}
