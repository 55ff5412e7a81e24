package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linanwx/nagochat/logger"
)

const anthropicDefaultMaxTokens = 4096

func init() {
	RegisterProvider("anthropic", ProviderRegistration{
		Models:   []string{"claude-sonnet-4-5", "claude-opus-4-1", "claude-haiku-4-5"},
		EnvKey:   "ANTHROPIC_API_KEY",
		EnvBase:  "ANTHROPIC_API_BASE",
		NeedsKey: true,
		Constructor: func(s Settings) Provider {
			return newAnthropicProvider(s)
		},
	})
}

// AnthropicProvider implements Provider with the Messages API.
type AnthropicProvider struct {
	modelName   string
	modelType   string
	maxTokens   int
	temperature float64
	client      anthropic.Client
}

func newAnthropicProvider(s Settings) *AnthropicProvider {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(s.APIKey),
		anthropicoption.WithMaxRetries(sdkMaxRetries),
	}
	if base := strings.TrimSpace(s.APIBase); base != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	return &AnthropicProvider{
		modelName:   modelNameOr(s),
		modelType:   s.ModelType,
		maxTokens:   maxTokens,
		temperature: s.Temperature,
		client:      anthropic.NewClient(opts...),
	}
}

// toAnthropicMessages splits system prompts out; the Messages API takes them
// as a separate parameter.
func toAnthropicMessages(messages []Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam, error) {
	var system []anthropic.TextBlockParam
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case "user":
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case "assistant":
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			return nil, nil, fmt.Errorf("unsupported role %q", m.Role)
		}
	}
	return system, out, nil
}

// Chat sends a Messages API request.
func (p *AnthropicProvider) Chat(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	system, messages, err := toAnthropicMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	logger.Info(
		"chat request",
		"provider", "anthropic",
		"modelName", p.modelName,
		"messages", len(messages),
		"inputChars", inputChars(req.Messages),
	)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.modelName),
		MaxTokens: int64(p.maxTokens),
		Messages:  messages,
		System:    system,
	}
	if p.temperature != 0 {
		params.Temperature = anthropic.Float(p.temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("chat request error", "provider", "anthropic", "err", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	var text, thinking []string
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			text = append(text, block.Text)
		case "thinking":
			thinking = append(thinking, block.Thinking)
		}
	}
	if len(text) == 0 {
		return nil, fmt.Errorf("no text in response (stop reason %s)", msg.StopReason)
	}

	usage := Usage{
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

	logger.Info(
		"chat response",
		"provider", "anthropic",
		"modelName", p.modelName,
		"stopReason", msg.StopReason,
		"promptTokens", usage.PromptTokens,
		"completionTokens", usage.CompletionTokens,
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return &Response{
		Content:          strings.Join(text, ""),
		ReasoningContent: strings.Join(thinking, "\n"),
		Usage:            usage,
	}, nil
}
