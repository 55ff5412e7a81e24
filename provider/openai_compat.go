package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	oaioption "github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/tidwall/gjson"

	"github.com/linanwx/nagochat/logger"
)

const (
	sdkMaxRetries = 2

	openAIAPIBase     = "https://api.openai.com/v1"
	deepSeekAPIBase   = "https://api.deepseek.com/v1"
	openRouterAPIBase = "https://openrouter.ai/api/v1"
)

func init() {
	RegisterProvider("openai", ProviderRegistration{
		Models:   []string{"gpt-5.2", "gpt-4.1", "gpt-4o-mini"},
		EnvKey:   "OPENAI_API_KEY",
		EnvBase:  "OPENAI_API_BASE",
		NeedsKey: true,
		Constructor: func(s Settings) Provider {
			return newOpenAICompatProvider("openai", openAIAPIBase, s)
		},
	})
	RegisterProvider("deepseek", ProviderRegistration{
		Models:   []string{"deepseek-chat", "deepseek-reasoner"},
		EnvKey:   "DEEPSEEK_API_KEY",
		EnvBase:  "DEEPSEEK_API_BASE",
		NeedsKey: true,
		Constructor: func(s Settings) Provider {
			return newOpenAICompatProvider("deepseek", deepSeekAPIBase, s)
		},
	})
	RegisterProvider("openrouter", ProviderRegistration{
		Models:   []string{"moonshotai/kimi-k2.5", "anthropic/claude-sonnet-4.5", "google/gemini-2.5-pro"},
		EnvKey:   "OPENROUTER_API_KEY",
		EnvBase:  "OPENROUTER_API_BASE",
		NeedsKey: true,
		Constructor: func(s Settings) Provider {
			p := newOpenAICompatProvider("openrouter", openRouterAPIBase, s)
			p.requestOpts = []oaioption.RequestOption{
				oaioption.WithHeader("HTTP-Referer", "https://github.com/linanwx/nagochat"),
				oaioption.WithHeader("X-Title", "nagochat"),
				oaioption.WithJSONSet("reasoning.enabled", true),
			}
			return p
		},
	})
}

// OpenAICompatProvider talks to any chat-completions endpoint through the
// official openai-go SDK.
type OpenAICompatProvider struct {
	providerName string
	apiBase      string
	modelName    string
	modelType    string
	maxTokens    int
	temperature  float64
	client       openai.Client
	requestOpts  []oaioption.RequestOption
}

func newOpenAICompatProvider(providerName, defaultBase string, s Settings) *OpenAICompatProvider {
	baseURL := normalizeSDKBaseURL(s.APIBase, defaultBase, "/chat/completions")
	client := openai.NewClient(
		oaioption.WithAPIKey(s.APIKey),
		oaioption.WithBaseURL(baseURL),
		oaioption.WithMaxRetries(sdkMaxRetries),
	)
	return &OpenAICompatProvider{
		providerName: providerName,
		apiBase:      baseURL,
		modelName:    modelNameOr(s),
		modelType:    s.ModelType,
		maxTokens:    s.MaxTokens,
		temperature:  s.Temperature,
		client:       client,
	}
}

// normalizeSDKBaseURL accepts either an API root or a full endpoint URL and
// returns the root the SDK expects.
func normalizeSDKBaseURL(apiBase, defaultBase, endpoint string) string {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		base = defaultBase
	}
	base = strings.TrimRight(base, "/")
	base = strings.TrimSuffix(base, endpoint)
	return base + "/"
}

func toOpenAIChatMessages(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "user":
			out = append(out, openai.UserMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			return nil, fmt.Errorf("unsupported role %q", m.Role)
		}
	}
	return out, nil
}

// extractReasoning pulls reasoning text out of a raw assistant message. The
// field name depends on the upstream: deepseek uses reasoning_content,
// openrouter uses reasoning, minimax-style APIs use reasoning_details[].text.
func extractReasoning(rawMessage string) string {
	if rawMessage == "" || !gjson.Valid(rawMessage) {
		return ""
	}
	for _, path := range []string{"reasoning_content", "reasoning"} {
		if v := gjson.Get(rawMessage, path); v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	var parts []string
	for _, d := range gjson.Get(rawMessage, "reasoning_details.#.text").Array() {
		if s := strings.TrimSpace(d.String()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Chat sends a chat completion request.
func (p *OpenAICompatProvider) Chat(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	messages, err := toOpenAIChatMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	logger.Info(
		"chat request",
		"provider", p.providerName,
		"modelType", p.modelType,
		"modelName", p.modelName,
		"messages", len(messages),
		"inputChars", inputChars(req.Messages),
	)

	chatReq := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.modelName),
		Messages: messages,
	}
	if p.maxTokens > 0 {
		chatReq.MaxTokens = openai.Int(int64(p.maxTokens))
	}
	if p.temperature != 0 {
		chatReq.Temperature = openai.Float(p.temperature)
	}

	chatResp, err := p.client.Chat.Completions.New(ctx, chatReq, p.requestOpts...)
	if err != nil {
		logger.Error("chat request error", "provider", p.providerName, "err", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		logger.Error("chat response has no choices", "provider", p.providerName)
		return nil, fmt.Errorf("no choices in response")
	}

	choice := chatResp.Choices[0]
	reasoningText := extractReasoning(choice.Message.RawJSON())
	content := choice.Message.Content
	if strings.TrimSpace(content) == "" && reasoningText != "" {
		logger.Warn("response content empty, using reasoning text fallback", "provider", p.providerName)
		content = reasoningText
	}

	logger.Info(
		"chat response",
		"provider", p.providerName,
		"modelName", p.modelName,
		"finishReason", choice.FinishReason,
		"reasoningInResponse", reasoningText != "",
		"promptTokens", chatResp.Usage.PromptTokens,
		"completionTokens", chatResp.Usage.CompletionTokens,
		"totalTokens", chatResp.Usage.TotalTokens,
		"outputChars", len(content),
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return &Response{
		Content:          content,
		ReasoningContent: reasoningText,
		Usage: Usage{
			PromptTokens:     int(chatResp.Usage.PromptTokens),
			CompletionTokens: int(chatResp.Usage.CompletionTokens),
			TotalTokens:      int(chatResp.Usage.TotalTokens),
		},
	}, nil
}
