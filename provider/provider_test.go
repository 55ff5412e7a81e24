package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
)

func TestRegistry(t *testing.T) {
	names := SupportedProviders()
	for _, want := range []string{"anthropic", "deepseek", "echo", "openai", "openrouter"} {
		if !slices.Contains(names, want) {
			t.Fatalf("SupportedProviders() = %v, missing %s", names, want)
		}
	}
	if err := ValidateProviderModelType("deepseek", "deepseek-reasoner"); err != nil {
		t.Fatalf("ValidateProviderModelType() error = %v", err)
	}
	if err := ValidateProviderModelType("deepseek", "gpt-4.1"); err == nil {
		t.Fatal("gpt-4.1 should not be valid for deepseek")
	}
	if err := ValidateProviderModelType("nope", "echo"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("err = %v, want ErrUnknownProvider", err)
	}
	if got := SupportedModelsForProvider("missing"); got != nil {
		t.Fatalf("SupportedModelsForProvider(missing) = %v", got)
	}
	if !NeedsAPIKey("anthropic") || NeedsAPIKey("echo") || NeedsAPIKey("missing") {
		t.Fatal("NeedsAPIKey() disagrees with registrations")
	}
}

func TestNew(t *testing.T) {
	if _, err := New("nope", Settings{}); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("New(nope) err = %v, want ErrUnknownProvider", err)
	}
	if _, err := New("openai", Settings{ModelType: "gpt-4.1"}); err == nil {
		t.Fatal("New(openai) without key should fail")
	}
	p, err := New("echo", Settings{})
	if err != nil {
		t.Fatalf("New(echo) error = %v", err)
	}
	resp, err := p.Chat(context.Background(), &Request{Messages: []Message{
		SystemMessage("be brief"),
		UserMessage("first"),
		AssistantMessage("ok"),
		UserMessage("hello there"),
	}})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Content != "hello there" || resp.Usage.TotalTokens != 4 {
		t.Fatalf("Chat() = %+v", resp)
	}
}

func TestEchoHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (EchoProvider{}).Chat(ctx, &Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNormalizeSDKBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "https://api.deepseek.com/v1/"},
		{"https://proxy.local/v1/", "https://proxy.local/v1/"},
		{"https://proxy.local/v1/chat/completions", "https://proxy.local/v1/"},
	}
	for _, tt := range tests {
		if got := normalizeSDKBaseURL(tt.in, deepSeekAPIBase, "/chat/completions"); got != tt.want {
			t.Errorf("normalizeSDKBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractReasoning(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "empty", raw: "", expected: ""},
		{name: "invalid json", raw: "{", expected: ""},
		{name: "no reasoning", raw: `{"role":"assistant","content":"hello"}`, expected: ""},
		{name: "deepseek", raw: `{"content":"x","reasoning_content":"think first"}`, expected: "think first"},
		{name: "openrouter", raw: `{"content":"x","reasoning":" pondering "}`, expected: "pondering"},
		{name: "details", raw: `{"reasoning_details":[{"text":"Step 1"},{"text":"  "},{"text":"Step 2"}]}`, expected: "Step 1\nStep 2"},
		{name: "null reasoning falls through", raw: `{"reasoning":null,"reasoning_details":[{"text":"d"}]}`, expected: "d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractReasoning(tt.raw); got != tt.expected {
				t.Errorf("extractReasoning() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// captureServer records the request body and answers with reply.
func captureServer(t *testing.T, reply any, captured *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
			w.WriteHeader(500)
			return
		}
		if err := json.Unmarshal(body, captured); err != nil {
			t.Errorf("failed to parse request body: %v", err)
			w.WriteHeader(500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAICompatChat(t *testing.T) {
	var captured map[string]any
	server := captureServer(t, map[string]any{
		"id":      "test-id",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "deepseek-reasoner",
		"choices": []map[string]any{{
			"index": 0,
			"message": map[string]any{
				"role":              "assistant",
				"content":           "The answer is 2.",
				"reasoning_content": "1+1 = 2.",
			},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}, &captured)

	p, err := New("deepseek", Settings{
		APIKey: "test-key", APIBase: server.URL, ModelType: "deepseek-reasoner",
		MaxTokens: 256, Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	resp, err := p.Chat(context.Background(), &Request{Messages: []Message{
		SystemMessage("sys"), UserMessage("What is 1+1?"),
	}})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Content != "The answer is 2." || resp.ReasoningContent != "1+1 = 2." {
		t.Fatalf("Chat() = %+v", resp)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Fatalf("Usage = %+v", resp.Usage)
	}
	if captured["model"] != "deepseek-reasoner" || captured["max_tokens"] != float64(256) {
		t.Fatalf("request body = %v", captured)
	}
	if msgs, _ := captured["messages"].([]any); len(msgs) != 2 {
		t.Fatalf("request messages = %v", captured["messages"])
	}
}

func TestOpenRouterSetsReasoningFlag(t *testing.T) {
	var captured map[string]any
	server := captureServer(t, map[string]any{
		"id": "x", "object": "chat.completion", "created": 1, "model": "m",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": ""},
			"finish_reason": "stop",
		}},
	}, &captured)

	p, _ := New("openrouter", Settings{APIKey: "k", APIBase: server.URL, ModelType: "moonshotai/kimi-k2.5"})
	if _, err := p.Chat(context.Background(), &Request{Messages: []Message{UserMessage("hi")}}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	reasoning, _ := captured["reasoning"].(map[string]any)
	if reasoning["enabled"] != true {
		t.Fatalf("reasoning = %v, want enabled=true", captured["reasoning"])
	}
}

func TestAnthropicChat(t *testing.T) {
	var captured map[string]any
	server := captureServer(t, map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-sonnet-4-5",
		"stop_reason": "end_turn",
		"content": []map[string]any{
			{"type": "thinking", "thinking": "short think", "signature": "sig"},
			{"type": "text", "text": "Hi!"},
		},
		"usage": map[string]any{"input_tokens": 7, "output_tokens": 3},
	}, &captured)

	p, err := New("anthropic", Settings{APIKey: "k", APIBase: server.URL, ModelType: "claude-sonnet-4-5"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	resp, err := p.Chat(context.Background(), &Request{Messages: []Message{
		SystemMessage("be kind"), UserMessage("hello"),
	}})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Content != "Hi!" || resp.ReasoningContent != "short think" || resp.Usage.TotalTokens != 10 {
		t.Fatalf("Chat() = %+v", resp)
	}
	if captured["max_tokens"] != float64(anthropicDefaultMaxTokens) {
		t.Fatalf("max_tokens = %v", captured["max_tokens"])
	}
	system, _ := captured["system"].([]any)
	if len(system) != 1 {
		t.Fatalf("system = %v", captured["system"])
	}
	if msgs, _ := captured["messages"].([]any); len(msgs) != 1 {
		t.Fatalf("messages = %v", captured["messages"])
	}
}
