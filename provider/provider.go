// Package provider defines the LLM provider interface and common types.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownProvider is returned when a provider name is not registered.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider is the interface for LLM providers.
type Provider interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a chat completion request.
type Request struct {
	Messages []Message
}

// Message represents a chat message in OpenAI format (internal canonical format).
type Message struct {
	Role             string `json:"role" yaml:"role"` // system, user, assistant
	Content          string `json:"content,omitempty" yaml:"content,omitempty"`
	ReasoningContent string `json:"reasoning_content,omitempty" yaml:"reasoningContent,omitempty"`
}

// Response represents a chat completion response.
type Response struct {
	Content          string // final text response
	ReasoningContent string // reasoning text (provider-specific)
	Usage            Usage  // token usage
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Settings carries the runtime parameters a provider is built with.
type Settings struct {
	APIKey      string
	APIBase     string
	ModelType   string
	ModelName   string
	MaxTokens   int
	Temperature float64
}

// ProviderConstructor builds a provider for the requested model/runtime settings.
type ProviderConstructor func(s Settings) Provider

// ProviderRegistration defines metadata and constructor for a provider.
type ProviderRegistration struct {
	Models      []string
	EnvKey      string
	EnvBase     string
	NeedsKey    bool
	Constructor ProviderConstructor
}

// supportedModelTypes is the whitelist of supported model types.
var supportedModelTypes = map[string]bool{}

// providerModelTypes maps providers to their supported model types.
var providerModelTypes = map[string][]string{}

var providerRegistry = map[string]ProviderRegistration{}

// RegisterProvider registers provider metadata and constructor.
func RegisterProvider(name string, reg ProviderRegistration) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	models := make([]string, 0, len(reg.Models))
	for _, model := range reg.Models {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		models = append(models, model)
		supportedModelTypes[model] = true
	}

	reg.Models = models
	reg.EnvKey = strings.TrimSpace(reg.EnvKey)
	reg.EnvBase = strings.TrimSpace(reg.EnvBase)
	providerRegistry[name] = reg
	providerModelTypes[name] = append([]string(nil), models...)
}

// SupportedProviders returns all supported provider names in sorted order.
func SupportedProviders() []string {
	names := make([]string, 0, len(providerModelTypes))
	for name := range providerModelTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SupportedModelsForProvider returns supported model types for the given provider.
func SupportedModelsForProvider(providerName string) []string {
	models, ok := providerModelTypes[providerName]
	if !ok {
		return nil
	}
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// ValidateProviderModelType checks if a model type is valid for a provider.
func ValidateProviderModelType(providerName, modelType string) error {
	allowed, ok := providerModelTypes[providerName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, providerName)
	}
	if !supportedModelTypes[modelType] {
		return errors.New("unsupported model type: " + modelType)
	}
	for _, m := range allowed {
		if m == modelType {
			return nil
		}
	}
	return errors.New("model type " + modelType + " is not supported by provider " + providerName)
}

// NeedsAPIKey reports whether the named provider requires an API key.
func NeedsAPIKey(name string) bool {
	return providerRegistry[name].NeedsKey
}

// New builds the named provider. A missing API key is an error for providers
// that need one.
func New(name string, s Settings) (Provider, error) {
	reg, ok := providerRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	if reg.NeedsKey && strings.TrimSpace(s.APIKey) == "" {
		return nil, fmt.Errorf("provider %s: no API key (set it in config or %s)", name, reg.EnvKey)
	}
	return reg.Constructor(s), nil
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

func inputChars(messages []Message) int {
	n := 0
	for _, m := range messages {
		n += len(m.Content)
	}
	return n
}

func modelNameOr(s Settings) string {
	if s.ModelName != "" {
		return s.ModelName
	}
	return s.ModelType
}
