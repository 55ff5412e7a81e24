// Package config handles configuration loading and saving.
package config

import (
	"strings"
)

const (
	configFileName = "config.yaml"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Chat      ChatConfig      `json:"chat" yaml:"chat"`
	Providers ProvidersConfig `json:"providers" yaml:"providers"`
	UI        UIConfig        `json:"ui,omitempty" yaml:"ui,omitempty"`
	Logging   LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ChatConfig contains chat runtime defaults.
type ChatConfig struct {
	Provider       string  `json:"provider" yaml:"provider"` // openai, anthropic, deepseek, openrouter, echo
	ModelType      string  `json:"modelType" yaml:"modelType"`
	ModelName      string  `json:"modelName,omitempty" yaml:"modelName,omitempty"`     // optional, defaults to modelType
	Workspace      string  `json:"workspace,omitempty" yaml:"workspace,omitempty"`     // defaults to <configDir>/workspace
	MaxTokens      int     `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`     // defaults to 8192
	Temperature    float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"` // defaults to 0.7
	SystemPrompt   string  `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"`
	TimeoutSeconds int     `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"` // defaults to 120
	HistoryLimit   int     `json:"historyLimit,omitempty" yaml:"historyLimit,omitempty"`     // messages sent as context, defaults to 40
}

// ProvidersConfig contains provider API configurations.
type ProvidersConfig struct {
	OpenAI     *ProviderConfig `json:"openai,omitempty" yaml:"openai,omitempty"`
	Anthropic  *ProviderConfig `json:"anthropic,omitempty" yaml:"anthropic,omitempty"`
	DeepSeek   *ProviderConfig `json:"deepseek,omitempty" yaml:"deepseek,omitempty"`
	OpenRouter *ProviderConfig `json:"openrouter,omitempty" yaml:"openrouter,omitempty"`
}

// ProviderConfig contains API credentials for a provider.
type ProviderConfig struct {
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	APIBase string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"` // optional custom base URL
}

// UIConfig controls the terminal interface.
type UIConfig struct {
	ShowChatList *bool   `json:"showChatList,omitempty" yaml:"showChatList,omitempty"` // defaults to true
	ShowLogPanel bool    `json:"showLogPanel,omitempty" yaml:"showLogPanel,omitempty"`
	SidebarWidth int     `json:"sidebarWidth,omitempty" yaml:"sidebarWidth,omitempty"` // defaults to 30
	LogRatio     float64 `json:"logRatio,omitempty" yaml:"logRatio,omitempty"`         // share of height for logs, defaults to 0.3
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Format  string `json:"format,omitempty" yaml:"format,omitempty"` // text, json
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
}
