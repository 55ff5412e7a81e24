package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/nagochat/logger"
)

// ErrNotConfigured is returned by Load when no config file exists yet.
var ErrNotConfigured = errors.New("config not found, run 'nagochat onboard'")

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	if dir := strings.TrimSpace(os.Getenv("NAGOCHAT_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".nagochat"), nil
}

// ConfigPath returns the path of config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads config.yaml, fills defaults and applies environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config to config.yaml, creating the directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// envKeys maps provider names to the environment variable holding their key.
var envKeys = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"deepseek":   "DEEPSEEK_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// applyEnv lets environment variables fill in missing API keys.
func (c *Config) applyEnv() {
	for name, env := range envKeys {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			continue
		}
		pc := c.providerConfig(name, true)
		if pc.APIKey == "" {
			pc.APIKey = v
		}
	}
}

func (c *Config) providerConfig(name string, create bool) *ProviderConfig {
	var slot **ProviderConfig
	switch name {
	case "openai":
		slot = &c.Providers.OpenAI
	case "anthropic":
		slot = &c.Providers.Anthropic
	case "deepseek":
		slot = &c.Providers.DeepSeek
	case "openrouter":
		slot = &c.Providers.OpenRouter
	default:
		return nil
	}
	if *slot == nil && create {
		*slot = &ProviderConfig{}
	}
	return *slot
}

// SetProvider stores credentials for name. Unknown names are ignored.
func (c *Config) SetProvider(name string, pc ProviderConfig) {
	if slot := c.providerConfig(name, true); slot != nil {
		*slot = pc
	}
}

// GetAPIKey returns the API key of the active provider.
func (c *Config) GetAPIKey() string {
	if pc := c.providerConfig(c.Chat.Provider, false); pc != nil {
		return pc.APIKey
	}
	return ""
}

// GetAPIBase returns the custom base URL of the active provider, if any.
func (c *Config) GetAPIBase() string {
	if pc := c.providerConfig(c.Chat.Provider, false); pc != nil {
		return pc.APIBase
	}
	return ""
}

// GetModelName returns the concrete model name, defaulting to ModelType.
func (c *Config) GetModelName() string {
	if c.Chat.ModelName != "" {
		return c.Chat.ModelName
	}
	return c.Chat.ModelType
}

// WorkspacePath returns the directory where chats are stored.
func (c *Config) WorkspacePath() (string, error) {
	if ws := strings.TrimSpace(c.Chat.Workspace); ws != "" {
		if strings.HasPrefix(ws, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			ws = filepath.Join(home, ws[1:])
		}
		return ws, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspace"), nil
}

// ShowChatList reports whether the chat list starts visible.
func (c *Config) ShowChatList() bool {
	return c.UI.ShowChatList == nil || *c.UI.ShowChatList
}

// LoggingEnabled reports whether logging is on.
func (c *Config) LoggingEnabled() bool {
	return c.Logging.Enabled == nil || *c.Logging.Enabled
}

// BuildLoggerConfig converts the logging section for logger.Init.
func (c *Config) BuildLoggerConfig() logger.Config {
	return logger.Config{
		Enabled: c.LoggingEnabled(),
		Level:   c.Logging.Level,
		Format:  c.Logging.Format,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
