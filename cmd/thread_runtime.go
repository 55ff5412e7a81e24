package cmd

import (
	"fmt"
	"time"

	"github.com/linanwx/nagochat/bus"
	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/provider"
	"github.com/linanwx/nagochat/session"
	"github.com/linanwx/nagochat/thread"
)

// runtime bundles what a chat command needs to run turns.
type runtime struct {
	sessions *session.Manager
	threads  *thread.Manager
}

func buildProvider(cfg *config.Config) (provider.Provider, error) {
	name := cfg.Chat.Provider
	if err := provider.ValidateProviderModelType(name, cfg.Chat.ModelType); err != nil {
		return nil, err
	}
	return provider.New(name, provider.Settings{
		APIKey:      cfg.GetAPIKey(),
		APIBase:     cfg.GetAPIBase(),
		ModelType:   cfg.Chat.ModelType,
		ModelName:   cfg.GetModelName(),
		MaxTokens:   cfg.Chat.MaxTokens,
		Temperature: cfg.Chat.Temperature,
	})
}

func buildRuntime(cfg *config.Config, events *bus.Bus) (*runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	workspace, err := cfg.WorkspacePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	sessions, err := session.NewManager(workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to open sessions: %w", err)
	}
	p, err := buildProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	threads := thread.NewManager(&thread.Config{
		Provider:     p,
		ProviderName: cfg.Chat.Provider,
		ModelName:    cfg.GetModelName(),
		SystemPrompt: cfg.Chat.SystemPrompt,
		HistoryLimit: cfg.Chat.HistoryLimit,
		TurnTimeout:  time.Duration(cfg.Chat.TimeoutSeconds) * time.Second,
		Sessions:     sessions,
		Bus:          events,
	})
	return &runtime{sessions: sessions, threads: threads}, nil
}
