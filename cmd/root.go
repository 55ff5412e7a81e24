// Package cmd wires the nagochat command line.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/logger"
)

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "nagochat",
	Short: "Terminal chat client for LLM providers",
	Long: `nagochat is a terminal chat client. Chats are stored as YAML files in the
workspace and can be reopened from the chat list.

Run 'nagochat onboard' once to pick a provider, then 'nagochat' to chat.`,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.nagochat)")
	rootCmd.AddGroup(&cobra.Group{ID: "internal", Title: "Scripting Commands:"})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initRuntime applies --config-dir and sets up logging from the config file,
// falling back to defaults when there is none yet.
func initRuntime(_ *cobra.Command, _ []string) error {
	config.SetConfigDir(configDirFlag)

	cfg, err := config.Load()
	if err != nil {
		if !errors.Is(err, config.ErrNotConfigured) {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		cfg = config.DefaultConfig()
	}
	configDir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), configDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	return nil
}

// loadConfig loads config.yaml for commands that need a configured provider.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
