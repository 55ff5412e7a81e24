package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/bus"
	"github.com/linanwx/nagochat/channel"
	"github.com/linanwx/nagochat/channel/tui"
	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/logger"
)

const eventBufferSize = 64

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat interface (default command)",
	Long: `Open the chat interface. On a terminal this is the full-screen TUI,
otherwise one message is read per line from stdin.

Examples:
  nagochat chat
  nagochat chat --session work
  nagochat chat --hide-list`,
	RunE: runChat,
}

var (
	chatSession  string
	chatHideList bool
	chatShowLogs bool
)

func init() {
	for _, c := range []*cobra.Command{rootCmd, chatCmd} {
		c.Flags().StringVar(&chatSession, "session", "", "Chat to open (default: a new chat)")
		c.Flags().BoolVar(&chatHideList, "hide-list", false, "Start with the chat list hidden")
		c.Flags().BoolVar(&chatShowLogs, "logs", false, "Show the log panel")
	}
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	events := bus.NewBus(eventBufferSize)
	defer events.Close()

	rt, err := buildRuntime(cfg, events)
	if err != nil {
		return err
	}

	manager := channel.NewManager()
	cli := channel.NewCLIChannel(tuiOptions(cfg))
	manager.Register(cli)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := manager.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start channels: %w", err)
	}

	threadsDone := make(chan struct{})
	go func() {
		defer close(threadsDone)
		rt.threads.Run(ctx)
	}()

	dispatcher := NewDispatcher(manager, rt.threads, rt.sessions)
	dispatcher.Subscribe(events)
	dispatcher.RefreshSessions()
	if chatSession != "" {
		dispatcher.open(cli, chatSession)
	}

	// The interactive channel ends the run when the user quits.
	if d, ok := cli.(interface{ Done() <-chan struct{} }); ok {
		go func() {
			select {
			case <-d.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	logger.Info("nagochat started", "provider", cfg.Chat.Provider, "model", cfg.GetModelName())
	dispatcher.Run(ctx)

	if err := manager.StopAll(); err != nil {
		logger.Error("error stopping channels", "err", err)
	}
	<-threadsDone
	logger.Info("nagochat stopped")
	return nil
}

func tuiOptions(cfg *config.Config) tui.Options {
	return tui.Options{
		ShowChatList: cfg.ShowChatList() && !chatHideList,
		ShowLogPanel: cfg.UI.ShowLogPanel || chatShowLogs,
		SidebarWidth: cfg.UI.SidebarWidth,
		LogRatio:     cfg.UI.LogRatio,
		SessionKey:   chatSession,
	}
}
