package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/provider"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize nagochat configuration and workspace",
	Long:  `Create the nagochat configuration directory and default config file.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

// providerURLs maps provider names to their API key portal URLs.
var providerURLs = map[string]string{
	"deepseek":   "https://platform.deepseek.com",
	"openai":     "https://platform.openai.com/api-keys",
	"openrouter": "https://openrouter.ai/keys",
	"anthropic":  "https://console.anthropic.com",
}

// onboardAnswers holds what the wizard collected.
type onboardAnswers struct {
	Provider     string
	Model        string
	APIKey       string
	ShowChatList bool
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	answers := onboardAnswers{ShowChatList: true}

	// Step 1: select provider
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose your LLM provider").
				Description("nagochat supports multiple LLM providers. Choose one to get started.").
				Options(buildProviderOptions()...).
				Value(&answers.Provider),
		),
	).Run()
	if err != nil {
		return err
	}

	// Step 2: select model (dynamic based on provider)
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose model for " + answers.Provider).
				Description("The first option is the recommended default.").
				Options(buildModelOptions(answers.Provider)...).
				Value(&answers.Model),
		),
	).Run()
	if err != nil {
		return err
	}

	// Step 3: API key, for providers that talk to a service
	if provider.NeedsAPIKey(answers.Provider) {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter your " + answers.Provider + " API key").
					Description("Create one at " + providerURLs[answers.Provider]).
					EchoMode(huh.EchoModePassword).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("API key is required")
						}
						return nil
					}).
					Value(&answers.APIKey),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	// Step 4: layout
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show the chat list on startup?").
				Description("Toggle it any time with ctrl+l.").
				Value(&answers.ShowChatList),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg := answers.apply(config.DefaultConfig())

	workspace, err := cfg.WorkspacePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("nagochat initialized successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Workspace:", workspace)
	fmt.Println("  Provider:", answers.Provider)
	fmt.Println("  Model:", answers.Model)
	fmt.Println()
	fmt.Println("Run 'nagochat' to start chatting.")
	return nil
}

// apply writes the answers into cfg and returns it.
func (a onboardAnswers) apply(cfg *config.Config) *config.Config {
	cfg.Chat.Provider = a.Provider
	cfg.Chat.ModelType = a.Model
	if key := strings.TrimSpace(a.APIKey); key != "" {
		cfg.SetProvider(a.Provider, config.ProviderConfig{APIKey: key})
	}
	show := a.ShowChatList
	cfg.UI.ShowChatList = &show
	return cfg
}

func buildProviderOptions() []huh.Option[string] {
	names := provider.SupportedProviders()
	// Put deepseek first.
	sorted := make([]string, 0, len(names))
	for _, n := range names {
		if n == "deepseek" {
			sorted = append([]string{n}, sorted...)
		} else {
			sorted = append(sorted, n)
		}
	}
	options := make([]huh.Option[string], 0, len(sorted))
	for _, name := range sorted {
		models := provider.SupportedModelsForProvider(name)
		label := name + " (" + strings.Join(models, ", ") + ")"
		if name == "deepseek" {
			label += " [Recommended]"
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}

func buildModelOptions(providerName string) []huh.Option[string] {
	models := provider.SupportedModelsForProvider(providerName)
	options := make([]huh.Option[string], 0, len(models))
	for _, m := range models {
		options = append(options, huh.NewOption(m, m))
	}
	return options
}
