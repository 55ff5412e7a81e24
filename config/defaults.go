package config

const (
	defaultProvider       = "deepseek"
	defaultModelType      = "deepseek-chat"
	defaultMaxTokens      = 8192
	defaultTemperature    = 0.7
	defaultTimeoutSeconds = 120
	defaultHistoryLimit   = 40
	defaultSidebarWidth   = 30
	defaultLogRatio       = 0.3
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	show := true
	return &Config{
		Chat: ChatConfig{
			Provider:       defaultProvider,
			ModelType:      defaultModelType,
			MaxTokens:      defaultMaxTokens,
			Temperature:    defaultTemperature,
			TimeoutSeconds: defaultTimeoutSeconds,
			HistoryLimit:   defaultHistoryLimit,
		},
		Providers: ProvidersConfig{
			DeepSeek: &ProviderConfig{},
		},
		UI: UIConfig{
			ShowChatList: &show,
			SidebarWidth: defaultSidebarWidth,
			LogRatio:     defaultLogRatio,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		File:    "logs/nagochat.log",
	}
}

func (c *Config) applyDefaults() {
	if c.Chat.Provider == "" {
		c.Chat.Provider = defaultProvider
	}
	if c.Chat.ModelType == "" {
		c.Chat.ModelType = defaultModelType
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = defaultMaxTokens
	}
	if c.Chat.Temperature == 0 {
		c.Chat.Temperature = defaultTemperature
	}
	if c.Chat.TimeoutSeconds <= 0 {
		c.Chat.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = defaultHistoryLimit
	}

	if c.UI.ShowChatList == nil {
		show := true
		c.UI.ShowChatList = &show
	}
	if c.UI.SidebarWidth <= 0 {
		c.UI.SidebarWidth = defaultSidebarWidth
	}
	if c.UI.LogRatio <= 0 || c.UI.LogRatio >= 1 {
		c.UI.LogRatio = defaultLogRatio
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}
	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Stdout
	if c.Logging.Enabled == nil && hasAny {
		enabled := true
		c.Logging.Enabled = &enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.File == "" && !c.Logging.Stdout {
		c.Logging.File = def.File
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
