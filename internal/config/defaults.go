package config

const (
	defaultDataDir            = "~/.local/share/podium"
	defaultOutputDir          = "~/.local/share/podium/artifacts"
	defaultLogDir             = "~/.local/share/podium/logs"
	defaultAPIBind            = "127.0.0.1:7787"
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "openai/gpt-4o-mini"
	defaultLLMTitle           = "Podium Enhancer"
	defaultLLMTimeoutSeconds  = 60
	defaultAnalyzerTimeout    = 30
	defaultColorScheme        = "blue"
	defaultFontScale          = "medium"
	defaultChartWidth         = 800
	defaultChartHeight        = 400
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultHeartbeatInterval  = 15
	defaultHeartbeatTimeout   = 120
	defaultCollabMessageBytes = 64 * 1024
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Analyzer: Analyzer{
			TimeoutSeconds: defaultAnalyzerTimeout,
		},
		Compile: Compile{
			ColorScheme: defaultColorScheme,
			FontScale:   defaultFontScale,
			ChartWidth:  defaultChartWidth,
			ChartHeight: defaultChartHeight,
		},
		Workflow: Workflow{
			QueuePollInterval:  5,
			ErrorRetryInterval: 10,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Collab: Collab{
			Enabled:         true,
			MaxMessageBytes: defaultCollabMessageBytes,
		},
	}
}
