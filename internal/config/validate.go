package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownColorSchemes = map[string]struct{}{
	"blue": {}, "red": {}, "green": {}, "purple": {}, "orange": {},
}

var knownFontScales = map[string]struct{}{
	"small": {}, "medium": {}, "large": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateAnalyzer(); err != nil {
		return err
	}
	if err := c.validateCompile(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/podium/config.toml"
		}
		return fmt.Errorf("llm.api_key is required when llm.enabled is true. Set PODIUM_LLM_API_KEY env var or edit %s (create with 'podium config init')", defaultPath)
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must be set when llm.enabled is true")
	}
	return nil
}

func (c *Config) validateAnalyzer() error {
	if c.Analyzer.Enabled && strings.TrimSpace(c.Analyzer.BaseURL) == "" {
		return errors.New("analyzer.base_url must be set when analyzer.enabled is true")
	}
	return nil
}

func (c *Config) validateCompile() error {
	if _, ok := knownColorSchemes[c.Compile.ColorScheme]; !ok {
		return fmt.Errorf("compile.color_scheme %q is not a known scheme", c.Compile.ColorScheme)
	}
	if _, ok := knownFontScales[c.Compile.FontScale]; !ok {
		return fmt.Errorf("compile.font_scale %q is not a known scale", c.Compile.FontScale)
	}
	if c.Compile.ChartWidth <= 0 || c.Compile.ChartHeight <= 0 {
		return errors.New("compile.chart_width and compile.chart_height must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.queue_poll_interval":  c.Workflow.QueuePollInterval,
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
		"llm.timeout_seconds":           c.LLM.TimeoutSeconds,
		"analyzer.timeout_seconds":      c.Analyzer.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		return errors.New("workflow.heartbeat_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		return errors.New("workflow.heartbeat_timeout must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must be greater than workflow.heartbeat_interval")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
