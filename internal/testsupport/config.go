// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"podium/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.OutputDir = filepath.Join(base, "artifacts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Workflow.QueuePollInterval = 1
	cfg.Workflow.ErrorRetryInterval = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithLLM enables the enhancement client against the given endpoint.
func WithLLM(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.Enabled = true
		cfg.LLM.APIKey = "test-key"
		cfg.LLM.BaseURL = baseURL
		cfg.LLM.Model = "test-model"
	}
}

// WithAnalyzer enables the pattern analyzer client against the given endpoint.
func WithAnalyzer(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Analyzer.Enabled = true
		cfg.Analyzer.BaseURL = baseURL
	}
}
