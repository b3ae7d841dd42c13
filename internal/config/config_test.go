package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podium/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Compile.ColorScheme != "blue" || cfg.Compile.FontScale != "medium" {
		t.Fatalf("unexpected compile defaults %#v", cfg.Compile)
	}
	if cfg.Workflow.QueuePollInterval != 5 {
		t.Fatalf("unexpected poll interval %d", cfg.Workflow.QueuePollInterval)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults %#v", cfg.Logging)
	}
}

func TestLoadAppliesFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[compile]
color_scheme = "green"
chart_width = 1024

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatal("expected file to be found")
	}
	if cfg.Compile.ColorScheme != "green" || cfg.Compile.ChartWidth != 1024 {
		t.Fatalf("file values not applied: %#v", cfg.Compile)
	}
	if cfg.Compile.ChartHeight != 400 {
		t.Fatalf("default not preserved: %d", cfg.Compile.ChartHeight)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging values not applied: %#v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[compile]\ncolor_scheme = \"neon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown color scheme")
	}
}

func TestLoadRequiresLLMKeyWhenEnabled(t *testing.T) {
	t.Setenv("PODIUM_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[llm]\nenabled = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("expected llm.api_key error, got %v", err)
	}
}

func TestLoadRejectsBadHeartbeatWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[workflow]\nheartbeat_interval = 30\nheartbeat_timeout = 30\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for timeout <= interval")
	}
}

func TestExpandPathResolvesHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := config.ExpandPath("~/presentations")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "presentations") {
		t.Fatalf("ExpandPath = %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly, err=%v exists=%v", err, exists)
	}
}

func TestQueueDBPathUnderDataDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/podium-test"
	if got := cfg.QueueDBPath(); got != "/tmp/podium-test/queue.db" {
		t.Fatalf("QueueDBPath = %q", got)
	}
}
