package preflight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"podium/internal/preflight"
	"podium/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("Data directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}

	missing := preflight.CheckDirectoryAccess("Data directory", filepath.Join(dir, "nope"))
	if missing.Passed {
		t.Fatalf("expected failure for missing dir, got %+v", missing)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	notDir := preflight.CheckDirectoryAccess("Data directory", file)
	if notDir.Passed {
		t.Fatalf("expected failure for non-directory, got %+v", notDir)
	}
}

func TestRunAllChecksDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3 directory checks", len(results))
	}
	if !preflight.AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}

func TestRunAllIncludesAnalyzerWhenEnabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithAnalyzer(server.URL))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	if !preflight.AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}

func TestRunAllReportsEnhancerWithoutKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.LLM.Enabled = true
	cfg.LLM.APIKey = ""
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if preflight.AllPassed(results) {
		t.Fatal("missing api key should fail preflight")
	}
}
