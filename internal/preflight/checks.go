package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"podium/internal/config"
	"podium/internal/services/enhancer"
	"podium/internal/services/patterns"
)

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckEnhancer verifies that the enhancement API is reachable and the
// key is valid. Single attempt, 30-second cap.
func CheckEnhancer(ctx context.Context, cfg *config.Config) Result {
	const name = "Enhancement LLM"
	if cfg.LLM.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := enhancer.NewClient(enhancer.ConfigFromSettings(cfg), enhancer.WithRetryMaxAttempts(1))
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckAnalyzer verifies the pattern analyzer endpoint responds.
func CheckAnalyzer(ctx context.Context, cfg *config.Config) Result {
	const name = "Pattern analyzer"
	if cfg.Analyzer.BaseURL == "" {
		return Result{Name: name, Detail: "base url missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := patterns.NewClient(patterns.ConfigFromSettings(cfg))
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}
