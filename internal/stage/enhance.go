package stage

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"podium/internal/config"
	"podium/internal/logging"
	"podium/internal/queue"
	"podium/internal/services/enhancer"
)

// EnhanceClient is the slice of the enhancer client the stage needs.
type EnhanceClient interface {
	Enhance(ctx context.Context, source string, tags []string) (string, error)
	HealthCheck(ctx context.Context) error
}

// Enhance runs optional LLM enhancement on pending jobs. A job that did
// not request enhancement, or any enhancement failure, falls back to the
// original source so the compile stage always has input.
type Enhance struct {
	client EnhanceClient
	logger *slog.Logger
}

// NewEnhance builds the enhancement stage from configuration. When the
// [llm] section is disabled the stage passes every job through untouched.
func NewEnhance(cfg *config.Config, logger *slog.Logger) *Enhance {
	var client EnhanceClient
	if cfg != nil && cfg.LLM.Enabled {
		client = enhancer.NewClient(enhancer.ConfigFromSettings(cfg))
	}
	return NewEnhanceWithClient(client, logger)
}

// NewEnhanceWithClient builds the stage around an explicit client (used
// in tests). A nil client disables enhancement.
func NewEnhanceWithClient(client EnhanceClient, logger *slog.Logger) *Enhance {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Enhance{
		client: client,
		logger: logger.With(logging.String(logging.FieldComponent, "enhance-stage")),
	}
}

// Prepare marks the job as entering enhancement.
func (e *Enhance) Prepare(ctx context.Context, job *queue.Job) error {
	job.SetProgress("Enhancing", "Improving presentation wording", 0)
	return nil
}

// Execute produces the enhanced source for the job. It never fails the
// job over enhancement trouble; the worst case is a pass-through copy.
func (e *Enhance) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, e.logger)

	if !job.EnhanceRequested || e.client == nil {
		job.EnhancedYAML = job.SourceYAML
		job.SetProgress("Enhancing", "Enhancement skipped", 100)
		logger.Debug("enhancement skipped",
			logging.Bool("requested", job.EnhanceRequested),
			logging.Bool("enabled", e.client != nil))
		return nil
	}

	enhanced, err := e.client.Enhance(ctx, job.SourceYAML, decodeTags(job.TagsJSON))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		job.EnhancedYAML = job.SourceYAML
		job.SetProgress("Enhancing", "Enhancement failed, using original source", 100)
		logger.Warn("enhancement failed, falling back to original source", logging.Error(err))
		return nil
	}

	job.EnhancedYAML = enhanced
	job.SetProgress("Enhancing", "Enhancement complete", 100)
	logger.Info("presentation enhanced", logging.Int("enhanced_bytes", len(enhanced)))
	return nil
}

// HealthCheck verifies the enhancement backend when it is configured.
func (e *Enhance) HealthCheck(ctx context.Context) Health {
	if e.client == nil {
		return Healthy("enhancer")
	}
	if err := e.client.HealthCheck(ctx); err != nil {
		return Unhealthy("enhancer", err.Error())
	}
	return Healthy("enhancer")
}

func decodeTags(tagsJSON string) []string {
	tagsJSON = strings.TrimSpace(tagsJSON)
	if tagsJSON == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		return nil
	}
	return tags
}
