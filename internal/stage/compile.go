package stage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"podium/internal/config"
	"podium/internal/deck"
	"podium/internal/document"
	"podium/internal/fileutil"
	"podium/internal/logging"
	"podium/internal/pptx"
	"podium/internal/queue"
	"podium/internal/textutil"
	"podium/internal/theme"
)

// Compile turns an enhanced job into a .pptx artifact on disk.
type Compile struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewCompile builds the compile stage.
func NewCompile(cfg *config.Config, logger *slog.Logger) *Compile {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Compile{
		cfg:    cfg,
		logger: logger.With(logging.String(logging.FieldComponent, "compile-stage")),
	}
}

// Prepare marks the job as entering compilation.
func (c *Compile) Prepare(ctx context.Context, job *queue.Job) error {
	job.SetProgress("Compiling", "Building presentation", 0)
	return nil
}

// Execute parses, validates, compiles, and serializes the job source,
// then writes the artifact under the configured output directory.
func (c *Compile) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, c.logger)

	source := job.EffectiveSource()
	doc, err := document.Parse(source)
	if err != nil {
		return err
	}
	job.SetProgress("Compiling", "Source parsed", 20)

	th := c.themeFor(job)
	compiled, err := deck.Compile(doc, th, deck.WithLogger(logger))
	if err != nil {
		return err
	}
	job.SetProgress("Compiling", "Slides generated", 60)

	data, err := pptx.Serialize(compiled)
	if err != nil {
		return err
	}

	path, err := c.writeArtifact(job, data)
	if err != nil {
		return err
	}
	job.ArtifactPath = path
	job.SetProgress("Compiling", "Presentation ready", 100)
	logger.Info("presentation compiled",
		logging.String("artifact", path),
		logging.Int("slides", len(compiled.Slides)),
		logging.Int("artifact_bytes", len(data)))
	return nil
}

// HealthCheck verifies the artifact directory is writable.
func (c *Compile) HealthCheck(ctx context.Context) Health {
	if c.cfg == nil {
		return Unhealthy("compiler", "configuration missing")
	}
	dir := c.cfg.ArtifactDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Unhealthy("compiler", fmt.Sprintf("artifact directory: %v", err))
	}
	return Healthy("compiler")
}

func (c *Compile) themeFor(job *queue.Job) theme.Theme {
	scale := theme.Scale(job.FontScale)
	if scheme := strings.TrimSpace(job.ColorScheme); scheme != "" {
		return theme.New(theme.Scheme(scheme), scale)
	}
	return theme.FromTags(decodeTags(job.TagsJSON), scale)
}

// writeArtifact stages the bytes through an atomic write so a crashed
// compile never leaves a partial .pptx at the final path.
func (c *Compile) writeArtifact(job *queue.Job, data []byte) (string, error) {
	dir := c.cfg.ArtifactDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}
	finalPath := filepath.Join(dir, artifactName(job))
	if err := fileutil.WriteAtomic(finalPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return finalPath, nil
}

func artifactName(job *queue.Job) string {
	base := textutil.Slugify(job.Title)
	if base == "" {
		base = "presentation"
	}
	return fmt.Sprintf("%s-%d%s", base, job.ID, pptx.Extension)
}
