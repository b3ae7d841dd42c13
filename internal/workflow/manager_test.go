package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"podium/internal/faults"
	"podium/internal/queue"
	"podium/internal/stage"
	"podium/internal/testsupport"
	"podium/internal/workflow"
)

const sourceYAML = `title: Demo
slides:
  - type: title
    content:
      title: Demo
`

type fakeHandler struct {
	name    string
	prepare func(context.Context, *queue.Job) error
	execute func(context.Context, *queue.Job) error
}

func (f *fakeHandler) Prepare(ctx context.Context, job *queue.Job) error {
	if f.prepare != nil {
		return f.prepare(ctx, job)
	}
	return nil
}

func (f *fakeHandler) Execute(ctx context.Context, job *queue.Job) error {
	if f.execute != nil {
		return f.execute(ctx, job)
	}
	return nil
}

func (f *fakeHandler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(f.name)
}

func passthroughEnhancer() *fakeHandler {
	return &fakeHandler{
		name: "enhancer",
		execute: func(ctx context.Context, job *queue.Job) error {
			job.EnhancedYAML = job.SourceYAML
			return nil
		},
	}
}

func runUntilIdle(t *testing.T, manager *workflow.Manager) {
	t.Helper()
	ctx := context.Background()
	if err := manager.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer manager.Stop()

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := manager.WaitForIdle(waitCtx); err != nil {
		t.Fatalf("wait for idle: %v", err)
	}
}

func TestManagerProcessesJobThroughPipeline(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, queue.NewJobParams{Title: "Demo", SourceYAML: sourceYAML})

	var compiled bool
	manager := workflow.NewManagerWithStages(cfg, store, nil, workflow.StageSet{
		Enhancer: passthroughEnhancer(),
		Compiler: &fakeHandler{
			name: "compiler",
			execute: func(ctx context.Context, j *queue.Job) error {
				compiled = true
				j.ArtifactPath = "/tmp/demo.pptx"
				return nil
			},
		},
	})
	runUntilIdle(t, manager)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != queue.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if !compiled {
		t.Fatal("compiler never ran")
	}
	if got.EnhancedYAML != sourceYAML {
		t.Fatal("enhanced source not persisted")
	}
	if got.ArtifactPath != "/tmp/demo.pptx" {
		t.Fatalf("artifact path = %q", got.ArtifactPath)
	}
	if got.ProgressPercent != 100 {
		t.Fatalf("progress = %v, want 100", got.ProgressPercent)
	}
	if got.LastHeartbeat != nil {
		t.Fatal("heartbeat should be cleared on completion")
	}
}

func TestManagerMarksJobFailedOnStageError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, queue.NewJobParams{Title: "Demo", SourceYAML: sourceYAML})

	manager := workflow.NewManagerWithStages(cfg, store, nil, workflow.StageSet{
		Enhancer: passthroughEnhancer(),
		Compiler: &fakeHandler{
			name: "compiler",
			execute: func(ctx context.Context, j *queue.Job) error {
				return faults.New(faults.CodeSlideGeneration, "slide 2 exploded")
			},
		},
	})
	runUntilIdle(t, manager)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != queue.StatusFailed {
		t.Fatalf("status = %q, want failed", got.Status)
	}
	if got.ErrorMessage != "slide 2 exploded" {
		t.Fatalf("error message = %q", got.ErrorMessage)
	}
	if manager.LastError() == nil {
		t.Fatal("manager should record the stage error")
	}
}

func TestManagerResetsStuckJobsOnStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, queue.NewJobParams{Title: "Demo", SourceYAML: sourceYAML})

	ctx := context.Background()
	job.Status = queue.StatusCompiling
	if err := store.Update(ctx, job); err != nil {
		t.Fatal(err)
	}

	var compiles int
	manager := workflow.NewManagerWithStages(cfg, store, nil, workflow.StageSet{
		Enhancer: passthroughEnhancer(),
		Compiler: &fakeHandler{
			name: "compiler",
			execute: func(ctx context.Context, j *queue.Job) error {
				compiles++
				return nil
			},
		},
	})
	runUntilIdle(t, manager)

	got, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != queue.StatusCompleted {
		t.Fatalf("status = %q, want completed after reset and rerun", got.Status)
	}
	if compiles != 1 {
		t.Fatalf("compiles = %d, want 1", compiles)
	}
}

func TestManagerStartsWithNilHandlers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManagerWithStages(cfg, store, nil, workflow.StageSet{})

	// A nil handler fails the job it picks up instead of blocking startup.
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	manager.Stop()
}

func TestManagerStopIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManagerWithStages(cfg, store, nil, workflow.StageSet{
		Enhancer: passthroughEnhancer(),
		Compiler: &fakeHandler{name: "compiler"},
	})
	if err := manager.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := manager.Start(context.Background()); err == nil {
		t.Fatal("second start should fail while running")
	}
	manager.Stop()
	manager.Stop()
}

func TestManagerHealthReportsAllStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManagerWithStages(cfg, store, nil, workflow.StageSet{
		Enhancer: passthroughEnhancer(),
		Compiler: &fakeHandler{name: "compiler"},
	})

	health := manager.Health(context.Background())
	if len(health) != 2 {
		t.Fatalf("health entries = %d, want 2", len(health))
	}
	for _, h := range health {
		if !h.Ready {
			t.Fatalf("stage %s unhealthy: %s", h.Name, h.Detail)
		}
	}
}

func TestManagerFailureMessageFallsBackToError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, queue.NewJobParams{Title: "Demo", SourceYAML: sourceYAML})

	manager := workflow.NewManagerWithStages(cfg, store, nil, workflow.StageSet{
		Enhancer: &fakeHandler{
			name: "enhancer",
			execute: func(ctx context.Context, j *queue.Job) error {
				return errors.New("plain failure")
			},
		},
		Compiler: &fakeHandler{name: "compiler"},
	})
	runUntilIdle(t, manager)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != queue.StatusFailed {
		t.Fatalf("status = %q, want failed", got.Status)
	}
	if got.ErrorMessage != "plain failure" {
		t.Fatalf("error message = %q", got.ErrorMessage)
	}
}
