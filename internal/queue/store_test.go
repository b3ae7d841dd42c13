package queue_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"podium/internal/queue"
)

const sampleSource = "title: Test Deck\nslides:\n  - type: title\n    content:\n      title: Test Deck\n"

func openStore(t *testing.T) *queue.Store {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newJob(t *testing.T, store *queue.Store) *queue.Job {
	t.Helper()
	job, err := store.NewJob(context.Background(), queue.NewJobParams{
		Title:       "Test Deck",
		SourceYAML:  sampleSource,
		ColorScheme: "blue",
		FontScale:   "medium",
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	return job
}

func TestNewJobStartsPending(t *testing.T) {
	store := openStore(t)
	job := newJob(t, store)

	if job.ID == 0 {
		t.Fatal("job should have an id")
	}
	if job.Status != queue.StatusPending {
		t.Fatalf("status = %q, want pending", job.Status)
	}
	if job.SourceYAML != sampleSource {
		t.Fatal("source not round-tripped")
	}
	if job.CreatedAt.IsZero() || job.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}
}

func TestStatusLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	job := newJob(t, store)

	for _, status := range []queue.Status{
		queue.StatusEnhancing,
		queue.StatusEnhanced,
		queue.StatusCompiling,
		queue.StatusCompleted,
	} {
		job.Status = status
		if err := store.Update(ctx, job); err != nil {
			t.Fatalf("update to %s: %v", status, err)
		}
		got, err := store.GetByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != status {
			t.Fatalf("status = %q, want %q", got.Status, status)
		}
	}
}

func TestNextForStatusesReturnsOldest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := newJob(t, store)
	time.Sleep(5 * time.Millisecond)
	newJob(t, store)

	next, err := store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected oldest job %d, got %+v", first.ID, next)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusCompiling)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no compiling jobs, got %+v", none)
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	store := openStore(t)
	job, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil for missing job, got %+v", job)
	}
}

func TestRetryFailed(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	job := newJob(t, store)
	job.SetFailed("compile blew up")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("update: %v", err)
	}

	count, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if count != 1 {
		t.Fatalf("retried %d jobs, want 1", count)
	}

	got, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != queue.StatusPending || got.ErrorMessage != "" {
		t.Fatalf("retry should reset status and error, got %+v", got)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	enhancing := newJob(t, store)
	enhancing.Status = queue.StatusEnhancing
	if err := store.Update(ctx, enhancing); err != nil {
		t.Fatal(err)
	}
	compiling := newJob(t, store)
	compiling.Status = queue.StatusCompiling
	if err := store.Update(ctx, compiling); err != nil {
		t.Fatal(err)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if count != 2 {
		t.Fatalf("reset %d jobs, want 2", count)
	}

	got, _ := store.GetByID(ctx, enhancing.ID)
	if got.Status != queue.StatusPending {
		t.Fatalf("enhancing should roll back to pending, got %q", got.Status)
	}
	got, _ = store.GetByID(ctx, compiling.ID)
	if got.Status != queue.StatusEnhanced {
		t.Fatalf("compiling should roll back to enhanced, got %q", got.Status)
	}
}

func TestReclaimStaleProcessing(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	job := newJob(t, store)
	job.Status = queue.StatusCompiling
	stale := time.Now().Add(-10 * time.Minute).UTC()
	job.LastHeartbeat = &stale
	if err := store.Update(ctx, job); err != nil {
		t.Fatal(err)
	}

	fresh := newJob(t, store)
	fresh.Status = queue.StatusCompiling
	now := time.Now().UTC()
	fresh.LastHeartbeat = &now
	if err := store.Update(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	count, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if count != 1 {
		t.Fatalf("reclaimed %d jobs, want 1", count)
	}

	got, _ := store.GetByID(ctx, job.ID)
	if got.Status != queue.StatusEnhanced {
		t.Fatalf("stale job should roll back, got %q", got.Status)
	}
	got, _ = store.GetByID(ctx, fresh.ID)
	if got.Status != queue.StatusCompiling {
		t.Fatalf("fresh job should keep processing, got %q", got.Status)
	}
}

func TestHeartbeatPersists(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	job := newJob(t, store)
	if err := store.UpdateHeartbeat(ctx, job.ID); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	got, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastHeartbeat == nil {
		t.Fatal("heartbeat not persisted")
	}
}

func TestStatsAndHealth(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	newJob(t, store)
	done := newJob(t, store)
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatal(err)
	}
	failed := newJob(t, store)
	failed.SetFailed("boom")
	if err := store.Update(ctx, failed); err != nil {
		t.Fatal(err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if health.Total != 3 || health.Pending != 1 || health.Completed != 1 || health.Failed != 1 {
		t.Fatalf("unexpected health %+v", health)
	}
}

func TestClearVariants(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	newJob(t, store)
	done := newJob(t, store)
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatal(err)
	}

	count, err := store.ClearCompleted(ctx)
	if err != nil || count != 1 {
		t.Fatalf("clear completed = %d, %v", count, err)
	}
	count, err = store.Clear(ctx)
	if err != nil || count != 1 {
		t.Fatalf("clear = %d, %v", count, err)
	}
}

func TestEffectiveSourcePrefersEnhanced(t *testing.T) {
	job := queue.Job{SourceYAML: "original", EnhancedYAML: "enhanced"}
	if job.EffectiveSource() != "enhanced" {
		t.Fatal("should prefer enhanced source")
	}
	job.EnhancedYAML = "  "
	if job.EffectiveSource() != "original" {
		t.Fatal("blank enhancement should fall back to original")
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := queue.ParseStatus(" Pending "); !ok || status != queue.StatusPending {
		t.Fatalf("ParseStatus pending = %q, %v", status, ok)
	}
	if _, ok := queue.ParseStatus("ripping"); ok {
		t.Fatal("unknown status should not parse")
	}
}
