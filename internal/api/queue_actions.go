package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"podium/internal/document"
	"podium/internal/queue"
)

// EnqueueDocumentRequest asks for an asynchronous compile.
type EnqueueDocumentRequest struct {
	Source      string
	Tags        []string
	ColorScheme string
	FontScale   string
	Enhance     bool
}

// EnqueueDocument validates the source up front and inserts a pending
// job. Validation here keeps obviously broken documents out of the
// queue; the compile stage re-validates anyway.
func EnqueueDocument(ctx context.Context, store *queue.Store, req EnqueueDocumentRequest) (*queue.Job, error) {
	doc, err := document.Parse(req.Source)
	if err != nil {
		return nil, err
	}
	if err := document.Validate(doc); err != nil {
		return nil, err
	}

	tagsJSON := ""
	if len(req.Tags) > 0 {
		encoded, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		tagsJSON = string(encoded)
	}

	return store.NewJob(ctx, queue.NewJobParams{
		Title:            doc.Title,
		SourceYAML:       req.Source,
		TagsJSON:         tagsJSON,
		ColorScheme:      strings.TrimSpace(req.ColorScheme),
		FontScale:        strings.TrimSpace(req.FontScale),
		EnhanceRequested: req.Enhance,
	})
}

// JobView is the external representation of a queue job.
type JobView struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	EnhanceRequested bool       `json:"enhance_requested"`
	ArtifactPath     string     `json:"artifact_path,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	ProgressStage    string     `json:"progress_stage,omitempty"`
	ProgressPercent  float64    `json:"progress_percent"`
	ProgressMessage  string     `json:"progress_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastHeartbeat    *time.Time `json:"last_heartbeat,omitempty"`
}

// ViewOf converts a queue job to its external representation.
func ViewOf(job *queue.Job) JobView {
	return JobView{
		ID:               job.ID,
		Title:            job.Title,
		Status:           string(job.Status),
		EnhanceRequested: job.EnhanceRequested,
		ArtifactPath:     job.ArtifactPath,
		ErrorMessage:     job.ErrorMessage,
		ProgressStage:    job.ProgressStage,
		ProgressPercent:  job.ProgressPercent,
		ProgressMessage:  job.ProgressMessage,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
		LastHeartbeat:    job.LastHeartbeat,
	}
}

// JobStatus fetches one job view. A missing job returns nil, nil.
func JobStatus(ctx context.Context, store *queue.Store, id int64) (*JobView, error) {
	job, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}
	view := ViewOf(job)
	return &view, nil
}

// ListJobs returns views for all jobs, optionally filtered by status.
func ListJobs(ctx context.Context, store *queue.Store, statuses ...queue.Status) ([]JobView, error) {
	jobs, err := store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, ViewOf(job))
	}
	return views, nil
}
