package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusEnhancing Status = "enhancing"
	StatusEnhanced  Status = "enhanced"
	StatusCompiling Status = "compiling"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// DaemonStopReason is the error message set when jobs are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusEnhancing,
	StatusEnhanced,
	StatusCompiling,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusEnhancing: {},
	StatusCompiling: {},
}

// Rollback targets for jobs interrupted mid-stage.
var stageRollbacks = map[Status]Status{
	StatusEnhancing: StatusPending,
	StatusCompiling: StatusEnhanced,
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Job represents a compile job persisted in SQLite.
type Job struct {
	ID               int64
	Title            string
	Status           Status
	SourceYAML       string
	TagsJSON         string
	ColorScheme      string
	FontScale        string
	EnhanceRequested bool
	EnhancedYAML     string
	ArtifactPath     string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ProgressStage    string
	ProgressPercent  float64
	ProgressMessage  string
	LastHeartbeat    *time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (j Job) IsProcessing() bool {
	_, ok := processingStatuses[j.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// SetProgress updates all three progress fields together.
func (j *Job) SetProgress(stage, message string, percent float64) {
	j.ProgressStage = stage
	j.ProgressMessage = message
	j.ProgressPercent = percent
}

// SetFailed marks the job as failed with the given error message and
// clears its heartbeat.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.ErrorMessage = message
	j.ProgressPercent = 0
	j.ProgressMessage = message
	j.ProgressStage = "Failed"
	j.LastHeartbeat = nil
}

// EffectiveSource returns the YAML the compiler should consume: the
// enhanced version when enhancement produced one, the original otherwise.
func (j Job) EffectiveSource() string {
	if strings.TrimSpace(j.EnhancedYAML) != "" {
		return j.EnhancedYAML
	}
	return j.SourceYAML
}
