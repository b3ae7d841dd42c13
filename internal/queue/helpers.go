package queue

import (
	"database/sql"
	"errors"
	"time"
)

const jobColumns = "id, title, status, source_yaml, tags_json, color_scheme, font_scale, enhance_requested, enhanced_yaml, artifact_path, error_message, created_at, updated_at, progress_stage, progress_percent, progress_message, last_heartbeat"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id               int64
		title            sql.NullString
		statusStr        string
		sourceYAML       string
		tagsJSON         sql.NullString
		colorScheme      sql.NullString
		fontScale        sql.NullString
		enhanceRequested sql.NullInt64
		enhancedYAML     sql.NullString
		artifactPath     sql.NullString
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		progressPercent  sql.NullFloat64
		progressMessage  sql.NullString
		lastHeartbeatRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&statusStr,
		&sourceYAML,
		&tagsJSON,
		&colorScheme,
		&fontScale,
		&enhanceRequested,
		&enhancedYAML,
		&artifactPath,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&lastHeartbeatRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:              id,
		Title:           title.String,
		Status:          Status(statusStr),
		SourceYAML:      sourceYAML,
		TagsJSON:        tagsJSON.String,
		ColorScheme:     colorScheme.String,
		FontScale:       fontScale.String,
		EnhancedYAML:    enhancedYAML.String,
		ArtifactPath:    artifactPath.String,
		ErrorMessage:    errorMessage.String,
		ProgressStage:   progressStage.String,
		ProgressPercent: progressPercent.Float64,
		ProgressMessage: progressMessage.String,
	}
	if enhanceRequested.Valid {
		job.EnhanceRequested = enhanceRequested.Int64 != 0
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			job.LastHeartbeat = &heartbeat
		}
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
