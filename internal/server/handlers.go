package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"podium/internal/api"
	"podium/internal/chart"
	"podium/internal/faults"
	"podium/internal/logging"
	"podium/internal/logs"
	"podium/internal/pptx"
	"podium/internal/queue"
	"podium/internal/textutil"
)

const maxRequestBody = 8 << 20

type createPresentationRequest struct {
	Source      string   `json:"source"`
	Tags        []string `json:"tags,omitempty"`
	ColorScheme string   `json:"color_scheme,omitempty"`
	FontScale   string   `json:"font_scale,omitempty"`
	Enhance     bool     `json:"enhance,omitempty"`
}

type chartPreviewRequest struct {
	Kind   string     `json:"kind"`
	Data   chart.Data `json:"data"`
	Width  int        `json:"width,omitempty"`
	Height int        `json:"height,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := s.store.Health(r.Context())
	if err != nil {
		s.writeFault(w, faults.Wrap(faults.CodeInternal, "queue unavailable", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"queue":  health,
	})
}

// handleCreatePresentation enqueues a compile job, or with ?sync=1
// compiles in-request and streams the artifact back.
func (s *Server) handleCreatePresentation(w http.ResponseWriter, r *http.Request) {
	var req createPresentationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.writeFault(w, err)
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		s.writeFault(w, faults.New(faults.CodeMalformedSource, "source is required"))
		return
	}

	if isSyncRequest(r) {
		result, err := api.CompileDocument(api.CompileDocumentRequest{
			Source:      req.Source,
			Tags:        req.Tags,
			ColorScheme: req.ColorScheme,
			FontScale:   req.FontScale,
			Logger:      s.logger,
		})
		if err != nil {
			s.writeFault(w, err)
			return
		}
		name := textutil.SanitizeFileName(result.Title)
		if name == "" {
			name = "presentation"
		}
		w.Header().Set("Content-Type", pptx.MediaType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+pptx.Extension))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifact)
		return
	}

	job, err := api.EnqueueDocument(r.Context(), s.store, api.EnqueueDocumentRequest{
		Source:      req.Source,
		Tags:        req.Tags,
		ColorScheme: req.ColorScheme,
		FontScale:   req.FontScale,
		Enhance:     req.Enhance,
	})
	if err != nil {
		s.writeFault(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]any{"job_id": job.ID})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	var statuses []queue.Status
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, ok := queue.ParseStatus(raw)
		if !ok {
			s.writeFault(w, faults.Newf(faults.CodeMalformedSource, "unknown status %q", raw))
			return
		}
		statuses = append(statuses, status)
	}
	views, err := api.ListJobs(r.Context(), s.store, statuses...)
	if err != nil {
		s.writeFault(w, faults.Wrap(faults.CodeInternal, "list jobs", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"jobs": views})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeFault(w, err)
		return
	}
	view, err := api.JobStatus(r.Context(), s.store, id)
	if err != nil {
		s.writeFault(w, faults.Wrap(faults.CodeInternal, "fetch job", err))
		return
	}
	if view == nil {
		s.writeNotFound(w, id)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleJobArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeFault(w, err)
		return
	}
	job, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.writeFault(w, faults.Wrap(faults.CodeInternal, "fetch job", err))
		return
	}
	if job == nil {
		s.writeNotFound(w, id)
		return
	}
	if job.Status != queue.StatusCompleted || job.ArtifactPath == "" {
		s.writeJSON(w, http.StatusConflict, faults.Newf(faults.CodeInternal, "job %d has no artifact yet", id).
			WithDetail("status", string(job.Status)))
		return
	}
	f, err := os.Open(job.ArtifactPath)
	if err != nil {
		s.writeFault(w, faults.Wrap(faults.CodeInternal, "open artifact", err))
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", pptx.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(job.ArtifactPath)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}

func (s *Server) handleChartPreview(w http.ResponseWriter, r *http.Request) {
	var req chartPreviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.writeFault(w, err)
		return
	}
	uri, err := api.RenderChartPreview(api.RenderChartPreviewRequest{
		Kind:   req.Kind,
		Data:   req.Data,
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		s.writeFault(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"data_uri": uri})
}

func (s *Server) handleAnalyzePatterns(w http.ResponseWriter, r *http.Request) {
	pdf, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeFault(w, faults.Wrap(faults.CodeAnalysis, "read request body", err))
		return
	}
	found, err := s.analyzer.Analyze(r.Context(), pdf)
	if err != nil {
		s.writeFault(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"patterns": found})
}

// handleLogs tails the daemon log file. A negative offset means "last
// limit lines"; the returned offset resumes where this read stopped.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset := int64(-1)
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeFault(w, faults.Newf(faults.CodeMalformedSource, "invalid offset %q", raw))
			return
		}
		offset = parsed
	}
	limit := 100
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeFault(w, faults.Newf(faults.CodeMalformedSource, "invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	path := filepath.Join(s.cfg.Paths.LogDir, "podium.log")
	result, err := logs.Tail(r.Context(), path, logs.TailOptions{Offset: offset, Limit: limit})
	if err != nil {
		s.writeFault(w, faults.Wrap(faults.CodeInternal, "tail log file", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"lines":  result.Lines,
		"offset": result.Offset,
	})
}

func jobID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, faults.Newf(faults.CodeMalformedSource, "invalid job id %q", raw)
	}
	return id, nil
}

func isSyncRequest(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("sync")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return faults.Wrap(faults.CodeMalformedSource, "request body is not valid JSON", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encode response failed", logging.Error(err))
	}
}

func (s *Server) writeNotFound(w http.ResponseWriter, id int64) {
	s.writeJSON(w, http.StatusNotFound, faults.Newf(faults.CodeInternal, "job %d not found", id))
}

// writeFault encodes a structured fault envelope with the HTTP status
// derived from the fault code.
func (s *Server) writeFault(w http.ResponseWriter, err error) {
	fault := faults.From(err)
	s.writeJSON(w, statusForCode(fault.Code), fault)
}

func statusForCode(code faults.Code) int {
	switch code {
	case faults.CodeMalformedSource,
		faults.CodeEmptyDocument,
		faults.CodeUnknownSlideType,
		faults.CodeMissingRequiredField,
		faults.CodeInvalidChartData:
		return http.StatusBadRequest
	case faults.CodeEnhancement, faults.CodeAnalysis:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
