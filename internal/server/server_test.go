package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"podium/internal/config"
	"podium/internal/pptx"
	"podium/internal/queue"
	"podium/internal/server"
	"podium/internal/testsupport"
)

const sourceYAML = `title: Board Update
slides:
  - type: title
    content:
      title: Board Update
`

type fixture struct {
	cfg    *config.Config
	store  *queue.Store
	server *httptest.Server
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	srv := server.New(cfg, store, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &fixture{cfg: cfg, store: store, server: ts}
}

func (f *fixture) postJSON(t *testing.T, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreatePresentationEnqueues(t *testing.T) {
	f := newFixture(t)
	resp := f.postJSON(t, "/api/presentations", map[string]any{
		"source":  sourceYAML,
		"enhance": true,
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	var body struct {
		JobID int64 `json:"job_id"`
	}
	decodeBody(t, resp, &body)
	if body.JobID == 0 {
		t.Fatal("job_id missing")
	}

	job, err := f.store.GetByID(context.Background(), body.JobID)
	if err != nil || job == nil {
		t.Fatalf("job not stored: %v", err)
	}
	if !job.EnhanceRequested {
		t.Fatal("enhance flag lost")
	}
}

func TestCreatePresentationSyncReturnsArtifact(t *testing.T) {
	f := newFixture(t)
	body, _ := json.Marshal(map[string]any{"source": sourceYAML})
	resp, err := http.Post(f.server.URL+"/api/presentations?sync=1", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != pptx.MediaType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, ".pptx") {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestCreatePresentationSyncSanitizesDownloadName(t *testing.T) {
	f := newFixture(t)
	source := "title: \"Board Update: Q3/Q4\"\nslides:\n  - type: title\n    content:\n      title: Overview\n"
	body, _ := json.Marshal(map[string]any{"source": source})
	resp, err := http.Post(f.server.URL+"/api/presentations?sync=1", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "Board Update- Q3-Q4.pptx") {
		t.Fatalf("content disposition = %q", cd)
	}
	if strings.ContainsAny(strings.TrimPrefix(cd, "attachment; filename="), "/:") {
		t.Fatalf("unsafe characters in %q", cd)
	}
}

func TestCreatePresentationRejectsBadSource(t *testing.T) {
	f := newFixture(t)
	resp := f.postJSON(t, "/api/presentations", map[string]any{"source": "title: X\nslides: []\n"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var fault struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &fault)
	if fault.Code != "empty_document" {
		t.Fatalf("fault code = %q", fault.Code)
	}
}

func TestJobStatusAndNotFound(t *testing.T) {
	f := newFixture(t)
	resp := f.postJSON(t, "/api/presentations", map[string]any{"source": sourceYAML})
	var created struct {
		JobID int64 `json:"job_id"`
	}
	decodeBody(t, resp, &created)

	statusResp, err := http.Get(f.server.URL + "/api/jobs/1")
	if err != nil {
		t.Fatal(err)
	}
	var view struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
		Title  string `json:"title"`
	}
	decodeBody(t, statusResp, &view)
	if view.ID != created.JobID || view.Status != "pending" || view.Title != "Board Update" {
		t.Fatalf("view = %+v", view)
	}

	missing, err := http.Get(f.server.URL + "/api/jobs/999")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", missing.StatusCode)
	}
}

func TestJobArtifactDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := testsupport.NewJob(t, f.store, queue.NewJobParams{Title: "Board Update", SourceYAML: sourceYAML})

	artifact := filepath.Join(t.TempDir(), "board-update.pptx")
	if err := os.WriteFile(artifact, []byte("PK fake zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	job.Status = queue.StatusCompleted
	job.ArtifactPath = artifact
	if err := f.store.Update(ctx, job); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(f.server.URL + "/api/jobs/1/artifact")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != pptx.MediaType {
		t.Fatalf("content type = %q", ct)
	}
}

func TestJobArtifactBeforeCompletionConflicts(t *testing.T) {
	f := newFixture(t)
	testsupport.NewJob(t, f.store, queue.NewJobParams{Title: "Board Update", SourceYAML: sourceYAML})

	resp, err := http.Get(f.server.URL + "/api/jobs/1/artifact")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestChartPreview(t *testing.T) {
	f := newFixture(t)
	resp := f.postJSON(t, "/api/charts/preview", map[string]any{
		"kind": "bar",
		"data": map[string]any{
			"labels": []string{"A", "B"},
			"datasets": []map[string]any{
				{"label": "Series", "data": []float64{1, 2}},
			},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		DataURI string `json:"data_uri"`
	}
	decodeBody(t, resp, &body)
	if !strings.HasPrefix(body.DataURI, "data:image/png;base64,") {
		t.Fatal("data uri missing png prefix")
	}
}

func TestChartPreviewValidationFault(t *testing.T) {
	f := newFixture(t)
	resp := f.postJSON(t, "/api/charts/preview", map[string]any{
		"kind": "bar",
		"data": map[string]any{"labels": []string{}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var fault struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &fault)
	if fault.Code != "invalid_chart_data" {
		t.Fatalf("fault code = %q", fault.Code)
	}
}

func TestPatternsAnalyzeProxies(t *testing.T) {
	analyzer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"patterns":[{"layout":"hero","palette":{"primary":"#112233"},"font":"Inter"}]}`))
	}))
	defer analyzer.Close()

	f := newFixture(t, testsupport.WithAnalyzer(analyzer.URL))
	resp, err := http.Post(f.server.URL+"/api/patterns/analyze", "application/pdf", bytes.NewReader([]byte("%PDF")))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Patterns []struct {
			Layout string `json:"layout"`
		} `json:"patterns"`
	}
	decodeBody(t, resp, &body)
	if len(body.Patterns) != 1 || body.Patterns[0].Layout != "hero" {
		t.Fatalf("patterns = %+v", body.Patterns)
	}
}

func TestPatternsRouteAbsentWhenDisabled(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Post(f.server.URL+"/api/patterns/analyze", "application/pdf", bytes.NewReader([]byte("%PDF")))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when analyzer disabled", resp.StatusCode)
	}
}

func TestCollabRelayBroadcastsToOtherMembers(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Collab.Enabled = true
	})

	wsURL := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/collab/room-1"
	first, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial first: %v", err)
	}
	defer first.Close()
	second, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial second: %v", err)
	}
	defer second.Close()

	// Websocket joins settle asynchronously after the HTTP upgrade.
	time.Sleep(100 * time.Millisecond)

	if err := first.WriteMessage(websocket.TextMessage, []byte(`{"op":"edit","slide":2}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = second.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := second.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(payload) != `{"op":"edit","slide":2}` {
		t.Fatalf("payload = %s", payload)
	}

	// The sender must not receive its own message.
	_ = first.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("sender received its own broadcast")
	}
}

func TestCollabRouteAbsentWhenDisabled(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.server.URL + "/api/collab/room-1")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when collab disabled", resp.StatusCode)
	}
}

func TestLogsEndpointTailsDaemonLog(t *testing.T) {
	f := newFixture(t)
	logPath := filepath.Join(f.cfg.Paths.LogDir, "podium.log")
	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(f.server.URL + "/api/logs?limit=2")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Lines  []string `json:"lines"`
		Offset int64    `json:"offset"`
	}
	decodeBody(t, resp, &body)
	if len(body.Lines) != 2 || body.Lines[0] != "second" || body.Lines[1] != "third" {
		t.Fatalf("lines = %v", body.Lines)
	}
	if body.Offset == 0 {
		t.Fatal("offset did not advance")
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)
	testsupport.NewJob(t, f.store, queue.NewJobParams{Title: "Board Update", SourceYAML: sourceYAML})

	resp, err := http.Get(f.server.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
		Queue  struct {
			Total   int `json:"Total"`
			Pending int `json:"Pending"`
		} `json:"queue"`
	}
	decodeBody(t, resp, &body)
	if body.Status != "ok" || body.Queue.Total != 1 || body.Queue.Pending != 1 {
		t.Fatalf("body = %+v", body)
	}
}
