package enhancer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"podium/internal/document"
	"podium/internal/faults"
)

const sourceYAML = `title: Quarterly Update
slides:
  - type: title
    content:
      title: Quarterly Update
      subtitle: Q3 Numbers
`

const enhancedYAML = `title: Quarterly Update
slides:
  - type: title
    content:
      title: "Quarterly Update: Momentum in Q3"
      subtitle: The numbers behind the quarter
    notes: Open with the revenue headline.
`

func completionBody(t *testing.T, yaml string) string {
	t.Helper()
	inner, err := json.Marshal(map[string]string{"yaml": yaml})
	if err != nil {
		t.Fatal(err)
	}
	outer, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": string(inner)}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(outer)
}

func testClient(serverURL string, opts ...Option) *Client {
	cfg := Config{APIKey: "test-key", BaseURL: serverURL, Model: "test-model"}
	return NewClient(cfg, opts...)
}

// assertEnhancedDocument checks the canonical output for the enhancedYAML
// fixture. Enhance re-emits through the structured writer, so assertions
// are on parsed fields rather than raw bytes.
func assertEnhancedDocument(t *testing.T, got string) {
	t.Helper()
	doc, err := document.Parse(got)
	if err != nil {
		t.Fatalf("enhanced output does not parse: %v", err)
	}
	if doc.Title != "Quarterly Update" || len(doc.Slides) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	content, ok := doc.Slides[0].Content.(document.TitleContent)
	if !ok {
		t.Fatalf("content type = %T", doc.Slides[0].Content)
	}
	if content.Title != "Quarterly Update: Momentum in Q3" || content.Subtitle != "The numbers behind the quarter" {
		t.Fatalf("unexpected content: %+v", content)
	}
	if doc.Slides[0].Notes != "Open with the revenue headline." {
		t.Fatalf("notes = %q", doc.Slides[0].Notes)
	}
}

func TestEnhanceReturnsValidatedYAML(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var payload struct {
			ResponseFormat map[string]string `json:"response_format"`
			Messages       []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.ResponseFormat["type"] != "json_object" {
			t.Errorf("response_format = %v", payload.ResponseFormat)
		}
		if len(payload.Messages) != 2 || !strings.Contains(payload.Messages[1].Content, "Quarterly Update") {
			t.Errorf("unexpected messages %+v", payload.Messages)
		}
		_, _ = w.Write([]byte(completionBody(t, enhancedYAML)))
	}))
	defer server.Close()

	got, err := testClient(server.URL).Enhance(context.Background(), sourceYAML, []string{"finance"})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	assertEnhancedDocument(t, got)
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestEnhanceRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream sad", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(completionBody(t, enhancedYAML)))
	}))
	defer server.Close()

	var slept []time.Duration
	client := testClient(server.URL,
		WithRetryMaxAttempts(3),
		WithRetryBackoff(10*time.Millisecond, 40*time.Millisecond),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	if _, err := client.Enhance(context.Background(), sourceYAML, nil); err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(slept) != 2 || slept[0] != 10*time.Millisecond || slept[1] != 20*time.Millisecond {
		t.Fatalf("backoff delays = %v", slept)
	}
}

func TestEnhanceDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := testClient(server.URL, WithSleeper(func(time.Duration) {}))
	_, err := client.Enhance(context.Background(), sourceYAML, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, faults.New(faults.CodeEnhancement, "")) {
		t.Fatalf("expected enhancement fault, got %v", err)
	}
}

func TestEnhanceHonorsRetryAfter(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(completionBody(t, enhancedYAML)))
	}))
	defer server.Close()

	var slept []time.Duration
	client := testClient(server.URL,
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	if _, err := client.Enhance(context.Background(), sourceYAML, nil); err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("slept = %v, want [1s]", slept)
	}
}

func TestEnhanceRejectsBrokenModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody(t, "slides: {not: [valid")))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Enhance(context.Background(), sourceYAML, nil)
	if err == nil {
		t.Fatal("expected error for broken model output")
	}
	if faults.CodeOf(err) != faults.CodeEnhancement {
		t.Fatalf("code = %q, want enhancement", faults.CodeOf(err))
	}
}

func TestEnhanceRejectsInvalidEnhancedDocument(t *testing.T) {
	// Parses fine but fails validation (content slide without a title).
	invalid := "title: X\nslides:\n  - type: content\n    content:\n      points: [one]\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody(t, invalid)))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Enhance(context.Background(), sourceYAML, nil)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if faults.CodeOf(err) != faults.CodeEnhancement {
		t.Fatalf("code = %q, want enhancement", faults.CodeOf(err))
	}
}

func TestEnhanceStripsCodeFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner, _ := json.Marshal(map[string]string{"yaml": enhancedYAML})
		fenced := "```json\n" + string(inner) + "\n```"
		outer, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": fenced}},
			},
		})
		_, _ = w.Write(outer)
	}))
	defer server.Close()

	got, err := testClient(server.URL).Enhance(context.Background(), sourceYAML, nil)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	assertEnhancedDocument(t, got)
}

func TestEnhanceNormalizesModelOutput(t *testing.T) {
	// Model output using the chartType alias and noisy formatting comes
	// back through the structured writer in canonical form.
	aliased := "title: Revenue Review\n" +
		"slides:\n" +
		"- {type: chart, content: {title: Revenue, chartType: bar, data: {labels: [Q1, Q2], datasets: [{label: Revenue, data: [10, 12]}]}}}\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody(t, aliased)))
	}))
	defer server.Close()

	got, err := testClient(server.URL).Enhance(context.Background(), sourceYAML, nil)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if strings.Contains(got, "chartType") || !strings.Contains(got, "chart_type: bar") {
		t.Fatalf("output not canonical:\n%s", got)
	}
	doc, err := document.Parse(got)
	if err != nil {
		t.Fatalf("normalized output does not parse: %v", err)
	}
	if len(doc.Slides) != 1 || doc.Slides[0].Type != document.TypeChart {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestEnhanceRequiresInputs(t *testing.T) {
	client := NewClient(Config{APIKey: "k", Model: "m"})
	if _, err := client.Enhance(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty source")
	}
	noKey := NewClient(Config{Model: "m"})
	if _, err := noKey.Enhance(context.Background(), sourceYAML, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outer, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"ok":true}`}},
			},
		})
		_, _ = w.Write(outer)
	}))
	defer server.Close()

	if err := testClient(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}
