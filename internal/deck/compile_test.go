package deck_test

import (
	"errors"
	"strings"
	"testing"

	"podium/internal/chart"
	"podium/internal/deck"
	"podium/internal/document"
	"podium/internal/faults"
	"podium/internal/theme"
)

func titleDoc() *document.Document {
	return &document.Document{
		Title: "Quarterly Review",
		Slides: []document.Slide{
			{
				Type:    document.TypeTitle,
				Content: document.TitleContent{Title: "Quarterly Review", Subtitle: "Q3 2026"},
			},
		},
	}
}

func TestCompileSingleTitleSlide(t *testing.T) {
	compiled, err := deck.Compile(titleDoc(), theme.Default())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(compiled.Slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(compiled.Slides))
	}

	slide := compiled.Slides[0]
	if slide.Number != 1 || slide.Type != document.TypeTitle {
		t.Fatalf("unexpected slide header %+v", slide)
	}
	texts := slide.TextContent()
	if len(texts) < 3 {
		t.Fatalf("expected page number, title, and subtitle texts, got %v", texts)
	}
	joined := strings.Join(texts, "\n")
	if !strings.Contains(joined, "Quarterly Review") || !strings.Contains(joined, "Q3 2026") {
		t.Fatalf("title content missing from %v", texts)
	}
}

func TestCompileEmptyDocumentFails(t *testing.T) {
	_, err := deck.Compile(&document.Document{Title: "empty"}, theme.Default())
	if !errors.Is(err, faults.New(faults.CodeEmptyDocument, "")) {
		t.Fatalf("expected empty_document fault, got %v", err)
	}
}

func TestCompileFurnitureRendersBeneathContent(t *testing.T) {
	compiled, err := deck.Compile(titleDoc(), theme.Default())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	elements := compiled.Slides[0].Elements
	headerBar, ok := elements[0].(deck.Shape)
	if !ok {
		t.Fatalf("first element should be the header bar, got %T", elements[0])
	}
	if headerBar.Box.Y != 0 || headerBar.Box.W != deck.SlideWidth {
		t.Fatalf("unexpected header geometry %+v", headerBar.Box)
	}
	if headerBar.Fill != compiled.Theme.Colors.Primary {
		t.Fatalf("header fill %q, want primary %q", headerBar.Fill, compiled.Theme.Colors.Primary)
	}
}

func TestCompileComparisonGrid(t *testing.T) {
	doc := &document.Document{
		Title: "KPIs",
		Slides: []document.Slide{
			{
				Type: document.TypeComparison,
				Content: document.ComparisonContent{
					Title:  "Key Metrics",
					Layout: "2x2",
					Items: []document.ComparisonItem{
						{Title: "Revenue", Value: "$4.2M", Trend: "+12%"},
						{Title: "Churn", Value: "2.1%", Trend: "-0.3%"},
						{Title: "NPS", Value: "61"},
						{Title: "ARR", Value: "$18M", Trend: "+8%"},
					},
				},
			},
		},
	}

	compiled, err := deck.Compile(doc, theme.Default())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var boxes []deck.Shape
	for _, el := range compiled.Slides[0].Elements {
		if sh, ok := el.(deck.Shape); ok && sh.Kind == deck.ShapeRect && sh.LineWidth == 1 {
			boxes = append(boxes, sh)
		}
	}
	if len(boxes) != 4 {
		t.Fatalf("expected 4 item boxes, got %d", len(boxes))
	}
	// 2x2 layout: two columns, second row below the first.
	if boxes[0].Box.Y != boxes[1].Box.Y {
		t.Fatalf("first row not aligned: %v vs %v", boxes[0].Box, boxes[1].Box)
	}
	if boxes[2].Box.Y <= boxes[0].Box.Y {
		t.Fatalf("second row should be below first: %v vs %v", boxes[2].Box, boxes[0].Box)
	}
	if boxes[0].Box.X == boxes[1].Box.X {
		t.Fatalf("columns overlap: %v vs %v", boxes[0].Box, boxes[1].Box)
	}

	texts := strings.Join(compiled.Slides[0].TextContent(), "\n")
	for _, want := range []string{"Key Metrics", "Revenue", "$4.2M", "+12%", "ARR"} {
		if !strings.Contains(texts, want) {
			t.Fatalf("missing %q in slide text %q", want, texts)
		}
	}
}

func TestCompileChartSlideEmitsFrame(t *testing.T) {
	doc := &document.Document{
		Title: "Revenue",
		Slides: []document.Slide{
			{
				Type: document.TypeChart,
				Content: document.ChartContent{
					Title:     "Revenue by Quarter",
					ChartType: chart.KindBar,
					Data: chart.Data{
						Labels: []string{"Q1", "Q2", "Q3"},
						Datasets: []chart.Dataset{
							{Label: "2026", Data: []float64{4.1, 4.6, 5.0}},
						},
					},
				},
			},
		},
	}

	compiled, err := deck.Compile(doc, theme.Default())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var frame *deck.ChartFrame
	for _, el := range compiled.Slides[0].Elements {
		if cf, ok := el.(deck.ChartFrame); ok {
			frame = &cf
			break
		}
	}
	if frame == nil {
		t.Fatal("no chart frame on chart slide")
	}
	if frame.Kind != chart.KindBar || frame.LegendPos != "b" {
		t.Fatalf("unexpected frame %+v", frame)
	}
	if len(frame.Colors) != 3 || frame.Colors[0] != compiled.Theme.Colors.Primary {
		t.Fatalf("frame should carry theme series colors, got %v", frame.Colors)
	}
}

func TestCompileIdempotent(t *testing.T) {
	doc := &document.Document{
		Title: "Plan",
		Slides: []document.Slide{
			{Type: document.TypeTitle, Content: document.TitleContent{Title: "Plan"}},
			{Type: document.TypeStrategy, Content: document.StrategyContent{
				Title:  "Next Steps",
				Points: []string{"Hire", "Build", "Ship"},
			}},
			{Type: document.TypeTimeline, Content: document.TimelineContent{
				Title: "Roadmap",
				Items: []document.TimelineItem{
					{Date: "2026-09", Title: "Alpha"},
					{Date: "2026-11", Title: "Beta"},
				},
			}},
		},
	}

	first, err := deck.Compile(doc, theme.New(theme.SchemePurple, theme.ScaleSmall))
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	second, err := deck.Compile(doc, theme.New(theme.SchemePurple, theme.ScaleSmall))
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}

	if len(first.Slides) != len(second.Slides) {
		t.Fatalf("slide counts differ: %d vs %d", len(first.Slides), len(second.Slides))
	}
	for i := range first.Slides {
		a := first.Slides[i].TextContent()
		b := second.Slides[i].TextContent()
		if len(a) != len(b) {
			t.Fatalf("slide %d text counts differ", i)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("slide %d text %d differs: %q vs %q", i, j, a[j], b[j])
			}
		}
	}
}

func TestCompileValidationFailureNamesSlide(t *testing.T) {
	doc := &document.Document{
		Title: "Broken",
		Slides: []document.Slide{
			{Type: document.TypeTitle, Content: document.TitleContent{Title: "ok"}},
			{Type: document.TypeChart, Content: document.ChartContent{
				Title: "Bad",
				Data: chart.Data{
					Labels: []string{"A", "B"},
					Datasets: []chart.Dataset{
						{Label: "s", Data: []float64{1}},
					},
				},
			}},
		},
	}

	_, err := deck.Compile(doc, theme.Default())
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if faults.CodeOf(err) != faults.CodeInvalidChartData {
		t.Fatalf("expected invalid_chart_data, got %v", err)
	}
	var fe *faults.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected structured fault, got %T", err)
	}
	if fe.Details["slide_index"] != 1 {
		t.Fatalf("fault should name slide index 1, got %v", fe.Details)
	}
}

func TestCompileStrategyBadges(t *testing.T) {
	doc := &document.Document{
		Title: "Strategy",
		Slides: []document.Slide{
			{Type: document.TypeStrategy, Content: document.StrategyContent{
				Title:  "Initiatives",
				Points: []string{"Expand", "Consolidate"},
			}},
		},
	}

	compiled, err := deck.Compile(doc, theme.Default())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var badges int
	for _, el := range compiled.Slides[0].Elements {
		if sh, ok := el.(deck.Shape); ok && sh.Kind == deck.ShapeEllipse {
			badges++
		}
	}
	if badges != 2 {
		t.Fatalf("expected 2 numbered badges, got %d", badges)
	}
	texts := strings.Join(compiled.Slides[0].TextContent(), " ")
	if !strings.Contains(texts, "1") || !strings.Contains(texts, "2") {
		t.Fatalf("badge numbers missing from %q", texts)
	}
}
