package pptx_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"podium/internal/chart"
	"podium/internal/deck"
	"podium/internal/document"
	"podium/internal/faults"
	"podium/internal/pptx"
	"podium/internal/theme"
)

func compileSample(t *testing.T) *deck.Deck {
	t.Helper()
	doc := &document.Document{
		Title: "Annual Report",
		Slides: []document.Slide{
			{
				Type:    document.TypeTitle,
				Content: document.TitleContent{Title: "Annual Report", Subtitle: "FY 2026"},
				Notes:   "Welcome everyone.",
			},
			{
				Type: document.TypeChart,
				Content: document.ChartContent{
					Title:     "Revenue",
					ChartType: chart.KindBar,
					Data: chart.Data{
						Labels: []string{"Q1", "Q2"},
						Datasets: []chart.Dataset{
							{Label: "Revenue", Data: []float64{10, 12}},
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
	return compiled
}

func readParts(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}
	parts := make(map[string][]byte, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read part %s: %v", f.Name, err)
		}
		parts[f.Name] = body
	}
	return parts
}

func TestSerializeProducesExpectedParts(t *testing.T) {
	data, err := pptx.Serialize(compileSample(t))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty artifact")
	}

	parts := readParts(t, data)
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/theme/theme1.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/_rels/slide2.xml.rels",
		"ppt/charts/chart1.xml",
		"ppt/notesSlides/notesSlide1.xml",
		"ppt/notesMasters/notesMaster1.xml",
	} {
		if _, ok := parts[want]; !ok {
			t.Errorf("missing part %s", want)
		}
	}
}

func TestSerializeSlideCarriesText(t *testing.T) {
	data, err := pptx.Serialize(compileSample(t))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parts := readParts(t, data)

	slide1 := string(parts["ppt/slides/slide1.xml"])
	if !strings.Contains(slide1, "<a:t>Annual Report</a:t>") {
		t.Fatalf("title text missing from slide1: %s", slide1)
	}
	if !strings.Contains(slide1, "<a:t>FY 2026</a:t>") {
		t.Fatal("subtitle text missing from slide1")
	}

	notes := string(parts["ppt/notesSlides/notesSlide1.xml"])
	if !strings.Contains(notes, "Welcome everyone.") {
		t.Fatal("speaker notes missing")
	}
}

func TestSerializeChartPartHasSeriesData(t *testing.T) {
	data, err := pptx.Serialize(compileSample(t))
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parts := readParts(t, data)

	chartXML := string(parts["ppt/charts/chart1.xml"])
	if !strings.Contains(chartXML, "<c:barChart>") {
		t.Fatalf("expected bar chart, got %s", chartXML)
	}
	for _, want := range []string{"<c:v>Q1</c:v>", "<c:v>Q2</c:v>", "<c:v>10</c:v>", "<c:v>12</c:v>", "<c:v>Revenue</c:v>"} {
		if !strings.Contains(chartXML, want) {
			t.Errorf("chart part missing %s", want)
		}
	}
	if !strings.Contains(chartXML, `<c:legendPos val="b"/>`) {
		t.Error("legend should sit at the bottom")
	}

	slide2 := string(parts["ppt/slides/slide2.xml"])
	if !strings.Contains(slide2, `r:id="rId2"`) {
		t.Fatal("slide2 should reference its chart relationship")
	}
	rels := string(parts["ppt/slides/_rels/slide2.xml.rels"])
	if !strings.Contains(rels, "../charts/chart1.xml") {
		t.Fatal("slide2 rels should target chart1")
	}
}

func TestSerializeEscapesMarkup(t *testing.T) {
	doc := &document.Document{
		Title: "Risks & Rewards",
		Slides: []document.Slide{
			{Type: document.TypeTitle, Content: document.TitleContent{Title: "Risks & <Rewards>"}},
		},
	}
	compiled, err := deck.Compile(doc, theme.Default())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	data, err := pptx.Serialize(compiled)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parts := readParts(t, data)
	slide1 := string(parts["ppt/slides/slide1.xml"])
	if !strings.Contains(slide1, "Risks &amp; &lt;Rewards&gt;") {
		t.Fatalf("markup not escaped: %s", slide1)
	}
}

func TestSerializeEmptyDeckFails(t *testing.T) {
	_, err := pptx.Serialize(&deck.Deck{Title: "empty"})
	if faults.CodeOf(err) != faults.CodeSerialization {
		t.Fatalf("expected serialization fault, got %v", err)
	}
	var fe *faults.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected structured fault, got %T", err)
	}
}

func TestMediaType(t *testing.T) {
	if pptx.MediaType != "application/vnd.openxmlformats-officedocument.presentationml.presentation" {
		t.Fatalf("unexpected media type %q", pptx.MediaType)
	}
	if pptx.Extension != ".pptx" {
		t.Fatalf("unexpected extension %q", pptx.Extension)
	}
}

func TestSerializeDoughnutChart(t *testing.T) {
	doc := &document.Document{
		Title: "Share",
		Slides: []document.Slide{
			{
				Type: document.TypeChart,
				Content: document.ChartContent{
					Title:     "Market Share",
					ChartType: chart.KindDoughnut,
					Data: chart.Data{
						Labels: []string{"Us", "Them"},
						Datasets: []chart.Dataset{
							{Label: "Share", Data: []float64{60, 40}},
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
	data, err := pptx.Serialize(compiled)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	chartXML := string(readParts(t, data)["ppt/charts/chart1.xml"])
	if !strings.Contains(chartXML, "<c:doughnutChart>") || !strings.Contains(chartXML, `<c:holeSize val="50"/>`) {
		t.Fatalf("expected doughnut chart with hole, got %s", chartXML)
	}
}
