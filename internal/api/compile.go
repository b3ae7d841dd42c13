package api

import (
	"log/slog"
	"strings"

	"podium/internal/chart"
	"podium/internal/deck"
	"podium/internal/document"
	"podium/internal/pptx"
	"podium/internal/theme"
)

// CompileDocumentRequest carries one synchronous compile.
type CompileDocumentRequest struct {
	Source      string
	Tags        []string
	ColorScheme string
	FontScale   string
	Logger      *slog.Logger
}

// CompileDocumentResult is the compiled artifact plus its metadata.
type CompileDocumentResult struct {
	Artifact   []byte
	Title      string
	SlideCount int
	MediaType  string
	Extension  string
}

// CompileDocument parses, validates, compiles, and serializes a
// presentation source in one pass.
func CompileDocument(req CompileDocumentRequest) (*CompileDocumentResult, error) {
	doc, err := document.Parse(req.Source)
	if err != nil {
		return nil, err
	}

	th := themeForRequest(req)
	var opts []deck.Option
	if req.Logger != nil {
		opts = append(opts, deck.WithLogger(req.Logger))
	}
	compiled, err := deck.Compile(doc, th, opts...)
	if err != nil {
		return nil, err
	}

	data, err := pptx.Serialize(compiled)
	if err != nil {
		return nil, err
	}
	return &CompileDocumentResult{
		Artifact:   data,
		Title:      doc.Title,
		SlideCount: len(compiled.Slides),
		MediaType:  pptx.MediaType,
		Extension:  pptx.Extension,
	}, nil
}

// RenderChartPreviewRequest asks for a standalone chart image.
type RenderChartPreviewRequest struct {
	Kind   string
	Data   chart.Data
	Width  int
	Height int
}

// RenderChartPreview validates the chart data and renders a PNG data URI.
func RenderChartPreview(req RenderChartPreviewRequest) (string, error) {
	return chart.RenderImage(chart.ParseKind(req.Kind), req.Data, chart.Options{
		Width:  req.Width,
		Height: req.Height,
	})
}

func themeForRequest(req CompileDocumentRequest) theme.Theme {
	scale := theme.Scale(req.FontScale)
	if scheme := strings.TrimSpace(req.ColorScheme); scheme != "" {
		return theme.New(theme.Scheme(scheme), scale)
	}
	return theme.FromTags(req.Tags, scale)
}
