// Package deck compiles a validated document and a theme into an ordered
// sequence of absolutely positioned slide visuals ready for serialization.
package deck

import (
	"podium/internal/chart"
	"podium/internal/document"
	"podium/internal/theme"
)

// Box is an element's position and size in inches on a 10x7.5in slide.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Slide dimensions in inches.
const (
	SlideWidth  = 10.0
	SlideHeight = 7.5
)

// Align is horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// VAlign is vertical text alignment.
type VAlign string

const (
	VAlignTop    VAlign = "top"
	VAlignMiddle VAlign = "middle"
	VAlignBottom VAlign = "bottom"
)

// Element is the closed union of slide visuals. Concrete types: TextBox,
// Shape, ChartFrame.
type Element interface {
	element()
}

// TextBox is a positioned run of text.
type TextBox struct {
	Box      Box
	Text     string
	FontSize int
	Color    string // RRGGBB
	Bold     bool
	Italic   bool
	Align    Align
	VAlign   VAlign
	Fill     string // optional RRGGBB background
}

// ShapeKind enumerates drawable shapes.
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
	ShapeLine    ShapeKind = "line"
)

// Shape is a positioned geometric element.
type Shape struct {
	Box       Box
	Kind      ShapeKind
	Fill      string // RRGGBB, empty for no fill
	LineColor string // RRGGBB, empty for no outline
	LineWidth float64
}

// ChartFrame is a native chart object embedded in a slide.
type ChartFrame struct {
	Box       Box
	Kind      chart.Kind
	Data      chart.Data
	Colors    []string // RRGGBB series colors
	LegendPos string   // "b" for bottom
}

func (TextBox) element()    {}
func (Shape) element()      {}
func (ChartFrame) element() {}

// Slide is one rendered slide: its visuals in z-order plus speaker notes.
type Slide struct {
	Type     document.Type
	Number   int
	Elements []Element
	Notes    string
}

// Deck is the compiled presentation. Produced by Compile, consumed exactly
// once by the serializer, never mutated afterwards.
type Deck struct {
	Title  string
	Theme  theme.Theme
	Slides []Slide
}

// TextContent collects all text runs of a slide in z-order, used by tests
// and logical-equality comparisons.
func (s Slide) TextContent() []string {
	var texts []string
	for _, el := range s.Elements {
		if tb, ok := el.(TextBox); ok {
			texts = append(texts, tb.Text)
		}
	}
	return texts
}
