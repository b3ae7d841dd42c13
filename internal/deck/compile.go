package deck

import (
	"fmt"
	"log/slog"
	"strconv"

	"podium/internal/document"
	"podium/internal/faults"
	"podium/internal/logging"
	"podium/internal/theme"
)

// Option configures a compile pass.
type Option func(*compiler)

// WithLogger attaches a logger used for local recoveries (chart placeholder
// substitution). Compilation itself never logs on the happy path.
func WithLogger(logger *slog.Logger) Option {
	return func(c *compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type compiler struct {
	theme  theme.Theme
	logger *slog.Logger
}

// Compile transforms a document into a Deck under one theme. The whole
// document is validated before any slide is rendered; rendering failures
// abort the compile with a slide_generation fault naming the slide. The
// only local recovery is chart embedding, which degrades to a placeholder
// text element.
func Compile(doc *document.Document, th theme.Theme, opts ...Option) (*Deck, error) {
	c := &compiler{theme: th, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	if err := document.Validate(doc); err != nil {
		return nil, err
	}

	compiled := &Deck{Title: doc.Title, Theme: th, Slides: make([]Slide, 0, len(doc.Slides))}
	for i, src := range doc.Slides {
		number := i + 1
		elements, err := c.renderSlide(src, number)
		if err != nil {
			return nil, faults.Wrap(
				faults.CodeSlideGeneration,
				fmt.Sprintf("render %s slide %d", src.Type, number),
				err,
			).
				WithDetail("slide_index", i).
				WithDetail("slide_type", string(src.Type))
		}

		elements = append(c.furniture(number), elements...)
		compiled.Slides = append(compiled.Slides, Slide{
			Type:     src.Type,
			Number:   number,
			Elements: elements,
			Notes:    src.Notes,
		})
	}
	return compiled, nil
}

// renderSlide dispatches to the per-type layout generator. The content
// assertion doubles as the render-time required-field check: a payload that
// slipped past validation with the wrong shape fails here instead of
// producing a broken slide.
func (c *compiler) renderSlide(src document.Slide, number int) ([]Element, error) {
	switch content := src.Content.(type) {
	case document.TitleContent:
		return c.layoutTitle(content), nil
	case document.BodyContent:
		return c.layoutContent(content), nil
	case document.ChartContent:
		return c.layoutChart(content, number), nil
	case document.ComparisonContent:
		return c.layoutComparison(content), nil
	case document.StrategyContent:
		return c.layoutStrategy(content), nil
	case document.TimelineContent:
		return c.layoutTimeline(content), nil
	default:
		return nil, faults.Newf(faults.CodeMissingRequiredField, "slide %d has no usable content payload", number).
			WithDetail("slide_type", string(src.Type))
	}
}

// furniture is the master-slide chrome: header and footer bars and the
// page number. It precedes slide content in z-order, matching a master
// layer that renders beneath slide shapes.
func (c *compiler) furniture(number int) []Element {
	colors := c.theme.Colors
	return []Element{
		Shape{Box: Box{X: 0, Y: 0, W: SlideWidth, H: 0.5}, Kind: ShapeRect, Fill: colors.Primary},
		Shape{Box: Box{X: 0, Y: 7, W: SlideWidth, H: 0.5}, Kind: ShapeRect, Fill: colors.Secondary},
		TextBox{
			Box:      Box{X: 9, Y: 7.1, W: 0.8, H: 0.3},
			Text:     strconv.Itoa(number),
			FontSize: 10,
			Color:    colors.Text,
			Align:    AlignRight,
		},
	}
}
