package document

import (
	"strings"

	"podium/internal/chart"
	"podium/internal/faults"
)

// Validate checks the whole document before compilation: non-empty slide
// list and every slide payload. The first violation aborts with its slide
// index attached.
func Validate(doc *Document) error {
	if doc == nil || len(doc.Slides) == 0 {
		return faults.New(faults.CodeEmptyDocument, "document has no slides")
	}
	for i, slide := range doc.Slides {
		if err := ValidateSlide(slide); err != nil {
			return decorateSlideError(err, i)
		}
	}
	return nil
}

// ValidateSlide checks one slide's payload against its type's required
// fields. The type membership check runs before any dispatch so unknown
// types are always rejected rather than treated as a default slide.
func ValidateSlide(slide Slide) error {
	if _, ok := ParseType(string(slide.Type)); !ok {
		return faults.Newf(faults.CodeUnknownSlideType, "unknown slide type %q", slide.Type).
			WithDetail("type", string(slide.Type))
	}

	switch content := slide.Content.(type) {
	case TitleContent:
		return requireTitle(slide.Type, content.Title)
	case BodyContent:
		return requireTitle(slide.Type, content.Title)
	case ChartContent:
		if err := requireTitle(slide.Type, content.Title); err != nil {
			return err
		}
		if len(content.Data.Labels) == 0 && len(content.Data.Datasets) == 0 {
			return missingField(slide.Type, "data")
		}
		return chart.ValidateData(content.Data)
	case ComparisonContent:
		return requireTitle(slide.Type, content.Title)
	case StrategyContent:
		return requireTitle(slide.Type, content.Title)
	case TimelineContent:
		return requireTitle(slide.Type, content.Title)
	case nil:
		return missingField(slide.Type, "content")
	default:
		return faults.Newf(faults.CodeUnknownSlideType, "unhandled content payload %T", slide.Content)
	}
}

func requireTitle(slideType Type, title string) error {
	if strings.TrimSpace(title) == "" {
		return missingField(slideType, "title")
	}
	return nil
}

func missingField(slideType Type, field string) error {
	return faults.Newf(faults.CodeMissingRequiredField, "%s slide requires %s", slideType, field).
		WithDetail("slide_type", string(slideType)).
		WithDetail("field", field)
}
