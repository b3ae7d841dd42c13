package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"podium/internal/chart"
	"podium/internal/faults"
)

type rawDocument struct {
	Title  string     `yaml:"title"`
	Slides []rawSlide `yaml:"slides"`
}

type rawSlide struct {
	Type    string    `yaml:"type"`
	Content yaml.Node `yaml:"content"`
	Notes   string    `yaml:"notes"`
}

// chartContentSource tolerates both chart_type and chartType spellings
// found in the wild; chart_type wins when both are present.
type chartContentSource struct {
	Title        string     `yaml:"title"`
	ChartType    string     `yaml:"chart_type"`
	ChartTypeAlt string     `yaml:"chartType"`
	Data         chart.Data `yaml:"data"`
}

// Parse converts YAML source text into a Document. It fails with a
// malformed_source fault when the text is not structured YAML of the
// expected shape, and with an empty_document fault when slides are
// missing or empty. Slide types outside the closed set are rejected here;
// there is no fallback slide type.
func Parse(source string) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal([]byte(source), &raw); err != nil {
		return nil, faults.Wrap(faults.CodeMalformedSource, "source is not parseable YAML", err)
	}
	if len(raw.Slides) == 0 {
		return nil, faults.New(faults.CodeEmptyDocument, "document has no slides")
	}

	doc := &Document{
		Title:  strings.TrimSpace(raw.Title),
		Slides: make([]Slide, 0, len(raw.Slides)),
	}
	for i, rs := range raw.Slides {
		slide, err := decodeSlide(rs)
		if err != nil {
			return nil, decorateSlideError(err, i)
		}
		doc.Slides = append(doc.Slides, slide)
	}
	return doc, nil
}

func decodeSlide(rs rawSlide) (Slide, error) {
	slideType, ok := ParseType(rs.Type)
	if !ok {
		return Slide{}, faults.Newf(faults.CodeUnknownSlideType, "unknown slide type %q", rs.Type).
			WithDetail("type", rs.Type).
			WithDetail("known_types", typeNames())
	}

	content, err := decodeContent(slideType, rs.Content)
	if err != nil {
		return Slide{}, err
	}
	return Slide{Type: slideType, Content: content, Notes: rs.Notes}, nil
}

func decodeContent(slideType Type, node yaml.Node) (Content, error) {
	decode := func(target any) error {
		if node.IsZero() {
			return nil
		}
		if err := node.Decode(target); err != nil {
			return faults.Wrap(faults.CodeMalformedSource, fmt.Sprintf("%s slide content has the wrong shape", slideType), err)
		}
		return nil
	}

	switch slideType {
	case TypeTitle:
		var content TitleContent
		if err := decode(&content); err != nil {
			return nil, err
		}
		return content, nil
	case TypeContent:
		var content BodyContent
		if err := decode(&content); err != nil {
			return nil, err
		}
		return content, nil
	case TypeChart:
		var src chartContentSource
		if err := decode(&src); err != nil {
			return nil, err
		}
		kind := src.ChartType
		if strings.TrimSpace(kind) == "" {
			kind = src.ChartTypeAlt
		}
		return ChartContent{Title: src.Title, ChartType: chart.ParseKind(kind), Data: src.Data}, nil
	case TypeComparison:
		var content ComparisonContent
		if err := decode(&content); err != nil {
			return nil, err
		}
		return content, nil
	case TypeStrategy:
		var content StrategyContent
		if err := decode(&content); err != nil {
			return nil, err
		}
		return content, nil
	case TypeTimeline:
		var content TimelineContent
		if err := decode(&content); err != nil {
			return nil, err
		}
		return content, nil
	default:
		// ParseType guards the closed set; reaching here is a programming error.
		return nil, faults.Newf(faults.CodeUnknownSlideType, "unhandled slide type %q", slideType)
	}
}

func decorateSlideError(err error, index int) error {
	if fe := faults.From(err); fe != nil {
		return fe.WithDetail("slide_index", index)
	}
	return err
}

func typeNames() []string {
	types := Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
