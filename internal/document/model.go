// Package document defines the parsed presentation model: a titled,
// ordered list of typed slides, each carrying a payload whose shape is
// fixed by the slide type.
package document

import (
	"strings"

	"podium/internal/chart"
)

// Type enumerates the closed set of slide kinds.
type Type string

const (
	TypeTitle      Type = "title"
	TypeContent    Type = "content"
	TypeChart      Type = "chart"
	TypeComparison Type = "comparison"
	TypeStrategy   Type = "strategy"
	TypeTimeline   Type = "timeline"
)

var typeSet = map[Type]struct{}{
	TypeTitle:      {},
	TypeContent:    {},
	TypeChart:      {},
	TypeComparison: {},
	TypeStrategy:   {},
	TypeTimeline:   {},
}

// Types returns the ordered list of known slide types.
func Types() []Type {
	return []Type{TypeTitle, TypeContent, TypeChart, TypeComparison, TypeStrategy, TypeTimeline}
}

// ParseType normalizes a slide type string. Unknown values are returned
// as-is with ok=false; they are never coerced to a default type.
func ParseType(value string) (Type, bool) {
	normalized := Type(strings.ToLower(strings.TrimSpace(value)))
	_, ok := typeSet[normalized]
	return normalized, ok
}

// Document is a parsed presentation description. Immutable once validated.
type Document struct {
	Title  string
	Slides []Slide
}

// Slide is one typed unit of a document.
type Slide struct {
	Type    Type
	Content Content
	Notes   string
}

// Content is the closed union of per-type slide payloads. The concrete
// types below are the only implementations.
type Content interface {
	slideContent()
}

// TitleContent is the payload of a title slide.
type TitleContent struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle,omitempty"`
}

// BodyContent is the payload of a content slide. Points and Text are both
// optional; a non-empty slide carries at least one of them.
type BodyContent struct {
	Title  string   `yaml:"title"`
	Points []string `yaml:"points,omitempty"`
	Text   string   `yaml:"text,omitempty"`
}

// ChartContent is the payload of a chart slide.
type ChartContent struct {
	Title     string     `yaml:"title"`
	ChartType chart.Kind `yaml:"chart_type,omitempty"`
	Data      chart.Data `yaml:"data"`
}

// ComparisonContent is the payload of a comparison slide.
type ComparisonContent struct {
	Title  string           `yaml:"title"`
	Layout string           `yaml:"layout,omitempty"`
	Items  []ComparisonItem `yaml:"items,omitempty"`
}

// ComparisonItem is one metric box on a comparison slide.
type ComparisonItem struct {
	Title string `yaml:"title"`
	Value string `yaml:"value"`
	Trend string `yaml:"trend,omitempty"`
}

// StrategyContent is the payload of a strategy slide.
type StrategyContent struct {
	Title  string   `yaml:"title"`
	Points []string `yaml:"points"`
}

// TimelineContent is the payload of a timeline slide.
type TimelineContent struct {
	Title string         `yaml:"title"`
	Items []TimelineItem `yaml:"items"`
}

// TimelineItem is one milestone. Date and Period are alternates, as are
// Title and Description; Label and Text resolve the preference order.
type TimelineItem struct {
	Date        string `yaml:"date,omitempty"`
	Period      string `yaml:"period,omitempty"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Label returns the milestone heading: date, then period.
func (t TimelineItem) Label() string {
	if strings.TrimSpace(t.Date) != "" {
		return t.Date
	}
	return t.Period
}

// Text returns the milestone body: description, then title.
func (t TimelineItem) Text() string {
	if strings.TrimSpace(t.Description) != "" {
		return t.Description
	}
	return t.Title
}

func (TitleContent) slideContent()      {}
func (BodyContent) slideContent()       {}
func (ChartContent) slideContent()      {}
func (ComparisonContent) slideContent() {}
func (StrategyContent) slideContent()   {}
func (TimelineContent) slideContent()   {}
