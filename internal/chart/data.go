// Package chart validates chart data and renders raster previews shared by
// the deck compiler and the HTTP preview endpoint.
package chart

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind enumerates the supported chart renderings.
type Kind string

const (
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
	KindPie      Kind = "pie"
	KindDoughnut Kind = "doughnut"
	KindScatter  Kind = "scatter"
	KindArea     Kind = "area"
)

var kindSet = map[Kind]struct{}{
	KindBar:      {},
	KindLine:     {},
	KindPie:      {},
	KindDoughnut: {},
	KindScatter:  {},
	KindArea:     {},
}

// ParseKind normalizes a chart type string. Unrecognized values fall back to
// bar, mirroring how chart type defaults are resolved everywhere else.
func ParseKind(value string) Kind {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := kindSet[normalized]; ok {
		return normalized
	}
	return KindBar
}

// Data carries the labels and series for one chart.
type Data struct {
	Labels   []string  `yaml:"labels" json:"labels"`
	Datasets []Dataset `yaml:"datasets" json:"datasets"`
}

// Dataset is a single labeled series. Color fields accept either a scalar
// or a sequence in the source document.
type Dataset struct {
	Label           string     `yaml:"label" json:"label"`
	Data            []float64  `yaml:"data" json:"data"`
	BackgroundColor ColorSpecs `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BorderColor     ColorSpecs `yaml:"borderColor,omitempty" json:"borderColor,omitempty"`
}

// ColorSpecs is a list of color expressions that unmarshals from either a
// single YAML scalar or a sequence.
type ColorSpecs []string

// UnmarshalYAML accepts both `backgroundColor: "#FF0000"` and a sequence form.
func (c *ColorSpecs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		*c = values
	default:
		var value string
		if err := node.Decode(&value); err != nil {
			return err
		}
		if strings.TrimSpace(value) != "" {
			*c = ColorSpecs{value}
		}
	}
	return nil
}
