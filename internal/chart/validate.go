package chart

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"podium/internal/faults"
)

var (
	hexColorRE  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	rgbaColorRE = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([0-9.]+)\s*)?\)$`)
)

// ValidateData checks chart data against the documented rules, in order,
// failing on the first violation:
//
//  1. labels present and non-empty
//  2. datasets present and non-empty
//  3. every dataset labeled
//  4. every dataset has non-empty data
//  5. every dataset length matches the label count
//  6. supplied colors are valid expressions
func ValidateData(data Data) error {
	if len(data.Labels) == 0 {
		return faults.New(faults.CodeInvalidChartData, "chart labels must be a non-empty list").
			WithDetail("rule", "labels")
	}
	for i, label := range data.Labels {
		if strings.TrimSpace(label) == "" {
			return faults.Newf(faults.CodeInvalidChartData, "chart label at index %d is empty", i).
				WithDetail("rule", "labels").
				WithDetail("index", i)
		}
	}
	if len(data.Datasets) == 0 {
		return faults.New(faults.CodeInvalidChartData, "chart requires at least one dataset").
			WithDetail("rule", "datasets")
	}
	for i, ds := range data.Datasets {
		if strings.TrimSpace(ds.Label) == "" {
			return faults.Newf(faults.CodeInvalidChartData, "dataset %d is missing a label", i).
				WithDetail("rule", "dataset_label").
				WithDetail("dataset", i)
		}
	}
	for i, ds := range data.Datasets {
		if len(ds.Data) == 0 {
			return faults.Newf(faults.CodeInvalidChartData, "dataset %q has no data points", ds.Label).
				WithDetail("rule", "dataset_data").
				WithDetail("dataset", i)
		}
	}
	for i, ds := range data.Datasets {
		if len(ds.Data) != len(data.Labels) {
			return faults.Newf(
				faults.CodeInvalidChartData,
				"dataset %q has %d data points but %d labels",
				ds.Label, len(ds.Data), len(data.Labels),
			).
				WithDetail("rule", "length_mismatch").
				WithDetail("dataset", i).
				WithDetail("data_length", len(ds.Data)).
				WithDetail("labels_length", len(data.Labels))
		}
	}
	for _, ds := range data.Datasets {
		for _, spec := range append(append(ColorSpecs{}, ds.BackgroundColor...), ds.BorderColor...) {
			if err := ValidateColor(spec); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateColor accepts #RRGGBB hex colors and rgb()/rgba() expressions.
func ValidateColor(spec string) error {
	trimmed := strings.TrimSpace(spec)
	if hexColorRE.MatchString(trimmed) {
		return nil
	}
	if rgbaColorRE.MatchString(trimmed) {
		return nil
	}
	return faults.Newf(faults.CodeInvalidChartData, "invalid color %q", spec).
		WithDetail("rule", "color").
		WithDetail("value", spec)
}

// ParseColor converts a validated color expression into an RGBA value.
func ParseColor(spec string) (color.RGBA, error) {
	trimmed := strings.TrimSpace(spec)
	if hexColorRE.MatchString(trimmed) {
		r, _ := strconv.ParseUint(trimmed[1:3], 16, 8)
		g, _ := strconv.ParseUint(trimmed[3:5], 16, 8)
		b, _ := strconv.ParseUint(trimmed[5:7], 16, 8)
		return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF}, nil
	}
	if m := rgbaColorRE.FindStringSubmatch(trimmed); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		alpha := 1.0
		if m[4] != "" {
			parsed, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("parse alpha %q: %w", m[4], err)
			}
			alpha = parsed
		}
		if r > 255 || g > 255 || b > 255 || alpha < 0 || alpha > 1 {
			return color.RGBA{}, faults.Newf(faults.CodeInvalidChartData, "color component out of range in %q", spec).
				WithDetail("rule", "color").
				WithDetail("value", spec)
		}
		return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(alpha*255 + 0.5)}, nil
	}
	return color.RGBA{}, faults.Newf(faults.CodeInvalidChartData, "invalid color %q", spec).
		WithDetail("rule", "color").
		WithDetail("value", spec)
}
