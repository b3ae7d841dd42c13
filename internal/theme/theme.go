// Package theme holds the color and typography configuration applied
// uniformly across one deck compilation.
package theme

import "strings"

// Scheme names a built-in color scheme.
type Scheme string

const (
	SchemeBlue   Scheme = "blue"
	SchemeRed    Scheme = "red"
	SchemeGreen  Scheme = "green"
	SchemePurple Scheme = "purple"
	SchemeOrange Scheme = "orange"
)

// Scale names a font-size preset.
type Scale string

const (
	ScaleSmall  Scale = "small"
	ScaleMedium Scale = "medium"
	ScaleLarge  Scale = "large"
)

// Colors is a scheme's palette. Values are RRGGBB hex without the # prefix,
// the form the deck serializer consumes directly.
type Colors struct {
	Primary    string
	Secondary  string
	Accent     string
	Background string
	Text       string
	LightGray  string
}

// FontSizes is a preset's point sizes per text role.
type FontSizes struct {
	Title    int
	Heading  int
	Subtitle int
	Body     int
	Small    int
	Large    int
}

// Theme is the immutable configuration for one compile pass.
type Theme struct {
	Scheme   Scheme
	Colors   Colors
	Fonts    FontSizes
	FontFace string
}

var schemes = map[Scheme]Colors{
	SchemeBlue: {
		Primary:    "1E40AF",
		Secondary:  "3B82F6",
		Accent:     "EF4444",
		Background: "FFFFFF",
		Text:       "1F2937",
		LightGray:  "F8FAFC",
	},
	SchemeRed: {
		Primary:    "DC2626",
		Secondary:  "EF4444",
		Accent:     "3B82F6",
		Background: "FFFFFF",
		Text:       "1F2937",
		LightGray:  "FEF2F2",
	},
	SchemeGreen: {
		Primary:    "059669",
		Secondary:  "10B981",
		Accent:     "F59E0B",
		Background: "FFFFFF",
		Text:       "1F2937",
		LightGray:  "F0FDF4",
	},
	SchemePurple: {
		Primary:    "7C3AED",
		Secondary:  "8B5CF6",
		Accent:     "EF4444",
		Background: "FFFFFF",
		Text:       "1F2937",
		LightGray:  "FAF5FF",
	},
	SchemeOrange: {
		Primary:    "EA580C",
		Secondary:  "F97316",
		Accent:     "3B82F6",
		Background: "FFFFFF",
		Text:       "1F2937",
		LightGray:  "FFF7ED",
	},
}

var scales = map[Scale]FontSizes{
	ScaleSmall:  {Title: 36, Heading: 24, Subtitle: 20, Body: 14, Small: 12, Large: 28},
	ScaleMedium: {Title: 44, Heading: 28, Subtitle: 24, Body: 18, Small: 14, Large: 32},
	ScaleLarge:  {Title: 52, Heading: 32, Subtitle: 28, Body: 22, Small: 16, Large: 36},
}

// New builds a theme from a scheme and font scale. Unknown selectors fall
// back to blue/medium.
func New(scheme Scheme, scale Scale) Theme {
	colors, ok := schemes[normalizeScheme(scheme)]
	if !ok {
		colors = schemes[SchemeBlue]
	}
	fonts, ok := scales[normalizeScale(scale)]
	if !ok {
		fonts = scales[ScaleMedium]
	}
	resolved := normalizeScheme(scheme)
	if _, known := schemes[resolved]; !known {
		resolved = SchemeBlue
	}
	return Theme{Scheme: resolved, Colors: colors, Fonts: fonts, FontFace: "Arial"}
}

// Default returns the blue/medium theme.
func Default() Theme {
	return New(SchemeBlue, ScaleMedium)
}

// FromTags selects a scheme from design tags: the first tag naming a known
// scheme wins, with a few broader tag heuristics behind it.
func FromTags(tags []string, scale Scale) Theme {
	for _, tag := range tags {
		normalized := normalizeScheme(Scheme(tag))
		if _, ok := schemes[normalized]; ok {
			return New(normalized, scale)
		}
	}
	for _, tag := range tags {
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "finance", "corporate", "consulting":
			return New(SchemeBlue, scale)
		case "growth", "sustainability":
			return New(SchemeGreen, scale)
		case "urgent", "alert":
			return New(SchemeRed, scale)
		case "creative", "innovation":
			return New(SchemePurple, scale)
		case "energy", "retail":
			return New(SchemeOrange, scale)
		}
	}
	return New(SchemeBlue, scale)
}

// Schemes returns the known scheme names in a stable order.
func Schemes() []Scheme {
	return []Scheme{SchemeBlue, SchemeRed, SchemeGreen, SchemePurple, SchemeOrange}
}

func normalizeScheme(s Scheme) Scheme {
	return Scheme(strings.ToLower(strings.TrimSpace(string(s))))
}

func normalizeScale(s Scale) Scale {
	return Scale(strings.ToLower(strings.TrimSpace(string(s))))
}
