package document

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"podium/internal/faults"
)

type slideOut struct {
	Type    string  `yaml:"type"`
	Content Content `yaml:"content"`
	Notes   string  `yaml:"notes,omitempty"`
}

type documentOut struct {
	Title  string     `yaml:"title"`
	Slides []slideOut `yaml:"slides"`
}

// Write serializes a document back to YAML through the structured
// marshaller. Output round-trips through Parse.
func Write(doc *Document) (string, error) {
	if doc == nil {
		return "", faults.New(faults.CodeEmptyDocument, "document is nil")
	}
	out := documentOut{
		Title:  doc.Title,
		Slides: make([]slideOut, 0, len(doc.Slides)),
	}
	for _, slide := range doc.Slides {
		out.Slides = append(out.Slides, slideOut{
			Type:    string(slide.Type),
			Content: slide.Content,
			Notes:   slide.Notes,
		})
	}
	encoded, err := yaml.Marshal(out)
	if err != nil {
		return "", faults.Wrap(faults.CodeMalformedSource, "serialize document", err)
	}
	return string(encoded), nil
}

// TitleFromPath derives a presentable deck title from a source file name,
// used when the document itself does not declare one.
func TitleFromPath(sourcePath string) string {
	if sourcePath == "" {
		return "Untitled Presentation"
	}
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Presentation"
	}
	return cases.Title(language.Und).String(title)
}
