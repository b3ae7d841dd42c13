// Package pptx serializes a compiled deck into an OOXML presentation
// package. Parts are written with archive/zip; XML bodies are assembled
// directly with encoding/xml escaping since the shapes involved are a
// small fixed subset of DrawingML.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"

	"podium/internal/deck"
	"podium/internal/faults"
)

// MediaType is the content type of a serialized presentation artifact.
const MediaType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Extension is the artifact file extension including the dot.
const Extension = ".pptx"

// Serialize writes deck as a complete .pptx package. The deck must carry
// at least one slide; a zero-length artifact is never returned.
func Serialize(d *deck.Deck) ([]byte, error) {
	if d == nil || len(d.Slides) == 0 {
		return nil, faults.New(faults.CodeSerialization, "deck has no slides to serialize")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	pkg := newPackage(d)
	for _, part := range pkg.parts() {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, faults.Wrap(faults.CodeSerialization, fmt.Sprintf("create part %s", part.name), err)
		}
		if _, err := w.Write(part.body); err != nil {
			return nil, faults.Wrap(faults.CodeSerialization, fmt.Sprintf("write part %s", part.name), err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, faults.Wrap(faults.CodeSerialization, "finalize package", err)
	}
	if buf.Len() == 0 {
		return nil, faults.New(faults.CodeSerialization, "serialized package is empty")
	}
	return buf.Bytes(), nil
}

// part is one file inside the package zip.
type part struct {
	name string
	body []byte
}
