package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"podium/internal/deck"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// builder assembles the package part list for one deck. Chart and notes
// parts are numbered globally across slides.
type builder struct {
	deck *deck.Deck

	// chartParts[i] lists the chart part numbers used by slide i, in the
	// order their frames appear.
	chartParts [][]int
	notesParts []int // 0 when slide i has no notes
	chartCount int
	notesCount int
}

func newPackage(d *deck.Deck) *builder {
	b := &builder{
		deck:       d,
		chartParts: make([][]int, len(d.Slides)),
		notesParts: make([]int, len(d.Slides)),
	}
	for i, slide := range d.Slides {
		for _, el := range slide.Elements {
			if _, ok := el.(deck.ChartFrame); ok {
				b.chartCount++
				b.chartParts[i] = append(b.chartParts[i], b.chartCount)
			}
		}
		if strings.TrimSpace(slide.Notes) != "" {
			b.notesCount++
			b.notesParts[i] = b.notesCount
		}
	}
	return b
}

func (b *builder) parts() []part {
	parts := []part{
		{"[Content_Types].xml", b.contentTypes()},
		{"_rels/.rels", rootRels()},
		{"docProps/core.xml", b.coreProps()},
		{"docProps/app.xml", b.appProps()},
		{"ppt/presentation.xml", b.presentation()},
		{"ppt/_rels/presentation.xml.rels", b.presentationRels()},
		{"ppt/theme/theme1.xml", b.themePart()},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels()},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayout()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels()},
	}
	if b.notesCount > 0 {
		parts = append(parts,
			part{"ppt/notesMasters/notesMaster1.xml", notesMaster()},
			part{"ppt/notesMasters/_rels/notesMaster1.xml.rels", notesMasterRels()},
		)
	}

	for i, slide := range b.deck.Slides {
		n := i + 1
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", n), b.slidePart(slide)},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), b.slideRels(i)},
		)
		for j, chartNum := range b.chartParts[i] {
			frame := chartFrameAt(slide, j)
			parts = append(parts, part{
				fmt.Sprintf("ppt/charts/chart%d.xml", chartNum),
				b.chartPart(frame),
			})
		}
		if notesNum := b.notesParts[i]; notesNum > 0 {
			parts = append(parts,
				part{fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", notesNum), b.notesPart(slide.Notes)},
				part{fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", notesNum), notesSlideRels(n)},
			)
		}
	}
	return parts
}

func chartFrameAt(slide deck.Slide, index int) deck.ChartFrame {
	seen := 0
	for _, el := range slide.Elements {
		if frame, ok := el.(deck.ChartFrame); ok {
			if seen == index {
				return frame
			}
			seen++
		}
	}
	return deck.ChartFrame{}
}

func (b *builder) contentTypes() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	buf.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	buf.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	buf.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	buf.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	buf.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	buf.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	if b.notesCount > 0 {
		buf.WriteString(`<Override PartName="/ppt/notesMasters/notesMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"/>`)
	}
	for i := range b.deck.Slides {
		fmt.Fprintf(&buf, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	for i := 1; i <= b.chartCount; i++ {
		fmt.Fprintf(&buf, `<Override PartName="/ppt/charts/chart%d.xml" ContentType="application/vnd.openxmlformats-officedocument.drawingml.chart+xml"/>`, i)
	}
	for i := 1; i <= b.notesCount; i++ {
		fmt.Fprintf(&buf, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, i)
	}
	buf.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	buf.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	buf.WriteString(`</Types>`)
	return buf.Bytes()
}

func rootRels() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	buf.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>`)
	buf.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>`)
	buf.WriteString(`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>`)
	buf.WriteString(`</Relationships>`)
	return buf.Bytes()
}

func (b *builder) coreProps() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	fmt.Fprintf(&buf, `<dc:title>%s</dc:title>`, xmlEscape(b.deck.Title))
	buf.WriteString(`<dc:creator>podium</dc:creator>`)
	buf.WriteString(`</cp:coreProperties>`)
	return buf.Bytes()
}

func (b *builder) appProps() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">`)
	buf.WriteString(`<Application>podium</Application>`)
	fmt.Fprintf(&buf, `<Slides>%d</Slides>`, len(b.deck.Slides))
	buf.WriteString(`</Properties>`)
	return buf.Bytes()
}

func (b *builder) presentation() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	buf.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if b.notesCount > 0 {
		fmt.Fprintf(&buf, `<p:notesMasterIdLst><p:notesMasterId r:id="rId%d"/></p:notesMasterIdLst>`, len(b.deck.Slides)+2)
	}
	buf.WriteString(`<p:sldIdLst>`)
	for i := range b.deck.Slides {
		fmt.Fprintf(&buf, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
	}
	buf.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&buf, `<p:sldSz cx="%d" cy="%d"/>`, slideCX, slideCY)
	fmt.Fprintf(&buf, `<p:notesSz cx="%d" cy="%d"/>`, slideCY, slideCX)
	buf.WriteString(`</p:presentation>`)
	return buf.Bytes()
}

func (b *builder) presentationRels() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	buf.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range b.deck.Slides {
		fmt.Fprintf(&buf, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+2, i+1)
	}
	next := len(b.deck.Slides) + 2
	if b.notesCount > 0 {
		fmt.Fprintf(&buf, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="notesMasters/notesMaster1.xml"/>`, next)
		next++
	}
	fmt.Fprintf(&buf, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>`, next)
	buf.WriteString(`</Relationships>`)
	return buf.Bytes()
}

func (b *builder) slideRels(slideIndex int) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	buf.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	rid := 2
	for _, chartNum := range b.chartParts[slideIndex] {
		fmt.Fprintf(&buf, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart" Target="../charts/chart%d.xml"/>`, rid, chartNum)
		rid++
	}
	if notesNum := b.notesParts[slideIndex]; notesNum > 0 {
		fmt.Fprintf(&buf, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, rid, notesNum)
	}
	buf.WriteString(`</Relationships>`)
	return buf.Bytes()
}

func notesSlideRels(slideNumber int) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	buf.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="../notesMasters/notesMaster1.xml"/>`)
	fmt.Fprintf(&buf, `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="../slides/slide%d.xml"/>`, slideNumber)
	buf.WriteString(`</Relationships>`)
	return buf.Bytes()
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
