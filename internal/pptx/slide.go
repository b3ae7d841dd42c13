package pptx

import (
	"bytes"
	"fmt"
	"strings"

	"podium/internal/deck"
)

// slidePart renders one slide's shape tree. Elements are written in the
// order the compiler produced them, which fixes z-order.
func (b *builder) slidePart(slide deck.Slide) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	buf.WriteString(`<p:cSld><p:spTree>`)
	buf.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	buf.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	shapeID := 2
	chartIndex := 0
	for _, el := range slide.Elements {
		switch v := el.(type) {
		case deck.TextBox:
			b.writeTextBox(&buf, shapeID, v)
		case deck.Shape:
			b.writeShape(&buf, shapeID, v)
		case deck.ChartFrame:
			// Chart relationship ids follow the layout rel at rId1.
			writeChartFrame(&buf, shapeID, v, fmt.Sprintf("rId%d", 2+chartIndex))
			chartIndex++
		}
		shapeID++
	}

	buf.WriteString(`</p:spTree></p:cSld>`)
	buf.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	buf.WriteString(`</p:sld>`)
	return buf.Bytes()
}

func xfrm(buf *bytes.Buffer, box deck.Box) {
	fmt.Fprintf(buf, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		emu(box.X), emu(box.Y), emu(box.W), emu(box.H))
}

func (b *builder) writeTextBox(buf *bytes.Buffer, id int, tb deck.TextBox) {
	fmt.Fprintf(buf, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id)
	buf.WriteString(`<p:spPr>`)
	xfrm(buf, tb.Box)
	buf.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	if tb.Fill != "" {
		fmt.Fprintf(buf, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, tb.Fill)
	} else {
		buf.WriteString(`<a:noFill/>`)
	}
	buf.WriteString(`</p:spPr>`)

	buf.WriteString(`<p:txBody>`)
	fmt.Fprintf(buf, `<a:bodyPr wrap="square" anchor="%s"/>`, anchor(tb.VAlign))
	buf.WriteString(`<a:lstStyle/>`)
	buf.WriteString(`<a:p>`)
	fmt.Fprintf(buf, `<a:pPr algn="%s"/>`, algn(tb.Align))
	buf.WriteString(`<a:r>`)
	fmt.Fprintf(buf, `<a:rPr lang="en-US" sz="%d" b="%d" i="%d" dirty="0">`,
		fontSize(tb.FontSize), boolAttr(tb.Bold), boolAttr(tb.Italic))
	color := tb.Color
	if color == "" {
		color = b.deck.Theme.Colors.Text
	}
	fmt.Fprintf(buf, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, color)
	fmt.Fprintf(buf, `<a:latin typeface="%s"/>`, b.deck.Theme.FontFace)
	buf.WriteString(`</a:rPr>`)
	fmt.Fprintf(buf, `<a:t>%s</a:t>`, xmlEscape(tb.Text))
	buf.WriteString(`</a:r></a:p></p:txBody></p:sp>`)
}

func (b *builder) writeShape(buf *bytes.Buffer, id int, sh deck.Shape) {
	fmt.Fprintf(buf, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, id)
	buf.WriteString(`<p:spPr>`)
	xfrm(buf, sh.Box)
	fmt.Fprintf(buf, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, geom(sh.Kind))
	if sh.Fill != "" {
		fmt.Fprintf(buf, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, sh.Fill)
	} else {
		buf.WriteString(`<a:noFill/>`)
	}
	if sh.LineColor != "" {
		width := sh.LineWidth
		if width <= 0 {
			width = 1
		}
		fmt.Fprintf(buf, `<a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln>`,
			int64(width*emuPerPoint), sh.LineColor)
	}
	buf.WriteString(`</p:spPr>`)
	buf.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody>`)
	buf.WriteString(`</p:sp>`)
}

func writeChartFrame(buf *bytes.Buffer, id int, frame deck.ChartFrame, relID string) {
	fmt.Fprintf(buf, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Chart %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`, id, id)
	fmt.Fprintf(buf, `<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`,
		emu(frame.Box.X), emu(frame.Box.Y), emu(frame.Box.W), emu(frame.Box.H))
	buf.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart">`)
	fmt.Fprintf(buf, `<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:id="%s"/>`, relID)
	buf.WriteString(`</a:graphicData></a:graphic></p:graphicFrame>`)
}

// notesPart wraps the speaker notes in the notes body placeholder shape.
func (b *builder) notesPart(notes string) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	buf.WriteString(`<p:cSld><p:spTree>`)
	buf.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	buf.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	buf.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>`)
	buf.WriteString(`<p:spPr/>`)
	buf.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, line := range strings.Split(notes, "\n") {
		buf.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/>`)
		fmt.Fprintf(&buf, `<a:t>%s</a:t>`, xmlEscape(line))
		buf.WriteString(`</a:r></a:p>`)
	}
	buf.WriteString(`</p:txBody></p:sp>`)
	buf.WriteString(`</p:spTree></p:cSld>`)
	buf.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	buf.WriteString(`</p:notes>`)
	return buf.Bytes()
}

func anchor(v deck.VAlign) string {
	switch v {
	case deck.VAlignMiddle:
		return "ctr"
	case deck.VAlignBottom:
		return "b"
	default:
		return "t"
	}
}

func algn(a deck.Align) string {
	switch a {
	case deck.AlignCenter:
		return "ctr"
	case deck.AlignRight:
		return "r"
	default:
		return "l"
	}
}

func geom(kind deck.ShapeKind) string {
	switch kind {
	case deck.ShapeEllipse:
		return "ellipse"
	case deck.ShapeLine:
		return "line"
	default:
		return "rect"
	}
}

func boolAttr(v bool) int {
	if v {
		return 1
	}
	return 0
}
