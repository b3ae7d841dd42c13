package pptx

import (
	"bytes"
	"fmt"
	"strconv"

	"podium/internal/chart"
	"podium/internal/deck"
)

// chartPart renders a chartSpace document for one embedded chart. The
// category and value caches are written inline since the package carries
// no workbook.
func (b *builder) chartPart(frame deck.ChartFrame) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	buf.WriteString(`<c:chart><c:plotArea><c:layout/>`)

	switch frame.Kind {
	case chart.KindPie:
		writePieChart(&buf, frame, 0)
	case chart.KindDoughnut:
		writePieChart(&buf, frame, 50)
	case chart.KindScatter:
		writeScatterChart(&buf, frame)
		writeValueAxes(&buf)
	case chart.KindLine:
		writeSeriesChart(&buf, frame, "lineChart", "")
		writeCategoryAxes(&buf)
	case chart.KindArea:
		writeSeriesChart(&buf, frame, "areaChart", "")
		writeCategoryAxes(&buf)
	default:
		writeSeriesChart(&buf, frame, "barChart", `<c:barDir val="col"/><c:grouping val="clustered"/>`)
		writeCategoryAxes(&buf)
	}

	buf.WriteString(`</c:plotArea>`)
	pos := frame.LegendPos
	if pos == "" {
		pos = "b"
	}
	fmt.Fprintf(&buf, `<c:legend><c:legendPos val="%s"/><c:overlay val="0"/></c:legend>`, pos)
	buf.WriteString(`<c:plotVisOnly val="1"/>`)
	buf.WriteString(`</c:chart></c:chartSpace>`)
	return buf.Bytes()
}

func writeSeriesChart(buf *bytes.Buffer, frame deck.ChartFrame, element, prefix string) {
	fmt.Fprintf(buf, `<c:%s>`, element)
	buf.WriteString(prefix)
	for i, ds := range frame.Data.Datasets {
		fmt.Fprintf(buf, `<c:ser><c:idx val="%d"/><c:order val="%d"/>`, i, i)
		writeSeriesName(buf, ds.Label)
		fmt.Fprintf(buf, `<c:spPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></c:spPr>`, seriesHex(frame, ds, i))
		buf.WriteString(`<c:cat>`)
		writeStrRef(buf, frame.Data.Labels)
		buf.WriteString(`</c:cat><c:val>`)
		writeNumRef(buf, ds.Data)
		buf.WriteString(`</c:val></c:ser>`)
	}
	buf.WriteString(`<c:axId val="111111111"/><c:axId val="222222222"/>`)
	fmt.Fprintf(buf, `</c:%s>`, element)
}

func writePieChart(buf *bytes.Buffer, frame deck.ChartFrame, holeSize int) {
	element := "pieChart"
	if holeSize > 0 {
		element = "doughnutChart"
	}
	fmt.Fprintf(buf, `<c:%s><c:varyColors val="1"/>`, element)
	for i, ds := range frame.Data.Datasets {
		fmt.Fprintf(buf, `<c:ser><c:idx val="%d"/><c:order val="%d"/>`, i, i)
		writeSeriesName(buf, ds.Label)
		// Per-point fills so each wedge cycles the palette.
		for p := range ds.Data {
			fmt.Fprintf(buf, `<c:dPt><c:idx val="%d"/><c:bubble3D val="0"/><c:spPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></c:spPr></c:dPt>`,
				p, pointHex(frame, ds, p))
		}
		buf.WriteString(`<c:cat>`)
		writeStrRef(buf, frame.Data.Labels)
		buf.WriteString(`</c:cat><c:val>`)
		writeNumRef(buf, ds.Data)
		buf.WriteString(`</c:val></c:ser>`)
	}
	if holeSize > 0 {
		fmt.Fprintf(buf, `<c:holeSize val="%d"/>`, holeSize)
	}
	fmt.Fprintf(buf, `</c:%s>`, element)
}

func writeScatterChart(buf *bytes.Buffer, frame deck.ChartFrame) {
	buf.WriteString(`<c:scatterChart><c:scatterStyle val="marker"/>`)
	for i, ds := range frame.Data.Datasets {
		fmt.Fprintf(buf, `<c:ser><c:idx val="%d"/><c:order val="%d"/>`, i, i)
		writeSeriesName(buf, ds.Label)
		fmt.Fprintf(buf, `<c:spPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></c:spPr>`, seriesHex(frame, ds, i))
		// X values are the 1-based category positions.
		xs := make([]float64, len(ds.Data))
		for j := range xs {
			xs[j] = float64(j + 1)
		}
		buf.WriteString(`<c:xVal>`)
		writeNumRef(buf, xs)
		buf.WriteString(`</c:xVal><c:yVal>`)
		writeNumRef(buf, ds.Data)
		buf.WriteString(`</c:yVal></c:ser>`)
	}
	buf.WriteString(`<c:axId val="111111111"/><c:axId val="222222222"/>`)
	buf.WriteString(`</c:scatterChart>`)
}

func writeCategoryAxes(buf *bytes.Buffer) {
	buf.WriteString(`<c:catAx><c:axId val="111111111"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="b"/><c:crossAx val="222222222"/></c:catAx>`)
	buf.WriteString(`<c:valAx><c:axId val="222222222"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="l"/><c:crossAx val="111111111"/></c:valAx>`)
}

func writeValueAxes(buf *bytes.Buffer) {
	buf.WriteString(`<c:valAx><c:axId val="111111111"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="b"/><c:crossAx val="222222222"/></c:valAx>`)
	buf.WriteString(`<c:valAx><c:axId val="222222222"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="l"/><c:crossAx val="111111111"/></c:valAx>`)
}

func writeSeriesName(buf *bytes.Buffer, label string) {
	buf.WriteString(`<c:tx><c:strRef><c:f></c:f><c:strCache><c:ptCount val="1"/>`)
	fmt.Fprintf(buf, `<c:pt idx="0"><c:v>%s</c:v></c:pt>`, xmlEscape(label))
	buf.WriteString(`</c:strCache></c:strRef></c:tx>`)
}

func writeStrRef(buf *bytes.Buffer, values []string) {
	buf.WriteString(`<c:strRef><c:f></c:f><c:strCache>`)
	fmt.Fprintf(buf, `<c:ptCount val="%d"/>`, len(values))
	for i, v := range values {
		fmt.Fprintf(buf, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, i, xmlEscape(v))
	}
	buf.WriteString(`</c:strCache></c:strRef>`)
}

func writeNumRef(buf *bytes.Buffer, values []float64) {
	buf.WriteString(`<c:numRef><c:f></c:f><c:numCache><c:formatCode>General</c:formatCode>`)
	fmt.Fprintf(buf, `<c:ptCount val="%d"/>`, len(values))
	for i, v := range values {
		fmt.Fprintf(buf, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, i, strconv.FormatFloat(v, 'f', -1, 64))
	}
	buf.WriteString(`</c:numCache></c:numRef>`)
}

// seriesHex picks the fill for one series: dataset override first, then
// the frame's theme colors, then the default palette.
func seriesHex(frame deck.ChartFrame, ds chart.Dataset, index int) string {
	if len(ds.BackgroundColor) > 0 {
		if hex, ok := colorToHex(ds.BackgroundColor[index%len(ds.BackgroundColor)]); ok {
			return hex
		}
	}
	if len(frame.Colors) > 0 {
		return frame.Colors[index%len(frame.Colors)]
	}
	return paletteHex(index)
}

// pointHex picks the fill for one pie wedge.
func pointHex(frame deck.ChartFrame, ds chart.Dataset, point int) string {
	if len(ds.BackgroundColor) > 0 {
		if hex, ok := colorToHex(ds.BackgroundColor[point%len(ds.BackgroundColor)]); ok {
			return hex
		}
	}
	return paletteHex(point)
}

func colorToHex(spec string) (string, bool) {
	rgba, err := chart.ParseColor(spec)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%02X%02X%02X", rgba.R, rgba.G, rgba.B), true
}

func paletteHex(index int) string {
	rgba := chart.PaletteColor(index)
	return fmt.Sprintf("%02X%02X%02X", rgba.R, rgba.G, rgba.B)
}
