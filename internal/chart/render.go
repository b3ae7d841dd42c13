package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	defaultWidth  = 800
	defaultHeight = 400

	plotMarginLeft   = 56
	plotMarginRight  = 24
	plotMarginTop    = 20
	plotMarginBottom = 56
	legendHeight     = 28
)

var (
	colorBackground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorGrid       = color.RGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}
	colorAxisText   = color.RGBA{R: 0x6B, G: 0x72, B: 0x80, A: 0xFF}
	colorLegendText = color.RGBA{R: 0x1F, G: 0x29, B: 0x37, A: 0xFF}
)

// Options controls raster output. Zero values select the defaults
// (800x400, default palette).
type Options struct {
	Width  int
	Height int
	// Colors override the palette per dataset index. Each entry must be a
	// valid color expression; invalid entries fail validation before any
	// drawing happens.
	Colors []string
}

// RenderImage rasterizes chart data to a PNG and returns it as a
// data:image/png;base64 URI. Data is validated before rendering even when
// the caller already ran ValidateData.
func RenderImage(kind Kind, data Data, opts Options) (string, error) {
	if err := ValidateData(data); err != nil {
		return "", err
	}
	for _, spec := range opts.Colors {
		if err := ValidateColor(spec); err != nil {
			return "", err
		}
	}

	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := opts.Height
	if height <= 0 {
		height = defaultHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	canvas := &rasterCanvas{img: img}
	plot := image.Rect(plotMarginLeft, plotMarginTop, width-plotMarginRight, height-plotMarginBottom-legendHeight)

	switch ParseKind(string(kind)) {
	case KindPie, KindDoughnut:
		canvas.drawPie(plot, data, opts.Colors, ParseKind(string(kind)) == KindDoughnut)
	case KindLine:
		canvas.drawAxes(plot, data)
		canvas.drawLines(plot, data, opts.Colors, false)
	case KindArea:
		canvas.drawAxes(plot, data)
		canvas.drawLines(plot, data, opts.Colors, true)
	case KindScatter:
		canvas.drawAxes(plot, data)
		canvas.drawScatter(plot, data, opts.Colors)
	default:
		canvas.drawAxes(plot, data)
		canvas.drawBars(plot, data, opts.Colors)
	}

	canvas.drawLegend(image.Rect(plot.Min.X, height-legendHeight, plot.Max.X, height), data, opts.Colors)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode chart png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

type rasterCanvas struct {
	img *image.RGBA
}

func (c *rasterCanvas) fillRect(r image.Rectangle, col color.RGBA) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

func (c *rasterCanvas) drawText(x, y int, text string, col color.RGBA) {
	drawer := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

func (c *rasterCanvas) textWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

func (c *rasterCanvas) drawLine(x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *rasterCanvas) fillCircle(cx, cy, radius int, col color.RGBA) {
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				c.img.SetRGBA(cx+x, cy+y, col)
			}
		}
	}
}

// valueRange finds the plot scale across every dataset, always anchored at
// zero so bar baselines are meaningful.
func valueRange(data Data) (float64, float64) {
	minV, maxV := 0.0, 0.0
	for _, ds := range data.Datasets {
		for _, v := range ds.Data {
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}
	if maxV == minV {
		maxV = minV + 1
	}
	return minV, maxV
}

func (c *rasterCanvas) drawAxes(plot image.Rectangle, data Data) {
	minV, maxV := valueRange(data)

	const gridLines = 5
	for i := 0; i <= gridLines; i++ {
		y := plot.Max.Y - i*plot.Dy()/gridLines
		c.drawLine(plot.Min.X, y, plot.Max.X, y, colorGrid)
		value := minV + (maxV-minV)*float64(i)/gridLines
		label := strconv.FormatFloat(value, 'f', -1, 64)
		if len(label) > 6 {
			label = strconv.FormatFloat(value, 'g', 3, 64)
		}
		c.drawText(plot.Min.X-c.textWidth(label)-6, y+4, label, colorAxisText)
	}

	step := plot.Dx() / max(len(data.Labels), 1)
	for i, label := range data.Labels {
		x := plot.Min.X + i*step + step/2
		c.drawLine(x, plot.Min.Y, x, plot.Max.Y, colorGrid)
		c.drawText(x-c.textWidth(label)/2, plot.Max.Y+16, label, colorAxisText)
	}
}

func (c *rasterCanvas) drawBars(plot image.Rectangle, data Data, overrides []string) {
	minV, maxV := valueRange(data)
	groups := len(data.Labels)
	series := len(data.Datasets)
	groupWidth := plot.Dx() / groups
	barWidth := max(groupWidth/(series+1), 2)

	for si, ds := range data.Datasets {
		col := seriesColor(si, overrides)
		for gi, v := range ds.Data {
			x0 := plot.Min.X + gi*groupWidth + barWidth/2 + si*barWidth
			y := plot.Max.Y - int(float64(plot.Dy())*(v-minV)/(maxV-minV))
			baseline := plot.Max.Y - int(float64(plot.Dy())*(0-minV)/(maxV-minV))
			top, bottom := y, baseline
			if top > bottom {
				top, bottom = bottom, top
			}
			c.fillRect(image.Rect(x0, top, x0+barWidth, bottom), col)
		}
	}
}

func (c *rasterCanvas) drawLines(plot image.Rectangle, data Data, overrides []string, filled bool) {
	minV, maxV := valueRange(data)
	step := plot.Dx() / max(len(data.Labels), 1)

	for si, ds := range data.Datasets {
		col := seriesColor(si, overrides)
		points := make([]image.Point, len(ds.Data))
		for gi, v := range ds.Data {
			points[gi] = image.Point{
				X: plot.Min.X + gi*step + step/2,
				Y: plot.Max.Y - int(float64(plot.Dy())*(v-minV)/(maxV-minV)),
			}
		}
		if filled {
			fill := withAlpha(col, 0.25)
			for gi := 0; gi+1 < len(points); gi++ {
				c.fillTrapezoid(points[gi], points[gi+1], plot.Max.Y, fill)
			}
		}
		for gi := 0; gi+1 < len(points); gi++ {
			c.drawLine(points[gi].X, points[gi].Y, points[gi+1].X, points[gi+1].Y, col)
		}
		for _, pt := range points {
			c.fillCircle(pt.X, pt.Y, 3, col)
		}
	}
}

// fillTrapezoid fills the area between a segment and the plot baseline,
// column by column.
func (c *rasterCanvas) fillTrapezoid(a, b image.Point, baseline int, col color.RGBA) {
	if a.X == b.X {
		return
	}
	if a.X > b.X {
		a, b = b, a
	}
	for x := a.X; x <= b.X; x++ {
		t := float64(x-a.X) / float64(b.X-a.X)
		y := int(float64(a.Y) + t*float64(b.Y-a.Y))
		for yy := y; yy <= baseline; yy++ {
			blendPixel(c.img, x, yy, col)
		}
	}
}

func (c *rasterCanvas) drawScatter(plot image.Rectangle, data Data, overrides []string) {
	minV, maxV := valueRange(data)
	step := plot.Dx() / max(len(data.Labels), 1)
	for si, ds := range data.Datasets {
		col := seriesColor(si, overrides)
		for gi, v := range ds.Data {
			x := plot.Min.X + gi*step + step/2
			y := plot.Max.Y - int(float64(plot.Dy())*(v-minV)/(maxV-minV))
			c.fillCircle(x, y, 4, col)
		}
	}
}

// drawPie renders the first dataset as wedges, one per label, colored with
// the same palette cycle used for series elsewhere.
func (c *rasterCanvas) drawPie(plot image.Rectangle, data Data, overrides []string, doughnut bool) {
	ds := data.Datasets[0]
	total := 0.0
	for _, v := range ds.Data {
		total += math.Abs(v)
	}
	if total == 0 {
		total = 1
	}

	cx := plot.Min.X + plot.Dx()/2
	cy := plot.Min.Y + plot.Dy()/2
	radius := min(plot.Dx(), plot.Dy())/2 - 4
	innerRadius := 0
	if doughnut {
		innerRadius = radius / 2
	}

	starts := make([]float64, len(ds.Data)+1)
	acc := 0.0
	for i, v := range ds.Data {
		starts[i] = acc
		acc += math.Abs(v) / total * 2 * math.Pi
	}
	starts[len(ds.Data)] = 2 * math.Pi

	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			distSq := x*x + y*y
			if distSq > radius*radius || distSq < innerRadius*innerRadius {
				continue
			}
			angle := math.Atan2(float64(y), float64(x)) + math.Pi/2
			if angle < 0 {
				angle += 2 * math.Pi
			}
			for i := 0; i < len(ds.Data); i++ {
				if angle >= starts[i] && angle < starts[i+1] {
					c.img.SetRGBA(cx+x, cy+y, seriesColor(i, overrides))
					break
				}
			}
		}
	}
}

func (c *rasterCanvas) drawLegend(area image.Rectangle, data Data, overrides []string) {
	x := area.Min.X
	y := area.Min.Y + area.Dy()/2
	for i, ds := range data.Datasets {
		col := seriesColor(i, overrides)
		c.fillRect(image.Rect(x, y-5, x+10, y+5), col)
		c.drawText(x+14, y+4, ds.Label, colorLegendText)
		x += 14 + c.textWidth(ds.Label) + 18
		if x > area.Max.X {
			break
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	existing := img.RGBAAt(x, y)
	alpha := float64(col.A) / 255
	blend := func(a, b uint8) uint8 {
		return uint8(float64(b)*alpha + float64(a)*(1-alpha) + 0.5)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: blend(existing.R, col.R),
		G: blend(existing.G, col.G),
		B: blend(existing.B, col.B),
		A: 0xFF,
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
