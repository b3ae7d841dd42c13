package pptx

// English Metric Units. OOXML positions everything in EMU; the deck
// model speaks inches.
const emuPerInch = 914400

// EMU per point, used for line widths.
const emuPerPoint = 12700

func emu(inches float64) int64 {
	return int64(inches*emuPerInch + 0.5)
}

// fontSize converts points to the centipoint units of a:rPr sz.
func fontSize(points int) int {
	return points * 100
}

// slide canvas in EMU, 10 x 7.5 inches
var (
	slideCX = emu(10.0)
	slideCY = emu(7.5)
)
