package layout

import "math"

// This file holds unit helpers shared by the engine, the renderers and the label table.

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PrinterDPI is the native resolution of the QL label printers.
const PrinterDPI = 300

// DotsToMM converts printer dots to millimeters at PrinterDPI.
func DotsToMM(dots int) float64 { return float64(dots) * 25.4 / PrinterDPI }

// EffectiveSpacing returns the extra inter-line gap in pixels for a line spacing percentage.
// 100 means single spacing (0 extra); values below 100 give a negative gap.
func EffectiveSpacing(fontSize float64, lineSpacing int) int {
	return int(math.Round(fontSize * float64(lineSpacing-100) / 100))
}

// MarginFromPercent converts a margin given as a percentage of the font size to pixels,
// truncating like the request parser always did.
func MarginFromPercent(fontSize float64, percent float64) int {
	return int(fontSize * percent / 100)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// half is floorDiv(v, 2).
func half(v int) int { return floorDiv(v, 2) }
