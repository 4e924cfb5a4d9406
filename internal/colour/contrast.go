package colour

import (
	"math"
)

// Level is a WCAG conformance level for one contrast measurement.
type Level int

const (
	LevelFail Level = iota
	LevelAA
	LevelAAA
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelAA:
		return "AA"
	case LevelAAA:
		return "AAA"
	default:
		return "Fail"
	}
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// APCA thresholds in Lc units.
const (
	APCATextThreshold    = 75.0
	APCANonTextThreshold = 60.0
)

// WCAGRatio returns the WCAG contrast ratio rounded to two decimals.
func WCAGRatio(fg, bg RGB) float64 {
	return roundTo(ContrastRatio(fg, bg), 2)
}

// WCAGThresholds returns the AA and AAA ratios for a usage category.
// Large text and non-text graphics share the relaxed 3:1 / 4.5:1 pair.
func WCAGThresholds(isText, isLarge bool) (aa, aaa float64) {
	if isText && !isLarge {
		return 4.5, 7
	}
	return 3, 4.5
}

// WCAGLevel classifies a ratio for a usage category.
func WCAGLevel(ratio float64, isText, isLarge bool) Level {
	aa, aaa := WCAGThresholds(isText, isLarge)
	switch {
	case ratio >= aaa:
		return LevelAAA
	case ratio >= aa:
		return LevelAA
	default:
		return LevelFail
	}
}

// APCA returns an approximate lightness contrast in Lc units, computed as
// the absolute WCAG luminance difference scaled to 0-100 and rounded to one
// decimal. It is not polarity aware and is not the published APCA algorithm.
func APCA(fg, bg RGB) float64 {
	return roundTo(math.Abs(Luminance(fg)-Luminance(bg))*100, 1)
}

// APCAThreshold returns the minimum Lc for a usage category.
func APCAThreshold(isText bool) float64 {
	if isText {
		return APCATextThreshold
	}
	return APCANonTextThreshold
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
