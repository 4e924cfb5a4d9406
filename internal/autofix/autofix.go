// Package autofix synthesises replacement colours that meet contrast
// thresholds against a light and a dark background.
package autofix

import (
	"fmt"
	"math"
	"strings"

	"github.com/jmylchreest/svgtint/internal/colour"
)

const (
	// maxIterations bounds the lightness binary search.
	maxIterations = 20
	scanSteps     = 50
)

// Mode selects the metric that drives a fix.
type Mode int

const (
	ModeWCAG Mode = iota
	ModeAPCA
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeAPCA {
		return "apca"
	}
	return "wcag"
}

// ParseMode parses "wcag" or "apca".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wcag":
		return ModeWCAG, nil
	case "apca":
		return ModeAPCA, nil
	default:
		return ModeWCAG, fmt.Errorf("invalid contrast mode: %s (valid: wcag, apca)", s)
	}
}

// Method records how a suggestion was produced.
type Method int

const (
	MethodUnchanged Method = iota
	MethodUniversal
	MethodLightness
	MethodSplit
	MethodBestEffort
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodUniversal:
		return "universal"
	case MethodLightness:
		return "lightness"
	case MethodSplit:
		return "split"
	case MethodBestEffort:
		return "best-effort"
	default:
		return "unchanged"
	}
}

// MarshalText encodes the method by name.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Options describes the usage being fixed.
type Options struct {
	IsText  bool
	IsLarge bool
	Mode    Mode
}

// Suggestion is a replacement for the light background and, when one colour
// cannot serve both, a distinct replacement for the dark background.
type Suggestion struct {
	Hex     string
	DarkHex string
	Method  Method
}

// Split reports whether the light and dark replacements differ.
func (s Suggestion) Split() bool {
	return s.DarkHex != s.Hex
}

// Suggest returns a colour derived from hex that meets the thresholds for
// opts against both backgrounds. Black and white are tried first, then a
// lightness search that keeps hue and saturation. If no single colour works
// the light and dark replacements are searched separately. When nothing
// passes the closest candidate is returned. The result is deterministic.
func Suggest(hex, bgLight, bgDark string, opts Options) Suggestion {
	fg, err1 := colour.ParseHex(hex)
	light, err2 := colour.ParseHex(bgLight)
	dark, err3 := colour.ParseHex(bgDark)
	if err1 != nil || err2 != nil || err3 != nil {
		return Suggestion{Hex: hex, DarkHex: hex, Method: MethodUnchanged}
	}

	c := criteria{opts: opts}
	bgs := []colour.RGB{light, dark}

	if c.passesAll(fg, bgs, true) {
		return unified(fg, MethodUnchanged)
	}

	if s, ok := c.unify(fg, light, dark, true); ok {
		return s
	}

	lightFix, okLight := c.side(fg, light, true)
	darkFix, okDark := c.side(fg, dark, true)
	if okLight && okDark {
		return Suggestion{Hex: lightFix.Hex(), DarkHex: darkFix.Hex(), Method: MethodSplit}
	}

	if s, ok := c.unify(fg, light, dark, false); ok {
		return s
	}

	method := MethodSplit
	lightFix, okLight = c.sideRelaxed(fg, light)
	darkFix, okDark = c.sideRelaxed(fg, dark)
	if !okLight || !okDark {
		method = MethodBestEffort
	}
	return Suggestion{Hex: lightFix.Hex(), DarkHex: darkFix.Hex(), Method: method}
}

// SuggestSingle fixes hex against one background.
func SuggestSingle(hex, bg string, opts Options) string {
	return Suggest(hex, bg, bg, opts).Hex
}

func unified(c colour.RGB, m Method) Suggestion {
	return Suggestion{Hex: c.Hex(), DarkHex: c.Hex(), Method: m}
}

// unify looks for one colour passing both backgrounds: black or white when
// either beats the original's score, else a lightness search.
func (c criteria) unify(fg, light, dark colour.RGB, strict bool) (Suggestion, bool) {
	bgs := []colour.RGB{light, dark}

	base := score(fg, light, dark, c.opts)
	for _, candidate := range []colour.RGB{colour.Black, colour.White} {
		if score(candidate, light, dark, c.opts) > base && c.passesAll(candidate, bgs, strict) {
			return unified(candidate, MethodUniversal), true
		}
	}

	if found, ok := searchLightness(fg, func(rgb colour.RGB) bool {
		return c.passesAll(rgb, bgs, strict)
	}); ok {
		return unified(found, MethodLightness), true
	}
	return Suggestion{}, false
}

// side fixes fg for one background, keeping it when it already passes.
func (c criteria) side(fg, bg colour.RGB, strict bool) (colour.RGB, bool) {
	bgs := []colour.RGB{bg}
	if c.passesAll(fg, bgs, strict) {
		return fg, true
	}
	return searchLightness(fg, func(rgb colour.RGB) bool {
		return c.passesAll(rgb, bgs, strict)
	})
}

// sideRelaxed tries strict, then primary only, then the best extreme.
func (c criteria) sideRelaxed(fg, bg colour.RGB) (colour.RGB, bool) {
	if found, ok := c.side(fg, bg, true); ok {
		return found, true
	}
	if found, ok := c.side(fg, bg, false); ok {
		return found, true
	}

	h, s, _ := colour.RGBToHSL(fg)
	darkest := colour.HSLToRGB(h, s, 0)
	lightest := colour.HSLToRGB(h, s, 1)
	if c.primaryValue(lightest, bg) > c.primaryValue(darkest, bg) {
		return lightest, false
	}
	return darkest, false
}

// searchLightness looks for the passing lightness closest to the
// original, holding hue and saturation. A coarse scan locates the nearest
// passing band, then a bounded binary search moves its edge towards the
// original lightness.
func searchLightness(fg colour.RGB, pass func(colour.RGB) bool) (colour.RGB, bool) {
	h, s, l := colour.RGBToHSL(fg)

	nearest, nearestDist := -1.0, math.Inf(1)
	for i := 0; i <= scanSteps; i++ {
		candidate := float64(i) / scanSteps
		if !pass(colour.HSLToRGB(h, s, candidate)) {
			continue
		}
		if dist := math.Abs(candidate - l); dist < nearestDist {
			nearest, nearestDist = candidate, dist
		}
	}
	if nearest < 0 {
		return colour.RGB{}, false
	}

	good, bad := nearest, l
	for i := 0; i < maxIterations; i++ {
		mid := (good + bad) / 2
		if pass(colour.HSLToRGB(h, s, mid)) {
			good = mid
		} else {
			bad = mid
		}
	}
	return colour.HSLToRGB(h, s, good), true
}

// score awards 2 points per AAA and 1 per AA WCAG result on each background.
func score(fg, light, dark colour.RGB, opts Options) int {
	return int(colour.WCAGLevel(colour.WCAGRatio(fg, light), opts.IsText, opts.IsLarge)) +
		int(colour.WCAGLevel(colour.WCAGRatio(fg, dark), opts.IsText, opts.IsLarge))
}

// criteria decides whether a candidate passes. The mode's metric is
// primary; for text the other metric is secondary and only required in
// strict checks.
type criteria struct {
	opts Options
}

func (c criteria) wcag(fg, bg colour.RGB) bool {
	aa, _ := colour.WCAGThresholds(c.opts.IsText, c.opts.IsLarge)
	return colour.WCAGRatio(fg, bg) >= aa
}

func (c criteria) apca(fg, bg colour.RGB) bool {
	return colour.APCA(fg, bg) >= colour.APCAThreshold(c.opts.IsText)
}

func (c criteria) apcaPrimary() bool {
	return c.opts.Mode == ModeAPCA && c.opts.IsText
}

func (c criteria) passes(fg, bg colour.RGB, strict bool) bool {
	if c.apcaPrimary() {
		return c.apca(fg, bg) && (!strict || c.wcag(fg, bg))
	}
	return c.wcag(fg, bg) && (!strict || !c.opts.IsText || c.apca(fg, bg))
}

func (c criteria) passesAll(fg colour.RGB, bgs []colour.RGB, strict bool) bool {
	for _, bg := range bgs {
		if !c.passes(fg, bg, strict) {
			return false
		}
	}
	return true
}

// primaryValue is the primary metric's value normalised to its threshold.
func (c criteria) primaryValue(fg, bg colour.RGB) float64 {
	if c.apcaPrimary() {
		return colour.APCA(fg, bg) / colour.APCAThreshold(true)
	}
	aa, _ := colour.WCAGThresholds(c.opts.IsText, c.opts.IsLarge)
	return colour.WCAGRatio(fg, bg) / aa
}
