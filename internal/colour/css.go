package colour

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var cssFuncRegex = regexp.MustCompile(`(?i)^(rgba?|hsla?|oklch|oklab)\s*\((.*)\)$`)

// ParseCSS converts a CSS colour keyword or function to RGB.
// Supports: hex, named colours, rgb/rgba, hsl/hsla, oklch, oklab. Alpha
// components are ignored.
func ParseCSS(value string) (RGB, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return RGB{}, false
	}

	if strings.HasPrefix(value, "#") {
		rgb, err := ParseHex(value)
		return rgb, err == nil
	}

	if named, ok := colornames.Map[strings.ToLower(value)]; ok {
		return RGB{R: named.R, G: named.G, B: named.B}, true
	}

	match := cssFuncRegex.FindStringSubmatch(value)
	if match == nil {
		return RGB{}, false
	}

	args := splitFuncArgs(match[2])
	if len(args) < 3 {
		return RGB{}, false
	}

	switch strings.ToLower(match[1]) {
	case "rgb", "rgba":
		return parseRGBArgs(args)
	case "hsl", "hsla":
		return parseHSLArgs(args)
	case "oklch":
		return parseOKLCHArgs(args)
	case "oklab":
		return parseOKLABArgs(args)
	}
	return RGB{}, false
}

// splitFuncArgs splits colour function arguments on commas, whitespace and
// the alpha slash.
func splitFuncArgs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t' || r == '\n'
	})
}

// parseNumber parses a number with an optional % or deg suffix.
// pctScale is what 100% maps to.
func parseNumber(s string, pctScale float64) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if v, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f / 100 * pctScale, true
	}
	s = strings.TrimSuffix(s, "deg")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseRGBArgs(args []string) (RGB, bool) {
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, ok := parseNumber(args[i], 255)
		if !ok {
			return RGB{}, false
		}
		ch[i] = uint8(clamp(int(math.Round(v)), 0, 255)) // #nosec G115 -- clamped to 0-255
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, true
}

func parseHSLArgs(args []string) (RGB, bool) {
	h, ok1 := parseNumber(args[0], 360)
	s, ok2 := parseNumber(args[1], 1)
	l, ok3 := parseNumber(args[2], 1)
	if !ok1 || !ok2 || !ok3 {
		return RGB{}, false
	}
	// Bare numbers for s and l are percentages in legacy syntax.
	if !strings.HasSuffix(args[1], "%") && s > 1 {
		s /= 100
	}
	if !strings.HasSuffix(args[2], "%") && l > 1 {
		l /= 100
	}
	return HSLToRGB(h, s, l), true
}

// parseOKLCHArgs handles oklch(L C H) where L is 0-1 (or %), C is 0-0.4, H is 0-360.
func parseOKLCHArgs(args []string) (RGB, bool) {
	l, ok1 := parseNumber(args[0], 1)
	c, ok2 := parseNumber(args[1], 0.4)
	h, ok3 := parseNumber(args[2], 360)
	if !ok1 || !ok2 || !ok3 {
		return RGB{}, false
	}
	hRad := h * math.Pi / 180.0
	return oklabToRGB(l, c*math.Cos(hRad), c*math.Sin(hRad)), true
}

// parseOKLABArgs handles oklab(L a b) where L is 0-1 (or %), a and b are -0.4 to 0.4.
func parseOKLABArgs(args []string) (RGB, bool) {
	l, ok1 := parseNumber(args[0], 1)
	a, ok2 := parseNumber(args[1], 0.4)
	b, ok3 := parseNumber(args[2], 0.4)
	if !ok1 || !ok2 || !ok3 {
		return RGB{}, false
	}
	return oklabToRGB(l, a, b), true
}

// oklabToRGB converts OKLAB to RGB.
// Reference: https://bottosson.github.io/posts/oklab/.
func oklabToRGB(l, a, b float64) RGB {
	lVal := l + 0.3963377774*a + 0.2158037573*b
	mVal := l - 0.1055613458*a - 0.0638541728*b
	sVal := l - 0.0894841775*a - 1.2914855480*b

	lVal = lVal * lVal * lVal
	mVal = mVal * mVal * mVal
	sVal = sVal * sVal * sVal

	r := +4.0767416621*lVal - 3.3077115913*mVal + 0.2309699292*sVal
	g := -1.2684380046*lVal + 2.6097574011*mVal - 0.3413193965*sVal
	bVal := -0.0041960863*lVal - 0.7034186147*mVal + 1.7076147010*sVal

	return RGB{
		R: toByte(linearToSRGB(r)),
		G: toByte(linearToSRGB(g)),
		B: toByte(linearToSRGB(bVal)),
	}
}

// linearToSRGB converts linear RGB to sRGB (gamma correction).
func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

// clamp restricts a value to a given range.
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
