// Package colour provides colour parsing, conversion and contrast metrics.
package colour

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned when a string is not a #rgb, #rgba, #rrggbb or
// #rrggbbaa colour.
var ErrInvalidHex = errors.New("invalid hex colour")

// Black and White are the extremes tried first by contrast fixes.
var (
	Black = RGB{R: 0, G: 0, B: 0}
	White = RGB{R: 255, G: 255, B: 255}
)

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ParseHex parses a hex colour string into an RGB struct.
// Supports #RGB, #RGBA, #RRGGBB and #RRGGBBAA; any alpha channel is dropped.
func ParseHex(hex string) (RGB, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		return RGB{}, fmt.Errorf("%w: %q has no # prefix", ErrInvalidHex, hex)
	}
	hex = hex[1:]

	// Expand shorthand format (RGB -> RRGGBB, RGBA -> RRGGBBAA).
	if len(hex) == 3 || len(hex) == 4 {
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	}

	switch len(hex) {
	case 6:
	case 8:
		hex = hex[:6]
	default:
		return RGB{}, fmt.Errorf("%w: expected 3, 4, 6 or 8 digits, got %d", ErrInvalidHex, len(hex))
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}

	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// MustParseHex is ParseHex for compile-time constants; it panics on error.
func MustParseHex(hex string) RGB {
	rgb, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return rgb
}

// NormaliseHex returns the canonical 6-digit lowercase form of a hex literal.
func NormaliseHex(hex string) (string, bool) {
	rgb, err := ParseHex(hex)
	if err != nil {
		return "", false
	}
	return rgb.Hex(), true
}
