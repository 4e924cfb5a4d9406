package svg

import (
	"strconv"
	"strings"
)

// Colour-bearing attributes that produce usages.
const (
	AttrFill   = "fill"
	AttrStroke = "stroke"
)

// DarkAttrPrefix prefixes the sidecar attribute that carries a dark-mode
// override, e.g. data-dark-fill.
const DarkAttrPrefix = "data-dark-"

// DarkAttr returns the sidecar attribute name for attr.
func DarkAttr(attr string) string {
	return DarkAttrPrefix + attr
}

// Large text thresholds in CSS pixels.
const (
	largeTextSize     = 24.0
	largeBoldTextSize = 18.66
)

var textElements = map[string]bool{
	"text":     true,
	"tspan":    true,
	"textPath": true,
}

// Usage is one resolved fill or stroke applied to one element.
type Usage struct {
	Attribute string
	Element   string
	// Light and Dark are canonical #rrggbb colours. Dark equals Light
	// unless the element carries a resolvable sidecar override.
	Light      string
	Dark       string
	LightToken string
	DarkToken  string
	HasDark    bool
	IsText     bool
	IsLarge    bool
}

// Usages enumerates every resolvable fill and stroke in document order.
// none, transparent and unresolvable expressions are skipped.
func (d *Document) Usages() []Usage {
	located := d.LocatedUsages()
	usages := make([]Usage, len(located))
	for i, l := range located {
		usages[i] = l.Usage
	}
	return usages
}

// LocatedUsage is a usage together with the position of its element among
// the document's start tags, counting the root as 0.
type LocatedUsage struct {
	Usage
	Position int
}

// LocatedUsages is Usages with element positions.
func (d *Document) LocatedUsages() []LocatedUsage {
	var (
		usages   []LocatedUsage
		position = -1
	)
	d.Root.Walk(func(el *Element) {
		position++
		for _, attr := range []string{AttrFill, AttrStroke} {
			expr, ok := d.DeclaredValue(el, attr)
			if !ok {
				continue
			}
			light := d.Resolve(expr, el)
			if !light.OK {
				continue
			}

			u := Usage{
				Attribute:  attr,
				Element:    el.Name,
				Light:      light.Hex,
				Dark:       light.Hex,
				LightToken: light.Token,
				DarkToken:  light.Token,
				IsText:     textElements[el.Name],
			}
			if v, ok := el.Attr(DarkAttr(attr)); ok {
				if dark := d.Resolve(v, el); dark.OK {
					u.Dark, u.DarkToken, u.HasDark = dark.Hex, dark.Token, true
				}
			}
			if u.IsText {
				u.IsLarge = d.isLargeText(el)
			}
			usages = append(usages, LocatedUsage{Usage: u, Position: position})
		}
	})
	return usages
}

// DeclaredValue returns the expression that sets prop on el: an inline
// style declaration, else the last matching stylesheet rule, else the
// presentation attribute.
func (d *Document) DeclaredValue(el *Element, prop string) (string, bool) {
	if v, ok := inlineValue(el, prop); ok {
		return v, true
	}
	if v, ok := d.Styles.Lookup(el, prop); ok {
		return v, true
	}
	return el.Attr(prop)
}

// inlineValue returns the last declaration of prop in el's style attribute.
func inlineValue(el *Element, prop string) (string, bool) {
	style, ok := el.Attr("style")
	if !ok {
		return "", false
	}
	var (
		value string
		found bool
	)
	for _, decl := range ParseDeclarations(style) {
		if decl.Property == prop {
			value, found = decl.Value, true
		}
	}
	return value, found
}

// inheritedValue walks el and its ancestors for the first declared prop.
func (d *Document) inheritedValue(el *Element, prop string) (string, bool) {
	for cur := el; cur != nil; cur = cur.Parent {
		if v, ok := d.DeclaredValue(cur, prop); ok && !strings.EqualFold(v, "inherit") {
			return v, true
		}
	}
	return "", false
}

// isLargeText applies the WCAG large text rule: at least 24px, or at least
// 18.66px when bold.
func (d *Document) isLargeText(el *Element) bool {
	sizeValue, ok := d.inheritedValue(el, "font-size")
	if !ok {
		return false
	}
	size, ok := parseFontSize(sizeValue)
	if !ok {
		return false
	}
	if size >= largeTextSize {
		return true
	}
	weight, _ := d.inheritedValue(el, "font-weight")
	return size >= largeBoldTextSize && isBold(weight)
}

var fontSizeKeywords = map[string]float64{
	"xx-small":  9,
	"x-small":   10,
	"small":     13,
	"medium":    16,
	"large":     18,
	"x-large":   24,
	"xx-large":  32,
	"xxx-large": 48,
}

// parseFontSize converts a font-size value to CSS pixels. Unitless values
// are user units, which map to pixels in SVG.
func parseFontSize(value string) (float64, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if px, ok := fontSizeKeywords[value]; ok {
		return px, true
	}

	scale := 1.0
	switch {
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "pt"):
		value = strings.TrimSuffix(value, "pt")
		scale = 4.0 / 3.0
	case strings.HasSuffix(value, "rem"):
		value = strings.TrimSuffix(value, "rem")
		scale = 16
	case strings.HasSuffix(value, "em"):
		value = strings.TrimSuffix(value, "em")
		scale = 16
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n * scale, true
}

func isBold(weight string) bool {
	weight = strings.ToLower(strings.TrimSpace(weight))
	switch weight {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(weight)
	return err == nil && n >= 700
}
