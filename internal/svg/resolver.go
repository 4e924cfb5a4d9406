package svg

import (
	"strconv"
	"strings"

	"github.com/jmylchreest/svgtint/internal/colour"
)

// maxResolveDepth bounds var()/currentColor/color-mix recursion so that
// self-referencing custom properties terminate.
const maxResolveDepth = 16

// Resolution is the outcome of resolving one colour expression.
type Resolution struct {
	// Hex is the canonical #rrggbb colour, empty when OK is false.
	Hex string
	// OK is false for none, transparent and anything unresolvable: the
	// expression carries no contrast obligation.
	OK bool
	// Token is the literal expression a source patch should target.
	Token string
}

// Resolve turns a colour expression found on el into a canonical colour.
// el may be nil when the expression has no element context.
func (d *Document) Resolve(expr string, el *Element) Resolution {
	return d.resolve(expr, el, 0)
}

func (d *Document) resolve(expr string, el *Element, depth int) Resolution {
	expr = StripImportant(expr)
	res := Resolution{Token: expr}
	if expr == "" || depth > maxResolveDepth {
		return res
	}
	lower := strings.ToLower(expr)

	switch {
	case strings.HasPrefix(expr, "#"):
		res.Hex, res.OK = colour.NormaliseHex(expr)
		return res

	case strings.HasPrefix(lower, "var("):
		name, fallback, ok := parseVar(expr)
		if !ok {
			return res
		}
		if value, found := d.lookupVar(name); found {
			inner := d.resolve(value, el, depth+1)
			res.Hex, res.OK = inner.Hex, inner.OK
			return res
		}
		if fallback != "" {
			inner := d.resolve(fallback, el, depth+1)
			res.Hex, res.OK = inner.Hex, inner.OK
		}
		return res

	case lower == "currentcolor":
		value, ok := d.currentColor(el)
		if !ok {
			return res
		}
		// The discovered declaration is what a patch has to rewrite.
		return d.resolve(value, el, depth+1)

	case strings.HasPrefix(lower, "color-mix("):
		return d.resolveMix(expr, el, depth)

	case lower == "none" || lower == "transparent":
		return res
	}

	if rgb, ok := colour.ParseCSS(expr); ok {
		res.Hex, res.OK = rgb.Hex(), true
	}
	return res
}

func (d *Document) lookupVar(name string) (string, bool) {
	if d.Styles == nil {
		return "", false
	}
	v, ok := d.Styles.Vars[name]
	return v, ok
}

// parseVar splits var(--name[, fallback]).
func parseVar(expr string) (name, fallback string, ok bool) {
	inner, ok := functionArgs(expr, "var")
	if !ok {
		return "", "", false
	}
	parts := splitTopLevel(inner, ',')
	name = strings.TrimSpace(parts[0])
	if !strings.HasPrefix(name, "--") {
		return "", "", false
	}
	if len(parts) > 1 {
		fallback = strings.TrimSpace(strings.Join(parts[1:], ","))
	}
	return name, fallback, true
}

// functionArgs returns the text between the parentheses of fn(...).
func functionArgs(expr, fn string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if len(expr) < len(fn)+2 || !strings.EqualFold(expr[:len(fn)], fn) {
		return "", false
	}
	rest := strings.TrimSpace(expr[len(fn):])
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

// currentColor finds the value currentColor stands for: the element's
// inline color style, then the root <svg> color, then a matching rule.
func (d *Document) currentColor(el *Element) (string, bool) {
	if el != nil {
		if v, ok := inlineValue(el, "color"); ok {
			return v, true
		}
	}
	if d.Root != nil {
		if v, ok := inlineValue(d.Root, "color"); ok {
			return v, true
		}
		if v, ok := d.Root.Attr("color"); ok {
			return v, true
		}
	}
	if el != nil {
		return d.Styles.Lookup(el, "color")
	}
	return "", false
}

// resolveMix handles color-mix(in <space>, A [P%], B [Q%]). The weight of A
// is P/100 (or 1-Q/100, or one half). An unresolvable B blends with white.
func (d *Document) resolveMix(expr string, el *Element, depth int) Resolution {
	res := Resolution{Token: expr}
	inner, ok := functionArgs(expr, "color-mix")
	if !ok {
		return res
	}
	parts := splitTopLevel(inner, ',')
	if len(parts) < 2 || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(parts[0])), "in ") {
		return res
	}

	exprA, pctA, hasA := splitPercentage(parts[1])
	a := d.resolve(exprA, el, depth+1)
	if !a.OK {
		return res
	}
	rgbA := colour.MustParseHex(a.Hex)

	rgbB := colour.White
	var pctB float64
	var hasB bool
	if len(parts) > 2 {
		var exprB string
		exprB, pctB, hasB = splitPercentage(parts[2])
		if b := d.resolve(exprB, el, depth+1); b.OK {
			rgbB = colour.MustParseHex(b.Hex)
		}
	}

	weight := 0.5
	switch {
	case hasA:
		weight = pctA / 100
	case hasB:
		weight = 1 - pctB/100
	}

	res.Hex, res.OK = colour.Mix(rgbA, rgbB, weight).Hex(), true
	return res
}

// splitPercentage separates a colour-mix component into its colour and an
// optional leading or trailing percentage.
func splitPercentage(component string) (string, float64, bool) {
	component = strings.TrimSpace(component)
	fields := splitTopLevel(component, ' ')
	var kept []string
	var (
		pct float64
		has bool
	)
	for _, f := range fields {
		if f == "" {
			continue
		}
		if v, ok := strings.CutSuffix(f, "%"); ok && !has {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				pct, has = n, true
				continue
			}
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " "), pct, has
}
