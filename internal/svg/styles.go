package svg

import (
	"regexp"
	"slices"
	"strings"
)

var (
	cssCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
	cssRuleRegex    = regexp.MustCompile(`([^{}]+)\{([^{}]*)\}`)
)

// Declaration is one `property: value` pair. Value has any !important
// suffix removed.
type Declaration struct {
	Property string
	Value    string
}

// Rule is one stylesheet rule with a simple (combinator free) selector list.
type Rule struct {
	Selectors []string
	Decls     []Declaration
	Order     int
}

// Styles is the stylesheet collected from a document's <style> blocks.
type Styles struct {
	Rules []Rule
	// Vars maps a custom property name (with leading --) to its last
	// declared value.
	Vars map[string]string
}

// ParseStylesheet collects rules and custom properties from CSS text.
// At-rule preludes are skipped; rules nested inside them are kept.
func ParseStylesheet(css string) *Styles {
	styles := &Styles{Vars: make(map[string]string)}
	css = cssCommentRegex.ReplaceAllString(css, "")

	for i, m := range cssRuleRegex.FindAllStringSubmatch(css, -1) {
		decls := ParseDeclarations(m[2])
		for _, d := range decls {
			if strings.HasPrefix(d.Property, "--") {
				styles.Vars[d.Property] = d.Value
			}
		}

		var selectors []string
		for _, sel := range strings.Split(m[1], ",") {
			if sel = strings.TrimSpace(sel); sel != "" && !strings.HasPrefix(sel, "@") {
				selectors = append(selectors, sel)
			}
		}
		if len(selectors) == 0 {
			continue
		}
		styles.Rules = append(styles.Rules, Rule{
			Selectors: selectors,
			Decls:     decls,
			Order:     i,
		})
	}

	return styles
}

// ParseDeclarations splits a declaration block or inline style attribute.
// Property names are lower-cased except for custom properties.
func ParseDeclarations(block string) []Declaration {
	var decls []Declaration
	for _, part := range splitTopLevel(block, ';') {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if !strings.HasPrefix(prop, "--") {
			prop = strings.ToLower(prop)
		}
		value = StripImportant(value)
		if prop == "" {
			continue
		}
		decls = append(decls, Declaration{Property: prop, Value: value})
	}
	return decls
}

// StripImportant trims whitespace and a trailing !important marker.
func StripImportant(value string) string {
	value = strings.TrimSpace(value)
	lower := strings.ToLower(value)
	if idx := strings.LastIndex(lower, "!important"); idx >= 0 && strings.TrimSpace(lower[idx+len("!important"):]) == "" {
		value = strings.TrimSpace(value[:idx])
	}
	return value
}

// splitTopLevel splits s on sep, ignoring separators inside parentheses.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// Lookup returns the value of prop from the last rule (in stylesheet order)
// whose selector matches el.
func (s *Styles) Lookup(el *Element, prop string) (string, bool) {
	if s == nil {
		return "", false
	}
	var (
		value string
		found bool
	)
	for _, rule := range s.Rules {
		if !rule.matches(el) {
			continue
		}
		for _, d := range rule.Decls {
			if d.Property == prop {
				value, found = d.Value, true
			}
		}
	}
	return value, found
}

func (r Rule) matches(el *Element) bool {
	for _, sel := range r.Selectors {
		if selectorMatches(sel, el) {
			return true
		}
	}
	return false
}

// selectorMatches supports compound selectors of the form
// tag, .class, #id and their concatenations (e.g. text.label.bold).
func selectorMatches(sel string, el *Element) bool {
	if sel == "" || strings.ContainsAny(sel, " >+~[:*") {
		return false
	}

	classes := el.Classes()
	id, _ := el.Attr("id")

	i := 0
	for i < len(sel) {
		kind := byte(0)
		if sel[i] == '.' || sel[i] == '#' {
			kind = sel[i]
			i++
		}
		j := i
		for j < len(sel) && sel[j] != '.' && sel[j] != '#' {
			j++
		}
		name := sel[i:j]
		if name == "" {
			return false
		}
		switch kind {
		case '.':
			if !slices.Contains(classes, name) {
				return false
			}
		case '#':
			if id != name {
				return false
			}
		default:
			if !strings.EqualFold(el.Name, name) {
				return false
			}
		}
		i = j
	}
	return true
}
