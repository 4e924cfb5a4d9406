// Package patch rewrites colour tokens in SVG source text. Edits are made
// on the text itself so formatting, comments and unrelated markup survive
// untouched.
package patch

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/jmylchreest/svgtint/internal/colour"
	"github.com/jmylchreest/svgtint/internal/svg"
)

// Method records how a fix was applied.
type Method int

const (
	MethodNone Method = iota
	MethodStructural
	MethodFallback
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodStructural:
		return "structural"
	case MethodFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Options refine a fix.
type Options struct {
	// Attribute limits element edits to fill or stroke. Empty means both.
	Attribute string
	// OriginalDarkTokens, when set, restricts element edits to elements
	// whose dark expression is one of these tokens. An element without a
	// sidecar uses its light expression as its dark one.
	OriginalDarkTokens []string
	// NewDarkHex, when set, is written to the sidecar of every matched
	// element. A value equal to the new light colour removes the sidecar.
	NewDarkHex string
	// DarkOnly leaves every light value as it is and only writes sidecars.
	DarkOnly bool
	// Elements lists the positions (see svg.LocatedUsage) of elements that
	// take the token from a stylesheet rule or currentColor. They carry no
	// matching attribute of their own but receive the sidecar too.
	Elements []int
}

// Result is the outcome of ApplyFix.
type Result struct {
	Source  string
	Changed bool
	Method  Method
	// Matches is the number of locations edited.
	Matches int
}

var varToken = regexp.MustCompile(`(?s)^var\(\s*(--[A-Za-z0-9_-]+)\s*(?:,.*)?\)$`)

type edit struct {
	start, end int
	text       string
}

type patcher struct {
	token    string
	varName  string
	newLight string
	newDark  string
	opts     Options
	// declared is false for a var() token whose property is never declared
	// in a stylesheet; its fallback argument is edited instead.
	declared bool
	// positions maps a start tag offset to its svg.LocatedUsage position.
	positions map[int]int
}

// ApplyFix replaces originalToken with newLightHex wherever it is the exact
// value of a colour attribute, inline style declaration, <style>
// declaration or custom property. For a var(--x) token the declaration of
// --x is rewritten instead, or the fallback argument when --x is never
// declared. When no such location exists the token is substituted as a
// whole word anywhere in the text, except for DarkOnly fixes. ApplyFix
// never fails; an unusable request returns the source unchanged.
func ApplyFix(source, originalToken, newLightHex string, opts Options) Result {
	res := Result{Source: source}

	token := strings.TrimSpace(originalToken)
	newLight, ok := colour.NormaliseHex(newLightHex)
	if token == "" || !ok {
		return res
	}

	p := patcher{token: token, newLight: newLight, opts: opts}
	if m := varToken.FindStringSubmatch(token); m != nil {
		p.varName = m[1]
	}
	if opts.NewDarkHex != "" {
		if dark, ok := colour.NormaliseHex(opts.NewDarkHex); ok {
			p.newDark = dark
		}
	}

	doc := scan(source)
	p.declared = p.varName != "" && p.isDeclared(source, doc)
	p.positions = tagPositions(source, doc)
	if edits := p.structural(source, doc); len(edits) > 0 {
		res.Source, res.Matches = apply(source, edits)
		res.Changed = res.Source != source
		if res.Changed {
			res.Method = MethodStructural
		}
		return res
	}
	if opts.DarkOnly {
		return res
	}

	res.Source, res.Matches = substitute(source, token, newLight, sidecarValues(doc))
	res.Changed = res.Source != source
	if res.Changed {
		res.Method = MethodFallback
	}
	return res
}

// elementAttrs returns the attributes whose usages this fix targets.
func (p *patcher) elementAttrs() []string {
	if p.opts.Attribute != "" {
		return []string{p.opts.Attribute}
	}
	return []string{svg.AttrFill, svg.AttrStroke}
}

// isDeclared reports whether a stylesheet declares the var() property.
func (p *patcher) isDeclared(src string, doc document) bool {
	for _, s := range doc.styles {
		for _, d := range declarations(src, s) {
			if d.property == p.varName {
				return true
			}
		}
	}
	return false
}

// tagPositions numbers the start tags inside the analysed <svg> fragment
// in document order, matching svg.LocatedUsage positions.
func tagPositions(src string, doc document) map[int]int {
	start, end := svg.FragmentBounds(src)
	positions := make(map[int]int)
	n := 0
	for _, t := range doc.tags {
		if t.start >= start && t.start < end {
			positions[t.start] = n
			n++
		}
	}
	return positions
}

// valueEdit returns the edit that puts the new light colour into the value
// at src[start:end], which holds the token. A var() token is left to its
// declaration unless the property is undeclared, in which case the
// fallback argument is replaced.
func (p *patcher) valueEdit(src string, start, end int) (edit, bool) {
	if p.opts.DarkOnly {
		return edit{}, false
	}
	if p.varName == "" {
		return edit{start, end, p.newLight}, true
	}
	if p.declared {
		return edit{}, false
	}
	fs, fe, ok := fallbackRange(src[start:end])
	if !ok {
		return edit{}, false
	}
	return edit{start + fs, start + fe, p.newLight}, true
}

// fallbackRange locates the trimmed fallback argument of a var() value.
func fallbackRange(value string) (int, int, bool) {
	open := strings.Index(strings.ToLower(value), "var(")
	if open < 0 {
		return 0, 0, false
	}
	depth, comma := 0, -1
	for i := open + len("var("); i < len(value); i++ {
		switch value[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
				continue
			}
			if comma < 0 {
				return 0, 0, false
			}
			start, end := comma+1, i
			for start < end && isSpace(value[start]) {
				start++
			}
			for end > start && isSpace(value[end-1]) {
				end--
			}
			return start, end, start < end
		case ',':
			if depth == 0 && comma < 0 {
				comma = i
			}
		}
	}
	return 0, 0, false
}

// declMatches reports whether a declaration outside element matching is a
// target: the custom property behind a declared var() token, or a color,
// stop-color, targeted fill/stroke or custom property whose value is the
// token.
func (p *patcher) declMatches(d declaration) bool {
	if p.declared {
		return d.property == p.varName
	}
	if d.value != p.token {
		return false
	}
	switch d.property {
	case "color", "stop-color":
		return true
	case svg.AttrFill, svg.AttrStroke:
		return slices.Contains(p.elementAttrs(), d.property)
	}
	return strings.HasPrefix(d.property, "--")
}

// darkAllowed applies the OriginalDarkTokens filter to one element.
func (p *patcher) darkAllowed(t *tag, attr string) bool {
	if len(p.opts.OriginalDarkTokens) == 0 {
		return true
	}
	current := p.token
	if sc, ok := t.attr(svg.DarkAttr(attr)); ok {
		current = strings.TrimSpace(sc.value)
	}
	return slices.Contains(p.opts.OriginalDarkTokens, current)
}

func (p *patcher) structural(src string, doc document) []edit {
	var edits []edit

	for _, s := range doc.styles {
		for _, d := range declarations(src, s) {
			if !p.declMatches(d) {
				continue
			}
			if p.declared {
				if !p.opts.DarkOnly {
					edits = append(edits, edit{d.valStart, d.valEnd, p.newLight})
				}
			} else if e, ok := p.valueEdit(src, d.valStart, d.valEnd); ok {
				edits = append(edits, e)
			}
		}
	}

	for i := range doc.tags {
		edits = append(edits, p.element(src, &doc.tags[i])...)
	}
	return edits
}

// element collects the edits for one start tag.
func (p *patcher) element(src string, t *tag) []edit {
	var edits []edit

	var inline []declaration
	style, hasStyle := t.attr("style")
	if hasStyle {
		inline = declarations(src, span{style.valStart, style.valEnd})
	}

	targets := p.elementAttrs()
	for _, name := range targets {
		if !p.darkAllowed(t, name) {
			continue
		}
		matched := false
		anchor := -1

		if a, ok := t.attr(name); ok && strings.TrimSpace(a.value) == p.token {
			matched, anchor = true, a.end
			if e, ok := p.valueEdit(src, a.valStart, a.valEnd); ok {
				edits = append(edits, e)
			}
		}
		for _, d := range inline {
			if d.property == name && d.value == p.token {
				matched = true
				if anchor < 0 {
					anchor = style.end
				}
				if e, ok := p.valueEdit(src, d.valStart, d.valEnd); ok {
					edits = append(edits, e)
				}
			}
		}
		if !matched && p.listed(t) {
			matched, anchor = true, t.attrEnd()
		}

		if matched && p.newDark != "" {
			edits = append(edits, p.sidecar(src, t, name, anchor)...)
		}
	}

	if p.opts.DarkOnly {
		return edits
	}
	for _, name := range []string{"color", "stop-color"} {
		if a, ok := t.attr(name); ok && strings.TrimSpace(a.value) == p.token {
			if e, ok := p.valueEdit(src, a.valStart, a.valEnd); ok {
				edits = append(edits, e)
			}
		}
	}
	for _, d := range inline {
		if !slices.Contains(targets, d.property) && p.declMatches(d) {
			if p.declared {
				edits = append(edits, edit{d.valStart, d.valEnd, p.newLight})
			} else if e, ok := p.valueEdit(src, d.valStart, d.valEnd); ok {
				edits = append(edits, e)
			}
		}
	}
	return edits
}

// listed reports whether t is one of the Elements positions.
func (p *patcher) listed(t *tag) bool {
	if len(p.opts.Elements) == 0 {
		return false
	}
	pos, ok := p.positions[t.start]
	return ok && slices.Contains(p.opts.Elements, pos)
}

// sidecar writes, updates or removes the dark override for attr on t.
func (p *patcher) sidecar(src string, t *tag, attr string, anchor int) []edit {
	name := svg.DarkAttr(attr)
	sc, has := t.attr(name)

	if p.newDark == p.newLight {
		if !has {
			return nil
		}
		start := sc.start
		for start > t.start && isSpace(src[start-1]) {
			start--
		}
		return []edit{{start, sc.end, ""}}
	}
	if has {
		return []edit{{sc.valStart, sc.valEnd, p.newDark}}
	}
	return []edit{{anchor, anchor, " " + name + `="` + p.newDark + `"`}}
}

// apply performs the edits in order and returns the new text and the
// number of edits used. Overlapping edits after the first are dropped.
func apply(src string, edits []edit) (string, int) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].start < edits[j].start
	})

	var (
		b    strings.Builder
		last int
		used int
	)
	for _, e := range edits {
		if e.start < last {
			continue
		}
		b.WriteString(src[last:e.start])
		b.WriteString(e.text)
		last = e.end
		used++
	}
	b.WriteString(src[last:])
	return b.String(), used
}

func isTokenByte(c byte) bool {
	return c == '_' || c == '-' || c == '#' ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// sidecarValues returns the value ranges of every dark override attribute.
func sidecarValues(doc document) []span {
	var spans []span
	for _, t := range doc.tags {
		for _, a := range t.attrs {
			if strings.HasPrefix(a.name, svg.DarkAttrPrefix) {
				spans = append(spans, span{a.valStart, a.valEnd})
			}
		}
	}
	return spans
}

func inside(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// substitute replaces every occurrence of token that is not part of a
// longer identifier, so "red" never alters "darkred" or "reddish".
// Occurrences overlapping a protected range are kept.
func substitute(src, token, replacement string, protected []span) (string, int) {
	var (
		b     strings.Builder
		last  int
		count int
	)
	for from := 0; from <= len(src)-len(token); {
		k := strings.Index(src[from:], token)
		if k < 0 {
			break
		}
		start := from + k
		end := start + len(token)
		if (start > 0 && isTokenByte(src[start-1])) || (end < len(src) && isTokenByte(src[end])) ||
			inside(protected, start, end) {
			from = start + 1
			continue
		}
		b.WriteString(src[last:start])
		b.WriteString(replacement)
		last, from = end, end
		count++
	}
	if count == 0 {
		return src, 0
	}
	b.WriteString(src[last:])
	return b.String(), count
}
