package patch

import (
	"regexp"
	"strings"
)

// attribute is one name="value" pair inside a start tag, with byte offsets
// into the source.
type attribute struct {
	name     string
	value    string
	start    int // first byte of the name
	end      int // one past the closing quote
	valStart int
	valEnd   int
	quoted   bool
}

// tag is a start tag (or self-closing tag) in the source.
type tag struct {
	name  string
	start int
	end   int // one past '>'
	attrs []attribute
}

func (t *tag) attr(name string) (attribute, bool) {
	for _, a := range t.attrs {
		if a.name == name {
			return a, true
		}
	}
	return attribute{}, false
}

// attrEnd is where a new attribute can be inserted: after the last one, or
// after the tag name.
func (t *tag) attrEnd() int {
	if len(t.attrs) > 0 {
		return t.attrs[len(t.attrs)-1].end
	}
	return t.start + 1 + len(t.name)
}

// span is a half-open byte range.
type span struct {
	start, end int
}

// document is the scanned structure of a source text: every start tag and
// the content range of every <style> element.
type document struct {
	tags   []tag
	styles []span
}

// scan walks the markup without building a tree. Malformed tags are
// skipped so that any text can be scanned.
func scan(src string) document {
	var doc document
	i := 0
	for i < len(src) {
		j := strings.IndexByte(src[i:], '<')
		if j < 0 {
			break
		}
		p := i + j
		rest := src[p:]

		switch {
		case strings.HasPrefix(rest, "<!--"):
			i = skipPast(src, p+4, "-->")
		case strings.HasPrefix(rest, "<![CDATA["):
			i = skipPast(src, p+9, "]]>")
		case strings.HasPrefix(rest, "<?"):
			i = skipPast(src, p+2, "?>")
		case strings.HasPrefix(rest, "<!"), strings.HasPrefix(rest, "</"):
			i = skipPast(src, p+2, ">")
		default:
			t, selfClosing, ok := parseTag(src, p)
			if !ok {
				i = p + 1
				continue
			}
			doc.tags = append(doc.tags, t)
			i = t.end
			if strings.EqualFold(t.name, "style") && !selfClosing {
				end := indexFold(src, t.end, "</style")
				if end < 0 {
					end = len(src)
				}
				doc.styles = append(doc.styles, span{t.end, end})
				i = end
			}
		}
	}
	return doc
}

// skipPast returns the offset just past the next marker at or after from,
// or len(src) when there is none.
func skipPast(src string, from int, marker string) int {
	if from > len(src) {
		return len(src)
	}
	k := strings.Index(src[from:], marker)
	if k < 0 {
		return len(src)
	}
	return from + k + len(marker)
}

func indexFold(src string, from int, needle string) int {
	k := strings.Index(strings.ToLower(src[from:]), needle)
	if k < 0 {
		return -1
	}
	return from + k
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// parseTag reads the start tag beginning at src[p] == '<'.
func parseTag(src string, p int) (tag, bool, bool) {
	k := p + 1
	nameStart := k
	for k < len(src) && !isSpace(src[k]) && src[k] != '>' && src[k] != '/' {
		k++
	}
	if k == nameStart {
		return tag{}, false, false
	}
	t := tag{name: src[nameStart:k], start: p}

	for k < len(src) {
		for k < len(src) && isSpace(src[k]) {
			k++
		}
		if k >= len(src) {
			break
		}
		switch {
		case src[k] == '>':
			t.end = k + 1
			return t, false, true
		case strings.HasPrefix(src[k:], "/>"):
			t.end = k + 2
			return t, true, true
		case src[k] == '/':
			k++
			continue
		}

		a := attribute{start: k}
		for k < len(src) && !isSpace(src[k]) && src[k] != '=' && src[k] != '>' && src[k] != '/' {
			k++
		}
		a.name = src[a.start:k]
		a.end = k

		eq := k
		for eq < len(src) && isSpace(src[eq]) {
			eq++
		}
		if eq < len(src) && src[eq] == '=' {
			k = eq + 1
			for k < len(src) && isSpace(src[k]) {
				k++
			}
			if k >= len(src) {
				break
			}
			if q := src[k]; q == '"' || q == '\'' {
				closing := strings.IndexByte(src[k+1:], q)
				if closing < 0 {
					return tag{}, false, false
				}
				a.valStart, a.valEnd, a.quoted = k+1, k+1+closing, true
				k = a.valEnd + 1
			} else {
				a.valStart = k
				for k < len(src) && !isSpace(src[k]) && src[k] != '>' {
					k++
				}
				a.valEnd = k
			}
			a.value = src[a.valStart:a.valEnd]
			a.end = k
		}
		if a.name != "" {
			t.attrs = append(t.attrs, a)
		}
	}
	return tag{}, false, false
}

// declaration is one property: value pair inside a style attribute or a
// <style> block. valStart/valEnd cover the trimmed value without any
// !important marker.
type declaration struct {
	property string
	value    string
	valStart int
	valEnd   int
}

var propertyName = regexp.MustCompile(`^-{0,2}[A-Za-z_][A-Za-z0-9_-]*$`)

// declarations finds the declarations in src[s.start:s.end]. Comments and
// CDATA markers are blanked first so offsets stay aligned with src. Text
// ending in '{' is a selector and is skipped.
func declarations(src string, s span) []declaration {
	region := []byte(src[s.start:s.end])
	blank(region, "/*", "*/")
	for _, marker := range []string{"<![CDATA[", "]]>"} {
		for {
			k := strings.Index(string(region), marker)
			if k < 0 {
				break
			}
			for n := 0; n < len(marker); n++ {
				region[k+n] = ' '
			}
		}
	}

	var (
		decls []declaration
		depth int
		quote byte
		start int
	)
	emit := func(end int) {
		if d, ok := parseDeclaration(string(region), start, end); ok {
			d.valStart += s.start
			d.valEnd += s.start
			d.value = src[d.valStart:d.valEnd]
			decls = append(decls, d)
		}
	}
	for i := 0; i < len(region); i++ {
		c := region[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case c == '{':
			start = i + 1
		case c == ';' || c == '}':
			emit(i)
			start = i + 1
		}
	}
	emit(len(region))
	return decls
}

// blank overwrites every open...close range (inclusive) with spaces.
func blank(region []byte, open, close string) {
	from := 0
	for {
		k := strings.Index(string(region[from:]), open)
		if k < 0 {
			return
		}
		k += from
		end := strings.Index(string(region[k+len(open):]), close)
		stop := len(region)
		if end >= 0 {
			stop = k + len(open) + end + len(close)
		}
		for n := k; n < stop; n++ {
			if region[n] != '\n' {
				region[n] = ' '
			}
		}
		from = stop
	}
}

func parseDeclaration(region string, start, end int) (declaration, bool) {
	colon := strings.IndexByte(region[start:end], ':')
	if colon < 0 {
		return declaration{}, false
	}
	colon += start
	prop := strings.TrimSpace(region[start:colon])
	if !propertyName.MatchString(prop) {
		return declaration{}, false
	}

	vs, ve := colon+1, end
	for vs < ve && isSpace(region[vs]) {
		vs++
	}
	for ve > vs && isSpace(region[ve-1]) {
		ve--
	}
	core := stripImportant(region[vs:ve])
	if core == "" {
		return declaration{}, false
	}
	if !strings.HasPrefix(prop, "--") {
		prop = strings.ToLower(prop)
	}
	return declaration{
		property: prop,
		valStart: vs,
		valEnd:   vs + len(core),
	}, true
}

// stripImportant drops a trailing !important marker. The result is a
// prefix of the trimmed value.
func stripImportant(value string) string {
	value = strings.TrimSpace(value)
	lower := strings.ToLower(value)
	if idx := strings.LastIndex(lower, "!important"); idx >= 0 && strings.TrimSpace(lower[idx+len("!important"):]) == "" {
		value = strings.TrimRight(value[:idx], " \t\r\n\f")
	}
	return value
}
