// Package svg parses SVG documents and resolves the colour expressions used
// on their elements.
package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrParse is returned when the source is not well-formed XML.
var ErrParse = errors.New("malformed SVG")

// Element is one node of a parsed SVG element tree.
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Element
	Parent   *Element
	Text     string
}

// Attr returns the value of an unprefixed attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Classes returns the whitespace separated entries of the class attribute.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// Walk visits e and its descendants in document order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Document is a parsed SVG with its collected stylesheet.
type Document struct {
	Root   *Element
	Styles *Styles
}

// Parse builds an element tree from SVG source and collects every <style>
// block into a Styles value. Nothing is cached between calls.
func Parse(source string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(source))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		root  *Element
		stack []*Element
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Name:  t.Name.Local,
				Attrs: append([]xml.Attr(nil), t.Attr...),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				el.Parent = parent
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	}

	var css strings.Builder
	root.Walk(func(el *Element) {
		if el.Name == "style" {
			css.WriteString(el.Text)
			css.WriteByte('\n')
		}
	})

	return &Document{
		Root:   root,
		Styles: ParseStylesheet(css.String()),
	}, nil
}
