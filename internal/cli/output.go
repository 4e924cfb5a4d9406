package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jmylchreest/svgtint/internal/colour"
)

// Badge colours (ANSI 256).
const (
	passColour = lipgloss.Color("42")
	failColour = lipgloss.Color("196")
	warnColour = lipgloss.Color("214")
)

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeJSON writes v as indented JSON.
func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// style returns a bold style rendered for the command output. Colour is
// dropped automatically when the output is not a terminal.
func (a *app) style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewRenderer(a.out).NewStyle().Bold(true).Foreground(c)
}

// badge renders PASS or FAIL.
func (a *app) badge(pass bool) string {
	if pass {
		return a.style(passColour).Render("PASS")
	}
	return a.style(failColour).Render("FAIL")
}

// warn renders a highlighted label.
func (a *app) warn(text string) string {
	return a.style(warnColour).Render(text)
}

// previews reports whether swatches should be drawn.
func (a *app) previews() bool {
	return a.config != nil && a.config.Preview && isTTYWriter(a.out)
}

// swatch prefixes hex with a colour block when previews are enabled.
func (a *app) swatch(hex string) string {
	if !a.previews() {
		return hex
	}
	rgb, err := colour.ParseHex(hex)
	if err != nil {
		return hex
	}
	return colour.FormatColourWithPreview(rgb, 2)
}

// sample renders text in fg on bg when previews are enabled.
func (a *app) sample(fg, bg colour.RGB, text string) string {
	if !a.previews() {
		return ""
	}
	return " " + colour.SamplePreview(fg, bg, text)
}
