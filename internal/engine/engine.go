// Package engine ties the resolver, evaluator, aggregator, synthesiser and
// patcher together. Every call works from the full source text it is given
// and keeps no state between calls.
package engine

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/samber/lo"

	"github.com/jmylchreest/svgtint/internal/autofix"
	"github.com/jmylchreest/svgtint/internal/colour"
	"github.com/jmylchreest/svgtint/internal/contrast"
	"github.com/jmylchreest/svgtint/internal/lint"
	"github.com/jmylchreest/svgtint/internal/patch"
	"github.com/jmylchreest/svgtint/internal/svg"
)

// Default backgrounds.
const (
	DefaultBackgroundLight = "#ffffff"
	DefaultBackgroundDark  = "#121212"
	// DefaultMaxPasses bounds FixAll when the caller passes zero.
	DefaultMaxPasses = 5
)

// Options configures an analysis.
type Options struct {
	BackgroundLight string
	BackgroundDark  string
	Mode            autofix.Mode
	Logger          hclog.Logger
}

// DefaultOptions returns white and near-black backgrounds in WCAG mode.
func DefaultOptions() Options {
	return Options{
		BackgroundLight: DefaultBackgroundLight,
		BackgroundDark:  DefaultBackgroundDark,
		Mode:            autofix.ModeWCAG,
	}
}

func (o Options) logger() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger
}

// backgrounds parses both background colours.
func (o Options) backgrounds() (colour.RGB, colour.RGB, error) {
	light, err := colour.ParseHex(o.BackgroundLight)
	if err != nil {
		return colour.RGB{}, colour.RGB{}, fmt.Errorf("light background: %w", err)
	}
	dark, err := colour.ParseHex(o.BackgroundDark)
	if err != nil {
		return colour.RGB{}, colour.RGB{}, fmt.Errorf("dark background: %w", err)
	}
	return light, dark, nil
}

// ColourSummary describes one distinct light/dark colour pair in a document.
type ColourSummary struct {
	Hex     string   `json:"hex"`
	DarkHex string   `json:"dark_hex"`
	IsText  bool     `json:"is_text"`
	IsLarge bool     `json:"is_large"`
	Count   int      `json:"count"`
	Tokens  []string `json:"tokens"`
}

// Report is the result of Analyze.
type Report struct {
	Colours []ColourSummary `json:"colours"`
	Entries []lint.Entry    `json:"entries"`
}

// Failing reports whether any entry remains.
func (r *Report) Failing() bool {
	return len(r.Entries) > 0
}

// Analyze resolves every colour in source and returns the colour summaries
// and one lint entry per failing colour pair. Malformed markup is the only
// source error; nothing partial is returned with it.
func Analyze(source string, opts Options) (*Report, error) {
	log := opts.logger()

	bgLight, bgDark, err := opts.backgrounds()
	if err != nil {
		return nil, err
	}

	doc, err := svg.Parse(svg.ExtractFragment(source))
	if err != nil {
		return nil, err
	}

	usages := doc.Usages()
	log.Debug("resolved colour usages", "count", len(usages))

	evals := contrast.EvaluateAll(usages, bgLight, bgDark)
	entries := lint.Aggregate(evals, bgLight, bgDark, opts.Mode)
	log.Debug("aggregated lint entries",
		"evaluations", len(evals),
		"entries", len(entries),
		"mode", opts.Mode.String())

	return &Report{
		Colours: summarise(usages),
		Entries: entries,
	}, nil
}

// summarise groups usages by light/dark pair in document order.
func summarise(usages []svg.Usage) []ColourSummary {
	var (
		out   []ColourSummary
		index = make(map[[2]string]int)
	)
	for _, u := range usages {
		key := [2]string{u.Light, u.Dark}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, ColourSummary{Hex: u.Light, DarkHex: u.Dark})
		}
		s := &out[i]
		s.Count++
		s.IsText = s.IsText || u.IsText
		s.IsLarge = s.IsLarge || (u.IsText && u.IsLarge)
		s.Tokens = lo.Uniq(append(s.Tokens, u.LightToken))
		if u.HasDark {
			s.Tokens = lo.Uniq(append(s.Tokens, u.DarkToken))
		}
	}
	return out
}

// Fix applies entry's suggestion to every token behind it. It reports
// whether the source changed. A side whose colour already passes is left
// as it is.
func Fix(source string, entry lint.Entry, opts Options) (string, bool) {
	log := opts.logger()
	if entry.Suggested == "" {
		return source, false
	}

	popts := patch.Options{Attribute: entry.Key.Attribute}
	switch {
	case entry.Key.Light != entry.Key.Dark:
		popts.NewDarkHex = entry.SuggestedDark
		popts.DarkOnly = entry.Suggested == entry.Key.Light
		if popts.DarkOnly && popts.NewDarkHex == "" {
			return source, false
		}
	case entry.HasDarkOverride() || entry.SuggestedDark != "":
		popts.NewDarkHex = entry.SuggestedDarkHex()
	}
	// Elements without a sidecar use their light token in dark mode, so they
	// only belong to the entry when both colours agree.
	popts.OriginalDarkTokens = entry.DarkTokens
	if entry.Key.Light == entry.Key.Dark {
		popts.OriginalDarkTokens = lo.Uniq(append(append([]string{}, entry.DarkTokens...), entry.Tokens...))
	}

	var located map[string][]int
	if popts.NewDarkHex != "" {
		located = entryElements(source, entry)
	}

	changed := false
	for _, token := range entry.Tokens {
		popts.Elements = located[token]
		res := patch.ApplyFix(source, token, entry.Suggested, popts)
		if !res.Changed {
			log.Debug("fix left source unchanged", "token", token, "key", entry.Key.String())
			continue
		}
		log.Debug("applied fix",
			"token", token,
			"light", entry.Suggested,
			"dark", popts.NewDarkHex,
			"dark_only", popts.DarkOnly,
			"method", res.Method.String(),
			"matches", res.Matches)
		source, changed = res.Source, true
	}
	return source, changed
}

// entryElements returns, per light token, the positions of the elements
// whose usage belongs to entry. The patcher needs them for elements that
// take the colour from a stylesheet rule or currentColor.
func entryElements(source string, entry lint.Entry) map[string][]int {
	doc, err := svg.Parse(svg.ExtractFragment(source))
	if err != nil {
		return nil
	}
	located := make(map[string][]int)
	for _, u := range doc.LocatedUsages() {
		if u.Attribute != entry.Key.Attribute || u.Light != entry.Key.Light || u.Dark != entry.Key.Dark {
			continue
		}
		located[u.LightToken] = lo.Uniq(append(located[u.LightToken], u.Position))
	}
	return located
}

// FixAll repeats analyse and fix until no entries remain, a pass changes
// nothing or maxPasses passes have run. It returns the new source and the
// number of passes that changed it.
func FixAll(source string, opts Options, maxPasses int) (string, int, error) {
	log := opts.logger()
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	passes := 0
	for passes < maxPasses {
		report, err := Analyze(source, opts)
		if err != nil {
			return source, passes, err
		}
		if !report.Failing() {
			break
		}

		changed := false
		for _, entry := range report.Entries {
			var ok bool
			if source, ok = Fix(source, entry, opts); ok {
				changed = true
			}
		}
		if !changed {
			log.Debug("no further fixes apply", "remaining", len(report.Entries))
			break
		}
		passes++
	}
	return source, passes, nil
}
