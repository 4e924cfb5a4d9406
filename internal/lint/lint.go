// Package lint merges failing contrast evaluations into one diagnostic per
// colour pair.
package lint

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jmylchreest/svgtint/internal/autofix"
	"github.com/jmylchreest/svgtint/internal/colour"
	"github.com/jmylchreest/svgtint/internal/contrast"
)

// Key is the unit of deduplication: an attribute with its light and dark
// resolved colours. Dark equals Light when there is no override.
type Key struct {
	Attribute string `json:"attribute"`
	Light     string `json:"light"`
	Dark      string `json:"dark"`
}

// String returns the key as "(attribute, light, dark)".
func (k Key) String() string {
	return fmt.Sprintf("(%s, %s, %s)", k.Attribute, k.Light, k.Dark)
}

// Entry is one diagnostic for a colour pair.
type Entry struct {
	Key     Key    `json:"key"`
	Message string `json:"message"`
	// Count is the number of failing usages merged into this entry.
	Count int `json:"count"`
	// Tokens and DarkTokens are the literal expressions that produced the
	// light and dark colours, in first-seen order.
	Tokens     []string `json:"tokens"`
	DarkTokens []string `json:"dark_tokens,omitempty"`
	Attributes []string `json:"attributes"`
	// IsText and IsLarge are OR-merged across the usages.
	IsText  bool              `json:"is_text"`
	IsLarge bool              `json:"is_large"`
	Results []contrast.Result `json:"results"`

	Suggested     string         `json:"suggested"`
	SuggestedDark string         `json:"suggested_dark,omitempty"`
	Method        autofix.Method `json:"method"`
}

// HasDarkOverride reports whether the pair carries a distinct dark colour.
func (e Entry) HasDarkOverride() bool {
	return e.Key.Dark != e.Key.Light || len(e.DarkTokens) > 0
}

// SuggestedDarkHex returns the colour the dark background should end up
// with: the dark suggestion, else the existing dark override, else the
// light suggestion.
func (e Entry) SuggestedDarkHex() string {
	switch {
	case e.SuggestedDark != "":
		return e.SuggestedDark
	case e.Key.Dark != e.Key.Light:
		return e.Key.Dark
	}
	return e.Suggested
}

// Aggregate groups failing evaluations by Key in first-seen order and
// attaches suggestions. Passing evaluations are ignored.
func Aggregate(evals []contrast.Evaluation, bgLight, bgDark colour.RGB, mode autofix.Mode) []Entry {
	var (
		entries []Entry
		index   = make(map[Key]int)
	)

	for _, eval := range evals {
		if !eval.Failed {
			continue
		}
		u := eval.Usage
		key := Key{Attribute: u.Attribute, Light: u.Light, Dark: u.Dark}

		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, Entry{Key: key})
		}
		e := &entries[i]

		e.Count += max(eval.Occurrences, 1)
		e.Tokens = lo.Uniq(append(e.Tokens, u.LightToken))
		if u.HasDark {
			e.DarkTokens = lo.Uniq(append(e.DarkTokens, u.DarkToken))
		}
		e.Attributes = lo.Uniq(append(e.Attributes, u.Attribute))
		e.IsText = e.IsText || u.IsText
		e.IsLarge = e.IsLarge || u.IsLarge
	}

	for i := range entries {
		finish(&entries[i], bgLight, bgDark, mode)
	}
	return entries
}

// finish measures the merged pair, builds the message and attaches the
// suggested replacement(s).
func finish(e *Entry, bgLight, bgDark colour.RGB, mode autofix.Mode) {
	isLarge := e.IsText && e.IsLarge
	light, errLight := colour.ParseHex(e.Key.Light)
	dark, errDark := colour.ParseHex(e.Key.Dark)
	if errLight != nil || errDark != nil {
		return
	}

	lightResults := contrast.Measure(light, bgLight, e.IsText, isLarge)
	darkResults := contrast.Measure(dark, bgDark, e.IsText, isLarge)
	for i := range darkResults {
		darkResults[i].Background = contrast.Dark
	}
	e.Results = append(lightResults, darkResults...)

	e.Message = strings.Join([]string{
		describe(e.Key.Attribute, contrast.Light, lightResults),
		describe(e.Key.Attribute, contrast.Dark, darkResults),
	}, "\n")

	opts := autofix.Options{IsText: e.IsText, IsLarge: isLarge, Mode: mode}
	if e.Key.Light == e.Key.Dark {
		s := autofix.Suggest(e.Key.Light, bgLight.Hex(), bgDark.Hex(), opts)
		e.Suggested, e.Method = s.Hex, s.Method
		if s.Split() {
			e.SuggestedDark = s.DarkHex
		}
		return
	}

	// Light and dark are already independent expressions; fix each against
	// its own background. A side that passes keeps its value, and a passing
	// dark side gets no SuggestedDark so its override stays untouched.
	sl := autofix.Suggest(e.Key.Light, bgLight.Hex(), bgLight.Hex(), opts)
	sd := autofix.Suggest(e.Key.Dark, bgDark.Hex(), bgDark.Hex(), opts)
	e.Suggested = sl.Hex
	if sd.Method != autofix.MethodUnchanged {
		e.SuggestedDark = sd.Hex
	}
	switch {
	case sl.Method == autofix.MethodBestEffort || sd.Method == autofix.MethodBestEffort:
		e.Method = autofix.MethodBestEffort
	case sl.Method == autofix.MethodUnchanged:
		e.Method = sd.Method
	case sd.Method == autofix.MethodUnchanged:
		e.Method = sl.Method
	default:
		e.Method = autofix.MethodSplit
	}
}

// describe renders one background's line, e.g.
// "fill #888888 on light #ffffff: WCAG 3.54 fail (needs 4.5), APCA 75.4 pass (needs 75)".
func describe(attr string, bg contrast.Background, results []contrast.Result) string {
	if len(results) == 0 {
		return ""
	}
	checks := make([]string, len(results))
	for i, r := range results {
		status := "pass"
		if !r.Pass {
			status = "fail"
		}
		value := fmt.Sprintf("%.2f", r.Value)
		if r.Check == contrast.APCA {
			value = fmt.Sprintf("%.1f", r.Value)
		}
		checks[i] = fmt.Sprintf("%s %s %s (needs %g)", r.Check, value, status, r.Threshold)
	}
	return fmt.Sprintf("%s %s on %s %s: %s",
		attr, results[0].Foreground, bg, results[0].BackgroundHex, strings.Join(checks, ", "))
}
