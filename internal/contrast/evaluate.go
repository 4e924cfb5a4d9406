// Package contrast evaluates resolved colour usages against a light and a
// dark background.
package contrast

import (
	"github.com/jmylchreest/svgtint/internal/colour"
	"github.com/jmylchreest/svgtint/internal/svg"
)

// Background identifies one of the two rendering contexts.
type Background int

const (
	Light Background = iota
	Dark
)

// String returns the background name.
func (b Background) String() string {
	if b == Dark {
		return "dark"
	}
	return "light"
}

// MarshalText encodes the background by name.
func (b Background) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Check identifies a contrast metric.
type Check int

const (
	WCAG Check = iota
	APCA
)

// String returns the check name.
func (c Check) String() string {
	if c == APCA {
		return "APCA"
	}
	return "WCAG"
}

// MarshalText encodes the check by name.
func (c Check) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Result is one metric measured against one background.
type Result struct {
	Background    Background `json:"background"`
	Check         Check      `json:"check"`
	Foreground    string     `json:"foreground"`
	BackgroundHex string     `json:"background_hex"`
	// Value is the WCAG ratio (2 decimals) or the APCA Lc (1 decimal).
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	// Level is the WCAG level; it is LevelFail or LevelAA for APCA results.
	Level colour.Level `json:"level"`
	Pass  bool         `json:"pass"`
}

// Evaluation holds every result for one usage.
type Evaluation struct {
	Usage   svg.Usage
	Results []Result
	Failed  bool
	// Occurrences counts the identical usages folded into this evaluation.
	Occurrences int
}

// Evaluate measures a usage against both backgrounds: WCAG always, APCA for
// text only. The light background is measured with the usage's light colour
// and the dark background with its dark colour.
func Evaluate(u svg.Usage, bgLight, bgDark colour.RGB) Evaluation {
	eval := Evaluation{Usage: u, Occurrences: 1}

	for _, side := range []struct {
		bg Background
		fg string
		rb colour.RGB
	}{
		{Light, u.Light, bgLight},
		{Dark, u.Dark, bgDark},
	} {
		fg, err := colour.ParseHex(side.fg)
		if err != nil {
			continue
		}
		results := Measure(fg, side.rb, u.IsText, u.IsLarge)
		for i := range results {
			results[i].Background = side.bg
			if !results[i].Pass {
				eval.Failed = true
			}
		}
		eval.Results = append(eval.Results, results...)
	}

	return eval
}

// Measure runs the applicable checks for one foreground/background pair.
func Measure(fg, bg colour.RGB, isText, isLarge bool) []Result {
	aa, _ := colour.WCAGThresholds(isText, isLarge)
	ratio := colour.WCAGRatio(fg, bg)
	level := colour.WCAGLevel(ratio, isText, isLarge)

	results := []Result{{
		Check:         WCAG,
		Foreground:    fg.Hex(),
		BackgroundHex: bg.Hex(),
		Value:         ratio,
		Threshold:     aa,
		Level:         level,
		Pass:          level != colour.LevelFail,
	}}

	if isText {
		lc := colour.APCA(fg, bg)
		threshold := colour.APCAThreshold(true)
		r := Result{
			Check:         APCA,
			Foreground:    fg.Hex(),
			BackgroundHex: bg.Hex(),
			Value:         lc,
			Threshold:     threshold,
			Pass:          lc >= threshold,
		}
		if r.Pass {
			r.Level = colour.LevelAA
		}
		results = append(results, r)
	}

	return results
}

// EvaluateAll evaluates each distinct usage once, in document order.
// Usages that differ only by element name are folded together.
func EvaluateAll(usages []svg.Usage, bgLight, bgDark colour.RGB) []Evaluation {
	index := make(map[svg.Usage]int, len(usages))
	evals := make([]Evaluation, 0, len(usages))
	for _, u := range usages {
		key := u
		key.Element = ""
		if i, ok := index[key]; ok {
			evals[i].Occurrences++
			continue
		}
		index[key] = len(evals)
		evals = append(evals, Evaluate(u, bgLight, bgDark))
	}
	return evals
}
