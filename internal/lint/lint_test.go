package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/svgtint/internal/autofix"
	"github.com/jmylchreest/svgtint/internal/colour"
	"github.com/jmylchreest/svgtint/internal/contrast"
	"github.com/jmylchreest/svgtint/internal/svg"
)

var (
	white   = colour.MustParseHex("#ffffff")
	nearBlk = colour.MustParseHex("#121212")
)

func usage(attr, el, light, dark string, text bool) svg.Usage {
	u := svg.Usage{
		Attribute:  attr,
		Element:    el,
		Light:      light,
		Dark:       light,
		LightToken: light,
		DarkToken:  light,
		IsText:     text,
	}
	if dark != "" {
		u.Dark, u.DarkToken, u.HasDark = dark, dark, true
	}
	return u
}

func TestAggregateGreyText(t *testing.T) {
	evals := contrast.EvaluateAll([]svg.Usage{
		usage("fill", "text", "#888888", "", true),
	}, white, nearBlk)

	entries := Aggregate(evals, white, nearBlk, autofix.ModeWCAG)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, Key{Attribute: "fill", Light: "#888888", Dark: "#888888"}, e.Key)
	assert.Equal(t, 1, e.Count)
	assert.True(t, e.IsText)
	assert.Equal(t, []string{"#888888"}, e.Tokens)
	assert.Empty(t, e.DarkTokens)
	assert.False(t, e.HasDarkOverride())
	assert.Len(t, e.Results, 4)

	lines := strings.Split(e.Message, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "on light #ffffff")
	assert.Contains(t, lines[0], "fail (needs 4.5)")
	assert.Contains(t, lines[0], "APCA 75.4 pass")
	assert.Contains(t, lines[1], "on dark #121212")
	assert.Contains(t, lines[1], "APCA 24.0 fail")

	suggested := colour.MustParseHex(e.Suggested)
	assert.GreaterOrEqual(t, colour.WCAGRatio(suggested, white), 4.5)
	assert.Equal(t, autofix.MethodSplit, e.Method)
	require.NotEmpty(t, e.SuggestedDark)
	assert.GreaterOrEqual(t, colour.WCAGRatio(colour.MustParseHex(e.SuggestedDarkHex()), nearBlk), 4.5)
}

func TestAggregateSkipsPassing(t *testing.T) {
	evals := contrast.EvaluateAll([]svg.Usage{
		usage("fill", "rect", "#767676", "", false),
		usage("stroke", "path", "#000000", "#ffffff", false),
	}, white, nearBlk)

	assert.Empty(t, Aggregate(evals, white, nearBlk, autofix.ModeWCAG))
}

func TestAggregateMergesByKey(t *testing.T) {
	a := usage("fill", "rect", "#ffff00", "", false)
	a.LightToken = "yellow"
	b := usage("fill", "circle", "#ffff00", "", false)
	b.LightToken = "#ff0"
	c := usage("fill", "text", "#ffff00", "", true)
	d := usage("stroke", "rect", "#ffff00", "", false)

	evals := contrast.EvaluateAll([]svg.Usage{a, b, c, d, a}, white, nearBlk)
	entries := Aggregate(evals, white, nearBlk, autofix.ModeWCAG)
	require.Len(t, entries, 2)

	fill := entries[0]
	assert.Equal(t, "fill", fill.Key.Attribute)
	assert.Equal(t, 4, fill.Count)
	assert.Equal(t, []string{"yellow", "#ff0", "#ffff00"}, fill.Tokens)
	assert.Equal(t, []string{"fill"}, fill.Attributes)
	assert.True(t, fill.IsText, "text flag is OR-merged")

	assert.Equal(t, "stroke", entries[1].Key.Attribute)
	assert.Equal(t, 1, entries[1].Count)
}

func TestAggregateDarkOverride(t *testing.T) {
	evals := contrast.EvaluateAll([]svg.Usage{
		usage("fill", "rect", "#dddddd", "#222222", false),
	}, white, nearBlk)

	entries := Aggregate(evals, white, nearBlk, autofix.ModeWCAG)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.True(t, e.HasDarkOverride())
	assert.Equal(t, []string{"#222222"}, e.DarkTokens)
	assert.GreaterOrEqual(t, colour.WCAGRatio(colour.MustParseHex(e.Suggested), white), 3.0)
	assert.GreaterOrEqual(t, colour.WCAGRatio(colour.MustParseHex(e.SuggestedDarkHex()), nearBlk), 3.0)
}

func TestAggregatePassingSideKeepsItsColour(t *testing.T) {
	evals := contrast.EvaluateAll([]svg.Usage{
		usage("fill", "text", "#888888", "#ffffff", true),
		usage("fill", "text", "#000000", "#333333", true),
	}, white, nearBlk)

	entries := Aggregate(evals, white, nearBlk, autofix.ModeWCAG)
	require.Len(t, entries, 2)

	lightFails := entries[0]
	assert.Empty(t, lightFails.SuggestedDark, "a passing dark override needs no replacement")
	assert.Equal(t, "#ffffff", lightFails.SuggestedDarkHex())
	assert.Equal(t, autofix.MethodUniversal, lightFails.Method)

	darkFails := entries[1]
	assert.Equal(t, "#000000", darkFails.Suggested)
	assert.Equal(t, "#ffffff", darkFails.SuggestedDark)
	assert.Equal(t, autofix.MethodUniversal, darkFails.Method)
}

func TestKeyString(t *testing.T) {
	k := Key{Attribute: "fill", Light: "#888888", Dark: "#888888"}
	assert.Equal(t, "(fill, #888888, #888888)", k.String())
}
