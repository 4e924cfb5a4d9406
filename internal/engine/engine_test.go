package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/svgtint/internal/autofix"
	"github.com/jmylchreest/svgtint/internal/colour"
	"github.com/jmylchreest/svgtint/internal/lint"
	"github.com/jmylchreest/svgtint/internal/svg"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "#ffffff", opts.BackgroundLight)
	assert.Equal(t, "#121212", opts.BackgroundDark)
	assert.Equal(t, autofix.ModeWCAG, opts.Mode)
}

func TestAnalyzeGreyText(t *testing.T) {
	report, err := Analyze(`<svg><text fill="#888888">Hi</text></svg>`, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, report.Colours, 1)
	assert.Equal(t, ColourSummary{
		Hex:     "#888888",
		DarkHex: "#888888",
		IsText:  true,
		Count:   1,
		Tokens:  []string{"#888888"},
	}, report.Colours[0])

	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	assert.Equal(t, lint.Key{Attribute: "fill", Light: "#888888", Dark: "#888888"}, entry.Key)
	assert.Equal(t, 1, entry.Count)

	suggested, err := colour.ParseHex(entry.Suggested)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, colour.WCAGRatio(suggested, colour.White), 4.5)
}

func TestAnalyzeResolvesCustomProperty(t *testing.T) {
	source := `<svg><style>:root { --brand: #0000ff; }</style><rect fill="var(--brand)"/></svg>`
	report, err := Analyze(source, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, report.Colours, 1)
	assert.Equal(t, "#0000ff", report.Colours[0].Hex)
	assert.Equal(t, []string{"var(--brand)"}, report.Colours[0].Tokens)
}

func TestAnalyzeHTMLWrapper(t *testing.T) {
	source := `<!doctype html><html><body><p>logo</p>` +
		`<svg><text fill="#888888">Hi</text></svg></body></html>`
	report, err := Analyze(source, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, report.Colours, 1)
	assert.Equal(t, "#888888", report.Colours[0].Hex)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(`<svg><rect></svg>`, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, svg.ErrParse)

	opts := DefaultOptions()
	opts.BackgroundDark = "black"
	_, err = Analyze(`<svg/>`, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, colour.ErrInvalidHex)
}

func TestAnalyzeSkipsNone(t *testing.T) {
	report, err := Analyze(`<svg><rect fill="none" stroke="transparent"/><rect fill="url(#g)"/></svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, report.Colours)
	assert.False(t, report.Failing())
}

func TestFixSplitsDarkOverride(t *testing.T) {
	source := `<svg><text fill="#888888">Hi</text></svg>`
	opts := DefaultOptions()

	report, err := Analyze(source, opts)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)

	fixed, changed := Fix(source, report.Entries[0], opts)
	require.True(t, changed)
	assert.Contains(t, fixed, `data-dark-fill="`)

	again, err := Analyze(fixed, opts)
	require.NoError(t, err)
	assert.Empty(t, again.Entries)
	require.Len(t, again.Colours, 1)
	assert.NotEqual(t, again.Colours[0].Hex, again.Colours[0].DarkHex)
}

func TestFixLeavesOtherDarkOverrides(t *testing.T) {
	source := `<svg><rect fill="#eeeeee"/><rect fill="#eeeeee" data-dark-fill="#222222"/></svg>`
	opts := DefaultOptions()

	report, err := Analyze(source, opts)
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)

	plain := report.Entries[0]
	assert.Equal(t, lint.Key{Attribute: "fill", Light: "#eeeeee", Dark: "#eeeeee"}, plain.Key)

	fixed, changed := Fix(source, plain, opts)
	require.True(t, changed)
	assert.Contains(t, fixed, `<rect fill="#eeeeee" data-dark-fill="#222222"/>`)
}

func TestFixKeepsPassingDarkOverride(t *testing.T) {
	tests := []struct {
		name   string
		source string
		keep   string
	}{
		{
			name:   "custom property",
			source: `<svg><style>:root { --dk: #ffffff; }</style><text fill="#888888" data-dark-fill="var(--dk)">Hi</text></svg>`,
			keep:   `data-dark-fill="var(--dk)"`,
		},
		{
			name:   "named colour",
			source: `<svg><text fill="#888888" data-dark-fill="white">Hi</text></svg>`,
			keep:   `data-dark-fill="white"`,
		},
	}

	opts := DefaultOptions()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Analyze(tt.source, opts)
			require.NoError(t, err)
			require.Len(t, report.Entries, 1)
			assert.Empty(t, report.Entries[0].SuggestedDark)

			fixed, changed := Fix(tt.source, report.Entries[0], opts)
			require.True(t, changed)
			assert.Contains(t, fixed, tt.keep)
			assert.NotContains(t, fixed, `fill="#888888"`)

			again, err := Analyze(fixed, opts)
			require.NoError(t, err)
			assert.Empty(t, again.Entries)
		})
	}
}

func TestFixDarkOnly(t *testing.T) {
	source := `<svg><text fill="black" data-dark-fill="#333333">Hi</text></svg>`
	opts := DefaultOptions()

	report, err := Analyze(source, opts)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)

	fixed, changed := Fix(source, report.Entries[0], opts)
	require.True(t, changed)
	assert.Contains(t, fixed, `fill="black"`)
	assert.NotContains(t, fixed, "#333333")

	again, err := Analyze(fixed, opts)
	require.NoError(t, err)
	assert.Empty(t, again.Entries)
}

func TestFixAllSplitsInheritedColours(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		sidecar string
	}{
		{
			name:    "class rule",
			source:  `<svg><style>.st0{fill:#888888}</style><text class="st0">Hi</text></svg>`,
			sidecar: `<text class="st0" data-dark-fill="#`,
		},
		{
			name:    "currentColor",
			source:  `<svg style="color:#888888"><text fill="currentColor">Hi</text></svg>`,
			sidecar: `<text fill="currentColor" data-dark-fill="#`,
		},
		{
			name:    "undeclared var fallback",
			source:  `<svg><text fill="var(--x, #888888)">Hi</text></svg>`,
			sidecar: `" data-dark-fill="#`,
		},
	}

	opts := DefaultOptions()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed, passes, err := FixAll(tt.source, opts, 0)
			require.NoError(t, err)
			assert.Equal(t, 1, passes)
			assert.Contains(t, fixed, tt.sidecar)
			assert.NotContains(t, fixed, "#888888")

			report, err := Analyze(fixed, opts)
			require.NoError(t, err)
			assert.Empty(t, report.Entries)
			require.Len(t, report.Colours, 1)
			assert.NotEqual(t, report.Colours[0].Hex, report.Colours[0].DarkHex)
		})
	}
}

func TestFixAll(t *testing.T) {
	source := `<svg>
  <rect fill="#eeeeee"/>
  <text fill="#888888">Hi</text>
  <path stroke="yellow"/>
</svg>`
	opts := DefaultOptions()

	fixed, passes, err := FixAll(source, opts, 0)
	require.NoError(t, err)
	assert.Positive(t, passes)

	report, err := Analyze(fixed, opts)
	require.NoError(t, err)
	assert.Empty(t, report.Entries)

	again, passes, err := FixAll(fixed, opts, 0)
	require.NoError(t, err)
	assert.Zero(t, passes)
	assert.Equal(t, fixed, again)
}

func TestFixAllParseError(t *testing.T) {
	source := `<svg><rect>`
	out, passes, err := FixAll(source, DefaultOptions(), 3)
	require.ErrorIs(t, err, svg.ErrParse)
	assert.Zero(t, passes)
	assert.Equal(t, source, out)
}
