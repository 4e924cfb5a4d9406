package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFix(t *testing.T) {
	tests := []struct {
		name   string
		source string
		token  string
		hex    string
		opts   Options
		want   string
		method Method
	}{
		{
			name:   "attribute exact match only",
			source: `<svg><rect fill="red"/><rect fill="darkred"/></svg>`,
			token:  "red",
			hex:    "#ff0000",
			want:   `<svg><rect fill="#ff0000"/><rect fill="darkred"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "light only fix keeps sidecar",
			source: `<svg><text fill="#888888" data-dark-fill="#888888">Hi</text></svg>`,
			token:  "#888888",
			hex:    "#595959",
			want:   `<svg><text fill="#595959" data-dark-fill="#888888">Hi</text></svg>`,
			method: MethodStructural,
		},
		{
			name:   "split fix adds sidecar",
			source: `<svg><text fill="#888888">Hi</text></svg>`,
			token:  "#888888",
			hex:    "#767676",
			opts:   Options{NewDarkHex: "#e2e2e2"},
			want:   `<svg><text fill="#767676" data-dark-fill="#e2e2e2">Hi</text></svg>`,
			method: MethodStructural,
		},
		{
			name:   "split fix updates existing sidecar",
			source: `<svg><rect stroke="#888" data-dark-stroke="#444"/></svg>`,
			token:  "#888",
			hex:    "#767676",
			opts:   Options{Attribute: "stroke", NewDarkHex: "#e2e2e2", OriginalDarkTokens: []string{"#444"}},
			want:   `<svg><rect stroke="#767676" data-dark-stroke="#e2e2e2"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "equal dark removes sidecar",
			source: `<svg><rect fill="#888" data-dark-fill="#999"/></svg>`,
			token:  "#888",
			hex:    "#000000",
			opts:   Options{NewDarkHex: "#000000", OriginalDarkTokens: []string{"#999"}},
			want:   `<svg><rect fill="#000000"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "dark tokens filter elements",
			source: `<svg><rect fill="#888" data-dark-fill="#999"/><rect fill="#888"/></svg>`,
			token:  "#888",
			hex:    "#000000",
			opts:   Options{OriginalDarkTokens: []string{"#888"}},
			want:   `<svg><rect fill="#888" data-dark-fill="#999"/><rect fill="#000000"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "custom property behind var",
			source: `<svg><style>:root { --brand: #0000ff; }</style><rect fill="var(--brand)"/></svg>`,
			token:  "var(--brand)",
			hex:    "#000080",
			want:   `<svg><style>:root { --brand: #000080; }</style><rect fill="var(--brand)"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "stylesheet rule keeps important",
			source: `<svg><style>.a { fill: #888 !important; stroke: #888 }</style><rect class="a"/></svg>`,
			token:  "#888",
			hex:    "#000000",
			opts:   Options{Attribute: "fill"},
			want:   `<svg><style>.a { fill: #000000 !important; stroke: #888 }</style><rect class="a"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "inline style declaration",
			source: `<svg><rect style="fill: red; stroke: red"/></svg>`,
			token:  "red",
			hex:    "#000000",
			opts:   Options{Attribute: "stroke"},
			want:   `<svg><rect style="fill: red; stroke: #000000"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "color and stop-color",
			source: `<svg><g color="red"><rect fill="currentColor"/></g><stop stop-color="red"/></svg>`,
			token:  "red",
			hex:    "#000000",
			want:   `<svg><g color="#000000"><rect fill="currentColor"/></g><stop stop-color="#000000"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "comments are not patched",
			source: `<svg><!-- fill="red" --><rect fill="red"/></svg>`,
			token:  "red",
			hex:    "#000000",
			want:   `<svg><!-- fill="red" --><rect fill="#000000"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "fallback respects word boundaries",
			source: `<svg><g data-colour="red"/><title>darkred reddish</title></svg>`,
			token:  "red",
			hex:    "#ff0000",
			want:   `<svg><g data-colour="#ff0000"/><title>darkred reddish</title></svg>`,
			method: MethodFallback,
		},
		{
			name:   "fallback never touches sidecars",
			source: `<svg><rect fill="blue" data-dark-fill="red"/></svg>`,
			token:  "red",
			hex:    "#000000",
			want:   `<svg><rect fill="blue" data-dark-fill="red"/></svg>`,
			method: MethodNone,
		},
		{
			name:   "missing token is a no-op",
			source: `<svg><rect fill="red"/></svg>`,
			token:  "blue",
			hex:    "#000000",
			want:   `<svg><rect fill="red"/></svg>`,
			method: MethodNone,
		},
		{
			name:   "invalid replacement is a no-op",
			source: `<svg><rect fill="red"/></svg>`,
			token:  "red",
			hex:    "not-a-colour",
			want:   `<svg><rect fill="red"/></svg>`,
			method: MethodNone,
		},
		{
			name:   "undeclared var edits fallback",
			source: `<svg><text fill="var(--x, #888888)">Hi</text></svg>`,
			token:  "var(--x, #888888)",
			hex:    "#767676",
			opts:   Options{NewDarkHex: "#e2e2e2"},
			want:   `<svg><text fill="var(--x, #767676)" data-dark-fill="#e2e2e2">Hi</text></svg>`,
			method: MethodStructural,
		},
		{
			name:   "undeclared var fallback in rule",
			source: `<svg><style>.a { fill: var(--x, red) }</style><rect class="a"/></svg>`,
			token:  "var(--x, red)",
			hex:    "#000000",
			want:   `<svg><style>.a { fill: var(--x, #000000) }</style><rect class="a"/></svg>`,
			method: MethodStructural,
		},
		{
			name:   "dark only updates sidecar",
			source: `<svg><text fill="black" data-dark-fill="#333333">Hi</text></svg>`,
			token:  "black",
			hex:    "#000000",
			opts:   Options{DarkOnly: true, NewDarkHex: "#ffffff"},
			want:   `<svg><text fill="black" data-dark-fill="#ffffff">Hi</text></svg>`,
			method: MethodStructural,
		},
		{
			name:   "dark only never substitutes",
			source: `<svg><rect fill="red"/></svg><!-- blue -->`,
			token:  "blue",
			hex:    "#0000ff",
			opts:   Options{DarkOnly: true, NewDarkHex: "#ffffff"},
			want:   `<svg><rect fill="red"/></svg><!-- blue -->`,
			method: MethodNone,
		},
		{
			name:   "class rule element gets sidecar",
			source: `<svg><style>.st0{fill:#888888}</style><text class="st0">Hi</text></svg>`,
			token:  "#888888",
			hex:    "#767676",
			opts:   Options{NewDarkHex: "#e2e2e2", Elements: []int{2}},
			want:   `<svg><style>.st0{fill:#767676}</style><text class="st0" data-dark-fill="#e2e2e2">Hi</text></svg>`,
			method: MethodStructural,
		},
		{
			name:   "currentColor element inside html gets sidecar",
			source: `<html><body><svg style="color:#888888"><text fill="currentColor">Hi</text></svg></body></html>`,
			token:  "#888888",
			hex:    "#767676",
			opts:   Options{NewDarkHex: "#e2e2e2", Elements: []int{1}},
			want:   `<html><body><svg style="color:#767676"><text fill="currentColor" data-dark-fill="#e2e2e2">Hi</text></svg></body></html>`,
			method: MethodStructural,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFix(tt.source, tt.token, tt.hex, tt.opts)
			assert.Equal(t, tt.want, got.Source)
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.want != tt.source, got.Changed)
		})
	}
}

func TestApplyFixIdempotent(t *testing.T) {
	source := `<svg><rect fill="red"/><circle stroke="red"/></svg>`

	first := ApplyFix(source, "red", "#cc0000", Options{})
	require.True(t, first.Changed)
	assert.Equal(t, 2, first.Matches)

	second := ApplyFix(first.Source, "red", "#cc0000", Options{})
	assert.False(t, second.Changed)
	assert.Equal(t, first.Source, second.Source)
}

func TestApplyFixPreservesFormatting(t *testing.T) {
	source := "<svg>\n  <rect\n    fill = 'red'\n    x=\"1\" />\n</svg>\n"
	got := ApplyFix(source, "red", "#000000", Options{})
	assert.Equal(t, "<svg>\n  <rect\n    fill = '#000000'\n    x=\"1\" />\n</svg>\n", got.Source)
}

func TestScanStyleBlocks(t *testing.T) {
	source := `<svg><style><![CDATA[ /* fill: red; */ a:hover { fill: red } ]]></style></svg>`
	doc := scan(source)
	require.Len(t, doc.styles, 1)

	decls := declarations(source, doc.styles[0])
	require.Len(t, decls, 1)
	assert.Equal(t, "fill", decls[0].property)
	assert.Equal(t, "red", decls[0].value)
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "none", MethodNone.String())
	assert.Equal(t, "structural", MethodStructural.String())
	assert.Equal(t, "fallback", MethodFallback.String())
}
