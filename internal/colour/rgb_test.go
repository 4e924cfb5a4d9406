package colour

import (
	"errors"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGB
		wantErr bool
	}{
		{name: "six digit", input: "#ff0000", want: RGB{R: 255}},
		{name: "uppercase", input: "#FFFFFF", want: White},
		{name: "shorthand", input: "#abc", want: RGB{R: 0xaa, G: 0xbb, B: 0xcc}},
		{name: "shorthand with alpha", input: "#abcd", want: RGB{R: 0xaa, G: 0xbb, B: 0xcc}},
		{name: "alpha dropped", input: "#11223380", want: RGB{R: 0x11, G: 0x22, B: 0x33}},
		{name: "whitespace", input: "  #000  ", want: Black},
		{name: "missing hash", input: "ff0000", wantErr: true},
		{name: "bad length", input: "#12345", wantErr: true},
		{name: "bad digit", input: "#gggggg", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHex) {
					t.Fatalf("ParseHex(%q) error = %v, want ErrInvalidHex", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormaliseHexIdempotent(t *testing.T) {
	for _, in := range []string{"#abc", "#AABBCC", "#aabbccff", "#000", "#123456"} {
		once, ok := NormaliseHex(in)
		if !ok {
			t.Fatalf("NormaliseHex(%q) failed", in)
		}
		twice, ok := NormaliseHex(once)
		if !ok || twice != once {
			t.Errorf("NormaliseHex not idempotent for %q: %q then %q", in, once, twice)
		}
	}

	if got, _ := NormaliseHex("#abc"); got != "#aabbcc" {
		t.Errorf("NormaliseHex(#abc) = %q, want #aabbcc", got)
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{name: "red", rgb: RGB{R: 255}, want: "#ff0000"},
		{name: "black", rgb: Black, want: "#000000"},
		{name: "mixed", rgb: RGB{R: 26, G: 43, B: 60}, want: "#1a2b3c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rgb.Hex(); got != tt.want {
				t.Errorf("Hex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCSS(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   RGB
		wantOK bool
	}{
		{"hex", "#0000ff", RGB{B: 255}, true},
		{"named red", "red", RGB{R: 255}, true},
		{"named case insensitive", "DarkGreen", RGB{G: 100}, true},
		{"named green is css green", "green", RGB{G: 128}, true},
		{"rgb commas", "rgb(255, 128, 0)", RGB{R: 255, G: 128}, true},
		{"rgb space syntax with alpha", "rgb(10 20 30 / 50%)", RGB{R: 10, G: 20, B: 30}, true},
		{"rgb percentages", "rgb(100%, 0%, 0%)", RGB{R: 255}, true},
		{"rgba", "rgba(0,0,0,0.5)", Black, true},
		{"hsl", "hsl(0, 100%, 50%)", RGB{R: 255}, true},
		{"hsl deg", "hsl(120deg 100% 25%)", RGB{G: 128}, true},
		{"oklch white", "oklch(1 0 0)", White, true},
		{"oklab black", "oklab(0 0 0)", Black, true},
		{"unknown name", "not-a-colour", RGB{}, false},
		{"empty", "", RGB{}, false},
		{"too few args", "rgb(1, 2)", RGB{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCSS(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ParseCSS(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseCSS(%q) = %s, want %s", tt.value, got.Hex(), tt.want.Hex())
			}
		})
	}
}
