package security

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestLimitedReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr error
	}{
		{name: "under limit", input: "abc", limit: 10},
		{name: "exactly at limit", input: "abcd", limit: 4},
		{name: "over limit", input: "abcdef", limit: 4, wantErr: ErrSizeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := io.ReadAll(NewLimitedReader(strings.NewReader(tt.input), tt.limit))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadAll() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && string(data) != tt.input {
				t.Errorf("ReadAll() = %q, want %q", data, tt.input)
			}
		})
	}
}

func TestValidateInputPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", true},
		{"-", false},
		{"logo.svg", false},
		{"bad\x00.svg", true},
	}
	for _, tt := range tests {
		if err := ValidateInputPath(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("ValidateInputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestValidateOutputPath(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		name    string
		path    string
		base    string
		wantErr bool
	}{
		{name: "no base", path: "out.svg"},
		{name: "inside base", path: filepath.Join(base, "out.svg"), base: base},
		{name: "traversal", path: filepath.Join(base, "..", "out.svg"), base: base, wantErr: true},
		{name: "stdout", path: "-", base: base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateOutputPath(tt.path, tt.base); (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
