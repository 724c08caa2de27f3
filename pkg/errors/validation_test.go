package errors

import (
	"strings"
	"testing"
)

func TestValidateLayoutName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid latest", "latest", false},
		{"valid timestamped", "layout_20240102_150405", false},
		{"valid with extension", "layout_20240102_150405.json", false},
		{"valid uuid", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "..", true},
		{"embedded traversal", "a..b", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"hidden", ".latest", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayoutName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayoutName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateLayoutName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http", "http://192.168.1.8/refresh", false},
		{"https", "https://layouts.example.com", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "localhost:5000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
