package errors

import (
	"strings"
	"unicode"
)

const maxLayoutNameLength = 128

// ValidateLayoutName validates the name of a stored layout, as used in
// GET /layout/{name}. Names map onto files, so anything that could escape
// the layouts directory is rejected:
//   - empty names or names over 128 characters
//   - control characters and null bytes
//   - path separators and ".." sequences
//   - hidden names (leading dot)
func ValidateLayoutName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "layout name cannot be empty")
	}
	if len(name) > maxLayoutNameLength {
		return New(ErrCodeInvalidName, "layout name too long (max %d characters)", maxLayoutNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "layout name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidName, "layout name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "layout name cannot contain path traversal sequences (..)")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "layout name cannot be a hidden file")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
