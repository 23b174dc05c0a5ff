package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds the resume name accepted at the boundary.
const maxNameLength = 256

// ValidateName validates the resume owner's name before rendering.
//
// The renderers assume this precondition and never re-check it:
//   - Not empty after trimming whitespace
//   - No control characters
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return New(ErrCodeInvalidResume, "Missing or empty 'name' field")
	}

	if len(trimmed) > maxNameLength {
		return New(ErrCodeInvalidResume, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidResume, "name contains invalid control characters")
		}
	}

	return nil
}

// templateIDRegex matches registry slugs such as "classic" or "two-col".
var templateIDRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// ValidateTemplateID validates the shape of a template identifier.
// Whether the identifier exists is decided by the skin registry.
func ValidateTemplateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "template cannot be empty")
	}
	if !templateIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid template identifier: %q", id)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Relative paths may not escape the working directory
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !filepath.IsAbs(path) {
		clean := filepath.Clean(path)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return New(ErrCodeInvalidPath, "path cannot escape the working directory")
		}
	}

	return nil
}
