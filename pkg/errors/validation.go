package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxChartIDLength bounds chart ids; they end up as DOM ids, cache keys and
// object store paths.
const maxChartIDLength = 128

// chartIDRegex matches ids that are safe as HTML element ids and file names.
var chartIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.:-]*$`)

// ValidateChartID validates a chart id for safety and correctness.
//
// The id is the correlation key between a document, the mutation hook and the
// canvas element, so it must be usable verbatim in all three places:
//   - No empty ids
//   - Must start with a letter
//   - Only letters, digits, '_', '-', '.', ':'
//   - Maximum length of 128 characters
func ValidateChartID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidChartID, "chart id cannot be empty")
	}
	if len(id) > maxChartIDLength {
		return New(ErrCodeInvalidChartID, "chart id too long (max %d characters)", maxChartIDLength)
	}
	if !chartIDRegex.MatchString(id) {
		return New(ErrCodeInvalidChartID, "invalid chart id: %q", id)
	}
	return nil
}

// ValidateDocumentPath validates a dotted document path such as
// "options.plugins.legend.display" or "data.datasets.0.label".
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") {
		return New(ErrCodeInvalidPath, "path cannot start or end with '.': %q", path)
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path contains an empty segment: %q", path)
	}

	return nil
}

// ValidateSpecFilename validates a spec filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateSpecFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidSpec, "spec filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidSpec, "spec filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidSpec, "spec filename cannot be a hidden file")
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
