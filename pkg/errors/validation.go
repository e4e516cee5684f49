package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateMapName validates a map name for safety and correctness.
// Map names are interpolated into on-disk filenames (NAME_map.txt,
// NAME_AB.txt), so the validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateMapName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "map name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "map name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "map name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "map name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// reservedSymbols are grid cells with fixed meaning that resource
// recipes may not claim.
const reservedSymbols = "wr"

// ValidateResourceSymbol validates a resource symbol from a recipe.
// A symbol is a single printable ASCII character written into grid
// cells; the wall and floor markers are reserved.
func ValidateResourceSymbol(symbol string) error {
	if symbol == "" {
		return New(ErrCodeInvalidRecipe, "resource symbol cannot be empty")
	}

	if len(symbol) != 1 {
		return New(ErrCodeInvalidRecipe, "resource symbol must be a single character: %q", symbol)
	}

	c := symbol[0]
	if c <= ' ' || c > '~' {
		return New(ErrCodeInvalidRecipe, "resource symbol must be printable ASCII: %q", symbol)
	}

	if strings.ContainsRune(reservedSymbols, rune(c)) {
		return New(ErrCodeInvalidRecipe, "resource symbol %q is reserved", symbol)
	}

	return nil
}

// ValidateInterval validates a normalized-degree target interval.
// Bounds must lie in [0, 1] with low <= high.
func ValidateInterval(low, high float64) error {
	if low < 0 || low > 1 || high < 0 || high > 1 {
		return New(ErrCodeInvalidInterval, "interval bounds must be within [0, 1]: got [%g, %g]", low, high)
	}

	if low > high {
		return New(ErrCodeInvalidInterval, "interval low bound exceeds high bound: [%g, %g]", low, high)
	}

	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}

// runIDRegex matches canonical UUID run identifiers.
var runIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRunID validates an archive run identifier.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run ID cannot be empty")
	}

	if !runIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid run ID: %q", id)
	}

	return nil
}
