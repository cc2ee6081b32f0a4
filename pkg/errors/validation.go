package errors

import (
	"strings"
	"unicode"
)

// ValidateElementType validates a user-supplied element type name before
// it reaches the generator parsers. The known types are checked
// downstream; this only rejects clearly malformed input.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 64 characters
func ValidateElementType(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "element type cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "element type too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "element type contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputFormat validates a rendering format name against the
// supported set.
func ValidateOutputFormat(format string) error {
	switch format {
	case "dot", "svg", "png":
		return nil
	case "":
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	default:
		return New(ErrCodeInvalidFormat, "unsupported output format %q (want dot, svg, or png)", format)
	}
}

// ValidateInputFilename validates a generator file name for safety.
// It ensures the filename carries no traversal sequences and looks like
// a TOML or JSON input.
func ValidateInputFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "input filename cannot be empty")
	}

	if strings.Contains(filename, "\x00") {
		return New(ErrCodeInvalidInput, "input filename contains invalid characters")
	}

	if !strings.HasSuffix(filename, ".toml") && !strings.HasSuffix(filename, ".json") {
		return New(ErrCodeInvalidFormat, "input file must be .toml or .json: %q", filename)
	}

	return nil
}

// ValidateDegree validates a degree for point-based element types.
// BMat8 inputs are capped at dimension 8 by their packed representation;
// point maps use the same bound for the CLI surface so tables stay
// readable.
func ValidateDegree(degree, max int) error {
	if degree < 1 {
		return New(ErrCodeInvalidInput, "degree must be at least 1, got %d", degree)
	}
	if max > 0 && degree > max {
		return New(ErrCodeInvalidInput, "degree %d exceeds the maximum of %d", degree, max)
	}
	return nil
}
