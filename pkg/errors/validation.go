package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeName validates a node identifier before it enters the graph.
//
// Node names travel through whitespace-separated text formats (bubble
// candidate lines, spqr link files, DOT identifiers), so the rules are:
//   - No empty names
//   - No whitespace or control characters
//   - No double quotes (they terminate DOT string literals)
//   - Maximum length of 256 characters
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "node name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node name %q contains whitespace or control characters", name)
		}
	}

	if strings.Contains(name, `"`) {
		return New(ErrCodeInvalidInput, "node name %q contains a double quote", name)
	}

	return nil
}
