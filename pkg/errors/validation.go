package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateWidth checks a variant width in U.
// Widths must be finite and strictly positive.
func ValidateWidth(width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) {
		return New(ErrCodeInvalidInput, "width must be a finite number, got %v", width)
	}
	if width <= 0 {
		return New(ErrCodeInvalidInput, "width must be positive, got %v", width)
	}
	return nil
}

// ValidateUnitSpacing checks the physical size of one U in centimetres.
func ValidateUnitSpacing(cm float64) error {
	if math.IsNaN(cm) || math.IsInf(cm, 0) || cm <= 0 {
		return New(ErrCodeInvalidInput, "unit spacing must be a positive number of centimetres, got %v", cm)
	}
	return nil
}

// ValidateNamePrefix validates the prefix used for generated component names.
//
// The rules are conservative because hosts differ in what they accept:
//   - No empty prefixes
//   - No control characters or whitespace
//   - No path separators
//   - Maximum length of 64 characters
func ValidateNamePrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidInput, "name prefix cannot be empty")
	}
	if len(prefix) > 64 {
		return New(ErrCodeInvalidInput, "name prefix too long (max 64 characters)")
	}
	for _, r := range prefix {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "name prefix contains whitespace or control characters")
		}
	}
	if strings.ContainsAny(prefix, "/\\") {
		return New(ErrCodeInvalidInput, "name prefix cannot contain path separators")
	}
	return nil
}
