// Package validation provides shared helpers for building validation error
// messages.
package validation

import "strings"

// FormatValidValues renders the allowed values of a string-backed enum as a
// comma-separated list, for embedding in "invalid X (valid: ...)" errors.
func FormatValidValues[T ~string](values []T) string {
	var out strings.Builder
	for i, value := range values {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(string(value))
	}
	return out.String()
}
