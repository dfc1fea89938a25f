// Package validation implements the document checking pipeline: resolving a
// feature list's declared schema reference, fetching and caching the schema,
// and validating the document against it. Violations are accumulated across
// the whole document rather than stopping at the first mismatch.
package validation

import (
	"fmt"
	"strings"
)

// Violation is a single schema violation with location and context.
type Violation struct {
	Path     string // dot/bracket field location (e.g. "features.general.lp.value"), or "root"
	Line     int    // 1-based line number in the source document
	Column   int    // 1-based column number
	Message  string // human-readable error description
	Expected string // what was expected (type, value, format)
	Actual   string // what was found
	Hint     string // suggestion for fixing the error
}

// Error implements the error interface.
func (v *Violation) Error() string {
	var sb strings.Builder
	if v.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d", v.Line))
		if v.Column > 0 {
			sb.WriteString(fmt.Sprintf(":%d", v.Column))
		}
		sb.WriteString(": ")
	}
	if v.Path != "" {
		sb.WriteString(v.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(v.Message)
	return sb.String()
}

// FormatFull returns the multi-line rendering used in CLI error blocks.
func (v *Violation) FormatFull() string {
	var sb strings.Builder
	if v.Line > 0 {
		sb.WriteString(fmt.Sprintf("  Line %d", v.Line))
		if v.Column > 0 {
			sb.WriteString(fmt.Sprintf(", Column %d", v.Column))
		}
		sb.WriteString("\n")
	}
	if v.Path != "" {
		sb.WriteString(fmt.Sprintf("  Path: %s\n", v.Path))
	}
	sb.WriteString(fmt.Sprintf("  Error: %s\n", v.Message))
	if v.Expected != "" {
		sb.WriteString(fmt.Sprintf("  Expected: %s\n", v.Expected))
	}
	if v.Actual != "" {
		sb.WriteString(fmt.Sprintf("  Got: %s\n", v.Actual))
	}
	if v.Hint != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", v.Hint))
	}
	return sb.String()
}

// Report collects every violation found in one document, in discovery order.
type Report struct {
	Violations []*Violation
}

// Add appends a violation to the report.
func (r *Report) Add(v *Violation) {
	r.Violations = append(r.Violations, v)
}

// Valid reports whether the document passed with no violations.
func (r *Report) Valid() bool {
	return len(r.Violations) == 0
}
