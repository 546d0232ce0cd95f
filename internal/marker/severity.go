package marker

import (
	"slices"
	"strings"
)

// Severity represents the severity of a marker.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInformation:
		return "Information"
	case SeverityHint:
		return "Hint"
	default:
		return "Unknown"
	}
}

// Icon returns a single character icon for the severity.
func (s Severity) Icon() string {
	switch s {
	case SeverityError:
		return "E"
	case SeverityWarning:
		return "W"
	case SeverityInformation:
		return "I"
	case SeverityHint:
		return "H"
	default:
		return "?"
	}
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	return s >= SeverityError && s <= SeverityHint
}

// ParseSeverity parses a severity name. It accepts the full names, the
// single character icons and the common short forms ("err", "warn", "info").
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err", "e":
		return SeverityError, true
	case "warning", "warn", "w":
		return SeverityWarning, true
	case "information", "info", "i":
		return SeverityInformation, true
	case "hint", "h":
		return SeverityHint, true
	default:
		return 0, false
	}
}

// SeverityFilter is the set of severities a navigation call considers.
// The zero value matches nothing.
type SeverityFilter struct {
	severities []Severity
}

var (
	// ErrorsOnly matches errors.
	ErrorsOnly = NewSeverityFilter(SeverityError)

	// ErrorsAndWarnings matches errors and warnings.
	ErrorsAndWarnings = NewSeverityFilter(SeverityError, SeverityWarning)
)

// NewSeverityFilter creates a filter matching the given severities.
// Duplicates are dropped and the set is kept in severity order.
func NewSeverityFilter(severities ...Severity) SeverityFilter {
	set := make([]Severity, 0, len(severities))
	for _, s := range severities {
		if !slices.Contains(set, s) {
			set = append(set, s)
		}
	}
	slices.Sort(set)
	return SeverityFilter{severities: set}
}

// Contains returns true if the filter matches s.
func (f SeverityFilter) Contains(s Severity) bool {
	return slices.Contains(f.severities, s)
}

// Empty returns true if the filter matches nothing.
func (f SeverityFilter) Empty() bool {
	return len(f.severities) == 0
}

// IsErrorOnly returns true if the filter is exactly {Error}.
func (f SeverityFilter) IsErrorOnly() bool {
	return len(f.severities) == 1 && f.severities[0] == SeverityError
}

// Severities returns a copy of the filter's severities.
func (f SeverityFilter) Severities() []Severity {
	return slices.Clone(f.severities)
}

// Apply returns the markers whose severity is in the filter, preserving order.
// The input slice is not modified.
func (f SeverityFilter) Apply(markers []Marker) []Marker {
	var filtered []Marker
	for _, m := range markers {
		if f.Contains(m.Severity) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// String returns the filter as a "+"-joined list of severity names.
func (f SeverityFilter) String() string {
	names := make([]string, len(f.severities))
	for i, s := range f.severities {
		names[i] = strings.ToLower(s.String())
	}
	return strings.Join(names, "+")
}

// ParseSeverityFilter maps the command-level filter names to filters:
// "error" is errors only and "warning" is errors and warnings.
func ParseSeverityFilter(s string) (SeverityFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "errors":
		return ErrorsOnly, true
	case "warning", "warnings":
		return ErrorsAndWarnings, true
	default:
		return SeverityFilter{}, false
	}
}
