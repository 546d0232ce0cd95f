package marker

import (
	"fmt"
	"slices"
	"strings"
)

// DocumentID identifies an open document. IDs are compared lexicographically.
type DocumentID string

// Marker is a positioned diagnostic annotation in a document.
type Marker struct {
	Document DocumentID
	Start    Position
	End      Position
	Severity Severity
	Message  string
	Source   string
	Code     string
}

// Location is a position inside a specific document.
type Location struct {
	Document DocumentID
	Position Position
}

// Location returns the marker's start location.
func (m Marker) Location() Location {
	return Location{Document: m.Document, Position: m.Start}
}

// String formats a location as "doc:line:col" with 1-based numbers.
func (l Location) String() string {
	return fmt.Sprintf("%s:%s", l.Document, l.Position)
}

// Format formats a marker for display.
func (m Marker) Format() string {
	var sb strings.Builder

	sb.WriteString(m.Severity.Icon())
	sb.WriteString(" ")

	if m.Source != "" {
		sb.WriteString("[")
		sb.WriteString(m.Source)
		sb.WriteString("] ")
	}

	sb.WriteString(m.Message)

	if m.Code != "" {
		sb.WriteString(" (")
		sb.WriteString(m.Code)
		sb.WriteString(")")
	}

	return sb.String()
}

// FormatWithLocation formats a marker prefixed with its location.
func (m Marker) FormatWithLocation() string {
	return m.Location().String() + ": " + m.Format()
}

// SortByPosition sorts markers by start position in place. Markers sharing a
// start position keep their relative order.
func SortByPosition(markers []Marker) {
	slices.SortStableFunc(markers, func(a, b Marker) int {
		return a.Start.Compare(b.Start)
	})
}

// Sorted returns a position-sorted copy of markers.
func Sorted(markers []Marker) []Marker {
	sorted := slices.Clone(markers)
	SortByPosition(sorted)
	return sorted
}

// First returns the marker with the smallest start position.
func First(markers []Marker) (Marker, bool) {
	if len(markers) == 0 {
		return Marker{}, false
	}
	return Sorted(markers)[0], true
}

// Last returns the marker with the largest start position.
func Last(markers []Marker) (Marker, bool) {
	if len(markers) == 0 {
		return Marker{}, false
	}
	sorted := Sorted(markers)
	return sorted[len(sorted)-1], true
}

// SortDocuments returns the document IDs in ascending order.
func SortDocuments(docs []DocumentID) []DocumentID {
	sorted := slices.Clone(docs)
	slices.Sort(sorted)
	return sorted
}
