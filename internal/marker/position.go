package marker

import "fmt"

// Position in a document expressed as zero-based line and column.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Pos is shorthand for Position{Line: line, Column: col}.
func Pos(line, col int) Position {
	return Position{Line: line, Column: col}
}

// Compare returns -1 if p < o, 0 if p == o, 1 if p > o.
func (p Position) Compare(o Position) int {
	if p.Line < o.Line {
		return -1
	}
	if p.Line > o.Line {
		return 1
	}
	if p.Column < o.Column {
		return -1
	}
	if p.Column > o.Column {
		return 1
	}
	return 0
}

// Before returns true if p is strictly before o.
func (p Position) Before(o Position) bool {
	return p.Compare(o) < 0
}

// After returns true if p is strictly after o.
func (p Position) After(o Position) bool {
	return p.Compare(o) > 0
}

// Equal returns true if both components match.
func (p Position) Equal(o Position) bool {
	return p.Line == o.Line && p.Column == o.Column
}

// BeforeOrEqual returns true if p <= o.
func (p Position) BeforeOrEqual(o Position) bool {
	return p.Compare(o) <= 0
}

// AfterOrEqual returns true if p >= o.
func (p Position) AfterOrEqual(o Position) bool {
	return p.Compare(o) >= 0
}

// String formats the position 1-based, the way compilers print locations.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}
