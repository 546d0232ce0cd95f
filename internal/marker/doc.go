// Package marker defines the data model shared by the diagnostics store,
// the navigator and the hosts: positions, severities, documents and markers.
//
// Positions are zero-based (line, column) pairs with a total order by line,
// then column. Severities use the LSP numbering, so a lower value is more
// severe:
//
//	Error (1) < Warning (2) < Information (3) < Hint (4)
//
// Document identifiers are opaque strings compared lexicographically.
package marker
