// Package diagnostics stores the markers produced by external analyzers and
// serves them to the navigator.
//
// Markers reach the Store either programmatically through Publish or from
// report files read by a Loader: LSP textDocument/publishDiagnostics payloads
// (JSON or JSON lines) and a YAML report format:
//
//	documents:
//	  - id: internal/app/app.go
//	    markers:
//	      - line: 12
//	        column: 4
//	        severity: error
//	        message: undefined: foo
//
// A Watcher reloads report files when they change on disk.
package diagnostics
