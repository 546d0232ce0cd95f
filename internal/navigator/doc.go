// Package navigator selects the next or previous diagnostic marker relative
// to the cursor of the active editor.
//
// A Navigator combines three capabilities injected at construction:
//
//   - Provider: the diagnostics source, queried fresh on every call
//   - Workspace: the active editor and a way to open other documents
//   - Presenter: optional host UI used to surface the selected marker
//
// Navigation is either confined to the active document (SelectInFile,
// optionally wrapping around) or continues into the other documents of the
// workspace ordered by document ID (SelectAcrossFiles).
//
// # State
//
// The navigator remembers the last marker it selected in a State. The
// remembered marker is never selected twice in a row, which keeps repeated
// calls moving even when the cursor already sits on a marker. The state is
// dropped lazily when a call targets a different document than the one it
// tracks.
//
// # Thread Safety
//
// Navigator is safe for concurrent use: each call reads and writes the state
// under a mutex. Presentation (including the optional settle delay before a
// hover) runs after the mutex is released, so a slow presentation does not
// block the next call. A State must not be shared between navigators.
package navigator
