package memory

import (
	"github.com/google/uuid"

	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

// Editor is a document open in a Host.
type Editor struct {
	id   uuid.UUID
	host *Host
	doc  marker.DocumentID

	cursor marker.Position
	top    int
	height int
}

// ID returns the editor handle.
func (e *Editor) ID() uuid.UUID {
	return e.id
}

// Document implements navigator.Editor.
func (e *Editor) Document() marker.DocumentID {
	return e.doc
}

// Cursor implements navigator.Editor.
func (e *Editor) Cursor() marker.Position {
	e.host.mu.Lock()
	defer e.host.mu.Unlock()
	return e.cursor
}

// SetSelection implements navigator.Editor.
func (e *Editor) SetSelection(pos marker.Position) {
	e.host.mu.Lock()
	defer e.host.mu.Unlock()
	e.cursor = pos
	e.host.record(Call{Kind: CallSetSelection, Document: e.doc, Position: pos})
}

// RevealIfOutsideViewport implements navigator.Editor. A hidden line is
// scrolled to the middle of the viewport.
func (e *Editor) RevealIfOutsideViewport(pos marker.Position) bool {
	e.host.mu.Lock()
	defer e.host.mu.Unlock()

	if !e.revealLocked(pos) {
		return false
	}
	e.host.record(Call{Kind: CallReveal, Document: e.doc, Position: pos})
	return true
}

func (e *Editor) revealLocked(pos marker.Position) bool {
	if pos.Line >= e.top && pos.Line < e.top+e.height {
		return false
	}
	e.top = max(0, pos.Line-e.height/2)
	return true
}

// Viewport returns the first visible line and the number of visible lines.
func (e *Editor) Viewport() (top, height int) {
	e.host.mu.Lock()
	defer e.host.mu.Unlock()
	return e.top, e.height
}

var _ navigator.Editor = (*Editor)(nil)
