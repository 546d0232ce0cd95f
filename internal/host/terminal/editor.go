package terminal

import (
	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

// Editor is a document shown by the terminal host.
type Editor struct {
	host *Host
	doc  marker.DocumentID

	cursor marker.Position
	top    int
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
}

// RevealIfOutsideViewport implements navigator.Editor. A hidden line is
// centered.
func (e *Editor) RevealIfOutsideViewport(pos marker.Position) bool {
	e.host.mu.Lock()
	defer e.host.mu.Unlock()
	return e.revealLocked(pos)
}

func (e *Editor) revealLocked(pos marker.Position) bool {
	height := e.host.textHeight()
	if pos.Line >= e.top && pos.Line < e.top+height {
		return false
	}
	e.top = max(0, pos.Line-height/2)
	return true
}

// move shifts the cursor by lines, clamped to the document, and keeps it
// visible.
func (e *Editor) move(lines int) {
	e.host.mu.Lock()
	defer e.host.mu.Unlock()

	last := max(0, len(e.host.documents[e.doc])-1)
	e.cursor = marker.Pos(min(max(0, e.cursor.Line+lines), last), 0)

	height := e.host.textHeight()
	switch {
	case e.cursor.Line < e.top:
		e.top = e.cursor.Line
	case e.cursor.Line >= e.top+height:
		e.top = e.cursor.Line - height + 1
	}
}

var _ navigator.Editor = (*Editor)(nil)
