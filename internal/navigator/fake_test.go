package navigator

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/problemnav/internal/marker"
)

// fakeProvider serves markers from a map.
type fakeProvider map[marker.DocumentID][]marker.Marker

func (p fakeProvider) Markers(doc marker.DocumentID) []marker.Marker {
	return p[doc]
}

func (p fakeProvider) AllMarkers() map[marker.DocumentID][]marker.Marker {
	return p
}

func (p fakeProvider) add(doc marker.DocumentID, sev marker.Severity, line, col int) {
	p[doc] = append(p[doc], marker.Marker{Document: doc, Start: marker.Pos(line, col), Severity: sev})
}

type fakeEditor struct {
	doc        marker.DocumentID
	cursor     marker.Position
	selections int
	visible    bool
	reveals    int
}

func (e *fakeEditor) Document() marker.DocumentID { return e.doc }
func (e *fakeEditor) Cursor() marker.Position     { return e.cursor }

func (e *fakeEditor) SetSelection(pos marker.Position) {
	e.cursor = pos
	e.selections++
}

func (e *fakeEditor) RevealIfOutsideViewport(marker.Position) bool {
	if e.visible {
		return false
	}
	e.reveals++
	return true
}

type fakeWorkspace struct {
	active  *fakeEditor
	editors map[marker.DocumentID]*fakeEditor
	opened  []marker.DocumentID
	openErr error
}

func newFakeWorkspace() *fakeWorkspace {
	return &fakeWorkspace{editors: make(map[marker.DocumentID]*fakeEditor)}
}

// focus makes doc the active editor with the cursor at pos.
func (w *fakeWorkspace) focus(doc marker.DocumentID, line, col int) *fakeEditor {
	ed, ok := w.editors[doc]
	if !ok {
		ed = &fakeEditor{doc: doc}
		w.editors[doc] = ed
	}
	ed.cursor = marker.Pos(line, col)
	w.active = ed
	return ed
}

func (w *fakeWorkspace) ActiveEditor() (Editor, bool) {
	if w.active == nil {
		return nil, false
	}
	return w.active, true
}

func (w *fakeWorkspace) OpenAndShow(_ context.Context, doc marker.DocumentID) (Editor, error) {
	if w.openErr != nil {
		return nil, w.openErr
	}
	w.opened = append(w.opened, doc)
	ed, ok := w.editors[doc]
	if !ok {
		ed = &fakeEditor{doc: doc}
		w.editors[doc] = ed
	}
	w.active = ed
	return ed, nil
}

// fakePresenter records presentation calls as strings.
type fakePresenter struct {
	calls []string
	err   error
}

func (p *fakePresenter) CloseMarkerNavigation(context.Context) error {
	p.calls = append(p.calls, "close")
	return p.err
}

func (p *fakePresenter) ShowMarkerNavigation(_ context.Context, dir Direction, acrossFiles bool) error {
	name := "marker." + dir.String()
	if acrossFiles {
		name += "InFiles"
	}
	p.calls = append(p.calls, name)
	return nil
}

func (p *fakePresenter) ShowHover(context.Context) error {
	p.calls = append(p.calls, "hover")
	return nil
}

var errBoom = errors.New("boom")

func loc(doc marker.DocumentID, line, col int) string {
	return fmt.Sprintf("%s@%d:%d", doc, line, col)
}

func resultLoc(r Result) string {
	if !r.Found {
		return "none"
	}
	return loc(r.Marker.Document, r.Marker.Start.Line, r.Marker.Start.Column)
}
