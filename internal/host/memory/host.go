// Package memory provides an in-memory host: documents, editors with a
// cursor and viewport, and a log of presentation calls. It backs the
// one-shot CLI commands, Lua scripts and tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

// ErrUnknownDocument indicates a document the host has not been given.
var ErrUnknownDocument = errors.New("unknown document")

// DefaultViewportHeight is the number of lines an editor shows.
const DefaultViewportHeight = 40

// CallKind identifies a recorded host call.
type CallKind string

// Recorded calls.
const (
	CallOpen          CallKind = "open"
	CallReveal        CallKind = "reveal"
	CallCloseMarker   CallKind = "closeMarkerNavigation"
	CallShowMarker    CallKind = "showMarkerNavigation"
	CallShowHover     CallKind = "showHover"
	CallSetSelection  CallKind = "setSelection"
	CallFocus         CallKind = "focus"
)

// Call is one recorded host call.
type Call struct {
	Kind        CallKind
	Document    marker.DocumentID
	Position    marker.Position
	Direction   navigator.Direction
	AcrossFiles bool
}

// String formats a call for logs and test failures.
func (c Call) String() string {
	switch c.Kind {
	case CallShowMarker:
		return fmt.Sprintf("%s(%s, files=%t)", c.Kind, c.Direction, c.AcrossFiles)
	case CallCloseMarker, CallShowHover:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Document)
	default:
		return fmt.Sprintf("%s(%s:%s)", c.Kind, c.Document, c.Position)
	}
}

// Host implements navigator.Workspace and navigator.Presenter.
type Host struct {
	mu sync.Mutex

	documents map[marker.DocumentID][]string
	editors   map[marker.DocumentID]*Editor
	active    *Editor
	calls     []Call

	viewportHeight int
	allowUnknown   bool
	openErr        func(doc marker.DocumentID) error
}

// Option configures a Host.
type Option func(*Host)

// WithViewportHeight sets the number of visible lines per editor.
func WithViewportHeight(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.viewportHeight = n
		}
	}
}

// WithUnknownDocuments lets OpenAndShow open documents that were never
// added, as empty documents.
func WithUnknownDocuments() Option {
	return func(h *Host) {
		h.allowUnknown = true
	}
}

// WithOpenError makes OpenAndShow fail when fn returns an error.
func WithOpenError(fn func(doc marker.DocumentID) error) Option {
	return func(h *Host) {
		h.openErr = fn
	}
}

// New creates an empty host.
func New(opts ...Option) *Host {
	h := &Host{
		documents:      make(map[marker.DocumentID][]string),
		editors:        make(map[marker.DocumentID]*Editor),
		viewportHeight: DefaultViewportHeight,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddDocument registers a document and its text.
func (h *Host) AddDocument(doc marker.DocumentID, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.documents[doc] = strings.Split(text, "\n")
}

// Documents returns the registered documents, sorted.
func (h *Host) Documents() []marker.DocumentID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Sorted(maps.Keys(h.documents))
}

// Lines returns the text of doc split into lines.
func (h *Host) Lines(doc marker.DocumentID) ([]string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lines, ok := h.documents[doc]
	return slices.Clone(lines), ok
}

// Focus makes doc the active editor with the cursor at pos, opening it if
// needed. It is the user moving around, so it is not recorded as an open.
func (h *Host) Focus(doc marker.DocumentID, pos marker.Position) (*Editor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ed, err := h.editorLocked(doc)
	if err != nil {
		return nil, err
	}
	ed.cursor = pos
	ed.revealLocked(pos)
	h.active = ed
	h.record(Call{Kind: CallFocus, Document: doc, Position: pos})
	return ed, nil
}

// CloseAll closes every editor, leaving no active editor.
func (h *Host) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.editors = make(map[marker.DocumentID]*Editor)
	h.active = nil
}

// Active returns the active document and cursor.
func (h *Host) Active() (marker.DocumentID, marker.Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return "", marker.Position{}, false
	}
	return h.active.doc, h.active.cursor, true
}

// ActiveEditor implements navigator.Workspace.
func (h *Host) ActiveEditor() (navigator.Editor, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return nil, false
	}
	return h.active, true
}

// OpenAndShow implements navigator.Workspace.
func (h *Host) OpenAndShow(ctx context.Context, doc marker.DocumentID) (navigator.Editor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.openErr != nil {
		if err := h.openErr(doc); err != nil {
			return nil, err
		}
	}

	ed, err := h.editorLocked(doc)
	if err != nil {
		return nil, err
	}
	h.active = ed
	h.record(Call{Kind: CallOpen, Document: doc})
	return ed, nil
}

// editorLocked returns the editor of doc, creating it on first use.
func (h *Host) editorLocked(doc marker.DocumentID) (*Editor, error) {
	if ed, ok := h.editors[doc]; ok {
		return ed, nil
	}
	if _, ok := h.documents[doc]; !ok {
		if !h.allowUnknown {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, doc)
		}
		h.documents[doc] = nil
	}

	ed := &Editor{
		id:     uuid.New(),
		host:   h,
		doc:    doc,
		height: h.viewportHeight,
	}
	h.editors[doc] = ed
	return ed, nil
}

// CloseMarkerNavigation implements navigator.Presenter.
func (h *Host) CloseMarkerNavigation(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(Call{Kind: CallCloseMarker, Document: h.activeDocLocked()})
	return nil
}

// ShowMarkerNavigation implements navigator.Presenter.
func (h *Host) ShowMarkerNavigation(_ context.Context, dir navigator.Direction, acrossFiles bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(Call{
		Kind:        CallShowMarker,
		Document:    h.activeDocLocked(),
		Position:    h.activeCursorLocked(),
		Direction:   dir,
		AcrossFiles: acrossFiles,
	})
	return nil
}

// ShowHover implements navigator.Presenter.
func (h *Host) ShowHover(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(Call{Kind: CallShowHover, Document: h.activeDocLocked(), Position: h.activeCursorLocked()})
	return nil
}

func (h *Host) activeDocLocked() marker.DocumentID {
	if h.active == nil {
		return ""
	}
	return h.active.doc
}

func (h *Host) activeCursorLocked() marker.Position {
	if h.active == nil {
		return marker.Position{}
	}
	return h.active.cursor
}

func (h *Host) record(c Call) {
	h.calls = append(h.calls, c)
}

// Calls returns the recorded calls.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.calls)
}

// CallKinds returns the kinds of the recorded calls, in order.
func (h *Host) CallKinds() []CallKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	kinds := make([]CallKind, len(h.calls))
	for i, c := range h.calls {
		kinds[i] = c.Kind
	}
	return kinds
}

// ResetCalls clears the call log.
func (h *Host) ResetCalls() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

var (
	_ navigator.Workspace = (*Host)(nil)
	_ navigator.Presenter = (*Host)(nil)
)
