// Package terminal is an interactive tcell host: it shows one document at a
// time with severity icons in the gutter, a status line and a box for the
// marker widget or hover. Navigation keys are dispatched as actions.
package terminal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/problemnav/internal/dispatcher"
	"github.com/dshills/problemnav/internal/logging"
	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

// ReadFunc loads the text of a document.
type ReadFunc func(doc marker.DocumentID) (string, error)

// boxKind tells the marker widget from a hover.
type boxKind int

const (
	boxNone boxKind = iota
	boxMarker
	boxHover
)

// box is the overlay shown under the cursor line.
type box struct {
	kind  boxKind
	title string
	lines []string
}

// Host implements navigator.Workspace and navigator.Presenter on a tcell
// screen. All methods are called from the event loop goroutine.
type Host struct {
	mu sync.Mutex

	screen     tcell.Screen
	provider   navigator.Provider
	dispatcher *dispatcher.Dispatcher
	logger     *logging.Logger
	read       ReadFunc

	documents map[marker.DocumentID][]string
	editors   map[marker.DocumentID]*Editor
	order     []marker.DocumentID
	active    *Editor

	overlay box
	status  string
}

// Option configures a Host.
type Option func(*Host)

// WithReader sets how documents are loaded. Defaults to reading files.
func WithReader(fn ReadFunc) Option {
	return func(h *Host) {
		h.read = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a host drawing on screen. The screen must not be initialized;
// Run initializes and finalizes it.
func New(screen tcell.Screen, provider navigator.Provider, opts ...Option) *Host {
	h := &Host{
		screen:    screen,
		provider:  provider,
		logger:    logging.Nop(),
		read:      readFile,
		documents: make(map[marker.DocumentID][]string),
		editors:   make(map[marker.DocumentID]*Editor),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("terminal")
	return h
}

func readFile(doc marker.DocumentID) (string, error) {
	data, err := os.ReadFile(string(doc))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetDispatcher sets the dispatcher key bindings are sent to.
func (h *Host) SetDispatcher(d *dispatcher.Dispatcher) {
	h.dispatcher = d
}

// Documents returns the opened documents in the order they were opened.
func (h *Host) Documents() []marker.DocumentID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]marker.DocumentID(nil), h.order...)
}

// Status returns the status line message.
func (h *Host) Status() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *Host) setStatus(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = fmt.Sprintf(format, args...)
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

	ed, err := h.editorLocked(doc)
	if err != nil {
		return nil, err
	}
	h.active = ed
	h.overlay = box{}
	return ed, nil
}

func (h *Host) editorLocked(doc marker.DocumentID) (*Editor, error) {
	if ed, ok := h.editors[doc]; ok {
		return ed, nil
	}

	text, err := h.read(doc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", doc, err)
	}

	h.documents[doc] = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	ed := &Editor{host: h, doc: doc}
	h.editors[doc] = ed
	h.order = append(h.order, doc)
	return ed, nil
}

// CloseMarkerNavigation implements navigator.Presenter.
func (h *Host) CloseMarkerNavigation(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.overlay = box{}
	return nil
}

// ShowMarkerNavigation implements navigator.Presenter. The widget lists the
// markers at the cursor with their index in the document.
func (h *Host) ShowMarkerNavigation(_ context.Context, dir navigator.Direction, acrossFiles bool) error {
	doc, pos, ok := h.cursor()
	if !ok {
		return nil
	}

	all := marker.Sorted(h.provider.Markers(doc))
	var lines []string
	for i, m := range all {
		if m.Start.Equal(pos) {
			lines = append(lines, fmt.Sprintf("%s (%d of %d)", m.Format(), i+1, len(all)))
		}
	}

	title := dir.String()
	if acrossFiles {
		title += " in files"
	}

	h.mu.Lock()
	h.overlay = box{kind: boxMarker, title: title, lines: lines}
	h.mu.Unlock()
	return nil
}

// ShowHover implements navigator.Presenter.
func (h *Host) ShowHover(context.Context) error {
	doc, pos, ok := h.cursor()
	if !ok {
		return nil
	}

	var lines []string
	for _, m := range h.provider.Markers(doc) {
		end := m.End
		if end.Before(m.Start) {
			end = m.Start
		}
		if m.Start.BeforeOrEqual(pos) && pos.BeforeOrEqual(end) {
			lines = append(lines, m.Format())
		}
	}

	h.mu.Lock()
	h.overlay = box{kind: boxHover, lines: lines}
	h.mu.Unlock()
	return nil
}

func (h *Host) cursor() (marker.DocumentID, marker.Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return "", marker.Position{}, false
	}
	return h.active.doc, h.active.cursor, true
}

var (
	_ navigator.Workspace = (*Host)(nil)
	_ navigator.Presenter = (*Host)(nil)
)
