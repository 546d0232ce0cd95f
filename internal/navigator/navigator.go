package navigator

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/problemnav/internal/logging"
	"github.com/dshills/problemnav/internal/marker"
)

// Direction selects which way navigation moves from the cursor.
type Direction int

const (
	// Next moves towards the end of the document.
	Next Direction = iota
	// Prev moves towards the start of the document.
	Prev
)

// String returns "next" or "prev".
func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Result is the outcome of a navigation call.
type Result struct {
	// Found is false when no marker matched. This is a normal outcome.
	Found bool

	// Marker is the selected marker when Found is true.
	Marker marker.Marker

	// Moved is false when the call found the marker the cursor already sits on
	// and left cursor and state untouched.
	Moved bool

	// AcrossFiles is true when the marker was selected in another document.
	AcrossFiles bool
}

// NotFound is the result of a call that selected nothing.
var NotFound = Result{}

// Navigator selects markers relative to the cursor of the active editor.
type Navigator struct {
	mu sync.Mutex

	provider  Provider
	workspace Workspace
	presenter Presenter
	state     *State

	presentation Presentation
	logger       *logging.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithPresenter sets the presenter used after a successful selection.
func WithPresenter(p Presenter) Option {
	return func(n *Navigator) {
		n.presenter = p
	}
}

// WithPresentation sets the presentation policy.
func WithPresentation(p Presentation) Option {
	return func(n *Navigator) {
		n.presentation = p
	}
}

// WithState sets the state the navigator records into.
func WithState(s *State) Option {
	return func(n *Navigator) {
		if s != nil {
			n.state = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.logger = l
		}
	}
}

// New creates a navigator over the given provider and workspace.
func New(provider Provider, workspace Workspace, opts ...Option) *Navigator {
	n := &Navigator{
		provider:     provider,
		workspace:    workspace,
		state:        NewState(),
		presentation: DefaultPresentation(),
		logger:       logging.Nop(),
	}

	for _, opt := range opts {
		opt(n)
	}

	n.logger = n.logger.WithComponent("navigator")
	return n
}

// State returns the navigator's state.
func (n *Navigator) State() *State {
	return n.state
}

// SelectInFile selects the closest marker matching filter in direction dir
// from the cursor of the active editor. When nothing lies in that direction
// and loop is true, it wraps to the first (Next) or last (Prev) marker of the
// document.
//
// A missing active editor is reported as NotFound. The returned error is
// non-nil only when presentation failed; the selection has been applied then.
func (n *Navigator) SelectInFile(ctx context.Context, filter marker.SeverityFilter, dir Direction, loop bool) (Result, error) {
	n.mu.Lock()
	res, show := n.selectInFile(filter, dir, loop)
	n.mu.Unlock()

	return res, n.run(ctx, show)
}

// SelectAcrossFiles selects the next marker in the active document without
// wrapping and, failing that, the first (Next) or last (Prev) marker of the
// following (or preceding) document by ID. The document order wraps around
// the workspace.
func (n *Navigator) SelectAcrossFiles(ctx context.Context, filter marker.SeverityFilter, dir Direction) (Result, error) {
	n.mu.Lock()
	res, show, err := n.selectAcrossFiles(ctx, filter, dir)
	n.mu.Unlock()

	if err != nil {
		return res, err
	}
	return res, n.run(ctx, show)
}

// presentFunc applies the presentation step after the lock is released.
type presentFunc func(ctx context.Context) error

func (n *Navigator) run(ctx context.Context, show presentFunc) error {
	if show == nil {
		return nil
	}
	if err := show(ctx); err != nil {
		n.logger.Warn("presentation failed: %v", err)
		return fmt.Errorf("%w: %w", ErrPresentation, err)
	}
	return nil
}

func (n *Navigator) selectInFile(filter marker.SeverityFilter, dir Direction, loop bool) (Result, presentFunc) {
	ed, ok := n.workspace.ActiveEditor()
	if !ok {
		n.logger.Debug("no active editor")
		return NotFound, nil
	}

	doc := ed.Document()
	n.state.invalidateFor(doc)

	markers := filter.Apply(n.provider.Markers(doc))
	if len(markers) == 0 {
		n.logger.WithField("doc", doc).Debug("no %s markers", filter)
		return NotFound, nil
	}

	cursor := ed.Cursor()
	last, tracking := n.state.Last()

	best := -1
	for i, m := range markers {
		if tracking && m.Start.Equal(last.Position) {
			continue
		}
		if closer(dir, cursor, m.Start, markers, best) {
			best = i
		}
	}

	var selected marker.Marker
	switch {
	case best >= 0:
		selected = markers[best]
	case loop:
		if dir == Next {
			selected, _ = marker.First(markers)
		} else {
			selected, _ = marker.Last(markers)
		}

		// A lone marker is both excluded and the only wrap candidate. Once
		// the cursor sits on it, stay put instead of moving back and forth.
		if tracking && last.Position.Equal(selected.Start) && cursor.Equal(selected.Start) {
			n.logger.WithField("doc", doc).Debug("already at %s", selected.Start)
			return Result{Found: true, Marker: selected}, nil
		}
	default:
		n.logger.WithField("doc", doc).Debug("no %s marker %s %s", filter, dir, cursor)
		return NotFound, nil
	}

	n.state.Record(selected.Location())
	ed.SetSelection(selected.Start)
	n.logger.WithField("doc", doc).Debug("selected %s %s", dir, selected.Start)

	return Result{Found: true, Marker: selected, Moved: true}, func(ctx context.Context) error {
		return n.presentInFile(ctx, ed, filter, dir, selected.Start)
	}
}

// closer reports whether candidate satisfies the direction constraint relative
// to cursor and is strictly closer than markers[best]. Ties keep the marker
// encountered first.
func closer(dir Direction, cursor, candidate marker.Position, markers []marker.Marker, best int) bool {
	if dir == Next {
		if !candidate.AfterOrEqual(cursor) {
			return false
		}
		return best < 0 || candidate.Before(markers[best].Start)
	}
	if !candidate.BeforeOrEqual(cursor) {
		return false
	}
	return best < 0 || candidate.After(markers[best].Start)
}

func (n *Navigator) selectAcrossFiles(ctx context.Context, filter marker.SeverityFilter, dir Direction) (Result, presentFunc, error) {
	if res, show := n.selectInFile(filter, dir, false); res.Found {
		return res, show, nil
	}

	files := make(map[marker.DocumentID][]marker.Marker)
	for doc, markers := range n.provider.AllMarkers() {
		if filtered := filter.Apply(markers); len(filtered) > 0 {
			files[doc] = filtered
		}
	}
	if len(files) == 0 {
		n.logger.Debug("no %s markers in workspace", filter)
		return NotFound, nil, nil
	}

	var active marker.DocumentID
	ed, hasActive := n.workspace.ActiveEditor()
	if hasActive {
		active = ed.Document()
	}

	if _, ok := files[active]; ok && hasActive && len(files) == 1 {
		res, show := n.selectInFile(filter, dir, true)
		return res, show, nil
	}

	docs := make([]marker.DocumentID, 0, len(files))
	for doc := range files {
		docs = append(docs, doc)
	}
	docs = marker.SortDocuments(docs)

	idx := -1
	if hasActive {
		idx = slices.Index(docs, active)
	}
	target := docs[targetIndex(dir, idx, len(docs))]

	var selected marker.Marker
	if dir == Next {
		selected, _ = marker.First(files[target])
	} else {
		selected, _ = marker.Last(files[target])
	}

	log := n.logger.WithField("doc", target)

	opened, err := n.workspace.OpenAndShow(ctx, target)
	if err != nil {
		log.Warn("open failed: %v", err)
		return Result{Found: true, Marker: selected, AcrossFiles: true}, nil,
			fmt.Errorf("%w %s: %w", ErrOpenDocument, target, err)
	}
	opened.SetSelection(selected.Start)
	n.state.Record(selected.Location())
	log.Debug("selected %s in files %s", dir, selected.Start)

	return Result{Found: true, Marker: selected, Moved: true, AcrossFiles: true}, func(ctx context.Context) error {
		return n.presentAcrossFiles(ctx, dir)
	}, nil
}

// targetIndex returns the index of the document to continue in. idx is the
// active document's index in the sorted list, or -1 if it has no markers.
func targetIndex(dir Direction, idx, count int) int {
	if dir == Next {
		return (idx + 1) % count
	}
	return (idx - 1 + count) % count
}
