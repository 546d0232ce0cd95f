package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/problemnav/internal/dispatcher/handler"
	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

// Namespace is the action namespace of the navigation commands.
const Namespace = "problems"

// Action names.
const (
	ActionNextError          = "problems.next.error"
	ActionPrevError          = "problems.prev.error"
	ActionNextInFilesError   = "problems.nextInFiles.error"
	ActionPrevInFilesError   = "problems.prevInFiles.error"
	ActionNextWarning        = "problems.next.warning"
	ActionPrevWarning        = "problems.prev.warning"
	ActionNextInFilesWarning = "problems.nextInFiles.warning"
	ActionPrevInFilesWarning = "problems.prevInFiles.warning"
)

// Result data keys set on a successful navigation.
const (
	DataDocument    = "document"
	DataLine        = "line"
	DataColumn      = "column"
	DataSeverity    = "severity"
	DataMessage     = "message"
	DataMoved       = "moved"
	DataAcrossFiles = "acrossFiles"
)

// ArgLoop is an optional bool argument of the in-file actions. It defaults
// to true.
const ArgLoop = "loop"

// Spec describes what one action does.
type Spec struct {
	Name        string
	Filter      marker.SeverityFilter
	Direction   navigator.Direction
	AcrossFiles bool
}

// Specs returns the navigation actions in registration order.
func Specs() []Spec {
	return []Spec{
		{ActionNextError, marker.ErrorsOnly, navigator.Next, false},
		{ActionPrevError, marker.ErrorsOnly, navigator.Prev, false},
		{ActionNextInFilesError, marker.ErrorsOnly, navigator.Next, true},
		{ActionPrevInFilesError, marker.ErrorsOnly, navigator.Prev, true},
		{ActionNextWarning, marker.ErrorsAndWarnings, navigator.Next, false},
		{ActionPrevWarning, marker.ErrorsAndWarnings, navigator.Prev, false},
		{ActionNextInFilesWarning, marker.ErrorsAndWarnings, navigator.Next, true},
		{ActionPrevInFilesWarning, marker.ErrorsAndWarnings, navigator.Prev, true},
	}
}

// Lookup returns the spec of a navigation action.
func Lookup(name string) (Spec, bool) {
	for _, s := range Specs() {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// ActionName builds the action name for a filter, direction and scope.
func ActionName(filter marker.SeverityFilter, dir navigator.Direction, acrossFiles bool) string {
	op := dir.String()
	if acrossFiles {
		op += "InFiles"
	}
	kind := "warning"
	if filter.IsErrorOnly() {
		kind = "error"
	}
	return fmt.Sprintf("%s.%s.%s", Namespace, op, kind)
}

// Handler is the "problems" namespace handler.
type Handler struct {
	*handler.BaseNamespaceHandler
	nav *navigator.Navigator
}

// NewHandler registers the navigation actions against nav.
func NewHandler(nav *navigator.Navigator) *Handler {
	h := &Handler{
		BaseNamespaceHandler: handler.NewBaseNamespaceHandler(Namespace),
		nav:                  nav,
	}
	for _, s := range Specs() {
		h.Register(s.Name, h.navigate(s))
	}
	return h
}

func (h *Handler) navigate(s Spec) handler.Func {
	return func(ctx context.Context, action handler.Action) handler.Result {
		if err := ctx.Err(); err != nil {
			return handler.Cancelled().WithError(err)
		}

		var (
			res navigator.Result
			err error
		)
		if s.AcrossFiles {
			res, err = h.nav.SelectAcrossFiles(ctx, s.Filter, s.Direction)
		} else {
			loop, ok := action.GetBool(ArgLoop)
			if !ok {
				loop = true
			}
			res, err = h.nav.SelectInFile(ctx, s.Filter, s.Direction, loop)
		}

		if err != nil && (!res.Found || errors.Is(err, navigator.ErrOpenDocument)) {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return handler.Cancelled().WithError(err)
			}
			return handler.Error(err)
		}
		if !res.Found {
			return handler.NoOpWithMessage(fmt.Sprintf("no %s markers", s.Filter))
		}

		// Presentation errors do not undo the selection.
		return Success(res).WithError(err)
	}
}

// Success builds the result reported for a found marker.
func Success(res navigator.Result) handler.Result {
	m := res.Marker
	return handler.Success().
		WithMessage(m.FormatWithLocation()).
		WithData(DataDocument, string(m.Document)).
		WithData(DataLine, m.Start.Line).
		WithData(DataColumn, m.Start.Column).
		WithData(DataSeverity, m.Severity.String()).
		WithData(DataMessage, m.Message).
		WithData(DataMoved, res.Moved).
		WithData(DataAcrossFiles, res.AcrossFiles)
}
