package navigator

import (
	"context"

	"github.com/dshills/problemnav/internal/marker"
)

// Provider supplies markers. It is queried on every navigation call and the
// navigator never caches or mutates what it returns.
type Provider interface {
	// Markers returns the markers of a single document.
	Markers(doc marker.DocumentID) []marker.Marker

	// AllMarkers returns the markers of every document in the workspace.
	AllMarkers() map[marker.DocumentID][]marker.Marker
}

// Editor is a document shown in the host with a cursor.
type Editor interface {
	// Document returns the ID of the document shown in the editor.
	Document() marker.DocumentID

	// Cursor returns the start of the current selection.
	Cursor() marker.Position

	// SetSelection collapses the selection to pos.
	SetSelection(pos marker.Position)

	// RevealIfOutsideViewport scrolls pos into view if it is not visible.
	// It returns true if the view scrolled.
	RevealIfOutsideViewport(pos marker.Position) bool
}

// Workspace gives access to the active editor and opens documents.
type Workspace interface {
	// ActiveEditor returns the focused editor, or false if there is none.
	ActiveEditor() (Editor, bool)

	// OpenAndShow opens doc, makes it the active editor and returns it.
	OpenAndShow(ctx context.Context, doc marker.DocumentID) (Editor, error)
}

// Presenter surfaces a selected marker in the host UI.
type Presenter interface {
	// CloseMarkerNavigation dismisses any marker widget left from a previous call.
	CloseMarkerNavigation(ctx context.Context) error

	// ShowMarkerNavigation opens the host's marker widget at the cursor.
	ShowMarkerNavigation(ctx context.Context, dir Direction, acrossFiles bool) error

	// ShowHover shows the hover for the cursor position.
	ShowHover(ctx context.Context) error
}
