package navigator

import "errors"

var (
	// ErrOpenDocument indicates the workspace could not open the selected document.
	ErrOpenDocument = errors.New("open document")

	// ErrPresentation indicates the presenter failed after a marker was selected.
	// The selection itself has already been applied when this is returned.
	ErrPresentation = errors.New("present marker")
)
