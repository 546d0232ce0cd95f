package navigator

import "github.com/dshills/problemnav/internal/marker"

// State remembers the location of the last selected marker.
//
// The zero value is an empty state. State is not synchronized; the Navigator
// that owns it serializes access.
type State struct {
	last     marker.Location
	tracking bool
}

// NewState creates an empty state.
func NewState() *State {
	return &State{}
}

// Last returns the tracked location, or false if the state is empty.
func (s *State) Last() (marker.Location, bool) {
	return s.last, s.tracking
}

// Record tracks loc as the last selected marker.
func (s *State) Record(loc marker.Location) {
	s.last = loc
	s.tracking = true
}

// Reset empties the state.
func (s *State) Reset() {
	s.last = marker.Location{}
	s.tracking = false
}

// invalidateFor empties the state if it tracks a document other than doc.
func (s *State) invalidateFor(doc marker.DocumentID) {
	if s.tracking && s.last.Document != doc {
		s.Reset()
	}
}

// String returns "empty" or the tracked location.
func (s *State) String() string {
	if !s.tracking {
		return "empty"
	}
	return s.last.String()
}
