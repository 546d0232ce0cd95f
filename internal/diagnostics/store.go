package diagnostics

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dshills/problemnav/internal/marker"
)

// Store holds the current markers of every document.
type Store struct {
	mu sync.RWMutex

	docs map[marker.DocumentID]*DocumentMarkers

	// Configuration
	maxPerDocument int
	enabledSources map[string]bool // nil means all enabled
	debounceDelay  time.Duration

	// Change notification, debounced per document. Versions drop callbacks
	// superseded by a newer publish.
	onChange       func(doc marker.DocumentID, markers []marker.Marker)
	pendingNotify  map[marker.DocumentID]*time.Timer
	notifyVersions map[marker.DocumentID]int64
	nextVersion    int64
}

// DocumentMarkers holds the markers of one document with metadata.
type DocumentMarkers struct {
	Document  marker.DocumentID
	Markers   []marker.Marker
	UpdatedAt time.Time
	Version   int

	ErrorCount   int
	WarningCount int
	InfoCount    int
	HintCount    int
}

// Option configures a Store.
type Option func(*Store)

// WithMaxPerDocument limits how many markers are kept per document. Over the
// limit the most severe markers are kept.
func WithMaxPerDocument(n int) Option {
	return func(s *Store) {
		s.maxPerDocument = n
	}
}

// WithEnabledSources keeps only markers from the given sources. Markers with
// no source are always kept.
func WithEnabledSources(sources []string) Option {
	return func(s *Store) {
		s.enabledSources = make(map[string]bool, len(sources))
		for _, src := range sources {
			s.enabledSources[src] = true
		}
	}
}

// WithChangeHandler sets a callback invoked after a document's markers change.
func WithChangeHandler(fn func(doc marker.DocumentID, markers []marker.Marker)) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// WithDebounce sets the delay before the change handler runs.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		s.debounceDelay = d
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		docs:           make(map[marker.DocumentID]*DocumentMarkers),
		maxPerDocument: 1000,
		debounceDelay:  50 * time.Millisecond,
		pendingNotify:  make(map[marker.DocumentID]*time.Timer),
		notifyVersions: make(map[marker.DocumentID]int64),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Publish replaces the markers of doc. Publishing no markers removes the
// document from the store.
func (s *Store) Publish(doc marker.DocumentID, markers []marker.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.filter(doc, markers)
	if s.maxPerDocument > 0 && len(kept) > s.maxPerDocument {
		kept = mostSevere(kept, s.maxPerDocument)
	}
	marker.SortByPosition(kept)

	if len(kept) == 0 {
		delete(s.docs, doc)
	} else {
		dm := &DocumentMarkers{
			Document:  doc,
			Markers:   kept,
			UpdatedAt: time.Now(),
		}
		dm.count()
		if existing, ok := s.docs[doc]; ok {
			dm.Version = existing.Version + 1
		}
		s.docs[doc] = dm
	}

	s.scheduleNotify(doc, kept)
}

// mostSevere keeps the n most severe markers, earlier positions first
// within a severity.
func mostSevere(markers []marker.Marker, n int) []marker.Marker {
	slices.SortStableFunc(markers, func(a, b marker.Marker) int {
		if a.Severity != b.Severity {
			return int(a.Severity) - int(b.Severity)
		}
		return a.Start.Compare(b.Start)
	})
	return markers[:n]
}

// filter applies the source filter and stamps the document on each marker.
func (s *Store) filter(doc marker.DocumentID, markers []marker.Marker) []marker.Marker {
	kept := make([]marker.Marker, 0, len(markers))
	for _, m := range markers {
		if s.enabledSources != nil && m.Source != "" && !s.enabledSources[m.Source] {
			continue
		}
		m.Document = doc
		kept = append(kept, m)
	}
	return kept
}

func (dm *DocumentMarkers) count() {
	for _, m := range dm.Markers {
		switch m.Severity {
		case marker.SeverityError:
			dm.ErrorCount++
		case marker.SeverityWarning:
			dm.WarningCount++
		case marker.SeverityInformation:
			dm.InfoCount++
		case marker.SeverityHint:
			dm.HintCount++
		}
	}
}

// scheduleNotify must be called with s.mu held.
func (s *Store) scheduleNotify(doc marker.DocumentID, markers []marker.Marker) {
	if s.onChange == nil {
		return
	}

	if timer, ok := s.pendingNotify[doc]; ok {
		timer.Stop()
	}

	s.nextVersion++
	version := s.nextVersion
	s.notifyVersions[doc] = version
	snapshot := slices.Clone(markers)

	s.pendingNotify[doc] = time.AfterFunc(s.debounceDelay, func() {
		s.mu.Lock()
		if s.notifyVersions[doc] != version {
			s.mu.Unlock()
			return
		}
		delete(s.pendingNotify, doc)
		handler := s.onChange
		s.mu.Unlock()

		if handler != nil {
			handler(doc, snapshot)
		}
	})
}

// Markers returns a copy of the markers of doc, sorted by position.
func (s *Store) Markers(doc marker.DocumentID) []marker.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dm, ok := s.docs[doc]
	if !ok {
		return nil
	}
	return slices.Clone(dm.Markers)
}

// AllMarkers returns a copy of the markers of every document.
func (s *Store) AllMarkers() map[marker.DocumentID][]marker.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[marker.DocumentID][]marker.Marker, len(s.docs))
	for doc, dm := range s.docs {
		result[doc] = slices.Clone(dm.Markers)
	}
	return result
}

// Document returns full marker info for a document.
func (s *Store) Document(doc marker.DocumentID) (*DocumentMarkers, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dm, ok := s.docs[doc]
	if !ok {
		return nil, false
	}
	cp := *dm
	cp.Markers = slices.Clone(dm.Markers)
	return &cp, true
}

// Documents returns the IDs of documents with markers, sorted.
func (s *Store) Documents() []marker.DocumentID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.docs))
}

// MarkersAt returns the markers of doc whose range contains pos. A marker
// with no end is treated as covering its start only.
func (s *Store) MarkersAt(doc marker.DocumentID, pos marker.Position) []marker.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dm, ok := s.docs[doc]
	if !ok {
		return nil
	}

	var result []marker.Marker
	for _, m := range dm.Markers {
		end := m.End
		if end.Before(m.Start) {
			end = m.Start
		}
		if m.Start.BeforeOrEqual(pos) && pos.BeforeOrEqual(end) {
			result = append(result, m)
		}
	}
	return result
}

// Summary provides an overview of all markers.
type Summary struct {
	Documents           int
	Errors              int
	Warnings            int
	Infos               int
	Hints               int
	DocumentsWithErrors int
}

// Summary returns counts across all documents.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{Documents: len(s.docs)}
	for _, dm := range s.docs {
		sum.Errors += dm.ErrorCount
		sum.Warnings += dm.WarningCount
		sum.Infos += dm.InfoCount
		sum.Hints += dm.HintCount
		if dm.ErrorCount > 0 {
			sum.DocumentsWithErrors++
		}
	}
	return sum
}

// ClearDocument removes the markers of doc.
func (s *Store) ClearDocument(doc marker.DocumentID) {
	s.Publish(doc, nil)
}

// Clear removes all markers and cancels pending notifications.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[marker.DocumentID]*DocumentMarkers)

	for _, timer := range s.pendingNotify {
		timer.Stop()
	}
	s.pendingNotify = make(map[marker.DocumentID]*time.Timer)
	s.notifyVersions = make(map[marker.DocumentID]int64)
}
