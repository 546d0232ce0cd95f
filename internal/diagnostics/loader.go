package diagnostics

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/dshills/problemnav/internal/logging"
	"github.com/dshills/problemnav/internal/marker"
)

// Loader publishes report files into a Store. Reloading a report clears the
// documents it no longer mentions.
type Loader struct {
	mu     sync.Mutex
	store  *Store
	owned  map[string][]marker.DocumentID
	logger *logging.Logger
}

// NewLoader creates a loader publishing into store.
func NewLoader(store *Store, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loader{
		store:  store,
		owned:  make(map[string][]marker.DocumentID),
		logger: logger.WithComponent("diagnostics"),
	}
}

// Load reads path and publishes its documents.
func (l *Loader) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	report, err := ReadReport(abs)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	docs := make([]marker.DocumentID, 0, len(report))
	for doc, markers := range report {
		l.store.Publish(doc, markers)
		docs = append(docs, doc)
	}

	for _, doc := range l.owned[abs] {
		if _, ok := report[doc]; !ok {
			l.store.ClearDocument(doc)
		}
	}
	l.owned[abs] = docs

	l.logger.WithField("report", abs).Debug("loaded %d documents", len(docs))
	return nil
}

// Paths returns the absolute paths of loaded reports, sorted.
func (l *Loader) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	paths := make([]string, 0, len(l.owned))
	for p := range l.owned {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
