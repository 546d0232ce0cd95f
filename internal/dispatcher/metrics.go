package dispatcher

import (
	"sync"
	"time"

	"github.com/dshills/problemnav/internal/dispatcher/handler"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	actions map[string]*ActionMetrics

	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64
}

// ActionMetrics holds metrics for one action.
type ActionMetrics struct {
	Name          string
	DispatchCount uint64
	NoOpCount     uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastStatus    handler.ResultStatus
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{actions: make(map[string]*ActionMetrics)}
}

// RecordDispatch records a dispatch.
func (m *Metrics) RecordDispatch(actionName string, duration time.Duration, status handler.ResultStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	if status == handler.StatusError {
		m.totalErrors++
	}

	am := m.actions[actionName]
	if am == nil {
		am = &ActionMetrics{Name: actionName}
		m.actions[actionName] = am
	}
	am.DispatchCount++
	am.TotalDuration += duration
	am.MaxDuration = max(am.MaxDuration, duration)
	am.LastStatus = status
	switch status {
	case handler.StatusNoOp:
		am.NoOpCount++
	case handler.StatusError:
		am.ErrorCount++
	}
}

// RecordPanic records a recovered handler panic.
func (m *Metrics) RecordPanic(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// Action returns a copy of the metrics of one action.
func (m *Metrics) Action(name string) (ActionMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	am, ok := m.actions[name]
	if !ok {
		return ActionMetrics{}, false
	}
	return *am, true
}

// Totals returns the global counters.
func (m *Metrics) Totals() (dispatches, errors, panics uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches, m.totalErrors, m.totalPanics
}
