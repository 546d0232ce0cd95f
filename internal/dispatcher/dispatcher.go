// Package dispatcher routes named actions to namespace handlers.
package dispatcher

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/problemnav/internal/dispatcher/handler"
	"github.com/dshills/problemnav/internal/logging"
)

// PostDispatchHook runs after every dispatch with the final result.
type PostDispatchHook func(action handler.Action, result handler.Result)

// Dispatcher routes actions to handlers.
type Dispatcher struct {
	mu sync.RWMutex

	router    *Router
	metrics   *Metrics
	logger    *logging.Logger
	postHooks []PostDispatchHook

	recoverFromPanic bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics enables dispatch metrics.
func WithMetrics() Option {
	return func(d *Dispatcher) {
		d.metrics = NewMetrics()
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithPanicRecovery controls whether handler panics become error results.
// Enabled by default.
func WithPanicRecovery(enabled bool) Option {
	return func(d *Dispatcher) {
		d.recoverFromPanic = enabled
	}
}

// New creates a dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		router:           NewRouter(),
		logger:           logging.Nop(),
		recoverFromPanic: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("dispatcher")
	return d
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h)
}

// AddPostHook adds a hook run after every dispatch.
func (d *Dispatcher) AddPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// Dispatch executes an action synchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, action handler.Action) handler.Result {
	start := time.Now()

	var result handler.Result
	if h := d.router.Route(action.Name); h == nil {
		result = handler.Errorf("no handler for action: %s", action.Name)
	} else if d.recoverFromPanic {
		result = d.executeWithRecovery(ctx, h, action)
	} else {
		result = h.HandleAction(ctx, action)
	}

	log := d.logger.WithFields(map[string]any{"action": action.Name, "status": result.Status})
	if result.Error != nil {
		log.Warn("%v", result.Error)
	} else {
		log.Debug("dispatched")
	}

	d.mu.RLock()
	hooks := d.postHooks
	d.mu.RUnlock()
	for _, hook := range hooks {
		hook(action, result)
	}

	if d.metrics != nil {
		d.metrics.RecordDispatch(action.Name, time.Since(start), result.Status)
	}

	return result
}

func (d *Dispatcher) executeWithRecovery(ctx context.Context, h handler.NamespaceHandler, action handler.Action) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			result = handler.Errorf("handler panic for %s: %v\n%s", action.Name, r, string(stack[:n]))

			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()

	return h.HandleAction(ctx, action)
}

// CanDispatch reports whether an action has a handler.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	return d.router.Route(actionName) != nil
}

// Actions returns every dispatchable action name, sorted.
func (d *Dispatcher) Actions() []string {
	return d.router.Actions()
}

// Router returns the router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector, or nil when disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}
