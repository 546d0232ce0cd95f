// Package handler provides the handler interface and types for action dispatch.
package handler

import (
	"context"
	"slices"
	"sync"
)

// Func handles one action.
type Func func(ctx context.Context, action Action) Result

// NamespaceHandler handles all actions within a namespace.
// A namespace is the prefix before the first dot (e.g., "problems" in
// "problems.next.error").
type NamespaceHandler interface {
	// HandleAction handles an action within this namespace.
	HandleAction(ctx context.Context, action Action) Result

	// CanHandle returns true if this handler can process the action.
	CanHandle(actionName string) bool

	// Namespace returns the namespace prefix.
	Namespace() string

	// Actions returns the full names of the handled actions.
	Actions() []string
}

// BaseNamespaceHandler provides a map-backed NamespaceHandler.
type BaseNamespaceHandler struct {
	mu        sync.RWMutex
	namespace string
	actions   map[string]Func
}

// NewBaseNamespaceHandler creates a new BaseNamespaceHandler.
func NewBaseNamespaceHandler(namespace string) *BaseNamespaceHandler {
	return &BaseNamespaceHandler{
		namespace: namespace,
		actions:   make(map[string]Func),
	}
}

// Register registers a handler function for a full action name.
func (h *BaseNamespaceHandler) Register(actionName string, fn Func) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions[actionName] = fn
}

// Namespace implements NamespaceHandler.
func (h *BaseNamespaceHandler) Namespace() string {
	return h.namespace
}

// CanHandle implements NamespaceHandler.
func (h *BaseNamespaceHandler) CanHandle(actionName string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.actions[actionName]
	return ok
}

// Actions implements NamespaceHandler.
func (h *BaseNamespaceHandler) Actions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.actions))
	for name := range h.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HandleAction implements NamespaceHandler.
func (h *BaseNamespaceHandler) HandleAction(ctx context.Context, action Action) Result {
	h.mu.RLock()
	fn, ok := h.actions[action.Name]
	h.mu.RUnlock()

	if !ok {
		return Errorf("unknown action in namespace %s: %s", h.namespace, action.Name)
	}
	return fn(ctx, action)
}
