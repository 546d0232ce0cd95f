package dispatcher

import (
	"slices"
	"strings"
	"sync"

	"github.com/dshills/problemnav/internal/dispatcher/handler"
)

// Router routes actions to handlers using namespace prefixes.
type Router struct {
	mu         sync.RWMutex
	namespaces map[string]handler.NamespaceHandler
}

// NewRouter creates a new action router.
func NewRouter() *Router {
	return &Router{
		namespaces: make(map[string]handler.NamespaceHandler),
	}
}

// RegisterNamespace registers h for every action in its namespace,
// replacing any previous handler.
func (r *Router) RegisterNamespace(h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[h.Namespace()] = h
}

// UnregisterNamespace removes a namespace handler.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// Route finds the handler for an action. Returns nil if none can handle it.
func (r *Router) Route(actionName string) handler.NamespaceHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.namespaces[ExtractNamespace(actionName)]
	if !ok || !h.CanHandle(actionName) {
		return nil
	}
	return h
}

// Namespaces returns all registered namespace names, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Actions returns every routable action name, sorted.
func (r *Router) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, h := range r.namespaces {
		names = append(names, h.Actions()...)
	}
	slices.Sort(names)
	return names
}

// ExtractNamespace extracts the namespace from "namespace.action" format.
// Returns empty string if no namespace separator is found.
func ExtractNamespace(actionName string) string {
	ns, _, ok := strings.Cut(actionName, ".")
	if !ok {
		return ""
	}
	return ns
}
