package dispatcher_test

import (
	"testing"

	"github.com/dshills/problemnav/internal/dispatcher"
	"github.com/dshills/problemnav/internal/dispatcher/handler"
)

func TestRouter(t *testing.T) {
	r := dispatcher.NewRouter()
	r.RegisterNamespace(newProblems())
	r.RegisterNamespace(handler.NewBaseNamespaceHandler("editor"))

	if got := r.Namespaces(); len(got) != 2 || got[0] != "editor" || got[1] != "problems" {
		t.Errorf("Namespaces: got %v, want [editor problems]", got)
	}

	if h := r.Route("problems.next.error"); h == nil || h.Namespace() != "problems" {
		t.Errorf("Route: got %v, want problems handler", h)
	}
	if h := r.Route("problems.unknown"); h != nil {
		t.Error("Route should reject actions the namespace does not handle")
	}
	if h := r.Route("noNamespace"); h != nil {
		t.Error("Route should reject actions without a namespace")
	}

	if got := r.Actions(); len(got) != 2 {
		t.Errorf("Actions: got %v, want 2 actions", got)
	}

	r.UnregisterNamespace("problems")
	if h := r.Route("problems.next.error"); h != nil {
		t.Error("Route should fail after unregistering")
	}
}
