package command

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/problemnav/internal/diagnostics"
	"github.com/dshills/problemnav/internal/dispatcher"
	"github.com/dshills/problemnav/internal/dispatcher/handler"
	"github.com/dshills/problemnav/internal/host/memory"
	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

func setup(t *testing.T, opts ...memory.Option) (*dispatcher.Dispatcher, *memory.Host) {
	t.Helper()

	store := diagnostics.NewStore()
	store.Publish("a.go", []marker.Marker{
		{Start: marker.Pos(2, 0), Severity: marker.SeverityError, Message: "e1"},
		{Start: marker.Pos(4, 0), Severity: marker.SeverityWarning, Message: "w1"},
		{Start: marker.Pos(8, 0), Severity: marker.SeverityError, Message: "e2"},
	})
	store.Publish("b.go", []marker.Marker{
		{Start: marker.Pos(1, 3), Severity: marker.SeverityError, Message: "e3"},
	})

	host := memory.New(append([]memory.Option{memory.WithUnknownDocuments()}, opts...)...)
	nav := navigator.New(store, host, navigator.WithPresenter(host))

	d := dispatcher.New()
	d.RegisterNamespace(NewHandler(nav))
	return d, host
}

func dispatch(d *dispatcher.Dispatcher, name string) handler.Result {
	return d.Dispatch(context.Background(), handler.NewAction(name))
}

func TestHandler_RegistersAllActions(t *testing.T) {
	d, _ := setup(t)

	actions := d.Actions()
	if len(actions) != 8 {
		t.Fatalf("expected 8 actions, got %v", actions)
	}
	for _, s := range Specs() {
		if !d.CanDispatch(s.Name) {
			t.Errorf("action %s not dispatchable", s.Name)
		}
	}
}

func TestHandler_InFile(t *testing.T) {
	d, host := setup(t)
	if _, err := host.Focus("a.go", marker.Pos(3, 0)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		action   string
		wantLine int
	}{
		{ActionNextError, 8},
		{ActionNextError, 2}, // wraps
		{ActionNextWarning, 4},
		{ActionPrevWarning, 2},
		{ActionPrevError, 8}, // wraps
	}

	for i, tt := range tests {
		result := dispatch(d, tt.action)
		if !result.IsOK() {
			t.Fatalf("step %d %s: got status %v (%v)", i, tt.action, result.Status, result.Error)
		}
		if got := result.GetDataInt(DataLine); got != tt.wantLine {
			t.Errorf("step %d %s: got line %d, want %d", i, tt.action, got, tt.wantLine)
		}
		if result.GetDataString(DataDocument) != "a.go" {
			t.Errorf("step %d: document %q", i, result.GetDataString(DataDocument))
		}
	}
}

func TestHandler_InFiles(t *testing.T) {
	d, host := setup(t)
	if _, err := host.Focus("a.go", marker.Pos(9, 0)); err != nil {
		t.Fatal(err)
	}

	result := dispatch(d, ActionNextInFilesError)
	if !result.IsOK() {
		t.Fatalf("got %v (%v)", result.Status, result.Error)
	}
	if result.GetDataString(DataDocument) != "b.go" || !result.GetDataBool(DataAcrossFiles) {
		t.Errorf("expected move into b.go, got %v", result.Data)
	}
	if result.GetDataString(DataSeverity) != "Error" || result.GetDataString(DataMessage) != "e3" {
		t.Errorf("marker data: got %v", result.Data)
	}

	doc, pos, _ := host.Active()
	if doc != "b.go" || pos != marker.Pos(1, 3) {
		t.Errorf("host active: got %s:%s", doc, pos)
	}
}

func TestHandler_LoopArg(t *testing.T) {
	d, host := setup(t)
	if _, err := host.Focus("a.go", marker.Pos(9, 0)); err != nil {
		t.Fatal(err)
	}

	noLoop := handler.NewAction(ActionNextError).WithArg(ArgLoop, false)
	if result := d.Dispatch(context.Background(), noLoop); result.Status != handler.StatusNoOp {
		t.Errorf("loop=false past the last error: got %v, want no-op", result.Status)
	}

	result := dispatch(d, ActionNextError)
	if !result.IsOK() || result.GetDataInt(DataLine) != 2 {
		t.Errorf("default loop: got %v line %d, want line 2", result.Status, result.GetDataInt(DataLine))
	}
}

func TestHandler_NotFoundIsNoOp(t *testing.T) {
	d, host := setup(t)

	// No active editor.
	if result := dispatch(d, ActionNextError); result.Status != handler.StatusNoOp {
		t.Errorf("no editor: got %v, want no-op", result.Status)
	}

	if _, err := host.Focus("clean.go", marker.Pos(0, 0)); err != nil {
		t.Fatal(err)
	}
	result := dispatch(d, ActionPrevWarning)
	if result.Status != handler.StatusNoOp {
		t.Errorf("clean document: got %v, want no-op", result.Status)
	}
	if result.Message != "no error+warning markers" {
		t.Errorf("no-op message: got %q", result.Message)
	}
}

func TestHandler_CancelledContext(t *testing.T) {
	d, host := setup(t)
	if _, err := host.Focus("a.go", marker.Pos(3, 0)); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := d.Dispatch(ctx, handler.NewAction(ActionNextError))
	if result.Status != handler.StatusCancelled {
		t.Fatalf("got %v, want cancelled", result.Status)
	}
	if !errors.Is(result.Error, context.Canceled) {
		t.Errorf("error should be context.Canceled, got %v", result.Error)
	}
	if _, pos, _ := host.Active(); pos != marker.Pos(3, 0) {
		t.Errorf("cancelled call moved the cursor to %v", pos)
	}
}

func TestHandler_OpenErrorIsError(t *testing.T) {
	d, host := setup(t, memory.WithOpenError(func(doc marker.DocumentID) error {
		if doc == "b.go" {
			return errors.New("permission denied")
		}
		return nil
	}))
	if _, err := host.Focus("a.go", marker.Pos(9, 0)); err != nil {
		t.Fatal(err)
	}

	result := dispatch(d, ActionNextInFilesError)
	if !result.IsError() {
		t.Fatalf("got %v, want error", result.Status)
	}
	if !errors.Is(result.Error, navigator.ErrOpenDocument) {
		t.Errorf("error should wrap ErrOpenDocument: %v", result.Error)
	}
}

func TestLookupAndActionName(t *testing.T) {
	for _, s := range Specs() {
		got, ok := Lookup(s.Name)
		if !ok || got.Name != s.Name {
			t.Errorf("Lookup(%s) failed", s.Name)
		}
		if name := ActionName(s.Filter, s.Direction, s.AcrossFiles); name != s.Name {
			t.Errorf("ActionName: got %s, want %s", name, s.Name)
		}
	}

	if _, ok := Lookup("problems.sideways.error"); ok {
		t.Error("unexpected Lookup hit")
	}
}
