package handler

import (
	"context"
	"errors"
	"testing"
)

func TestBaseNamespaceHandler(t *testing.T) {
	h := NewBaseNamespaceHandler("problems")
	h.Register("problems.next.error", func(_ context.Context, a Action) Result {
		return Success().WithData("name", a.Name)
	})
	h.Register("problems.prev.error", func(context.Context, Action) Result {
		return NoOp()
	})

	if h.Namespace() != "problems" {
		t.Errorf("Namespace: got %q, want problems", h.Namespace())
	}
	if !h.CanHandle("problems.next.error") {
		t.Error("expected CanHandle for registered action")
	}
	if h.CanHandle("problems.next.warning") {
		t.Error("unexpected CanHandle for unregistered action")
	}

	actions := h.Actions()
	if len(actions) != 2 || actions[0] != "problems.next.error" || actions[1] != "problems.prev.error" {
		t.Errorf("Actions: got %v", actions)
	}

	result := h.HandleAction(context.Background(), NewAction("problems.next.error"))
	if !result.IsOK() || result.GetDataString("name") != "problems.next.error" {
		t.Errorf("HandleAction: got %+v", result)
	}

	result = h.HandleAction(context.Background(), NewAction("problems.unknown"))
	if !result.IsError() {
		t.Errorf("unknown action: got status %v, want error", result.Status)
	}
}

func TestResult(t *testing.T) {
	r := Success().WithMessage("done").WithData("line", 3).WithData("found", true)
	if r.Message != "done" {
		t.Errorf("Message: got %q", r.Message)
	}
	if r.GetDataInt("line") != 3 || !r.GetDataBool("found") {
		t.Errorf("Data: got %v", r.Data)
	}
	if r.GetDataString("missing") != "" || r.GetDataInt("missing") != 0 {
		t.Error("missing keys should yield zero values")
	}

	base := Success().WithData("a", 1)
	derived := base.WithData("b", 2)
	if _, ok := base.GetData("b"); ok {
		t.Error("WithData must not modify the receiver's map")
	}
	if _, ok := derived.GetData("a"); !ok {
		t.Error("WithData should keep existing data")
	}

	errResult := Error(errors.New("boom"))
	if !errResult.IsError() || errResult.Error == nil {
		t.Errorf("Error: got %+v", errResult)
	}

	if got := Errorf("bad %d", 1).Error.Error(); got != "bad 1" {
		t.Errorf("Errorf: got %q", got)
	}
}

func TestResultStatus_String(t *testing.T) {
	tests := []struct {
		status ResultStatus
		want   string
	}{
		{StatusOK, "ok"},
		{StatusNoOp, "no-op"},
		{StatusError, "error"},
		{StatusCancelled, "cancelled"},
		{ResultStatus(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String(): got %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestAction_Args(t *testing.T) {
	a := NewAction("problems.open").WithArg("doc", "a.go").WithArg("line", float64(4)).WithArg("loop", true)

	if s, ok := a.GetString("doc"); !ok || s != "a.go" {
		t.Errorf("GetString: got %q, %v", s, ok)
	}
	if n, ok := a.GetInt("line"); !ok || n != 4 {
		t.Errorf("GetInt: got %d, %v", n, ok)
	}
	if b, ok := a.GetBool("loop"); !ok || !b {
		t.Errorf("GetBool: got %v, %v", b, ok)
	}
	if _, ok := a.GetInt("doc"); ok {
		t.Error("GetInt on a string should fail")
	}

	plain := NewAction("x")
	_ = plain.WithArg("k", 1)
	if plain.Args != nil {
		t.Error("WithArg must not modify the receiver")
	}
}
