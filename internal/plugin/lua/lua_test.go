package lua

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/problemnav/internal/diagnostics"
	"github.com/dshills/problemnav/internal/host/memory"
	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

func newRunner(t *testing.T, out *bytes.Buffer, opts ...StateOption) (*Runner, *memory.Host) {
	t.Helper()

	store := diagnostics.NewStore()
	store.Publish("a.go", []marker.Marker{
		{Start: marker.Pos(1, 0), Severity: marker.SeverityError, Message: "first"},
		{Start: marker.Pos(5, 2), Severity: marker.SeverityWarning, Message: "warn"},
	})
	store.Publish("b.go", []marker.Marker{
		{Start: marker.Pos(3, 4), Severity: marker.SeverityError, Message: "second"},
	})

	host := memory.New(memory.WithUnknownDocuments())
	nav := navigator.New(store, host, navigator.WithPresenter(host))

	r := NewRunner(nav, store, host, nil, append([]StateOption{WithOutput(out)}, opts...)...)
	t.Cleanup(r.Close)
	return r, host
}

func TestRunner_Navigate(t *testing.T) {
	var out bytes.Buffer
	r, host := newRunner(t, &out)

	err := r.RunString(context.Background(), `
local problems = require("problems")
assert(problems.active() == nil)
assert(problems.open("a.go"))
problems.set_cursor(3, 1)

local found, doc, line, col = problems.next()
print(found, doc, line, col)

found, doc, line, col = problems.next_in_files("error")
print(found, doc, line, col)

print(problems.cursor())
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}

	// next() wraps within a.go back to line 2, next_in_files() moves to b.go.
	want := "true\ta.go\t2\t1\ntrue\tb.go\t4\t5\nb.go\t4\t5\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}

	doc, pos, _ := host.Active()
	if doc != "b.go" || pos != marker.Pos(3, 4) {
		t.Errorf("host active: got %s:%s", doc, pos)
	}
}

func TestRunner_LoopAndWarnings(t *testing.T) {
	var out bytes.Buffer
	r, _ := newRunner(t, &out)

	err := r.RunString(context.Background(), `
problems.open("a.go")
problems.set_cursor(1, 1)
local seen = {}
for i = 1, 3 do
  local found, doc, line = problems.next("warning")
  seen[#seen + 1] = line
end
print(table.concat(seen, ","))
print(problems.next("error", false))
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output: %q", out.String())
	}
	if lines[0] != "2,6,2" {
		t.Errorf("warning walk: got %s, want 2,6,2", lines[0])
	}
	if lines[1] != "false" {
		t.Errorf("next without loop past the last error: got %s, want false", lines[1])
	}
}

func TestRunner_Markers(t *testing.T) {
	var out bytes.Buffer
	r, _ := newRunner(t, &out)

	err := r.RunString(context.Background(), `
problems.open("a.go")
local all = problems.markers(nil, "warning")
local errs = problems.markers("a.go")
print(#all, #errs, all[2].severity, all[2].line, all[2].col, errs[1].message)
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "2\t1\tWarning\t6\t3\tfirst" {
		t.Errorf("output: %q", got)
	}
}

func TestRunner_BadArguments(t *testing.T) {
	var out bytes.Buffer
	r, _ := newRunner(t, &out)

	if err := r.RunString(context.Background(), `problems.next("fatal")`); err == nil {
		t.Error("unknown severity should fail")
	}
	if err := r.RunString(context.Background(), `problems.set_cursor(0, 1)`); err == nil {
		t.Error("0 line should fail")
	}

	err := r.RunString(context.Background(), `
print(problems.set_cursor(1, 1))
print(problems.open("nowhere.go"))
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "false\ntrue" {
		t.Errorf("output: %q", got)
	}
}

func TestSandbox(t *testing.T) {
	var out bytes.Buffer
	r, _ := newRunner(t, &out)

	for _, code := range []string{
		`dofile("x.lua")`,
		`loadstring("return 1")()`,
		`require("os")`,
		`require("io")`,
		`os.exit(1)`,
		`io.write("x")`,
	} {
		if err := r.RunString(context.Background(), code); err == nil {
			t.Errorf("%s should fail in the sandbox", code)
		}
	}

	if err := r.RunString(context.Background(), `local s = require("string"); print(s.upper("ok"))`); err != nil {
		t.Errorf("string module should be available: %v", err)
	}
	if strings.TrimSpace(out.String()) != "OK" {
		t.Errorf("output: %q", out.String())
	}
}

func TestState_Timeout(t *testing.T) {
	var out bytes.Buffer
	r, _ := newRunner(t, &out, WithExecutionTimeout(50*time.Millisecond))

	err := r.RunString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("got %v, want ErrExecutionTimeout", err)
	}
}

func TestState_CallLimit(t *testing.T) {
	var out bytes.Buffer
	r, _ := newRunner(t, &out, WithCallLimit(5))

	err := r.RunString(context.Background(), `for i = 1, 10 do problems.active() end`)
	if !errors.Is(err, ErrCallLimit) {
		t.Errorf("got %v, want ErrCallLimit", err)
	}

	// The counter resets per run.
	if err := r.RunString(context.Background(), `problems.active()`); err != nil {
		t.Errorf("second run: %v", err)
	}
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	s.Close()
	s.Close()

	if err := s.DoString(context.Background(), "x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("got %v, want ErrStateClosed", err)
	}
}

func TestRunner_RunFile(t *testing.T) {
	var out bytes.Buffer
	r, _ := newRunner(t, &out)

	path := filepath.Join(t.TempDir(), "walk.lua")
	script := `
problems.open("b.go")
local n = 0
while n < 10 do
  local found, doc, line = problems.next_in_files()
  if not found then break end
  print(doc .. ":" .. line)
  n = n + 1
  if doc == "b.go" then break end
end
`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "b.go:4" {
		t.Errorf("output: %q", got)
	}
}
