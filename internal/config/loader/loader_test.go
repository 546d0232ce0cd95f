package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func TestTOMLLoader_Load(t *testing.T) {
	fsys := memFS{"/cfg.toml": `
[navigation]
multiSeverityHandling = "marker"
hoverSettleDelay = "200ms"

[editor]
smoothScrolling = true
`}

	config, err := NewTOMLLoaderWithFS(fsys, "/cfg.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetByPath(config, "navigation.multiSeverityHandling"); !ok || val != "marker" {
		t.Errorf("navigation.multiSeverityHandling = %v, want marker", val)
	}
	if val, ok := GetByPath(config, "editor.smoothScrolling"); !ok || val != true {
		t.Errorf("editor.smoothScrolling = %v, want true", val)
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(memFS{}, "/missing.toml").Load()
	if err != nil {
		t.Errorf("missing file should not error: %v", err)
	}
	if config != nil {
		t.Errorf("missing file: got %v, want nil", config)
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	fsys := memFS{"/bad.toml": "[navigation\nkey = 1\n"}

	_, err := NewTOMLLoaderWithFS(fsys, "/bad.toml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Path != "/bad.toml" {
		t.Errorf("Path: got %q, want /bad.toml", pe.Path)
	}
	if pe.Line == 0 {
		t.Error("Line should be set from the decoder position")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[logging]\nlevel = \"debug\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if val, _ := GetByPath(config, "logging.level"); val != "debug" {
		t.Errorf("logging.level = %v, want debug", val)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor":  map[string]any{"smoothScrolling": false, "other": 1},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"editor":  map[string]any{"smoothScrolling": true},
		"logging": "flat",
	}

	got := DeepMerge(dst, src)

	if val, _ := GetByPath(got, "editor.smoothScrolling"); val != true {
		t.Errorf("editor.smoothScrolling = %v, want true", val)
	}
	if val, _ := GetByPath(got, "editor.other"); val != 1 {
		t.Errorf("editor.other = %v, want 1", val)
	}
	if got["logging"] != "flat" {
		t.Errorf("non-map src should replace, got %v", got["logging"])
	}

	if DeepMerge(nil, nil) == nil {
		t.Error("DeepMerge(nil, nil) should return an empty map")
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{"a": map[string]any{"b": 1}}
	dst := Clone(src)
	SetByPath(dst, "a.b", 2)

	if val, _ := GetByPath(src, "a.b"); val != 1 {
		t.Errorf("Clone should deep copy, source changed to %v", val)
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestGetByPath(t *testing.T) {
	data := map[string]any{"a": map[string]any{"b": "c"}, "x": 1}

	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"a.b", "c", true},
		{"x", 1, true},
		{"a.missing", nil, false},
		{"x.y", nil, false},
		{"nope", nil, false},
	}

	for _, tt := range tests {
		got, ok := GetByPath(data, tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("GetByPath(%q): got (%v, %v), want (%v, %v)", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
