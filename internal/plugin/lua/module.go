package lua

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/problemnav/internal/logging"
	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

// ModuleName is the name scripts require.
const ModuleName = "problems"

// Module exposes a navigator and its workspace to Lua.
type Module struct {
	nav       *navigator.Navigator
	provider  navigator.Provider
	workspace navigator.Workspace
	logger    *logging.Logger

	// ctx is the context of the running script.
	ctx context.Context
}

// NewModule creates the problems module.
func NewModule(nav *navigator.Navigator, provider navigator.Provider, workspace navigator.Workspace, logger *logging.Logger) *Module {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Module{
		nav:       nav,
		provider:  provider,
		workspace: workspace,
		logger:    logger.WithComponent("lua"),
		ctx:       context.Background(),
	}
}

// Install registers the module in s, both as a global and for require.
func (m *Module) Install(s *State) {
	L := s.L
	mod := L.NewTable()

	fns := map[string]lua.LGFunction{
		"next":          m.navigate(s, navigator.Next, false),
		"prev":          m.navigate(s, navigator.Prev, false),
		"next_in_files": m.navigate(s, navigator.Next, true),
		"prev_in_files": m.navigate(s, navigator.Prev, true),
		"cursor":        m.counted(s, m.cursor),
		"set_cursor":    m.counted(s, m.setCursor),
		"open":          m.counted(s, m.open),
		"active":        m.counted(s, m.active),
		"markers":       m.counted(s, m.markers),
		"log":           m.log,
	}
	for name, fn := range fns {
		L.SetField(mod, name, L.NewFunction(fn))
	}

	L.SetGlobal(ModuleName, mod)
	s.sandbox.Provide(ModuleName, mod)
}

// counted wraps fn with the sandbox call limit.
func (m *Module) counted(s *State, fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		if s.sandbox.CountCall() {
			L.RaiseError("%s", ErrCallLimit.Error())
			return 0
		}
		return fn(L)
	}
}

func (m *Module) navigate(s *State, dir navigator.Direction, acrossFiles bool) lua.LGFunction {
	return m.counted(s, func(L *lua.LState) int {
		filter := checkFilter(L, 1)

		var (
			res navigator.Result
			err error
		)
		if acrossFiles {
			res, err = m.nav.SelectAcrossFiles(m.scriptContext(L), filter, dir)
		} else {
			res, err = m.nav.SelectInFile(m.scriptContext(L), filter, dir, L.OptBool(2, true))
		}
		if err != nil {
			m.logger.Warn("%s: %v", dir, err)
		}

		if !res.Found {
			L.Push(lua.LFalse)
			return 1
		}
		L.Push(lua.LTrue)
		L.Push(lua.LString(res.Marker.Document))
		L.Push(lua.LNumber(res.Marker.Start.Line + 1))
		L.Push(lua.LNumber(res.Marker.Start.Column + 1))
		return 4
	})
}

func (m *Module) scriptContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return m.ctx
}

// cursor returns doc, line, col of the active editor, or nil.
func (m *Module) cursor(L *lua.LState) int {
	ed, ok := m.workspace.ActiveEditor()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	pos := ed.Cursor()
	L.Push(lua.LString(ed.Document()))
	L.Push(lua.LNumber(pos.Line + 1))
	L.Push(lua.LNumber(pos.Column + 1))
	return 3
}

// setCursor moves the cursor of the active editor. Returns false when there
// is no active editor.
func (m *Module) setCursor(L *lua.LState) int {
	line := L.CheckInt(1)
	col := L.OptInt(2, 1)
	if line < 1 || col < 1 {
		L.ArgError(1, "line and column are 1-based")
		return 0
	}

	ed, ok := m.workspace.ActiveEditor()
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	ed.SetSelection(marker.Pos(line-1, col-1))
	L.Push(lua.LTrue)
	return 1
}

// open makes doc the active editor. Returns true, or false and a message.
func (m *Module) open(L *lua.LState) int {
	doc := marker.DocumentID(L.CheckString(1))
	if _, err := m.workspace.OpenAndShow(m.scriptContext(L), doc); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// active returns the active document or nil.
func (m *Module) active(L *lua.LState) int {
	ed, ok := m.workspace.ActiveEditor()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(ed.Document()))
	return 1
}

// markers returns the markers of doc (default: active document) matching
// the severity argument as a list of tables.
func (m *Module) markers(L *lua.LState) int {
	var doc marker.DocumentID
	if L.GetTop() >= 1 && L.Get(1) != lua.LNil {
		doc = marker.DocumentID(L.CheckString(1))
	} else if ed, ok := m.workspace.ActiveEditor(); ok {
		doc = ed.Document()
	}
	filter := checkFilter(L, 2)

	list := L.NewTable()
	for _, mk := range marker.Sorted(filter.Apply(m.provider.Markers(doc))) {
		t := L.NewTable()
		t.RawSetString("line", lua.LNumber(mk.Start.Line+1))
		t.RawSetString("col", lua.LNumber(mk.Start.Column+1))
		t.RawSetString("severity", lua.LString(mk.Severity.String()))
		t.RawSetString("message", lua.LString(mk.Message))
		t.RawSetString("source", lua.LString(mk.Source))
		list.Append(t)
	}
	L.Push(list)
	return 1
}

func (m *Module) log(L *lua.LState) int {
	m.logger.Info("%s", L.CheckString(1))
	return 0
}

// checkFilter reads an optional "error"/"warning" argument.
func checkFilter(L *lua.LState, n int) marker.SeverityFilter {
	name := L.OptString(n, "error")
	filter, ok := marker.ParseSeverityFilter(name)
	if !ok {
		L.ArgError(n, `expected "error" or "warning"`)
	}
	return filter
}
