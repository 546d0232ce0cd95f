package lua

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// safeModules can be required from scripts.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// Sandbox restricts a Lua state to safe operations and counts API calls.
type Sandbox struct {
	L *lua.LState

	callLimit int64
	callCount int64
	limitHit  atomic.Bool

	output  io.Writer
	modules map[string]lua.LValue
}

// NewSandbox creates a sandbox. A callLimit of 0 disables the limit.
func NewSandbox(L *lua.LState, callLimit int64, output io.Writer) *Sandbox {
	return &Sandbox{
		L:         L,
		callLimit: callLimit,
		output:    output,
		modules:   make(map[string]lua.LValue),
	}
}

// Install removes file loading and replaces print and require.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
	s.installRequire()
}

// installPrint sends print output to the sandbox writer.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if s.output != nil {
			fmt.Fprintln(s.output, strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// installRequire allows the safe built-in modules and provided modules only.
func (s *Sandbox) installRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)

		if safeModules[name] {
			L.Push(L.GetGlobal(name))
			return 1
		}
		if mod, ok := s.modules[name]; ok {
			L.Push(mod)
			return 1
		}

		L.RaiseError("module %q is not available", name)
		return 0
	}))
}

// Provide makes mod available to require(name).
func (s *Sandbox) Provide(name string, mod lua.LValue) {
	s.modules[name] = mod
}

// ResetCallCount resets the call counter.
func (s *Sandbox) ResetCallCount() {
	atomic.StoreInt64(&s.callCount, 0)
	s.limitHit.Store(false)
}

// LimitHit reports whether the limit was exceeded since the last reset.
func (s *Sandbox) LimitHit() bool {
	return s.limitHit.Load()
}

// CallCount returns the number of counted calls.
func (s *Sandbox) CallCount() int64 {
	return atomic.LoadInt64(&s.callCount)
}

// CountCall records one API call and reports whether the limit is exceeded.
func (s *Sandbox) CountCall() bool {
	count := atomic.AddInt64(&s.callCount, 1)
	if s.callLimit > 0 && count > s.callLimit {
		s.limitHit.Store(true)
		return true
	}
	return false
}
