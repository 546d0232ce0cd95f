// Package lua runs navigation scripts in a sandboxed gopher-lua state.
//
// Scripts reach the navigator through the "problems" module:
//
//	local problems = require("problems")
//	problems.open("main.go")
//	problems.set_cursor(1, 1)
//	while true do
//	  local found, doc, line, col = problems.next_in_files("warning")
//	  if not found then break end
//	  print(doc, line, col)
//	end
//
// Lines and columns are 1-based on the Lua side. Severity arguments are
// "error" (the default, errors only) or "warning" (errors and warnings).
//
// Only the base, table, string and math libraries are available; io, os,
// debug and file loading are removed.
package lua
