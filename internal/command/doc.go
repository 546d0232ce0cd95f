// Package command exposes marker navigation as dispatchable actions.
//
// The "problems" namespace registers eight actions:
//
//	problems.next.error          problems.next.warning
//	problems.prev.error          problems.prev.warning
//	problems.nextInFiles.error   problems.nextInFiles.warning
//	problems.prevInFiles.error   problems.prevInFiles.warning
//
// ".error" actions consider errors only; ".warning" actions consider errors
// and warnings. In-file actions wrap around the active document.
package command
