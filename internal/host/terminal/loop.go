package terminal

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/problemnav/internal/command"
	"github.com/dshills/problemnav/internal/dispatcher/handler"
)

// Run initializes the screen and processes events until the user quits or
// ctx is done.
func (h *Host) Run(ctx context.Context, keymap command.Keymap) error {
	if err := h.screen.Init(); err != nil {
		return err
	}
	defer h.screen.Fini()

	stop := context.AfterFunc(ctx, func() {
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	h.Draw()
	for {
		ev := h.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if !h.HandleEvent(ctx, ev, keymap) {
			return nil
		}
		h.Draw()
	}
}

// Refresh asks the event loop to redraw, e.g. after markers changed.
// It is safe to call from any goroutine.
func (h *Host) Refresh() {
	_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// HandleEvent processes one event. It returns false when the user quits.
func (h *Host) HandleEvent(ctx context.Context, ev tcell.Event, keymap command.Keymap) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return h.handleKey(ctx, e, keymap)
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

func (h *Host) handleKey(ctx context.Context, ev *tcell.EventKey, keymap command.Keymap) bool {
	ed := h.activeEditor()

	switch ev.Key() {
	case tcell.KeyEscape:
		_ = h.CloseMarkerNavigation(ctx)
		return true
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		if ed != nil {
			ed.move(-1)
		}
		return true
	case tcell.KeyDown:
		if ed != nil {
			ed.move(1)
		}
		return true
	case tcell.KeyPgUp:
		if ed != nil {
			ed.move(-h.textHeight())
		}
		return true
	case tcell.KeyPgDn:
		if ed != nil {
			ed.move(h.textHeight())
		}
		return true
	case tcell.KeyTab:
		h.cycleDocument(ctx)
		return true
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return false
		}
		return true
	}

	key, ok := functionKey(ev)
	if !ok {
		return true
	}
	action, ok := keymap.Lookup(key)
	if !ok || h.dispatcher == nil {
		h.setStatus("%s is not bound", key)
		return true
	}

	result := h.dispatcher.Dispatch(ctx, handler.NewAction(action))
	switch {
	case result.IsError():
		h.setStatus("%s: %v", action, result.Error)
	case result.Status == handler.StatusNoOp:
		h.setStatus("%s", result.Message)
	case result.Status == handler.StatusCancelled:
		h.setStatus("%s cancelled", action)
	default:
		h.setStatus("%s", result.Message)
	}
	return true
}

func (h *Host) activeEditor() *Editor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// cycleDocument switches to the next opened document.
func (h *Host) cycleDocument(ctx context.Context) {
	docs := h.Documents()
	if len(docs) < 2 {
		return
	}
	next := docs[0]
	if ed := h.activeEditor(); ed != nil {
		for i, doc := range docs {
			if doc == ed.doc {
				next = docs[(i+1)%len(docs)]
				break
			}
		}
	}
	if _, err := h.OpenAndShow(ctx, next); err != nil {
		h.setStatus("%v", err)
	}
}

// functionKey converts a tcell function key event. Terminals that report
// Shift+F8 as F20 are folded back onto F8 with Shift.
func functionKey(ev *tcell.EventKey) (command.Key, bool) {
	k := ev.Key()
	if k < tcell.KeyF1 || k > tcell.KeyF64 {
		return command.Key{}, false
	}

	n := int(k-tcell.KeyF1) + 1
	var mods command.Modifier
	switch (n - 1) / 12 {
	case 1:
		mods = command.ModShift
	case 2:
		mods = command.ModCtrl
	case 3:
		mods = command.ModCtrl | command.ModShift
	case 4:
		mods = command.ModAlt
	}
	n = (n-1)%12 + 1

	m := ev.Modifiers()
	if m&tcell.ModShift != 0 {
		mods |= command.ModShift
	}
	if m&tcell.ModAlt != 0 {
		mods |= command.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mods |= command.ModCtrl
	}
	return command.Key{F: n, Mods: mods}, true
}
