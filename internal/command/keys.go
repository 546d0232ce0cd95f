package command

import (
	"fmt"
	"strings"
)

// Modifier is a key modifier bit set.
type Modifier uint8

// Modifiers.
const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
)

// Key is a function key with modifiers.
type Key struct {
	// F is the function key number, 8 for F8.
	F    int
	Mods Modifier
}

// String formats a key as "Ctrl+Shift+Alt+F8".
func (k Key) String() string {
	var parts []string
	if k.Mods&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if k.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if k.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	parts = append(parts, fmt.Sprintf("F%d", k.F))
	return strings.Join(parts, "+")
}

// ParseKey parses the String form of a key. Modifier order does not matter.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "+")
	var k Key
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl":
			k.Mods |= ModCtrl
		case "shift":
			k.Mods |= ModShift
		case "alt":
			k.Mods |= ModAlt
		default:
			return Key{}, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}

	last := strings.ToUpper(strings.TrimSpace(parts[len(parts)-1]))
	if _, err := fmt.Sscanf(last, "F%d", &k.F); err != nil || k.F < 1 || k.F > 24 {
		return Key{}, fmt.Errorf("invalid function key %q in %q", last, s)
	}
	return k, nil
}

// Binding maps a key to an action.
type Binding struct {
	Key    Key
	Action string
}

// DefaultBindings returns the default key bindings. F8 moves forward,
// Shift reverses, Alt crosses documents and Ctrl widens the filter to
// warnings.
func DefaultBindings() []Binding {
	return []Binding{
		{Key{F: 8}, ActionNextError},
		{Key{F: 8, Mods: ModShift}, ActionPrevError},
		{Key{F: 8, Mods: ModAlt}, ActionNextInFilesError},
		{Key{F: 8, Mods: ModShift | ModAlt}, ActionPrevInFilesError},
		{Key{F: 8, Mods: ModCtrl}, ActionNextWarning},
		{Key{F: 8, Mods: ModCtrl | ModShift}, ActionPrevWarning},
		{Key{F: 8, Mods: ModCtrl | ModAlt}, ActionNextInFilesWarning},
		{Key{F: 8, Mods: ModCtrl | ModShift | ModAlt}, ActionPrevInFilesWarning},
	}
}

// Keymap resolves keys to actions.
type Keymap map[Key]string

// NewKeymap builds a keymap from bindings; later bindings win.
func NewKeymap(bindings []Binding) Keymap {
	km := make(Keymap, len(bindings))
	for _, b := range bindings {
		km[b.Key] = b.Action
	}
	return km
}

// Lookup returns the action bound to k.
func (km Keymap) Lookup(k Key) (string, bool) {
	action, ok := km[k]
	return action, ok
}
