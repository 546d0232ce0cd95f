package handler

// Action is a named request, e.g. "problems.next.error".
type Action struct {
	// Name is the fully qualified action name: namespace.action.
	Name string

	// Args contains action-specific arguments.
	Args map[string]any
}

// NewAction creates an action with no arguments.
func NewAction(name string) Action {
	return Action{Name: name}
}

// WithArg returns a copy of the action with an argument set.
func (a Action) WithArg(key string, value any) Action {
	args := make(map[string]any, len(a.Args)+1)
	for k, v := range a.Args {
		args[k] = v
	}
	args[key] = value
	a.Args = args
	return a
}

// GetString returns a string argument.
func (a Action) GetString(key string) (string, bool) {
	s, ok := a.Args[key].(string)
	return s, ok
}

// GetInt returns an integer argument. Lua numbers arrive as float64.
func (a Action) GetInt(key string) (int, bool) {
	switch n := a.Args[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// GetBool returns a boolean argument.
func (a Action) GetBool(key string) (bool, bool) {
	b, ok := a.Args[key].(bool)
	return b, ok
}
