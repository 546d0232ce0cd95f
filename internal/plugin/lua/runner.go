package lua

import (
	"context"

	"github.com/dshills/problemnav/internal/logging"
	"github.com/dshills/problemnav/internal/navigator"
)

// Runner runs scripts against one navigator.
type Runner struct {
	state  *State
	logger *logging.Logger
}

// NewRunner creates a state with the problems module installed.
func NewRunner(nav *navigator.Navigator, provider navigator.Provider, workspace navigator.Workspace, logger *logging.Logger, opts ...StateOption) *Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	state := NewState(opts...)
	NewModule(nav, provider, workspace, logger).Install(state)
	return &Runner{state: state, logger: logger.WithComponent("lua")}
}

// RunFile runs a script file.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	r.logger.WithField("script", path).Debug("running")
	return r.state.DoFile(ctx, path)
}

// RunString runs script source.
func (r *Runner) RunString(ctx context.Context, code string) error {
	return r.state.DoString(ctx, code)
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.state.Close()
}
