package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/problemnav/internal/command"
	"github.com/dshills/problemnav/internal/config"
	"github.com/dshills/problemnav/internal/diagnostics"
	"github.com/dshills/problemnav/internal/dispatcher"
	"github.com/dshills/problemnav/internal/logging"
	"github.com/dshills/problemnav/internal/navigator"
)

// session is the state every subcommand starts from: settings, a logger
// and a store filled from the report files.
type session struct {
	cfg     *config.Config
	logger  *logging.Logger
	store   *diagnostics.Store
	loader  *diagnostics.Loader
	reports []string
}

func openSession(cmd *cobra.Command, f *rootFlags, storeOpts ...diagnostics.Option) (*session, error) {
	overrides := make(map[string]any)
	if f.logLevel != "" {
		overrides["logging.level"] = f.logLevel
	}

	cfg, err := config.Load(config.Options{Path: f.configPath, Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: cmd.ErrOrStderr(),
		Prefix: "problemnav",
	})

	opts := []diagnostics.Option{diagnostics.WithMaxPerDocument(cfg.Diagnostics.MaxPerDocument)}
	if len(cfg.Diagnostics.Sources) > 0 {
		opts = append(opts, diagnostics.WithEnabledSources(cfg.Diagnostics.Sources))
	}
	store := diagnostics.NewStore(append(opts, storeOpts...)...)

	s := &session{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		loader:  diagnostics.NewLoader(store, logger),
		reports: append(append([]string(nil), cfg.Diagnostics.Reports...), f.reports...),
	}
	for _, path := range s.reports {
		if err := s.loader.Load(path); err != nil {
			return nil, err
		}
	}
	logger.WithField("reports", len(s.reports)).Debug("session ready")
	return s, nil
}

// navigator builds a navigator and a dispatcher serving the problems
// actions on top of the given host.
func (s *session) navigator(workspace navigator.Workspace, presenter navigator.Presenter) (*navigator.Navigator, *dispatcher.Dispatcher) {
	nav := navigator.New(s.store, workspace,
		navigator.WithPresenter(presenter),
		navigator.WithPresentation(s.cfg.Presentation()),
		navigator.WithLogger(s.logger),
	)
	d := dispatcher.New(dispatcher.WithLogger(s.logger))
	d.RegisterNamespace(command.NewHandler(nav))
	return nav, d
}

// quiet stops logging to the terminal, e.g. while a full-screen view runs.
func (s *session) quiet() {
	s.logger.SetOutput(io.Discard)
}
