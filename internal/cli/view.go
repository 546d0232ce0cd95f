package cli

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/problemnav/internal/command"
	"github.com/dshills/problemnav/internal/diagnostics"
	"github.com/dshills/problemnav/internal/host/terminal"
	"github.com/dshills/problemnav/internal/marker"
)

func newViewCommand(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view [files...]",
		Short: "Browse problems in an interactive terminal view",
		Long: `Browse documents and their problems. F8 and Shift+F8 move between errors,
Alt moves across documents and Ctrl includes warnings. Tab switches
document, Esc closes the problem box and q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, f, args)
		},
	}
}

func runView(cmd *cobra.Command, f *rootFlags, args []string) error {
	var active atomic.Pointer[terminal.Host]
	redraw := diagnostics.WithChangeHandler(func(marker.DocumentID, []marker.Marker) {
		if h := active.Load(); h != nil {
			h.Refresh()
		}
	})

	s, err := openSession(cmd, f, redraw)
	if err != nil {
		return err
	}

	docs := make([]marker.DocumentID, 0, len(args))
	for _, arg := range args {
		docs = append(docs, marker.DocumentID(arg))
	}
	if len(docs) == 0 {
		docs = s.store.Documents()
	}
	if len(docs) == 0 {
		return errors.New("nothing to view: pass files or --report")
	}

	if s.cfg.Diagnostics.Watch && len(s.reports) > 0 {
		w, err := diagnostics.NewWatcher(s.loader, diagnostics.WithWatcherLogger(s.logger))
		if err != nil {
			return err
		}
		defer w.Close()
		for _, path := range s.reports {
			if err := w.Add(path); err != nil {
				return err
			}
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	s.quiet()

	host := terminal.New(screen, s.store, terminal.WithLogger(s.logger))
	_, d := s.navigator(host, host)
	host.SetDispatcher(d)

	ctx := cmd.Context()
	var first marker.DocumentID
	for _, doc := range docs {
		if _, err := host.OpenAndShow(ctx, doc); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", doc, err)
			continue
		}
		if first == "" {
			first = doc
		}
	}
	if first == "" {
		return errors.New("none of the documents could be opened")
	}
	if _, err := host.OpenAndShow(ctx, first); err != nil {
		return err
	}
	active.Store(host)

	return host.Run(ctx, command.NewKeymap(command.DefaultBindings()))
}
