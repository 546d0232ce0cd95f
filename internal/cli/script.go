package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/problemnav/internal/host/memory"
	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/plugin/lua"
)

func newScriptCommand(f *rootFlags) *cobra.Command {
	var (
		doc       string
		line, col int
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "script <file.lua>",
		Short: "Run a Lua navigation script",
		Long: `Run a Lua script against the loaded reports. The script uses the
"problems" module: next, prev, next_in_files, prev_in_files, cursor,
set_cursor, open, active, markers and log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if line < 1 || col < 1 {
				return errors.New("--line and --col are 1-based")
			}

			s, err := openSession(cmd, f)
			if err != nil {
				return err
			}

			host := memory.New(memory.WithUnknownDocuments())
			if doc != "" {
				if _, err := host.Focus(marker.DocumentID(doc), marker.Pos(line-1, col-1)); err != nil {
					return err
				}
			}
			nav, _ := s.navigator(host, host)

			runner := lua.NewRunner(nav, s.store, host, s.logger,
				lua.WithOutput(cmd.OutOrStdout()),
				lua.WithExecutionTimeout(timeout),
			)
			defer runner.Close()

			return runner.RunFile(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&doc, "doc", "", "active document")
	cmd.Flags().IntVar(&line, "line", 1, "cursor line (1-based)")
	cmd.Flags().IntVar(&col, "col", 1, "cursor column (1-based)")
	cmd.Flags().DurationVar(&timeout, "timeout", lua.DefaultExecutionTimeout, "script execution timeout")
	return cmd
}
