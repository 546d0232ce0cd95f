package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/problemnav/internal/command"
	"github.com/dshills/problemnav/internal/dispatcher/handler"
	"github.com/dshills/problemnav/internal/host/memory"
	"github.com/dshills/problemnav/internal/marker"
	"github.com/dshills/problemnav/internal/navigator"
)

type navigateOptions struct {
	severity string
	files    bool
	noLoop   bool
	doc      string
	line     int
	col      int
	json     bool
}

func newNavigateCommand(f *rootFlags, name string) *cobra.Command {
	dir := navigator.Next
	if name == "prev" {
		dir = navigator.Prev
	}
	opts := &navigateOptions{}

	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Select the %s problem relative to a cursor", name),
		Long: fmt.Sprintf(`Select the %s problem relative to the cursor given by --doc, --line and
--col (1-based). Without --doc there is no active document, so only
--files finds anything and it starts at the first document.`, name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNavigate(cmd, f, dir, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.severity, "severity", "s", "error", "error or warning (errors and warnings)")
	cmd.Flags().BoolVar(&opts.files, "files", false, "continue into other documents")
	cmd.Flags().BoolVar(&opts.noLoop, "no-loop", false, "do not wrap around within the document")
	cmd.Flags().StringVar(&opts.doc, "doc", "", "active document")
	cmd.Flags().IntVar(&opts.line, "line", 1, "cursor line (1-based)")
	cmd.Flags().IntVar(&opts.col, "col", 1, "cursor column (1-based)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runNavigate(cmd *cobra.Command, f *rootFlags, dir navigator.Direction, opts *navigateOptions) error {
	filter, ok := marker.ParseSeverityFilter(opts.severity)
	if !ok {
		return fmt.Errorf("invalid severity %q (must be error or warning)", opts.severity)
	}
	if opts.line < 1 || opts.col < 1 {
		return errors.New("--line and --col are 1-based")
	}

	s, err := openSession(cmd, f)
	if err != nil {
		return err
	}

	host := memory.New(memory.WithUnknownDocuments())
	if opts.doc != "" {
		if _, err := host.Focus(marker.DocumentID(opts.doc), marker.Pos(opts.line-1, opts.col-1)); err != nil {
			return err
		}
	}
	_, d := s.navigator(host, host)

	action := handler.NewAction(command.ActionName(filter, dir, opts.files))
	if opts.noLoop && !opts.files {
		action = action.WithArg(command.ArgLoop, false)
	}

	result := d.Dispatch(cmd.Context(), action)
	if result.IsError() || result.Status == handler.StatusCancelled {
		return result.Error
	}
	if result.Error != nil {
		s.logger.Warn("presentation failed: %v", result.Error)
	}

	if opts.json {
		out, err := resultJSON(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}
	return printResult(cmd.OutOrStdout(), result)
}

// resultJSON renders a navigation result as a JSON object.
func resultJSON(result handler.Result) (string, error) {
	found := result.Status == handler.StatusOK
	out, err := sjson.Set(`{}`, "found", found)
	if err != nil || !found {
		return out, err
	}

	fields := []struct {
		path  string
		value any
	}{
		{"document", result.GetDataString(command.DataDocument)},
		{"line", result.GetDataInt(command.DataLine) + 1},
		{"column", result.GetDataInt(command.DataColumn) + 1},
		{"severity", result.GetDataString(command.DataSeverity)},
		{"message", result.GetDataString(command.DataMessage)},
		{"moved", result.GetDataBool(command.DataMoved)},
		{"acrossFiles", result.GetDataBool(command.DataAcrossFiles)},
	}
	for _, field := range fields {
		if out, err = sjson.Set(out, field.path, field.value); err != nil {
			return "", err
		}
	}
	return out, nil
}

func printResult(w io.Writer, result handler.Result) error {
	p := newPalette(w)
	if result.Status != handler.StatusOK {
		_, err := fmt.Fprintln(w, p.faint("no problems"))
		return err
	}

	loc := fmt.Sprintf("%s:%d:%d",
		result.GetDataString(command.DataDocument),
		result.GetDataInt(command.DataLine)+1,
		result.GetDataInt(command.DataColumn)+1,
	)
	_, err := fmt.Fprintf(w, "%s %s %s\n",
		p.location(loc),
		p.severity(result.GetDataString(command.DataSeverity)),
		result.GetDataString(command.DataMessage),
	)
	return err
}
