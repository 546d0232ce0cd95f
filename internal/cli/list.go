package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dshills/problemnav/internal/diagnostics"
	"github.com/dshills/problemnav/internal/marker"
)

func newListCommand(f *rootFlags) *cobra.Command {
	var severity string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter *marker.SeverityFilter
			if severity != "" {
				sf, ok := marker.ParseSeverityFilter(severity)
				if !ok {
					return fmt.Errorf("invalid severity %q (must be error or warning)", severity)
				}
				filter = &sf
			}

			s, err := openSession(cmd, f)
			if err != nil {
				return err
			}
			return renderMarkers(cmd.OutOrStdout(), s.store, filter)
		},
	}

	cmd.Flags().StringVarP(&severity, "severity", "s", "", "only errors (error) or errors and warnings (warning)")
	return cmd
}

// renderMarkers prints every marker in document and position order.
func renderMarkers(w io.Writer, store *diagnostics.Store, filter *marker.SeverityFilter) error {
	all := store.AllMarkers()
	docs := slices.Sorted(maps.Keys(all))

	p := newPalette(w)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Document", "Line", "Col", "Severity", "Source", "Message"})

	rows := 0
	for _, doc := range docs {
		markers := marker.Sorted(all[doc])
		if filter != nil {
			markers = filter.Apply(markers)
		}
		for _, m := range markers {
			t.AppendRow(table.Row{
				string(doc),
				m.Start.Line + 1,
				m.Start.Column + 1,
				p.severity(m.Severity.String()),
				m.Source,
				m.Message,
			})
			rows++
		}
	}

	if rows == 0 {
		_, err := fmt.Fprintln(w, p.faint("no problems"))
		return err
	}

	sum := store.Summary()
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d documents", sum.Documents), "", "",
		fmt.Sprintf("%d errors, %d warnings", sum.Errors, sum.Warnings), "", "",
	})
	t.Render()
	return nil
}
