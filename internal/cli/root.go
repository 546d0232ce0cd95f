// Package cli provides the problemnav command-line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	reports    []string
}

// DefaultConfigPath is read when --config is not given. It may be absent.
const DefaultConfigPath = "problemnav.toml"

// NewRootCmd creates the root command.
func NewRootCmd(info BuildInfo) *cobra.Command {
	f := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "problemnav",
		Short: "Navigate diagnostic markers",
		Long: `problemnav moves between the errors and warnings reported for a set of
documents. Diagnostics are read from LSP publishDiagnostics JSON or YAML
reports; navigation wraps within a document and continues into the next
document ordered by path.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", DefaultConfigPath, "config file")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringArrayVarP(&f.reports, "report", "r", nil, "diagnostics report file (repeatable)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newNavigateCommand(f, "next"))
	rootCmd.AddCommand(newNavigateCommand(f, "prev"))
	rootCmd.AddCommand(newListCommand(f))
	rootCmd.AddCommand(newViewCommand(f))
	rootCmd.AddCommand(newScriptCommand(f))
	rootCmd.AddCommand(NewVersionCommand(info))

	return rootCmd
}
