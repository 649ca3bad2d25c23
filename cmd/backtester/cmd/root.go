package cmd

import (
	"os"

	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	logJSON  bool
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	ro := &rootOptions{}

	root := &cobra.Command{
		Use:   "backtester",
		Short: "Fixed-rule single-asset tick backtester",
		Long: `Backtester replays a stream of price ticks through a fixed-rule strategy:
every tick opens a BUY position when funds allow, and every position
exits on its own stop-loss or take-profit.

It provides tools for:
  - Running backtests from CSV price files
  - Journaling trades and balances to CSV or SQLite
  - Rendering the balance curve as an HTML chart
  - Querying past runs from the SQLite journal`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup(cmd.ErrOrStderr(), ro.logLevel, ro.logJSON)
		},
	}

	root.PersistentFlags().StringVar(&ro.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&ro.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(newRunCmd(ro))
	root.AddCommand(newConfigCmd())
	root.AddCommand(newJournalCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI against os.Args.
func Execute() error {
	root := NewRootCmd()
	root.SetErr(os.Stderr)
	return root.Execute()
}
