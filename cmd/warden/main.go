package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/cli"
	"github.com/example/warden/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "warden",
		Short:   "warden - vault automation for a digital employee",
		Version: version.String(),
		Long: `warden watches external sources (a mailbox spool, a drop folder),
materializes new events as prioritized work items in a staged vault,
and drives an external coding agent until the needs-action stage is drained.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.LoopCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.UpCmd())
	rootCmd.AddCommand(cli.ConsoleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
