package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/wire"
)

const consoleSession = "warden"

// ConsoleCmd returns the console command
func ConsoleCmd() *cobra.Command {
	var kill bool

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the tmux observation session",
		Long: `Create a detached tmux session with one window per watcher and a
status window, so the whole pipeline can be observed live.

Examples:
  warden console          # create the session
  warden console --kill   # tear it down`,
		RunE: func(cmd *cobra.Command, args []string) error {
			console, err := wire.Console()
			if err != nil {
				return err
			}

			if kill {
				if !console.SessionExists(consoleSession) {
					fmt.Println("No console session running.")
					return nil
				}
				if err := console.KillSession(consoleSession); err != nil {
					return fmt.Errorf("failed to kill session: %w", err)
				}
				fmt.Println("Console session killed.")
				return nil
			}

			cfg, err := wire.Config()
			if err != nil {
				return fmt.Errorf("failed to load config (run warden init): %w", err)
			}

			watchers := []string{wire.SourceFilesystem}
			if cfg.SpoolPath != "" {
				watchers = append(watchers, wire.SourceMailbox)
			}

			self, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to resolve own executable: %w", err)
			}
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			if err := console.Create(consoleSession, self, cwd, watchers); err != nil {
				return err
			}

			fmt.Println(console.AttachInstructions(consoleSession))
			return nil
		},
	}

	cmd.Flags().BoolVar(&kill, "kill", false, "kill the console session")
	return cmd
}
