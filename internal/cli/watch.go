package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/adapters/vault"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	var (
		intervalSec int
		push        bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "watch <filesystem|mailbox>",
		Short: "Run one watcher in the foreground",
		Long: `Run a single watcher until interrupted.

The filesystem watcher scans the vault drop folder; the mailbox watcher
pulls unprocessed messages from the configured spool. New events become
action files in Needs_Action. Ctrl+C stops cleanly mid-interval.

Examples:
  warden watch filesystem          # poll the drop folder
  warden watch filesystem --push   # inotify delivery instead of polling
  warden watch mailbox --interval 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := wire.Config()
			if err != nil {
				return fmt.Errorf("failed to load config (run warden init): %w", err)
			}
			if err := vault.NewStore(cfg.VaultPath).EnsureLayout(); err != nil {
				return fmt.Errorf("failed to ensure vault layout: %w", err)
			}

			interval := time.Duration(cfg.FilesystemInterval) * time.Second
			if name == wire.SourceMailbox {
				interval = time.Duration(cfg.MailboxInterval) * time.Second
			}
			if intervalSec > 0 {
				interval = time.Duration(intervalSec) * time.Second
			}

			if !cmd.Flags().Changed("dry-run") {
				dryRun = cfg.IsDryRun()
			}

			svc, err := wire.WatchService(name, dryRun)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Println("Running in DRY RUN mode: nothing will be written")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return svc.Run(ctx, primary.WatchRequest{Interval: interval, Push: push})
		},
	}

	cmd.Flags().IntVar(&intervalSec, "interval", 0, "poll interval in seconds (default from config)")
	cmd.Flags().BoolVar(&push, "push", false, "use filesystem notifications instead of polling")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log decisions without writing anything (default from config)")
	return cmd
}
