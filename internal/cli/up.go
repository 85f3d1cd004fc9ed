package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/wire"
)

// UpCmd returns the up command
func UpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all configured watchers under one supervisor",
		Long: `Start a worker process per configured watcher and supervise them until
interrupted. The filesystem watcher always runs; the mailbox watcher is
added when spool_path is configured.

The worker table is held in this process only: workers from a previous
supervisor are not adopted. On Ctrl+C every worker gets SIGTERM and a
grace period before being killed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return fmt.Errorf("failed to load config (run warden init): %w", err)
			}

			svc, err := wire.SupervisorService()
			if err != nil {
				return err
			}

			watchers := []string{wire.SourceFilesystem}
			if cfg.SpoolPath != "" {
				watchers = append(watchers, wire.SourceMailbox)
			}

			for _, name := range watchers {
				if err := svc.Start(name); err != nil {
					svc.StopAll()
					return fmt.Errorf("failed to start %s watcher: %w", name, err)
				}
			}

			for _, st := range svc.Status() {
				fmt.Printf("started %s (pid %d)\n", st.Name, st.PID)
			}
			fmt.Println("Press Ctrl+C to stop.")

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			fmt.Println("\nStopping workers...")
			if errs := svc.StopAll(); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(os.Stderr, "stop: %v\n", e)
				}
				return fmt.Errorf("%d worker(s) failed to stop cleanly", len(errs))
			}
			fmt.Println("All workers stopped.")
			return nil
		},
	}
}
