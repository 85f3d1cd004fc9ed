package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/wire"
)

// LoopCmd returns the loop command with its subcommands
func LoopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loop",
		Short: "Drive the agent through the persistent-retry loop",
	}
	cmd.AddCommand(loopRunCmd())
	cmd.AddCommand(loopHistoryCmd())
	cmd.AddCommand(loopShowCmd())
	return cmd
}

func loopRunCmd() *cobra.Command {
	var (
		maxIterations int
		timeoutSec    int
		backoffSec    int
		token         string
		checkStage    bool
		checkToken    bool
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "run <prompt>",
		Short: "Run the agent until done or out of iterations",
		Long: `Invoke the agent repeatedly with the same instruction until a
completion condition holds or the iteration budget runs out.

Completion is checked before every invocation: with --check-stage the
loop ends when Needs_Action is empty, with --check-token it ends when
the agent emits the completion marker. Each iteration's prompt and
output are persisted, so warden loop history shows what happened.

Examples:
  warden loop run "Process all items in Needs_Action"
  warden loop run "Triage the inbox" --max-iterations 3 --timeout 120`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return fmt.Errorf("failed to load config (run warden init): %w", err)
			}

			if maxIterations <= 0 {
				maxIterations = cfg.MaxIterations
			}
			if token == "" {
				token = cfg.CompletionToken
			}
			if !cmd.Flags().Changed("dry-run") {
				dryRun = cfg.IsDryRun()
			}

			svc, err := wire.OrchestratorService()
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Println("Running in DRY RUN mode: the agent will not be invoked")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			res, err := svc.RunLoop(ctx, primary.RunLoopRequest{
				Prompt:        args[0],
				MaxIterations: maxIterations,
				Timeout:       time.Duration(timeoutSec) * time.Second,
				Backoff:       time.Duration(backoffSec) * time.Second,
				Token:         token,
				CheckStage:    checkStage,
				CheckToken:    checkToken,
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nRun %s: %s after %d iteration(s)\n", res.RunID, outcomeLabel(res.Outcome), res.Iterations)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "iteration budget (default from config)")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 300, "per-invocation timeout in seconds")
	cmd.Flags().IntVar(&backoffSec, "backoff", 5, "pause between iterations in seconds")
	cmd.Flags().StringVar(&token, "token", "", "completion token (default from config)")
	cmd.Flags().BoolVar(&checkStage, "check-stage", true, "complete when Needs_Action is empty")
	cmd.Flags().BoolVar(&checkToken, "check-token", true, "complete when the agent emits the token marker")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log iterations without invoking the agent")
	return cmd
}

func loopHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past loop runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := wire.OrchestratorService()
			if err != nil {
				return err
			}
			runs, err := svc.History(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			for _, run := range runs {
				prompt := run.Prompt
				if len(prompt) > 60 {
					prompt = prompt[:57] + "..."
				}
				fmt.Printf("%s  %s  %2d/%2d  %s  %s\n",
					run.ID[:8],
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.Iterations,
					run.MaxIterations,
					outcomeLabel(run.Outcome),
					prompt,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to show (0 = all)")
	return cmd
}

func loopShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the iterations of one run",
		Long:  "Show the iterations of one run. Accepts the full run ID or the\nshort prefix printed by loop history.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := wire.OrchestratorService()
			if err != nil {
				return err
			}
			runID, err := svc.ResolveRun(context.Background(), args[0])
			if err != nil {
				return err
			}
			iters, err := svc.Iterations(context.Background(), runID)
			if err != nil {
				return err
			}
			if len(iters) == 0 {
				fmt.Println("No iterations recorded for this run.")
				return nil
			}

			for _, it := range iters {
				fmt.Printf("── iteration %d (%s)", it.Iteration, it.RecordedAt.Local().Format("15:04:05"))
				if it.Completed {
					fmt.Printf(" %s", color.New(color.FgHiGreen).Sprint("[completed]"))
				}
				fmt.Println()
				fmt.Println(strings.TrimSpace(it.Output))
				fmt.Println()
			}
			return nil
		},
	}
}

func outcomeLabel(outcome models.RunOutcome) string {
	switch outcome {
	case models.OutcomeCompleted:
		return color.New(color.FgHiGreen).Sprint("completed")
	case models.OutcomeExhausted:
		return color.New(color.FgYellow).Sprint("exhausted")
	default:
		return color.New(color.FgCyan).Sprint(string(outcome))
	}
}
