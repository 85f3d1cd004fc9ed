package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/warden/internal/adapters/agent"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var stageName string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the pipeline state",
		Long: `Display the item count per pipeline stage, derived from the vault
directories at the moment of the call.

With --stage, list the records currently in that stage instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				fmt.Println("Warden Status - No Context")
				fmt.Println()
				fmt.Println("No .warden/config.json found in current directory.")
				fmt.Println("Run `warden init` to set up a vault.")
				return nil //nolint:nilerr // Missing config is intentionally not an error
			}

			svc, err := wire.StageService()
			if err != nil {
				return err
			}

			if stageName != "" {
				return listStage(svc, stageName)
			}

			fmt.Printf("Warden Status - %s\n", cfg.VaultPath)
			if cfg.IsDryRun() {
				fmt.Printf("Mode: %s\n", color.New(color.FgYellow).Sprint("DRY RUN"))
			}
			fmt.Println()

			counts, err := svc.Counts(context.Background())
			if err != nil {
				return err
			}

			fmt.Println("Stage              Items")
			fmt.Println("────────────────────────")
			for _, c := range counts {
				label := fmt.Sprintf("%d", c.Count)
				if c.Stage == models.StageNeedsAction && c.Count > 0 {
					label = color.New(color.FgYellow).Sprint(label)
				}
				if c.Stage == models.StageDone && c.Count > 0 {
					label = color.New(color.FgHiGreen).Sprint(label)
				}
				fmt.Printf("%-18s %s\n", c.Stage, label)
			}

			binary := agent.DefaultBinary
			if cfg.AgentBin != "" {
				binary = cfg.AgentBin
			}
			fmt.Println()
			if agent.NewCLIRunner(binary).Available() {
				fmt.Printf("Agent: %s (available)\n", binary)
			} else {
				fmt.Printf("Agent: %s %s\n", binary, color.New(color.FgRed).Sprint("(not found)"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stageName, "stage", "", "list records in one stage (e.g. Needs_Action)")
	return cmd
}

func listStage(svc primary.StageService, name string) error {
	var stage models.Stage
	for _, s := range models.Stages {
		if string(s) == name {
			stage = s
			break
		}
	}
	if stage == "" {
		return fmt.Errorf("unknown stage %q (want one of %v)", name, models.Stages)
	}

	items, err := svc.List(context.Background(), stage)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Printf("No records in %s.\n", stage)
		return nil
	}
	for _, item := range items {
		fmt.Println(item.Name)
	}
	return nil
}
