package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/adapters/agent"
	"github.com/example/warden/internal/adapters/vault"
	"github.com/example/warden/internal/db"
	"github.com/example/warden/internal/models"
	"github.com/example/warden/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the warden environment",
		Long: `Health check for the warden setup.

Validates:
- .warden/config.json in the current directory
- Vault pipeline directories
- Run database
- Agent binary on PATH
- tmux availability (for warden console)
- Mailbox spool (when configured)

Examples:
  warden doctor           # Run full health check
  warden doctor --quiet   # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{
				checkConfig(),
				checkVault(),
				checkDatabase(),
				checkAgent(),
				checkTmux(),
				checkSpool(),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						fmt.Printf("%s: %s\n", r.Name, r.Details)
					}
				}
			}

			if hasErrors {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "exit code only")
	return cmd
}

func checkConfig() CheckResult {
	if _, err := wire.Config(); err != nil {
		return CheckResult{Name: "config", Status: "✗", Details: fmt.Sprintf("%v (run warden init)", err)}
	}
	return CheckResult{Name: "config", Status: "✓"}
}

func checkVault() CheckResult {
	cfg, err := wire.Config()
	if err != nil {
		return CheckResult{Name: "vault", Status: "✗", Details: "no config"}
	}
	store := vault.NewStore(cfg.VaultPath)
	for _, stage := range models.Stages {
		if _, err := os.Stat(store.Dir(stage)); err != nil {
			return CheckResult{Name: "vault", Status: "✗", Details: fmt.Sprintf("missing stage directory %s", store.Dir(stage))}
		}
	}
	if _, err := os.Stat(store.DropDir()); err != nil {
		return CheckResult{Name: "vault", Status: "⚠", Details: "drop folder missing, filesystem watcher will see nothing"}
	}
	return CheckResult{Name: "vault", Status: "✓"}
}

func checkDatabase() CheckResult {
	if _, err := db.GetDB(); err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: err.Error()}
	}
	return CheckResult{Name: "database", Status: "✓"}
}

func checkAgent() CheckResult {
	binary := agent.DefaultBinary
	if cfg, err := wire.Config(); err == nil && cfg.AgentBin != "" {
		binary = cfg.AgentBin
	}
	if !agent.NewCLIRunner(binary).Available() {
		return CheckResult{Name: "agent", Status: "⚠", Details: fmt.Sprintf("%s not on PATH, warden loop will exhaust immediately", binary)}
	}
	return CheckResult{Name: "agent", Status: "✓"}
}

func checkTmux() CheckResult {
	if _, err := exec.LookPath("tmux"); err != nil {
		return CheckResult{Name: "tmux", Status: "⚠", Details: "tmux not on PATH, warden console unavailable"}
	}
	return CheckResult{Name: "tmux", Status: "✓"}
}

func checkSpool() CheckResult {
	cfg, err := wire.Config()
	if err != nil || cfg.SpoolPath == "" {
		return CheckResult{Name: "mailbox spool", Status: "⚠", Details: "no spool_path configured, mailbox watcher disabled"}
	}
	if _, err := os.Stat(cfg.SpoolPath); err != nil {
		return CheckResult{Name: "mailbox spool", Status: "✗", Details: fmt.Sprintf("spool_path %s not accessible", cfg.SpoolPath)}
	}
	return CheckResult{Name: "mailbox spool", Status: "✓"}
}
