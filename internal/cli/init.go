// Package cli contains the cobra commands for the warden binary.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/warden/internal/adapters/vault"
	"github.com/example/warden/internal/config"
	"github.com/example/warden/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var vaultPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the vault and warden configuration",
		Long: `Create the vault pipeline directories, write .warden/config.json in the
current directory, and initialize the run database at ~/.warden/warden.db.

The config starts in dry-run mode: watchers log what they would create
without writing. Set "dry_run": false once the setup looks right.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			if vaultPath == "" {
				vaultPath = filepath.Join(cwd, "vault")
			}
			vaultPath, err = filepath.Abs(vaultPath)
			if err != nil {
				return fmt.Errorf("failed to resolve vault path: %w", err)
			}

			configFile := filepath.Join(cwd, ".warden", "config.json")
			if _, err := os.Stat(configFile); err == nil {
				return fmt.Errorf("config already exists at %s", configFile)
			}

			store := vault.NewStore(vaultPath)
			if err := store.EnsureLayout(); err != nil {
				return fmt.Errorf("failed to create vault layout: %w", err)
			}
			fmt.Printf("✓ Vault created at %s\n", vaultPath)

			if err := config.SaveConfig(cwd, config.Default(vaultPath)); err != nil {
				return err
			}
			fmt.Printf("✓ Config written to %s\n", configFile)

			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}
			fmt.Printf("✓ Database initialized at %s\n", dbPath)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  warden doctor")
			fmt.Println("  warden watch filesystem")
			fmt.Println("  warden status")

			return nil
		},
	}

	cmd.Flags().StringVar(&vaultPath, "vault", "", "vault directory (default ./vault)")
	return cmd
}
