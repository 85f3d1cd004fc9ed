// Package wire provides dependency injection for the warden application.
// Configuration is loaded once; services are composed on demand from the
// shared config and database.
package wire

import (
	"fmt"
	"os"
	"sync"

	"github.com/example/warden/internal/adapters/agent"
	"github.com/example/warden/internal/adapters/dropfolder"
	"github.com/example/warden/internal/adapters/ledger"
	"github.com/example/warden/internal/adapters/mailbox"
	"github.com/example/warden/internal/adapters/process"
	"github.com/example/warden/internal/adapters/report"
	"github.com/example/warden/internal/adapters/sqlite"
	"github.com/example/warden/internal/adapters/tmux"
	"github.com/example/warden/internal/adapters/vault"
	"github.com/example/warden/internal/app"
	"github.com/example/warden/internal/config"
	"github.com/example/warden/internal/db"
	"github.com/example/warden/internal/ports/primary"
	"github.com/example/warden/internal/ports/secondary"
)

// SourceFilesystem and SourceMailbox are the watcher names accepted by
// WatchService and the supervisor.
const (
	SourceFilesystem = "filesystem"
	SourceMailbox    = "mailbox"
)

var (
	cfg     *config.Config
	cfgErr  error
	cfgOnce sync.Once
)

// Config returns the configuration loaded from the current directory.
func Config() (*config.Config, error) {
	cfgOnce.Do(func() {
		dir, err := os.Getwd()
		if err != nil {
			cfgErr = fmt.Errorf("failed to get working directory: %w", err)
			return
		}
		cfg, cfgErr = config.LoadConfig(dir)
	})
	return cfg, cfgErr
}

// Reporter returns a component-tagged reporter writing to stderr and,
// when the vault is configured, to the daily log file.
func Reporter(component string) secondary.Reporter {
	c, err := Config()
	if err != nil {
		return report.New(component)
	}
	store := vault.NewStore(c.VaultPath)
	logFile, err := report.OpenDailyLog(store.LogsDir(), component)
	if err != nil {
		return report.New(component)
	}
	return report.New(component, os.Stderr, logFile)
}

// VaultStore returns the stage store for the configured vault.
func VaultStore() (*vault.Store, error) {
	c, err := Config()
	if err != nil {
		return nil, err
	}
	return vault.NewStore(c.VaultPath), nil
}

// StageService returns the read-side stage service.
func StageService() (primary.StageService, error) {
	store, err := VaultStore()
	if err != nil {
		return nil, err
	}
	return app.NewStageService(store), nil
}

// WatchService composes the watcher for the named source.
func WatchService(name string, dryRun bool) (primary.WatchService, error) {
	c, err := Config()
	if err != nil {
		return nil, err
	}
	store := vault.NewStore(c.VaultPath)
	reporter := Reporter(name + "_watcher")

	led := ledger.NewFileLedger(store.LedgerPath(name), reporter)
	if err := led.Load(); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	var source secondary.EventSource
	switch name {
	case SourceFilesystem:
		source = dropfolder.NewSource(store.DropDir(), reporter)
	case SourceMailbox:
		if c.SpoolPath == "" {
			return nil, fmt.Errorf("mailbox watcher requires spool_path in config")
		}
		client, err := mailbox.NewSpoolClient(c.SpoolPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open mailbox spool: %w", err)
		}
		source = mailbox.NewSource(client)
	default:
		return nil, fmt.Errorf("unknown watcher: %s (want %s or %s)", name, SourceFilesystem, SourceMailbox)
	}

	ingest := app.NewIngestService(led, store, reporter, dryRun)
	return app.NewWatchService(source, ingest, reporter), nil
}

// OrchestratorService composes the loop orchestrator.
func OrchestratorService() (primary.OrchestratorService, error) {
	c, err := Config()
	if err != nil {
		return nil, err
	}
	database, err := db.GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store := vault.NewStore(c.VaultPath)
	runner := agent.NewCLIRunner(c.AgentBin)
	repo := sqlite.NewIterationRepository(database)
	return app.NewOrchestratorService(runner, store, repo, Reporter("orchestrator")), nil
}

// SupervisorService composes the worker supervisor. Workers are spawned
// by re-invoking this executable with the watch subcommand.
func SupervisorService() (primary.SupervisorService, error) {
	launcher, err := process.NewLauncher("")
	if err != nil {
		return nil, err
	}
	return app.NewSupervisorService(launcher, Reporter("supervisor")), nil
}

// Console returns the tmux console manager.
func Console() (secondary.ConsoleManager, error) {
	return tmux.NewConsole()
}
