// Package config handles the warden configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when a field is absent from the config file.
const (
	DefaultFilesystemInterval = 30  // seconds
	DefaultMailboxInterval    = 120 // seconds
	DefaultMaxIterations      = 10
	DefaultCompletionToken    = "TASK_COMPLETE"
)

// Config represents the flat warden configuration.
type Config struct {
	Version   string `json:"version"`
	VaultPath string `json:"vault_path"`

	// SpoolPath is the mailbox spool directory; empty disables the
	// mailbox watcher.
	SpoolPath string `json:"spool_path,omitempty"`

	// AgentBin overrides the agent binary name; empty means the default.
	AgentBin string `json:"agent_bin,omitempty"`

	FilesystemInterval int `json:"filesystem_interval,omitempty"` // seconds
	MailboxInterval    int `json:"mailbox_interval,omitempty"`    // seconds
	MaxIterations      int `json:"max_iterations,omitempty"`

	CompletionToken string `json:"completion_token,omitempty"`

	// DryRun makes watchers and the loop log instead of writing.
	// Defaults to true so a fresh setup cannot touch the vault until the
	// operator opts in.
	DryRun *bool `json:"dry_run,omitempty"`
}

// LoadConfig reads .warden/config.json from the specified directory and
// applies defaults to absent fields. Resolution order: dir only, no home
// fallback.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".warden", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if cfg.VaultPath == "" {
		return nil, fmt.Errorf("config has no vault_path")
	}
	return &cfg, nil
}

// SaveConfig writes config.json to the .warden directory under dir.
func SaveConfig(dir string, cfg *Config) error {
	wardenDir := filepath.Join(dir, ".warden")
	if err := os.MkdirAll(wardenDir, 0755); err != nil {
		return fmt.Errorf("failed to create .warden dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(wardenDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Default returns a fresh config for `warden init`.
func Default(vaultPath string) *Config {
	dry := true
	return &Config{
		Version:            "1",
		VaultPath:          vaultPath,
		FilesystemInterval: DefaultFilesystemInterval,
		MailboxInterval:    DefaultMailboxInterval,
		MaxIterations:      DefaultMaxIterations,
		CompletionToken:    DefaultCompletionToken,
		DryRun:             &dry,
	}
}

// IsDryRun resolves the dry-run flag with its safe default.
func (c *Config) IsDryRun() bool {
	if c.DryRun == nil {
		return true
	}
	return *c.DryRun
}

func (c *Config) applyDefaults() {
	if c.FilesystemInterval <= 0 {
		c.FilesystemInterval = DefaultFilesystemInterval
	}
	if c.MailboxInterval <= 0 {
		c.MailboxInterval = DefaultMailboxInterval
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.CompletionToken == "" {
		c.CompletionToken = DefaultCompletionToken
	}
}
