package db

// SchemaSQL is the complete schema for fresh warden installs.
//
// This is the single source of truth for the database schema. Tests use
// it via GetSchemaSQL() so the test schema never drifts from production:
// if repository code references a missing column, tests fail immediately
// with "no such column".
const SchemaSQL = `
-- Orchestration-loop runs
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	prompt TEXT NOT NULL,
	max_iterations INTEGER NOT NULL,
	outcome TEXT NOT NULL CHECK(outcome IN ('running', 'completed', 'exhausted')) DEFAULT 'running',
	iterations INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL,
	ended_at DATETIME
);

-- One snapshot per loop iteration
CREATE TABLE IF NOT EXISTS iterations (
	run_id TEXT NOT NULL,
	iteration INTEGER NOT NULL,
	prompt TEXT NOT NULL,
	output TEXT NOT NULL DEFAULT '',
	completed INTEGER NOT NULL DEFAULT 0,
	recorded_at DATETIME NOT NULL,
	PRIMARY KEY (run_id, iteration),
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// GetSchemaSQL returns the authoritative schema for test setup.
func GetSchemaSQL() string {
	return SchemaSQL
}
