package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "create_reconcile_runs",
		Up:      migration001CreateReconcileRuns,
	},
	{
		Version: 2,
		Name:    "create_account_results",
		Up:      migration002CreateAccountResults,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	// Ensure migrations table exists
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get applied migrations
	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	// Run pending migrations
	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue // Already applied
		}

		slog.Debug("running migration", "version", migration.Version, "name", migration.Name)

		// Run migration in transaction
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		// Execute migration
		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		// Record migration
		_, err = tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES (?, ?)
		`, migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		// Commit
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		slog.Debug("migration complete", "version", migration.Version)
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table
func (s *Storage) ensureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := s.db.Exec(query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions
func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ================================================================
// MIGRATION FUNCTIONS
// ================================================================

// migration001CreateReconcileRuns creates the run history table
func migration001CreateReconcileRuns(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reconcile_runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			bank_file TEXT NOT NULL DEFAULT '',
			tracker_dir TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			accounts INTEGER NOT NULL DEFAULT 0,
			add_count INTEGER NOT NULL DEFAULT 0,
			remove_count INTEGER NOT NULL DEFAULT 0,
			error_message TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reconcile_runs_started_at
		 ON reconcile_runs(started_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// migration002CreateAccountResults creates the per-account outcome table
func migration002CreateAccountResults(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS account_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES reconcile_runs(id) ON DELETE CASCADE,
			account_id TEXT NOT NULL,
			status TEXT NOT NULL,
			tracker_file TEXT NOT NULL DEFAULT '',
			bank_count INTEGER NOT NULL DEFAULT 0,
			tracker_count INTEGER NOT NULL DEFAULT 0,
			matched_count INTEGER NOT NULL DEFAULT 0,
			add_count INTEGER NOT NULL DEFAULT 0,
			remove_count INTEGER NOT NULL DEFAULT 0,
			report_path TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			UNIQUE(run_id, account_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_account_results_run_id
		 ON account_results(run_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}
