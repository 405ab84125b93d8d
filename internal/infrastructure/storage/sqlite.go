package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed width and always UTC so started_at sorts as text.
// Reads accept any RFC 3339 timestamp.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Storage provides SQLite database access for run history.
// It implements the Repository interface.
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	// _foreign_keys applies the pragma to every pooled connection
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db, now: time.Now}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// StartRun records the start of a run
func (s *Storage) StartRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = s.now().UTC()
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}

	_, err := s.db.Exec(`
		INSERT INTO reconcile_runs (id, started_at, bank_file, tracker_dir, status)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(timeLayout), run.BankFile, run.TrackerDir, run.Status)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

// CompleteRun records the outcome of a run
func (s *Storage) CompleteRun(runID string, outcome RunOutcome) error {
	if outcome.Status == "" {
		outcome.Status = RunStatusCompleted
	}

	res, err := s.db.Exec(`
		UPDATE reconcile_runs
		SET completed_at = ?, status = ?, accounts = ?, add_count = ?, remove_count = ?, error_message = ?
		WHERE id = ?`,
		s.now().UTC().Format(timeLayout),
		outcome.Status,
		outcome.Accounts,
		outcome.AddCount,
		outcome.RemoveCount,
		outcome.ErrorMessage,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return nil
}

const runColumns = `id, started_at, completed_at, bank_file, tracker_dir, status,
	accounts, add_count, remove_count, error_message`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		started   string
		completed sql.NullString
		errMsg    sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&started,
		&completed,
		&run.BankFile,
		&run.TrackerDir,
		&run.Status,
		&run.Accounts,
		&run.AddCount,
		&run.RemoveCount,
		&errMsg,
	)
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("bad started_at %q: %w", started, err)
	}
	if completed.Valid && completed.String != "" {
		t, err := time.Parse(time.RFC3339Nano, completed.String)
		if err != nil {
			return nil, fmt.Errorf("bad completed_at %q: %w", completed.String, err)
		}
		run.CompletedAt = &t
	}
	run.ErrorMessage = errMsg.String
	return &run, nil
}

// GetRun retrieves a run by ID
func (s *Storage) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM reconcile_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return run, err
}

// ListRuns returns the most recent runs first
func (s *Storage) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`SELECT `+runColumns+` FROM reconcile_runs
		ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// SaveAccountResult stores the outcome for one account of a run
func (s *Storage) SaveAccountResult(result *AccountResult) error {
	res, err := s.db.Exec(`
		INSERT INTO account_results
		(run_id, account_id, status, tracker_file, bank_count, tracker_count,
		 matched_count, add_count, remove_count, report_path, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.AccountID,
		result.Status,
		result.TrackerFile,
		result.BankCount,
		result.TrackerCount,
		result.MatchedCount,
		result.AddCount,
		result.RemoveCount,
		result.ReportPath,
		result.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save account result: %w", err)
	}

	id, err := res.LastInsertId()
	if err == nil {
		result.ID = id
	}
	return nil
}

// ListAccountResults returns the account outcomes of a run ordered by account
func (s *Storage) ListAccountResults(runID string) ([]AccountResult, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, account_id, status, tracker_file, bank_count, tracker_count,
		       matched_count, add_count, remove_count, report_path, error_message
		FROM account_results WHERE run_id = ? ORDER BY account_id`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []AccountResult
	for rows.Next() {
		var r AccountResult
		if err := rows.Scan(
			&r.ID,
			&r.RunID,
			&r.AccountID,
			&r.Status,
			&r.TrackerFile,
			&r.BankCount,
			&r.TrackerCount,
			&r.MatchedCount,
			&r.AddCount,
			&r.RemoveCount,
			&r.ReportPath,
			&r.ErrorMessage,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
