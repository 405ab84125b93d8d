package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory)
// and makes testing with mocks straightforward.
type Repository interface {
	RunRepository
	AccountResultRepository
	Close() error
}

// RunRepository handles reconciliation run tracking
type RunRepository interface {
	// StartRun records the start of a run. An empty run.ID is filled with a new UUID.
	StartRun(run *Run) error

	// CompleteRun records the outcome of a run
	CompleteRun(runID string, outcome RunOutcome) error

	// GetRun retrieves a run by ID, or ErrNotFound
	GetRun(runID string) (*Run, error)

	// ListRuns returns the most recent runs first
	ListRuns(limit int) ([]Run, error)
}

// AccountResultRepository handles per-account outcomes of a run
type AccountResultRepository interface {
	// SaveAccountResult stores the outcome for one account of a run
	SaveAccountResult(result *AccountResult) error

	// ListAccountResults returns the account outcomes of a run ordered by account
	ListAccountResults(runID string) ([]AccountResult, error)
}
