package storage

import "time"

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Account result statuses
const (
	AccountStatusReconciled = "reconciled"
	AccountStatusSkipped    = "skipped"
	AccountStatusFailed     = "failed"
)

// Run is one reconciliation of a bank statement against a tracker directory.
type Run struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	BankFile     string     `json:"bank_file"`
	TrackerDir   string     `json:"tracker_dir"`
	Status       string     `json:"status"`
	Accounts     int        `json:"accounts"`
	AddCount     int        `json:"add_count"`
	RemoveCount  int        `json:"remove_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// RunOutcome carries the totals recorded when a run finishes.
type RunOutcome struct {
	Status       string
	Accounts     int
	AddCount     int
	RemoveCount  int
	ErrorMessage string
}

// AccountResult is the outcome of reconciling one card account in a run.
type AccountResult struct {
	ID           int64  `json:"id"`
	RunID        string `json:"run_id"`
	AccountID    string `json:"account_id"`
	Status       string `json:"status"`
	TrackerFile  string `json:"tracker_file,omitempty"`
	BankCount    int    `json:"bank_count"`
	TrackerCount int    `json:"tracker_count"`
	MatchedCount int    `json:"matched_count"`
	AddCount     int    `json:"add_count"`
	RemoveCount  int    `json:"remove_count"`
	ReportPath   string `json:"report_path,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
