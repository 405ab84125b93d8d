package dto

import (
	"time"

	"github.com/eshaffer321/concilia/internal/adapters/report"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// RunResponse represents a reconciliation run in API responses.
type RunResponse struct {
	ID           string                  `json:"id"`
	StartedAt    string                  `json:"started_at"`
	CompletedAt  string                  `json:"completed_at,omitempty"`
	BankFile     string                  `json:"bank_file"`
	TrackerDir   string                  `json:"tracker_dir"`
	Status       string                  `json:"status"`
	Accounts     int                     `json:"accounts"`
	AddCount     int                     `json:"add_count"`
	RemoveCount  int                     `json:"remove_count"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	Results      []AccountResultResponse `json:"results,omitempty"`
}

// AccountResultResponse is the stored outcome of one account.
type AccountResultResponse struct {
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

// RunListResponse is returned when listing runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// AccountDifferences is one account of a reconcile response.
type AccountDifferences struct {
	AccountResultResponse
	Differences []report.Row `json:"differences"`
}

// ReconcileResponse is returned by POST /api/reconcile.
type ReconcileResponse struct {
	RunID       string               `json:"run_id"`
	AddCount    int                  `json:"add_count"`
	RemoveCount int                  `json:"remove_count"`
	Accounts    []AccountDifferences `json:"accounts"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
