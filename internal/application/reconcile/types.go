package reconcile

import (
	"github.com/eshaffer321/concilia/internal/adapters/document"
	"github.com/eshaffer321/concilia/internal/domain/matcher"
	"github.com/eshaffer321/concilia/internal/infrastructure/storage"
)

// Request describes a directory-based reconciliation run
type Request struct {
	BankFile   string
	TrackerDir string
	OutputDir  string
	Password   string
	Workers    int // 0 uses config.Matching.Workers
}

// DocumentsRequest reconciles documents that are already loaded, e.g. uploads
type DocumentsRequest struct {
	Bank      *document.Document
	Trackers  []*document.Document
	OutputDir string
	Workers   int
}

// AccountSummary is the outcome for one card account
type AccountSummary struct {
	AccountID    string `json:"account_id"`
	Status       string `json:"status"`
	TrackerFile  string `json:"tracker_file,omitempty"`
	BankCount    int    `json:"bank_count"`
	TrackerCount int    `json:"tracker_count"`
	MatchedCount int    `json:"matched_count"`
	AddCount     int    `json:"add_count"`
	RemoveCount  int    `json:"remove_count"`
	ReportPath   string `json:"report_path,omitempty"`
	Reason       string `json:"reason,omitempty"`

	// Result is set for reconciled accounts
	Result *matcher.Result `json:"-"`
}

// Summary holds run results
type Summary struct {
	RunID       string           `json:"run_id"`
	BankFile    string           `json:"bank_file"`
	Accounts    []AccountSummary `json:"accounts"` // Sorted by account id
	AddCount    int              `json:"add_count"`
	RemoveCount int              `json:"remove_count"`
}

// Skipped returns the accounts that were not reconciled
func (s *Summary) Skipped() []AccountSummary {
	var out []AccountSummary
	for _, a := range s.Accounts {
		if a.Status != storage.AccountStatusReconciled {
			out = append(out, a)
		}
	}
	return out
}
