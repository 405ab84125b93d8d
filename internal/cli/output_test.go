package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/concilia/internal/application/reconcile"
	"github.com/eshaffer321/concilia/internal/infrastructure/storage"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := &reconcile.Summary{
		RunID: "run-1",
		Accounts: []reconcile.AccountSummary{
			{AccountID: "1748", Status: storage.AccountStatusReconciled, BankCount: 3, TrackerCount: 2, MatchedCount: 2, AddCount: 1, ReportPath: "out/1748_differences.xlsx"},
			{AccountID: "2222", Status: storage.AccountStatusReconciled, BankCount: 1, TrackerCount: 1, MatchedCount: 1},
			{AccountID: "9999", Status: storage.AccountStatusSkipped, BankCount: 1, Reason: "tracker file not found"},
		},
		AddCount: 1,
	}

	PrintSummary(&buf, summary)

	out := buf.String()
	assert.Contains(t, out, "out/1748_differences.xlsx")
	assert.Contains(t, out, "no differences")
	assert.Contains(t, out, "tracker file not found")
	assert.Contains(t, out, "Summary: Accounts=3 Skipped=1 Add=1 Remove=0")
	assert.Contains(t, out, "Run: run-1")
}
