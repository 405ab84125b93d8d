package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/concilia/internal/application/reconcile"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, bankFile, trackerDir string) {
	fmt.Fprintf(w, "concilia: %s vs %s\n\n", bankFile, trackerDir)
}

// PrintSummary prints one line per account followed by the totals
func PrintSummary(w io.Writer, summary *reconcile.Summary) {
	fmt.Fprintf(w, "%-8s %-11s %6s %8s %8s %5s %7s  %s\n",
		"ACCOUNT", "STATUS", "BANK", "TRACKER", "MATCHED", "ADD", "REMOVE", "REPORT")
	fmt.Fprintln(w, strings.Repeat("-", 72))

	for _, a := range summary.Accounts {
		detail := a.ReportPath
		if a.Reason != "" {
			detail = a.Reason
		} else if detail == "" {
			detail = "no differences"
		}
		fmt.Fprintf(w, "%-8s %-11s %6d %8d %8d %5d %7d  %s\n",
			a.AccountID, a.Status, a.BankCount, a.TrackerCount, a.MatchedCount, a.AddCount, a.RemoveCount, detail)
	}

	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "Summary: Accounts=%d Skipped=%d Add=%d Remove=%d\n",
		len(summary.Accounts),
		len(summary.Skipped()),
		summary.AddCount,
		summary.RemoveCount)
	fmt.Fprintf(w, "Run: %s\n", summary.RunID)
}
