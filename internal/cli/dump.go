package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/eshaffer321/concilia/internal/domain/normalize"
	"github.com/eshaffer321/concilia/internal/domain/transaction"
)

// PrintAccountDump prints the bank and tracker entries of one account, each
// sorted by amount, so the two sides can be compared by eye.
func PrintAccountDump(w io.Writer, accountID string, bank, tracker []transaction.Transaction) {
	printSide(w, "BANK", accountID, bank)
	fmt.Fprintln(w)
	printSide(w, "TRACKER", accountID, tracker)
}

func printSide(w io.Writer, label, accountID string, txs []transaction.Transaction) {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b transaction.Transaction) int {
		return a.Amount.Cmp(b.Amount)
	})

	fmt.Fprintf(w, "%s %s: %d\n", label, accountID, len(sorted))
	for _, tx := range sorted {
		fmt.Fprintf(w, "%s %10s %s\n", tx.Date.Format("2006-01-02"), normalize.FormatAmount(tx.Amount), tx.DescriptionRaw)
	}
}
