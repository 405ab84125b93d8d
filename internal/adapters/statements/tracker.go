package statements

import (
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/eshaffer321/concilia/internal/adapters/document"
	"github.com/eshaffer321/concilia/internal/domain/normalize"
	"github.com/eshaffer321/concilia/internal/domain/transaction"
)

// ErrAccountUnresolved means no card account could be found for a tracker file.
var ErrAccountUnresolved = errors.New("tracker account could not be resolved")

var (
	accountStemRe     = regexp.MustCompile(`^\d{4}$`)
	accountFilenameRe = regexp.MustCompile(`(?i)final_(\d{4})`)
	accountTextRe     = regexp.MustCompile(`(?i)Final\s+(\d{4})`)
)

// ResolveTrackerAccount finds the card account of a tracker statement from
// its file name ("1748.pdf", "final_1748.pdf") or its text ("Final 1748").
func ResolveTrackerAccount(filename, text string) (string, bool) {
	base := filepath.Base(filename)
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if accountStemRe.MatchString(stem) {
		return stem, true
	}
	if m := accountFilenameRe.FindStringSubmatch(base); m != nil {
		return m[1], true
	}
	if m := accountTextRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// ParseTrackerStatement resolves the account of a tracker statement and
// returns a lazy stream of its transactions with amounts negated.
// filenameHint is used for account resolution; doc.Name is used when empty.
func ParseTrackerStatement(doc *document.Document, filenameHint string, opts Options) (iter.Seq[transaction.Transaction], error) {
	opts = opts.withDefaults()
	if filenameHint == "" {
		filenameHint = doc.Name
	}

	account, ok := ResolveTrackerAccount(filenameHint, doc.Text(opts.Tolerance))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountUnresolved, filenameHint)
	}

	return func(yield func(transaction.Transaction) bool) {
		total := 0
		for _, page := range doc.Pages {
			var txs []transaction.Transaction
			for _, table := range page.Tables {
				for _, row := range table {
					line := ClassifyRow(row)
					if line.Kind != KindTabularRow {
						continue
					}
					if tx, ok := trackerTransaction(account, line, opts); ok {
						txs = append(txs, tx)
					}
				}
			}

			if len(txs) == 0 {
				for _, text := range page.TextLines(opts.Tolerance) {
					line := ClassifyTrackerLine(text)
					if line.Kind != KindTrackerLine {
						continue
					}
					if tx, ok := trackerTransaction(account, line, opts); ok {
						txs = append(txs, tx)
					}
				}
			}

			for _, tx := range txs {
				total++
				if !yield(tx) {
					return
				}
			}
		}
		opts.Diagnostics.Info("tracker statement parsed",
			"file", filenameHint,
			"account", account,
			"transactions", total)
	}, nil
}

func trackerTransaction(account string, line Line, opts Options) (transaction.Transaction, bool) {
	date, ok := normalize.ParseDate(line.Date, 0)
	if !ok {
		opts.Diagnostics.Debug("skipping tracker row with bad date", "row", line.Text)
		return transaction.Transaction{}, false
	}
	amount, ok := normalize.ParseAmount(line.Amount)
	if !ok {
		opts.Diagnostics.Debug("skipping tracker row with bad amount", "row", line.Text)
		return transaction.Transaction{}, false
	}
	amount = amount.Neg()

	tx, err := transaction.New(transaction.Params{
		AccountID:             account,
		Source:                transaction.SourceTracker,
		Date:                  date,
		DescriptionRaw:        line.Description,
		DescriptionNormalized: normalize.Text(line.Description),
		Amount:                &amount,
		Fragments:             []string{line.Text},
	})
	if err != nil {
		opts.Diagnostics.Debug("skipping tracker row", "row", line.Text, "error", err)
		return transaction.Transaction{}, false
	}
	return tx, true
}
