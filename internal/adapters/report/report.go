// Package report writes per-account difference spreadsheets.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/eshaffer321/concilia/internal/domain/matcher"
	"github.com/eshaffer321/concilia/internal/domain/transaction"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Action says what to do in the tracker to match the bank.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionRemove Action = "REMOVE"
)

const (
	DetailSheet  = "differences"
	SummarySheet = "summary"
)

// Columns is the detail sheet header.
var Columns = []string{
	"action", "account_id", "date", "description", "amount", "source", "foreign_currency", "foreign_amount",
}

// Row is one difference line.
type Row struct {
	Action          Action           `json:"action"`
	AccountID       string           `json:"account_id"`
	Date            time.Time        `json:"date"`
	Description     string           `json:"description"`
	Amount          decimal.Decimal  `json:"amount"`
	Source          string           `json:"source"`
	ForeignCurrency string           `json:"foreign_currency,omitempty"`
	ForeignAmount   *decimal.Decimal `json:"foreign_amount,omitempty"`
}

func newRow(action Action, tx transaction.Transaction) Row {
	row := Row{
		Action:          action,
		AccountID:       tx.AccountID,
		Date:            tx.Date,
		Description:     tx.DescriptionRaw,
		Amount:          tx.Amount,
		Source:          string(tx.Source),
		ForeignCurrency: tx.ForeignCurrency,
	}
	if foreign, ok := tx.ForeignAmount(); ok {
		row.ForeignAmount = &foreign
	}
	return row
}

// Rows lists the differences of result sorted by absolute amount, then
// action, then date. Equal keys keep ADD rows before REMOVE rows and
// otherwise input order.
func Rows(result matcher.Result) []Row {
	rows := make([]Row, 0, len(result.MissingInTracker)+len(result.ExtraInTracker))
	for _, tx := range result.MissingInTracker {
		rows = append(rows, newRow(ActionAdd, tx))
	}
	for _, tx := range result.ExtraInTracker {
		rows = append(rows, newRow(ActionRemove, tx))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := a.Amount.Abs().Cmp(b.Amount.Abs()); c != 0 {
			return c < 0
		}
		if a.Action != b.Action {
			return a.Action < b.Action
		}
		return a.Date.Before(b.Date)
	})
	return rows
}

// Summary counts the differences of one account.
type Summary struct {
	AccountID   string `json:"account_id"`
	AddCount    int    `json:"add_count"`
	RemoveCount int    `json:"remove_count"`
}

// Summarize returns the counts for result.
func Summarize(result matcher.Result) Summary {
	return Summary{
		AccountID:   result.AccountID,
		AddCount:    len(result.MissingInTracker),
		RemoveCount: len(result.ExtraInTracker),
	}
}

// FileName is the report file name for an account.
func FileName(accountID string) string {
	return accountID + "_differences.xlsx"
}

// Writer renders results into xlsx files under a directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer for dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// Write renders one account. It returns "" and writes nothing when the
// account has no differences.
func (w *Writer) Write(result matcher.Result) (string, error) {
	if !result.HasDifferences() {
		w.logger.Info("no differences, no report written", "account", result.AccountID)
		return "", nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DetailSheet); err != nil {
		return "", err
	}
	if err := writeDetail(f, Rows(result)); err != nil {
		return "", fmt.Errorf("failed to write %s sheet: %w", DetailSheet, err)
	}
	if err := writeSummary(f, Summarize(result)); err != nil {
		return "", fmt.Errorf("failed to write %s sheet: %w", SummarySheet, err)
	}

	path := filepath.Join(w.dir, FileName(result.AccountID))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	w.logger.Info("report written",
		"account", result.AccountID,
		"path", path,
		"add", len(result.MissingInTracker),
		"remove", len(result.ExtraInTracker))
	return path, nil
}

// WriteAll renders every result in account order and returns the paths
// written, keyed by account.
func (w *Writer) WriteAll(results map[string]matcher.Result) (map[string]string, error) {
	paths := make(map[string]string)
	for _, acct := range matcher.SortedAccounts(results) {
		path, err := w.Write(results[acct])
		if err != nil {
			return paths, fmt.Errorf("account %s: %w", acct, err)
		}
		if path != "" {
			paths[acct] = path
		}
	}
	return paths, nil
}

func writeDetail(f *excelize.File, rows []Row) error {
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(DetailSheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range rows {
		var foreign any = ""
		if r.ForeignAmount != nil {
			foreign = r.ForeignAmount.InexactFloat64()
		}
		values := []any{
			string(r.Action),
			r.AccountID,
			r.Date.Format("2006-01-02"),
			r.Description,
			r.Amount.InexactFloat64(),
			r.Source,
			r.ForeignCurrency,
			foreign,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DetailSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, s Summary) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	rows := [][]any{
		{"field", "value"},
		{"account_id", s.AccountID},
		{"add_count", s.AddCount},
		{"remove_count", s.RemoveCount},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}
