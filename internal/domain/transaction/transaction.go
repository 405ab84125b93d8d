// Package transaction defines the immutable transaction record produced by
// the statement grammars and consumed by the matcher.
package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies which statement a transaction came from.
type Source string

const (
	SourceBank    Source = "BANK"
	SourceTracker Source = "TRACKER"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceBank || s == SourceTracker
}

var (
	ErrMissingAmount  = errors.New("transaction amount is required")
	ErrMissingDate    = errors.New("transaction date is required")
	ErrMissingAccount = errors.New("transaction account id is required")
	ErrInvalidSource  = errors.New("transaction source is invalid")
)

// Transaction is a single card movement. Amounts are in BRL, positive for
// debits and negative for credits or refunds.
type Transaction struct {
	AccountID             string
	Source                Source
	Date                  time.Time
	DescriptionRaw        string
	DescriptionNormalized string
	Amount                decimal.Decimal

	// Set only for cross-currency entries.
	ForeignCurrency string

	foreignAmount decimal.Decimal
	hasForeign    bool
	fragments     []string
}

// Params carries the fields for New. Amount is a pointer so that a missing
// amount can be told apart from zero.
type Params struct {
	AccountID             string
	Source                Source
	Date                  time.Time
	DescriptionRaw        string
	DescriptionNormalized string
	Amount                *decimal.Decimal
	ForeignCurrency       string
	ForeignAmount         *decimal.Decimal
	Fragments             []string
}

// New validates p and builds a Transaction.
func New(p Params) (Transaction, error) {
	if p.Amount == nil {
		return Transaction{}, ErrMissingAmount
	}
	if p.Date.IsZero() {
		return Transaction{}, ErrMissingDate
	}
	if p.AccountID == "" {
		return Transaction{}, ErrMissingAccount
	}
	if !p.Source.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidSource, p.Source)
	}

	tx := Transaction{
		AccountID:             p.AccountID,
		Source:                p.Source,
		Date:                  p.Date,
		DescriptionRaw:        p.DescriptionRaw,
		DescriptionNormalized: p.DescriptionNormalized,
		Amount:                *p.Amount,
		ForeignCurrency:       p.ForeignCurrency,
	}
	if p.ForeignAmount != nil {
		tx.foreignAmount = *p.ForeignAmount
		tx.hasForeign = true
	}
	if len(p.Fragments) > 0 {
		tx.fragments = append([]string(nil), p.Fragments...)
	}
	return tx, nil
}

// Fragments returns a copy of the raw lines or rows the record was built from.
func (t Transaction) Fragments() []string {
	return append([]string(nil), t.fragments...)
}

// ForeignAmount returns the amount in the original currency. The second
// return value is false when none was recorded.
func (t Transaction) ForeignAmount() (decimal.Decimal, bool) {
	return t.foreignAmount, t.hasForeign
}

// IsForeign reports whether the transaction was converted from another currency.
func (t Transaction) IsForeign() bool {
	return t.ForeignCurrency != ""
}

// GroupByAccount splits txs by AccountID, keeping input order in each group.
func GroupByAccount(txs []Transaction) map[string][]Transaction {
	out := make(map[string][]Transaction)
	for _, tx := range txs {
		out[tx.AccountID] = append(out[tx.AccountID], tx)
	}
	return out
}
