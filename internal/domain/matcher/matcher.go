// Package matcher reconciles bank and tracker transactions for one card
// account.
//
// Tracker entries are bucketed by amount rounded to cents. Each bank entry,
// in input order, looks for unconsumed candidates in three passes:
//   - the same amount
//   - the sign-inverted amount
//   - either sign of the absolute amount
//
// The first non-empty pass wins. Among its candidates the one with the
// smallest day distance is chosen, then the highest description similarity,
// then the earliest in tracker order. Bank entries with no candidate are
// missing in the tracker; tracker entries never consumed are extra.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	result := m.Reconcile("1234", bankTxs, trackerTxs)
//	for _, tx := range result.MissingInTracker {
//		// add to tracker
//	}
package matcher

import (
	"sort"

	"github.com/eshaffer321/concilia/internal/domain/normalize"
	"github.com/eshaffer321/concilia/internal/domain/transaction"
)

// Matcher reconciles transaction sets
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config) *Matcher {
	if config.MissingDateDistance <= 0 {
		config.MissingDateDistance = MissingDateDistance
	}
	return &Matcher{
		config: config,
	}
}

// Reconcile matches bank against tracker for a single account. Both slices
// are assumed to belong to accountID; nothing here crosses accounts.
func (m *Matcher) Reconcile(accountID string, bank, tracker []transaction.Transaction) Result {
	index := make(map[string][]int)
	for i, tx := range tracker {
		key := normalize.AmountKey(tx.Amount)
		index[key] = append(index[key], i)
	}

	consumed := make(map[int]bool, len(tracker))
	result := Result{AccountID: accountID}

	for _, b := range bank {
		candidates, pass := m.candidates(b, index, consumed)
		if len(candidates) == 0 {
			result.MissingInTracker = append(result.MissingInTracker, b)
			continue
		}

		best := -1
		bestDays, bestSim := 0, 0.0
		for _, idx := range candidates {
			days := m.dayDistance(b, tracker[idx])
			sim := Similarity(b.DescriptionNormalized, tracker[idx].DescriptionNormalized)
			if best < 0 || days < bestDays || (days == bestDays && sim > bestSim) {
				best, bestDays, bestSim = idx, days, sim
			}
		}

		consumed[best] = true
		result.Matches = append(result.Matches, Match{
			Bank:         b,
			Tracker:      tracker[best],
			TrackerIndex: best,
			Pass:         pass,
			DayDistance:  bestDays,
			Similarity:   bestSim,
		})
	}

	for i, tx := range tracker {
		if !consumed[i] {
			result.ExtraInTracker = append(result.ExtraInTracker, tx)
		}
	}

	return result
}

func (m *Matcher) candidates(b transaction.Transaction, index map[string][]int, consumed map[int]bool) ([]int, Pass) {
	available := func(keys ...string) []int {
		var out []int
		for _, key := range keys {
			for _, idx := range index[key] {
				if !consumed[idx] {
					out = append(out, idx)
				}
			}
		}
		return out
	}

	if c := available(normalize.AmountKey(b.Amount)); len(c) > 0 {
		return c, PassExact
	}
	if c := available(normalize.AmountKey(b.Amount.Neg())); len(c) > 0 {
		return c, PassInverted
	}
	abs := b.Amount.Abs()
	if c := available(normalize.AmountKey(abs), normalize.AmountKey(abs.Neg())); len(c) > 0 {
		return c, PassAbsolute
	}
	return nil, 0
}

func (m *Matcher) dayDistance(a, b transaction.Transaction) int {
	if a.Date.IsZero() || b.Date.IsZero() {
		return m.config.MissingDateDistance
	}
	return normalize.DaysBetween(a.Date, b.Date)
}

// ReconcileByAccount groups both sides by account and reconciles each
// account present on either side.
func (m *Matcher) ReconcileByAccount(bank, tracker []transaction.Transaction) map[string]Result {
	bankBy := transaction.GroupByAccount(bank)
	trackerBy := transaction.GroupByAccount(tracker)

	accounts := make(map[string]struct{}, len(bankBy)+len(trackerBy))
	for acct := range bankBy {
		accounts[acct] = struct{}{}
	}
	for acct := range trackerBy {
		accounts[acct] = struct{}{}
	}

	results := make(map[string]Result, len(accounts))
	for acct := range accounts {
		results[acct] = m.Reconcile(acct, bankBy[acct], trackerBy[acct])
	}
	return results
}

// SortedAccounts returns the account ids of results in ascending order.
func SortedAccounts(results map[string]Result) []string {
	out := make([]string, 0, len(results))
	for acct := range results {
		out = append(out, acct)
	}
	sort.Strings(out)
	return out
}
