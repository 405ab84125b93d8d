package matcher

import (
	"github.com/eshaffer321/concilia/internal/domain/transaction"
)

// MissingDateDistance is the day distance used when either side lacks a date.
const MissingDateDistance = 9999

// Config holds matcher configuration
type Config struct {
	MissingDateDistance int // Default: 9999
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MissingDateDistance: MissingDateDistance,
	}
}

// Pass identifies which amount lookup produced a match.
type Pass int

const (
	PassExact Pass = iota + 1
	PassInverted
	PassAbsolute
)

func (p Pass) String() string {
	switch p {
	case PassExact:
		return "exact"
	case PassInverted:
		return "inverted"
	case PassAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// Match pairs a bank entry with the tracker entry it consumed.
type Match struct {
	Bank         transaction.Transaction
	Tracker      transaction.Transaction
	TrackerIndex int
	Pass         Pass
	DayDistance  int
	Similarity   float64 // 0-100
}

// Result is the outcome of reconciling one account.
type Result struct {
	AccountID string

	// MissingInTracker are bank entries with no tracker counterpart (ADD).
	MissingInTracker []transaction.Transaction
	// ExtraInTracker are tracker entries no bank entry consumed (REMOVE).
	ExtraInTracker []transaction.Transaction

	Matches []Match
}

// HasDifferences reports whether anything needs to be added or removed.
func (r Result) HasDifferences() bool {
	return len(r.MissingInTracker) > 0 || len(r.ExtraInTracker) > 0
}
