package statements

import (
	"regexp"

	"github.com/eshaffer321/concilia/internal/domain/normalize"
	"github.com/shopspring/decimal"
)

// DefaultLookahead is how many lines after an international entry are
// searched for its BRL conversion.
const DefaultLookahead = 15

// MaxLookahead bounds the configurable lookahead window.
const MaxLookahead = 16

var (
	conversionRe     = regexp.MustCompile(`(?i)Convers[aã]o\s+para\s+Real\b.*?(?:R\$\s*)?(-?[\d.,]+)`)
	conversionWordRe = regexp.MustCompile(`(?i)Convers[aã]o\s+para\s+Real\b`)
	brlInLineRe      = regexp.MustCompile(`(?:R\$\s*)?(-?\d{1,3}(?:\.\d{3})*,\d{2}|-?\d+,\d{2})`)
)

type scanState int

const (
	// awaitingConversion looks for a conversion line, with or without value.
	awaitingConversion scanState = iota
	// awaitingValue has seen a bare conversion line and takes the next BRL value.
	awaitingValue
	scanFound
	scanExhausted
)

// conversionScan is the bounded search for the BRL value of an
// international entry. Feed it the lines following the entry until it
// reports found or exhausted.
type conversionScan struct {
	state     scanState
	remaining int
	amount    decimal.Decimal
	fragments []string
}

func newConversionScan(budget int) *conversionScan {
	if budget <= 0 {
		budget = DefaultLookahead
	}
	if budget > MaxLookahead {
		budget = MaxLookahead
	}
	return &conversionScan{state: awaitingConversion, remaining: budget}
}

// Feed consumes one line and returns the new state.
func (s *conversionScan) Feed(line string) scanState {
	if s.done() {
		return s.state
	}
	if s.remaining == 0 {
		s.state = scanExhausted
		return s.state
	}
	s.remaining--
	s.fragments = append(s.fragments, line)

	if m := conversionRe.FindStringSubmatch(line); m != nil {
		if v, ok := normalize.ParseAmount(m[1]); ok {
			return s.found(v)
		}
	}

	if conversionWordRe.MatchString(line) && !brlInLineRe.MatchString(line) {
		s.state = awaitingValue
	} else if s.state == awaitingValue {
		if m := brlInLineRe.FindStringSubmatch(line); m != nil {
			if v, ok := normalize.ParseAmount(m[1]); ok {
				return s.found(v)
			}
		}
	}

	if s.remaining == 0 {
		s.state = scanExhausted
	}
	return s.state
}

// End marks the scan exhausted when the page runs out of lines.
func (s *conversionScan) End() {
	if !s.done() {
		s.state = scanExhausted
	}
}

func (s *conversionScan) found(v decimal.Decimal) scanState {
	s.amount = v
	s.state = scanFound
	return s.state
}

func (s *conversionScan) done() bool {
	return s.state == scanFound || s.state == scanExhausted
}
