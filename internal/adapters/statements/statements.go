// Package statements turns loaded bank and tracker statements into
// transaction streams.
//
// The bank grammar walks reconstructed column lines with a current card
// account set by section headers. International entries open a bounded
// lookahead for their BRL conversion and are dropped with a warning when
// none is found. The tracker grammar reads table rows and falls back to
// text lines on pages where no row qualified; tracker amounts are negated
// so that both sources share the bank's sign convention.
package statements

import (
	"log/slog"
	"time"
)

// Diagnostics receives parse events. *slog.Logger satisfies it.
type Diagnostics interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options configures both grammars.
type Options struct {
	// Tolerance is the vertical line tolerance for reconstruction.
	Tolerance float64
	// Lookahead is the conversion search budget, 1 to MaxLookahead.
	Lookahead int
	// Year overrides the inferred statement year when non-zero.
	Year int
	// Now supplies the fallback year. Defaults to time.Now.
	Now         func() time.Time
	Diagnostics Diagnostics
}

func (o Options) withDefaults() Options {
	if o.Lookahead <= 0 {
		o.Lookahead = DefaultLookahead
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Diagnostics == nil {
		o.Diagnostics = slog.New(slog.DiscardHandler)
	}
	return o
}
