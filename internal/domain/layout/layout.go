// Package layout rebuilds reading-order text lines from positioned word
// tokens, keeping the two columns of a statement page apart.
package layout

import (
	"math"
	"sort"
	"strings"
)

// DefaultTolerance is the vertical distance within which tokens share a line.
const DefaultTolerance = 3.0

// Token is a positioned word. Top grows downwards from the page top.
type Token struct {
	Top  float64
	X0   float64
	X1   float64
	Text string
}

// Line is a reconstructed line of text.
type Line struct {
	Top  float64
	X0   float64
	X1   float64
	Text string
}

// Options controls Reconstruct.
type Options struct {
	// MidX is the horizontal split point between the left and right column.
	MidX float64
	// Tolerance is the maximum Top distance from the first token of a row.
	// Zero means DefaultTolerance.
	Tolerance float64
	// SplitColumns emits left and right halves of a row as separate lines.
	SplitColumns bool
}

// Reconstruct clusters tokens into rows and returns lines sorted by (Top, X0).
// A row collects consecutive tokens (in (Top, X0) order) whose Top is within
// Tolerance of the row's first token. With SplitColumns, tokens with
// X0 < MidX form the left line and the rest the right line.
func Reconstruct(tokens []Token, opts Options) []Line {
	if len(tokens) == 0 {
		return nil
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	sorted := append([]Token(nil), tokens...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var rows [][]Token
	rowTop := sorted[0].Top
	current := []Token{sorted[0]}
	for _, tok := range sorted[1:] {
		if math.Abs(tok.Top-rowTop) <= tol {
			current = append(current, tok)
			continue
		}
		rows = append(rows, current)
		rowTop = tok.Top
		current = []Token{tok}
	}
	rows = append(rows, current)

	var lines []Line
	for _, row := range rows {
		if !opts.SplitColumns {
			if ln, ok := joinTokens(row); ok {
				lines = append(lines, ln)
			}
			continue
		}

		var left, right []Token
		for _, tok := range row {
			if tok.X0 < opts.MidX {
				left = append(left, tok)
			} else {
				right = append(right, tok)
			}
		}
		for _, part := range [][]Token{left, right} {
			if ln, ok := joinTokens(part); ok {
				lines = append(lines, ln)
			}
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Top != lines[j].Top {
			return lines[i].Top < lines[j].Top
		}
		return lines[i].X0 < lines[j].X0
	})
	return lines
}

func joinTokens(part []Token) (Line, bool) {
	if len(part) == 0 {
		return Line{}, false
	}
	part = append([]Token(nil), part...)
	sort.SliceStable(part, func(i, j int) bool { return part[i].X0 < part[j].X0 })

	texts := make([]string, 0, len(part))
	ln := Line{X0: part[0].X0, X1: part[0].X1}
	var topSum float64
	for _, tok := range part {
		texts = append(texts, tok.Text)
		ln.X0 = math.Min(ln.X0, tok.X0)
		ln.X1 = math.Max(ln.X1, tok.X1)
		topSum += tok.Top
	}

	ln.Text = strings.TrimSpace(strings.Join(texts, " "))
	if ln.Text == "" {
		return Line{}, false
	}
	ln.Top = topSum / float64(len(part))
	return ln, true
}

// Texts returns the text of each line.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln.Text
	}
	return out
}
