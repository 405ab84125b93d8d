package statements

import (
	"regexp"
	"strings"
)

// Kind is the shape of a classified statement line.
type Kind int

const (
	KindUnmatched Kind = iota
	KindHeader
	KindInternational
	KindCredit
	KindDebit
	KindTrackerLine
	KindTabularRow
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindInternational:
		return "international"
	case KindCredit:
		return "credit"
	case KindDebit:
		return "debit"
	case KindTrackerLine:
		return "tracker_line"
	case KindTabularRow:
		return "tabular_row"
	default:
		return "unmatched"
	}
}

// Line is a classified line with the fields its shape captures.
//
//	Header:        AccountID
//	International: Date, Description, Currency, Amount (foreign)
//	Credit, Debit: Date, Description, Amount
//	TrackerLine:   Date, Description, Amount
//	TabularRow:    Date, Description, Amount
type Line struct {
	Kind        Kind
	Text        string
	AccountID   string
	Date        string
	Description string
	Currency    string
	Amount      string
}

var (
	headerRe        = regexp.MustCompile(`(?i)Lançamentos\s+do\s+cart[aã]o.*?\bFinal\s+(\d{4})\b`)
	internationalRe = regexp.MustCompile(`(?i)^(\d{2}\s+\w{3})\s+(.+?)\s+((?-i:[A-Z]{3})|US\$|U\$)\s*([\d.,]+)\s*$`)
	creditRe        = regexp.MustCompile(`(?i)^(\d{2}\s+\w{3})\s+(.+?)\s*-\s*R\$\s*([\d.,]+)\s*$`)
	debitRe         = regexp.MustCompile(`(?i)^(\d{2}\s+\w{3})\s+(.+?)\s+R\$\s*([\d.,]+)\s*$`)

	trackerLineRe = regexp.MustCompile(`^(\d{2}/\d{2}/\d{2,4})\s+(.+?)\s+R\$\s*(-?[\d.,]+)\s*$`)
	rowDateRe     = regexp.MustCompile(`^\d{2}/\d{2}/\d{2,4}$`)
	rowAmountRe   = regexp.MustCompile(`^-?[\d.,]+$`)
)

// ClassifyBankLine returns the first bank shape text matches, trying
// header, international, credit and debit in that order.
func ClassifyBankLine(text string) Line {
	if m := headerRe.FindStringSubmatch(text); m != nil {
		return Line{Kind: KindHeader, Text: text, AccountID: m[1]}
	}
	if m := internationalRe.FindStringSubmatch(text); m != nil {
		return Line{
			Kind:        KindInternational,
			Text:        text,
			Date:        m[1],
			Description: strings.TrimSpace(m[2]),
			Currency:    m[3],
			Amount:      m[4],
		}
	}
	if m := creditRe.FindStringSubmatch(text); m != nil {
		return Line{Kind: KindCredit, Text: text, Date: m[1], Description: strings.TrimSpace(m[2]), Amount: m[3]}
	}
	if m := debitRe.FindStringSubmatch(text); m != nil {
		return Line{Kind: KindDebit, Text: text, Date: m[1], Description: strings.TrimSpace(m[2]), Amount: m[3]}
	}
	return Line{Kind: KindUnmatched, Text: text}
}

// ClassifyTrackerLine recognises "dd/mm/yyyy description R$ amount".
func ClassifyTrackerLine(text string) Line {
	text = strings.TrimSpace(text)
	if m := trackerLineRe.FindStringSubmatch(text); m != nil {
		return Line{Kind: KindTrackerLine, Text: text, Date: m[1], Description: strings.TrimSpace(m[2]), Amount: m[3]}
	}
	return Line{Kind: KindUnmatched, Text: text}
}

// ClassifyRow recognises a table row whose first cell is a date and which
// carries an amount cell, scanning cells from the end. The description is
// the non-empty middle cells, falling back to the second cell.
func ClassifyRow(cells []string) Line {
	text := strings.Join(cells, " | ")
	unmatched := Line{Kind: KindUnmatched, Text: text}
	if len(cells) < 2 {
		return unmatched
	}

	date := strings.TrimSpace(cells[0])
	if !rowDateRe.MatchString(date) {
		return unmatched
	}

	amount := ""
	for i := len(cells) - 1; i >= 0; i-- {
		c := strings.TrimSpace(strings.ReplaceAll(cells[i], "R$", ""))
		c = strings.Join(strings.Fields(c), "")
		if c != "" && rowAmountRe.MatchString(c) {
			amount = c
			break
		}
	}
	if amount == "" {
		return unmatched
	}

	var middle []string
	for _, c := range cells[1 : len(cells)-1] {
		if c = strings.TrimSpace(c); c != "" {
			middle = append(middle, c)
		}
	}
	desc := strings.Join(middle, " ")
	if desc == "" {
		desc = strings.TrimSpace(cells[1])
	}
	if desc == "" {
		return unmatched
	}

	return Line{Kind: KindTabularRow, Text: text, Date: date, Description: desc, Amount: amount}
}
