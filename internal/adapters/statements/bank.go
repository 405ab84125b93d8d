package statements

import (
	"iter"
	"regexp"
	"strconv"

	"github.com/eshaffer321/concilia/internal/adapters/document"
	"github.com/eshaffer321/concilia/internal/domain/normalize"
	"github.com/eshaffer321/concilia/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// InternationalSuffix marks descriptions of converted entries.
const InternationalSuffix = " (Internacional)"

var yearRe = regexp.MustCompile(`(?i)de\s+(20\d{2})|Fatura\s+.*?(20\d{2})`)

// InferYear finds the statement year in text, or returns fallback.
func InferYear(text string, fallback int) int {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	for _, g := range m[1:] {
		if y, err := strconv.Atoi(g); err == nil {
			return y
		}
	}
	return fallback
}

// ParseBankStatement lazily yields the transactions of a bank statement.
// Lines before the first card section header are ignored.
func ParseBankStatement(doc *document.Document, opts Options) iter.Seq[transaction.Transaction] {
	opts = opts.withDefaults()

	return func(yield func(transaction.Transaction) bool) {
		year := opts.Year
		if year == 0 {
			year = InferYear(doc.Text(opts.Tolerance), opts.Now().Year())
		}
		p := &bankParser{opts: opts, year: year}

		for _, page := range doc.Pages {
			if !p.parsePage(page.ColumnLines(opts.Tolerance), yield) {
				return
			}
		}
		opts.Diagnostics.Info("bank statement parsed",
			"file", doc.Name,
			"year", year,
			"transactions", p.emitted,
			"dropped_international", p.dropped)
	}
}

type bankParser struct {
	opts    Options
	year    int
	account string
	emitted int
	dropped int
}

func (p *bankParser) parsePage(lines []string, yield func(transaction.Transaction) bool) bool {
	for i := 0; i < len(lines); i++ {
		line := ClassifyBankLine(lines[i])

		if line.Kind == KindHeader {
			p.account = line.AccountID
			p.opts.Diagnostics.Debug("card section", "account", p.account)
			continue
		}
		if p.account == "" {
			continue
		}

		var (
			tx transaction.Transaction
			ok bool
		)
		switch line.Kind {
		case KindInternational:
			tx, ok = p.international(line, lines[i+1:])
		case KindCredit:
			tx, ok = p.domestic(line, true)
		case KindDebit:
			tx, ok = p.domestic(line, false)
		default:
			continue
		}

		if !ok {
			continue
		}
		p.emitted++
		if !yield(tx) {
			return false
		}
	}
	return true
}

func (p *bankParser) domestic(line Line, credit bool) (transaction.Transaction, bool) {
	date, ok := normalize.ParseDate(line.Date, p.year)
	if !ok {
		p.opts.Diagnostics.Debug("skipping line with bad date", "line", line.Text)
		return transaction.Transaction{}, false
	}
	amount, ok := normalize.ParseAmount(line.Amount)
	if !ok {
		p.opts.Diagnostics.Debug("skipping line with bad amount", "line", line.Text)
		return transaction.Transaction{}, false
	}
	if credit {
		amount = amount.Neg()
	}

	return p.build(transaction.Params{
		Date:                  date,
		DescriptionRaw:        line.Description,
		DescriptionNormalized: normalize.Text(line.Description),
		Amount:                &amount,
		Fragments:             []string{line.Text},
	}, line.Text)
}

func (p *bankParser) international(line Line, following []string) (transaction.Transaction, bool) {
	scan := newConversionScan(p.opts.Lookahead)
	for _, next := range following {
		if st := scan.Feed(next); st == scanFound || st == scanExhausted {
			break
		}
	}
	scan.End()

	if scan.state != scanFound {
		p.dropped++
		p.opts.Diagnostics.Warn("international entry without BRL conversion dropped",
			"account", p.account,
			"line", line.Text,
			"lines_scanned", len(scan.fragments))
		return transaction.Transaction{}, false
	}

	date, ok := normalize.ParseDate(line.Date, p.year)
	if !ok {
		p.opts.Diagnostics.Debug("skipping line with bad date", "line", line.Text)
		return transaction.Transaction{}, false
	}

	var foreign *decimal.Decimal
	if v, ok := normalize.ParseAmount(line.Amount); ok {
		foreign = &v
	}
	amount := scan.amount

	return p.build(transaction.Params{
		Date:                  date,
		DescriptionRaw:        line.Description + InternationalSuffix,
		DescriptionNormalized: normalize.Text(line.Description),
		Amount:                &amount,
		ForeignCurrency:       line.Currency,
		ForeignAmount:         foreign,
		Fragments:             append([]string{line.Text}, scan.fragments...),
	}, line.Text)
}

func (p *bankParser) build(params transaction.Params, raw string) (transaction.Transaction, bool) {
	params.AccountID = p.account
	params.Source = transaction.SourceBank
	tx, err := transaction.New(params)
	if err != nil {
		p.opts.Diagnostics.Debug("skipping line", "line", raw, "error", err)
		return transaction.Transaction{}, false
	}
	return tx, true
}
