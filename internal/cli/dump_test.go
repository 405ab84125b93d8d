package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/concilia/internal/domain/transaction"
)

func tx(t *testing.T, source transaction.Source, amount string, date time.Time, desc string) transaction.Transaction {
	t.Helper()
	amt := decimal.RequireFromString(amount)
	out, err := transaction.New(transaction.Params{
		AccountID:      "1748",
		Source:         source,
		Date:           date,
		DescriptionRaw: desc,
		Amount:         &amt,
	})
	require.NoError(t, err)
	return out
}

func TestPrintAccountDump(t *testing.T) {
	jan := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	bank := []transaction.Transaction{
		tx(t, transaction.SourceBank, "1234.56", jan(10), "Padaria"),
		tx(t, transaction.SourceBank, "-50", jan(15), "Estorno"),
	}
	tracker := []transaction.Transaction{
		tx(t, transaction.SourceTracker, "19.99", jan(4), "Mercado"),
	}
	var buf bytes.Buffer

	PrintAccountDump(&buf, "1748", bank, tracker)

	want := "BANK 1748: 2\n" +
		"2024-01-15     -50,00 Estorno\n" +
		"2024-01-10   1.234,56 Padaria\n" +
		"\n" +
		"TRACKER 1748: 1\n" +
		"2024-01-04      19,99 Mercado\n"
	assert.Equal(t, want, buf.String())
}
