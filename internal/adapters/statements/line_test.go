package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBankLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Line
	}{
		{
			name: "header",
			in:   "Lançamentos do cartão João Silva Final 1748",
			want: Line{Kind: KindHeader, AccountID: "1748"},
		},
		{
			name: "header uppercase",
			in:   "LANÇAMENTOS DO CARTÃO - FINAL 0042",
			want: Line{Kind: KindHeader, AccountID: "0042"},
		},
		{
			name: "international",
			in:   "12 Mar AMAZON WEB SERVICES USD 20,00",
			want: Line{Kind: KindInternational, Date: "12 Mar", Description: "AMAZON WEB SERVICES", Currency: "USD", Amount: "20,00"},
		},
		{
			name: "international dollar sign",
			in:   "03 Abr Steam Games US$ 9,99",
			want: Line{Kind: KindInternational, Date: "03 Abr", Description: "Steam Games", Currency: "US$", Amount: "9,99"},
		},
		{
			name: "credit",
			in:   "15 Fev Estorno Loja - R$ 50,00",
			want: Line{Kind: KindCredit, Date: "15 Fev", Description: "Estorno Loja", Amount: "50,00"},
		},
		{
			name: "debit",
			in:   "10 Jan Padaria Central R$ 1.234,56",
			want: Line{Kind: KindDebit, Date: "10 Jan", Description: "Padaria Central", Amount: "1.234,56"},
		},
		{
			name: "lowercase word is not a currency",
			in:   "10 Jan Taxa com 12,00",
			want: Line{Kind: KindUnmatched},
		},
		{
			name: "conversion line",
			in:   "Conversão para Real - R$ 110,88",
			want: Line{Kind: KindUnmatched},
		},
		{
			name: "empty",
			in:   "",
			want: Line{Kind: KindUnmatched},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyBankLine(tt.in)
			tt.want.Text = tt.in
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyTrackerLine(t *testing.T) {
	got := ClassifyTrackerLine("  04/02/2026 Omercadeiroiii Mercado R$ -19,99 ")

	assert.Equal(t, KindTrackerLine, got.Kind)
	assert.Equal(t, "04/02/2026", got.Date)
	assert.Equal(t, "Omercadeiroiii Mercado", got.Description)
	assert.Equal(t, "-19,99", got.Amount)

	assert.Equal(t, KindUnmatched, ClassifyTrackerLine("Saldo anterior R$ 10,00").Kind)
	assert.Equal(t, KindUnmatched, ClassifyTrackerLine("04/02/2026 Mercado 19,99").Kind)
}

func TestClassifyRow(t *testing.T) {
	tests := []struct {
		name     string
		cells    []string
		wantKind Kind
		wantDesc string
		wantAmt  string
	}{
		{"full row", []string{"04/02/2026", "Mercado", "Alimentação", "R$ -19,99"}, KindTabularRow, "Mercado Alimentação", "-19,99"},
		{"empty middle cells", []string{"04/02/26", "", "Farmácia", "", "12,50"}, KindTabularRow, "Farmácia", "12,50"},
		{"amount not last", []string{"04/02/2026", "Uber", "8,90", ""}, KindTabularRow, "Uber 8,90", "8,90"},
		{"two cells falls back to second", []string{"04/02/2026", "9,99"}, KindTabularRow, "9,99", "9,99"},
		{"header row", []string{"Data", "Descrição", "Valor"}, KindUnmatched, "", ""},
		{"no amount", []string{"04/02/2026", "Mercado", "n/a"}, KindUnmatched, "", ""},
		{"too short", []string{"04/02/2026"}, KindUnmatched, "", ""},
		{"bad date shape", []string{"4/2/2026", "Mercado", "1,00"}, KindUnmatched, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRow(tt.cells)
			assert.Equal(t, tt.wantKind, got.Kind)
			if tt.wantKind == KindTabularRow {
				assert.Equal(t, tt.wantDesc, got.Description)
				assert.Equal(t, tt.wantAmt, got.Amount)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "header", KindHeader.String())
	assert.Equal(t, "international", KindInternational.String())
	assert.Equal(t, "credit", KindCredit.String())
	assert.Equal(t, "debit", KindDebit.String())
	assert.Equal(t, "tracker_line", KindTrackerLine.String())
	assert.Equal(t, "tabular_row", KindTabularRow.String())
	assert.Equal(t, "unmatched", KindUnmatched.String())
}
