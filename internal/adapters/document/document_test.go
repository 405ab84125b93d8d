package document

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFromLines_RoundTripsThroughReconstruction(t *testing.T) {
	doc := FromLines("fixture.pdf",
		[]string{"Fatura de 2024", "10 Mar  Padaria   R$ 12,00"},
		[]string{"second page"},
	)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, []string{"Fatura de 2024", "10 Mar Padaria R$ 12,00"}, doc.Pages[0].ColumnLines(0))
	assert.Equal(t, "Fatura de 2024\n10 Mar Padaria R$ 12,00\nsecond page", doc.Text(0))
}

func TestPage_TableLines(t *testing.T) {
	page := Page{Tables: []Table{{
		{"01/02/2024", "Mercado", "", "R$ -19,99"},
		{"", " ", ""},
		{"Total", "100,00"},
	}}}

	assert.Equal(t, []string{"01/02/2024 Mercado R$ -19,99", "Total 100,00"}, page.TextLines(0))
	assert.Equal(t, page.TextLines(0), page.ColumnLines(0))
}

func TestPage_MidX(t *testing.T) {
	assert.Equal(t, 306.0, Page{X0: 0, X1: 612}.MidX())
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	_, err := Open("statement.docx", OpenOptions{})

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpen_CSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"semicolon", "Data;Descricao;Valor\n04/02/2026;Mercado;-19,99\n"},
		{"comma", "Data,Descricao,Valor\n04/02/2026,Mercado,\"-19,99\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "final_1748.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			doc, err := Open(path, OpenOptions{})

			require.NoError(t, err)
			assert.Equal(t, "final_1748.csv", doc.Name)
			require.Len(t, doc.Pages, 1)
			require.Len(t, doc.Pages[0].Tables, 1)
			assert.Equal(t, []string{"04/02/2026", "Mercado", "-19,99"}, doc.Pages[0].Tables[0][1])
		})
	}
}

func TestOpen_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1748.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Data", "Descricao", "Valor"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"04/02/2026", " Mercado ", "-19,99"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	doc, err := Open(path, OpenOptions{})

	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, Table{{"Data", "Descricao", "Valor"}, {"04/02/2026", "Mercado", "-19,99"}}, doc.Pages[0].Tables[0])
}

func TestOpen_XLSXDateCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1748.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Data", "Descricao", "Valor"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "Padaria", -50.0}))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", 45300))
	custom := "dd/mm/yyyy"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A4", 45336))
	require.NoError(t, f.SetCellStyle("Sheet1", "A4", "A4", style))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	doc, err := Open(path, OpenOptions{})

	require.NoError(t, err)
	table := doc.Pages[0].Tables[0]
	require.Len(t, table, 4)
	assert.Equal(t, []string{"05/01/2024", "Padaria", "-50"}, table[1])
	assert.Equal(t, "45300", table[2][0])
	assert.Equal(t, "14/02/2024", table[3][0])
}

func TestIsDateFormatCode(t *testing.T) {
	assert.True(t, isDateFormatCode("dd/mm/yyyy"))
	assert.True(t, isDateFormatCode("[$-416]d/m/yy;@"))
	assert.False(t, isDateFormatCode("#,##0.00"))
	assert.False(t, isDateFormatCode(`"R$" #,##0.00;[Red]-"R$" #,##0.00`))
}

func TestOpen_CorruptPDFIsUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))

	_, err := Open(path, OpenOptions{Password: "secret"})

	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestOpen_MissingFileIsUnreadable(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"), OpenOptions{})

	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter("a;b;c\n1,2;3;4"))
	assert.Equal(t, ',', detectDelimiter("a,b,c"))
	assert.Equal(t, ',', detectDelimiter(""))
}
