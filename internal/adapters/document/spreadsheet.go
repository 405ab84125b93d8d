package document

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

func openXLSX(path string, opts OpenOptions) (*Document, error) {
	f, err := excelize.OpenFile(path, excelize.Options{Password: opts.Password})
	if err != nil && opts.Password != "" {
		opts.Logger.Warn("xlsx open with password failed, retrying without", "file", path, "error", err)
		f, err = excelize.OpenFile(path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := &Document{}
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		if err := rewriteDateCells(f, sheet, rows); err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Tables: []Table{trimTable(rows)}})
	}
	return doc, nil
}

// rewriteDateCells replaces the display text of date-styled cells
// ("01-05-24" under the default mm-dd-yy format) with dd/mm/yyyy.
func rewriteDateCells(f *excelize.File, sheet string, rows [][]string) error {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}
	dateStyles := make(map[int]bool)
	for r, row := range rows {
		if r >= len(raw) {
			break
		}
		for c := range row {
			if c >= len(raw[r]) || raw[r][c] == "" {
				continue
			}
			serial, err := strconv.ParseFloat(raw[r][c], 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			styleID, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return err
			}
			isDate, seen := dateStyles[styleID]
			if !seen {
				isDate = isDateStyle(f, styleID)
				dateStyles[styleID] = isDate
			}
			if !isDate {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				continue
			}
			rows[r][c] = t.Format("02/01/2006")
		}
	}
	return nil
}

func isDateStyle(f *excelize.File, styleID int) bool {
	if styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 17, n == 22, n >= 27 && n <= 36, n >= 50 && n <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format shows a calendar
// date, ignoring quoted literals and bracketed locale or color tags.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case !bracket:
			b.WriteRune(r)
		}
	}
	plain := b.String()
	return strings.Contains(plain, "d") && (strings.Contains(plain, "m") || strings.Contains(plain, "y")) ||
		strings.Contains(plain, "yy")
}

func openXLS(path string) (*Document, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("no sheets found in XLS file")
	}

	doc := &Document{}
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var table Table
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			table = append(table, cells)
		}
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Tables: []Table{trimTable(table)}})
	}
	return doc, nil
}

func openCSV(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = detectDelimiter(string(data))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return &Document{Pages: []Page{{Number: 1, Tables: []Table{trimTable(records)}}}}, nil
}

// detectDelimiter picks ';' when the header line uses it more than ','.
// Brazilian exports commonly use ';' because ',' is the decimal separator.
func detectDelimiter(data string) rune {
	header, _, _ := strings.Cut(data, "\n")
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

func trimTable(rows [][]string) Table {
	out := make(Table, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		out = append(out, cells)
	}
	return out
}
