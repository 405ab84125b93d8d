// Package document loads statement files into positioned pages. PDFs keep
// their word positions; spreadsheets and CSV exports become one table per
// sheet.
package document

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/eshaffer321/concilia/internal/domain/layout"
)

var (
	// ErrUnreadable wraps any failure to decode a document.
	ErrUnreadable = errors.New("document is unreadable")
	// ErrUnsupportedFormat is returned for file extensions no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Extensions lists the file extensions Open understands, in lookup order.
var Extensions = []string{".pdf", ".xlsx", ".xls", ".csv"}

// Table is a grid of cell strings. Missing cells are "".
type Table [][]string

// Page is one page of a PDF or one sheet of a spreadsheet.
type Page struct {
	Number int
	// X0 and X1 bound the page horizontally; their midpoint splits columns.
	X0, X1 float64
	Tokens []layout.Token
	Tables []Table
}

// Document is a loaded statement.
type Document struct {
	Name  string
	Pages []Page
}

// MidX is the horizontal midpoint of the page.
func (p Page) MidX() float64 {
	return (p.X0 + p.X1) / 2
}

// ColumnLines reconstructs the page with left and right columns kept apart.
func (p Page) ColumnLines(tolerance float64) []string {
	return p.lines(tolerance, true)
}

// TextLines reconstructs the page as full-width rows.
func (p Page) TextLines(tolerance float64) []string {
	return p.lines(tolerance, false)
}

func (p Page) lines(tolerance float64, split bool) []string {
	if len(p.Tokens) > 0 {
		return layout.Texts(layout.Reconstruct(p.Tokens, layout.Options{
			MidX:         p.MidX(),
			Tolerance:    tolerance,
			SplitColumns: split,
		}))
	}

	var out []string
	for _, table := range p.Tables {
		for _, row := range table {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				if c = strings.TrimSpace(c); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				out = append(out, strings.Join(cells, " "))
			}
		}
	}
	return out
}

// Text joins the full-width lines of every page.
func (d *Document) Text(tolerance float64) string {
	var b strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(p.TextLines(tolerance), "\n"))
	}
	return b.String()
}

// OpenOptions configures Open.
type OpenOptions struct {
	// Password is tried first for encrypted files, then no password.
	Password string
	Logger   *slog.Logger
}

// Open loads the file at path, choosing a loader by extension.
func Open(path string, opts OpenOptions) (*Document, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var (
		doc *Document
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		doc, err = openPDF(path, opts)
	case ".xlsx":
		doc, err = openXLSX(path, opts)
	case ".xls":
		doc, err = openXLS(path)
	case ".csv":
		doc, err = openCSV(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, filepath.Base(path), err)
	}

	doc.Name = filepath.Base(path)
	opts.Logger.Debug("document loaded", "file", doc.Name, "pages", len(doc.Pages))
	return doc, nil
}

// FromLines builds a document whose pages hold the given lines as
// left-column tokens, one line every 12 points. It lets text fixtures flow
// through the same reconstruction as real PDFs.
func FromLines(name string, pages ...[]string) *Document {
	doc := &Document{Name: name}
	for i, lines := range pages {
		page := Page{Number: i + 1, X0: 0, X1: 2000}
		for n, line := range lines {
			top := float64(12 * (n + 1))
			x := 10.0
			for _, word := range strings.Fields(line) {
				w := float64(len([]rune(word))) * 5
				page.Tokens = append(page.Tokens, layout.Token{Top: top, X0: x, X1: x + w, Text: word})
				x += w + 5
			}
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}

// FromTables builds a document with one page per table.
func FromTables(name string, tables ...Table) *Document {
	doc := &Document{Name: name}
	for i, t := range tables {
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Tables: []Table{t}})
	}
	return doc
}
