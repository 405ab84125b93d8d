package document

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/eshaffer321/concilia/internal/domain/layout"
	"github.com/ledongthuc/pdf"
)

// wordGap is the largest horizontal gap between glyphs of the same word.
const wordGap = 2.0

func openPDF(path string, opts OpenOptions) (doc *Document, err error) {
	// The pdf package panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("pdf decode: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// The reader tries the empty password itself, then asks for more until
	// it gets "".
	offered := false
	reader, err := pdf.NewReaderEncrypted(f, info.Size(), func() string {
		if offered || opts.Password == "" {
			return ""
		}
		offered = true
		return opts.Password
	})
	if err != nil {
		opts.Logger.Warn("pdf open failed",
			"file", path,
			"password_supplied", opts.Password != "",
			"error", err)
		return nil, err
	}
	if offered {
		opts.Logger.Info("pdf unlocked with supplied password", "file", path)
	}

	doc = &Document{}
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		page, perr := readPDFPage(i, p)
		if perr != nil {
			return nil, fmt.Errorf("page %d: %w", i, perr)
		}
		doc.Pages = append(doc.Pages, page)
	}
	if len(doc.Pages) == 0 {
		return nil, errors.New("no pages")
	}
	return doc, nil
}

func readPDFPage(number int, p pdf.Page) (Page, error) {
	texts := p.Content().Text

	x0, y0, x1, y1, ok := mediaBox(p.V)
	if !ok {
		x0, y0 = 0, 0
		for _, t := range texts {
			x1 = math.Max(x1, t.X+t.W)
			y1 = math.Max(y1, t.Y+t.FontSize)
		}
	}
	height := y1 - y0

	return Page{
		Number: number,
		X0:     x0,
		X1:     x1,
		Tokens: mergeGlyphs(texts, height),
	}, nil
}

func mediaBox(v pdf.Value) (x0, y0, x1, y1 float64, ok bool) {
	for node := v; !node.IsNull(); node = node.Key("Parent") {
		box := node.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			return box.Index(0).Float64(), box.Index(1).Float64(),
				box.Index(2).Float64(), box.Index(3).Float64(), true
		}
	}
	return 0, 0, 0, 0, false
}

// mergeGlyphs turns the glyph runs of a content stream into word tokens.
// Y is flipped so that Top grows downwards.
func mergeGlyphs(texts []pdf.Text, pageHeight float64) []layout.Token {
	type glyph struct {
		top, x, w float64
		r         rune
	}

	var glyphs []glyph
	for _, t := range texts {
		runes := []rune(t.S)
		if len(runes) == 0 {
			continue
		}
		charW := t.W / float64(len(runes))
		if charW <= 0 {
			charW = t.FontSize / 2
		}
		top := pageHeight - t.Y - t.FontSize
		for i, r := range runes {
			glyphs = append(glyphs, glyph{top: top, x: t.X + float64(i)*charW, w: charW, r: r})
		}
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		if math.Abs(glyphs[i].top-glyphs[j].top) > 0.5 {
			return glyphs[i].top < glyphs[j].top
		}
		return glyphs[i].x < glyphs[j].x
	})

	var (
		tokens []layout.Token
		cur    layout.Token
		text   strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			cur.Text = text.String()
			tokens = append(tokens, cur)
		}
		text.Reset()
	}

	for _, g := range glyphs {
		if unicode.IsSpace(g.r) {
			flush()
			continue
		}
		if text.Len() > 0 && (math.Abs(g.top-cur.Top) > 0.5 || g.x-cur.X1 > wordGap) {
			flush()
		}
		if text.Len() == 0 {
			cur = layout.Token{Top: g.top, X0: g.x, X1: g.x + g.w}
		}
		text.WriteRune(g.r)
		cur.X1 = math.Max(cur.X1, g.x+g.w)
	}
	flush()

	return tokens
}
