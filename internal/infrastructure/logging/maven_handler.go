package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Attribute keys lifted into the line header instead of key=value pairs.
const (
	systemKey  = "system"
	accountKey = "account"
)

// MavenHandler is a slog.Handler that formats logs in Maven-style:
// [LEVEL] [SYSTEM] [ACCOUNT] [HH:MM:SS] message key=value key=value
//
// The account bracket appears when the logger or the record carries an
// "account" attribute, so per-card lines line up in concurrent runs.
type MavenHandler struct {
	w              io.Writer
	level          slog.Level
	mu             *sync.Mutex
	system         string // e.g., "bank", "tracker", "report"
	account        string // four digit card account, if bound
	showTimestamps bool
	useColors      bool
	groups         []string // For handling WithGroup
	attrs          []slog.Attr
}

// NewMavenHandler creates a new Maven-style handler
func NewMavenHandler(w io.Writer, opts *slog.HandlerOptions) *MavenHandler {
	h := &MavenHandler{
		w:              w,
		level:          slog.LevelInfo,
		mu:             &sync.Mutex{},
		showTimestamps: true,
		useColors:      isTerminal(w),
	}

	if opts != nil && opts.Level != nil {
		h.level = opts.Level.Level()
	}

	return h
}

// isTerminal checks if the writer is a terminal (for color output)
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given level.
func (h *MavenHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record
func (h *MavenHandler) Handle(_ context.Context, r slog.Record) error {
	account := h.account
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case systemKey:
		case accountKey:
			account = a.Value.String()
		default:
			attrs = append(attrs, a)
		}
		return true
	})

	var buf strings.Builder
	h.writeHeader(&buf, r, account)

	buf.WriteString(" ")
	buf.WriteString(r.Message)

	for _, attr := range h.attrs {
		if attr.Key != systemKey && attr.Key != accountKey {
			h.appendAttr(&buf, attr)
		}
	}
	for _, attr := range attrs {
		h.appendAttr(&buf, attr)
	}
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *MavenHandler) writeHeader(buf *strings.Builder, r slog.Record, account string) {
	h.bracket(buf, levelString(r.Level), h.levelColor(r.Level), false)
	if h.system != "" {
		h.bracket(buf, h.system, "", true)
	}
	if account != "" {
		h.bracket(buf, account, colorBold, true)
	}
	if h.showTimestamps {
		h.bracket(buf, r.Time.Format("15:04:05"), colorGray, true)
	}
}

// bracket writes "[text]", colored when the output is a terminal.
func (h *MavenHandler) bracket(buf *strings.Builder, text, color string, space bool) {
	if space {
		buf.WriteString(" ")
	}
	colored := h.useColors && color != ""
	if colored {
		buf.WriteString(color)
	}
	buf.WriteString("[")
	buf.WriteString(text)
	buf.WriteString("]")
	if colored {
		buf.WriteString(colorReset)
	}
}

// appendAttr appends a key=value pair to the buffer. Group attrs are
// flattened with dotted keys; values with spaces are quoted.
func (h *MavenHandler) appendAttr(buf *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			if a.Key != "" {
				ga.Key = a.Key + "." + ga.Key
			}
			h.appendAttr(buf, ga)
		}
		return
	}

	buf.WriteString(" ")
	if len(h.groups) > 0 {
		buf.WriteString(strings.Join(h.groups, "."))
		buf.WriteString(".")
	}
	buf.WriteString(a.Key)
	buf.WriteString("=")
	buf.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format("2006-01-02")
	case slog.KindAny:
		switch a := v.Any().(type) {
		case error:
			s = a.Error()
		case decimal.Decimal:
			s = a.StringFixed(2)
		default:
			s = fmt.Sprint(a)
		}
	default:
		s = v.String()
	}

	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// WithAttrs returns a new handler with the given attributes added
func (h *MavenHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(slices.Clip(h.attrs), attrs...)
	for _, attr := range attrs {
		switch attr.Key {
		case systemKey:
			clone.system = attr.Value.String()
		case accountKey:
			clone.account = attr.Value.String()
		}
	}
	return clone
}

// WithGroup returns a new handler with the given group name added
func (h *MavenHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(slices.Clip(h.groups), name)
	return clone
}

func (h *MavenHandler) clone() *MavenHandler {
	c := *h
	return &c
}

// levelColor returns the ANSI color code for a log level (Maven-style)
func (h *MavenHandler) levelColor(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return colorGray
	case slog.LevelInfo:
		return colorCyan
	case slog.LevelWarn:
		return colorYellow
	case slog.LevelError:
		return colorRed
	default:
		return colorReset
	}
}

// levelString returns a short, uppercase string for the log level
func levelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}
