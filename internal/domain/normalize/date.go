package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Months maps Portuguese three-letter month abbreviations to months.
var Months = map[string]time.Month{
	"jan": time.January,
	"fev": time.February,
	"mar": time.March,
	"abr": time.April,
	"mai": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"set": time.September,
	"out": time.October,
	"nov": time.November,
	"dez": time.December,
}

var dayMonthRe = regexp.MustCompile(`^(\d{1,2})\s+(\S+)$`)

// ParseDate accepts "dd/mm/yyyy", "dd/mm/yy" and "dd Mon" (Portuguese
// month abbreviation, case-insensitive, optional trailing dot). The
// "dd Mon" form takes its year from year, or the current year when year is 0.
// Dates are returned at UTC midnight.
func ParseDate(s string, year int) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"2/1/2006", "2/1/06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	m := dayMonthRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := Months[strings.Trim(strings.ToLower(m[2]), ".")]
	if !ok {
		return time.Time{}, false
	}
	if year == 0 {
		year = time.Now().Year()
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween returns the absolute number of whole days between two dates.
func DaysBetween(a, b time.Time) int {
	d := a.Sub(b).Hours() / 24
	if d < 0 {
		d = -d
	}
	return int(d + 0.5)
}
