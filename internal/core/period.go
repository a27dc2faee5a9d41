package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// PeriodKey identifies a calendar month. Ordering is chronological.
type PeriodKey struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// monthNames maps every accepted month label to its ordinal. Labels are
// matched after trimming and lower-casing.
var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January, "ינואר": time.January,
	"february": time.February, "feb": time.February, "פברואר": time.February,
	"march": time.March, "mar": time.March, "מרץ": time.March, "מרס": time.March,
	"april": time.April, "apr": time.April, "אפריל": time.April,
	"may": time.May, "מאי": time.May,
	"june": time.June, "jun": time.June, "יוני": time.June,
	"july": time.July, "jul": time.July, "יולי": time.July,
	"august": time.August, "aug": time.August, "אוגוסט": time.August,
	"september": time.September, "sep": time.September, "sept": time.September, "ספטמבר": time.September,
	"october": time.October, "oct": time.October, "אוקטובר": time.October,
	"november": time.November, "nov": time.November, "נובמבר": time.November,
	"december": time.December, "dec": time.December, "דצמבר": time.December,
}

// MonthFromName resolves an English or Hebrew month name, a three-letter
// abbreviation or a number 1-12.
func MonthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, false
	}
	if m, ok := monthNames[name]; ok {
		return m, true
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 && n <= 12 {
		return time.Month(n), true
	}
	return 0, false
}

func parseYear(s string) (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 1900 || y > 9999 {
		return 0, false
	}
	return y, true
}

// NewPeriodKey builds a key from stored month and year labels.
func NewPeriodKey(month, year string) (PeriodKey, bool) {
	m, ok := MonthFromName(month)
	if !ok {
		return PeriodKey{}, false
	}
	y, ok := parseYear(year)
	if !ok {
		return PeriodKey{}, false
	}
	return PeriodKey{Month: m, Year: y}, true
}

// PeriodOf returns the key for the month containing t.
func PeriodOf(t time.Time) PeriodKey {
	return PeriodKey{Month: t.Month(), Year: t.Year()}
}

// ParsePeriod parses the "YYYY-MM" form produced by String.
func ParsePeriod(s string) (PeriodKey, error) {
	s = strings.TrimSpace(s)
	year, month, found := strings.Cut(s, "-")
	if !found {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	p, ok := NewPeriodKey(month, year)
	if !ok {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

func (p PeriodKey) IsZero() bool {
	return p.Month == 0 && p.Year == 0
}

// Before reports whether p is chronologically earlier than o.
func (p PeriodKey) Before(o PeriodKey) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Prev returns the previous calendar month.
func (p PeriodKey) Prev() PeriodKey {
	if p.Month == time.January {
		return PeriodKey{Month: time.December, Year: p.Year - 1}
	}
	return PeriodKey{Month: p.Month - 1, Year: p.Year}
}

func (p PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label is the human form, e.g. "March 2025".
func (p PeriodKey) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// SortPeriods sorts keys chronologically in place.
func SortPeriods(keys []PeriodKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
}
