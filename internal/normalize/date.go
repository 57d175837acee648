// File: internal/normalize/date.go

// Package normalize translates canonical profile values into the literal
// values and labels a target UI is likely to expose: multi-locale synonym
// expansion for well-known semantic fields and date parsing across the
// formats application forms actually use.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date is a parsed calendar date. Month and Day are 1-based.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ISO renders the date as YYYY-MM-DD, the native date-input format.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

var (
	isoRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dottedRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	slashRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	yearRe   = regexp.MustCompile(`^(\d{4})$`)
)

// ParseDate parses the date formats accepted in profiles and read back
// from filled controls: YYYY-MM-DD, DD.MM.YYYY, DD/MM/YYYY and a bare
// year (which means January 1st of that year).
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	if m := isoRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := dottedRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1])
	}
	if m := slashRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1])
	}
	if m := yearRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], "1", "1")
	}
	// Last resort: a lenient pass through the standard layouts.
	for _, layout := range []string{"2006-01-02", "02.01.2006", "January 2, 2006", "2. January 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true
		}
	}
	return Date{}, false
}

func buildDate(y, m, d string) (Date, bool) {
	t, err := time.Parse("2006-1-2", fmt.Sprintf("%s-%s-%s", strings.TrimLeft(y, "0"), strings.TrimLeft(m, "0"), strings.TrimLeft(d, "0")))
	if err != nil {
		return Date{}, false
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true
}

// NormalizeDate maps any accepted input format to YYYY-MM-DD. Unparsable
// input passes through unchanged so the engine still attempts something.
func NormalizeDate(s string) string {
	if d, ok := ParseDate(s); ok {
		return d.ISO()
	}
	return s
}

// DateFormats returns the literal strings worth typing into a free-form
// date field, in the order they should be attempted.
func DateFormats(d Date) []string {
	return []string{
		fmt.Sprintf("%d.%d.%04d", d.Day, d.Month, d.Year),
		fmt.Sprintf("%02d.%02d.%04d", d.Day, d.Month, d.Year),
		d.ISO(),
	}
}

// MatchesDate reports whether a read-back value represents the intended
// date, either as an exact normalized match, a component-wise match, or
// a known literal rendering appearing as a substring.
func MatchesDate(current string, want Date) bool {
	current = strings.TrimSpace(current)
	if current == "" {
		return false
	}
	if got, ok := ParseDate(current); ok && got == want {
		return true
	}
	literals := []string{
		fmt.Sprintf("%d.%d.%04d", want.Day, want.Month, want.Year),
		fmt.Sprintf("%02d.%02d.%04d", want.Day, want.Month, want.Year),
		fmt.Sprintf("%d/%d/%04d", want.Day, want.Month, want.Year),
		fmt.Sprintf("%02d/%02d/%04d", want.Day, want.Month, want.Year),
		want.ISO(),
	}
	for _, lit := range literals {
		if strings.Contains(current, lit) {
			return true
		}
	}
	return false
}

// MonthNames returns the label spellings of a 1-based month in the
// locales the engine targets, long forms first.
func MonthNames(month int) []string {
	if month < 1 || month > 12 {
		return nil
	}
	i := month - 1
	return []string{monthLongEN[i], monthLongDE[i], monthShortEN[i], monthShortDE[i]}
}

var (
	monthLongEN = [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	monthLongDE = [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"}
	monthShortEN = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	monthShortDE = [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun",
		"Jul", "Aug", "Sep", "Okt", "Nov", "Dez"}
)
