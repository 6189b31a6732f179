// Package era converts date strings between the Japanese calendar
// (明治/大正/昭和/平成/令和 with M/T/S/H/R abbreviations) and ISO dates.
// Dates are exchanged as strings at the API boundary; the inheritance
// engine itself never parses them.
package era

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrConversion reports an unparseable or out-of-range date string.
var ErrConversion = errors.New("era conversion failed")

// Style selects the Japanese-calendar output format.
type Style string

const (
	StyleLong  Style = "long"  // 令和5年10月3日
	StyleShort Style = "short" // R5.10.3
	StyleSlash Style = "slash" // R5/10/3
)

type eraDef struct {
	name   string
	abbrev string
	start  time.Time
}

// Eras in reverse chronological order; matching picks the first era whose
// start is not after the date.
var eras = []eraDef{
	{"令和", "R", date(2019, 5, 1)},
	{"平成", "H", date(1989, 1, 8)},
	{"昭和", "S", date(1926, 12, 25)},
	{"大正", "T", date(1912, 7, 30)},
	{"明治", "M", date(1868, 10, 23)},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	longPattern    = regexp.MustCompile(`^(明治|大正|昭和|平成|令和)(元|\d{1,2})年(\d{1,2})月(\d{1,2})日$`)
	shortPattern   = regexp.MustCompile(`^([MTSHR])(\d{1,2})[./-](\d{1,2})[./-](\d{1,2})$`)
	westernPattern = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)
	kanjiPattern   = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日$`)
)

// Parse accepts a date in Japanese-calendar form (令和5年10月3日, R5.10.3)
// or western form (2023-10-03, 2023/10/3, 2023年10月3日) and returns the
// calendar date.
func Parse(s string) (time.Time, error) {
	if m := longPattern.FindStringSubmatch(s); m != nil {
		return parseEraDate(eraByName(m[1]), m[2], m[3], m[4], s)
	}
	if m := shortPattern.FindStringSubmatch(s); m != nil {
		return parseEraDate(eraByAbbrev(m[1]), m[2], m[3], m[4], s)
	}
	if m := westernPattern.FindStringSubmatch(s); m != nil {
		return parseWestern(m[1], m[2], m[3], s)
	}
	if m := kanjiPattern.FindStringSubmatch(s); m != nil {
		return parseWestern(m[1], m[2], m[3], s)
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrConversion, s)
}

// IsWestern reports whether s looks like a western-calendar date. Used by
// the auto-detecting conversion endpoint to pick a direction.
func IsWestern(s string) bool {
	return westernPattern.MatchString(s) || kanjiPattern.MatchString(s)
}

// Format renders d in the Japanese calendar using the given style.
func Format(d time.Time, style Style) (string, error) {
	e, year, err := eraOf(d)
	if err != nil {
		return "", err
	}
	switch style {
	case StyleLong, "":
		yearStr := strconv.Itoa(year)
		if year == 1 {
			yearStr = "元"
		}
		return fmt.Sprintf("%s%s年%d月%d日", e.name, yearStr, d.Month(), d.Day()), nil
	case StyleShort:
		return fmt.Sprintf("%s%d.%d.%d", e.abbrev, year, d.Month(), d.Day()), nil
	case StyleSlash:
		return fmt.Sprintf("%s%d/%d/%d", e.abbrev, year, d.Month(), d.Day()), nil
	default:
		return "", fmt.Errorf("%w: unknown style %q", ErrConversion, style)
	}
}

// Name returns the era name (令和 etc.) for a date.
func Name(d time.Time) (string, error) {
	e, _, err := eraOf(d)
	if err != nil {
		return "", err
	}
	return e.name, nil
}

func eraOf(d time.Time) (eraDef, int, error) {
	for _, e := range eras {
		if !d.Before(e.start) {
			return e, d.Year() - e.start.Year() + 1, nil
		}
	}
	return eraDef{}, 0, fmt.Errorf("%w: date %s predates the era system", ErrConversion, d.Format("2006-01-02"))
}

func eraByName(name string) *eraDef {
	for i := range eras {
		if eras[i].name == name {
			return &eras[i]
		}
	}
	return nil
}

func eraByAbbrev(abbrev string) *eraDef {
	for i := range eras {
		if eras[i].abbrev == abbrev {
			return &eras[i]
		}
	}
	return nil
}

func parseEraDate(e *eraDef, yearStr, monthStr, dayStr, original string) (time.Time, error) {
	if e == nil {
		return time.Time{}, fmt.Errorf("%w: unknown era in %q", ErrConversion, original)
	}
	year := 1
	if yearStr != "元" {
		year, _ = strconv.Atoi(yearStr)
	}
	if year < 1 {
		return time.Time{}, fmt.Errorf("%w: era year out of range in %q", ErrConversion, original)
	}
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	d, err := calendarDate(e.start.Year()+year-1, month, day, original)
	if err != nil {
		return time.Time{}, err
	}
	// Reject dates before the era began or already inside a later era.
	if d.Before(e.start) {
		return time.Time{}, fmt.Errorf("%w: %q predates %s", ErrConversion, original, e.name)
	}
	if actual, _, err := eraOf(d); err == nil && actual.name != e.name {
		return time.Time{}, fmt.Errorf("%w: %q falls in the %s era", ErrConversion, original, actual.name)
	}
	return d, nil
}

func parseWestern(yearStr, monthStr, dayStr, original string) (time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)
	return calendarDate(year, month, day, original)
}

// calendarDate builds a date and rejects normalized overflows such as
// February 30.
func calendarDate(year, month, day int, original string) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrConversion, original)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrConversion, original)
	}
	return d, nil
}
