// Package dateparser holds the strict ISO 8601 calendar parsers used to
// decide whether a date-like string names a day that actually exists.
package dateparser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateParseErrorType represents the type of date parsing error.
type DateParseErrorType string

const (
	InvalidFormat DateParseErrorType = "INVALID_FORMAT"
	InvalidDate   DateParseErrorType = "INVALID_DATE"
)

// DateParseError represents an error that occurred during date parsing.
type DateParseError struct {
	Type   DateParseErrorType
	Layout string
	Reason string
}

func (e *DateParseError) Error() string {
	switch e.Type {
	case InvalidFormat:
		if e.Layout == "" {
			return "invalid date format"
		}
		return fmt.Sprintf("invalid date format: expected %s", e.Layout)
	case InvalidDate:
		return fmt.Sprintf("invalid date: %s", e.Reason)
	default:
		return fmt.Sprintf("date parse error: %s", e.Reason)
	}
}

func formatError(layout string) error {
	return &DateParseError{Type: InvalidFormat, Layout: layout}
}

func dateError(format string, args ...interface{}) error {
	return &DateParseError{Type: InvalidDate, Reason: fmt.Sprintf(format, args...)}
}

// IsoDate is a day in the proleptic Gregorian calendar.
type IsoDate struct {
	Year  int
	Month int
	Day   int
}

var (
	yearPattern      = regexp.MustCompile(`^(\d{4})$`)
	yearMonthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	ordinalPattern   = regexp.MustCompile(`^(\d{4})-(\d{3})$`)
	weekDatePattern  = regexp.MustCompile(`^(\d{4})-W(\d{2})-(\d)([Zz]|[+-]\d{2}:\d{2})?$`)
)

// ParseYear parses a four digit ISO year. Every year from 0000 to 9999 is
// accepted, including year zero.
func ParseYear(segment string) (int, error) {
	matches := yearPattern.FindStringSubmatch(segment)
	if matches == nil {
		return 0, formatError("YYYY")
	}
	year, _ := strconv.Atoi(matches[1])
	return year, nil
}

// ParseYearMonth parses YYYY-MM and returns the first day of that month.
func ParseYearMonth(segment string) (*IsoDate, error) {
	matches := yearMonthPattern.FindStringSubmatch(segment)
	if matches == nil {
		return nil, formatError("YYYY-MM")
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])

	if month < 1 || month > 12 {
		return nil, dateError("month %02d is out of range (01-12)", month)
	}

	return &IsoDate{Year: year, Month: month, Day: 1}, nil
}

// ParseIsoDate parses a string in YYYY-MM-DD format and returns an IsoDate.
// It validates the format strictly and checks that the date is valid
// (correct month range, day range for the month, and leap year handling).
func ParseIsoDate(segment string) (*IsoDate, error) {
	matches := isoDatePattern.FindStringSubmatch(segment)
	if matches == nil {
		return nil, formatError("YYYY-MM-DD")
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	day, _ := strconv.Atoi(matches[3])

	return NewIsoDate(year, month, day)
}

// NewIsoDate validates the components and returns the date they name.
func NewIsoDate(year, month, day int) (*IsoDate, error) {
	if month < 1 || month > 12 {
		return nil, dateError("month %02d is out of range (01-12)", month)
	}

	maxDay := daysInMonth(year, month)
	if day < 1 || day > maxDay {
		return nil, dateError("day %02d is out of range for month %02d (01-%02d)", day, month, maxDay)
	}

	return &IsoDate{Year: year, Month: month, Day: day}, nil
}

// ParseOrdinalDate parses an ISO ordinal date (YYYY-DDD).
func ParseOrdinalDate(segment string) (*IsoDate, error) {
	matches := ordinalPattern.FindStringSubmatch(segment)
	if matches == nil {
		return nil, formatError("YYYY-DDD")
	}

	year, _ := strconv.Atoi(matches[1])
	yday, _ := strconv.Atoi(matches[2])

	return FromYearDay(year, yday)
}

// FromYearDay returns the date of the given 1-based day of the year.
func FromYearDay(year, yday int) (*IsoDate, error) {
	if yday < 1 || yday > yearLength(year) {
		return nil, dateError("day of year %03d is out of range for %04d (001-%03d)", yday, year, yearLength(year))
	}
	month := 1
	for yday > daysInMonth(year, month) {
		yday -= daysInMonth(year, month)
		month++
	}
	return &IsoDate{Year: year, Month: month, Day: yday}, nil
}

// ParseWeekDate parses an ISO week date (YYYY-Www-D) with an optional offset.
// The week must exist in the week-based year: week 53 only occurs in years
// that start on a Thursday, or leap years that start on a Wednesday.
func ParseWeekDate(segment string) (*IsoDate, error) {
	matches := weekDatePattern.FindStringSubmatch(segment)
	if matches == nil {
		return nil, formatError("YYYY-Www-D")
	}

	year, _ := strconv.Atoi(matches[1])
	week, _ := strconv.Atoi(matches[2])
	weekday, _ := strconv.Atoi(matches[3])

	if week < 1 || week > weeksInYear(year) {
		return nil, dateError("week %02d is out of range for %04d (01-%02d)", week, year, weeksInYear(year))
	}
	if weekday < 1 || weekday > 7 {
		return nil, dateError("weekday %d is out of range (1-7)", weekday)
	}
	if matches[4] != "" {
		if _, err := parseOffset(matches[4]); err != nil {
			return nil, err
		}
	}

	// Week 1 is the week holding January 4th.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	isoWeekday := int(jan4.Weekday()+6)%7 + 1
	monday := jan4.AddDate(0, 0, 1-isoWeekday)
	return fromTime(monday.AddDate(0, 0, (week-1)*7+weekday-1)), nil
}

// String formats the date the way ISO 8601 extended format does, with an
// explicit sign for years outside 0000-9999.
func (d IsoDate) String() string {
	switch {
	case d.Year > 9999:
		return fmt.Sprintf("+%d-%02d-%02d", d.Year, d.Month, d.Day)
	case d.Year < 0:
		return fmt.Sprintf("-%04d-%02d-%02d", -d.Year, d.Month, d.Day)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// Compare returns -1, 0 or +1 as d is before, equal to or after other.
func (d IsoDate) Compare(other IsoDate) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

// After reports whether d falls after other.
func (d IsoDate) After(other IsoDate) bool {
	return d.Compare(other) > 0
}

// Equal reports whether d and other are the same day.
func (d IsoDate) Equal(other IsoDate) bool {
	return d.Compare(other) == 0
}

// YearDay returns the 1-based day of the year.
func (d IsoDate) YearDay() int {
	yday := d.Day
	for m := 1; m < d.Month; m++ {
		yday += daysInMonth(d.Year, m)
	}
	return yday
}

// LastOfMonth returns the last day of d's month.
func (d IsoDate) LastOfMonth() IsoDate {
	return IsoDate{Year: d.Year, Month: d.Month, Day: daysInMonth(d.Year, d.Month)}
}

// Time returns midnight UTC at the start of d.
func (d IsoDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func fromTime(t time.Time) *IsoDate {
	return &IsoDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// daysInMonth returns the number of days in the given month for the given year.
func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func yearLength(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

// weeksInYear returns 52 or 53, the number of ISO weeks in the week-based year.
func weeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// isLeapYear returns true if the given year is a leap year.
func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || (year%400 == 0)
}
