package eventdate

import (
	"strconv"

	"eventdate/internal/dateparser"
)

// SingleDay reports whether s names exactly one calendar day: a bare
// calendar date, or a range whose expanded start and end are the same day.
func SingleDay(s string) bool {
	start, end, ok := Bounds(s)
	if !ok || !StandardFormat(s) {
		return false
	}
	switch tag := IdentifyFormat(s).Tag; {
	case tag == CalendarDate:
		return true
	case tag.IsInterval(), tag == IntervalWithPeriod:
		return start.Equal(end)
	default:
		return false
	}
}

// WithinOneYear reports whether s falls inside a single calendar year. A
// date-time that fails strict parsing still counts when its calendar date
// is real, since its year is not in doubt.
func WithinOneYear(s string) bool {
	if start, end, ok := Bounds(s); ok && StandardFormat(s) {
		return start.Year == end.Year
	}

	f := IdentifyFormat(s)
	if f.Tag != DateTime {
		return false
	}
	switch f.Kind {
	case ISODateTime, RFC3339DateTime:
		_, err := dateparser.ParseIsoDate(s[:len("YYYY-MM-DD")])
		return err == nil
	case RFC1123DateTime:
		_, ok := rfc1123Date(s)
		return ok
	default:
		return false
	}
}

var monthNumbers = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// rfc1123Date pulls the day, month and year out of an RFC 1123 timestamp
// without looking at the clock or the day name.
func rfc1123Date(s string) (*dateparser.IsoDate, bool) {
	matches := rfc1123Shape.FindStringSubmatch(s)
	if matches == nil {
		return nil, false
	}
	month, known := monthNumbers[matches[2]]
	if !known {
		return nil, false
	}
	day, _ := strconv.Atoi(matches[1])
	year, _ := strconv.Atoi(matches[3])
	d, err := dateparser.NewIsoDate(year, month, day)
	if err != nil {
		return nil, false
	}
	return d, true
}
