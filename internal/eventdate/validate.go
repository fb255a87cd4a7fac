package eventdate

import (
	"strings"

	"eventdate/internal/dateparser"
)

// Populated reports whether s holds anything other than white space. It
// says nothing about whether s looks like a date.
func Populated(s string) bool {
	return strings.TrimSpace(s) != ""
}

// StandardFormat reports whether s has a recognized eventDate shape,
// regardless of whether the day it names exists.
func StandardFormat(s string) bool {
	if !Populated(s) {
		return false
	}
	switch IdentifyFormat(s).Tag {
	case Unrecognized:
		return false
	case IntervalWithPeriod:
		return len(SplitRange(s)) == 2
	default:
		return true
	}
}

// Exists reports whether s has a recognized shape and names days that are
// on the calendar, with the start of a range not after its end.
func Exists(s string) bool {
	if !StandardFormat(s) {
		return false
	}
	_, _, ok := Bounds(s)
	return ok
}

// Bounds returns the first and last day covered by s: January 1st to
// December 31st for a year, the whole month for a year-month, the expanded
// endpoints for a range. ok is false when s does not exist, including a
// negative period that ends before its start.
func Bounds(s string) (start, end dateparser.IsoDate, ok bool) {
	f := IdentifyFormat(s)
	switch {
	case f.Tag == Year:
		y, err := dateparser.ParseYear(s)
		if err != nil {
			return start, end, false
		}
		return dateparser.IsoDate{Year: y, Month: 1, Day: 1}, dateparser.IsoDate{Year: y, Month: 12, Day: 31}, true

	case f.Tag == YearMonth:
		ym, err := dateparser.ParseYearMonth(s)
		if err != nil {
			return start, end, false
		}
		return *ym, ym.LastOfMonth(), true

	case f.Tag == CalendarDate:
		d, err := dateparser.ParseIsoDate(s)
		if err != nil {
			return start, end, false
		}
		return *d, *d, true

	case f.Tag == DateTime:
		return dateTimeBounds(s, f.Kind)

	case f.Tag.IsInterval():
		return intervalBounds(SplitRange(s))

	case f.Tag == IntervalWithPeriod:
		parts := SplitRange(s)
		if len(parts) != 2 {
			return start, end, false
		}
		first, err := dateparser.ParseIsoDate(parts[0])
		if err != nil {
			return start, end, false
		}
		last, err := dateparser.ParseIsoDate(parts[1])
		if err != nil {
			return start, end, false
		}
		if first.After(*last) {
			return start, end, false
		}
		return *first, *last, true
	}

	// Recurring periods are recognized but never expanded.
	return start, end, false
}

// intervalBounds requires both sides to be calendar dates or both to be
// year-months.
func intervalBounds(parts []string) (start, end dateparser.IsoDate, ok bool) {
	if len(parts) != 2 {
		return start, end, false
	}

	left, right := IdentifyFormat(parts[0]).Tag, IdentifyFormat(parts[1]).Tag
	switch {
	case left == CalendarDate && right == CalendarDate:
		first, err := dateparser.ParseIsoDate(parts[0])
		if err != nil {
			return start, end, false
		}
		last, err := dateparser.ParseIsoDate(parts[1])
		if err != nil {
			return start, end, false
		}
		start, end = *first, *last

	case left == YearMonth && right == YearMonth:
		first, err := dateparser.ParseYearMonth(parts[0])
		if err != nil {
			return start, end, false
		}
		last, err := dateparser.ParseYearMonth(parts[1])
		if err != nil {
			return start, end, false
		}
		start, end = *first, last.LastOfMonth()

	default:
		return start, end, false
	}

	if start.After(end) {
		return start, end, false
	}
	return start, end, true
}

func dateTimeBounds(s string, kind DateTimeKind) (start, end dateparser.IsoDate, ok bool) {
	switch kind {
	case ISOOrdinalDate:
		d, err := dateparser.ParseOrdinalDate(s)
		if err != nil {
			return start, end, false
		}
		return *d, *d, true

	case ISOWeekDate:
		d, err := dateparser.ParseWeekDate(s)
		if err != nil {
			return start, end, false
		}
		return *d, *d, true

	case ISODateTimeInterval:
		left, right, _ := strings.Cut(s, "/")
		first, err := parseTimestamp(left)
		if err != nil {
			return start, end, false
		}
		last, err := parseTimestamp(right)
		if err != nil {
			return start, end, false
		}
		if first.Time().After(last.Time()) {
			return start, end, false
		}
		return first.Date, last.Date, true

	default:
		dt, err := parseDateTime(s, kind)
		if err != nil {
			return start, end, false
		}
		return dt.Date, dt.Date, true
	}
}

func parseDateTime(s string, kind DateTimeKind) (*dateparser.DateTime, error) {
	switch kind {
	case RFC3339DateTime:
		return dateparser.ParseRFC3339(s)
	case RFC1123DateTime:
		return dateparser.ParseRFC1123(s)
	default:
		return dateparser.ParseISODateTime(s)
	}
}

// parseTimestamp accepts either half of an ISO date-time interval.
func parseTimestamp(s string) (*dateparser.DateTime, error) {
	dt, err := dateparser.ParseISODateTime(s)
	if err == nil {
		return dt, nil
	}
	if dt, rfcErr := dateparser.ParseRFC3339(s); rfcErr == nil {
		return dt, nil
	}
	return nil, err
}
