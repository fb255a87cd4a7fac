package eventdate

import (
	"fmt"

	"eventdate/internal/dateparser"
)

// Fields are the atomic Darwin Core terms that may accompany an eventDate.
// A nil field was not supplied.
type Fields struct {
	Year           *int
	Month          *int
	Day            *int
	StartDayOfYear *int
	EndDayOfYear   *int
}

// AssembleEventDate builds an eventDate from atomic fields: YYYY, YYYY-MM,
// YYYY-MM-DD, or a day-of-year range written as two calendar dates. It
// reports false when the fields do not add up to days that exist.
func AssembleEventDate(f Fields) (string, bool) {
	if f.Year == nil || *f.Year < 0 || *f.Year > 9999 {
		return "", false
	}
	year := *f.Year

	switch {
	case f.Month != nil && f.Day != nil:
		d, err := dateparser.NewIsoDate(year, *f.Month, *f.Day)
		if err != nil {
			return "", false
		}
		return d.String(), true

	case f.Month != nil:
		if _, err := dateparser.NewIsoDate(year, *f.Month, 1); err != nil {
			return "", false
		}
		return fmt.Sprintf("%04d-%02d", year, *f.Month), true

	case f.Day != nil:
		return "", false

	case f.StartDayOfYear != nil:
		start, err := dateparser.FromYearDay(year, *f.StartDayOfYear)
		if err != nil {
			return "", false
		}
		end := start
		if f.EndDayOfYear != nil {
			if end, err = dateparser.FromYearDay(year, *f.EndDayOfYear); err != nil {
				return "", false
			}
		}
		if start.After(*end) {
			return "", false
		}
		if start.Equal(*end) {
			return start.String(), true
		}
		return start.String() + "/" + end.String(), true

	case f.EndDayOfYear != nil:
		return "", false
	}

	return fmt.Sprintf("%04d", year), true
}

// InternallyConsistent reports whether eventDate exists and every supplied
// field agrees with it. Year, month, day and startDayOfYear describe the
// first day covered; endDayOfYear describes the last.
func InternallyConsistent(eventDate string, f Fields) bool {
	if !Exists(eventDate) {
		return false
	}
	start, end, ok := Bounds(eventDate)
	if !ok {
		return false
	}

	checks := []struct {
		field *int
		want  int
	}{
		{f.Year, start.Year},
		{f.Month, start.Month},
		{f.Day, start.Day},
		{f.StartDayOfYear, start.YearDay()},
		{f.EndDayOfYear, end.YearDay()},
	}
	for _, c := range checks {
		if c.field != nil && *c.field != c.want {
			return false
		}
	}
	return true
}
