package eventdate

import (
	"regexp"
	"strings"

	"eventdate/internal/dateparser"
)

var (
	numericRangeShape = regexp.MustCompile(`^[-0-9]+/[-0-9]+$`)
	periodRangeShape  = regexp.MustCompile(`^[-0-9]+/[+-]?[Pp]`)
	twoDigitShape     = regexp.MustCompile(`^\d{2}$`)
	monthDayShape     = regexp.MustCompile(`^\d{2}-\d{2}$`)
)

// SplitRange splits a slash-separated eventDate into its start and end,
// filling in the parts an abbreviated end borrows from the start and
// turning a period into the date it ends on. Values without a slash, and
// shapes it does not know how to expand, come back as a single element.
// Ends that cannot be expanded are returned as written.
func SplitRange(s string) []string {
	left, right, found := strings.Cut(s, "/")
	if !found {
		return []string{s}
	}

	switch {
	case numericRangeShape.MatchString(s):
		return []string{left, expandAbbreviatedEnd(left, right)}
	case periodRangeShape.MatchString(s):
		return []string{left, expandPeriodEnd(left, right)}
	default:
		return []string{s}
	}
}

// expandAbbreviatedEnd completes 2007-11-13/15, 2007-11-13/12-15 and
// 2007-11/12. Anything else is left alone for validation to judge.
func expandAbbreviatedEnd(left, right string) string {
	if _, ok := matchCalendarDate(left); ok {
		switch {
		case twoDigitShape.MatchString(right):
			return left[:len("YYYY-MM-")] + right
		case monthDayShape.MatchString(right):
			return left[:len("YYYY-")] + right
		}
	}
	if yearMonthShape.MatchString(left) && twoDigitShape.MatchString(right) {
		return left[:len("YYYY-")] + right
	}
	return right
}

func expandPeriodEnd(left, right string) string {
	start, err := dateparser.ParseIsoDate(left)
	if err != nil {
		return right
	}
	period, err := dateparser.ParsePeriod(right)
	if err != nil {
		return right
	}
	return period.AddTo(*start, dateparser.Calendar).String()
}
