package dateparser

import (
	"regexp"
	"strconv"
)

// Period is an ISO 8601 duration measured in calendar units.
type Period struct {
	Years  int
	Months int
	Weeks  int
	Days   int
}

// maxPeriodComponent bounds each component so additions stay far inside the
// range time.Time can represent.
const maxPeriodComponent = 1_000_000

var (
	designatorPeriodPattern = regexp.MustCompile(
		`^([+-])?[Pp](?:([+-]?\d+)[Yy])?(?:([+-]?\d+)[Mm])?(?:([+-]?\d+)[Ww])?(?:([+-]?\d+)[Dd])?$`)
	alternativePeriodPattern = regexp.MustCompile(`^[Pp](\d{4})-(\d{2})-(\d{2})$`)
)

// ParsePeriod parses the date part of an ISO 8601 duration: the designator
// form (P3D, p2m, P1Y2M10D, P2W, -P3D, P-3D) or the alternative form
// PYYYY-MM-DD (P0000-00-03). Time components are not supported.
func ParsePeriod(segment string) (Period, error) {
	if matches := alternativePeriodPattern.FindStringSubmatch(segment); matches != nil {
		var p Period
		p.Years, _ = strconv.Atoi(matches[1])
		p.Months, _ = strconv.Atoi(matches[2])
		p.Days, _ = strconv.Atoi(matches[3])
		if p.Months > 12 {
			return Period{}, dateError("period month field %02d is out of range (00-12)", p.Months)
		}
		return p, nil
	}

	matches := designatorPeriodPattern.FindStringSubmatch(segment)
	if matches == nil {
		return Period{}, formatError("PnYnMnWnD")
	}

	values := make([]int, 4)
	seen := false
	for i, group := range matches[2:6] {
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil || n > maxPeriodComponent || n < -maxPeriodComponent {
			return Period{}, dateError("period component %s is out of range", group)
		}
		if matches[1] == "-" {
			n = -n
		}
		values[i] = n
		seen = true
	}
	if !seen {
		return Period{}, formatError("PnYnMnWnD")
	}

	return Period{Years: values[0], Months: values[1], Weeks: values[2], Days: values[3]}, nil
}

// IsZero reports whether p adds nothing.
func (p Period) IsZero() bool {
	return p == Period{}
}

// AddTo adds p to d: years and months together first (clamping the day to
// the end of the month once), then weeks and days.
func (p Period) AddTo(d IsoDate, calendar Arithmetic) IsoDate {
	if months := p.Years*12 + p.Months; months != 0 {
		d = calendar.AddMonths(d, months)
	}
	if days := p.Weeks*7 + p.Days; days != 0 {
		d = calendar.AddDays(d, days)
	}
	return d
}
