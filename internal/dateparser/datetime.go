package dateparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTime is a parsed timestamp. Second may be 60 to carry a leap second.
type DateTime struct {
	Date   IsoDate
	Hour   int
	Minute int
	Second int
	Nanos  int
	// Offset from UTC in seconds.
	Offset int
}

var (
	isoDateTimePattern = regexp.MustCompile(
		`^(\d{4})-(\d{2})-(\d{2})[Tt](\d{2}):(\d{2})(?::(\d{2})(?:[.,](\d{1,9}))?)?([Zz]|[+-]\d{2}:\d{2}(?::\d{2})?)$`)
	rfc3339Pattern = regexp.MustCompile(
		`^(\d{4})-(\d{2})-(\d{2})[Tt ](\d{2}):(\d{2}):(\d{2})(?:\.(\d{1,9}))?([Zz]|[+-]\d{2}:\d{2})$`)
	rfc1123Pattern = regexp.MustCompile(
		`^(?:(Mon|Tue|Wed|Thu|Fri|Sat|Sun), )?(\d{1,2}) (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) (\d{4}) (\d{2}):(\d{2})(?::(\d{2}))? (GMT|[+-]\d{4})$`)
)

var monthAbbreviations = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

var weekdayAbbreviations = map[string]time.Weekday{
	"Sun": time.Sunday, "Mon": time.Monday, "Tue": time.Tuesday, "Wed": time.Wednesday,
	"Thu": time.Thursday, "Fri": time.Friday, "Sat": time.Saturday,
}

// ParseISODateTime parses an ISO 8601 extended date-time with a mandatory
// offset (Z or ±hh:mm[:ss]). Seconds and fractions are optional.
func ParseISODateTime(segment string) (*DateTime, error) {
	matches := isoDateTimePattern.FindStringSubmatch(segment)
	if matches == nil {
		return nil, formatError("YYYY-MM-DDThh:mm[:ss[.fff]]±hh:mm")
	}
	return buildDateTime(matches[1:8], matches[8])
}

// ParseRFC3339 parses an RFC 3339 timestamp. T and Z may be lower case and
// a space may stand in for T.
func ParseRFC3339(segment string) (*DateTime, error) {
	matches := rfc3339Pattern.FindStringSubmatch(segment)
	if matches == nil {
		return nil, formatError("YYYY-MM-DDThh:mm:ss[.fff]Z")
	}
	return buildDateTime(matches[1:8], matches[8])
}

// ParseRFC1123 parses an RFC 1123 timestamp such as
// "Tue, 3 Jun 2008 11:05:30 GMT". When a day name is present it must agree
// with the date.
func ParseRFC1123(segment string) (*DateTime, error) {
	matches := rfc1123Pattern.FindStringSubmatch(segment)
	if matches == nil {
		return nil, formatError("Mon, 2 Jan 2006 15:04:05 GMT")
	}

	day, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[4])
	date, err := NewIsoDate(year, monthAbbreviations[matches[3]], day)
	if err != nil {
		return nil, err
	}

	if matches[1] != "" {
		if want := weekdayAbbreviations[matches[1]]; date.Time().Weekday() != want {
			return nil, dateError("%s is a %s, not %s", date, date.Time().Weekday(), want)
		}
	}

	dt := &DateTime{Date: *date}
	dt.Hour, _ = strconv.Atoi(matches[5])
	dt.Minute, _ = strconv.Atoi(matches[6])
	if matches[7] != "" {
		dt.Second, _ = strconv.Atoi(matches[7])
	}
	if err := checkClock(dt.Hour, dt.Minute, dt.Second); err != nil {
		return nil, err
	}

	if zone := matches[8]; zone != "GMT" {
		hours, _ := strconv.Atoi(zone[1:3])
		minutes, _ := strconv.Atoi(zone[3:5])
		if hours > 18 || minutes > 59 {
			return nil, dateError("offset %s is out of range", zone)
		}
		dt.Offset = hours*3600 + minutes*60
		if zone[0] == '-' {
			dt.Offset = -dt.Offset
		}
	}
	return dt, nil
}

// buildDateTime validates the captured groups year, month, day, hour,
// minute, second and fraction along with the offset designator.
func buildDateTime(groups []string, zone string) (*DateTime, error) {
	year, _ := strconv.Atoi(groups[0])
	month, _ := strconv.Atoi(groups[1])
	day, _ := strconv.Atoi(groups[2])
	date, err := NewIsoDate(year, month, day)
	if err != nil {
		return nil, err
	}

	dt := &DateTime{Date: *date}
	dt.Hour, _ = strconv.Atoi(groups[3])
	dt.Minute, _ = strconv.Atoi(groups[4])
	if groups[5] != "" {
		dt.Second, _ = strconv.Atoi(groups[5])
	}
	if groups[6] != "" {
		fraction := groups[6] + strings.Repeat("0", 9-len(groups[6]))
		dt.Nanos, _ = strconv.Atoi(fraction)
	}
	if err := checkClock(dt.Hour, dt.Minute, dt.Second); err != nil {
		return nil, err
	}

	dt.Offset, err = parseOffset(zone)
	if err != nil {
		return nil, err
	}
	return dt, nil
}

func checkClock(hour, minute, second int) error {
	if hour > 23 {
		return dateError("hour %02d is out of range (00-23)", hour)
	}
	if minute > 59 {
		return dateError("minute %02d is out of range (00-59)", minute)
	}
	if second > 60 {
		return dateError("second %02d is out of range (00-60)", second)
	}
	return nil
}

// parseOffset converts Z or ±hh:mm[:ss] into seconds east of UTC.
func parseOffset(zone string) (int, error) {
	if zone == "Z" || zone == "z" {
		return 0, nil
	}
	if len(zone) < 6 {
		return 0, formatError("±hh:mm")
	}

	parts := strings.Split(zone[1:], ":")
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds := 0
	if len(parts) > 2 {
		seconds, _ = strconv.Atoi(parts[2])
	}
	if hours > 18 || minutes > 59 || seconds > 59 {
		return 0, dateError("offset %s is out of range", zone)
	}

	offset := hours*3600 + minutes*60 + seconds
	if offset > 18*3600 {
		return 0, dateError("offset %s is out of range", zone)
	}
	if zone[0] == '-' {
		offset = -offset
	}
	return offset, nil
}

// Time returns the instant dt names. A leap second rolls over into the
// following minute.
func (dt DateTime) Time() time.Time {
	zone := time.FixedZone("", dt.Offset)
	return time.Date(dt.Date.Year, time.Month(dt.Date.Month), dt.Date.Day,
		dt.Hour, dt.Minute, dt.Second, dt.Nanos, zone)
}
