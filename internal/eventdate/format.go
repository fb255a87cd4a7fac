// Package eventdate classifies, expands and validates Darwin Core eventDate
// values. Every function here is pure: bad input is answered with false or
// Unrecognized, never with an error or a panic.
package eventdate

import (
	"regexp"
	"strconv"
	"strings"

	"eventdate/internal/dateparser"
)

// FormatTag names the shape an eventDate value was recognized as.
type FormatTag int

const (
	Unrecognized FormatTag = iota
	Year
	YearMonth
	CalendarDate
	DateTime
	Interval
	IntervalDayOmitted
	IntervalMonthDayOmitted
	IntervalMonthOmitted
	IntervalWithPeriod
	IntervalWithRecurringPeriod
)

var formatTagNames = [...]string{
	Unrecognized:                "Unrecognized",
	Year:                        "Year",
	YearMonth:                   "YearMonth",
	CalendarDate:                "CalendarDate",
	DateTime:                    "DateTime",
	Interval:                    "Interval",
	IntervalDayOmitted:          "IntervalDayOmitted",
	IntervalMonthDayOmitted:     "IntervalMonthDayOmitted",
	IntervalMonthOmitted:        "IntervalMonthOmitted",
	IntervalWithPeriod:          "IntervalWithPeriod",
	IntervalWithRecurringPeriod: "IntervalWithRecurringPeriod",
}

func (t FormatTag) String() string {
	if t < 0 || int(t) >= len(formatTagNames) {
		return "FormatTag(" + strconv.Itoa(int(t)) + ")"
	}
	return formatTagNames[t]
}

// IsInterval reports whether t is one of the slash-separated range shapes
// whose end is a date rather than a period.
func (t FormatTag) IsInterval() bool {
	switch t {
	case Interval, IntervalDayOmitted, IntervalMonthDayOmitted, IntervalMonthOmitted:
		return true
	}
	return false
}

// DateTimeKind is the sub-variant carried by the DateTime tag.
type DateTimeKind int

const (
	NotDateTime DateTimeKind = iota
	ISODateTime
	RFC3339DateTime
	RFC1123DateTime
	ISOWeekDate
	ISOOrdinalDate
	ISODateTimeInterval
)

var dateTimeKindNames = [...]string{
	NotDateTime:         "",
	ISODateTime:         "ISODateTime",
	RFC3339DateTime:     "RFC3339",
	RFC1123DateTime:     "RFC1123",
	ISOWeekDate:         "ISOWeekDate",
	ISOOrdinalDate:      "ISOOrdinalDate",
	ISODateTimeInterval: "ISODateTimeInterval",
}

func (k DateTimeKind) String() string {
	if k < 0 || int(k) >= len(dateTimeKindNames) {
		return "DateTimeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return dateTimeKindNames[k]
}

// Format is the result of IdentifyFormat. Kind is NotDateTime unless Tag is
// DateTime.
type Format struct {
	Tag  FormatTag
	Kind DateTimeKind
}

func (f Format) String() string {
	if f.Tag == DateTime && f.Kind != NotDateTime {
		return f.Tag.String() + "/" + f.Kind.String()
	}
	return f.Tag.String()
}

var unrecognized = Format{Tag: Unrecognized}

var (
	intervalShape        = regexp.MustCompile(`^\d{4}[-0-9]*/[-0-9]+$`)
	dayOmittedShape      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}/\d{2}$`)
	monthDayOmittedShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}/\d{2}-\d{2}$`)
	monthOmittedShape    = regexp.MustCompile(`^\d{4}-\d{2}/\d{2}$`)
	recurringShape       = regexp.MustCompile(`^\d{4}[-0-9]*/R\d+[Pp][0-9YMDW]+$`)
	periodShape          = regexp.MustCompile(`^\d{4}[-0-9]*/(.+)$`)

	yearShape         = regexp.MustCompile(`^\d{4}$`)
	yearMonthShape    = regexp.MustCompile(`^\d{4}-\d{2}$`)
	calendarDateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateTimeShape  = regexp.MustCompile(
		`^\d{4}-\d{2}-\d{2}[Tt]\d{2}:\d{2}(?::\d{2}(?:[.,]\d{1,9})?)?(?:[Zz]|[+-]\d{2}(?::?\d{2}(?::?\d{2})?)?)?$`)
	ordinalShape = regexp.MustCompile(`^\d{4}-(\d{3})$`)
	rfc3339Shape = regexp.MustCompile(
		`^\d{4}-\d{2}-\d{2}[Tt ][012]\d:[0-6]\d:[0-6]\d(?:\.\d{1,9})?(?:[Zz]|[+-]\d{2}:\d{2})$`)
	rfc1123Shape = regexp.MustCompile(
		`^(?:[A-Z][a-z]{2}, )?(\d{1,2}) ([A-Z][a-z]{2}) (\d{4}) \d{2}:\d{2}(?::\d{2})? (?:GMT|[+-]\d{4})$`)
	weekDateShape = regexp.MustCompile(`^\d{4}-W\d{2}-\d(?:[Zz]|[+-]\d{2}:\d{2})?$`)
)

// formatRule is one entry of the classification ladder. match reports
// whether s has the rule's shape and, if so, the format it resolves to.
type formatRule struct {
	name  string
	match func(s string) (Format, bool)
}

// rangedRules are tried in order and the first matching shape decides the
// format, even when that decision is Unrecognized.
var rangedRules = []formatRule{
	{"interval", matchInterval},
	{"recurringPeriod", matchRecurring},
	{"period", matchPeriod},
}

// singleRules are all tried; the last match wins, so more specific shapes
// sit further down.
var singleRules = []formatRule{
	{"year", shapeRule(yearShape, Format{Tag: Year})},
	{"yearMonth", shapeRule(yearMonthShape, Format{Tag: YearMonth})},
	{"calendarDate", matchCalendarDate},
	{"isoDateTime", shapeRule(isoDateTimeShape, Format{Tag: DateTime, Kind: ISODateTime})},
	{"isoOrdinalDate", matchOrdinal},
	{"rfc3339", shapeRule(rfc3339Shape, Format{Tag: DateTime, Kind: RFC3339DateTime})},
	{"rfc1123", shapeRule(rfc1123Shape, Format{Tag: DateTime, Kind: RFC1123DateTime})},
	{"isoWeekDate", shapeRule(weekDateShape, Format{Tag: DateTime, Kind: ISOWeekDate})},
	{"isoDateTimeInterval", matchDateTimeInterval},
}

// IdentifyFormat reports which eventDate shape s has. Blank or free text
// input is Unrecognized, as is an interval whose start falls after its end.
func IdentifyFormat(s string) Format {
	if strings.TrimSpace(s) == "" {
		return unrecognized
	}

	for _, rule := range rangedRules {
		if f, ok := rule.match(s); ok {
			return f
		}
	}

	result := unrecognized
	for _, rule := range singleRules {
		if f, ok := rule.match(s); ok {
			result = f
		}
	}
	return result
}

func shapeRule(shape *regexp.Regexp, f Format) func(string) (Format, bool) {
	return func(s string) (Format, bool) {
		return f, shape.MatchString(s)
	}
}

func matchInterval(s string) (Format, bool) {
	if !intervalShape.MatchString(s) {
		return unrecognized, false
	}

	tag := Interval
	switch {
	case dayOmittedShape.MatchString(s):
		tag = IntervalDayOmitted
	case monthDayOmittedShape.MatchString(s):
		tag = IntervalMonthDayOmitted
	case monthOmittedShape.MatchString(s):
		tag = IntervalMonthOmitted
	}

	parts := SplitRange(s)
	if len(parts) != 2 {
		return unrecognized, true
	}
	start, ok := resolveEndpoint(parts[0])
	if !ok {
		return unrecognized, true
	}
	end, ok := resolveEndpoint(parts[1])
	if !ok || start.After(end) {
		return unrecognized, true
	}
	return Format{Tag: tag}, true
}

// resolveEndpoint turns one side of an interval into the first day it
// names: a calendar date as written, a year as January 1st, a year-month as
// the first of the month.
func resolveEndpoint(part string) (dateparser.IsoDate, bool) {
	if d, err := dateparser.ParseIsoDate(part); err == nil {
		return *d, true
	}
	if y, err := dateparser.ParseYear(part); err == nil {
		return dateparser.IsoDate{Year: y, Month: 1, Day: 1}, true
	}
	if ym, err := dateparser.ParseYearMonth(part); err == nil {
		return *ym, true
	}
	return dateparser.IsoDate{}, false
}

func matchRecurring(s string) (Format, bool) {
	if !recurringShape.MatchString(s) {
		return unrecognized, false
	}
	return Format{Tag: IntervalWithRecurringPeriod}, true
}

func matchPeriod(s string) (Format, bool) {
	matches := periodShape.FindStringSubmatch(s)
	if matches == nil {
		return unrecognized, false
	}
	if _, err := dateparser.ParsePeriod(matches[1]); err != nil {
		return unrecognized, false
	}
	return Format{Tag: IntervalWithPeriod}, true
}

// matchCalendarDate rejects "-00" placeholders such as 1880-00-00 or
// 1880-05-00 so they cannot pass for a full date.
func matchCalendarDate(s string) (Format, bool) {
	if !calendarDateShape.MatchString(s) || strings.Contains(s, "-00") {
		return unrecognized, false
	}
	return Format{Tag: CalendarDate}, true
}

func matchOrdinal(s string) (Format, bool) {
	matches := ordinalShape.FindStringSubmatch(s)
	if matches == nil {
		return unrecognized, false
	}
	day, _ := strconv.Atoi(matches[1])
	if day < 1 || day > 366 {
		return unrecognized, false
	}
	return Format{Tag: DateTime, Kind: ISOOrdinalDate}, true
}

func matchDateTimeInterval(s string) (Format, bool) {
	if strings.Count(s, "/") != 1 {
		return unrecognized, false
	}
	start, end, _ := strings.Cut(s, "/")
	if !isDateTimeShape(start) || !isDateTimeShape(end) {
		return unrecognized, false
	}
	return Format{Tag: DateTime, Kind: ISODateTimeInterval}, true
}

func isDateTimeShape(s string) bool {
	return isoDateTimeShape.MatchString(s) || rfc3339Shape.MatchString(s)
}
