// Package classifier folds the eventDate checks for one raw value into a
// single Classification.
package classifier

import (
	"fmt"
	"strings"

	"eventdate/internal/eventdate"
)

// Measure names one eventDate check.
type Measure string

const (
	Populated      Measure = "populated"
	StandardFormat Measure = "standardFormat"
	Exists         Measure = "exists"
	SingleDay      Measure = "singleDay"
	WithinOneYear  Measure = "withinOneYear"
)

// AllMeasures lists every measure in the order they are reported.
var AllMeasures = []Measure{Populated, StandardFormat, Exists, SingleDay, WithinOneYear}

// DefaultMeasures are the measures checked when none are configured.
var DefaultMeasures = []Measure{Populated, StandardFormat, Exists}

var measureFuncs = map[Measure]func(string) bool{
	Populated:      eventdate.Populated,
	StandardFormat: eventdate.StandardFormat,
	Exists:         eventdate.Exists,
	SingleDay:      eventdate.SingleDay,
	WithinOneYear:  eventdate.WithinOneYear,
}

// ParseMeasure matches a measure name case-insensitively.
func ParseMeasure(name string) (Measure, error) {
	for _, m := range AllMeasures {
		if strings.EqualFold(string(m), strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown measure %q", name)
}

// FailureReason says why a value did not pass.
type FailureReason string

const (
	NotPopulated      FailureReason = "NOT_POPULATED"
	NonStandardFormat FailureReason = "NON_STANDARD_FORMAT"
	NonExistentDate   FailureReason = "NON_EXISTENT_DATE"
	NotSingleDay      FailureReason = "NOT_SINGLE_DAY"
	NotWithinOneYear  FailureReason = "NOT_WITHIN_ONE_YEAR"
)

var failureReasons = map[Measure]FailureReason{
	Populated:      NotPopulated,
	StandardFormat: NonStandardFormat,
	Exists:         NonExistentDate,
	SingleDay:      NotSingleDay,
	WithinOneYear:  NotWithinOneYear,
}

// Classification is the result of checking one value.
// Start and End are only set when the value exists.
type Classification struct {
	Value      string
	Format     eventdate.Format
	Components []string
	Start      string
	End        string
	Results    map[Measure]bool
	Reason     FailureReason
}

// Classify runs the given measures against value. Reason is set from the
// first failing measure, taken in AllMeasures order.
func Classify(value string, measures []Measure) *Classification {
	if len(measures) == 0 {
		measures = DefaultMeasures
	}

	c := &Classification{
		Value:      value,
		Format:     eventdate.IdentifyFormat(value),
		Components: eventdate.SplitRange(value),
		Results:    make(map[Measure]bool, len(measures)),
	}

	if start, end, ok := eventdate.Bounds(value); ok {
		c.Start = start.String()
		c.End = end.String()
	}

	for _, m := range measures {
		check, ok := measureFuncs[m]
		if !ok {
			continue
		}
		c.Results[m] = check(value)
	}

	for _, m := range AllMeasures {
		if passed, checked := c.Results[m]; checked && !passed {
			c.Reason = failureReasons[m]
			break
		}
	}

	return c
}

// Passed returns true if every measure that was run passed.
func (c *Classification) Passed() bool {
	return c.Reason == ""
}

// Failed returns true if any measure that was run failed.
func (c *Classification) Failed() bool {
	return c.Reason != ""
}
