package dateparser

// Arithmetic adds calendar amounts to dates. Callers outside this package
// only ever see IsoDate values, never the calendar library underneath.
type Arithmetic interface {
	AddDays(d IsoDate, days int) IsoDate
	AddMonths(d IsoDate, months int) IsoDate
	AddYears(d IsoDate, years int) IsoDate
}

// Gregorian implements Arithmetic over the proleptic Gregorian calendar.
// Adding months or years clamps the day to the end of the target month, so
// January 31 plus one month is the last day of February.
type Gregorian struct{}

// Calendar is the Arithmetic used by the parsers in this module.
var Calendar Arithmetic = Gregorian{}

// AddDays adds a (possibly negative) number of days.
func (Gregorian) AddDays(d IsoDate, days int) IsoDate {
	return *fromTime(d.Time().AddDate(0, 0, days))
}

// AddMonths adds a (possibly negative) number of months.
func (Gregorian) AddMonths(d IsoDate, months int) IsoDate {
	total := d.Year*12 + (d.Month - 1) + months
	year := floorDiv(total, 12)
	month := total - year*12 + 1

	day := d.Day
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return IsoDate{Year: year, Month: month, Day: day}
}

// AddYears adds a (possibly negative) number of years.
func (g Gregorian) AddYears(d IsoDate, years int) IsoDate {
	return g.AddMonths(d, years*12)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
