package eventdate

// The calendar-adoption checks below do not look at their input. Julian to
// Gregorian transition dates are not modelled; the answers are fixed so
// callers can depend on a stable result.

// InProlepticGregorianRange always reports true: every date is read on the
// proleptic Gregorian calendar.
func InProlepticGregorianRange(string) bool {
	return true
}

// InBritishGregorianRange always reports false.
func InBritishGregorianRange(string) bool {
	return false
}

// InRussianGregorianRange always reports false.
func InRussianGregorianRange(string) bool {
	return false
}
