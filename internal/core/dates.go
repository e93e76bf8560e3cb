package core

import "time"

// DateLayout is the wire format for every date field.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date as midnight UTC. An empty or malformed
// string reports ok == false.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// YearStart returns Jan 1 of year, UTC.
func YearStart(year int) time.Time { return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC) }

// YearEnd returns Dec 31 of year, UTC.
func YearEnd(year int) time.Time { return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC) }

// DaysInYear returns 366 for leap years, 365 otherwise.
func DaysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

// AgeAtYearEnd returns the age on Dec 31 of year for a YYYY-MM-DD birth date.
// Every birthday in the year has passed by Dec 31, so the age is the year
// difference.
func AgeAtYearEnd(dob string, year int) (int, bool) {
	born, ok := ParseDate(dob)
	if !ok {
		return 0, false
	}
	return year - born.Year(), true
}
