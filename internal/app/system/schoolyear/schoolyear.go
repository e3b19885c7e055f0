// internal/app/system/schoolyear/schoolyear.go
package schoolyear

import (
	"fmt"
	"time"
)

// Clock returns the reference date. Handlers carry one so tests can pin it.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() time.Time { return time.Now() }

// StartYear returns the calendar year the school year active at now began in.
// School years start on September 1.
func StartYear(now time.Time) int {
	if now.Month() < time.September {
		return now.Year() - 1
	}
	return now.Year()
}

// Start returns September 1 of the school year active at now.
func Start(now time.Time) time.Time {
	return time.Date(StartYear(now), time.September, 1, 0, 0, 0, 0, now.Location())
}

// Bounds returns [start, end) of the school year active at now.
func Bounds(now time.Time) (time.Time, time.Time) {
	start := Start(now)
	return start, start.AddDate(1, 0, 0)
}

// Label formats the school year active at now as "2025-2026".
func Label(now time.Time) string {
	return LabelFor(StartYear(now))
}

// LabelFor formats the school year starting in startYear.
func LabelFor(startYear int) string {
	return fmt.Sprintf("%d-%d", startYear, startYear+1)
}

// Age is the school-year age: the start year of the active school year minus
// the birth year. Birthdays are ignored. Future birth dates give negative ages.
func Age(birth, now time.Time) int {
	return StartYear(now) - birth.Year()
}
