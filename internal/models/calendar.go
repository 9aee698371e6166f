package models

import (
	"math"
	"time"

	"github.com/jinzhu/now"
)

// Calendar helpers. Every boundary is computed in the location of the time
// value passed in, which is how callers select the user's calendar.

func startOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

func startOfMonth(t time.Time) time.Time {
	return now.With(t).BeginningOfMonth()
}

func sameMonth(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// daysBetween returns the number of calendar days from 'from' to 'to',
// negative when 'to' is earlier. Both are read in to's location.
func daysBetween(from, to time.Time) int {
	a := startOfDay(from.In(to.Location()))
	b := startOfDay(to)
	// Rounding absorbs the 23h/25h days around DST changes.
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// StartOfMonth is exported for callers that key their own month buckets.
func StartOfMonth(t time.Time) time.Time {
	return startOfMonth(t)
}
