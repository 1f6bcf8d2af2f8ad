// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
)

const (
	HoursInADay     = 24
	SecondsInAnHour = 3600
)

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// SecondsToHours expresses a seconds value in hours.
func SecondsToHours(secs int64) float64 {
	return float64(secs) / SecondsInAnHour
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// DateKey returns the daily bucket key for the given time.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKey returns the ISO week bucket key for the given time (e.g. 2026-W35).
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey returns the calendar month bucket key for the given time.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// FromStr parses a date string in an unknown format.
func FromStr(s string) (time.Time, error) {
	return dateparse.ParseAny(s)
}

// keyLayout pads fractional seconds to a fixed width so that the
// lexicographic order of keys matches their chronological order.
const keyLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(keyLayout))
}
