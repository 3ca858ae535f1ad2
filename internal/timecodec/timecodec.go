// Package timecodec converts between wall-clock representations and whole
// minutes, and formats minutes back into clock and duration strings.
package timecodec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"timesheet-dashboard/internal/domain"
)

const minutesPerDay = 24 * 60

// ErrInvalidTimestamp is returned when a date-time carries no readable time of day.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// DurationToMinutes returns hours*60 + minutes. Absent parts count as zero.
func DurationToMinutes(d *domain.Duration) int {
	if d == nil {
		return 0
	}
	var total int
	if d.Hours != nil {
		total += *d.Hours * 60
	}
	if d.Minutes != nil {
		total += *d.Minutes
	}
	return total
}

// ParseTimeOfDay reads the HH:MM component that follows the date in an
// ISO-8601 date-time ("2024-03-01T09:15:00Z") and returns minutes since
// midnight. The clock value is taken literally; any zone suffix is ignored.
// A space separator ("2024-03-01 09:15:00") is accepted as well.
func ParseTimeOfDay(ts string) (int, error) {
	i := strings.IndexAny(ts, "T ")
	if i < 0 || i == len(ts)-1 {
		return 0, fmt.Errorf("%w: %q has no time component", ErrInvalidTimestamp, ts)
	}
	clock := ts[i+1:]
	hh, rest, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q has no minutes", ErrInvalidTimestamp, ts)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidTimestamp, ts)
	}
	mm := leadingDigits(rest)
	if mm == "" || len(mm) > 2 {
		return 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidTimestamp, ts)
	}
	minutes, _ := strconv.Atoi(mm)
	if minutes > 59 {
		return 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidTimestamp, ts)
	}
	return hours*60 + minutes, nil
}

// TimeOfDayToMinutes is ParseTimeOfDay with a silent fallback to 0 (midnight).
// Callers that need to know about the fallback should use ParseTimeOfDay.
func TimeOfDayToMinutes(ts string) int {
	m, err := ParseTimeOfDay(ts)
	if err != nil {
		return 0
	}
	return m
}

// MinutesToClockString formats minutes since midnight as a 12-hour clock,
// e.g. 0 -> "12:00 AM", 750 -> "12:30 PM".
func MinutesToClockString(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	hours := minutes / 60
	mins := minutes % 60
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours
	switch {
	case hours == 0:
		display = 12
	case hours > 12:
		display = hours - 12
	}
	return fmt.Sprintf("%d:%02d %s", display, mins, period)
}

// MinutesToDurationString formats a non-negative minute count as "Hh Mm".
func MinutesToDurationString(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// MinutesToHours converts minutes to hours rounded to two decimals.
func MinutesToHours(minutes float64) float64 {
	return math.Round(minutes/60*100) / 100
}

// FormatHours renders minutes as decimal hours, e.g. 90 -> "1.50h".
func FormatHours(minutes float64) string {
	return fmt.Sprintf("%.2fh", minutes/60)
}

// FormatMinutes renders fractional minutes as "Hh Mm" after rounding to the
// nearest whole minute.
func FormatMinutes(minutes float64) string {
	return MinutesToDurationString(int(math.Round(minutes)))
}

func leadingDigits(s string) string {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return s[:n]
}
