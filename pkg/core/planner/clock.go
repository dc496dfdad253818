package planner

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO date format used for planning keys
	DateLayout = "2006-01-02"

	minutesPerDay = 24 * 60
)

// Clock is a time of day expressed in minutes since midnight
type Clock int

// ParseClock parses an "HH:MM" clock time
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", value)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// String formats the clock time as "HH:MM"
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MinutesBetween returns the length of the window from start to end in minutes.
// A non-positive difference wraps past midnight, so identical times yield 24h.
func MinutesBetween(start, end Clock) int {
	diff := int(end) - int(start)
	if diff <= 0 {
		diff += minutesPerDay
	}
	return diff
}

// NetMinutes deducts the mandated break from a raw duration when it runs
// longer than the break threshold. The result is never negative.
func NetMinutes(rawMinutes int, constraints Constraints) int {
	if rawMinutes <= 0 {
		return 0
	}
	net := rawMinutes
	if float64(rawMinutes)/60 > constraints.BreakAfterHours {
		net -= constraints.BreakMinutes
	}
	return max(net, 0)
}

// ParseWeekday accepts full or three-letter English weekday names, case-insensitively
func ParseWeekday(value string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if name == full || name == full[:3] {
			return day, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", value)
}

// DateRange returns the consecutive days starting at start
func DateRange(start time.Time, days int) []time.Time {
	base := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, days)
	for i := range days {
		dates[i] = base.AddDate(0, 0, i)
	}
	return dates
}

// NextMonday returns the first Monday on or after the given date
func NextMonday(from time.Time) time.Time {
	normalized := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	daysUntilMonday := (int(time.Monday) - int(normalized.Weekday()) + 7) % 7
	return normalized.AddDate(0, 0, daysUntilMonday)
}
