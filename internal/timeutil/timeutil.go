package timeutil

import (
	"fmt"
	"time"
)

// DayLayout is the key format of a calendar day.
const DayLayout = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func MinutesFromMidnight(value time.Time) int {
	return value.Hour()*60 + value.Minute()
}

// ParseDay parses a YYYY-MM-DD day key in the local time zone.
func ParseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(DayLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (expected YYYY-MM-DD): %w", value, err)
	}
	return day, nil
}

func FormatDay(value time.Time) string {
	return value.Format(DayLayout)
}

// RangeDays returns every day from start to end inclusive.
func RangeDays(start, end time.Time) []time.Time {
	start = StartOfDay(start)
	end = StartOfDay(end)
	if end.Before(start) {
		return nil
	}

	days := make([]time.Time, 0)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
