package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"daytiles/internal/timeutil"
	"daytiles/schedule"
)

func parseGermanDecimalHoursToMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours %q: %w", raw, err)
	}

	minutes := int(math.Round(hours * 60))
	if minutes < 0 {
		return 0, fmt.Errorf("hours must not be negative")
	}
	return minutes, nil
}

func parseMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	minutes, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", raw, err)
	}

	rounded := int(math.Round(minutes))
	if rounded < 0 {
		return 0, fmt.Errorf("minutes must not be negative")
	}
	return rounded, nil
}

// parseClock accepts wall clock values as they appear in spreadsheets and
// returns minutes since midnight.
func parseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty time")
	}
	if minutes, err := schedule.ParseTime(value); err == nil {
		return minutes, nil
	}

	layouts := []string{
		"15:04",
		"15:04:05",
		"3:04 PM",
		"3:04PM",
		"3:04:05 PM",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return timeutil.MinutesFromMidnight(parsed), nil
		}
	}

	return 0, fmt.Errorf("unsupported time format: %q", value)
}

// parseStart reads either a plain clock value or a full date/time value. The
// day is empty for plain clock values.
func parseStart(value string) (string, int, error) {
	value = strings.TrimSpace(value)
	if minutes, err := parseClock(value); err == nil {
		return "", minutes, nil
	}

	parsed, err := parseDateTime(value)
	if err != nil {
		return "", 0, fmt.Errorf("unsupported start format: %q", value)
	}
	return timeutil.FormatDay(parsed), timeutil.MinutesFromMidnight(parsed), nil
}

func parseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty date")
	}

	layouts := []string{
		timeutil.DayLayout,
		"02.01.2006",
		"01-02-06",
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return timeutil.FormatDay(parsed), nil
		}
	}

	return "", fmt.Errorf("unsupported date format: %q", value)
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"02.01.2006 15:04",
		"02.01.2006 03:04 PM",
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", value)
}
