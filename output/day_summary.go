package output

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"daytiles/layout"
	"daytiles/schedule"
)

// DaySummary condenses one laid out day.
type DaySummary struct {
	Date            string
	FirstStart      string
	LastEnd         string
	EntryCount      int
	ColumnCount     int
	PeakConcurrency int
	BusyHours       float64
	FreeHours       float64
}

var daySummaryHeaders = []string{
	"Date", "FirstStart", "LastEnd", "EntryCount", "ColumnCount", "PeakConcurrency", "BusyHours", "FreeHours",
}

type interval struct {
	start int
	end   int
}

// BuildDaySummary summarizes entries laid out on window. Busy and free time
// only count the part of the day inside the window.
func BuildDaySummary(date string, entries schedule.Sorted, result *layout.Result, window layout.Window) (DaySummary, error) {
	summary := DaySummary{
		Date:        date,
		EntryCount:  entries.Len(),
		ColumnCount: len(result.Columns()),
	}

	windowStart := window.StartHour * 60
	windowEnd := window.EndHour * 60
	if entries.Len() == 0 {
		summary.FreeHours = roundHours(float64(windowEnd-windowStart) / 60.0)
		return summary, nil
	}

	intervals := make([]interval, 0, entries.Len())
	lastEnd := 0
	for _, entry := range entries.Entries() {
		start, err := entry.StartMinutes()
		if err != nil {
			return DaySummary{}, err
		}
		end := start + entry.Duration
		if end > lastEnd {
			lastEnd = end
		}
		intervals = append(intervals, interval{start: start, end: end})
	}

	covered := mergedCoverageWithinWindow(intervals, windowStart, windowEnd)
	free := windowEnd - windowStart - covered
	if free < 0 {
		free = 0
	}

	summary.FirstStart = entries.At(0).Start
	summary.LastEnd = schedule.FormatTime(lastEnd)
	summary.PeakConcurrency = peakConcurrency(intervals)
	summary.BusyHours = roundHours(float64(covered) / 60.0)
	summary.FreeHours = roundHours(float64(free) / 60.0)
	return summary, nil
}

func mergedCoverageWithinWindow(intervals []interval, windowStart, windowEnd int) int {
	if len(intervals) == 0 || windowEnd <= windowStart {
		return 0
	}

	clipped := make([]interval, 0, len(intervals))
	for _, candidate := range intervals {
		start := max(candidate.start, windowStart)
		end := min(candidate.end, windowEnd)
		if end > start {
			clipped = append(clipped, interval{start: start, end: end})
		}
	}
	if len(clipped) == 0 {
		return 0
	}

	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].start < clipped[j].start
	})

	currentStart := clipped[0].start
	currentEnd := clipped[0].end
	covered := 0

	for _, candidate := range clipped[1:] {
		if candidate.start > currentEnd {
			covered += currentEnd - currentStart
			currentStart = candidate.start
			currentEnd = candidate.end
			continue
		}

		if candidate.end > currentEnd {
			currentEnd = candidate.end
		}
	}

	covered += currentEnd - currentStart
	return covered
}

// peakConcurrency is the largest number of intervals sharing one instant.
// Ends sort before starts at the same minute since intervals are half-open.
func peakConcurrency(intervals []interval) int {
	type event struct {
		at    int
		delta int
	}
	events := make([]event, 0, len(intervals)*2)
	for _, in := range intervals {
		events = append(events, event{at: in.start, delta: 1}, event{at: in.end, delta: -1})
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].at == events[j].at {
			return events[i].delta < events[j].delta
		}
		return events[i].at < events[j].at
	})

	current, peak := 0, 0
	for _, e := range events {
		current += e.delta
		if current > peak {
			peak = current
		}
	}
	return peak
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}

func WriteDaySummaries(path, format string, summaries []DaySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		records := make([][]string, 0, len(summaries))
		for _, summary := range summaries {
			records = append(records, []string{
				summary.Date,
				summary.FirstStart,
				summary.LastEnd,
				strconv.Itoa(summary.EntryCount),
				strconv.Itoa(summary.ColumnCount),
				strconv.Itoa(summary.PeakConcurrency),
				fmt.Sprintf("%.2f", summary.BusyHours),
				fmt.Sprintf("%.2f", summary.FreeHours),
			})
		}
		return writeCSV(path, daySummaryHeaders, records)
	case "excel", "xlsx":
		records := make([][]any, 0, len(summaries))
		for _, summary := range summaries {
			records = append(records, []any{
				summary.Date,
				summary.FirstStart,
				summary.LastEnd,
				summary.EntryCount,
				summary.ColumnCount,
				summary.PeakConcurrency,
				summary.BusyHours,
				summary.FreeHours,
			})
		}
		return writeExcel(path, "Summary", daySummaryHeaders, records)
	default:
		return fmt.Errorf("unsupported output format for day summaries: %s", format)
	}
}
