package output

import (
	"strconv"

	"daytiles/layout"
	"daytiles/schedule"
)

// LayoutRow is one laid out entry flattened for export.
type LayoutRow struct {
	Date         string
	ID           string
	Start        string
	End          string
	Duration     int
	Column       int
	OverlapCount int
	Top          float64
	Height       float64
	Width        float64
	Left         float64
	Background   string
	Foreground   string
}

var layoutHeaders = []string{
	"Date", "ID", "Start", "End", "Duration", "Column", "OverlapCount",
	"Top", "Height", "Width", "Left", "Background", "Foreground",
}

// BuildLayoutRows joins the sorted entries with their computed styles, in
// sorted entry order.
func BuildLayoutRows(date string, entries schedule.Sorted, result *layout.Result) ([]LayoutRow, error) {
	rows := make([]LayoutRow, 0, entries.Len())
	for _, entry := range entries.Entries() {
		style, err := result.Lookup(entry.ID)
		if err != nil {
			return nil, err
		}
		placement, err := result.Placement(entry.ID)
		if err != nil {
			return nil, err
		}
		end, err := entry.End()
		if err != nil {
			return nil, err
		}

		rows = append(rows, LayoutRow{
			Date:         date,
			ID:           entry.ID,
			Start:        entry.Start,
			End:          schedule.FormatTime(end),
			Duration:     entry.Duration,
			Column:       placement.Column,
			OverlapCount: placement.OverlapCount,
			Top:          style.Top,
			Height:       style.Height,
			Width:        style.Width,
			Left:         style.Left,
			Background:   style.Background,
			Foreground:   style.Foreground,
		})
	}
	return rows, nil
}

func (r LayoutRow) values() []string {
	return []string{
		r.Date,
		r.ID,
		r.Start,
		r.End,
		strconv.Itoa(r.Duration),
		strconv.Itoa(r.Column),
		strconv.Itoa(r.OverlapCount),
		formatFloat(r.Top),
		formatFloat(r.Height),
		formatFloat(r.Width),
		formatFloat(r.Left),
		r.Background,
		r.Foreground,
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
