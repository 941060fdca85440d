package web

import (
	"html/template"
	"sort"
	"strings"
	"time"

	"daytiles/internal/timeutil"
	"daytiles/layout"
	"daytiles/reconcile"
	"daytiles/schedule"
)

type DayView struct {
	Date         time.Time
	Window       layout.Window
	Tiles        []TileView
	Hours        []HourMark
	FreeSlots    []string
	ColumnCount  int
	BusyMinutes  int
	TotalMinutes int
}

type TileView struct {
	ID           string
	Start        string
	End          string
	DurationMins int
	Column       int
	OverlapCount int
	Style        layout.Style
}

type HourMark struct {
	Label string
	Top   float64
}

// CSS returns the inline style attribute of the tile.
func (t TileView) CSS() template.CSS {
	css := t.Style.CSS()
	keys := make([]string, 0, len(css))
	for key := range css {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, cssProperty(key)+": "+css[key])
	}
	return template.CSS(strings.Join(parts, "; "))
}

func cssProperty(key string) string {
	if key == "backgroundColor" {
		return "background-color"
	}
	return key
}

// BuildDayView lays out the entries of one day and collects what the day
// page shows next to the calendar.
func BuildDayView(day time.Time, entries []schedule.Entry, window layout.Window, colors layout.ColorSource) (DayView, error) {
	view := DayView{
		Date:         timeutil.StartOfDay(day),
		Window:       window,
		TotalMinutes: window.Minutes(),
	}

	sorted, err := schedule.Sort(entries)
	if err != nil {
		return view, err
	}
	result, err := layout.Compute(sorted, window, colors)
	if err != nil {
		return view, err
	}

	view.Tiles = make([]TileView, 0, sorted.Len())
	for _, entry := range sorted.Entries() {
		style, err := result.Lookup(entry.ID)
		if err != nil {
			return view, err
		}
		placement, err := result.Placement(entry.ID)
		if err != nil {
			return view, err
		}
		end, err := entry.End()
		if err != nil {
			return view, err
		}
		view.Tiles = append(view.Tiles, TileView{
			ID:           entry.ID,
			Start:        entry.Start,
			End:          schedule.FormatTime(end),
			DurationMins: entry.Duration,
			Column:       placement.Column,
			OverlapCount: placement.OverlapCount,
			Style:        style,
		})
	}
	view.ColumnCount = len(result.Columns())

	pixelsPerHour := window.PixelsPerMinute() * 60
	for hour := window.StartHour; hour < window.EndHour; hour++ {
		view.Hours = append(view.Hours, HourMark{
			Label: schedule.FormatTime(hour * 60),
			Top:   float64(hour-window.StartHour) * pixelsPerHour,
		})
	}

	slots, err := reconcile.FreeSlots(sorted.Entries(), window.StartHour*60, window.EndHour*60)
	if err != nil {
		return view, err
	}
	free := 0
	for _, slot := range slots {
		view.FreeSlots = append(view.FreeSlots, slot.String())
		free += slot.Minutes()
	}
	view.BusyMinutes = view.TotalMinutes - free

	return view, nil
}
