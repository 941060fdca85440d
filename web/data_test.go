package web

import (
	"errors"
	"strings"
	"testing"
	"time"

	"daytiles/layout"
	"daytiles/palette"
	"daytiles/schedule"
)

func TestBuildDayView_Tiles(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 14, 30, 0, 0, time.Local)
	entries := []schedule.Entry{
		{ID: "2", Start: "09:30", Duration: 60},
		{ID: "1", Start: "09:00", Duration: 60},
		{ID: "3", Start: "13:00", Duration: 30},
	}

	view, err := BuildDayView(day, entries, layout.DefaultWindow(1200), palette.NewCycle("#000000", "#ffffff"))
	if err != nil {
		t.Fatalf("build day view: %v", err)
	}
	if !view.Date.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("expected start of day, got %v", view.Date)
	}
	if len(view.Tiles) != 3 {
		t.Fatalf("expected 3 tiles, got %d", len(view.Tiles))
	}
	if view.Tiles[0].ID != "1" || view.Tiles[1].ID != "2" || view.Tiles[2].ID != "3" {
		t.Fatalf("expected tiles in start order, got %+v", view.Tiles)
	}
	if view.Tiles[1].End != "10:30" || view.Tiles[1].Column != 1 || view.Tiles[1].OverlapCount != 1 {
		t.Fatalf("unexpected second tile: %+v", view.Tiles[1])
	}
	if view.Tiles[2].Style.Width != 100 {
		t.Fatalf("expected isolated tile at full width, got %+v", view.Tiles[2].Style)
	}
	if view.ColumnCount != 2 {
		t.Fatalf("expected 2 columns, got %d", view.ColumnCount)
	}
	if len(view.Hours) != 12 || view.Hours[0].Label != "09:00" || view.Hours[11].Label != "20:00" {
		t.Fatalf("unexpected hour marks: %+v", view.Hours)
	}

	wantSlots := []string{"10:30-13:00", "13:30-21:00"}
	if strings.Join(view.FreeSlots, ",") != strings.Join(wantSlots, ",") {
		t.Fatalf("expected free slots %v, got %v", wantSlots, view.FreeSlots)
	}
	if view.BusyMinutes != 120 || view.TotalMinutes != 720 {
		t.Fatalf("unexpected busy/total minutes: %d/%d", view.BusyMinutes, view.TotalMinutes)
	}
}

func TestBuildDayView_EmptyDay(t *testing.T) {
	t.Parallel()

	view, err := BuildDayView(time.Now(), nil, layout.DefaultWindow(600), nil)
	if err != nil {
		t.Fatalf("build empty day view: %v", err)
	}
	if len(view.Tiles) != 0 || view.ColumnCount != 0 {
		t.Fatalf("expected no tiles, got %+v", view)
	}
	if len(view.FreeSlots) != 1 || view.FreeSlots[0] != "09:00-21:00" {
		t.Fatalf("expected the whole window free, got %v", view.FreeSlots)
	}
}

func TestBuildDayView_MalformedEntry(t *testing.T) {
	t.Parallel()

	_, err := BuildDayView(time.Now(), []schedule.Entry{{ID: "x", Start: "9:5", Duration: 10}}, layout.DefaultWindow(600), nil)
	if !errors.Is(err, schedule.ErrMalformedTime) {
		t.Fatalf("expected malformed time error, got %v", err)
	}
}

func TestTileView_CSS(t *testing.T) {
	t.Parallel()

	tile := TileView{Style: layout.Style{Top: 50, Height: 100, Width: 50, Left: 50, Background: "#abcdef", Foreground: "black"}}
	got := string(tile.CSS())
	want := "background-color: #abcdef; color: black; height: 100px; left: 50%; top: 50px; width: 50%"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
