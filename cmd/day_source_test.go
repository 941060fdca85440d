package cmd

import (
	"testing"
	"time"

	"daytiles/config"
	"daytiles/importer"
	"daytiles/internal/timeutil"
	"daytiles/schedule"
)

func testCmdConfig() *config.Config {
	return &config.Config{
		Window:  config.WindowConfig{StartHour: 9, EndHour: 21, ScreenHeight: 1200},
		Palette: config.PaletteConfig{Seed: 1, MinChannel: 100},
	}
}

func TestEntriesForDay_SingleDay(t *testing.T) {
	t.Parallel()

	fallback := time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)
	mapped := []importer.Mapped{
		{Entry: schedule.Entry{ID: "1", Start: "09:00", Duration: 60}},
		{Entry: schedule.Entry{ID: "2", Start: "09:30", Duration: 60}},
	}

	day, entries, err := entriesForDay(mapped, time.Time{}, fallback)
	if err != nil {
		t.Fatalf("entries for day: %v", err)
	}
	if timeutil.FormatDay(day) != "2026-03-02" || len(entries) != 2 {
		t.Fatalf("unexpected day %s with %d entries", timeutil.FormatDay(day), len(entries))
	}
}

func TestEntriesForDay_SeveralDays(t *testing.T) {
	t.Parallel()

	fallback := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	mapped := []importer.Mapped{
		{Day: "2026-03-02", Entry: schedule.Entry{ID: "1", Start: "09:00", Duration: 60}},
		{Day: "2026-03-03", Entry: schedule.Entry{ID: "2", Start: "10:00", Duration: 60}},
	}

	if _, _, err := entriesForDay(mapped, time.Time{}, fallback); err == nil {
		t.Fatalf("expected error when rows span several days without --date")
	}

	want := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	day, entries, err := entriesForDay(mapped, want, want)
	if err != nil {
		t.Fatalf("entries for day: %v", err)
	}
	if !day.Equal(want) || len(entries) != 1 || entries[0].ID != "2" {
		t.Fatalf("expected only entry 2 on %s, got %s %+v", timeutil.FormatDay(want), timeutil.FormatDay(day), entries)
	}
}

func TestEntriesForDay_Empty(t *testing.T) {
	t.Parallel()

	fallback := time.Date(2026, 3, 2, 18, 0, 0, 0, time.Local)
	day, entries, err := entriesForDay(nil, time.Time{}, fallback)
	if err != nil {
		t.Fatalf("entries for day: %v", err)
	}
	if timeutil.FormatDay(day) != "2026-03-02" || len(entries) != 0 {
		t.Fatalf("unexpected result %s %+v", timeutil.FormatDay(day), entries)
	}
}

func TestDaySourceWindow(t *testing.T) {
	t.Parallel()

	cfg := testCmdConfig()

	window, err := (&daySource{}).window(cfg)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if window.StartHour != 9 || window.EndHour != 21 || window.ScreenHeight != 1200 {
		t.Fatalf("unexpected window from config: %+v", window)
	}

	window, err = (&daySource{height: 600}).window(cfg)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if window.ScreenHeight != 600 {
		t.Fatalf("expected height override, got %+v", window)
	}

	if _, err := (&daySource{height: -1}).window(cfg); err == nil {
		t.Fatalf("expected error for negative height")
	}
}

func TestDaySourceLoad_RequiresInputOrDate(t *testing.T) {
	t.Parallel()

	if _, _, err := (&daySource{}).load(testCmdConfig()); err == nil {
		t.Fatalf("expected error without --input and --date")
	}
}

func TestResolveDBPath(t *testing.T) {
	t.Parallel()

	if got := resolveDBPath("", "./daytiles.db"); got != "./daytiles.db" {
		t.Fatalf("expected config path, got %q", got)
	}
	if got := resolveDBPath("./other.db", "./daytiles.db"); got != "./other.db" {
		t.Fatalf("expected flag path, got %q", got)
	}
}
