package cmd

import (
	"testing"
	"time"

	"daytiles/importer"
	"daytiles/internal/timeutil"
	"daytiles/schedule"
	"daytiles/storage"
)

func TestResolveReconcileMode(t *testing.T) {
	tests := []struct {
		name          string
		mode          string
		configDefault bool
		want          bool
		wantErr       bool
	}{
		{name: "auto true", mode: "auto", configDefault: true, want: true},
		{name: "auto false", mode: "auto", configDefault: false, want: false},
		{name: "empty uses config", mode: "", configDefault: true, want: true},
		{name: "on", mode: "on", configDefault: false, want: true},
		{name: "off", mode: "off", configDefault: true, want: false},
		{name: "yes alias", mode: "yes", configDefault: false, want: true},
		{name: "no alias", mode: "no", configDefault: true, want: false},
		{name: "invalid", mode: "maybe", configDefault: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveReconcileMode(tt.mode, tt.configDefault)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected value: expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCollectDayEntries(t *testing.T) {
	t.Parallel()

	fallback := time.Date(2026, 3, 2, 15, 4, 0, 0, time.Local)
	mapped := []importer.Mapped{
		{Day: "2026-03-03", Entry: schedule.Entry{ID: "b", Start: "10:00", Duration: 30}, SourceFile: "a.csv"},
		{Entry: schedule.Entry{ID: "a", Start: "09:00", Duration: 60}, SourceFile: "a.csv"},
		{Day: "2026-03-03", Entry: schedule.Entry{ID: "c", Start: "11:00", Duration: 30}, SourceFile: "a.csv"},
	}

	entries, days, err := collectDayEntries(mapped, fallback)
	if err != nil {
		t.Fatalf("collect day entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if got := timeutil.FormatDay(entries[1].Day); got != "2026-03-02" {
		t.Fatalf("expected undated row on fallback day, got %s", got)
	}
	if entries[0].SourceFile != "a.csv" || entries[0].Entry.ID != "b" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if len(days) != 2 || timeutil.FormatDay(days[0]) != "2026-03-02" || timeutil.FormatDay(days[1]) != "2026-03-03" {
		t.Fatalf("expected two days in calendar order, got %v", days)
	}
}

func TestCollectDayEntries_RequiresDate(t *testing.T) {
	t.Parallel()

	_, _, err := collectDayEntries([]importer.Mapped{{Entry: schedule.Entry{ID: "a", Start: "09:00", Duration: 60}}}, time.Time{})
	if err == nil {
		t.Fatalf("expected error for undated row without --date")
	}
}

func TestPreviewImport(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	store := fakeDayLister{
		"2026-03-02": {{ID: "standup", Start: "09:00", Duration: 30}},
		"2026-03-03": nil,
	}
	entries := []storage.DayEntry{
		{Day: monday, Entry: schedule.Entry{ID: "standup", Start: "09:00", Duration: 30}},
		{Day: monday, Entry: schedule.Entry{ID: "review", Start: "09:15", Duration: 60}},
		{Day: tuesday, Entry: schedule.Entry{ID: "standup", Start: "09:00", Duration: 30}},
	}

	preview, err := previewImport(store, entries, []time.Time{monday, tuesday})
	if err != nil {
		t.Fatalf("preview import: %v", err)
	}
	if preview.toAdd != 2 || preview.duplicates != 1 || len(preview.overlaps) != 1 {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	if preview.overlaps[0].Incoming.ID != "review" || preview.overlaps[0].Existing.ID != "standup" {
		t.Fatalf("unexpected overlap: %+v", preview.overlaps[0])
	}
}
