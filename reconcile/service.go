// Package reconcile removes overlaps from a stored day by moving entries to
// the next free slot, and reports the free slots of a day.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"daytiles/schedule"
)

const minutesPerDay = 24 * 60

// Store is the part of the storage layer reconcile needs.
type Store interface {
	ListDay(day time.Time) ([]schedule.Entry, error)
	UpdateEntryStarts(day time.Time, entries []schedule.Entry) (int, error)
}

type Options struct {
	// Pinned ids are never moved; other entries are placed around them.
	Pinned []string
}

type Result struct {
	EntriesChecked int
	OverlapsBefore int
	OverlapsAfter  int
	EntriesMoved   int
	RowsUpdated    int
}

// Slot is a half-open range of minutes since midnight.
type Slot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Slot) Minutes() int {
	return s.End - s.Start
}

func (s Slot) String() string {
	return schedule.FormatTime(s.Start) + "-" + schedule.FormatTime(s.End)
}

type interval struct {
	start int
	end   int
}

// Run reconciles one stored day and persists the moved entries.
func Run(store Store, day time.Time, options Options) (*Result, error) {
	entries, err := store.ListDay(day)
	if err != nil {
		return nil, err
	}

	sorted, err := schedule.Sort(entries)
	if err != nil {
		return nil, fmt.Errorf("stored entries: %w", err)
	}

	result := &Result{EntriesChecked: sorted.Len()}
	if sorted.Len() == 0 {
		return result, nil
	}

	result.OverlapsBefore, err = countConflicts(sorted.Entries())
	if err != nil {
		return nil, err
	}

	updates, err := reconcileDay(sorted, options.Pinned)
	if err != nil {
		return nil, err
	}
	result.EntriesMoved = len(updates)

	result.OverlapsAfter, err = countConflicts(applyUpdates(sorted.Entries(), updates))
	if err != nil {
		return nil, err
	}

	updatedRows, err := store.UpdateEntryStarts(day, updates)
	if err != nil {
		return nil, fmt.Errorf("persist reconciled entries: %w", err)
	}
	result.RowsUpdated = updatedRows

	return result, nil
}

// reconcileDay keeps pinned entries in place and then places the others in
// start order at the earliest free start at or after their own. An entry that
// would run past midnight keeps its time.
func reconcileDay(entries schedule.Sorted, pinned []string) ([]schedule.Entry, error) {
	isPinned := make(map[string]bool, len(pinned))
	for _, id := range pinned {
		isPinned[id] = true
	}

	busy := make([]interval, 0, entries.Len())
	movable := make([]schedule.Entry, 0, entries.Len())
	for _, entry := range entries.Entries() {
		if !isPinned[entry.ID] {
			movable = append(movable, entry)
			continue
		}
		start, err := entry.StartMinutes()
		if err != nil {
			return nil, err
		}
		busy = addInterval(busy, interval{start: start, end: start + entry.Duration})
	}

	updates := make([]schedule.Entry, 0, len(movable))
	for _, entry := range movable {
		start, err := entry.StartMinutes()
		if err != nil {
			return nil, err
		}

		newStart := findNextAvailableStart(busy, start, entry.Duration)
		if newStart+entry.Duration > minutesPerDay {
			busy = addInterval(busy, interval{start: start, end: start + entry.Duration})
			continue
		}
		if newStart != start {
			entry.Start = schedule.FormatTime(newStart)
			updates = append(updates, entry)
		}

		busy = addInterval(busy, interval{start: newStart, end: newStart + entry.Duration})
	}

	return updates, nil
}

func findNextAvailableStart(busy []interval, desiredStart, duration int) int {
	candidate := desiredStart
	for _, slot := range busy {
		if candidate+duration <= slot.start {
			return candidate
		}
		if candidate >= slot.end {
			continue
		}
		candidate = slot.end
	}
	return candidate
}

func addInterval(busy []interval, in interval) []interval {
	if in.end <= in.start {
		return busy
	}

	all := append(append([]interval(nil), busy...), in)
	sort.Slice(all, func(i, j int) bool {
		return all[i].start < all[j].start
	})

	merged := make([]interval, 0, len(all))
	current := all[0]
	for _, next := range all[1:] {
		if next.start > current.end {
			merged = append(merged, current)
			current = next
			continue
		}
		if next.end > current.end {
			current.end = next.end
		}
	}
	merged = append(merged, current)

	return merged
}

// countConflicts counts overlapping pairs.
func countConflicts(entries []schedule.Entry) (int, error) {
	spans := make([]interval, 0, len(entries))
	for _, entry := range entries {
		start, err := entry.StartMinutes()
		if err != nil {
			return 0, err
		}
		spans = append(spans, interval{start: start, end: start + entry.Duration})
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start == spans[j].start {
			return spans[i].end < spans[j].end
		}
		return spans[i].start < spans[j].start
	})

	conflicts := 0
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[j].start >= spans[i].end {
				break
			}
			conflicts++
		}
	}
	return conflicts, nil
}

func applyUpdates(entries []schedule.Entry, updates []schedule.Entry) []schedule.Entry {
	byID := make(map[string]schedule.Entry, len(updates))
	for _, update := range updates {
		byID[update.ID] = update
	}

	out := make([]schedule.Entry, 0, len(entries))
	for _, entry := range entries {
		if updated, ok := byID[entry.ID]; ok {
			out = append(out, updated)
			continue
		}
		out = append(out, entry)
	}
	return out
}

// FreeSlots returns the gaps between entries inside [from, to).
func FreeSlots(entries []schedule.Entry, from, to int) ([]Slot, error) {
	busy := make([]interval, 0, len(entries))
	for _, entry := range entries {
		start, err := entry.StartMinutes()
		if err != nil {
			return nil, err
		}
		busy = addInterval(busy, interval{start: start, end: start + entry.Duration})
	}

	slots := make([]Slot, 0, len(busy)+1)
	cursor := from
	for _, in := range busy {
		if in.end <= cursor {
			continue
		}
		if in.start >= to {
			break
		}
		if in.start > cursor {
			slots = append(slots, Slot{Start: cursor, End: in.start})
		}
		cursor = in.end
	}
	if cursor < to {
		slots = append(slots, Slot{Start: cursor, End: to})
	}
	return slots, nil
}
