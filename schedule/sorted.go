package schedule

import (
	"fmt"
	"sort"
)

// Sorted is an entry sequence ordered ascending by start time. It can only be
// built through Sort, so holding one proves the ordering and validity checks
// already ran.
type Sorted struct {
	entries []Entry
}

// Sort validates entries and returns them as a Sorted sequence. The input
// slice is copied; ties keep their input order.
func Sort(entries []Entry) (Sorted, error) {
	type keyed struct {
		entry Entry
		start int
	}

	items := make([]keyed, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return Sorted{}, err
		}
		if _, exists := seen[entry.ID]; exists {
			return Sorted{}, &InvalidEntryError{ID: entry.ID, Reason: "duplicate id"}
		}
		seen[entry.ID] = struct{}{}

		start, err := entry.StartMinutes()
		if err != nil {
			return Sorted{}, fmt.Errorf("entry %q: %w", entry.ID, err)
		}
		items = append(items, keyed{entry: entry, start: start})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].start < items[j].start
	})

	out := make([]Entry, len(items))
	for i, item := range items {
		out[i] = item.entry
	}
	return Sorted{entries: out}, nil
}

// Len returns the number of entries.
func (s Sorted) Len() int {
	return len(s.entries)
}

// At returns the i-th entry in start order.
func (s Sorted) At(i int) Entry {
	return s.entries[i]
}

// Entries returns a copy of the ordered entries.
func (s Sorted) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}
