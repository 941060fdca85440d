package classify

import (
	"daytiles/layout"
	"daytiles/schedule"
)

// Overlap pairs an incoming entry with the stored entry it runs into.
type Overlap struct {
	Incoming schedule.Entry
	Existing schedule.Entry
}

// ClassifyImport splits the incoming entries of one day by import outcome
// against the entries already stored for that day. An id seen before, stored
// or earlier in incoming, is a duplicate and is not added. New entries that
// overlap a stored entry are still added and reported once per stored entry.
func ClassifyImport(incoming, existing []schedule.Entry) ([]schedule.Entry, []Overlap, int, error) {
	toAdd := make([]schedule.Entry, 0, len(incoming))
	overlaps := make([]Overlap, 0)
	duplicates := 0

	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, entry := range existing {
		seen[entry.ID] = struct{}{}
	}

	for _, candidate := range incoming {
		if _, exists := seen[candidate.ID]; exists {
			duplicates++
			continue
		}
		seen[candidate.ID] = struct{}{}

		for _, existingEntry := range existing {
			overlapping, err := layout.Overlaps(candidate, existingEntry)
			if err != nil {
				return nil, nil, 0, err
			}
			if overlapping {
				overlaps = append(overlaps, Overlap{Incoming: candidate, Existing: existingEntry})
			}
		}

		toAdd = append(toAdd, candidate)
	}

	return toAdd, overlaps, duplicates, nil
}
