package layout

import (
	"fmt"

	"daytiles/schedule"
)

// span carries the values derived from an entry for one layout call, so the
// entry itself never needs to be annotated.
type span struct {
	entry  schedule.Entry
	start  int
	end    int
	hour   int
	minute int
}

func newSpan(entry schedule.Entry) (span, error) {
	start, err := schedule.ParseTime(entry.Start)
	if err != nil {
		return span{}, fmt.Errorf("entry %q: %w", entry.ID, err)
	}
	if entry.Duration <= 0 {
		return span{}, &schedule.InvalidEntryError{ID: entry.ID, Reason: fmt.Sprintf("duration must be > 0, got %d", entry.Duration)}
	}
	return span{
		entry:  entry,
		start:  start,
		end:    start + entry.Duration,
		hour:   start / 60,
		minute: start % 60,
	}, nil
}

func newSpans(entries schedule.Sorted) ([]span, error) {
	spans := make([]span, 0, entries.Len())
	for i := 0; i < entries.Len(); i++ {
		s, err := newSpan(entries.At(i))
		if err != nil {
			return nil, err
		}
		spans = append(spans, s)
	}
	return spans, nil
}

// overlaps uses half-open intervals: back-to-back spans do not overlap and a
// span never overlaps itself.
func (s span) overlaps(other span) bool {
	if s.entry.ID == other.entry.ID {
		return false
	}
	return s.start < other.end && s.end > other.start
}

// Overlaps reports whether two entries share any instant of time.
func Overlaps(a, b schedule.Entry) (bool, error) {
	left, err := newSpan(a)
	if err != nil {
		return false, err
	}
	right, err := newSpan(b)
	if err != nil {
		return false, err
	}
	return left.overlaps(right), nil
}
