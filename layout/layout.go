// Package layout places the entries of one day on a vertical timeline. It
// assigns every entry to an overlap-free column and derives the pixel offset,
// pixel height and percentage width/left of the tile that represents it.
//
// The package is pure: no I/O, no state kept between calls.
package layout

import (
	"errors"
	"fmt"
	"strconv"

	"daytiles/schedule"
)

// ErrUnknownEntry is returned when a Result is asked about an id it does not hold.
var ErrUnknownEntry = errors.New("unknown entry")

// ColorSource supplies tile colors. Compute calls Background once per entry in
// column-major order and immediately passes the value to Foreground.
type ColorSource interface {
	Background() string
	Foreground(background string) string
}

// Style is the render geometry of one entry. Top and Height are pixels, Width
// and Left are percentages of the container width.
type Style struct {
	ID         string  `json:"id"`
	Top        float64 `json:"top"`
	Height     float64 `json:"height"`
	Width      float64 `json:"width"`
	Left       float64 `json:"left"`
	Background string  `json:"backgroundColor"`
	Foreground string  `json:"color"`
}

// CSS returns the style as CSS property values.
func (s Style) CSS() map[string]string {
	css := map[string]string{
		"top":    formatNumber(s.Top) + "px",
		"height": formatNumber(s.Height) + "px",
		"width":  formatNumber(s.Width) + "%",
		"left":   formatNumber(s.Left) + "%",
	}
	if s.Background != "" {
		css["backgroundColor"] = s.Background
	}
	if s.Foreground != "" {
		css["color"] = s.Foreground
	}
	return css
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Placement records how an entry was positioned relative to the others.
type Placement struct {
	Column       int      `json:"column"`
	OverlapCount int      `json:"overlapCount"`
	RealOverlaps []string `json:"realOverlaps"`
}

// Result is the outcome of one Compute call.
type Result struct {
	styles     []Style
	placements []Placement
	columns    []Column
	index      map[string]int
}

// Len returns the number of laid out entries.
func (r *Result) Len() int {
	return len(r.styles)
}

// Styles returns a copy of all styles in the order of the sorted input.
func (r *Result) Styles() []Style {
	out := make([]Style, len(r.styles))
	copy(out, r.styles)
	return out
}

// Columns returns a copy of the column assignment.
func (r *Result) Columns() []Column {
	out := make([]Column, 0, len(r.columns))
	for _, column := range r.columns {
		out = append(out, append(Column(nil), column...))
	}
	return out
}

// Lookup returns the style of the entry with the given id.
func (r *Result) Lookup(id string) (Style, error) {
	i, ok := r.index[id]
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	return r.styles[i], nil
}

// Placement returns the column placement of the entry with the given id.
func (r *Result) Placement(id string) (Placement, error) {
	i, ok := r.index[id]
	if !ok {
		return Placement{}, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	placement := r.placements[i]
	placement.RealOverlaps = append([]string(nil), placement.RealOverlaps...)
	return placement, nil
}

// Compute lays out entries on window. Any invalid entry or window aborts the
// whole call and no partial Result is returned. colors may be nil, in which
// case the color fields stay empty.
func Compute(entries schedule.Sorted, window Window, colors ColorSource) (*Result, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	spans, err := newSpans(entries)
	if err != nil {
		return nil, err
	}

	columns := assign(spans)
	tiles := deriveTiles(spans, columns, window, colors)
	adjustWidths(spans, tiles)

	result := &Result{
		styles:     make([]Style, len(spans)),
		placements: make([]Placement, len(spans)),
		columns:    toColumns(spans, columns),
		index:      make(map[string]int, len(spans)),
	}
	for _, t := range tiles {
		result.styles[t.span] = t.style
		result.placements[t.span] = Placement{
			Column:       t.column,
			OverlapCount: t.overlapCount,
			RealOverlaps: overlapIDs(spans, t.realOverlaps),
		}
		result.index[spans[t.span].entry.ID] = t.span
	}
	return result, nil
}

func overlapIDs(spans []span, indexes []int) []string {
	ids := make([]string, 0, len(indexes))
	for _, i := range indexes {
		ids = append(ids, spans[i].entry.ID)
	}
	return ids
}
