package layout

// tile is the working state of one entry during Compute.
type tile struct {
	span         int
	column       int
	overlapCount int
	realOverlaps []int
	style        Style
}

// deriveTiles produces one tile per span in column-major order: every member
// of column 0 top to bottom, then column 1, and so on.
func deriveTiles(spans []span, columns [][]int, window Window, colors ColorSource) []*tile {
	windowMinutes := float64(window.Minutes())
	tiles := make([]*tile, 0, len(spans))

	for c, members := range columns {
		for _, i := range members {
			s := spans[i]
			overlapCount := countOverlappingColumns(spans, columns, c, s)

			startOffset := (s.hour-window.StartHour)*60 + s.minute
			style := Style{
				ID:     s.entry.ID,
				Top:    float64(startOffset) / windowMinutes * window.ScreenHeight,
				Height: float64(s.entry.Duration) / windowMinutes * window.ScreenHeight,
				Width:  100,
				Left:   0,
			}
			if overlapCount > 0 {
				style.Width = 100 / float64(overlapCount+1)
				style.Left = style.Width * float64(c)
			}
			if colors != nil {
				style.Background = colors.Background()
				style.Foreground = colors.Foreground(style.Background)
			}

			tiles = append(tiles, &tile{
				span:         i,
				column:       c,
				overlapCount: overlapCount,
				realOverlaps: realOverlaps(spans, i),
				style:        style,
			})
		}
	}
	return tiles
}

// countOverlappingColumns counts the other columns holding at least one member
// that overlaps s.
func countOverlappingColumns(spans []span, columns [][]int, own int, s span) int {
	count := 0
	for c, members := range columns {
		if c == own {
			continue
		}
		if columnConflicts(spans, members, s) {
			count++
		}
	}
	return count
}

func realOverlaps(spans []span, i int) []int {
	var out []int
	for j := range spans {
		if spans[i].overlaps(spans[j]) {
			out = append(out, j)
		}
	}
	return out
}
