package layout

import "github.com/shopspring/decimal"

// adjustWidths is the correction pass run after geometry derivation. It visits
// tiles in production order and reads the current values of earlier tiles, so
// a correction applied to one tile is visible to the tiles after it.
//
//   - no overlapping entry at all: full width at the left edge;
//   - exactly one overlapping entry that starts earlier and whose width is
//     below 50%: narrow this tile by half of that width, rounded to two
//     decimals.
//
// Everything else is left as derived.
func adjustWidths(spans []span, tiles []*tile) {
	bySpan := make(map[int]*tile, len(tiles))
	for _, t := range tiles {
		bySpan[t.span] = t
	}

	for _, t := range tiles {
		switch len(t.realOverlaps) {
		case 0:
			t.style.Width = 100
			t.style.Left = 0
		case 1:
			other := bySpan[t.realOverlaps[0]]
			if spans[other.span].start >= spans[t.span].start {
				continue
			}
			shrink := round2(other.style.Width / 2)
			if other.style.Width < 50 {
				t.style.Width -= shrink
			}
		}
	}
}

func round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}
