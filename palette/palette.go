// Package palette assigns tile colors. Sources are not safe for concurrent
// use; create one per layout call.
package palette

import (
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultMinChannel keeps random backgrounds away from the dark end so
	// that tiles stay readable.
	DefaultMinChannel = 100
	fallbackText      = "black"
)

// Random draws every channel uniformly from [MinChannel, 256).
type Random struct {
	MinChannel int
	rng        *rand.Rand
}

// NewSeeded returns a Random source that replays the same colors for the same seed.
func NewSeeded(seed uint64, minChannel int) *Random {
	if minChannel < 0 || minChannel > 255 {
		minChannel = DefaultMinChannel
	}
	return &Random{
		MinChannel: minChannel,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Background returns the next color as #rrggbb.
func (r *Random) Background() string {
	span := 256 - r.MinChannel
	red := r.MinChannel + r.rng.IntN(span)
	green := r.MinChannel + r.rng.IntN(span)
	blue := r.MinChannel + r.rng.IntN(span)
	return fmt.Sprintf("#%02x%02x%02x", red, green, blue)
}

// Foreground returns the readable text color for background.
func (r *Random) Foreground(background string) string {
	return foreground(background)
}

// Cycle hands out a fixed list of backgrounds in order and starts over at the end.
type Cycle struct {
	colors []string
	next   int
}

// NewCycle returns a Cycle over colors. An empty list falls back to white.
func NewCycle(colors ...string) *Cycle {
	if len(colors) == 0 {
		colors = []string{"#ffffff"}
	}
	return &Cycle{colors: append([]string(nil), colors...)}
}

func (c *Cycle) Background() string {
	color := c.colors[c.next%len(c.colors)]
	c.next++
	return color
}

func (c *Cycle) Foreground(background string) string {
	return foreground(background)
}

// ContrastText picks "black" or "white" text for a #rrggbb background using
// the weighted luminance (0.299R + 0.587G + 0.114B) / 255.
func ContrastText(hex string) (string, error) {
	color, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("parse background %q: %w", hex, err)
	}
	red, green, blue := color.RGB255()
	luminance := (0.299*float64(red) + 0.587*float64(green) + 0.114*float64(blue)) / 255
	if luminance > 0.5 {
		return "black", nil
	}
	return "white", nil
}

func foreground(background string) string {
	text, err := ContrastText(background)
	if err != nil {
		return fallbackText
	}
	return text
}
