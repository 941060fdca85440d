package render

import (
	"fmt"
	"math"
	"strings"

	"daytiles/layout"
	"daytiles/schedule"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultTermWidth   = 60
	defaultRowsPerHour = 2
	termGutter         = 6
)

// TerminalOptions controls the character grid. Zero values fall back to defaults.
type TerminalOptions struct {
	Window      layout.Window
	Width       int
	RowsPerHour int
	// Renderer decides the color profile. Nil uses the lipgloss default renderer.
	Renderer *lipgloss.Renderer
}

type cell struct {
	char rune
	tile int
}

// Terminal paints every tile onto a grid of Window hours times RowsPerHour
// rows. Later tiles paint over earlier ones.
func Terminal(entries schedule.Sorted, result *layout.Result, opts TerminalOptions) (string, error) {
	if result == nil {
		return "", fmt.Errorf("render terminal: nil layout result")
	}
	if err := opts.Window.Validate(); err != nil {
		return "", err
	}
	if opts.Width <= 0 {
		opts.Width = defaultTermWidth
	}
	if opts.RowsPerHour <= 0 {
		opts.RowsPerHour = defaultRowsPerHour
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}

	rows := (opts.Window.EndHour - opts.Window.StartHour) * opts.RowsPerHour
	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, opts.Width)
		for c := range grid[r] {
			grid[r][c] = cell{char: ' ', tile: -1}
		}
	}

	styles := make([]layout.Style, 0, entries.Len())
	for i := 0; i < entries.Len(); i++ {
		entry := entries.At(i)
		style, err := result.Lookup(entry.ID)
		if err != nil {
			return "", err
		}
		styles = append(styles, style)

		rowStart := int(math.Floor(style.Top / opts.Window.ScreenHeight * float64(rows)))
		rowEnd := int(math.Ceil((style.Top + style.Height) / opts.Window.ScreenHeight * float64(rows)))
		colStart := int(math.Round(style.Left / 100 * float64(opts.Width)))
		colEnd := int(math.Round((style.Left + style.Width) / 100 * float64(opts.Width)))
		if colEnd <= colStart {
			colEnd = colStart + 1
		}
		colStart = max(colStart, 0)
		colEnd = min(colEnd, opts.Width)

		label := []rune(TileLabel(entry))
		labelRow := max(rowStart, 0)
		for r := max(rowStart, 0); r < min(rowEnd, rows); r++ {
			for c := colStart; c < colEnd; c++ {
				char := ' '
				if r == labelRow && c-colStart < len(label) {
					char = label[c-colStart]
				}
				grid[r][c] = cell{char: char, tile: i}
			}
		}
	}

	plain := opts.Renderer.NewStyle()
	gutter := opts.Renderer.NewStyle().Foreground(lipgloss.Color(labelColor))

	var out strings.Builder
	for r, line := range grid {
		if r%opts.RowsPerHour == 0 {
			hour := opts.Window.StartHour + r/opts.RowsPerHour
			out.WriteString(gutter.Render(fmt.Sprintf("%02d:00 ", hour)))
		} else {
			out.WriteString(strings.Repeat(" ", termGutter))
		}

		for c := 0; c < len(line); {
			tile := line[c].tile
			var run strings.Builder
			for c < len(line) && line[c].tile == tile {
				run.WriteRune(line[c].char)
				c++
			}
			if tile < 0 {
				out.WriteString(plain.Render(run.String()))
				continue
			}
			out.WriteString(tileStyle(opts.Renderer, styles[tile]).Render(run.String()))
		}
		out.WriteString("\n")
	}

	return out.String(), nil
}

func tileStyle(renderer *lipgloss.Renderer, style layout.Style) lipgloss.Style {
	s := renderer.NewStyle()
	if style.Background != "" {
		s = s.Background(lipgloss.Color(termColor(style.Background)))
	}
	if style.Foreground != "" {
		s = s.Foreground(lipgloss.Color(termColor(style.Foreground)))
	}
	return s
}

func termColor(name string) string {
	switch strings.ToLower(name) {
	case "black":
		return "#000000"
	case "white":
		return "#ffffff"
	default:
		return name
	}
}
