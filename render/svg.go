// Package render draws a computed day layout as SVG or as a colored
// character grid for the terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"daytiles/layout"
	"daytiles/schedule"
)

const (
	defaultSVGWidth    = 800
	defaultLabelGutter = 56
	defaultFontSize    = 12
	defaultFontFamily  = "Helvetica, Arial, sans-serif"
	gridColor          = "#d0d0d0"
	labelColor         = "#555555"
	backgroundColor    = "#ffffff"
)

// SVGOptions controls the SVG output. Zero values fall back to defaults.
type SVGOptions struct {
	Window      layout.Window
	Width       int
	LabelGutter int
	FontSize    int
	FontFamily  string
	Title       string
}

func (o SVGOptions) withDefaults() SVGOptions {
	if o.Width <= 0 {
		o.Width = defaultSVGWidth
	}
	if o.LabelGutter <= 0 {
		o.LabelGutter = defaultLabelGutter
	}
	if o.LabelGutter >= o.Width {
		o.LabelGutter = o.Width / 4
	}
	if o.FontSize <= 0 {
		o.FontSize = defaultFontSize
	}
	if strings.TrimSpace(o.FontFamily) == "" {
		o.FontFamily = defaultFontFamily
	}
	return o
}

// SVG writes a fixed-height calendar with one rectangle per tile. Tiles that
// reach outside the window are cut off by the viewport.
func SVG(w io.Writer, entries schedule.Sorted, result *layout.Result, opts SVGOptions) error {
	if result == nil {
		return fmt.Errorf("render svg: nil layout result")
	}
	if err := opts.Window.Validate(); err != nil {
		return err
	}
	opts = opts.withDefaults()

	height := opts.Window.ScreenHeight
	plotWidth := float64(opts.Width - opts.LabelGutter)

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%s" viewBox="0 0 %d %s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, number(height), opts.Width, number(height), backgroundColor))
	if opts.Title != "" {
		svg.WriteString(fmt.Sprintf("<title>%s</title>\n", escapeXML(opts.Title)))
	}

	pixelsPerHour := opts.Window.PixelsPerMinute() * 60
	for hour := opts.Window.StartHour; hour <= opts.Window.EndHour; hour++ {
		y := float64(hour-opts.Window.StartHour) * pixelsPerHour
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%s" x2="%d" y2="%s" stroke="%s" stroke-width="1"/>`,
			opts.LabelGutter, number(y), opts.Width, number(y), gridColor))
		svg.WriteString("\n")
		if hour == opts.Window.EndHour {
			continue
		}
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%s" font-family="%s" font-size="%d" fill="%s">%02d:00</text>`,
			4, number(y+float64(opts.FontSize)), escapeXML(opts.FontFamily), opts.FontSize, labelColor, hour))
		svg.WriteString("\n")
	}

	for i := 0; i < entries.Len(); i++ {
		entry := entries.At(i)
		style, err := result.Lookup(entry.ID)
		if err != nil {
			return err
		}

		x := float64(opts.LabelGutter) + style.Left*plotWidth/100
		width := style.Width * plotWidth / 100
		fill := style.Background
		if fill == "" {
			fill = "#cccccc"
		}
		textColor := style.Foreground
		if textColor == "" {
			textColor = "black"
		}

		svg.WriteString(fmt.Sprintf(`<g id="tile-%s">`, escapeXML(entry.ID)))
		svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="1"/>`,
			number(x), number(style.Top), number(width), number(style.Height), escapeXML(fill), backgroundColor))
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" font-family="%s" font-size="%d" fill="%s">%s</text>`,
			number(x+4), number(style.Top+float64(opts.FontSize)+2), escapeXML(opts.FontFamily), opts.FontSize,
			escapeXML(textColor), escapeXML(TileLabel(entry))))
		svg.WriteString("</g>\n")
	}

	svg.WriteString("</svg>\n")

	if _, err := io.WriteString(w, svg.String()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// TileLabel is the text shown inside a tile.
func TileLabel(entry schedule.Entry) string {
	return fmt.Sprintf("%s | %s | %d", entry.ID, entry.Start, entry.Duration)
}

func number(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// escapeXML replaces the five XML special characters with entity references.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
