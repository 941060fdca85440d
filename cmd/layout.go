package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"daytiles/internal/timeutil"
	"daytiles/layout"
	"daytiles/schedule"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	layoutSource daySource
	layoutFormat string
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Compute the tile layout of one day.",
	Long: `Compute top, height, width, left and colors of every entry of one day.

Entries come from --input or, with --date alone, from the database. The same
entries always produce the same layout for the configured palette seed.`,
	Example: `
  # Layout of a JSON file as JSON
  daytiles layout -i day.json

  # Layout of a stored day as a table for a 600px screen
  daytiles layout --date 2026-03-02 --height 600 --format table
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		window, err := layoutSource.window(cfg)
		if err != nil {
			return err
		}
		day, entries, err := layoutSource.load(cfg)
		if err != nil {
			return err
		}
		sorted, result, err := computeDay(entries, window, colorsFromConfig(cfg))
		if err != nil {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(layoutFormat)) {
		case "", "json":
			return writeLayoutJSON(cmd.OutOrStdout(), timeutil.FormatDay(day), window, result)
		case "table":
			text, err := layoutTable(sorted, result)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		default:
			return fmt.Errorf("unsupported layout format %q (supported: json|table)", layoutFormat)
		}
	},
}

type layoutDocument struct {
	Date   string         `json:"date"`
	Window layout.Window  `json:"window"`
	Styles []layout.Style `json:"styles"`
}

func writeLayoutJSON(out io.Writer, date string, window layout.Window, result *layout.Result) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(layoutDocument{Date: date, Window: window, Styles: result.Styles()})
}

var layoutTableHeaders = []string{"ID", "Start", "Minutes", "Column", "Overlaps", "Top", "Height", "Width %", "Left %", "Background", "Text"}

func layoutTable(entries schedule.Sorted, result *layout.Result) (string, error) {
	rows := make([][]string, 0, entries.Len())
	for _, entry := range entries.Entries() {
		style, err := result.Lookup(entry.ID)
		if err != nil {
			return "", err
		}
		placement, err := result.Placement(entry.ID)
		if err != nil {
			return "", err
		}
		rows = append(rows, []string{
			entry.ID,
			entry.Start,
			strconv.Itoa(entry.Duration),
			strconv.Itoa(placement.Column),
			strconv.Itoa(placement.OverlapCount),
			strconv.FormatFloat(style.Top, 'f', 2, 64),
			strconv.FormatFloat(style.Height, 'f', 2, 64),
			strconv.FormatFloat(style.Width, 'f', 2, 64),
			strconv.FormatFloat(style.Left, 'f', 2, 64),
			style.Background,
			style.Foreground,
		})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(layoutTableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render(), nil
}

func init() {
	rootCmd.AddCommand(layoutCmd)

	layoutSource.bindFlags(layoutCmd)
	layoutCmd.Flags().StringVar(&layoutFormat, "format", "json", "Output format: json|table")
}
