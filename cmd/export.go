package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"daytiles/config"
	"daytiles/internal/timeutil"
	"daytiles/layout"
	"daytiles/output"
	"daytiles/schedule"
	"daytiles/storage"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportDBPath string
	exportDate   string
	exportHeight float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export computed day layouts from SQLite to CSV/Excel",
	Long: `Export the computed layout of stored days.

Modes:
- layout: one row per entry with its column, overlap count, top, height, width, left and colors
- summary: one row per day (first start, last end, entries, columns, peak concurrency, busy and free hours)

Without --date every stored day is exported. Output format can be selected explicitly
via --format or inferred from --output extension.`,
	Example: `
  # Export the layout of every stored day to CSV
  daytiles export --mode layout --output ./layout.csv

  # Export one day to Excel
  daytiles export --mode layout --date 2026-03-02 --output ./day.xlsx

  # Export daily summary to CSV
  daytiles export --mode summary --output ./summary.csv

  # Force Excel format independent of extension
  daytiles export --mode summary --format excel --output ./summary.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		window := windowFromConfig(cfg)
		if exportHeight > 0 {
			window.ScreenHeight = exportHeight
		}
		if err := window.Validate(); err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(exportDBPath, cfg.Storage.DB))
		if err != nil {
			return err
		}
		defer store.Close()

		var days []time.Time
		if strings.TrimSpace(exportDate) != "" {
			day, err := timeutil.ParseDay(exportDate)
			if err != nil {
				return err
			}
			days = []time.Time{day}
		} else {
			days, err = store.ListDays()
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "layout":
			rows, err := buildExportLayoutRows(store, days, window, cfg)
			if err != nil {
				return err
			}
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, rows); err != nil {
				return err
			}
			fmt.Fprintf(out, "Export completed. Rows: %d, Days: %d, Mode: layout, Format: %s, File: %s\n", len(rows), len(days), format, exportOutput)
		case "summary":
			summaries, err := buildExportSummaries(store, days, window, cfg)
			if err != nil {
				return err
			}
			if err := output.WriteDaySummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Fprintf(out, "Export completed. Days: %d, Mode: summary, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: layout, summary)", exportMode)
		}
		return nil
	},
}

// dayLister is the part of the store the export needs.
type dayLister interface {
	ListDay(day time.Time) ([]schedule.Entry, error)
}

// eachDay computes the layout of every day with a fresh palette so a day
// exports the same colors however many days come before it.
func eachDay(store dayLister, days []time.Time, window layout.Window, cfg *config.Config, fn func(date string, sorted schedule.Sorted, result *layout.Result) error) error {
	for _, day := range days {
		entries, err := store.ListDay(day)
		if err != nil {
			return err
		}
		date := timeutil.FormatDay(day)
		sorted, result, err := computeDay(entries, window, colorsFromConfig(cfg))
		if err != nil {
			return fmt.Errorf("day %s: %w", date, err)
		}
		if err := fn(date, sorted, result); err != nil {
			return err
		}
	}
	return nil
}

func buildExportLayoutRows(store dayLister, days []time.Time, window layout.Window, cfg *config.Config) ([]output.LayoutRow, error) {
	var rows []output.LayoutRow
	err := eachDay(store, days, window, cfg, func(date string, sorted schedule.Sorted, result *layout.Result) error {
		dayRows, err := output.BuildLayoutRows(date, sorted, result)
		if err != nil {
			return err
		}
		rows = append(rows, dayRows...)
		return nil
	})
	return rows, err
}

func buildExportSummaries(store dayLister, days []time.Time, window layout.Window, cfg *config.Config) ([]output.DaySummary, error) {
	summaries := make([]output.DaySummary, 0, len(days))
	err := eachDay(store, days, window, cfg, func(date string, sorted schedule.Sorted, result *layout.Result) error {
		summary, err := output.BuildDaySummary(date, sorted, result, window)
		if err != nil {
			return err
		}
		summaries = append(summaries, summary)
		return nil
	})
	return summaries, err
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "layout", "Export mode: layout|summary")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (default: storage.db from config)")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Export only this day (YYYY-MM-DD)")
	exportCmd.Flags().Float64Var(&exportHeight, "height", 0, "Screen height in pixels (default: window.screen_height from config)")

	_ = exportCmd.MarkFlagRequired("output")
}
