package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"daytiles/importer"
	"daytiles/internal/classify"
	"daytiles/internal/timeutil"
	"daytiles/reconcile"
	"daytiles/schedule"
	"daytiles/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importInputs        []string
	importFormat        string
	importMapper        string
	importDBPath        string
	importDate          string
	importReconcileMode string
	importDryRun        bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import calendar entries into a local SQLite database",
	Long: `Read source files, map each row to an entry via the selected mapper, and persist results in SQLite.

Use mapper "generic" for rows with start + duration columns and mapper "span" for rows
with start + end columns. When --mapper is omitted, the first config rule whose file
template matches the file name decides, falling back to "generic".
When --format is omitted, format is taken from the matching rule or the file extension.

Rows without a date column are stored on the day given by --date.`,
	Example: `
  # Import one CSV file for a given day
  daytiles import -i meetings.csv --date 2026-03-02

  # Import start/end rows from Excel
  daytiles import -i export.xlsx --mapper span --db ./daytiles.db

  # Import a tab separated file
  daytiles import -i day.tsv --format tsv --date 2026-03-02

  # Explicitly enable reconcile after import
  daytiles import -i ./source.csv --date 2026-03-02 --reconcile on

  # Import with custom config file
  daytiles --configFile ./custom-daytiles.yaml import -i ./source.json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		var mapper importer.Mapper
		if strings.TrimSpace(importMapper) != "" {
			mapper, err = importer.MapperByName(importMapper)
			if err != nil {
				return err
			}
		}

		var fallback time.Time
		if strings.TrimSpace(importDate) != "" {
			fallback, err = timeutil.ParseDay(importDate)
			if err != nil {
				return err
			}
		}

		shouldReconcile, err := resolveReconcileMode(importReconcileMode, cfg.Import.AutoReconcileAfterImport)
		if err != nil {
			return err
		}

		result, err := importer.Run(importInputs, importFormat, mapper, *cfg)
		if err != nil {
			return err
		}

		entries, days, err := collectDayEntries(result.Entries, fallback)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(importDBPath, cfg.Storage.DB))
		if err != nil {
			return err
		}
		defer store.Close()

		preview, err := previewImport(store, entries, days)
		if err != nil {
			return err
		}
		for _, overlap := range preview.overlaps {
			logger.Debug("imported entry overlaps a stored entry",
				zap.String("incoming", overlap.Incoming.ID),
				zap.String("existing", overlap.Existing.ID),
			)
		}

		out := cmd.OutOrStdout()
		if importDryRun {
			fmt.Fprintf(out, "Dry run. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, New entries: %d, Duplicates: %d, Overlaps with stored entries: %d, Days: %d\n",
				result.FilesProcessed,
				result.RowsRead,
				result.RowsMapped,
				result.RowsSkipped,
				preview.toAdd,
				preview.duplicates,
				len(preview.overlaps),
				len(days),
			)
			return nil
		}

		inserted, err := store.InsertEntries(entries)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows persisted: %d, Days: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			result.RowsMapped,
			result.RowsSkipped,
			inserted,
			len(days),
		)
		if duplicates := len(entries) - inserted; duplicates > 0 {
			logger.Warn("skipped entries whose id already exists on their day", zap.Int("count", duplicates))
		}
		if len(preview.overlaps) > 0 {
			logger.Info("imported entries overlap stored entries", zap.Int("count", len(preview.overlaps)))
		}

		if !shouldReconcile {
			return nil
		}
		total := reconcile.Result{}
		for _, day := range days {
			dayResult, err := reconcile.Run(store, day, reconcile.Options{})
			if err != nil {
				return fmt.Errorf("reconcile %s: %w", timeutil.FormatDay(day), err)
			}
			logger.Debug("reconciled day",
				zap.String("day", timeutil.FormatDay(day)),
				zap.Int("overlaps_before", dayResult.OverlapsBefore),
				zap.Int("overlaps_after", dayResult.OverlapsAfter),
				zap.Int("moved", dayResult.EntriesMoved),
			)
			total.EntriesChecked += dayResult.EntriesChecked
			total.OverlapsBefore += dayResult.OverlapsBefore
			total.OverlapsAfter += dayResult.OverlapsAfter
			total.EntriesMoved += dayResult.EntriesMoved
			total.RowsUpdated += dayResult.RowsUpdated
		}
		fmt.Fprintf(out,
			"Auto-reconcile completed. Days processed: %d, Overlaps before: %d, Overlaps after: %d, Entries moved: %d, Rows updated: %d\n",
			len(days),
			total.OverlapsBefore,
			total.OverlapsAfter,
			total.EntriesMoved,
			total.RowsUpdated,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|tsv|excel|json|yaml (optional, inferred from rules or extension when omitted)")
	importCmd.Flags().StringVarP(&importMapper, "mapper", "m", "", "Mapper to read entries: generic|span (optional, taken from rules when omitted)")
	importCmd.Flags().StringVar(&importDate, "date", "", "Day (YYYY-MM-DD) for rows without a date column")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default: storage.db from config)")
	importCmd.Flags().StringVar(&importReconcileMode, "reconcile", "auto", "Reconcile mode after import: auto|on|off")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Classify entries against the database without writing")

	_ = importCmd.MarkFlagRequired("input")
}

func resolveReconcileMode(mode string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid reconcile mode %q (supported: auto|on|off)", mode)
	}
}

// collectDayEntries assigns every mapped entry to its day and returns the
// distinct days touched, in calendar order.
func collectDayEntries(mapped []importer.Mapped, fallback time.Time) ([]storage.DayEntry, []time.Time, error) {
	entries := make([]storage.DayEntry, 0, len(mapped))
	seen := make(map[string]time.Time)
	for _, m := range mapped {
		day, err := importer.ResolveDay(m, fallback)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, storage.DayEntry{Day: day, Entry: m.Entry, SourceFile: m.SourceFile})
		seen[timeutil.FormatDay(day)] = day
	}

	days := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return entries, days, nil
}

type importPreview struct {
	toAdd      int
	duplicates int
	overlaps   []classify.Overlap
}

// previewImport classifies the incoming entries of every touched day against
// what is stored for that day.
func previewImport(store dayLister, entries []storage.DayEntry, days []time.Time) (importPreview, error) {
	byDay := make(map[string][]schedule.Entry, len(days))
	for _, item := range entries {
		key := timeutil.FormatDay(item.Day)
		byDay[key] = append(byDay[key], item.Entry)
	}

	var preview importPreview
	for _, day := range days {
		existing, err := store.ListDay(day)
		if err != nil {
			return importPreview{}, err
		}
		toAdd, overlaps, duplicates, err := classify.ClassifyImport(byDay[timeutil.FormatDay(day)], existing)
		if err != nil {
			return importPreview{}, fmt.Errorf("day %s: %w", timeutil.FormatDay(day), err)
		}
		preview.toAdd += len(toAdd)
		preview.duplicates += duplicates
		preview.overlaps = append(preview.overlaps, overlaps...)
	}
	return preview, nil
}
