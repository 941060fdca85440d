package cmd

import (
	"fmt"
	"strings"
	"time"

	"daytiles/config"
	"daytiles/importer"
	"daytiles/internal/timeutil"
	"daytiles/layout"
	"daytiles/palette"
	"daytiles/schedule"
	"daytiles/storage"

	"github.com/spf13/cobra"
)

// daySource selects the entries of one day, either from an input file or
// from the database.
type daySource struct {
	input  string
	format string
	mapper string
	date   string
	db     string
	height float64
}

func (s *daySource) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "Read entries from this file instead of the database")
	cmd.Flags().StringVarP(&s.format, "format-in", "f", "", "Input format for --input: csv|tsv|excel|json|yaml (optional)")
	cmd.Flags().StringVarP(&s.mapper, "mapper", "m", "", "Mapper for --input: generic|span (optional)")
	cmd.Flags().StringVar(&s.date, "date", "", "Day (YYYY-MM-DD); required when reading from the database")
	cmd.Flags().StringVar(&s.db, "db", "", "Path to local SQLite database (default: storage.db from config)")
	cmd.Flags().Float64Var(&s.height, "height", 0, "Screen height in pixels (default: window.screen_height from config)")
}

// load returns the day and its entries. Entries read from a file that names
// several days are narrowed to --date.
func (s *daySource) load(cfg *config.Config) (time.Time, []schedule.Entry, error) {
	var day time.Time
	if strings.TrimSpace(s.date) != "" {
		parsed, err := timeutil.ParseDay(s.date)
		if err != nil {
			return time.Time{}, nil, err
		}
		day = parsed
	}

	if strings.TrimSpace(s.input) == "" {
		if day.IsZero() {
			return time.Time{}, nil, fmt.Errorf("either --input or --date is required")
		}
		store, err := storage.OpenSQLite(resolveDBPath(s.db, cfg.Storage.DB))
		if err != nil {
			return time.Time{}, nil, err
		}
		defer store.Close()

		entries, err := store.ListDay(day)
		if err != nil {
			return time.Time{}, nil, err
		}
		return day, entries, nil
	}

	var mapper importer.Mapper
	if strings.TrimSpace(s.mapper) != "" {
		m, err := importer.MapperByName(s.mapper)
		if err != nil {
			return time.Time{}, nil, err
		}
		mapper = m
	}
	result, err := importer.Run([]string{s.input}, s.format, mapper, *cfg)
	if err != nil {
		return time.Time{}, nil, err
	}

	fallback := day
	if fallback.IsZero() {
		fallback = time.Now()
	}
	return entriesForDay(result.Entries, day, fallback)
}

// entriesForDay keeps the entries of want, or of the single day the rows
// name when want is zero.
func entriesForDay(mapped []importer.Mapped, want, fallback time.Time) (time.Time, []schedule.Entry, error) {
	entries := make([]schedule.Entry, 0, len(mapped))
	day := timeutil.StartOfDay(want)
	for _, m := range mapped {
		entryDay, err := importer.ResolveDay(m, fallback)
		if err != nil {
			return time.Time{}, nil, err
		}
		if want.IsZero() {
			if len(entries) == 0 {
				day = entryDay
			} else if !timeutil.SameDay(day, entryDay) {
				return time.Time{}, nil, fmt.Errorf("input spans several days (%s, %s); choose one with --date",
					timeutil.FormatDay(day), timeutil.FormatDay(entryDay))
			}
		} else if !timeutil.SameDay(day, entryDay) {
			continue
		}
		entries = append(entries, m.Entry)
	}
	if day.IsZero() {
		day = timeutil.StartOfDay(fallback)
	}
	return day, entries, nil
}

func (s *daySource) window(cfg *config.Config) (layout.Window, error) {
	window := windowFromConfig(cfg)
	if s.height < 0 {
		return layout.Window{}, fmt.Errorf("height must be positive, got %g", s.height)
	}
	if s.height > 0 {
		window.ScreenHeight = s.height
	}
	if err := window.Validate(); err != nil {
		return layout.Window{}, err
	}
	return window, nil
}

func windowFromConfig(cfg *config.Config) layout.Window {
	return layout.Window{
		StartHour:    cfg.Window.StartHour,
		EndHour:      cfg.Window.EndHour,
		ScreenHeight: cfg.Window.ScreenHeight,
	}
}

func colorsFromConfig(cfg *config.Config) layout.ColorSource {
	return palette.NewSeeded(cfg.Palette.Seed, cfg.Palette.MinChannel)
}

func resolveDBPath(flagValue, configValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return configValue
}

// computeDay sorts the entries and computes their layout.
func computeDay(entries []schedule.Entry, window layout.Window, colors layout.ColorSource) (schedule.Sorted, *layout.Result, error) {
	sorted, err := schedule.Sort(entries)
	if err != nil {
		return schedule.Sorted{}, nil, err
	}
	result, err := layout.Compute(sorted, window, colors)
	if err != nil {
		return schedule.Sorted{}, nil, err
	}
	return sorted, result, nil
}
