package cmd

import (
	"fmt"
	"strings"

	"daytiles/internal/timeutil"
	"daytiles/reconcile"
	"daytiles/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileDBPath string
	reconcileDate   string
	reconcilePinned []string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Move overlapping entries of a stored day to free slots",
	Long: `Remove overlaps within one stored day.

Pinned entries keep their time. The other entries are taken in start order and moved
to the earliest free start at or after their own, so entries that do not collide stay
where they are. Entries that would have to run past midnight are left in place.
The free slots of the configured window are printed afterwards.`,
	Example: `
  # Reconcile one day
  daytiles reconcile --date 2026-03-02

  # Keep the standup and the lunch entry where they are
  daytiles reconcile --date 2026-03-02 --pin standup --pin lunch

  # Typical workflow: import, reconcile, export
  daytiles import -i meetings.csv --date 2026-03-02
  daytiles reconcile --date 2026-03-02
  daytiles export --output ./layout.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		day, err := timeutil.ParseDay(strings.TrimSpace(reconcileDate))
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(reconcileDBPath, cfg.Storage.DB))
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := reconcile.Run(store, day, reconcile.Options{Pinned: reconcilePinned})
		if err != nil {
			return err
		}
		logger.Debug("reconciled day", zap.String("day", timeutil.FormatDay(day)), zap.Strings("pinned", reconcilePinned))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out,
			"Reconcile completed. Entries checked: %d, Overlaps before: %d, Overlaps after: %d, Entries moved: %d, Rows updated: %d\n",
			result.EntriesChecked,
			result.OverlapsBefore,
			result.OverlapsAfter,
			result.EntriesMoved,
			result.RowsUpdated,
		)

		entries, err := store.ListDay(day)
		if err != nil {
			return err
		}
		slots, err := reconcile.FreeSlots(entries, cfg.Window.StartHour*60, cfg.Window.EndHour*60)
		if err != nil {
			return err
		}
		if len(slots) == 0 {
			fmt.Fprintln(out, "Free slots: none")
			return nil
		}
		labels := make([]string, 0, len(slots))
		for _, slot := range slots {
			labels = append(labels, slot.String())
		}
		fmt.Fprintf(out, "Free slots: %s\n", strings.Join(labels, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileDate, "date", "", "Day to reconcile (YYYY-MM-DD)")
	reconcileCmd.Flags().StringArrayVar(&reconcilePinned, "pin", nil, "Entry id that must not move (repeatable)")
	reconcileCmd.Flags().StringVar(&reconcileDBPath, "db", "", "Path to local SQLite database (default: storage.db from config)")

	_ = reconcileCmd.MarkFlagRequired("date")
}
