package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"daytiles/config"
	"daytiles/internal/timeutil"
	"daytiles/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	deleteDBPath string
	deleteDate   string
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one stored day or the complete SQLite database file",
	Long: `Destructive database cleanup command.

With --date only the entries of that day are removed. Without it the complete
SQLite database file is deleted. Before deletion, an interactive security prompt
requires typing exactly "Y".`,
	Example: `
  # Delete the complete SQLite file (requires interactive confirmation)
  daytiles delete --db ./daytiles.db

  # Delete the entries of one day
  daytiles delete --date 2026-03-02
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := resolveDBPath(deleteDBPath, viper.GetString(config.KeyStorageDB))
		out := cmd.OutOrStdout()

		if strings.TrimSpace(deleteDate) != "" {
			day, err := timeutil.ParseDay(strings.TrimSpace(deleteDate))
			if err != nil {
				return err
			}
			target := fmt.Sprintf("all entries of %s in %q", timeutil.FormatDay(day), dbPath)
			confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, target)
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("delete aborted: confirmation was not 'Y'")
			}

			store, err := storage.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.DeleteDay(day)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d entries of %s\n", count, timeutil.FormatDay(day))
			return nil
		}

		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("database file %q", dbPath))
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if err := removeDatabaseFile(dbPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted database file: %s\n", dbPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to local SQLite database (default: storage.db from config)")
	deleteCmd.Flags().StringVar(&deleteDate, "date", "", "Delete only the entries of this day (YYYY-MM-DD)")
}

func confirmDeletePrompt(input io.Reader, output io.Writer, target string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", target); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
