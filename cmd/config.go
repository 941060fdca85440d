package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage daytiles configuration file values.",
	Long: `Create, edit, display, and delete the daytiles configuration file.

The configuration stores application-wide values and import rules:
- window.start_hour / window.end_hour / window.screen_height
- palette.seed / palette.min_channel
- storage.db, serve.port, log.level
- import.auto_reconcile_after_import
- rules[].name / mapper / file_template / format`,
	Example: `
  # Create default config in $HOME/.daytiles.yaml
  daytiles config create

  # Show active config and source file
  daytiles config show

  # Open active config in editor (creates example if missing)
  daytiles config edit

  # Add one import rule interactively
  daytiles config rule add

  # Delete active config file
  daytiles config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
