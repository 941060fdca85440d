package cmd

import (
	"fmt"
	"io"

	"daytiles/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Without a
config file the built-in defaults are shown.`,
	Example: `
  # Show active configuration
  daytiles config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		out := cmd.OutOrStdout()
		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(out, "Config file loaded from:", configPath)
		} else {
			fmt.Fprintln(out, "No config file loaded, showing defaults.")
		}
		printConfig(out, cfg)
		return nil
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "window.start_hour: %d\n", cfg.Window.StartHour)
	fmt.Fprintf(out, "window.end_hour: %d\n", cfg.Window.EndHour)
	fmt.Fprintf(out, "window.screen_height: %g\n", cfg.Window.ScreenHeight)
	fmt.Fprintf(out, "palette.seed: %d\n", cfg.Palette.Seed)
	fmt.Fprintf(out, "palette.min_channel: %d\n", cfg.Palette.MinChannel)
	fmt.Fprintf(out, "storage.db: %s\n", cfg.Storage.DB)
	fmt.Fprintf(out, "serve.port: %d\n", cfg.Serve.Port)
	fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "import.auto_reconcile_after_import: %t\n", cfg.Import.AutoReconcileAfterImport)
	fmt.Fprintf(out, "rules: %d\n", len(cfg.Rules))
	for i, rule := range cfg.Rules {
		fmt.Fprintf(out, "rules[%d].name: %s\n", i, rule.Name)
		fmt.Fprintf(out, "rules[%d].mapper: %s\n", i, rule.Mapper)
		fmt.Fprintf(out, "rules[%d].file_template: %s\n", i, rule.FileTemplate)
		if rule.Format != "" {
			fmt.Fprintf(out, "rules[%d].format: %s\n", i, rule.Format)
		}
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
