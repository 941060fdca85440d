/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"daytiles/config"
	"daytiles/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "daytiles",
	Short: "Lay out day calendar entries as side-by-side tiles.",
	Long: `
**********************************************
*                DAY  TILES                  *
**********************************************

This CLI imports calendar entries (CSV, TSV, Excel, JSON, YAML) into a local SQLite
database, computes the tile layout of a day (top, height, width, left, colors),
renders it as SVG or in the terminal, and serves an interactive day view.

Supported input formats:
- Excel: .xlsx, .xlsm
- CSV: .csv, .tsv
- JSON: .json
- YAML: .yaml, .yml
`,
	Example: `
  # Create configuration file
  daytiles config create

  # Import entries for one day
  daytiles import -i meetings.csv --date 2026-03-02

  # Print the layout of a file without storing it
  daytiles layout -i day.json --height 600

  # Draw a stored day in the terminal
  daytiles render --date 2026-03-02 --format term

  # Move overlapping entries to free slots
  daytiles reconcile --date 2026-03-02 --pin standup

  # Export daily summary
  daytiles export --mode summary --output ./summary.csv

  # Serve the day view
  daytiles serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.daytiles.yaml, then ./.daytiles.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: "+strings.Join(logging.Levels, ", "))
	cobra.CheckErr(viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level")))
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".daytiles")
	}

	viper.SetEnvPrefix("DAYTILES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: daytiles config create")
	}
}

// loadConfig validates the active configuration and builds the logger
// configured by log.level.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
