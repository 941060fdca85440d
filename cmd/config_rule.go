package cmd

import "github.com/spf13/cobra"

var configRuleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage import rules in config.",
	Long: `Manage import rules stored under config key rules.

Rules pick the mapper and, optionally, the input format for imported files
whose name matches the rule's file template.`,
}

func init() {
	configCmd.AddCommand(configRuleCmd)
}
