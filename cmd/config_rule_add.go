package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"daytiles/config"
	"daytiles/importer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const autoDetectFormat = "auto (from file extension)"

var configRuleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Interactively add one import rule.",
	Long: `Choose a mapper and an optional input format, name the rule and give the file
template it applies to, then store the new rules entry in config.`,
	Example: `
  # Add one rule interactively
  daytiles config rule add

  # Add a rule to a custom config file
  daytiles --configFile ./custom-daytiles.yaml config rule add
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		if _, err := ensureConfigFileWithTemplate(configPath); err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		out := cmd.OutOrStdout()
		newRule, err := promptRule(reader, out)
		if err != nil {
			return err
		}

		current, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}

		updated, err := appendRuleToConfigYAML(current, newRule)
		if err != nil {
			return err
		}

		if err := os.WriteFile(configPath, updated, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Fprintln(out, "Rule added successfully.")
		fmt.Fprintf(out, "Config:   %s\n", configPath)
		fmt.Fprintf(out, "Name:     %s\n", newRule.Name)
		fmt.Fprintf(out, "Mapper:   %s\n", newRule.Mapper)
		fmt.Fprintf(out, "Template: %s\n", newRule.FileTemplate)
		if newRule.Format != "" {
			fmt.Fprintf(out, "Format:   %s\n", newRule.Format)
		}
		return nil
	},
}

func promptRule(reader *bufio.Reader, out io.Writer) (config.Rule, error) {
	mapperNames := importer.SupportedMapperNames()
	if len(mapperNames) == 0 {
		return config.Rule{}, fmt.Errorf("no mappers are available")
	}
	mapperIdx, err := promptSelectIndex(reader, out, "Select mapper:", mapperNames)
	if err != nil {
		return config.Rule{}, err
	}

	formats := append([]string{autoDetectFormat}, config.SupportedFormats...)
	formatIdx, err := promptSelectIndex(reader, out, "Select input format:", formats)
	if err != nil {
		return config.Rule{}, err
	}
	format := ""
	if formatIdx > 0 {
		format = formats[formatIdx]
	}

	ruleName, err := promptRequiredString(reader, out, "Rule name")
	if err != nil {
		return config.Rule{}, err
	}
	fileTemplate, err := promptRequiredString(reader, out, "File template (example: meetings-*.csv)")
	if err != nil {
		return config.Rule{}, err
	}

	return config.Rule{
		Name:         ruleName,
		Mapper:       strings.ToLower(strings.TrimSpace(mapperNames[mapperIdx])),
		FileTemplate: fileTemplate,
		Format:       format,
	}, nil
}

func promptSelectIndex(reader *bufio.Reader, out io.Writer, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options available for %q", title)
	}

	for {
		fmt.Fprintln(out, title)
		for i, option := range options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, option)
		}
		fmt.Fprintf(out, "Choose [1-%d]: ", len(options))

		input, err := reader.ReadString('\n')
		if err != nil {
			return -1, fmt.Errorf("read selection input: %w", err)
		}
		input = strings.TrimSpace(input)
		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(options) {
			fmt.Fprintln(out, "Invalid selection. Please enter a valid number.")
			continue
		}
		return choice - 1, nil
	}
}

func promptRequiredString(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	for {
		fmt.Fprintf(out, "%s: ", strings.TrimSpace(label))
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.ToLower(label)), err)
		}
		value := strings.TrimSpace(input)
		if value == "" {
			fmt.Fprintln(out, "Value must not be empty.")
			continue
		}
		return value, nil
	}
}

func appendRuleToConfigYAML(content []byte, rule config.Rule) ([]byte, error) {
	if strings.TrimSpace(rule.Name) == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if strings.TrimSpace(rule.Mapper) == "" {
		return nil, fmt.Errorf("mapper is required")
	}
	if strings.TrimSpace(rule.FileTemplate) == "" {
		return nil, fmt.Errorf("file template is required")
	}
	if rule.Format != "" && !slices.Contains(config.SupportedFormats, rule.Format) {
		return nil, fmt.Errorf("format %q is not supported (valid: %s)", rule.Format, strings.Join(config.SupportedFormats, ", "))
	}

	doc := map[string]any{}
	if strings.TrimSpace(string(content)) != "" {
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	rulesList, err := ensureSliceAny(doc, "rules")
	if err != nil {
		return nil, err
	}

	for _, existing := range rulesList {
		ruleMap, ok := existing.(map[string]any)
		if !ok {
			continue
		}
		existingName, _ := ruleMap["name"].(string)
		if strings.EqualFold(strings.TrimSpace(existingName), strings.TrimSpace(rule.Name)) {
			return nil, fmt.Errorf("rule with name %q already exists", rule.Name)
		}
	}

	entry := map[string]any{
		"name":          rule.Name,
		"mapper":        rule.Mapper,
		"file_template": rule.FileTemplate,
	}
	if rule.Format != "" {
		entry["format"] = rule.Format
	}
	rulesList = append(rulesList, entry)
	doc["rules"] = rulesList

	updated, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal updated config yaml: %w", err)
	}
	if _, err := config.ValidateYAMLContent(updated); err != nil {
		return nil, fmt.Errorf("updated config is invalid: %w", err)
	}
	return updated, nil
}

func ensureSliceAny(doc map[string]any, key string) ([]any, error) {
	raw, exists := doc[key]
	if !exists || raw == nil {
		result := []any{}
		doc[key] = result
		return result, nil
	}
	result, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("config key %q must be a list", key)
	}
	return result, nil
}

func init() {
	configRuleCmd.AddCommand(configRuleAddCmd)
}
