package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"daytiles/config"
)

const ruleTestConfig = `window:
  start_hour: 9
  end_hour: 21
import:
  auto_reconcile_after_import: true
rules:
  - name: "team"
    mapper: "generic"
    file_template: "team-*.csv"
`

func TestAppendRuleToConfigYAML_AppendsRule(t *testing.T) {
	t.Parallel()

	updated, err := appendRuleToConfigYAML([]byte(ruleTestConfig), config.Rule{
		Name:         "exports",
		Mapper:       "span",
		FileTemplate: "export-*.xlsx",
		Format:       "excel",
	})
	if err != nil {
		t.Fatalf("append rule failed: %v", err)
	}

	cfg, err := config.ValidateYAMLContent(updated)
	if err != nil {
		t.Fatalf("updated yaml should validate: %v", err)
	}

	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}
	last := cfg.Rules[1]
	if last.Name != "exports" || last.Mapper != "span" || last.FileTemplate != "export-*.xlsx" || last.Format != "excel" {
		t.Fatalf("unexpected last rule: %+v", last)
	}
	if !cfg.Import.AutoReconcileAfterImport || cfg.Window.EndHour != 21 {
		t.Fatalf("expected other keys to survive, got %+v", cfg)
	}
}

func TestAppendRuleToConfigYAML_EmptyConfig(t *testing.T) {
	t.Parallel()

	updated, err := appendRuleToConfigYAML(nil, config.Rule{Name: "all", Mapper: "generic", FileTemplate: "*.csv"})
	if err != nil {
		t.Fatalf("append rule failed: %v", err)
	}
	if strings.Contains(string(updated), "format:") {
		t.Fatalf("expected no format key for auto detection, got:\n%s", updated)
	}
	cfg, err := config.ValidateYAMLContent(updated)
	if err != nil {
		t.Fatalf("updated yaml should validate: %v", err)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Format != "" {
		t.Fatalf("unexpected rules: %+v", cfg.Rules)
	}
}

func TestAppendRuleToConfigYAML_DuplicateName(t *testing.T) {
	t.Parallel()

	_, err := appendRuleToConfigYAML([]byte(ruleTestConfig), config.Rule{
		Name:         "TEAM",
		Mapper:       "generic",
		FileTemplate: "other-*.csv",
	})
	if err == nil {
		t.Fatalf("expected duplicate rule error")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppendRuleToConfigYAML_RejectsInvalidRule(t *testing.T) {
	t.Parallel()

	tests := []config.Rule{
		{Mapper: "generic", FileTemplate: "*.csv"},
		{Name: "x", FileTemplate: "*.csv"},
		{Name: "x", Mapper: "generic"},
		{Name: "x", Mapper: "generic", FileTemplate: "*.csv", Format: "pdf"},
		{Name: "x", Mapper: "unknown", FileTemplate: "*.csv"},
	}
	for _, rule := range tests {
		if _, err := appendRuleToConfigYAML([]byte(ruleTestConfig), rule); err == nil {
			t.Fatalf("expected error for rule %+v", rule)
		}
	}
}

func TestPromptRule(t *testing.T) {
	t.Parallel()

	// mapper 2 (span), invalid then format 4, blank then name, template
	input := "2\n9\n4\n\nmy rule\nexport-*.xlsx\n"
	var out bytes.Buffer
	rule, err := promptRule(bufio.NewReader(strings.NewReader(input)), &out)
	if err != nil {
		t.Fatalf("prompt rule: %v", err)
	}
	if rule.Name != "my rule" || rule.Mapper != "span" || rule.FileTemplate != "export-*.xlsx" || rule.Format != "excel" {
		t.Fatalf("unexpected rule: %+v", rule)
	}
	if !strings.Contains(out.String(), "Invalid selection") || !strings.Contains(out.String(), "Value must not be empty.") {
		t.Fatalf("expected retry messages, got:\n%s", out.String())
	}
}

func TestPromptRule_AutoFormat(t *testing.T) {
	t.Parallel()

	input := "1\n1\nall\n*.csv\n"
	rule, err := promptRule(bufio.NewReader(strings.NewReader(input)), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("prompt rule: %v", err)
	}
	if rule.Mapper != "generic" || rule.Format != "" {
		t.Fatalf("unexpected rule: %+v", rule)
	}
}
