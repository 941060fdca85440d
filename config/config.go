package config

import (
	"bytes"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
)

const (
	KeyWindowStartHour    = "window.start_hour"
	KeyWindowEndHour      = "window.end_hour"
	KeyWindowScreenHeight = "window.screen_height"
	KeyPaletteSeed        = "palette.seed"
	KeyPaletteMinChannel  = "palette.min_channel"
	KeyStorageDB          = "storage.db"
	KeyServePort          = "serve.port"
	KeyLogLevel           = "log.level"
	KeyImportReconcile    = "import.auto_reconcile_after_import"
	KeyRules              = "rules"
)

type Config struct {
	Window  WindowConfig  `mapstructure:"window"`
	Palette PaletteConfig `mapstructure:"palette"`
	Storage StorageConfig `mapstructure:"storage"`
	Serve   ServeConfig   `mapstructure:"serve"`
	Log     LogConfig     `mapstructure:"log"`
	Import  ImportConfig  `mapstructure:"import"`
	Rules   []Rule        `mapstructure:"rules"`
}

type WindowConfig struct {
	StartHour    int     `mapstructure:"start_hour" validate:"gte=0,lte=23"`
	EndHour      int     `mapstructure:"end_hour" validate:"gtfield=StartHour,lte=24"`
	ScreenHeight float64 `mapstructure:"screen_height" validate:"gt=0"`
}

type PaletteConfig struct {
	Seed       uint64 `mapstructure:"seed"`
	MinChannel int    `mapstructure:"min_channel" validate:"gte=0,lte=255"`
}

type StorageConfig struct {
	DB string `mapstructure:"db" validate:"required"`
}

type ServeConfig struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

type ImportConfig struct {
	AutoReconcileAfterImport bool `mapstructure:"auto_reconcile_after_import"`
}

// Rule picks the mapper (and optionally the format) for imported files whose
// base name matches FileTemplate.
type Rule struct {
	Name         string `mapstructure:"name"`
	Mapper       string `mapstructure:"mapper"`
	FileTemplate string `mapstructure:"file_template"`
	Format       string `mapstructure:"format"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# daytiles configuration
window:
  start_hour: 9
  end_hour: 21
  screen_height: 900

palette:
  seed: 1
  min_channel: 100

storage:
  db: "./daytiles.db"

serve:
  port: 8080

log:
  level: "info"

import:
  auto_reconcile_after_import: false

rules: []
`
}

// MatchRule returns the first rule whose file template matches the base name
// of path. Matching is case-insensitive.
func (c *Config) MatchRule(path string) (Rule, bool) {
	if c == nil {
		return Rule{}, false
	}
	base := strings.ToLower(filepath.Base(path))
	for _, rule := range c.Rules {
		pattern := strings.ToLower(strings.TrimSpace(rule.FileTemplate))
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return rule, true
		}
	}
	return Rule{}, false
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateRules(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyWindowStartHour, 9)
	v.SetDefault(KeyWindowEndHour, 21)
	v.SetDefault(KeyWindowScreenHeight, 900)
	v.SetDefault(KeyPaletteSeed, 1)
	v.SetDefault(KeyPaletteMinChannel, 100)
	v.SetDefault(KeyStorageDB, "./daytiles.db")
	v.SetDefault(KeyServePort, 8080)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyImportReconcile, false)
	v.SetDefault(KeyRules, []map[string]any{})
}

// SupportedMappers lists the mapper names accepted in rules.
var SupportedMappers = []string{"generic", "span"}

// SupportedFormats lists the format names accepted in rules.
var SupportedFormats = []string{"csv", "tsv", "excel", "json", "yaml"}

func validateRules(rules []Rule) error {
	validMappers := toSet(SupportedMappers)
	validFormats := toSet(SupportedFormats)
	validFormats["xlsx"] = true
	validFormats["xlsm"] = true
	validFormats["yml"] = true

	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return fmt.Errorf("validation failed: rules[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate rule name %q", name)
		}
		seen[key] = struct{}{}
		mapper := strings.ToLower(strings.TrimSpace(rule.Mapper))
		if mapper == "" {
			return fmt.Errorf("validation failed: rules[%d].mapper is required", i)
		}
		if !validMappers[mapper] {
			return fmt.Errorf(
				"validation failed: rules[%d].mapper %q is not supported (valid: %s)",
				i,
				rule.Mapper,
				strings.Join(SupportedMappers, ", "),
			)
		}
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			return fmt.Errorf("validation failed: rules[%d].file_template is required", i)
		}
		if _, err := filepath.Match(template, ""); err != nil {
			return fmt.Errorf("validation failed: rules[%d].file_template %q: %w", i, rule.FileTemplate, err)
		}
		format := strings.ToLower(strings.TrimSpace(rule.Format))
		if format != "" && !validFormats[format] {
			return fmt.Errorf(
				"validation failed: rules[%d].format %q is not supported (valid: %s)",
				i,
				rule.Format,
				strings.Join(SupportedFormats, ", "),
			)
		}
	}
	return nil
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, value := range values {
		out[value] = true
	}
	return out
}
