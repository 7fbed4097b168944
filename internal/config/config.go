package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonast/internal/printer"
)

// Config represents the complete configuration for jsonast
type Config struct {
	Printer    PrinterConfig    `yaml:"printer"`
	Types      TypesConfig      `yaml:"types"`
	Naming     NamingConfig     `yaml:"naming"`
	JSONTags   JSONTagsConfig   `yaml:"json_tags"`
	Formatting FormattingConfig `yaml:"formatting"`
	Dev        DevConfig        `yaml:"dev"`
}

// PrinterConfig controls how JSON output is rendered
type PrinterConfig struct {
	Indent        string `yaml:"indent"`
	Compact       bool   `yaml:"compact"`
	EscapeUnicode bool   `yaml:"escape_unicode"`
}

// TypesConfig controls Go type generation
type TypesConfig struct {
	Package            string        `yaml:"package"`
	RootName           string        `yaml:"root_name"`
	OptionalAsPointers bool          `yaml:"optional_as_pointers"`
	Mappings           []TypeMapping `yaml:"mappings"`
}

// TypeMapping forces the Go type of every field whose JSON key matches Pattern
type TypeMapping struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
	Import  string `yaml:"import,omitempty"`
	Comment string `yaml:"comment,omitempty"`

	regex *regexp.Regexp
}

// NamingConfig controls field naming
type NamingConfig struct {
	PascalCaseFields bool              `yaml:"pascal_case_fields"`
	FieldMappings    map[string]string `yaml:"field_mappings"`
}

// JSONTagsConfig controls JSON tag generation
type JSONTagsConfig struct {
	OmitemptyForPointers bool     `yaml:"omitempty_for_pointers"`
	SkipFields           []string `yaml:"skip_fields"`
}

// FormattingConfig controls formatting of generated code
type FormattingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug     bool   `yaml:"debug"`
	LogFormat string `yaml:"log_format"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Printer: PrinterConfig{
			Indent: printer.DefaultIndent,
		},
		Types: TypesConfig{
			Package:            "main",
			RootName:           "RootType",
			OptionalAsPointers: true,
			Mappings:           []TypeMapping{},
		},
		Naming: NamingConfig{
			PascalCaseFields: true,
			FieldMappings:    make(map[string]string),
		},
		JSONTags: JSONTagsConfig{
			OmitemptyForPointers: true,
		},
		Formatting: FormattingConfig{
			Enabled: true,
		},
		Dev: DevConfig{
			LogFormat: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a constrained form and compiles the
// type mapping patterns.
func (c *Config) Validate() error {
	if strings.Trim(c.Printer.Indent, " \t") != "" {
		return fmt.Errorf("invalid printer indent %q: only spaces and tabs are allowed", c.Printer.Indent)
	}
	if c.Types.Package == "" {
		return fmt.Errorf("types.package must not be empty")
	}
	for i := range c.Types.Mappings {
		mapping := &c.Types.Mappings[i]
		regex, err := regexp.Compile(mapping.Pattern)
		if err != nil {
			return fmt.Errorf("invalid type mapping pattern '%s': %w", mapping.Pattern, err)
		}
		mapping.regex = regex
	}
	return nil
}

// ConfigNames lists the file names FindConfigFile looks for, in order.
var ConfigNames = []string{".jsonast.yml", ".jsonast.yaml", "jsonast.yml", "jsonast.yaml"}

// FindConfigFile searches for a config file in the working directory and its
// parents. It returns "" when there is none.
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(currentDir)
}

func findConfigFrom(dir string) string {
	for {
		for _, name := range ConfigNames {
			configPath := filepath.Join(dir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return ""
		}
		dir = parentDir
	}
}

// MatchesField checks if this type mapping matches the given JSON key
func (tm *TypeMapping) MatchesField(fieldName string) bool {
	if tm.regex == nil {
		regex, err := regexp.Compile(tm.Pattern)
		if err != nil {
			return false
		}
		tm.regex = regex
	}
	return tm.regex.MatchString(fieldName)
}

// GetFieldName returns the Go field name for a JSON key, applying naming rules
func (c *Config) GetFieldName(jsonKey string) string {
	if mapped, exists := c.Naming.FieldMappings[jsonKey]; exists {
		return mapped
	}
	if c.Naming.PascalCaseFields {
		return strcase.ToCamel(jsonKey)
	}
	return jsonKey
}

// FindTypeMapping finds the first type mapping that matches the JSON key
func (c *Config) FindTypeMapping(fieldName string) (TypeMapping, bool) {
	for i := range c.Types.Mappings {
		if c.Types.Mappings[i].MatchesField(fieldName) {
			return c.Types.Mappings[i], true
		}
	}
	return TypeMapping{}, false
}

// ShouldSkipField reports whether a JSON key is left out of generated types
func (c *Config) ShouldSkipField(fieldName string) bool {
	for _, skip := range c.JSONTags.SkipFields {
		if skip == fieldName {
			return true
		}
	}
	return false
}

// PrinterOptions returns the rendering options described by the printer
// section.
func (c *Config) PrinterOptions() printer.Options {
	opts := printer.Options{Indent: c.Printer.Indent, EscapeUnicode: c.Printer.EscapeUnicode}
	if c.Printer.Compact {
		opts.Indent = ""
	}
	return opts
}

// Overrides holds values given on the command line. Nil fields were not set
// and leave the configuration alone.
type Overrides struct {
	Debug         *bool
	Compact       *bool
	Indent        *string
	EscapeUnicode *bool
	Package       *string
	RootName      *string
	Format        *bool
}

// ApplyOverrides copies every set field of o into c and validates the result.
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.Debug != nil {
		c.Dev.Debug = *o.Debug
	}
	if o.Compact != nil {
		c.Printer.Compact = *o.Compact
	}
	if o.Indent != nil {
		c.Printer.Indent = *o.Indent
	}
	if o.EscapeUnicode != nil {
		c.Printer.EscapeUnicode = *o.EscapeUnicode
	}
	if o.Package != nil {
		c.Types.Package = *o.Package
	}
	if o.RootName != nil {
		c.Types.RootName = *o.RootName
	}
	if o.Format != nil {
		c.Formatting.Enabled = *o.Format
	}
	return c.Validate()
}

// Load resolves the configuration the CLI runs with: defaults, then the file
// at path (or the discovered one when path is empty), then overrides.
func Load(path string, o Overrides) (*Config, error) {
	if path == "" {
		path = FindConfigFile()
	}
	cfg := NewConfig()
	if path != "" {
		fileConfig, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}
	if err := cfg.ApplyOverrides(o); err != nil {
		return nil, err
	}
	return cfg, nil
}
