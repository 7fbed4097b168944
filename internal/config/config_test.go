package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonast/internal/printer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "main", cfg.Types.Package)
	assert.Equal(t, "RootType", cfg.Types.RootName)
	assert.Equal(t, printer.DefaultIndent, cfg.Printer.Indent)
	assert.False(t, cfg.Printer.Compact)
	assert.False(t, cfg.Printer.EscapeUnicode)
	assert.True(t, cfg.Formatting.Enabled)
	assert.True(t, cfg.Types.OptionalAsPointers)
	assert.True(t, cfg.Naming.PascalCaseFields)
	assert.Equal(t, "text", cfg.Dev.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
printer:
  indent: "    "
  escape_unicode: true
types:
  package: "models"
  root_name: "APIResponse"
  optional_as_pointers: false
  mappings:
    - pattern: ".*_id$"
      type: "int64"
      comment: "ID field"
naming:
  pascal_case_fields: false
  field_mappings:
    "user_id": "UserID"
json_tags:
  omitempty_for_pointers: false
  skip_fields: ["internal"]
dev:
  debug: true
  log_format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "    ", cfg.Printer.Indent)
	assert.True(t, cfg.Printer.EscapeUnicode)
	assert.Equal(t, "models", cfg.Types.Package)
	assert.Equal(t, "APIResponse", cfg.Types.RootName)
	assert.False(t, cfg.Types.OptionalAsPointers)
	assert.False(t, cfg.Naming.PascalCaseFields)
	assert.Equal(t, "UserID", cfg.Naming.FieldMappings["user_id"])
	assert.False(t, cfg.JSONTags.OmitemptyForPointers)
	assert.True(t, cfg.ShouldSkipField("internal"))
	assert.True(t, cfg.Dev.Debug)
	assert.Equal(t, "json", cfg.Dev.LogFormat)

	// sections missing from the file keep their defaults
	assert.True(t, cfg.Formatting.Enabled)

	require.Len(t, cfg.Types.Mappings, 1)
	mapping := cfg.Types.Mappings[0]
	assert.Equal(t, ".*_id$", mapping.Pattern)
	assert.Equal(t, "int64", mapping.Type)
	assert.Equal(t, "ID field", mapping.Comment)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, `
types:
  package: "models"
invalid_yaml: [unclosed array
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_LoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"indent with letters", "printer:\n  indent: \"ab\"\n", "invalid printer indent"},
		{"empty package", "types:\n  package: \"\"\n", "types.package must not be empty"},
		{"bad pattern", "types:\n  mappings:\n    - pattern: \"[oops\"\n      type: int\n", "invalid type mapping pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".jsonast.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(`types: {package: "found"}`), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(nestedDir))

	// Should find it in the parent directory
	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), `package: "found"`)
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	assert.Empty(t, findConfigFrom(t.TempDir()))
}

func TestConfig_FindConfigFilePrefersHiddenName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jsonast.yaml"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jsonast.yml"), nil, 0o644))

	assert.Equal(t, filepath.Join(dir, ".jsonast.yml"), findConfigFrom(dir))
}

func TestTypeMapping_MatchesPattern(t *testing.T) {
	mapping := TypeMapping{
		Pattern: ".*_id$",
		Type:    "int64",
	}

	assert.True(t, mapping.MatchesField("user_id"))
	assert.True(t, mapping.MatchesField("product_id"))
	assert.False(t, mapping.MatchesField("username"))
	assert.False(t, mapping.MatchesField("id_number"))
}

func TestTypeMapping_InvalidPattern(t *testing.T) {
	mapping := TypeMapping{
		Pattern: "[invalid regex",
		Type:    "int64",
	}

	// Should not panic and should return false for invalid regex
	assert.False(t, mapping.MatchesField("user_id"))
}

func TestConfig_GetFieldName(t *testing.T) {
	cfg := &Config{
		Naming: NamingConfig{
			PascalCaseFields: true,
			FieldMappings: map[string]string{
				"user_id": "UserID",
				"api_key": "APIKey",
			},
		},
	}

	// Custom mappings take precedence
	assert.Equal(t, "UserID", cfg.GetFieldName("user_id"))
	assert.Equal(t, "APIKey", cfg.GetFieldName("api_key"))

	assert.Equal(t, "UserName", cfg.GetFieldName("user_name"))
	assert.Equal(t, "FirstName", cfg.GetFieldName("first_name"))
}

func TestConfig_GetFieldNameNoPascalCase(t *testing.T) {
	cfg := &Config{
		Naming: NamingConfig{
			PascalCaseFields: false,
			FieldMappings:    make(map[string]string),
		},
	}

	assert.Equal(t, "user_name", cfg.GetFieldName("user_name"))
	assert.Equal(t, "first_name", cfg.GetFieldName("first_name"))
}

func TestConfig_FindTypeMapping(t *testing.T) {
	cfg := &Config{
		Types: TypesConfig{
			Mappings: []TypeMapping{
				{Pattern: ".*_id$", Type: "int64", Comment: "ID field"},
				{Pattern: ".*email.*", Type: "string", Import: "github.com/example/email", Comment: "Email field"},
			},
		},
	}

	mapping, found := cfg.FindTypeMapping("user_id")
	assert.True(t, found)
	assert.Equal(t, "int64", mapping.Type)
	assert.Equal(t, "ID field", mapping.Comment)

	mapping, found = cfg.FindTypeMapping("user_email")
	assert.True(t, found)
	assert.Equal(t, "string", mapping.Type)
	assert.Equal(t, "github.com/example/email", mapping.Import)

	_, found = cfg.FindTypeMapping("username")
	assert.False(t, found)
}

func TestConfig_PrinterOptions(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, printer.Options{Indent: printer.DefaultIndent}, cfg.PrinterOptions())

	cfg.Printer.EscapeUnicode = true
	cfg.Printer.Compact = true
	assert.Equal(t, printer.Options{EscapeUnicode: true}, cfg.PrinterOptions())
}

func TestConfig_ApplyOverrides(t *testing.T) {
	cfg := NewConfig()
	cfg.Types.Package = "models"
	cfg.Types.RootName = "APIResponse"

	err := cfg.ApplyOverrides(Overrides{
		Package: stringPtr("api"),
		Compact: boolPtr(true),
		Format:  boolPtr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.Types.Package)          // overridden
	assert.Equal(t, "APIResponse", cfg.Types.RootName) // nil override keeps the value
	assert.True(t, cfg.Printer.Compact)
	assert.False(t, cfg.Formatting.Enabled)

	err = cfg.ApplyOverrides(Overrides{Indent: stringPtr("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid printer indent")
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
types:
  package: "models"
  root_name: "Response"
formatting:
  enabled: false
`)

	cfg, err := Load(path, Overrides{RootName: stringPtr("APIResult"), Debug: boolPtr(true)})
	require.NoError(t, err)

	// flags > config file > defaults
	assert.Equal(t, "APIResult", cfg.Types.RootName)
	assert.True(t, cfg.Dev.Debug)
	assert.Equal(t, "models", cfg.Types.Package)
	assert.False(t, cfg.Formatting.Enabled)
	assert.Equal(t, printer.DefaultIndent, cfg.Printer.Indent)
}

func TestLoad_NoFile(t *testing.T) {
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Types, cfg.Types)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"), Overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
