package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonast/internal/parser"
)

const complexJSON = `{
	"id": 12345,
	"uuid": "550e8400-e29b-41d4-a716-446655440000",
	"created_at": "2023-05-20T14:56:23Z",
	"updated_at": null,
	"config": {
		"enabled": true,
		"timeout_seconds": 30,
		"retry_count": 3,
		"features": ["logging", "metrics", "alerting"],
		"rate_limits": {
			"per_second": 100,
			"per_minute": 1000,
			"burst": 150
		},
		"environments": {
			"development": {
				"debug": true,
				"log_level": "debug"
			},
			"production": {
				"debug": false,
				"log_level": "info"
			}
		}
	},
	"users": [
		{
			"id": 1,
			"name": "Alice",
			"roles": ["admin", "user"],
			"metadata": {
				"last_login": "2023-05-19T10:30:00Z",
				"login_count": 42
			}
		},
		{
			"id": 2,
			"name": "Bob",
			"roles": ["user"],
			"metadata": {
				"last_login": "2023-05-18T09:15:00Z",
				"login_count": 17
			}
		}
	],
	"stats": {
		"requests": 1234567,
		"errors": 123,
		"success_rate": 0.9999,
		"response_times": [0.045, 0.067, 0.032, 0.051]
	},
	"active": true
}`

func jsonast(t testing.TB, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../.."}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestEndToEnd_ComplexNestedStructures tests type generation for complex nested JSON
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	tempDir := t.TempDir()

	jsonFile := filepath.Join(tempDir, "complex.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(complexJSON), 0o644))
	outputFile := filepath.Join(tempDir, "complex_output.go")

	_, stderr, err := jsonast(t, "", "types", "-i", jsonFile, "-o", outputFile, "-p", "main")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	generatedCode, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	code := string(generatedCode)

	assert.Contains(t, code, "package main")
	assert.Contains(t, code, "import (")
	assert.Contains(t, code, "\t\"time\"")

	assert.Contains(t, code, "type RootType struct")
	assert.Contains(t, code, "type RootTypeConfig struct")
	assert.Contains(t, code, "type RootTypeConfigEnvironments struct")
	assert.Contains(t, code, "type RootTypeConfigRateLimits struct")
	assert.Contains(t, code, "type RootTypeStats struct")
	assert.Contains(t, code, "type RootTypeUser struct")
	assert.Contains(t, code, "type RootTypeUserMetadata struct")

	assert.Regexp(t, `Id\s+int64\s+\x60json:"id"\x60`, code)
	assert.Regexp(t, `Uuid\s+string\s+\x60json:"uuid"\x60`, code)
	assert.Regexp(t, `CreatedAt\s+time\.Time\s+\x60json:"created_at"\x60`, code)
	assert.Regexp(t, `UpdatedAt\s+any\s+\x60json:"updated_at,omitempty"\x60`, code)
	assert.Regexp(t, `Config\s+\*RootTypeConfig\s+\x60json:"config,omitempty"\x60`, code)
	assert.Regexp(t, `Users\s+\[\]\*RootTypeUser\s+\x60json:"users,omitempty"\x60`, code)
	assert.Regexp(t, `ResponseTimes\s+\[\]float64\s+\x60json:"response_times,omitempty"\x60`, code)
	assert.Regexp(t, `Active\s+bool\s+\x60json:"active"\x60`, code)

	// the generated declarations must compile
	tmpGoFile := filepath.Join(tempDir, "verify_compile.go")
	verifyCode := fmt.Sprintf("%s\n\nfunc main() {\n\t_ = RootType{}\n}\n", code)
	require.NoError(t, os.WriteFile(tmpGoFile, []byte(verifyCode), 0o644))

	compileCmd := exec.Command("go", "build", "-o", filepath.Join(tempDir, "verify"), tmpGoFile)
	compileOut, err := compileCmd.CombinedOutput()
	require.NoError(t, err, "Generated code does not compile: %s", string(compileOut))
}

// TestEndToEnd_GeneratedTypesDecodeSample checks that the generated types
// decode the sample they were generated from without losing data
func TestEndToEnd_GeneratedTypesDecodeSample(t *testing.T) {
	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "complex.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(complexJSON), 0o644))

	code, stderr, err := jsonast(t, "", "types", "-i", jsonFile, "-p", "main")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	program := code + `
func main() {
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	var v RootType
	if err := json.Unmarshal(data, &v); err != nil {
		panic(err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	os.Stdout.Write(out)
}
`
	program = strings.Replace(program, "import (", "import (\n\t\"encoding/json\"\n\t\"os\"", 1)
	mainFile := filepath.Join(tempDir, "main.go")
	require.NoError(t, os.WriteFile(mainFile, []byte(program), 0o644))

	out, err := exec.Command("go", "run", mainFile, jsonFile).Output()
	require.NoError(t, err)

	var want, got interface{}
	require.NoError(t, json.Unmarshal([]byte(complexJSON), &want))
	require.NoError(t, json.Unmarshal(out, &got))
	// null fields are dropped by omitempty
	delete(want.(map[string]interface{}), "updated_at")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip through generated types mismatch (-want +got):\n%s", diff)
	}
}

// TestEndToEnd_HeterogeneousArrays tests arrays containing mixed types
func TestEndToEnd_HeterogeneousArrays(t *testing.T) {
	jsonContent := `{
		"mixed_array": [1, "string", true, null, {"nested": "object"}, [1, 2, 3]],
		"mixed_objects": [
			{"type": "user", "id": 1, "name": "Alice"},
			{"type": "group", "id": 2, "members": 5},
			{"type": "user", "id": 3, "name": "Bob", "active": true}
		]
	}`

	output, stderr, err := jsonast(t, jsonContent, "types")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Regexp(t, `MixedArray\s+\[\]any\s+\x60json:"mixed_array,omitempty"\x60`, output)
	assert.Contains(t, output, "type RootTypeMixedObject struct")
	assert.Regexp(t, `Type\s+string\s+\x60json:"type"\x60`, output)
	assert.Regexp(t, `Name\s+\*string\s+\x60json:"name,omitempty"\x60`, output)
	assert.Regexp(t, `Members\s+\*int64\s+\x60json:"members,omitempty"\x60`, output)
	assert.Regexp(t, `Active\s+\*bool\s+\x60json:"active,omitempty"\x60`, output)
}

// TestEndToEnd_FmtRoundTrip checks that printed output parses back to the
// same document
func TestEndToEnd_FmtRoundTrip(t *testing.T) {
	for _, args := range [][]string{{"fmt"}, {"fmt", "--compact"}, {"fmt", "--escape-unicode"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			out, stderr, err := jsonast(t, complexJSON+"\n", args...)
			require.NoError(t, err, "CLI command failed: %s", stderr)

			assert.True(t, parser.MustParse(complexJSON).Equal(parser.MustParse(out)))
		})
	}
}

// TestEndToEnd_QueryPipeline chains commands the way a shell pipeline would
func TestEndToEnd_QueryPipeline(t *testing.T) {
	users, stderr, err := jsonast(t, complexJSON, "query", "-R", "metadata", "-C", "users")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	renamed, stderr, err := jsonast(t, users, "keys", "--case", "upper", "--compact")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t,
		"[{\"ID\":1,\"NAME\":\"Alice\",\"ROLES\":[\"admin\",\"user\"]},{\"ID\":2,\"NAME\":\"Bob\",\"ROLES\":[\"user\"]}]\n",
		renamed)

	stats, stderr, err := jsonast(t, renamed, "stats")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Contains(t, stats, "object:  2\n")
	assert.Contains(t, stats, "string:  5\n")
}

// generateLargeJSON writes an array of itemCount records to filePath
func generateLargeJSON(t testing.TB, filePath string, itemCount int) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	items := make([]map[string]interface{}, itemCount)
	for i := 0; i < itemCount; i++ {
		items[i] = map[string]interface{}{
			"id":          i + 1,
			"guid":        fmt.Sprintf("%x-%x-%x-%x-%x", rng.Uint32(), rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()<<16|rng.Uint32()),
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"created_at":  base.Add(-time.Duration(rng.Intn(10000)) * time.Hour).Format(time.RFC3339),
			"price":       rng.Float64() * 1000,
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"tags":        []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata": map[string]interface{}{
				"source":      "test",
				"priority":    rng.Intn(5) + 1,
				"processed":   rng.Intn(2) == 1,
				"score":       rng.Float64(),
				"retry_count": rng.Intn(5),
			},
		}
	}

	jsonData, err := json.MarshalIndent(items, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, jsonData, 0o644))
}

// BenchmarkLargeJSON benchmarks the command line with large JSON files
func BenchmarkLargeJSON(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	tempDir := b.TempDir()
	sizes := []struct {
		name      string
		itemCount int
	}{
		{"100Items", 100},
		{"1000Items", 1000},
		{"10000Items", 10000},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			jsonFile := filepath.Join(tempDir, fmt.Sprintf("%s.json", size.name))
			generateLargeJSON(b, jsonFile, size.itemCount)
			outputFile := filepath.Join(tempDir, fmt.Sprintf("%s_output.go", size.name))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, stderr, err := jsonast(b, "", "types", "-i", jsonFile, "-o", outputFile, "-p", "bench")
				require.NoError(b, err, "CLI command failed: %s", stderr)

				_, err = os.Stat(outputFile)
				require.NoError(b, err, "Output file was not created")
				_ = os.Remove(outputFile)
			}
		})
	}
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		json     string
		expected string
		isError  bool
	}{
		{name: "EmptyObject", args: []string{"types"}, json: `{}`, expected: "type RootType struct{}"},
		{name: "EmptyArray", args: []string{"types"}, json: `[]`, expected: "type RootTypeList []any"},
		{name: "SingleValue", args: []string{"types"}, json: `"just a string"`, expected: "string"},
		{name: "SingleNumber", args: []string{"types"}, json: `42`, expected: "int64"},
		{name: "SingleBoolean", args: []string{"types"}, json: `true`, expected: "bool"},
		{name: "SingleNull", args: []string{"types"}, json: `null`, expected: "any"},
		{name: "HugeInteger", args: []string{"types"}, json: `{"n": 123456789012345678901234567890}`, expected: "*big.Int"},
		{name: "InvalidJSON", args: []string{"types"}, json: `{"name": "Invalid JSON",}`, isError: true},
		{name: "TrailingValue", args: []string{"fmt"}, json: `{} []`, isError: true},
		{name: "LoneSurrogate", args: []string{"fmt"}, json: `"\ud800"`, expected: "\"�\"\n"},
		{
			name:     "DeeplyNestedObject",
			args:     []string{"types"},
			json:     `{"level1":{"level2":{"level3":{"level4":{"level5":{"value":42}}}}}}`,
			expected: "type RootTypeLevel1Level2Level3Level4Level5 struct",
		},
		{name: "DeeplyNestedArray", args: []string{"types"}, json: `[[[[[[42]]]]]]`, expected: "[][][][][][]int64"},
		{name: "NoQueryMatch", args: []string{"query", "-C", "nope"}, json: `{"a":1}`, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := jsonast(t, tc.json, tc.args...)

			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
				return
			}
			require.NoError(t, err, "Unexpected error for %s: %s", tc.name, stderr)
			if tc.expected == "" {
				assert.Empty(t, stdout)
				return
			}
			assert.Contains(t, stdout, tc.expected, "Expected output not found for %s", tc.name)
		})
	}
}
