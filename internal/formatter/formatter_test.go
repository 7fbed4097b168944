package formatter

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonast/internal/errors"
)

// tag renders a json struct tag, which cannot appear inside a raw string.
func tag(s string) string { return "`json:\"" + s + "\"`" }

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "aligns fields",
			input: "package main\n\ntype Counter struct {\n" +
				"Id int64 " + tag("id") + "\n" +
				"Total *big.Int " + tag("total,omitempty") + "\n" +
				"}\n",
			expected: "package main\n\ntype Counter struct {\n" +
				"\tId    int64    " + tag("id") + "\n" +
				"\tTotal *big.Int " + tag("total,omitempty") + "\n" +
				"}\n",
		},
		{
			name: "realigns every struct",
			input: "package models\n\ntype Order struct {\n" +
				"\tId       int64         " + tag("id") + "\n" +
				"\tCustomer *OrderCustomer   " + tag("customer,omitempty") + "\n" +
				"}\n\ntype OrderCustomer struct {\n" +
				"\tName   string     " + tag("name") + "\n" +
				"}\n",
			expected: "package models\n\ntype Order struct {\n" +
				"\tId       int64          " + tag("id") + "\n" +
				"\tCustomer *OrderCustomer " + tag("customer,omitempty") + "\n" +
				"}\n\ntype OrderCustomer struct {\n" +
				"\tName string " + tag("name") + "\n" +
				"}\n",
		},
		{
			name:     "list type and empty struct are left alone",
			input:    "package main\n\ntype ItemList []*Item\n\ntype Item struct{}\n",
			expected: "package main\n\ntype ItemList []*Item\n\ntype Item struct{}\n",
		},
		{
			name: "standard library imports come first",
			input: "package main\n\nimport (\n\"time\"\n\"github.com/google/uuid\"\n\"math/big\"\n)\n\n" +
				"type Event struct {\nID uuid.UUID\nAt time.Time\nN *big.Int\n}\n",
			expected: "package main\n\nimport (\n\t\"math/big\"\n\t\"time\"\n\n\t\"github.com/google/uuid\"\n)\n\n" +
				"type Event struct {\n\tID uuid.UUID\n\tAt time.Time\n\tN  *big.Int\n}\n",
		},
		{
			name:     "single import is kept",
			input:    "package main\n\nimport \"time\"\n\ntype T struct {\nAt time.Time\n}\n",
			expected: "package main\n\nimport \"time\"\n\ntype T struct {\n\tAt time.Time\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted, err := NewFormatter().Format(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, formatted)
		})
	}
}

func TestFormat_AliasedImports(t *testing.T) {
	input := `package main

import (
"time"
gouuid "github.com/google/uuid"
"math/big"
)

type Event struct {
ID gouuid.UUID
At time.Time
N *big.Int
}
`

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)
	assert.Contains(t, formatted, "import (\n\t\"math/big\"\n\t\"time\"\n\n\tgouuid \"github.com/google/uuid\"\n)")
}

func TestFormat_KeepsFieldComments(t *testing.T) {
	input := "package main\n\ntype User struct {\n" +
		"\t// matched by pattern ^id$\n" +
		"Id uuid.UUID " + tag("id") + "\n" +
		"Name string " + tag("name") + "\n" +
		"}\n"

	formatted, err := NewFormatter().Format(input)
	require.NoError(t, err)
	assert.Contains(t, formatted, "\t// matched by pattern ^id$\n\tId ")
	assert.True(t, strings.HasSuffix(formatted, "}\n"))
}

func TestFormat_InvalidCode(t *testing.T) {
	input := "package main\n\ntype Person struct {\n\tName string " + tag("name") + "\n"

	_, err := NewFormatter().Format(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Go code")

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeFormat, appErr.Type)
}

func TestFormat_EmptyInput(t *testing.T) {
	formatted, err := NewFormatter().Format("  \n")
	require.NoError(t, err)
	assert.Equal(t, "", formatted)
}
