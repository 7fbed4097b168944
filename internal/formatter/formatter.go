// Package formatter normalises generated Go source.
package formatter

import (
	"go/format"
	"regexp"
	"sort"
	"strings"

	"github.com/mcncl/jsonast/internal/errors"
)

var importRegex = regexp.MustCompile(`(?s)import\s*\((.+?)\)`)

// Formatter is responsible for formatting Go code according to standard conventions
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format runs code through gofmt and groups its imports, standard library
// first.
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	formatted, err := format.Source([]byte(code))
	if err != nil {
		return "", errors.NewFormatError("failed to parse Go code", err)
	}

	return f.formatImports(string(formatted)), nil
}

// formatImports organizes import statements with standard library imports first,
// followed by third-party imports with a blank line in between
func (f *Formatter) formatImports(code string) string {
	importMatches := importRegex.FindStringSubmatch(code)
	if len(importMatches) < 2 {
		// No import block found or it's a single-line import
		return code
	}

	var stdLibImports, thirdPartyImports []string
	for _, line := range strings.Split(strings.TrimSpace(importMatches[1]), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		// the path is the last token, after any alias
		fields := strings.Fields(line)
		importPath := strings.Trim(fields[len(fields)-1], `"`)
		if !strings.Contains(importPath, ".") {
			stdLibImports = append(stdLibImports, line)
		} else {
			thirdPartyImports = append(thirdPartyImports, line)
		}
	}

	sort.Strings(stdLibImports)
	sort.Strings(thirdPartyImports)

	var b strings.Builder
	b.WriteString("import (\n")
	for _, imp := range stdLibImports {
		b.WriteString("\t" + imp + "\n")
	}
	if len(stdLibImports) > 0 && len(thirdPartyImports) > 0 {
		b.WriteString("\n")
	}
	for _, imp := range thirdPartyImports {
		b.WriteString("\t" + imp + "\n")
	}
	b.WriteString(")")

	loc := importRegex.FindStringIndex(code)
	return code[:loc[0]] + b.String() + code[loc[1]:]
}
