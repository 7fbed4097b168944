// Package generator writes Go type declarations from an analysis result.
package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/jsonast/internal/errors"
	"github.com/mcncl/jsonast/internal/models"
)

// Generator is responsible for generating Go struct definitions from analysis results
type Generator struct{}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateStructs generates Go struct definitions from the analysis result.
// Fields are written in the order the analyzer found them.
func (g *Generator) GenerateStructs(result models.AnalysisResult, packageName string) (string, error) {
	if packageName == "" {
		return "", errors.NewGenerateError("package name is required", nil)
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("package %s\n", packageName))
	writeImports(&buf, result.Imports)

	sortedStructs := sortStructs(result.Structs)

	if result.RootIsArray && result.RootName != "" {
		buf.WriteString(fmt.Sprintf("\ntype %sList %s\n", result.RootName, getTypeString(result.RootType)))
	}

	for _, structDef := range sortedStructs {
		buf.WriteString("\n")
		writeStruct(&buf, structDef)
	}

	return buf.String(), nil
}

func writeImports(buf *bytes.Buffer, imports map[string]struct{}) {
	if len(imports) == 0 {
		return
	}

	sorted := make([]string, 0, len(imports))
	for imp := range imports {
		sorted = append(sorted, imp)
	}
	sort.Strings(sorted)

	// Standard library imports don't have dots
	var stdLibImports, thirdPartyImports []string
	for _, imp := range sorted {
		if !strings.Contains(imp, ".") {
			stdLibImports = append(stdLibImports, imp)
		} else {
			thirdPartyImports = append(thirdPartyImports, imp)
		}
	}

	buf.WriteString("\nimport (\n")
	for _, imp := range stdLibImports {
		buf.WriteString(fmt.Sprintf("\t%q\n", imp))
	}
	if len(stdLibImports) > 0 && len(thirdPartyImports) > 0 {
		buf.WriteString("\n")
	}
	for _, imp := range thirdPartyImports {
		buf.WriteString(fmt.Sprintf("\t%q\n", imp))
	}
	buf.WriteString(")\n")
}

func writeStruct(buf *bytes.Buffer, structDef models.StructDef) {
	if len(structDef.Fields) == 0 {
		buf.WriteString(fmt.Sprintf("type %s struct{}\n", structDef.Name))
		return
	}

	buf.WriteString(fmt.Sprintf("type %s struct {\n", structDef.Name))

	// Column widths so names, types and tags line up
	maxNameWidth := 0
	maxTypeWidth := 0
	for _, field := range structDef.Fields {
		maxNameWidth = max(maxNameWidth, len(field.GoName))
		maxTypeWidth = max(maxTypeWidth, len(getTypeString(field.GoType)))
	}

	for _, field := range structDef.Fields {
		if field.Comment != "" {
			buf.WriteString(fmt.Sprintf("\t// %s\n", field.Comment))
		}
		buf.WriteString(fmt.Sprintf("\t%-*s %-*s %s\n",
			maxNameWidth, field.GoName,
			maxTypeWidth, getTypeString(field.GoType),
			field.JSONTag))
	}

	buf.WriteString("}\n")
}

// sortStructs sorts structs to ensure root structs come first, followed by nested structs
func sortStructs(structs []models.StructDef) []models.StructDef {
	sorted := make([]models.StructDef, len(structs))
	copy(sorted, structs)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsRoot != sorted[j].IsRoot {
			return sorted[i].IsRoot
		}
		return sorted[i].Name < sorted[j].Name
	})

	return sorted
}

// getTypeString converts a TypeInfo to a string representation of the Go type
func getTypeString(typeInfo models.TypeInfo) string {
	var typeStr string

	switch typeInfo.Kind {
	case models.TypeStruct:
		typeStr = typeInfo.StructName
	case models.TypeSlice:
		if typeInfo.SliceElementType != nil {
			typeStr = "[]" + getTypeString(*typeInfo.SliceElementType)
		} else {
			typeStr = "[]any"
		}
	default:
		typeStr = typeInfo.Name
	}

	if typeInfo.IsPointer {
		return "*" + typeStr
	}
	return typeStr
}
