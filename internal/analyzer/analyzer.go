// Package analyzer infers Go type declarations from a sample JSON document.
package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcncl/jsonast/internal/config"
	"github.com/mcncl/jsonast/internal/errors"
	"github.com/mcncl/jsonast/internal/models"
)

// DefaultRootName is the default name for the root struct if not specified.
const DefaultRootName = "RootType"

// Strings matching one of these become time.Time, most specific first.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{9}(Z|[+-]\d{2}:\d{2})$`),        // RFC3339 nano
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),      // RFC3339
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`), // ISO8601
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),                                                  // date only
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),                        // date and time
}

var (
	anyType    = models.TypeInfo{Kind: models.TypeAny, Name: "any"}
	boolType   = models.TypeInfo{Kind: models.TypeBool, Name: "bool"}
	intType    = models.TypeInfo{Kind: models.TypeInt, Name: "int64"}
	bigIntType = models.TypeInfo{Kind: models.TypeBigInt, Name: "big.Int", IsPointer: true}
	floatType  = models.TypeInfo{Kind: models.TypeFloat, Name: "float64"}
	stringType = models.TypeInfo{Kind: models.TypeString, Name: "string"}
	timeType   = models.TypeInfo{Kind: models.TypeTime, Name: "time.Time"}
)

// Analyzer determines Go types and struct definitions for a JSON value
type Analyzer struct {
	// structNames tracks generated struct names to avoid collisions
	structNames map[string]int
	// analysisResult holds discovered structs and imports
	analysisResult models.AnalysisResult
	config         *config.Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.NewConfig())
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	return &Analyzer{
		structNames: make(map[string]int),
		analysisResult: models.AnalysisResult{
			Structs: make([]models.StructDef, 0),
			Imports: make(map[string]struct{}),
		},
		config: cfg,
	}
}

// Analyze walks v and returns the struct definitions and imports needed to
// hold it. A scalar or null document is wrapped in a root struct with a single
// "value" field. For an array document the element struct takes rootName.
func (a *Analyzer) Analyze(v models.Value, rootName string) (models.AnalysisResult, error) {
	if v.IsNothing() {
		return models.AnalysisResult{}, errors.NewAnalysisError("nothing to analyze", errors.ErrEmptyInput)
	}
	if rootName == "" {
		rootName = DefaultRootName
	}
	rootName = a.generateUniqueStructName(a.getFieldName(rootName))
	a.analysisResult.RootName = rootName

	switch v.Kind() {
	case models.Object:
		def := a.mergeObjects([]models.Value{v}, rootName)
		def.Name = rootName
		def.IsRoot = true
		a.analysisResult.Structs = append([]models.StructDef{def}, a.analysisResult.Structs...)
	case models.Array:
		a.analysisResult.RootIsArray = true
		elems := v.Elems()
		if allOfKind(elems, models.Object) {
			def := a.mergeObjects(elems, rootName)
			def.Name = rootName
			a.analysisResult.Structs = append([]models.StructDef{def}, a.analysisResult.Structs...)
			elem := models.TypeInfo{Kind: models.TypeStruct, Name: rootName, StructName: rootName}
			if a.config.Types.OptionalAsPointers {
				elem.IsPointer = true
			}
			a.analysisResult.RootType = sliceOf(elem)
		} else {
			a.analysisResult.RootType = a.analyzeArray(elems, rootName)
		}
	default:
		typeInfo := a.analyzeValue(v, rootName)
		if v.IsNull() {
			typeInfo = a.optional(typeInfo)
		}
		a.analysisResult.Structs = append([]models.StructDef{{
			Name:   rootName,
			Fields: []models.FieldInfo{a.newField("value", typeInfo, v.IsNull())},
			IsRoot: true,
		}}, a.analysisResult.Structs...)
	}

	return a.analysisResult, nil
}

// analyzeValue determines the TypeInfo for a single JSON value, defining
// structs for objects as it finds them.
func (a *Analyzer) analyzeValue(v models.Value, suggestedName string) models.TypeInfo {
	switch v.Kind() {
	case models.Bool:
		return boolType
	case models.Int:
		if _, ok := v.AsInt64(); ok {
			return intType
		}
		a.analysisResult.Imports["math/big"] = struct{}{}
		return bigIntType
	case models.Double:
		return floatType
	case models.String:
		s, _ := v.AsString()
		return a.analyzeString(s)
	case models.Object:
		def := a.mergeObjects([]models.Value{v}, suggestedName)
		return a.findOrAddStructDef(def, suggestedName)
	case models.Array:
		return a.analyzeArray(v.Elems(), suggestedName)
	default:
		return anyType
	}
}

func (a *Analyzer) analyzeString(s string) models.TypeInfo {
	for _, re := range timePatterns {
		if re.MatchString(s) {
			a.analysisResult.Imports["time"] = struct{}{}
			return timeType
		}
	}
	return stringType
}

func (a *Analyzer) analyzeArray(elems []models.Value, suggestedName string) models.TypeInfo {
	elems = dropNulls(elems)
	if len(elems) == 0 {
		return sliceOf(anyType)
	}

	elementName := singularize(a.getFieldName(suggestedName))

	// Objects in one array are assumed to share a type.
	if allOfKind(elems, models.Object) {
		def := a.mergeObjects(elems, elementName)
		elem := a.findOrAddStructDef(def, elementName)
		if a.config.Types.OptionalAsPointers {
			elem.IsPointer = true
		}
		return sliceOf(elem)
	}

	// Nested arrays are flattened so their elements are analyzed together.
	if allOfKind(elems, models.Array) {
		var inner []models.Value
		for _, e := range elems {
			inner = append(inner, e.Elems()...)
		}
		return sliceOf(a.analyzeArray(inner, suggestedName))
	}

	types := make([]models.TypeInfo, len(elems))
	for i, e := range elems {
		types[i] = a.analyzeValue(e, elementName)
	}
	return sliceOf(unify(types))
}

// mergeObjects builds one struct definition covering every member of objs.
// Fields follow the order in which keys first appear. A key missing from
// some objects, or null in some, becomes optional. Within a single object a
// repeated key is only considered once.
func (a *Analyzer) mergeObjects(objs []models.Value, structName string) models.StructDef {
	var keys []string
	values := make(map[string][]models.Value)
	for _, obj := range objs {
		seen := make(map[string]bool)
		for _, f := range obj.Fields() {
			if seen[f.Name] || f.Value.IsNothing() || a.config.ShouldSkipField(f.Name) {
				continue
			}
			seen[f.Name] = true
			if _, ok := values[f.Name]; !ok {
				keys = append(keys, f.Name)
			}
			values[f.Name] = append(values[f.Name], f.Value)
		}
	}

	def := models.StructDef{
		Name:   structName,
		Fields: make([]models.FieldInfo, 0, len(keys)),
	}
	for _, key := range keys {
		vals := values[key]
		present := dropNulls(vals)
		optional := len(vals) < len(objs) || len(present) < len(vals)

		if mapping, ok := a.config.FindTypeMapping(key); ok {
			if mapping.Import != "" {
				a.analysisResult.Imports[mapping.Import] = struct{}{}
			}
			typeInfo := models.TypeInfo{Kind: models.TypeCustom, Name: mapping.Type}
			if optional {
				typeInfo = a.optional(typeInfo)
			}
			field := a.newField(key, typeInfo, optional)
			field.Comment = mapping.Comment
			def.Fields = append(def.Fields, field)
			continue
		}

		nestedName := structName + a.getFieldName(key)
		var typeInfo models.TypeInfo
		switch {
		case len(present) == 0:
			typeInfo = anyType
		case allOfKind(present, models.Object):
			nested := a.mergeObjects(present, nestedName)
			typeInfo = a.findOrAddStructDef(nested, nestedName)
			// a nested struct is held by pointer like an optional field
			optional = true
		case allOfKind(present, models.Array):
			var all []models.Value
			for _, p := range present {
				all = append(all, p.Elems()...)
			}
			typeInfo = a.analyzeArray(all, nestedName)
		default:
			types := make([]models.TypeInfo, len(present))
			for i, p := range present {
				types[i] = a.analyzeValue(p, nestedName)
			}
			typeInfo = unify(types)
		}

		if optional {
			typeInfo = a.optional(typeInfo)
		}
		def.Fields = append(def.Fields, a.newField(key, typeInfo, optional))
	}
	uniqueFieldNames(def.Fields)
	return def
}

// uniqueFieldNames numbers Go names shared by distinct keys, such as
// user_id and userId, so the struct still compiles.
func uniqueFieldNames(fields []models.FieldInfo) {
	used := make(map[string]bool, len(fields))
	for _, f := range fields {
		used[f.GoName] = false
	}
	for i := range fields {
		name := fields[i].GoName
		if !used[name] {
			used[name] = true
			continue
		}
		for n := 2; ; n++ {
			candidate := name + strconv.Itoa(n)
			if _, taken := used[candidate]; !taken {
				fields[i].GoName = candidate
				used[candidate] = true
				break
			}
		}
	}
}

// optional marks a type as possibly absent. Scalars and structs become
// pointers when the configuration asks for it; slices and any already have
// a usable zero value.
func (a *Analyzer) optional(t models.TypeInfo) models.TypeInfo {
	switch t.Kind {
	case models.TypeSlice, models.TypeAny:
		return t
	}
	if a.config.Types.OptionalAsPointers {
		t.IsPointer = true
	}
	return t
}

func (a *Analyzer) newField(key string, t models.TypeInfo, optional bool) models.FieldInfo {
	return models.FieldInfo{
		JSONKey: key,
		GoName:  a.getFieldName(key),
		GoType:  t,
		JSONTag: jsonTag(key + a.determineOmitempty(t, optional)),
	}
}

// jsonTag renders a struct tag literal. The tag value is Go-quoted, and the
// literal falls back to an interpreted string when a backtick rules out a
// raw one.
func jsonTag(value string) string {
	tag := "json:" + strconv.Quote(value)
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

// determineOmitempty decides if ",omitempty" should be added to the JSON tag.
func (a *Analyzer) determineOmitempty(t models.TypeInfo, optional bool) string {
	switch {
	case t.Kind == models.TypeSlice, t.Kind == models.TypeAny:
		return ",omitempty"
	case t.IsPointer && t.Kind != models.TypeBigInt:
		if a.config.JSONTags.OmitemptyForPointers {
			return ",omitempty"
		}
		return ""
	case optional:
		return ",omitempty"
	default:
		return ""
	}
}

// unify finds one type for a set of sibling values: the shared type if
// there is one, float64 for a mix of numbers, any otherwise.
func unify(types []models.TypeInfo) models.TypeInfo {
	first := types[0]
	same, numeric := true, true
	for i := range types {
		if !areTypeInfosEqual(&first, &types[i]) {
			same = false
		}
		switch types[i].Kind {
		case models.TypeInt, models.TypeBigInt, models.TypeFloat:
		default:
			numeric = false
		}
	}
	switch {
	case same:
		return first
	case numeric:
		return floatType
	default:
		return anyType
	}
}

func sliceOf(elem models.TypeInfo) models.TypeInfo {
	e := elem
	return models.TypeInfo{Kind: models.TypeSlice, Name: "[]" + typeName(elem), SliceElementType: &e}
}

func typeName(t models.TypeInfo) string {
	if t.IsPointer {
		return "*" + t.Name
	}
	return t.Name
}

func allOfKind(vs []models.Value, k models.Kind) bool {
	if len(vs) == 0 {
		return false
	}
	for _, v := range vs {
		if v.Kind() != k {
			return false
		}
	}
	return true
}

func dropNulls(vs []models.Value) []models.Value {
	out := make([]models.Value, 0, len(vs))
	for _, v := range vs {
		if !v.IsNull() && !v.IsNothing() {
			out = append(out, v)
		}
	}
	return out
}

// generateUniqueStructName ensures that the struct name is unique by appending a number if needed.
func (a *Analyzer) generateUniqueStructName(baseName string) string {
	name := baseName
	count := a.structNames[baseName]
	if count > 0 {
		name = fmt.Sprintf("%s%d", baseName, count)
	}
	a.structNames[baseName] = count + 1
	return name
}

// getFieldName returns the Go identifier for a JSON key using configuration
func (a *Analyzer) getFieldName(jsonKey string) string {
	name := a.config.GetFieldName(jsonKey)
	if name == "" {
		return "Field"
	}
	if c := name[0]; c >= '0' && c <= '9' {
		return "F" + name
	}
	return name
}

var knownSingulars = map[string]string{
	"series":    "series",
	"status":    "status",
	"analysis":  "analysis",
	"species":   "species",
	"news":      "news",
	"goods":     "goods",
	"children":  "child",
	"people":    "person",
	"men":       "man",
	"women":     "woman",
	"teeth":     "tooth",
	"feet":      "foot",
	"mice":      "mouse",
	"geese":     "goose",
	"data":      "data",
	"media":     "media",
	"addresses": "address",
}

// singularize attempts to convert a plural name to a singular one.
func singularize(plural string) string {
	if singular, ok := knownSingulars[strings.ToLower(plural)]; ok {
		// Preserve original casing if the first letter was capitalized
		if len(plural) > 0 && strings.ToUpper(string(plural[0])) == string(plural[0]) {
			return strings.ToUpper(string(singular[0])) + singular[1:]
		}
		return singular
	}

	lowerPlural := strings.ToLower(plural)

	if strings.HasSuffix(lowerPlural, "ies") && len(lowerPlural) > 3 {
		return plural[:len(plural)-3] + "y"
	}

	// Avoid removing 's' from words like 'bus', 'class', 'status', 'basis'
	if strings.HasSuffix(lowerPlural, "ss") ||
		strings.HasSuffix(lowerPlural, "us") ||
		strings.HasSuffix(lowerPlural, "is") {
		return plural
	}

	if strings.HasSuffix(lowerPlural, "s") && len(lowerPlural) > 1 {
		return plural[:len(plural)-1]
	}

	return plural
}

// areTypeInfosEqual checks if two TypeInfo objects represent the same type.
func areTypeInfosEqual(t1, t2 *models.TypeInfo) bool {
	if t1 == nil || t2 == nil {
		return t1 == t2
	}
	if t1.Kind != t2.Kind || t1.Name != t2.Name || t1.IsPointer != t2.IsPointer || t1.StructName != t2.StructName {
		return false
	}
	if t1.Kind == models.TypeSlice {
		return areTypeInfosEqual(t1.SliceElementType, t2.SliceElementType)
	}
	return true
}

// areStructDefsEquivalent compares two StructDefs for structural equality.
// Field names, their Go types, and JSON tags must match. Order of fields doesn't matter.
func areStructDefsEquivalent(s1, s2 *models.StructDef) bool {
	if s1 == nil || s2 == nil {
		return s1 == s2
	}
	if len(s1.Fields) != len(s2.Fields) {
		return false
	}

	s1Fields := make(map[string]models.FieldInfo)
	for _, f := range s1.Fields {
		s1Fields[f.JSONKey] = f
	}

	for _, f2 := range s2.Fields {
		f1, ok := s1Fields[f2.JSONKey]
		if !ok {
			return false
		}
		if f1.GoName != f2.GoName || f1.JSONTag != f2.JSONTag || !areTypeInfosEqual(&f1.GoType, &f2.GoType) {
			return false
		}
	}
	return true
}

// findOrAddStructDef returns the TypeInfo of an existing struct equivalent to
// def, or registers def under a unique name derived from suggestedName.
func (a *Analyzer) findOrAddStructDef(def models.StructDef, suggestedName string) models.TypeInfo {
	for _, existing := range a.analysisResult.Structs {
		if areStructDefsEquivalent(&def, &existing) {
			return models.TypeInfo{
				Kind:       models.TypeStruct,
				Name:       existing.Name,
				StructName: existing.Name,
			}
		}
	}

	def.Name = a.generateUniqueStructName(suggestedName)
	def.IsRoot = false
	a.analysisResult.Structs = append(a.analysisResult.Structs, def)

	return models.TypeInfo{
		Kind:       models.TypeStruct,
		Name:       def.Name,
		StructName: def.Name,
	}
}
