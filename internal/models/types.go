package models

// GoKind classifies the Go type inferred for a JSON value.
type GoKind uint8

const (
	TypeAny GoKind = iota
	TypeBool
	TypeInt
	TypeBigInt
	TypeFloat
	TypeString
	TypeTime
	TypeStruct
	TypeSlice
	// TypeCustom is a type named by a configured mapping.
	TypeCustom
)

// TypeInfo describes a Go type.
type TypeInfo struct {
	Kind      GoKind
	Name      string
	IsPointer bool
	// StructName is set for TypeStruct.
	StructName string
	// SliceElementType is set for TypeSlice.
	SliceElementType *TypeInfo
}

// FieldInfo is one field of a generated struct.
type FieldInfo struct {
	JSONKey string
	GoName  string
	GoType  TypeInfo
	JSONTag string
	Comment string
}

// StructDef is a generated struct. Fields follow the order in which their
// keys first appeared in the document.
type StructDef struct {
	Name   string
	Fields []FieldInfo
	IsRoot bool
}

// AnalysisResult holds every struct discovered in a document and the
// imports their field types need.
type AnalysisResult struct {
	Structs []StructDef
	Imports map[string]struct{}
	// RootIsArray is set when the document is an array; the element struct
	// is then not the root.
	RootIsArray bool
	// RootName is the name chosen for the root type.
	RootName string
	// RootType is the slice type of an array document.
	RootType TypeInfo
}
