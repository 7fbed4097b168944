package query

import "github.com/mcncl/jsonast/internal/models"

// Child selects the fields called name directly below v. On an Array it is
// applied to every element. No match yields Nothing, one match yields its
// value and several yield an Array of the values in document order.
func Child(v models.Value, name string) models.Value {
	return collapse(direct(v, name))
}

func direct(v models.Value, name string) []models.Value {
	var out []models.Value
	switch v.Kind() {
	case models.Object:
		for _, f := range v.Fields() {
			if f.Name == name {
				out = append(out, f.Value)
			}
		}
	case models.Array:
		for _, e := range v.Elems() {
			out = append(out, direct(e, name)...)
		}
	}
	return out
}

func collapse(vs []models.Value) models.Value {
	switch len(vs) {
	case 0:
		return models.NothingValue()
	case 1:
		return vs[0]
	default:
		return models.ArrayValue(vs...)
	}
}

// Descend selects the fields called name at any depth below v. No match
// yields Nothing and one match yields its value. Several matches yield an
// Object of the matching fields, so the names (all equal) are repeated.
func Descend(v models.Value, name string) models.Value {
	found := FilterField(v, func(f models.Field) bool { return f.Name == name })
	switch len(found) {
	case 0:
		return models.NothingValue()
	case 1:
		return found[0].Value
	default:
		return models.ObjectValue(found...)
	}
}

// Children returns the field values of an Object or the elements of an
// Array. Scalars have no children.
func Children(v models.Value) []models.Value {
	switch v.Kind() {
	case models.Object:
		fields := v.Fields()
		out := make([]models.Value, len(fields))
		for i, f := range fields {
			out[i] = f.Value
		}
		return out
	case models.Array:
		return v.Elems()
	default:
		return nil
	}
}

// ChildrenOfKind returns the direct children of v that are of the given kind.
func ChildrenOfKind(v models.Value, kind models.Kind) []models.Value {
	var out []models.Value
	for _, c := range Children(v) {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Unbox returns every value of the given kind in v, v included.
func Unbox(v models.Value, kind models.Kind) []models.Value {
	return Filter(v, func(x models.Value) bool { return x.Kind() == kind })
}

// FieldsToArray wraps each field in a single-member object.
//
//	[{"name":"Joe"},{"name":"Marilyn"}]
func FieldsToArray(fs []models.Field) models.Value {
	elems := make([]models.Value, len(fs))
	for i, f := range fs {
		elems[i] = models.ObjectValue(f)
	}
	return models.ArrayValue(elems...)
}

// Replace substitutes repl for the value found by following path through
// nested objects. Every field on the path with a matching name is followed.
// An empty path, or one that leads nowhere, leaves v unchanged.
func Replace(v models.Value, path []string, repl models.Value) models.Value {
	if len(path) == 0 || v.Kind() != models.Object {
		return v
	}
	fields := v.Fields()
	for i, f := range fields {
		if f.Name != path[0] {
			continue
		}
		if len(path) == 1 {
			fields[i] = models.F(f.Name, repl)
		} else {
			fields[i] = models.F(f.Name, Replace(f.Value, path[1:], repl))
		}
	}
	return models.ObjectValue(fields...)
}
