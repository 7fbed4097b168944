// Package query selects from and rewrites JSON values.
//
// Every function here is total: it never fails and never modifies its input.
// Visitors walk the tree depth-first, pre-order, in field order; rewrites run
// bottom-up, so a node is offered to the rewrite function after its children
// have been rewritten.
package query

import "github.com/mcncl/jsonast/internal/models"

// walk calls fn for v and every value below it until fn returns false.
// It reports whether the walk ran to completion.
func walk(v models.Value, fn func(models.Value) bool) bool {
	if !fn(v) {
		return false
	}
	switch v.Kind() {
	case models.Object:
		for _, f := range v.Fields() {
			if !walk(f.Value, fn) {
				return false
			}
		}
	case models.Array:
		for _, e := range v.Elems() {
			if !walk(e, fn) {
				return false
			}
		}
	}
	return true
}

// walkFields calls fn for every field below v until fn returns false. A
// field is visited before the fields of its value.
func walkFields(v models.Value, fn func(models.Field) bool) bool {
	switch v.Kind() {
	case models.Object:
		for _, f := range v.Fields() {
			if !fn(f) || !walkFields(f.Value, fn) {
				return false
			}
		}
	case models.Array:
		for _, e := range v.Elems() {
			if !walkFields(e, fn) {
				return false
			}
		}
	}
	return true
}

// Fold visits v and every value below it, threading an accumulator.
func Fold[A any](v models.Value, acc A, fn func(A, models.Value) A) A {
	walk(v, func(x models.Value) bool {
		acc = fn(acc, x)
		return true
	})
	return acc
}

// FoldField visits every field below v, threading an accumulator.
func FoldField[A any](v models.Value, acc A, fn func(A, models.Field) A) A {
	walkFields(v, func(f models.Field) bool {
		acc = fn(acc, f)
		return true
	})
	return acc
}

// Map rewrites every value of the tree with fn, children first.
func Map(v models.Value, fn func(models.Value) models.Value) models.Value {
	switch v.Kind() {
	case models.Object:
		fields := v.Fields()
		for i, f := range fields {
			fields[i] = models.F(f.Name, Map(f.Value, fn))
		}
		return fn(models.ObjectValue(fields...))
	case models.Array:
		elems := v.Elems()
		for i, e := range elems {
			elems[i] = Map(e, fn)
		}
		return fn(models.ArrayValue(elems...))
	default:
		return fn(v)
	}
}

// MapField rewrites every field of the tree with fn. The value handed to fn
// has already been rewritten.
func MapField(v models.Value, fn func(models.Field) models.Field) models.Value {
	switch v.Kind() {
	case models.Object:
		fields := v.Fields()
		for i, f := range fields {
			fields[i] = fn(models.F(f.Name, MapField(f.Value, fn)))
		}
		return models.ObjectValue(fields...)
	case models.Array:
		elems := v.Elems()
		for i, e := range elems {
			elems[i] = MapField(e, fn)
		}
		return models.ArrayValue(elems...)
	default:
		return v
	}
}

// Transform applies a partial rewrite: values for which fn reports true are
// replaced, everything else is kept.
func Transform(v models.Value, fn func(models.Value) (models.Value, bool)) models.Value {
	return Map(v, func(x models.Value) models.Value {
		if y, ok := fn(x); ok {
			return y
		}
		return x
	})
}

// TransformField is Transform for fields.
func TransformField(v models.Value, fn func(models.Field) (models.Field, bool)) models.Value {
	return MapField(v, func(f models.Field) models.Field {
		if g, ok := fn(f); ok {
			return g
		}
		return f
	})
}

// Filter returns every value matching pred.
func Filter(v models.Value, pred func(models.Value) bool) []models.Value {
	return Fold(v, []models.Value(nil), func(acc []models.Value, x models.Value) []models.Value {
		if pred(x) {
			acc = append(acc, x)
		}
		return acc
	})
}

// Find returns the first value matching pred.
func Find(v models.Value, pred func(models.Value) bool) (models.Value, bool) {
	var found models.Value
	complete := walk(v, func(x models.Value) bool {
		if pred(x) {
			found = x
			return false
		}
		return true
	})
	return found, !complete
}

// FilterField returns every field matching pred.
func FilterField(v models.Value, pred func(models.Field) bool) []models.Field {
	return FoldField(v, []models.Field(nil), func(acc []models.Field, f models.Field) []models.Field {
		if pred(f) {
			acc = append(acc, f)
		}
		return acc
	})
}

// FindField returns the first field matching pred.
func FindField(v models.Value, pred func(models.Field) bool) (models.Field, bool) {
	var found models.Field
	complete := walkFields(v, func(f models.Field) bool {
		if pred(f) {
			found = f
			return false
		}
		return true
	})
	return found, !complete
}

// Remove deletes every value matching pred. A container is offered to pred
// after its own matches have been deleted, so emptied containers can be
// removed too. Removing the root yields Nothing.
func Remove(v models.Value, pred func(models.Value) bool) models.Value {
	return Map(v, func(x models.Value) models.Value {
		x = dropNothing(x)
		if pred(x) {
			return models.NothingValue()
		}
		return x
	})
}

// RemoveField deletes every field matching pred.
func RemoveField(v models.Value, pred func(models.Field) bool) models.Value {
	return Map(MapField(v, func(f models.Field) models.Field {
		if pred(f) {
			return models.F(f.Name, models.NothingValue())
		}
		return f
	}), dropNothing)
}

// NoNulls deletes every null.
func NoNulls(v models.Value) models.Value {
	return Remove(v, models.Value.IsNull)
}

// dropNothing removes the Nothing elements or fields directly inside v.
func dropNothing(v models.Value) models.Value {
	switch v.Kind() {
	case models.Object:
		fields := make([]models.Field, 0, v.Len())
		for _, f := range v.Fields() {
			if !f.Value.IsNothing() {
				fields = append(fields, f)
			}
		}
		return models.ObjectValue(fields...)
	case models.Array:
		elems := make([]models.Value, 0, v.Len())
		for _, e := range v.Elems() {
			if !e.IsNothing() {
				elems = append(elems, e)
			}
		}
		return models.ArrayValue(elems...)
	default:
		return v
	}
}
