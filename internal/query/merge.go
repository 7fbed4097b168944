package query

import "github.com/mcncl/jsonast/internal/models"

// Merge combines two values, b taking precedence.
//
// Objects merge field by field: a field of a whose name also appears in b is
// merged with the first such field of b, the rest of b is appended. Arrays
// merge element by element: an element of a equal to one in b is merged with
// it, unmatched elements of b are appended. Nothing yields the other operand.
// In every other case b wins.
func Merge(a, b models.Value) models.Value {
	switch {
	case a.Kind() == models.Object && b.Kind() == models.Object:
		return models.ObjectValue(mergeFields(a.Fields(), b.Fields())...)
	case a.Kind() == models.Array && b.Kind() == models.Array:
		return models.ArrayValue(mergeElems(a.Elems(), b.Elems())...)
	case b.IsNothing():
		return a
	default:
		return b
	}
}

func mergeFields(xs, ys []models.Field) []models.Field {
	out := make([]models.Field, 0, len(xs)+len(ys))
	for _, x := range xs {
		j := indexField(ys, x.Name)
		if j < 0 {
			out = append(out, x)
			continue
		}
		out = append(out, models.F(x.Name, Merge(x.Value, ys[j].Value)))
		ys = without(ys, j)
	}
	return append(out, ys...)
}

func mergeElems(xs, ys []models.Value) []models.Value {
	out := make([]models.Value, 0, len(xs)+len(ys))
	for _, x := range xs {
		j := -1
		for k, y := range ys {
			if models.Equal(x, y) {
				j = k
				break
			}
		}
		if j < 0 {
			out = append(out, x)
			continue
		}
		out = append(out, Merge(x, ys[j]))
		ys = without(ys, j)
	}
	return append(out, ys...)
}

func indexField(fs []models.Field, name string) int {
	for i, f := range fs {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// without returns s minus its i-th element, leaving s itself untouched.
func without[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
