package query

import "github.com/mcncl/jsonast/internal/models"

// Changes describes how a value differs from another. Each part is Nothing
// when there is nothing to report.
type Changes struct {
	// Changed holds the new values of scalars that kept their place and kind.
	Changed models.Value
	// Added holds what only the second value has.
	Added models.Value
	// Deleted holds what only the first value has.
	Deleted models.Value
}

// Empty reports whether the two compared values were equal.
func (c Changes) Empty() bool {
	return c.Changed.IsNothing() && c.Added.IsNothing() && c.Deleted.IsNothing()
}

// Diff compares a with b. Objects are compared by field name and arrays by
// position. A scalar whose kind changed counts as deleted and added.
func Diff(a, b models.Value) Changes {
	if models.Equal(a, b) {
		return Changes{}
	}
	switch {
	case a.Kind() == models.Object && b.Kind() == models.Object:
		return diffFields(a.Fields(), b.Fields())
	case a.Kind() == models.Array && b.Kind() == models.Array:
		return diffElems(a.Elems(), b.Elems())
	case a.Kind() == b.Kind() && isScalar(a):
		return Changes{Changed: b}
	default:
		return Changes{Added: b, Deleted: a}
	}
}

func isScalar(v models.Value) bool {
	switch v.Kind() {
	case models.Bool, models.Int, models.Double, models.String:
		return true
	}
	return false
}

func diffFields(xs, ys []models.Field) Changes {
	var changed, added, deleted []models.Field
	for _, x := range xs {
		j := indexField(ys, x.Name)
		if j < 0 {
			deleted = append(deleted, x)
			continue
		}
		c := Diff(x.Value, ys[j].Value)
		if !c.Changed.IsNothing() {
			changed = append(changed, models.F(x.Name, c.Changed))
		}
		if !c.Added.IsNothing() {
			added = append(added, models.F(x.Name, c.Added))
		}
		if !c.Deleted.IsNothing() {
			deleted = append(deleted, models.F(x.Name, c.Deleted))
		}
		ys = without(ys, j)
	}
	added = append(added, ys...)
	return Changes{
		Changed: objectOrNothing(changed),
		Added:   objectOrNothing(added),
		Deleted: objectOrNothing(deleted),
	}
}

func diffElems(xs, ys []models.Value) Changes {
	var c Changes
	n := min(len(xs), len(ys))
	for i := 0; i < n; i++ {
		d := Diff(xs[i], ys[i])
		c.Changed = models.Concat(c.Changed, d.Changed)
		c.Added = models.Concat(c.Added, d.Added)
		c.Deleted = models.Concat(c.Deleted, d.Deleted)
	}
	if len(ys) > n {
		c.Added = models.Concat(c.Added, models.ArrayValue(ys[n:]...))
	}
	if len(xs) > n {
		c.Deleted = models.Concat(c.Deleted, models.ArrayValue(xs[n:]...))
	}
	return c
}

func objectOrNothing(fs []models.Field) models.Value {
	if len(fs) == 0 {
		return models.NothingValue()
	}
	return models.ObjectValue(fs...)
}
