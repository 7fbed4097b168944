package models

// And combines two fields into an object holding f followed by g.
//
//	person := F("name", StringValue("Joe")).And(F("age", IntValue(35)))
func (f Field) And(g Field) Value {
	return ObjectValue(f, g)
}

// With returns a copy of the object v with f appended. Applied to Nothing it
// starts a new object; applied to any other kind it yields an object holding
// just f.
func (v Value) With(f Field) Value {
	if v.kind != Object {
		return ObjectValue(f)
	}
	fields := make([]Field, len(v.fields), len(v.fields)+1)
	copy(fields, v.fields)
	return Value{kind: Object, fields: append(fields, f)}
}

// Join concatenates the fields of two objects. A non-object operand
// contributes no fields.
func Join(a, b Value) Value {
	fields := make([]Field, 0, len(a.fields)+len(b.fields))
	if a.kind == Object {
		fields = append(fields, a.fields...)
	}
	if b.kind == Object {
		fields = append(fields, b.fields...)
	}
	return Value{kind: Object, fields: fields}
}

// Concat merges two values positionally:
//
//	Nothing ++ x        = x
//	x ++ Nothing        = x
//	Array ++ Array      = elements of both
//	Array ++ x          = x appended
//	x ++ Array          = x prepended
//	Object ++ Object    = fields of both, duplicates kept
//	x ++ y              = Array(x, y)
func Concat(a, b Value) Value {
	switch {
	case a.kind == Nothing:
		return b
	case b.kind == Nothing:
		return a
	case a.kind == Array && b.kind == Array:
		elems := make([]Value, 0, len(a.elems)+len(b.elems))
		elems = append(append(elems, a.elems...), b.elems...)
		return Value{kind: Array, elems: elems}
	case a.kind == Array:
		elems := make([]Value, len(a.elems), len(a.elems)+1)
		copy(elems, a.elems)
		return Value{kind: Array, elems: append(elems, b)}
	case b.kind == Array:
		elems := make([]Value, 0, len(b.elems)+1)
		elems = append(append(elems, a), b.elems...)
		return Value{kind: Array, elems: elems}
	case a.kind == Object && b.kind == Object:
		return Join(a, b)
	default:
		return ArrayValue(a, b)
	}
}
