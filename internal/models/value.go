package models

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// The zero Kind is Nothing: the absent result of a query that matched nothing.
// The parser never produces it.
const (
	Nothing Kind = iota
	Null
	Bool
	Int
	Double
	String
	Array
	Object
)

var kindNames = [...]string{
	Nothing: "nothing",
	Null:    "null",
	Bool:    "bool",
	Int:     "int",
	Double:  "double",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a kind name (as printed by Kind.String) back to its Kind.
// "integer", "number" and "boolean" are accepted as aliases.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "null":
		return Null, true
	case "bool", "boolean":
		return Bool, true
	case "int", "integer":
		return Int, true
	case "double", "float", "number":
		return Double, true
	case "string":
		return String, true
	case "array":
		return Array, true
	case "object":
		return Object, true
	case "nothing":
		return Nothing, true
	}
	return Nothing, false
}

// Value is an immutable JSON value.
//
// Depending on its kind it holds:
//
//	Kind    payload
//	Nothing -
//	Null    -
//	Bool    b
//	Int     i (never mutated after construction)
//	Double  f
//	String  s
//	Array   elems
//	Object  fields (ordered, names may repeat)
//
// Accessors hand out copies so a constructed Value can be shared freely.
type Value struct {
	kind   Kind
	b      bool
	i      *big.Int
	f      float64
	s      string
	elems  []Value
	fields []Field
}

// Field is a named member of an Object.
type Field struct {
	Name  string
	Value Value
}

// F is a shorthand for constructing a Field.
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// NothingValue returns the absent value.
func NothingValue() Value { return Value{} }

// NullValue returns the JSON null.
func NullValue() Value { return Value{kind: Null} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// IntValue wraps n as an Int.
func IntValue(n int64) Value { return Value{kind: Int, i: big.NewInt(n)} }

// BigIntValue wraps a copy of n as an Int. A nil n yields Int 0.
func BigIntValue(n *big.Int) Value {
	c := new(big.Int)
	if n != nil {
		c.Set(n)
	}
	return Value{kind: Int, i: c}
}

// DoubleValue wraps f as a Double.
func DoubleValue(f float64) Value { return Value{kind: Double, f: f} }

// StringValue wraps s. The bytes are kept as given; a printer writes any
// invalid UTF-8 in them as U+FFFD.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ArrayValue builds an Array holding copies of vs in order.
func ArrayValue(vs ...Value) Value {
	elems := make([]Value, len(vs))
	copy(elems, vs)
	return Value{kind: Array, elems: elems}
}

// ObjectValue builds an Object from fs. Order is kept and duplicate names
// are not merged.
func ObjectValue(fs ...Field) Value {
	fields := make([]Field, len(fs))
	copy(fields, fs)
	return Value{kind: Object, fields: fields}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNothing reports whether v is the absent value.
func (v Value) IsNothing() bool { return v.kind == Nothing }

// IsNull reports whether v is the JSON null.
func (v Value) IsNull() bool { return v.kind == Null }

// AsBool returns the payload of a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == Bool
}

// AsInt returns a copy of the payload of an Int.
func (v Value) AsInt() (*big.Int, bool) {
	if v.kind != Int {
		return nil, false
	}
	return new(big.Int).Set(v.i), true
}

// AsInt64 returns the payload of an Int if it fits in an int64.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != Int || !v.i.IsInt64() {
		return 0, false
	}
	return v.i.Int64(), true
}

// AsDouble returns the payload of a Double.
func (v Value) AsDouble() (float64, bool) {
	return v.f, v.kind == Double
}

// AsString returns the payload of a String.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == String
}

// Elems returns a copy of the elements of an Array, nil otherwise.
func (v Value) Elems() []Value {
	if v.kind != Array {
		return nil
	}
	out := make([]Value, len(v.elems))
	copy(out, v.elems)
	return out
}

// Fields returns a copy of the fields of an Object, nil otherwise.
func (v Value) Fields() []Field {
	if v.kind != Object {
		return nil
	}
	out := make([]Field, len(v.fields))
	copy(out, v.fields)
	return out
}

// Len gives the number of elements of an Array or fields of an Object,
// 0 for Nothing and 1 for every scalar.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.elems)
	case Object:
		return len(v.fields)
	case Nothing:
		return 0
	default:
		return 1
	}
}

// Index returns the i-th element of an Array, or Nothing when out of range.
func (v Value) Index(i int) Value {
	if v.kind != Array || i < 0 || i >= len(v.elems) {
		return Value{}
	}
	return v.elems[i]
}

// Lookup returns the value of the first field called name.
func (v Value) Lookup(name string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Interface creates the Go representation of v:
//
//	Object  map[string]any (a repeated name keeps its last value)
//	Array   []any
//	String  string
//	Int     *big.Int
//	Double  float64
//	Bool    bool
//	Null    nil
//	Nothing nil
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.b
	case Int:
		return new(big.Int).Set(v.i)
	case Double:
		return v.f
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			if f.Value.kind == Nothing {
				continue
			}
			out[f.Name] = f.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// GoString gives a debug representation, used by %#v and test failure output.
func (v Value) GoString() string {
	var b strings.Builder
	v.debug(&b)
	return b.String()
}

func (v Value) debug(b *strings.Builder) {
	switch v.kind {
	case Bool:
		fmt.Fprintf(b, "Bool(%t)", v.b)
	case Int:
		fmt.Fprintf(b, "Int(%s)", v.i.String())
	case Double:
		fmt.Fprintf(b, "Double(%g)", v.f)
	case String:
		fmt.Fprintf(b, "String(%q)", v.s)
	case Array:
		b.WriteString("Array(")
		for i, e := range v.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.debug(b)
		}
		b.WriteString(")")
	case Object:
		b.WriteString("Object(")
		for i, f := range v.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q: ", f.Name)
			f.Value.debug(b)
		}
		b.WriteString(")")
	case Null:
		b.WriteString("Null")
	default:
		b.WriteString("Nothing")
	}
}

// Equal compares a and b and all their children. Object fields are compared
// in order, so objects with the same members in a different order differ.
// Int and Double never compare equal to each other.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Bool:
		return a.b == b.b
	case Int:
		return a.i.Cmp(b.i) == 0
	case Double:
		return a.f == b.f || (a.f != a.f && b.f != b.f)
	case String:
		return a.s == b.s
	case Array:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Name != b.fields[i].Name || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal is the method form of the package function, which lets go-cmp and
// testify pick it up.
func (v Value) Equal(o Value) bool { return Equal(v, o) }
