package extract

import (
	"math"
	"math/big"
	"reflect"

	pkgerrors "github.com/pkg/errors"

	"github.com/mcncl/jsonast/internal/errors"
	"github.com/mcncl/jsonast/internal/models"
	"github.com/mcncl/jsonast/internal/parser"
)

// Option adjusts how Extract fills its target.
type Option func(*extractor)

// Strict makes Extract fail when an object lacks a member for a struct field
// that is not tagged omitempty.
func Strict() Option {
	return func(e *extractor) { e.strict = true }
}

type extractor struct {
	strict bool
}

// Extract stores v into the Go value out points to.
//
// Null sets pointers, maps, slices and interfaces to nil and leaves other
// targets alone. Nothing leaves every target alone. Struct fields without a
// matching member are left as they are. A repeated member name fills the
// field from its first occurrence; for map targets the last occurrence wins.
func Extract(v models.Value, out any, opts ...Option) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NewExtractError("target must be a non-nil pointer", errors.ErrTypeMismatch)
	}
	e := &extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.set("", v, rv.Elem(), false); err != nil {
		return errors.NewExtractError("cannot extract into "+rv.Type().Elem().String(), err)
	}
	return nil
}

func mismatch(path string, v models.Value, target reflect.Type) error {
	return pkgerrors.Wrapf(errors.ErrTypeMismatch,
		"%s: cannot store %s in %s", displayPath(path), v.Kind(), target)
}

func (e *extractor) set(path string, v models.Value, rv reflect.Value, stringify bool) error {
	if v.IsNothing() {
		return nil
	}
	switch rv.Type() {
	case valueType:
		rv.Set(reflect.ValueOf(v))
		return nil
	case bigIntType:
		if v.IsNull() {
			rv.Set(reflect.Zero(bigIntType))
			return nil
		}
		n, ok := v.AsInt()
		if !ok {
			return mismatch(path, v, rv.Type())
		}
		rv.Set(reflect.ValueOf(n))
		return nil
	}

	if v.IsNull() {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
		}
		return nil
	}

	if stringify && rv.Kind() != reflect.String && rv.Kind() != reflect.Pointer {
		s, ok := v.AsString()
		if !ok {
			return mismatch(path, v, rv.Type())
		}
		inner, err := parser.ParseString(s)
		if err != nil {
			return pkgerrors.Wrapf(errors.ErrTypeMismatch, "%s: invalid quoted value %q", displayPath(path), s)
		}
		return e.set(path, inner, rv, false)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return e.set(path, v, rv.Elem(), stringify)
	case reflect.Interface:
		if rv.Type().NumMethod() > 0 {
			return mismatch(path, v, rv.Type())
		}
		rv.Set(reflect.ValueOf(v.Interface()))
		return nil
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return mismatch(path, v, rv.Type())
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.AsInt()
		if !ok {
			return mismatch(path, v, rv.Type())
		}
		if !n.IsInt64() || rv.OverflowInt(n.Int64()) {
			return pkgerrors.Wrapf(errors.ErrTypeMismatch, "%s: %s overflows %s", displayPath(path), n.String(), rv.Type())
		}
		rv.SetInt(n.Int64())
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := v.AsInt()
		if !ok {
			return mismatch(path, v, rv.Type())
		}
		if n.Sign() < 0 || !n.IsUint64() || rv.OverflowUint(n.Uint64()) {
			return pkgerrors.Wrapf(errors.ErrTypeMismatch, "%s: %s overflows %s", displayPath(path), n.String(), rv.Type())
		}
		rv.SetUint(n.Uint64())
		return nil
	case reflect.Float32, reflect.Float64:
		var f float64
		switch v.Kind() {
		case models.Double:
			f, _ = v.AsDouble()
		case models.Int:
			n, _ := v.AsInt()
			f, _ = new(big.Float).SetInt(n).Float64()
		default:
			return mismatch(path, v, rv.Type())
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && rv.OverflowFloat(f) {
			return pkgerrors.Wrapf(errors.ErrTypeMismatch, "%s: %g overflows %s", displayPath(path), f, rv.Type())
		}
		rv.SetFloat(f)
		return nil
	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return mismatch(path, v, rv.Type())
		}
		rv.SetString(s)
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if s, ok := v.AsString(); ok {
				rv.SetBytes([]byte(s))
				return nil
			}
		}
		if v.Kind() != models.Array {
			return mismatch(path, v, rv.Type())
		}
		elems := v.Elems()
		slice := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
		for i, el := range elems {
			if err := e.set(indexPath(path, i), el, slice.Index(i), false); err != nil {
				return err
			}
		}
		rv.Set(slice)
		return nil
	case reflect.Array:
		if v.Kind() != models.Array {
			return mismatch(path, v, rv.Type())
		}
		elems := v.Elems()
		for i := 0; i < rv.Len(); i++ {
			if i >= len(elems) {
				rv.Index(i).Set(reflect.Zero(rv.Type().Elem()))
				continue
			}
			if err := e.set(indexPath(path, i), elems[i], rv.Index(i), false); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		return e.setMap(path, v, rv)
	case reflect.Struct:
		return e.setStruct(path, v, rv)
	default:
		return mismatch(path, v, rv.Type())
	}
}

func (e *extractor) setMap(path string, v models.Value, rv reflect.Value) error {
	t := rv.Type()
	if t.Key().Kind() != reflect.String || v.Kind() != models.Object {
		return mismatch(path, v, t)
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(t))
	}
	for _, f := range v.Fields() {
		if f.Value.IsNothing() {
			continue
		}
		elem := reflect.New(t.Elem()).Elem()
		if err := e.set(childPath(path, f.Name), f.Value, elem, false); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(f.Name).Convert(t.Key()), elem)
	}
	return nil
}

func (e *extractor) setStruct(path string, v models.Value, rv reflect.Value) error {
	if v.Kind() != models.Object {
		return mismatch(path, v, rv.Type())
	}
	for _, f := range structFields(rv.Type()) {
		member, ok := v.Lookup(f.name)
		if !ok || member.IsNothing() {
			if e.strict && !f.omitEmpty {
				return pkgerrors.Wrapf(errors.ErrTypeMismatch, "%s: missing member", displayPath(childPath(path, f.name)))
			}
			continue
		}
		if err := e.set(childPath(path, f.name), member, rv.FieldByIndex(f.index), f.stringify); err != nil {
			return err
		}
	}
	return nil
}
