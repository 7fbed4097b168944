package extract

import (
	"math/big"
	"reflect"
	"sort"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/mcncl/jsonast/internal/errors"
	"github.com/mcncl/jsonast/internal/models"
)

var (
	valueType  = reflect.TypeOf(models.Value{})
	bigIntType = reflect.TypeOf((*big.Int)(nil))
)

// Decompose builds the JSON value of an ordinary Go value.
//
//	struct           Object, fields in declaration order, `json` tags honored
//	map[string]T     Object, sorted by key
//	slice, array     Array ([]byte becomes a String)
//	string           String
//	int, uint        Int
//	float            Double
//	bool             Bool
//	*big.Int         Int
//	nil, nil pointer Null
//
// A models.Value is returned unchanged. Channels, functions, complex numbers
// and maps with non-string keys are rejected.
func Decompose(v any) (models.Value, error) {
	if v == nil {
		return models.NullValue(), nil
	}
	d := &decomposer{visiting: make(map[visit]struct{})}
	out, err := d.decompose("", reflect.ValueOf(v), false)
	if err != nil {
		return models.Value{}, errors.NewExtractError("cannot decompose "+reflect.TypeOf(v).String(), err)
	}
	return out, nil
}

// visit identifies a pointer, map or slice on the current path. Slices also
// need their length, since a sub-slice shares its parent's pointer.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type decomposer struct {
	visiting map[visit]struct{}
}

// enter records rv as being decomposed and fails when it already is, which
// means the value refers back to itself.
func (d *decomposer) enter(path string, rv reflect.Value) (func(), error) {
	key := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		key.len = rv.Len()
	}
	if _, ok := d.visiting[key]; ok {
		return nil, pkgerrors.Wrapf(errors.ErrTypeMismatch,
			"%s: cycle through %s", displayPath(path), rv.Type())
	}
	d.visiting[key] = struct{}{}
	return func() { delete(d.visiting, key) }, nil
}

func (d *decomposer) decompose(path string, rv reflect.Value, stringify bool) (models.Value, error) {
	if rv.Type() == valueType {
		return rv.Interface().(models.Value), nil
	}
	if rv.Type() == bigIntType {
		if rv.IsNil() {
			return models.NullValue(), nil
		}
		return models.BigIntValue(rv.Interface().(*big.Int)), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		if stringify {
			return models.StringValue(strconv.FormatBool(rv.Bool())), nil
		}
		return models.BoolValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if stringify {
			return models.StringValue(strconv.FormatInt(rv.Int(), 10)), nil
		}
		return models.IntValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if stringify {
			return models.StringValue(strconv.FormatUint(rv.Uint(), 10)), nil
		}
		return models.BigIntValue(new(big.Int).SetUint64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		if stringify {
			return models.StringValue(strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits())), nil
		}
		return models.DoubleValue(rv.Float()), nil
	case reflect.String:
		return models.StringValue(rv.String()), nil
	case reflect.Interface:
		if rv.IsNil() {
			return models.NullValue(), nil
		}
		return d.decompose(path, rv.Elem(), stringify)
	case reflect.Pointer:
		if rv.IsNil() {
			return models.NullValue(), nil
		}
		leave, err := d.enter(path, rv)
		if err != nil {
			return models.Value{}, err
		}
		defer leave()
		return d.decompose(path, rv.Elem(), stringify)
	case reflect.Slice:
		if rv.IsNil() {
			return models.NullValue(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return models.StringValue(string(rv.Bytes())), nil
		}
		leave, err := d.enter(path, rv)
		if err != nil {
			return models.Value{}, err
		}
		defer leave()
		return d.decomposeElems(path, rv)
	case reflect.Array:
		return d.decomposeElems(path, rv)
	case reflect.Map:
		return d.decomposeMap(path, rv)
	case reflect.Struct:
		return d.decomposeStruct(path, rv)
	default:
		return models.Value{}, pkgerrors.Wrapf(errors.ErrTypeMismatch,
			"%s: %s has no JSON form", displayPath(path), rv.Type())
	}
}

func (d *decomposer) decomposeElems(path string, rv reflect.Value) (models.Value, error) {
	elems := make([]models.Value, rv.Len())
	for i := range elems {
		e, err := d.decompose(indexPath(path, i), rv.Index(i), false)
		if err != nil {
			return models.Value{}, err
		}
		elems[i] = e
	}
	return models.ArrayValue(elems...), nil
}

func (d *decomposer) decomposeMap(path string, rv reflect.Value) (models.Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return models.Value{}, pkgerrors.Wrapf(errors.ErrTypeMismatch,
			"%s: map key type %s is not a string", displayPath(path), rv.Type().Key())
	}
	if rv.IsNil() {
		return models.NullValue(), nil
	}
	leave, err := d.enter(path, rv)
	if err != nil {
		return models.Value{}, err
	}
	defer leave()

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	fields := make([]models.Field, len(keys))
	for i, k := range keys {
		name := k.String()
		v, err := d.decompose(childPath(path, name), rv.MapIndex(k), false)
		if err != nil {
			return models.Value{}, err
		}
		fields[i] = models.F(name, v)
	}
	return models.ObjectValue(fields...), nil
}

func (d *decomposer) decomposeStruct(path string, rv reflect.Value) (models.Value, error) {
	var fields []models.Field
	for _, f := range structFields(rv.Type()) {
		fv := rv.FieldByIndex(f.index)
		if f.omitEmpty && isEmpty(fv) {
			continue
		}
		v, err := d.decompose(childPath(path, f.name), fv, f.stringify)
		if err != nil {
			return models.Value{}, err
		}
		fields = append(fields, models.F(f.name, v))
	}
	return models.ObjectValue(fields...), nil
}
