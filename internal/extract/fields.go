// Package extract converts between JSON values and ordinary Go values using
// reflection and `json` struct tags.
package extract

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// field describes how one struct field maps to a JSON object member.
type field struct {
	name      string
	index     []int
	omitEmpty bool
	stringify bool
}

var fieldCache sync.Map // map[reflect.Type][]field

// structFields lists the JSON members of t in declaration order. Untagged
// embedded structs contribute their own fields in place.
func structFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}
	fields := collectFields(t, nil)
	fieldCache.Store(t, fields)
	return fields
}

func collectFields(t reflect.Type, parent []int) []field {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		index := append(append([]int(nil), parent...), i)
		name, opts, _ := strings.Cut(tag, ",")

		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			out = append(out, collectFields(sf.Type, index)...)
			continue
		}
		if r, _ := utf8.DecodeRuneInString(sf.Name); !unicode.IsUpper(r) {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		f := field{name: name, index: index}
		for _, opt := range strings.Split(opts, ",") {
			switch opt {
			case "omitempty":
				f.omitEmpty = true
			case "string":
				f.stringify = true
			}
		}
		out = append(out, f)
	}
	return out
}

// isEmpty follows the omitempty rules: false, 0, nil and empty containers.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func childPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func displayPath(path string) string {
	if path == "" {
		return "value"
	}
	return path
}
