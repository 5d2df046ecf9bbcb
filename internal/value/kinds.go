package value

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"time"
)

// TypeOf returns the primitive type tag of v: "undefined", "object" (nil,
// containers, structs), "boolean", "number", "string" or "function" (funcs
// and classes).
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "object"
	case undefinedType:
		return "undefined"
	case reflect.Type:
		return "function"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Func:
		return "function"
	}
	return "object"
}

var emptyStruct = reflect.TypeOf(struct{}{})

// NativeType returns the native type tag of v, e.g. "Null", "Undefined",
// "Array", "Object", "Map", "Set", "RegExp", "Date", "Error".
// Maps keyed by strings are plain objects; maps with struct{} elements are
// sets; other maps are maps.
func NativeType(v any) string {
	switch v.(type) {
	case nil:
		return "Null"
	case undefinedType:
		return "Undefined"
	case *regexp.Regexp:
		return "RegExp"
	case time.Time, *time.Time:
		return "Date"
	case reflect.Type:
		return "Function"
	case error:
		return "Error"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return "Boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return "Number"
	case reflect.String:
		return "String"
	case reflect.Func:
		return "Function"
	case reflect.Slice, reflect.Array:
		return "Array"
	case reflect.Map:
		t := rv.Type()
		if t.Elem() == emptyStruct {
			return "Set"
		}
		if t.Key().Kind() == reflect.String {
			return "Object"
		}
		return "Map"
	}
	return "Object"
}

// IsArray reports whether v is a slice or an array.
func IsArray(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// IsObject reports whether v is a plain key/value object.
func IsObject(v any) bool {
	return NativeType(v) == "Object"
}

// IsEmpty reports whether v is nil, Undefined, "", a zero-length sequence,
// map or channel, or a struct without exported fields. Numbers, booleans
// and functions are never empty.
func IsEmpty(v any) bool {
	if IsNullish(v) {
		return true
	}
	if s, ok := stringOf(v); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len() == 0
	case reflect.Struct:
		for _, f := range reflect.VisibleFields(rv.Type()) {
			if f.IsExported() {
				return false
			}
		}
		return true
	}
	return false
}

// IsClass reports whether v is a class, i.e. a reflect.Type.
func IsClass(v any) bool {
	_, ok := v.(reflect.Type)
	return ok
}

// IsLegacyClass reports whether v is a function whose name starts with an
// uppercase letter, the convention for constructor functions.
func IsLegacyClass(v any) bool {
	if v == nil || reflect.ValueOf(v).Kind() != reflect.Func {
		return false
	}
	name := funcName(v)
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// IsDecimal reports whether v is a string that is exactly the canonical
// rendering of the number it parses to ("12", "1.5", "-3"; not "01", "1.50").
func IsDecimal(v any) bool {
	s, ok := stringOf(v)
	if !ok {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}
	return FormatNumber(f) == s
}
