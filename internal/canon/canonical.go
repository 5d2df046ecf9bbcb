package canon

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/thevalue/internal/value"
)

// MarshalCanonical renders a dynamic value as canonical JSON: object keys
// sorted by UTF-16 code units, strings NFC-normalized with only the
// mandatory escapes, no insignificant whitespace.
//
// Mapping of Go values:
//   - nil and value.Undefined: null
//   - numbers: integers as-is, floats in the shortest round-trip form;
//     NaN and infinities are rejected
//   - string-keyed maps and structs (exported fields): objects
//   - other maps: objects keyed by the key's string form
//   - sets (maps with struct{} elements): arrays sorted by encoding
//   - slices and arrays: arrays
//   - *value.Value: its raw value
//   - funcs, classes, regexps, errors, matchers: their string form
//   - time.Time: RFC 3339 string in UTC
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustMarshalCanonical is like MarshalCanonical but panics on error.
func MustMarshalCanonical(v any) []byte {
	b, err := MarshalCanonical(v)
	if err != nil {
		panic(err)
	}
	return b
}

var emptyStruct = reflect.TypeOf(struct{}{})

func encode(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case *value.Value:
		return encode(buf, x.ValueOf())
	case *value.Constant, reflect.Type, *regexp.Regexp, error, value.BoundMethod:
		writeString(buf, value.ToString(x))
		return nil
	case time.Time:
		writeString(buf, x.UTC().Format(time.RFC3339Nano))
		return nil
	}
	if v == value.Undefined {
		buf.WriteString("null")
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		buf.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite number %v has no canonical form", f)
		}
		buf.WriteString(value.FormatNumber(f))
	case reflect.String:
		writeString(buf, rv.String())
	case reflect.Func:
		writeString(buf, value.ToString(v))
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			buf.WriteString("null")
			return nil
		}
		return encode(buf, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			buf.WriteString("[]")
			return nil
		}
		return encodeArray(buf, rv)
	case reflect.Map:
		if rv.Type().Elem() == emptyStruct {
			return encodeSet(buf, rv)
		}
		return encodeMap(buf, rv)
	case reflect.Struct:
		return encodeStruct(buf, rv)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func encodeArray(buf *bytes.Buffer, rv reflect.Value) error {
	buf.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(buf, rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeSet(buf *bytes.Buffer, rv reflect.Value) error {
	elems := make([][]byte, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		b, err := MarshalCanonical(iter.Key().Interface())
		if err != nil {
			return fmt.Errorf("set element: %w", err)
		}
		elems = append(elems, b)
	}
	slices.SortFunc(elems, bytes.Compare)
	buf.WriteByte('[')
	buf.Write(bytes.Join(elems, []byte{','}))
	buf.WriteByte(']')
	return nil
}

func encodeMap(buf *bytes.Buffer, rv reflect.Value) error {
	fields := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := value.ToString(iter.Key().Interface())
		if _, dup := fields[k]; dup {
			return fmt.Errorf("map keys collide on %q", k)
		}
		fields[k] = iter.Value().Interface()
	}
	return encodeObject(buf, fields)
}

func encodeStruct(buf *bytes.Buffer, rv reflect.Value) error {
	fields := make(map[string]any)
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		fields[f.Name] = rv.FieldByIndex(f.Index).Interface()
	}
	return encodeObject(buf, fields)
}

func encodeObject(buf *bytes.Buffer, fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, CompareKeys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, k)
		buf.WriteByte(':')
		if err := encode(buf, fields[k]); err != nil {
			return fmt.Errorf("object[%q]: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// CompareKeys orders object keys by UTF-16 code units.
func CompareKeys(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

const hexDigits = "0123456789abcdef"

// writeString writes s as a JSON string after NFC normalization. Only the
// quote, the backslash and control characters are escaped.
func writeString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[r>>4])
			buf.WriteByte(hexDigits[r&0xf])
		case r == utf8.RuneError && size == 1:
			buf.WriteString("\uFFFD")
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}
