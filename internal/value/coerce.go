package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

type undefinedType struct{}

func (undefinedType) String() string { return "undefined" }

// Undefined marks the absence of a value, as distinct from nil (null).
var Undefined = undefinedType{}

// IsNullish reports whether v is nil or Undefined.
func IsNullish(v any) bool {
	return v == nil || v == Undefined
}

// numberOf returns v as float64 if its kind is numeric.
func numberOf(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func isNumber(v any) bool {
	_, ok := numberOf(v)
	return ok
}

// stringOf returns v as string if its kind is string.
func stringOf(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func boolOf(v any) (bool, bool) {
	if v == nil {
		return false, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

// numbersEqual compares two numeric values, exactly when both are integers.
func numbersEqual(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	ai, aInt := intKind(ra)
	bi, bInt := intKind(rb)
	au, aUint := uintKind(ra)
	bu, bUint := uintKind(rb)
	switch {
	case aInt && bInt:
		return ai == bi
	case aUint && bUint:
		return au == bu
	case aInt && bUint:
		return ai >= 0 && uint64(ai) == bu
	case aUint && bInt:
		return bi >= 0 && au == uint64(bi)
	}
	x, _ := numberOf(a)
	y, _ := numberOf(b)
	return x == y
}

func intKind(rv reflect.Value) (int64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	}
	return 0, false
}

func uintKind(rv reflect.Value) (uint64, bool) {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	}
	return 0, false
}

// Truthy reports whether v is truthy: false, 0, NaN, "", nil and Undefined
// are falsy, everything else (including empty containers) is truthy.
func Truthy(v any) bool {
	if IsNullish(v) {
		return false
	}
	if b, ok := boolOf(v); ok {
		return b
	}
	if n, ok := numberOf(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	if s, ok := stringOf(v); ok {
		return s != ""
	}
	return true
}

// StrictEqual is identity comparison. Numbers compare by value across
// numeric kinds; maps, slices, pointers, funcs and channels compare by
// reference; other comparable values compare with ==.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isNumber(a) && isNumber(b) {
		return numbersEqual(a, b)
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	if ra.Comparable() && rb.Comparable() {
		return ra.Equal(rb)
	}
	return false
}

// LooseEqual is coercive equality. nil and Undefined equal only each other;
// booleans coerce to numbers; a number and a string compare numerically; a
// string and any other value compare against that value's string form.
func LooseEqual(a, b any) bool {
	if IsNullish(a) || IsNullish(b) {
		return IsNullish(a) && IsNullish(b)
	}
	if StrictEqual(a, b) {
		return true
	}
	if x, ok := boolOf(a); ok {
		return LooseEqual(boolNumber(x), b)
	}
	if y, ok := boolOf(b); ok {
		return LooseEqual(a, boolNumber(y))
	}

	an, bn := isNumber(a), isNumber(b)
	sa, as := stringOf(a)
	sb, bs := stringOf(b)
	switch {
	case an && bn:
		return numbersEqual(a, b)
	case as && bs:
		return sa == sb
	case an && bs:
		return ToNumber(a) == stringToNumber(sb)
	case as && bn:
		return stringToNumber(sa) == ToNumber(b)
	case as:
		return sa == ToString(b)
	case bs:
		return ToString(a) == sb
	case an:
		return LooseEqual(a, ToString(b))
	case bn:
		return LooseEqual(ToString(a), b)
	}
	return false
}

func boolNumber(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ToNumber converts v to a float64: nil is 0, Undefined is NaN, booleans
// are 0/1, strings are parsed (blank is 0), anything else goes through its
// string form.
func ToNumber(v any) float64 {
	switch {
	case v == nil:
		return 0
	case v == Undefined:
		return math.NaN()
	}
	if n, ok := numberOf(v); ok {
		return n
	}
	if b, ok := boolOf(v); ok {
		return float64(boolNumber(b))
	}
	if s, ok := stringOf(v); ok {
		return stringToNumber(s)
	}
	return stringToNumber(ToString(v))
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		u, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(u)
	}
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// FormatNumber renders f the way a number prints in a value context:
// shortest round-trip digits, exponent form outside [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToString is the string coercion of v.
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case undefinedType:
		return "undefined"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case reflect.Type:
		return "class " + x.String()
	case *regexp.Regexp:
		return "/" + x.String() + "/"
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return FormatNumber(rv.Float())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			elem := rv.Index(i).Interface()
			if !IsNullish(elem) {
				parts[i] = ToString(elem)
			}
		}
		return strings.Join(parts, ",")
	case reflect.Func:
		return "function " + funcName(v)
	}
	return "[object " + NativeType(v) + "]"
}

// funcName returns the unqualified name of a Go function value.
func funcName(fn any) string {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return ""
	}
	name := strings.TrimSuffix(f.Name(), "-fm")
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	name = name[strings.LastIndex(name, "/")+1:]
	return name[strings.LastIndex(name, ".")+1:]
}

// compareValues orders a and b: two strings compare lexically, anything
// else numerically. ok is false when either side is not orderable (NaN).
func compareValues(a, b any) (int, bool) {
	sa, as := stringOf(a)
	sb, bs := stringOf(b)
	if as && bs {
		return strings.Compare(sa, sb), true
	}
	x, y := ToNumber(a), ToNumber(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, false
	}
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	}
	return 0, true
}
