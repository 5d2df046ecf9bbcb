package value

import (
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Get resolves a dot-separated property chain starting at v, e.g. "a.b.c"
// or "items.0.name". It returns Undefined as soon as an intermediate is nil
// or Undefined, and Undefined for any property that does not exist.
func Get(v any, chain string) any {
	for _, seg := range strings.Split(chain, ".") {
		if IsNullish(v) {
			return Undefined
		}
		v = property(v, seg)
	}
	return v
}

// Set walks the chain starting at v, creating containers as needed, and
// assigns val at the terminal segment. A nil or Undefined v is replaced by a
// new container. A missing or falsy intermediate becomes []any when the next
// segment is decimal and map[string]any otherwise; sequences grow with
// Undefined holes. Set returns the root, which is a new value when v was
// nullish or when a root sequence had to grow.
func Set(v any, chain string, val any) (any, error) {
	segs := strings.Split(chain, ".")
	if IsNullish(v) {
		v = newContainer(segs[0])
	}
	return setIn(v, segs, val, chain)
}

func setIn(container any, segs []string, val any, chain string) (any, error) {
	key := segs[0]
	if len(segs) == 1 {
		return assign(container, key, val, chain)
	}
	child := property(container, key)
	if !Truthy(child) {
		child = newContainer(segs[1])
	}
	child, err := setIn(child, segs[1:], val, chain)
	if err != nil {
		return nil, err
	}
	return assign(container, key, child, chain)
}

// newContainer picks the container a segment can be assigned into: a
// sequence for a non-negative index, a map for every other key.
func newContainer(seg string) any {
	if _, ok := index(seg); ok {
		return []any{}
	}
	return map[string]any{}
}

// property reads a single key from v. Maps are indexed by key, sequences
// by decimal index and strings by rune index (both also have "length"),
// structs by exported field name; pointers are followed.
func property(v any, key string) any {
	switch c := v.(type) {
	case map[string]any:
		if out, ok := c[key]; ok {
			return out
		}
		return Undefined
	case []any:
		if key == "length" {
			return len(c)
		}
		if i, ok := index(key); ok && i < len(c) {
			return c[i]
		}
		return Undefined
	case string:
		return runeProperty(c, key)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Undefined
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Undefined
		}
		out := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !out.IsValid() {
			return Undefined
		}
		return out.Interface()
	case reflect.String:
		return runeProperty(rv.String(), key)
	case reflect.Slice, reflect.Array:
		if key == "length" {
			return rv.Len()
		}
		if i, ok := index(key); ok && i < rv.Len() {
			return rv.Index(i).Interface()
		}
	case reflect.Struct:
		f, ok := rv.Type().FieldByName(key)
		if ok && f.IsExported() {
			return rv.FieldByIndex(f.Index).Interface()
		}
	}
	return Undefined
}

// runeProperty indexes and measures strings by rune.
func runeProperty(s, key string) any {
	if key == "length" {
		return utf8.RuneCountInString(s)
	}
	if i, ok := index(key); ok {
		for j, r := range []rune(s) {
			if j == i {
				return string(r)
			}
		}
	}
	return Undefined
}

// assign writes val under key in container and returns the container,
// which differs from the input when a sequence had to grow.
func assign(container any, key string, val any, chain string) (any, error) {
	switch c := container.(type) {
	case map[string]any:
		c[key] = val
		return c, nil
	case []any:
		i, ok := index(key)
		if !ok {
			return nil, newError(ErrCodeBadPath, "", "cannot set non-index key %q on a sequence (path %q)", key, chain)
		}
		for len(c) <= i {
			c = append(c, Undefined)
		}
		c[i] = val
		return c, nil
	}

	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Map:
		kt, vt := rv.Type().Key(), rv.Type().Elem()
		if kt.Kind() != reflect.String {
			break
		}
		nv, ok := assignable(val, vt)
		if !ok {
			return nil, newError(ErrCodeBadPath, "", "cannot store %T in %s at %q (path %q)", val, rv.Type(), key, chain)
		}
		if rv.IsNil() {
			return nil, newError(ErrCodeBadPath, "", "cannot set %q on a nil map (path %q)", key, chain)
		}
		rv.SetMapIndex(reflect.ValueOf(key).Convert(kt), nv)
		return container, nil
	case reflect.Pointer:
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			break
		}
		f := rv.Elem().FieldByName(key)
		if !f.IsValid() || !f.CanSet() {
			return nil, newError(ErrCodeBadPath, "", "no settable field %q on %s (path %q)", key, rv.Type(), chain)
		}
		nv, ok := assignable(val, f.Type())
		if !ok {
			return nil, newError(ErrCodeBadPath, "", "cannot store %T in field %q (path %q)", val, key, chain)
		}
		f.Set(nv)
		return container, nil
	}
	return nil, newError(ErrCodeBadPath, "", "cannot set %q on %s (path %q)", key, TypeOf(container), chain)
}

func assignable(val any, t reflect.Type) (reflect.Value, bool) {
	if val == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(t) {
		return rv, true
	}
	return reflect.Value{}, false
}

// index parses a non-negative decimal sequence index.
func index(key string) (int, bool) {
	if !IsDecimal(key) {
		return 0, false
	}
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
