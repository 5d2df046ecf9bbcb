package catalog

import (
	"reflect"
	"slices"

	"github.com/roach88/thevalue/internal/value"
)

// Collections returns the container extension: size, keys, values, first,
// last, includes, pick and omit over maps and sequences.
func Collections() *value.Extension {
	return value.NewExtension().
		Accessor("size", func(w *value.Value) (any, error) {
			return size(w.ValueOf()), nil
		}).
		Func("keys", func(v any, _ ...any) (any, error) {
			return keys(v), nil
		}).
		Func("values", func(v any, _ ...any) (any, error) {
			ks := keys(v)
			out := make([]any, len(ks))
			for i, k := range ks {
				out[i] = value.Get(v, value.ToString(k))
			}
			return out, nil
		}).
		Func("first", func(v any, _ ...any) (any, error) {
			return value.Get(v, "0"), nil
		}).
		Func("last", func(v any, _ ...any) (any, error) {
			n := size(v)
			if n == 0 {
				return value.Undefined, nil
			}
			return value.Get(v, value.FormatNumber(float64(n-1))), nil
		}).
		Func("includes", func(v any, args ...any) (any, error) {
			var target any = value.Undefined
			if len(args) > 0 {
				target = args[0]
			}
			rv := reflect.ValueOf(v)
			if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
				return false, nil
			}
			for i := 0; i < rv.Len(); i++ {
				if value.StrictEqual(rv.Index(i).Interface(), target) {
					return true, nil
				}
			}
			return false, nil
		}).
		Func("pick", func(v any, args ...any) (any, error) {
			out := map[string]any{}
			for _, k := range stringArgs(args) {
				if got := value.Get(v, k); got != value.Undefined {
					out[k] = got
				}
			}
			return out, nil
		}).
		Func("omit", func(v any, args ...any) (any, error) {
			drop := stringArgs(args)
			out := map[string]any{}
			for _, k := range keys(v) {
				name := value.ToString(k)
				if !slices.Contains(drop, name) {
					out[name] = value.Get(v, name)
				}
			}
			return out, nil
		})
}

func size(v any) int {
	if value.IsNullish(v) {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	}
	return 0
}

// keys returns sorted string keys for string-keyed maps and ascending
// indexes for sequences.
func keys(v any) []any {
	if value.IsNullish(v) {
		return []any{}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return []any{}
		}
		names := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			names = append(names, k.String())
		}
		slices.Sort(names)
		out := make([]any, len(names))
		for i, n := range names {
			out[i] = n
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = i
		}
		return out
	}
	return []any{}
}

// stringArgs flattens string and []string/[]any arguments into names.
func stringArgs(args []any) []string {
	var out []string
	for _, a := range args {
		switch x := a.(type) {
		case []string:
			out = append(out, x...)
		case []any:
			for _, e := range x {
				out = append(out, value.ToString(e))
			}
		default:
			out = append(out, value.ToString(x))
		}
	}
	return out
}
