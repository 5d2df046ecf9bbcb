package catalog

import "github.com/roach88/thevalue/internal/value"

func nativeTypeIs(tag string) value.MethodFunc {
	return func(v any, _ ...any) (any, error) {
		return value.NativeType(v) == tag, nil
	}
}

// Types returns native type checks. They are plain functions of the value;
// merge them with value.AsGetter to read them as properties.
func Types() *value.Extension {
	return value.NewExtension().
		Func("isMap", nativeTypeIs("Map")).
		Func("isSet", nativeTypeIs("Set")).
		Func("isRegExp", nativeTypeIs("RegExp")).
		Func("isDate", nativeTypeIs("Date")).
		Func("isError", nativeTypeIs("Error")).
		Func("isFunction", nativeTypeIs("Function")).
		Func("isBoolean", nativeTypeIs("Boolean"))
}
