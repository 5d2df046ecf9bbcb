package catalog

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/thevalue/internal/value"
)

// stringFunc lifts a string transform to a method that coerces the raw
// value with value.ToString first.
func stringFunc(fn func(s string) any) value.MethodFunc {
	return func(v any, _ ...any) (any, error) {
		return fn(value.ToString(v)), nil
	}
}

// Strings returns the string extension. Transforms coerce the raw value to
// its string form; methods taking arguments are adapted from the strings
// package and require string arguments.
func Strings() *value.Extension {
	title := cases.Title(language.Und)
	return value.NewExtension().
		Func("upper", stringFunc(func(s string) any { return strings.ToUpper(s) })).
		Func("lower", stringFunc(func(s string) any { return strings.ToLower(s) })).
		Func("title", stringFunc(func(s string) any { return title.String(s) })).
		Func("trim", stringFunc(func(s string) any { return strings.TrimSpace(s) })).
		Func("words", stringFunc(func(s string) any {
			fields := strings.Fields(s)
			out := make([]any, len(fields))
			for i, f := range fields {
				out[i] = f
			}
			return out
		})).
		Accessor("runes", func(w *value.Value) (any, error) {
			return utf8.RuneCountInString(value.ToString(w.ValueOf())), nil
		}).
		Adapt("contains", strings.Contains).
		Adapt("hasPrefix", strings.HasPrefix).
		Adapt("hasSuffix", strings.HasSuffix).
		Adapt("repeat", strings.Repeat).
		Adapt("index", strings.Index)
}
