package catalog

import (
	"math"

	"github.com/roach88/thevalue/internal/value"
)

func numberFunc(fn func(f float64) any) value.MethodFunc {
	return func(v any, _ ...any) (any, error) {
		return fn(value.ToNumber(v)), nil
	}
}

// Math returns the numeric extension. The raw value is coerced with
// value.ToNumber.
func Math() *value.Extension {
	return value.NewExtension().
		Func("abs", numberFunc(func(f float64) any { return math.Abs(f) })).
		Func("floor", numberFunc(func(f float64) any { return math.Floor(f) })).
		Func("ceil", numberFunc(func(f float64) any { return math.Ceil(f) })).
		Func("round", numberFunc(func(f float64) any { return math.Round(f) })).
		Func("sqrt", numberFunc(func(f float64) any { return math.Sqrt(f) })).
		Func("isInteger", numberFunc(func(f float64) any {
			return !math.IsInf(f, 0) && f == math.Trunc(f)
		})).
		Func("isFinite", numberFunc(func(f float64) any {
			return !math.IsInf(f, 0) && !math.IsNaN(f)
		})).
		Func("pow", func(v any, args ...any) (any, error) {
			var exp any = value.Undefined
			if len(args) > 0 {
				exp = args[0]
			}
			return math.Pow(value.ToNumber(v), value.ToNumber(exp)), nil
		}).
		Adapt("max", func(v float64, rest ...float64) float64 {
			for _, r := range rest {
				v = math.Max(v, r)
			}
			return v
		}).
		Adapt("min", func(v float64, rest ...float64) float64 {
			for _, r := range rest {
				v = math.Min(v, r)
			}
			return v
		}).
		Plain("pi", math.Pi).
		Plain("e", math.E)
}
