package value

// GetterFunc is a library predicate over the raw value.
type GetterFunc func(v any) any

// Eq reports whether v loosely equals a.
func Eq(v, a any) bool { return LooseEqual(v, a) }

// Is matches v against a. When a is a *Constant the match follows its kind:
//   - class: v is an instance of the class
//   - predicate: the predicate result is truthy
//   - pattern: the regexp matches v's string form
//   - literal: strict identity
//
// Any other a is compared with v by strict identity.
func Is(v, a any) bool {
	if c, ok := a.(*Constant); ok && c != nil {
		return c.Match(v)
	}
	return StrictEqual(v, a)
}

// Range reports whether a <= v <= b.
func Range(v, a, b any) bool {
	lo, ok := compareValues(v, a)
	if !ok || lo < 0 {
		return false
	}
	hi, ok := compareValues(v, b)
	return ok && hi <= 0
}

// Between reports whether a < v < b.
func Between(v, a, b any) bool {
	lo, ok := compareValues(v, a)
	if !ok || lo <= 0 {
		return false
	}
	hi, ok := compareValues(v, b)
	return ok && hi < 0
}

// arg returns args[i], or Undefined when the caller passed fewer arguments.
func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}

func pathArg(member string, args []any) (string, error) {
	chain, ok := arg(args, 0).(string)
	if !ok {
		return "", newError(ErrCodeBadArgument, member, "path must be a string, got %s", TypeOf(arg(args, 0)))
	}
	return chain, nil
}

var libraryFunctions = map[string]MethodFunc{
	"eq": func(v any, args ...any) (any, error) {
		return Eq(v, arg(args, 0)), nil
	},
	"is": func(v any, args ...any) (any, error) {
		return Is(v, arg(args, 0)), nil
	},
	"range": func(v any, args ...any) (any, error) {
		return Range(v, arg(args, 0), arg(args, 1)), nil
	},
	"between": func(v any, args ...any) (any, error) {
		return Between(v, arg(args, 0), arg(args, 1)), nil
	},
	"get": func(v any, args ...any) (any, error) {
		chain, err := pathArg("get", args)
		if err != nil {
			return nil, err
		}
		return Get(v, chain), nil
	},
	"set": func(v any, args ...any) (any, error) {
		chain, err := pathArg("set", args)
		if err != nil {
			return nil, err
		}
		return Set(v, chain, arg(args, 1))
	},
}

var libraryGetters = map[string]GetterFunc{
	"True":     func(v any) any { return Truthy(v) },
	"False":    func(v any) any { return !Truthy(v) },
	"String":   func(v any) any { _, ok := stringOf(v); return ok },
	"Decimal":  func(v any) any { return IsDecimal(v) },
	"Number":   func(v any) any { return isNumber(v) },
	"Array":    func(v any) any { return IsArray(v) },
	"Object":   func(v any) any { return IsObject(v) },
	"Type":     func(v any) any { return TypeOf(v) },
	"NType":    func(v any) any { return NativeType(v) },
	"Null":     func(v any) any { return v == nil },
	"Void":     func(v any) any { return v == Undefined },
	"None":     func(v any) any { return IsNullish(v) },
	"Empty":    func(v any) any { return IsEmpty(v) },
	"Class":    func(v any) any { return IsClass(v) },
	"ES5Class": func(v any) any { return IsLegacyClass(v) },
}

// Derived matchers, available on every type through Type.Matcher.
var (
	ARRAY     = Predicate(IsArray)
	DECIMAL   = Predicate(IsDecimal)
	CLASS     = Predicate(IsClass)
	CLASS_ES5 = Predicate(IsLegacyClass)
)

var libraryMatchers = map[string]*Constant{
	"ARRAY":     ARRAY,
	"DECIMAL":   DECIMAL,
	"CLASS":     CLASS,
	"CLASS_ES5": CLASS_ES5,
}
