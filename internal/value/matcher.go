package value

import (
	"reflect"
	"regexp"
)

// MatchKind identifies how a Constant matches in Is.
type MatchKind int

const (
	// MatchLiteral matches by strict identity with the payload.
	MatchLiteral MatchKind = iota

	// MatchPredicate matches when the predicate returns a truthy result.
	MatchPredicate

	// MatchClass matches instances of a reflect.Type.
	MatchClass

	// MatchPattern matches when the regexp matches the value's string form.
	MatchPattern
)

func (k MatchKind) String() string {
	switch k {
	case MatchPredicate:
		return "predicate"
	case MatchClass:
		return "class"
	case MatchPattern:
		return "pattern"
	}
	return "literal"
}

// Constant is a matcher: a pattern value to be used as the second argument
// of Is. Its kind is fixed at construction and it is immutable afterwards.
type Constant struct {
	kind    MatchKind
	payload any
	pred    func(any) bool
	class   reflect.Type
	pattern *regexp.Regexp
}

// NewConstant wraps p, choosing the match kind from p's Go type:
//   - *regexp.Regexp: MatchPattern
//   - reflect.Type: MatchClass
//   - func(any) bool, func(any) any, or any func with one input and one
//     output: MatchPredicate
//   - anything else (including another *Constant): MatchLiteral
func NewConstant(p any) *Constant {
	switch x := p.(type) {
	case *regexp.Regexp:
		if x != nil {
			return Pattern(x)
		}
	case reflect.Type:
		return ClassOf(x)
	case func(any) bool:
		if x != nil {
			return Predicate(x)
		}
	case func(any) any:
		if x != nil {
			return &Constant{kind: MatchPredicate, payload: p, pred: func(v any) bool { return Truthy(x(v)) }}
		}
	}
	if pred, ok := adaptPredicate(p); ok {
		return &Constant{kind: MatchPredicate, payload: p, pred: pred}
	}
	return Literal(p)
}

// Literal returns a matcher comparing by strict identity with v.
func Literal(v any) *Constant {
	return &Constant{kind: MatchLiteral, payload: v}
}

// Predicate returns a matcher delegating to fn. A nil fn gives a literal
// matcher for nil.
func Predicate(fn func(any) bool) *Constant {
	if fn == nil {
		return Literal(nil)
	}
	return &Constant{kind: MatchPredicate, payload: fn, pred: fn}
}

// ClassOf returns a matcher for instances of t. A value matches when its
// dynamic type is t or a pointer to t, or, when t is an interface type,
// when its dynamic type implements t.
func ClassOf(t reflect.Type) *Constant {
	return &Constant{kind: MatchClass, payload: t, class: t}
}

// Pattern returns a matcher testing re against the value's string form.
// A nil re gives a literal matcher for nil.
func Pattern(re *regexp.Regexp) *Constant {
	if re == nil {
		return Literal(nil)
	}
	return &Constant{kind: MatchPattern, payload: re, pattern: re}
}

// Kind returns the match kind.
func (c *Constant) Kind() MatchKind { return c.kind }

// Value returns the wrapped pattern value.
func (c *Constant) Value() any { return c.payload }

func (c *Constant) String() string {
	return "Constant(" + c.kind.String() + ": " + ToString(c.payload) + ")"
}

// Match reports whether v matches the pattern.
func (c *Constant) Match(v any) bool {
	switch c.kind {
	case MatchPredicate:
		return c.pred(v)
	case MatchClass:
		return instanceOf(v, c.class)
	case MatchPattern:
		return c.pattern.MatchString(ToString(v))
	}
	return StrictEqual(c.payload, v)
}

func instanceOf(v any, class reflect.Type) bool {
	if v == nil || class == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t == class {
		return true
	}
	if class.Kind() == reflect.Interface {
		return t.Implements(class)
	}
	return t.Kind() == reflect.Pointer && t.Elem() == class
}

// adaptPredicate turns an arbitrary one-in one-out Go func into a
// predicate. Values not assignable to the parameter never match, and
// neither do nil or Undefined unless the parameter can hold them.
func adaptPredicate(p any) (func(any) bool, bool) {
	if p == nil {
		return nil, false
	}
	fv := reflect.ValueOf(p)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, false
	}
	ft := fv.Type()
	if ft.NumIn() != 1 || ft.NumOut() != 1 || ft.IsVariadic() {
		return nil, false
	}
	in := ft.In(0)
	return func(v any) bool {
		if !holdsNullish(v, in) {
			return false
		}
		arg, err := convertArg(v, in)
		if err != nil {
			return false
		}
		return Truthy(fv.Call([]reflect.Value{arg})[0].Interface())
	}, true
}

// holdsNullish reports whether v can be passed as a parameter of type t
// without losing its nullishness. Non-nullish values always pass.
func holdsNullish(v any, t reflect.Type) bool {
	switch {
	case v == nil:
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	case v == Undefined:
		return reflect.TypeOf(v).AssignableTo(t)
	}
	return true
}
