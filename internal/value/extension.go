package value

import (
	"fmt"
	"reflect"
	"slices"
)

// PropertyKind is the shape of an extension property.
type PropertyKind int

const (
	// PropertyAccessor has a getter and becomes a computed member.
	PropertyAccessor PropertyKind = iota

	// PropertyFunc becomes a method, or a computed member with AsGetter.
	PropertyFunc

	// PropertyPlain becomes a constant member.
	PropertyPlain
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyAccessor:
		return "accessor"
	case PropertyFunc:
		return "func"
	}
	return "plain"
}

// Property is one named entry of an extension.
type Property struct {
	name     string
	kind     PropertyKind
	accessor AccessorFunc
	fn       MethodFunc
	value    any
}

func (p *Property) Name() string       { return p.name }
func (p *Property) Kind() PropertyKind { return p.kind }

// Extension is an ordered set of named properties to merge into a type with
// Addon. Builder methods record the first error, reported by Err and by
// Addon.
type Extension struct {
	props []*Property
	index map[string]int
	err   error
}

// NewExtension returns an empty extension.
func NewExtension() *Extension {
	return &Extension{index: make(map[string]int)}
}

// FromMap builds an extension from a name to property map, in sorted name
// order. AccessorFunc and func(*Value) (any, error) entries become
// accessors, MethodFunc-shaped entries become funcs, other Go funcs are
// adapted with Adapt, and everything else is plain.
func FromMap(m map[string]any) *Extension {
	e := NewExtension()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		switch x := m[name].(type) {
		case AccessorFunc:
			e.Accessor(name, x)
		case func(*Value) (any, error):
			e.Accessor(name, x)
		case MethodFunc:
			e.Func(name, x)
		case func(any, ...any) (any, error):
			e.Func(name, x)
		default:
			if x != nil && reflect.ValueOf(x).Kind() == reflect.Func {
				e.Adapt(name, x)
			} else {
				e.Plain(name, x)
			}
		}
	}
	return e
}

func (e *Extension) define(p *Property) *Extension {
	if e.err != nil {
		return e
	}
	if p.name == "" {
		e.err = newError(ErrCodeInvalidName, "", "extension property name must not be empty")
		return e
	}
	if i, ok := e.index[p.name]; ok {
		e.props[i] = p
		return e
	}
	e.index[p.name] = len(e.props)
	e.props = append(e.props, p)
	return e
}

// Accessor adds a property with a getter.
func (e *Extension) Accessor(name string, fn AccessorFunc) *Extension {
	if fn == nil {
		return e.fail(name, "accessor is nil")
	}
	return e.define(&Property{name: name, kind: PropertyAccessor, accessor: fn})
}

// Func adds a function property.
func (e *Extension) Func(name string, fn MethodFunc) *Extension {
	if fn == nil {
		return e.fail(name, "function is nil")
	}
	return e.define(&Property{name: name, kind: PropertyFunc, fn: fn})
}

// Adapt adds an arbitrary Go function as a function property. The raw
// value is passed as the first parameter; see the package-level Adapt.
func (e *Extension) Adapt(name string, fn any) *Extension {
	m, err := Adapt(fn)
	if err != nil {
		return e.fail(name, err.Error())
	}
	return e.Func(name, m)
}

// Plain adds a non-function property.
func (e *Extension) Plain(name string, v any) *Extension {
	return e.define(&Property{name: name, kind: PropertyPlain, value: v})
}

func (e *Extension) fail(name, msg string) *Extension {
	if e.err == nil {
		e.err = newError(ErrCodeInvalidExtension, name, "%s", msg)
	}
	return e
}

// Lookup returns the property with the given name.
func (e *Extension) Lookup(name string) (*Property, bool) {
	i, ok := e.index[name]
	if !ok {
		return nil, false
	}
	return e.props[i], true
}

// Names returns the property names in definition order.
func (e *Extension) Names() []string {
	names := make([]string, len(e.props))
	for i, p := range e.props {
		names[i] = p.name
	}
	return names
}

// Len returns the number of properties.
func (e *Extension) Len() int { return len(e.props) }

// Err returns the first error recorded by a builder method.
func (e *Extension) Err() error { return e.err }

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Adapt converts a Go function into a MethodFunc. The raw value is passed
// as the first parameter and call arguments fill the rest; missing
// arguments become zero values. Numeric arguments convert between numeric
// kinds. Supported results are none, (R), (error) and (R, error).
func Adapt(fn any) (MethodFunc, error) {
	switch m := fn.(type) {
	case MethodFunc:
		return m, nil
	case func(any, ...any) (any, error):
		return m, nil
	}
	if fn == nil {
		return nil, newError(ErrCodeInvalidExtension, "", "function is nil")
	}
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, newError(ErrCodeInvalidExtension, "", "%T is not a function", fn)
	}
	ft := fv.Type()
	if ft.NumIn() == 0 || (ft.NumIn() == 1 && ft.IsVariadic()) {
		return nil, newError(ErrCodeInvalidExtension, "", "%s must take the value as its first parameter", ft)
	}
	nout := ft.NumOut()
	withErr := nout > 0 && ft.Out(nout-1) == errorType
	if nout > 2 || (nout == 2 && !withErr) {
		return nil, newError(ErrCodeInvalidExtension, "", "%s has unsupported results", ft)
	}

	name := funcName(fn)
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	return func(v any, args ...any) (any, error) {
		all := append([]any{v}, args...)
		in := make([]reflect.Value, 0, len(all))
		for i := 0; i < fixed; i++ {
			a, err := convertArg(arg(all, i), ft.In(i))
			if err != nil {
				return nil, newError(ErrCodeBadArgument, name, "argument %d: %v", i, err)
			}
			in = append(in, a)
		}
		if ft.IsVariadic() {
			elem := ft.In(fixed).Elem()
			for i := fixed; i < len(all); i++ {
				a, err := convertArg(all[i], elem)
				if err != nil {
					return nil, newError(ErrCodeBadArgument, name, "argument %d: %v", i, err)
				}
				in = append(in, a)
			}
		}

		out := fv.Call(in)
		switch {
		case nout == 0:
			return Undefined, nil
		case withErr:
			if err, _ := out[nout-1].Interface().(error); err != nil {
				return nil, err
			}
			if nout == 1 {
				return Undefined, nil
			}
		}
		return out[0].Interface(), nil
	}, nil
}

// convertArg converts x for a parameter of type t. nil and Undefined become
// the zero value, except that Undefined is passed through to interface
// parameters it satisfies.
func convertArg(x any, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(x)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if x == Undefined {
		return reflect.Zero(t), nil
	}
	if isNumber(x) && isNumericKind(t.Kind()) {
		return rv.Convert(t), nil
	}
	if rv.Kind() == reflect.String && t.Kind() == reflect.String {
		return rv.Convert(t), nil
	}
	if rv.Kind() == reflect.Slice && t.Kind() == reflect.Slice {
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := convertArg(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", TypeOf(x), t)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
