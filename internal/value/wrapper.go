package value

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Type is a wrapper type: a member table plus the derived matchers. Every
// instance created by New or Of resolves members through its type's table,
// so members added later with ExtendInPlace are visible to existing
// instances.
type Type struct {
	id       string
	base     bool
	members  map[string]*Member
	matchers map[string]*Constant
}

// Base is the top-level wrapper type. Addon on Base derives a new type and
// leaves Base untouched.
var Base = newBase()

func newBase() *Type {
	t := Create()
	t.base = true
	return t
}

// Create returns a fresh, independent type seeded with the predicate
// library.
func Create() *Type {
	t := &Type{
		id:       newTypeID(),
		members:  libraryMembers(),
		matchers: maps.Clone(libraryMatchers),
	}
	slog.Debug("wrapper type created", "type", t.id, "members", len(t.members))
	return t
}

// libraryMembers builds a fresh member table holding the predicate library.
func libraryMembers() map[string]*Member {
	members := make(map[string]*Member, len(libraryFunctions)+len(libraryGetters))
	for name, fn := range libraryFunctions {
		members[name] = methodMember(name, fn)
	}
	for name, fn := range libraryGetters {
		members[name] = computedMember(name, MemberComputedCached, func(w *Value) (any, error) {
			return fn(w.raw), nil
		})
	}
	return members
}

// newTypeID returns a time-ordered UUIDv7 identifier.
func newTypeID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ID returns the type's identifier.
func (t *Type) ID() string { return t.id }

// IsBase reports whether t is the top-level type.
func (t *Type) IsBase() bool { return t.base }

// New wraps the first argument, or Undefined when called without one.
func (t *Type) New(args ...any) *Value {
	return t.Of(arg(args, 0))
}

// Of wraps v.
func (t *Type) Of(v any) *Value {
	return &Value{typ: t, raw: v}
}

// Constant builds a matcher for use with Is.
func (t *Type) Constant(p any) *Constant {
	return NewConstant(p)
}

// Matcher returns a derived matcher by name (ARRAY, DECIMAL, CLASS,
// CLASS_ES5).
func (t *Type) Matcher(name string) (*Constant, bool) {
	c, ok := t.matchers[name]
	return c, ok
}

// Member returns the installed member by name.
func (t *Type) Member(name string) (*Member, bool) {
	m, ok := t.members[name]
	return m, ok
}

// Members returns the installed member names in sorted order.
func (t *Type) Members() []string {
	return slices.Sorted(maps.Keys(t.members))
}

// Matchers returns the names of the type-level matchers, sorted.
func (t *Type) Matchers() []string {
	return slices.Sorted(maps.Keys(t.matchers))
}

// Invoke is the static form of a member: the first argument is the raw
// value. Methods receive the remaining arguments, computed members are
// evaluated on a throwaway instance without caching, and constants are
// returned as-is. Matcher names resolve to their *Constant.
func (t *Type) Invoke(name string, args ...any) (any, error) {
	m, ok := t.members[name]
	if !ok {
		if c, ok := t.matchers[name]; ok {
			return c, nil
		}
		return nil, newError(ErrCodeUnknownMember, name, "no such member")
	}
	raw := arg(args, 0)
	switch m.kind {
	case MemberMethod:
		var rest []any
		if len(args) > 1 {
			rest = args[1:]
		}
		return m.method(raw, rest...)
	case MemberComputedCached, MemberComputedLive:
		return m.getter(t.Of(raw))
	}
	return m.constant, nil
}

// Value is an instance of a wrapper type around a raw value. Not safe for
// concurrent use.
type Value struct {
	typ   *Type
	raw   any
	cache map[*Member]any
}

// ValueOf returns the wrapped raw value.
func (w *Value) ValueOf() any { return w.raw }

// Type returns the instance's wrapper type.
func (w *Value) Type() *Type { return w.typ }

func (w *Value) String() string { return ToString(w.raw) }

// Has reports whether the instance's type has a member with the given name.
func (w *Value) Has(name string) bool {
	_, ok := w.typ.members[name]
	return ok
}

// Call invokes a method member with the raw value prepended to args.
// Calling a computed member fails with ErrCodeNotCallable; a constant is
// callable only when it holds a BoundMethod.
func (w *Value) Call(name string, args ...any) (any, error) {
	m, ok := w.typ.members[name]
	if !ok {
		return nil, newError(ErrCodeUnknownMember, name, "no such member")
	}
	switch m.kind {
	case MemberMethod:
		return m.method(w.raw, args...)
	case MemberConstant:
		switch fn := m.constant.(type) {
		case BoundMethod:
			return fn(args...)
		case func(...any) (any, error):
			return fn(args...)
		}
		return nil, newError(ErrCodeNotCallable, name, "constant %s is not a function", TypeOf(m.constant))
	}
	return nil, newError(ErrCodeNotCallable, name, "computed member is read as a property")
}

// Prop reads a member as a property. Computed members are evaluated (the
// cached variant at most once per instance on success); methods come back
// as a BoundMethod with the raw value applied.
func (w *Value) Prop(name string) (any, error) {
	m, ok := w.typ.members[name]
	if !ok {
		return nil, newError(ErrCodeUnknownMember, name, "no such member")
	}
	switch m.kind {
	case MemberMethod:
		raw := w.raw
		return BoundMethod(func(args ...any) (any, error) {
			return m.method(raw, args...)
		}), nil
	case MemberComputedCached:
		return w.memo(m)
	case MemberComputedLive:
		return m.getter(w)
	}
	return m.constant, nil
}

// memo evaluates a cached computed member. Errors are not cached.
func (w *Value) memo(m *Member) (any, error) {
	if out, ok := w.cache[m]; ok {
		return out, nil
	}
	out, err := m.getter(w)
	if err != nil {
		return nil, err
	}
	if w.cache == nil {
		w.cache = make(map[*Member]any)
	}
	w.cache[m] = out
	return out, nil
}

// MustCall is like Call but panics on error.
func (w *Value) MustCall(name string, args ...any) any {
	out, err := w.Call(name, args...)
	if err != nil {
		panic(err)
	}
	return out
}

// MustProp is like Prop but panics on error.
func (w *Value) MustProp(name string) any {
	out, err := w.Prop(name)
	if err != nil {
		panic(err)
	}
	return out
}
