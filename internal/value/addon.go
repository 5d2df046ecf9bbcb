package value

import (
	"log/slog"
	"maps"
	"slices"
)

// reservedMembers cannot be installed by an extension.
var reservedMembers = map[string]bool{
	"valueOf": true,
}

type addonConfig struct {
	keys      []string
	rename    map[string]string
	hasKeys   bool
	hasRename bool
	getter    bool
	noCache   bool
}

// AddonOption configures Addon, Derive and ExtendInPlace.
type AddonOption func(*addonConfig)

// Keys restricts the merge to the named properties.
func Keys(names ...string) AddonOption {
	return func(c *addonConfig) {
		c.keys = names
		c.hasKeys = true
	}
}

// Rename merges only the mapped properties, each installed under its new
// name.
func Rename(mapping map[string]string) AddonOption {
	return func(c *addonConfig) {
		c.rename = mapping
		c.hasRename = true
	}
}

// AsGetter installs function properties as computed members evaluated
// with the raw value as their only argument.
func AsGetter() AddonOption {
	return func(c *addonConfig) { c.getter = true }
}

// NoCache makes computed members recompute on every read.
func NoCache() AddonOption {
	return func(c *addonConfig) { c.noCache = true }
}

// OptionsFromArgs reads loosely positioned addon options: a []string (or
// []any of strings) selects keys, a map[string]string (or map[string]any of
// strings) renames, the string "getter" sets AsGetter, and nil is skipped.
// A bool anywhere sets the disable-cache flag and ends the scan, so values
// after it are ignored.
func OptionsFromArgs(args ...any) ([]AddonOption, error) {
	var opts []AddonOption
	for i, a := range args {
		switch x := a.(type) {
		case nil:
		case bool:
			if x {
				opts = append(opts, NoCache())
			}
			return opts, nil
		case string:
			if x != "getter" {
				return nil, newError(ErrCodeInvalidOption, "", "argument %d: unknown type tag %q", i, x)
			}
			opts = append(opts, AsGetter())
		case []string:
			opts = append(opts, Keys(x...))
		case []any:
			keys := make([]string, len(x))
			for j, k := range x {
				s, ok := k.(string)
				if !ok {
					return nil, newError(ErrCodeInvalidOption, "", "argument %d: key %d is %s, not a string", i, j, TypeOf(k))
				}
				keys[j] = s
			}
			opts = append(opts, Keys(keys...))
		case map[string]string:
			opts = append(opts, Rename(x))
		case map[string]any:
			mapping := make(map[string]string, len(x))
			for from, to := range x {
				s, ok := to.(string)
				if !ok {
					return nil, newError(ErrCodeInvalidOption, from, "argument %d: new name is %s, not a string", i, TypeOf(to))
				}
				mapping[from] = s
			}
			opts = append(opts, Rename(mapping))
		default:
			return nil, newError(ErrCodeInvalidOption, "", "argument %d: unsupported option %T", i, a)
		}
	}
	return opts, nil
}

// Addon merges ext into the receiver's members. On Base it derives a new
// type and leaves Base untouched; on any other type it extends the
// receiver in place and returns it. Extending in place is visible to
// existing instances.
func (t *Type) Addon(ext *Extension, opts ...AddonOption) (*Type, error) {
	if t.base {
		return Derive(t, ext, opts...)
	}
	return ExtendInPlace(t, ext, opts...)
}

// MustAddon is like Addon but panics on error.
func (t *Type) MustAddon(ext *Extension, opts ...AddonOption) *Type {
	out, err := t.Addon(ext, opts...)
	if err != nil {
		panic(err)
	}
	return out
}

// Derive returns a new type whose members are a copy of base's, extended
// with ext. base is never modified. A nil ext yields a plain copy. Types
// derived from Base are seeded from the predicate library itself.
func Derive(base *Type, ext *Extension, opts ...AddonOption) (*Type, error) {
	members := libraryMembers()
	if !base.base {
		members = maps.Clone(base.members)
	}
	nt := &Type{
		id:       newTypeID(),
		members:  members,
		matchers: maps.Clone(base.matchers),
	}
	slog.Debug("wrapper type derived", "base", base.id, "type", nt.id)
	if _, err := ExtendInPlace(nt, ext, opts...); err != nil {
		return nil, err
	}
	return nt, nil
}

// ExtendInPlace installs the selected properties of ext as members of t,
// overwriting existing names. Property to member mapping:
//   - accessor: computed member
//   - func: method, or computed member with AsGetter
//   - plain: constant member
//
// Computed members are cached per instance unless NoCache is given. A
// selected name missing from ext installs an Undefined constant. The first
// invalid target name aborts the merge; members installed before it stay.
// Base cannot be extended in place; use Derive or Base.Addon.
func ExtendInPlace(t *Type, ext *Extension, opts ...AddonOption) (*Type, error) {
	if t.base {
		return nil, newError(ErrCodeInvalidOption, "", "the base type cannot be extended in place")
	}
	if ext == nil {
		return t, nil
	}
	cfg := &addonConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.hasKeys && cfg.hasRename {
		return nil, newError(ErrCodeInvalidOption, "", "keys and rename are mutually exclusive")
	}
	if err := ext.Err(); err != nil {
		return nil, err
	}

	for _, sel := range cfg.selection(ext) {
		m, err := cfg.member(sel)
		if err != nil {
			return nil, err
		}
		t.members[m.name] = m
		slog.Debug("member installed", "type", t.id, "member", m.name, "kind", m.kind)
	}
	return t, nil
}

type selected struct {
	source string
	target string
	prop   *Property
}

func (c *addonConfig) selection(ext *Extension) []selected {
	var out []selected
	switch {
	case c.hasKeys:
		for _, name := range c.keys {
			p, _ := ext.Lookup(name)
			out = append(out, selected{source: name, target: name, prop: p})
		}
	case c.hasRename:
		for _, from := range slices.Sorted(maps.Keys(c.rename)) {
			p, _ := ext.Lookup(from)
			out = append(out, selected{source: from, target: c.rename[from], prop: p})
		}
	default:
		for _, p := range ext.props {
			out = append(out, selected{source: p.name, target: p.name, prop: p})
		}
	}
	return out
}

func (c *addonConfig) member(sel selected) (*Member, error) {
	if sel.target == "" {
		return nil, newError(ErrCodeInvalidName, sel.source, "member name must not be empty")
	}
	if reservedMembers[sel.target] {
		return nil, newError(ErrCodeReservedName, sel.target, "member name is reserved")
	}

	computed := MemberComputedCached
	if c.noCache {
		computed = MemberComputedLive
	}

	p := sel.prop
	if p == nil {
		slog.Warn("extension has no such property, installing undefined", "property", sel.source, "member", sel.target)
		return constantMember(sel.target, Undefined), nil
	}
	switch p.kind {
	case PropertyAccessor:
		return computedMember(sel.target, computed, p.accessor), nil
	case PropertyFunc:
		if c.getter {
			fn := p.fn
			return computedMember(sel.target, computed, func(w *Value) (any, error) {
				return fn(w.raw)
			}), nil
		}
		return methodMember(sel.target, p.fn), nil
	}
	return constantMember(sel.target, p.value), nil
}
