// Package value implements the wrapped-value type: a holder for one raw Go
// value that exposes a fixed predicate library as instance members and as
// type-level (static) functions, plus an extension engine that merges new
// members into a type's shared member table.
//
// # Raw values
//
// The wrapped value is any Go value. The library follows these conventions:
//   - nil is null; Undefined is absence-of-value
//   - every Go numeric kind is a number, compared numerically across kinds
//   - map[string]any is the plain key/value container, []any the sequence
//   - a reflect.Type is a class, a *regexp.Regexp a regular expression
//
// # Member tables
//
// Every *Type owns a member table shared by reference with all *Value
// instances it creates. A member is one of:
//
//   - MemberMethod: func(raw, args...) exposed as w.Call(name, args...)
//   - MemberComputedCached: zero-argument property memoized per instance
//   - MemberComputedLive: zero-argument property recomputed on every read
//   - MemberConstant: a plain value copied verbatim
//
// # Extension
//
// Base is the process-wide top-level type. Addon on Base never mutates it:
// it derives a new type whose table starts as a copy of Base's. Addon on any
// derived type mutates that type in place and returns it, so chains work:
//
//	t := value.Base.
//		MustAddon(strs, value.Keys("upper", "lower")).
//		MustAddon(types, value.Rename(map[string]string{"isMap": "Map"}), value.AsGetter())
//
// Types and values are not safe for concurrent use.
package value
