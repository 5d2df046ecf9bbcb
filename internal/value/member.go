package value

// MemberKind is the tagged variant of an installed member.
type MemberKind int

const (
	// MemberMethod is invoked with the raw value prepended to the caller's
	// arguments.
	MemberMethod MemberKind = iota

	// MemberComputedCached is a zero-argument property whose first
	// successful result is kept per instance.
	MemberComputedCached

	// MemberComputedLive is a zero-argument property recomputed on every read.
	MemberComputedLive

	// MemberConstant is a plain value, independent of the raw value.
	MemberConstant
)

func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberComputedCached:
		return "computed(cached)"
	case MemberComputedLive:
		return "computed(live)"
	case MemberConstant:
		return "constant"
	}
	return "unknown"
}

// MethodFunc receives the raw value followed by the caller's arguments.
type MethodFunc func(v any, args ...any) (any, error)

// AccessorFunc computes a property from the instance.
type AccessorFunc func(w *Value) (any, error)

// BoundMethod is a method with the raw value already applied, as returned
// by Value.Prop for method members.
type BoundMethod func(args ...any) (any, error)

// Member is one entry of a member table. Members are immutable once
// installed; replacing a name installs a new *Member.
type Member struct {
	name     string
	kind     MemberKind
	method   MethodFunc
	getter   AccessorFunc
	constant any
}

// Name returns the name the member is installed under.
func (m *Member) Name() string { return m.name }

// Kind returns the member's variant.
func (m *Member) Kind() MemberKind { return m.kind }

// Computed reports whether the member is a zero-argument property.
func (m *Member) Computed() bool {
	return m.kind == MemberComputedCached || m.kind == MemberComputedLive
}

func methodMember(name string, fn MethodFunc) *Member {
	return &Member{name: name, kind: MemberMethod, method: fn}
}

func computedMember(name string, kind MemberKind, fn AccessorFunc) *Member {
	return &Member{name: name, kind: kind, getter: fn}
}

func constantMember(name string, v any) *Member {
	return &Member{name: name, kind: MemberConstant, constant: v}
}
