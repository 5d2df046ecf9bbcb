// Package harness runs check scenarios: YAML files that build a wrapper
// type and evaluate its members against raw values.
//
// # Scenario Format
//
//	name: strings
//	description: "string helpers installed from a manifest"
//	manifest: ../manifests/text.yaml   # optional, relative to this file
//	addons:                            # optional, applied after the manifest
//	  - extension: collections
//	    keys: [pick]
//	cases:
//	  - name: upper
//	    value: " hi "
//	    member: upper
//	    expect: " HI "
//	  - name: static-range
//	    static: true
//	    value: 5
//	    member: range
//	    args: [1, 10]
//	    expect: true
//	  - name: unknown
//	    value: 1
//	    member: nope
//	    expect_error: UNKNOWN_MEMBER
//	assertions:
//	  - type: members_include
//	    members: [upper, pick]
//
// Instance cases call methods and read other members as properties; call:
// true forces a call. pattern and matcher append a matcher argument.
// Outputs are compared with expect by canonical JSON.
//
// # Assertion Types
//
//   - members_include: the type has every listed member
//   - members_exclude: the type has none of the listed members
//   - member_kind: a member has the given kind (method, constant,
//     computed(cached), computed(live))
//   - trace_count: a member was evaluated exactly count times
//
// # Determinism
//
// Cases are numbered by testutil.DeterministicClock and addressed by
// canon.EvaluationID, so a scenario run with a fixed run ID produces the
// same trace, the same IDs and the same golden snapshot every time. Each
// run is recorded in a store; Run uses a fresh in-memory one.
package harness
