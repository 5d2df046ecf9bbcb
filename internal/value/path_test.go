package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X     int
	Label string
	inner int
}

func TestGetShortCircuitsOnAbsentIntermediate(t *testing.T) {
	present := map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}}
	missing := map[string]any{"a": map[string]any{}}
	null := map[string]any{"a": nil}

	assert.Equal(t, 1, Get(present, "a.b.c"))
	assert.Equal(t, Undefined, Get(missing, "a.b.c"))
	assert.Equal(t, Undefined, Get(null, "a.b.c"))
	assert.Equal(t, Undefined, Get(nil, "a"))
	assert.Equal(t, Undefined, Get(Undefined, "a"))
}

func TestGetReadsStructsAndSequences(t *testing.T) {
	v := map[string]any{
		"p":     point{X: 3, inner: 9},
		"ptr":   &point{Label: "here"},
		"items": []string{"x", "y"},
		"word":  "hello",
	}
	assert.Equal(t, 3, Get(v, "p.X"))
	assert.Equal(t, Undefined, Get(v, "p.inner"), "unexported fields are not properties")
	assert.Equal(t, "here", Get(v, "ptr.Label"))
	assert.Equal(t, "y", Get(v, "items.1"))
	assert.Equal(t, 2, Get(v, "items.length"))
	assert.Equal(t, Undefined, Get(v, "items.5"))
	assert.Equal(t, "e", Get(v, "word.1"))
	assert.Equal(t, 5, Get(v, "word.length"))
}

func TestSetCreatesContainers(t *testing.T) {
	out, err := Set(nil, "a.b.c", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}}, out)

	out, err = Set(nil, "a.1.c", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{Undefined, map[string]any{"c": 1}}}, out)

	out, err = Set(Undefined, "0", "first")
	require.NoError(t, err)
	assert.Equal(t, []any{"first"}, out)
}

func TestSetMutatesExistingRoot(t *testing.T) {
	root := map[string]any{"a": map[string]any{"b": 1}}
	out, err := Set(root, "a.c", 2)
	require.NoError(t, err)

	assert.True(t, StrictEqual(root, out), "existing root is returned")
	assert.Equal(t, map[string]any{"b": 1, "c": 2}, root["a"])
}

func TestSetReplacesFalsyIntermediate(t *testing.T) {
	root := map[string]any{"a": 0, "s": ""}
	_, err := Set(root, "a.b", 1)
	require.NoError(t, err)
	_, err = Set(root, "s.0", true)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"b": 1}, root["a"])
	assert.Equal(t, []any{true}, root["s"])
}

func TestSetOverwritesTerminal(t *testing.T) {
	root := map[string]any{"a": 5}
	_, err := Set(root, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, root["a"])
}

func TestSetTypedContainers(t *testing.T) {
	counts := map[string]int{}
	_, err := Set(counts, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["a"])

	_, err = Set(counts, "b", "x")
	require.Error(t, err)
	assert.Equal(t, ErrCodeBadPath, Code(err))

	p := &point{}
	_, err = Set(p, "X", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, p.X)

	_, err = Set(p, "inner", 1)
	require.Error(t, err)
	assert.Equal(t, ErrCodeBadPath, Code(err))
}

func TestSetRejectsScalarContainer(t *testing.T) {
	_, err := Set(5, "a", 1)
	require.Error(t, err)
	assert.Equal(t, ErrCodeBadPath, Code(err))

	_, err = Set([]any{}, "name", 1)
	require.Error(t, err)
	assert.Equal(t, ErrCodeBadPath, Code(err))
}

type label string

func TestGetIndexesStringsByRune(t *testing.T) {
	assert.Equal(t, "é", Get("héllo", "1"))
	assert.Equal(t, "l", Get("héllo", "2"))
	assert.Equal(t, 5, Get("héllo", "length"))
	assert.Equal(t, Undefined, Get("héllo", "5"))
	assert.Equal(t, "é", Get(label("héllo"), "1"))
	assert.Equal(t, 5, Get(label("héllo"), "length"))
}

func TestSetCreatesMapsForNonIndexSegments(t *testing.T) {
	out, err := Set(nil, "a.-1", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"-1": 1}}, out)

	out, err = Set(nil, "a.NaN.b", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"NaN": map[string]any{"b": 1}}}, out)

	out, err = Set(nil, "a.1.5", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{
		Undefined,
		[]any{Undefined, Undefined, Undefined, Undefined, Undefined, 1},
	}}, out)
}
