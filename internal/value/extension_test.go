package value

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptConvertsArguments(t *testing.T) {
	repeat, err := Adapt(strings.Repeat)
	require.NoError(t, err)

	out, err := repeat("ab", 2)
	require.NoError(t, err)
	assert.Equal(t, "abab", out)

	out, err = repeat("ab", 2.0)
	require.NoError(t, err)
	assert.Equal(t, "abab", out, "numeric kinds convert")

	out, err = repeat("ab")
	require.NoError(t, err)
	assert.Equal(t, "", out, "missing arguments are zero values")

	_, err = repeat("ab", "two")
	require.Error(t, err)
	assert.Equal(t, ErrCodeBadArgument, Code(err))
}

func TestAdaptVariadic(t *testing.T) {
	sum, err := Adapt(func(base int, rest ...int) int {
		for _, n := range rest {
			base += n
		}
		return base
	})
	require.NoError(t, err)

	out, err := sum(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, out)

	out, err = sum(1)
	require.NoError(t, err)
	assert.Equal(t, 1, out)
}

func TestAdaptResults(t *testing.T) {
	boom := errors.New("boom")

	onlyErr, err := Adapt(func(any) error { return boom })
	require.NoError(t, err)
	_, err = onlyErr(1)
	assert.ErrorIs(t, err, boom)

	pair, err := Adapt(func(v int) (int, error) {
		if v < 0 {
			return 0, boom
		}
		return v * 2, nil
	})
	require.NoError(t, err)
	out, err := pair(4)
	require.NoError(t, err)
	assert.Equal(t, 8, out)
	_, err = pair(-1)
	assert.ErrorIs(t, err, boom)

	none, err := Adapt(func(any) {})
	require.NoError(t, err)
	out, err = none(1)
	require.NoError(t, err)
	assert.Equal(t, Undefined, out)
}

func TestAdaptUndefinedReachesInterfaceParameters(t *testing.T) {
	fn, err := Adapt(func(v any) any { return v })
	require.NoError(t, err)
	out, err := fn(Undefined)
	require.NoError(t, err)
	assert.Equal(t, Undefined, out)

	n, err := Adapt(func(v int) int { return v + 1 })
	require.NoError(t, err)
	out, err = n(Undefined)
	require.NoError(t, err)
	assert.Equal(t, 1, out)
}

func TestAdaptRejectsUnsupportedShapes(t *testing.T) {
	shapes := []any{
		nil,
		5,
		func() {},
		func(...any) {},
		func(any) (int, int) { return 0, 0 },
		func(any) (int, int, error) { return 0, 0, nil },
	}
	for _, fn := range shapes {
		_, err := Adapt(fn)
		require.Error(t, err, "%T", fn)
		assert.Equal(t, ErrCodeInvalidExtension, Code(err))
	}
}

func TestExtensionKeepsDefinitionOrder(t *testing.T) {
	ext := NewExtension().
		Plain("b", 1).
		Func("a", func(v any, _ ...any) (any, error) { return v, nil }).
		Plain("b", 2)

	require.NoError(t, ext.Err())
	assert.Equal(t, []string{"b", "a"}, ext.Names())
	assert.Equal(t, 2, ext.Len())

	p, ok := ext.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, PropertyPlain, p.Kind())
	assert.Equal(t, 2, p.value, "redefinition replaces in place")
}

func TestExtensionRecordsFirstError(t *testing.T) {
	ext := NewExtension().Plain("", 1).Accessor("x", nil)
	assert.Equal(t, ErrCodeInvalidName, Code(ext.Err()))

	ext = NewExtension().Accessor("x", nil).Plain("", 1)
	assert.Equal(t, ErrCodeInvalidExtension, Code(ext.Err()))

	ext = NewExtension().Adapt("bad", 42)
	require.Error(t, ext.Err())
	assert.Equal(t, "bad", ext.Err().(*Error).Member)

	_, err := Base.Addon(ext)
	assert.Equal(t, ErrCodeInvalidExtension, Code(err))
}

func TestFromMap(t *testing.T) {
	ext := FromMap(map[string]any{
		"c":     AccessorFunc(func(w *Value) (any, error) { return "c", nil }),
		"b":     1,
		"a":     func(v int) int { return v * 10 },
		"m":     func(v any, args ...any) (any, error) { return len(args), nil },
		"d":     func(w *Value) (any, error) { return "d", nil },
		"empty": nil,
	})
	require.NoError(t, ext.Err())
	assert.Equal(t, []string{"a", "b", "c", "d", "empty", "m"}, ext.Names())

	kinds := map[string]PropertyKind{}
	for _, name := range ext.Names() {
		p, _ := ext.Lookup(name)
		kinds[name] = p.Kind()
	}
	assert.Equal(t, map[string]PropertyKind{
		"a":     PropertyFunc,
		"b":     PropertyPlain,
		"c":     PropertyAccessor,
		"d":     PropertyAccessor,
		"empty": PropertyPlain,
		"m":     PropertyFunc,
	}, kinds)

	typ := Base.MustAddon(ext)
	v := typ.Of(3)
	assert.Equal(t, 30, v.MustCall("a"))
	assert.Equal(t, 2, v.MustCall("m", "x", "y"))
	assert.Equal(t, "d", v.MustProp("d"))
	assert.Nil(t, v.MustProp("empty"))
}
