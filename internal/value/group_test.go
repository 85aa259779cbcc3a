package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleGroup() Group {
	return NewGroup(
		Pair{Key: "one", Value: String("1")},
		Pair{Key: "two", Value: String("2")},
		Pair{Key: "three", Value: String("3")},
		Pair{Key: "four", Value: String("4")},
	)
}

func TestGroupRenameKeepsPosition(t *testing.T) {
	t.Parallel()

	g := sampleGroup()
	renamed, err := g.Rename("two", "deux")
	require.NoError(t, err)

	require.Equal(t, []string{"one", "deux", "three", "four"}, renamed.Keys())
	require.Equal(t, 1, renamed.Index("deux"))
	v, _ := renamed.Get("deux")
	require.Equal(t, String("2"), v)

	// receiver untouched
	require.Equal(t, []string{"one", "two", "three", "four"}, g.Keys())
}

func TestGroupRenameRejectsDuplicate(t *testing.T) {
	t.Parallel()

	g := sampleGroup()
	out, err := g.Rename("two", "three")
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.True(t, Equal(g, out))

	_, err = g.Rename("missing", "x")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestGroupSetPrependDelete(t *testing.T) {
	t.Parallel()

	g := sampleGroup()

	set := g.Set("two", String("II"))
	require.Equal(t, g.Keys(), set.Keys())
	v, _ := set.Get("two")
	require.Equal(t, String("II"), v)

	appended := g.Set("five", nil)
	require.Equal(t, "five", appended.Keys()[4])
	v, _ = appended.Get("five")
	require.Equal(t, Null{}, v)

	front := g.Prepend("zero", String("0"))
	require.Equal(t, []string{"zero", "one", "two", "three", "four"}, front.Keys())

	deleted := g.Delete("one")
	require.Equal(t, []string{"two", "three", "four"}, deleted.Keys())
	require.Equal(t, 4, g.Len())
}

func TestGroupReorder(t *testing.T) {
	t.Parallel()

	g := sampleGroup()
	out := g.Reorder([]string{"three", "missing", "one"})
	require.Equal(t, []string{"three", "one", "two", "four"}, out.Keys())
}

func TestZeroGroup(t *testing.T) {
	t.Parallel()

	var g Group
	require.Equal(t, 0, g.Len())
	require.Empty(t, g.Keys())
	require.False(t, g.Has("x"))
	require.Equal(t, -1, g.Index("x"))

	data, err := json.Marshal(g)
	require.NoError(t, err)
	require.Equal(t, "{}", string(data))

	g2 := g.Set("x", String("y"))
	require.Equal(t, 1, g2.Len())
	require.Equal(t, 0, g.Len())
}
