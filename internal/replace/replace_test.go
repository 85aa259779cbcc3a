package replace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edudesk/contentdesk/internal/value"
)

func encode(t *testing.T, v value.Value) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestReplaceNestedRegistry(t *testing.T) {
	t.Parallel()

	in := value.MustParse(`{"about":{"desc":"old text"}}`)
	out := Replace(in, "old", "new")

	require.Equal(t, `{"about":{"desc":"new text"}}`, encode(t, out))
	require.Equal(t, `{"about":{"desc":"old text"}}`, encode(t, in))
}

func TestReplaceLeavesOnly(t *testing.T) {
	t.Parallel()

	in := value.MustParse(`{"old_key":["old","bold",{"x":"OLD old"}],"n":10,"b":true,"z":null}`)
	out := Replace(in, "old", "new")

	require.Equal(t, `{"old_key":["new","bnew",{"x":"OLD new"}],"n":10,"b":true,"z":null}`, encode(t, out))
}

func TestReplaceSpecialCharactersAreLiteral(t *testing.T) {
	t.Parallel()

	out := Replace(value.String("a.b a*b"), "a.b", "x")
	require.Equal(t, value.String("x a*b"), out)
}

func TestReplaceEmptySearchIsNoop(t *testing.T) {
	t.Parallel()

	in := value.MustParse(`["abc"]`)
	require.Equal(t, encode(t, in), encode(t, Replace(in, "", "x")))
}

func TestCount(t *testing.T) {
	t.Parallel()

	in := value.MustParse(`{"a":"old old","b":["gold",{"c":"Old"}],"old":1}`)
	require.Equal(t, 3, Count(in, "old"))
	require.Equal(t, 0, Count(in, ""))
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	got := Highlight("Old is old", "old")
	require.Equal(t, []Segment{
		{Text: "Old", Match: true},
		{Text: " is "},
		{Text: "old", Match: true},
	}, got)

	require.Equal(t, []Segment{{Text: "plain"}}, Highlight("plain", ""))
	require.Equal(t, []Segment{{Text: "plain"}}, Highlight("plain", "zz"))
}
