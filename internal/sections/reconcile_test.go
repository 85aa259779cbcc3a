package sections

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edudesk/contentdesk/internal/value"
)

func newTestRegistry(t *testing.T, raw string) Registry {
	t.Helper()

	var reg Registry
	require.NoError(t, json.Unmarshal([]byte(raw), &reg))
	return reg
}

func newTestReconciler() *Reconciler {
	rc := NewReconciler(nil)
	rc.Now = func() time.Time { return time.UnixMilli(1700000000000) }
	return rc
}

func encode(t *testing.T, reg Registry) string {
	t.Helper()

	data, err := json.Marshal(reg)
	require.NoError(t, err)
	return string(data)
}

func TestAddSectionIntoContainerPrepends(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"about":{"desc":"text"},"nirf":{}}`)
	out, key, err := newTestReconciler().AddSection(reg, "about", "banner", value.String("hi"))
	require.NoError(t, err)
	require.Equal(t, "about/banner", key)
	require.Equal(t, `{"about":{"banner":"hi","desc":"text"},"nirf":{}}`, encode(t, out))
	require.Equal(t, `{"about":{"desc":"text"},"nirf":{}}`, encode(t, reg))
}

func TestAddSectionCoercesContainer(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"about":["old","list"]}`)
	content := value.MustParse(`{"img":"a.png"}`)

	out, _, err := newTestReconciler().AddSection(reg, "about", "banner", content)
	require.NoError(t, err)
	require.Equal(t, `{"about":{"banner":{"img":"a.png"}}}`, encode(t, out))
}

func TestAddSectionCreatesMissingContainer(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"nirf":{}}`)
	out, key, err := newTestReconciler().AddSection(reg, "ranking", "qs", value.String("12"))
	require.NoError(t, err)
	require.Equal(t, "ranking/qs", key)
	require.Equal(t, `{"nirf":{},"ranking":{"qs":"12"}}`, encode(t, out))
}

func TestAddSectionRejectsDuplicateChild(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"about":{"banner":"x"}}`)
	out, _, err := newTestReconciler().AddSection(reg, "about", "banner", value.String("y"))
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, encode(t, reg), encode(t, out))
}

func TestAddSectionSynthesizesTopLevelKey(t *testing.T) {
	t.Parallel()

	rc := newTestReconciler()
	reg := newTestRegistry(t, `{"about":{}}`)

	out, key, err := rc.AddSection(reg, "placements", "stats", value.String("1"))
	require.NoError(t, err)
	require.Equal(t, "placements_stats", key)
	require.Equal(t, []string{"placements_stats", "about"}, out.Keys())

	out, key, err = rc.AddSection(out, "placements", "stats", value.String("2"))
	require.NoError(t, err)
	require.Equal(t, "placements_stats_1700000000000", key)

	// the clock does not move, the suffix still has to stay unique
	out, key, err = rc.AddSection(out, "placements", "stats", value.String("3"))
	require.NoError(t, err)
	require.Equal(t, "placements_stats_1700000000001", key)
	require.Equal(t, []string{
		"placements_stats_1700000000001",
		"placements_stats_1700000000000",
		"placements_stats",
		"about",
	}, out.Keys())
}

func TestAddSectionRequiresTitle(t *testing.T) {
	t.Parallel()

	_, _, err := newTestReconciler().AddSection(Registry{}, "about", "  ", value.String("x"))
	require.ErrorIs(t, err, ErrEmptyTitle)
}

func TestDeleteSection(t *testing.T) {
	t.Parallel()

	rc := newTestReconciler()
	reg := newTestRegistry(t, `{"about":{"x":1,"y":2},"about_extra":"z"}`)

	pending, err := rc.DeleteSection(reg, "about/x")
	require.NoError(t, err)
	require.Equal(t, `Delete section "about/x"?`, pending.Prompt)
	require.Equal(t, encode(t, reg), encode(t, pending.Cancel()))
	require.Equal(t, `{"about":{"y":2},"about_extra":"z"}`, encode(t, pending.Confirm()))

	pending, err = rc.DeleteSection(reg, "about_extra")
	require.NoError(t, err)
	require.Equal(t, `{"about":{"x":1,"y":2}}`, encode(t, pending.Confirm()))

	_, err = rc.DeleteSection(reg, "about/missing")
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestRenameSectionPreservesPosition(t *testing.T) {
	t.Parallel()

	rc := newTestReconciler()
	reg := newTestRegistry(t, `{"a":1,"b":2,"c":3,"d":4}`)

	out, err := rc.RenameSection(reg, "b", "beta")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "beta", "c", "d"}, out.Keys())

	out, err = rc.RenameSection(reg, "b", "c")
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, encode(t, reg), encode(t, out))
}

func TestRenameNestedSection(t *testing.T) {
	t.Parallel()

	rc := newTestReconciler()
	reg := newTestRegistry(t, `{"courses":{"btech":1,"mtech":2,"phd":3}}`)

	out, err := rc.RenameSection(reg, "courses/mtech", "courses/m_tech")
	require.NoError(t, err)
	require.Equal(t, `{"courses":{"btech":1,"m_tech":2,"phd":3}}`, encode(t, out))

	out, err = rc.RenameSection(reg, "courses/mtech", "masters")
	require.NoError(t, err)
	require.Equal(t, `{"courses":{"btech":1,"masters":2,"phd":3}}`, encode(t, out))

	_, err = rc.RenameSection(reg, "courses/mtech", "phd")
	require.ErrorIs(t, err, ErrDuplicateKey)

	_, err = rc.RenameSection(reg, "courses/mtech", "courses/")
	require.ErrorIs(t, err, ErrEmptyTitle)
}

func TestSaveSection(t *testing.T) {
	t.Parallel()

	rc := newTestReconciler()
	reg := newTestRegistry(t, `{"about":{"desc":"old"},"fees":"1"}`)

	out, err := rc.SaveSection(reg, "about/desc", value.String("new"))
	require.NoError(t, err)
	out, err = rc.SaveSection(out, "fees", value.MustParse(`["2"]`))
	require.NoError(t, err)
	require.Equal(t, `{"about":{"desc":"new"},"fees":["2"]}`, encode(t, out))

	_, err = rc.SaveSection(reg, "nope", value.String("x"))
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestMoveSection(t *testing.T) {
	t.Parallel()

	rc := newTestReconciler()
	reg := newTestRegistry(t, `{"about":{"a":1,"b":2,"c":3},"x":1,"y":2}`)

	out, err := rc.MoveSection(reg, "about/c", "about/a")
	require.NoError(t, err)
	require.Equal(t, `{"about":{"c":3,"a":1,"b":2},"x":1,"y":2}`, encode(t, out))

	out, err = rc.MoveSection(reg, "y", "about")
	require.NoError(t, err)
	require.Equal(t, []string{"y", "about", "x"}, out.Keys())

	_, err = rc.MoveSection(reg, "about/a", "x")
	require.ErrorIs(t, err, ErrNotSiblings)
}

func TestTopLevelSlashKeyWinsOverNested(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"about":{"x":1},"about/x":"flat"}`)
	v, ok := reg.Get("about/x")
	require.True(t, ok)
	require.Equal(t, value.String("flat"), v)
}
