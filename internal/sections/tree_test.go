package sections

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func projectedKeys(tab Tab) []string {
	keys := make([]string, 0, len(tab.Sections))
	for _, p := range tab.Sections {
		keys = append(keys, p.Key)
	}
	return keys
}

func TestProjectBreaksOutContainer(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"about":{"x":1,"y":2},"about_extra":"z"}`)
	tabs := Project(reg, []string{"about"}, DefaultSpecialTabs)

	require.Len(t, tabs, 1)
	require.Equal(t, []string{"about/x", "about/y", "about_extra"}, projectedKeys(tabs[0]))

	titles := []string{}
	for _, p := range tabs[0].Sections {
		titles = append(titles, p.Title)
	}
	require.Equal(t, []string{"x", "y", "extra"}, titles)
	require.True(t, tabs[0].Sections[0].Nested)
	require.False(t, tabs[0].Sections[2].Nested)
}

func TestProjectSpecialTabIsNotBrokenOut(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"nirf":{"2024":{"rank":"5"}},"nirf_notes":"n","courses":"plain"}`)
	tabs := Project(reg, []string{"courses", "nirf", "empty"}, DefaultSpecialTabs)

	require.Equal(t, []string{"courses"}, projectedKeys(tabs[0]))
	require.Equal(t, KindGeneric, tabs[0].Sections[0].Kind)

	require.Equal(t, []string{"nirf", "nirf_notes"}, projectedKeys(tabs[1]))
	require.Equal(t, KindYearTable, tabs[1].Sections[0].Kind)
	require.Equal(t, KindGeneric, tabs[1].Sections[1].Kind)

	require.Empty(t, tabs[2].Sections)
}

func TestUnassigned(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"about":{},"placements":"p","ranking_qs":"1","overview":"o"}`)
	require.Equal(t, []string{"placements", "overview"}, Unassigned(reg, []string{"about", "ranking"}))
}

func TestTabNames(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"Name":"JEE","About":"a","Syllabus":"s","uuid":"u"}`)
	got := TabNames([]string{"About", "Exam Dates"}, reg, []string{"Name", "uuid"})
	require.Equal(t, []string{"About", "Exam Dates", "Syllabus"}, got)
}

func TestTabsToDTO(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, `{"about":{"campus_life":"text","fee_table":[{"a":"1"}]},"nirf":{}}`)
	dtos := TabsToDTO(Project(reg, []string{"about", "nirf"}, DefaultSpecialTabs))

	require.Len(t, dtos, 2)
	require.Equal(t, 2, dtos[0].Count)
	require.Equal(t, "campus life", dtos[0].Sections[0].Title)
	require.Equal(t, "scalar", dtos[0].Sections[0].Shape)
	require.Equal(t, "table", dtos[0].Sections[1].Shape)
	require.Equal(t, "year_table", dtos[1].Sections[0].Kind)
}

func TestSplitKey(t *testing.T) {
	t.Parallel()

	parent, child, ok := SplitKey("about/campus/life")
	require.True(t, ok)
	require.Equal(t, "about", parent)
	require.Equal(t, "campus/life", child)

	_, _, ok = SplitKey("about")
	require.False(t, ok)
	_, _, ok = SplitKey("/about")
	require.False(t, ok)
	_, _, ok = SplitKey("about/")
	require.False(t, ok)
}
