package sections

import (
	"slices"
	"strings"

	"github.com/edudesk/contentdesk/internal/editor"
	"github.com/edudesk/contentdesk/internal/value"
)

// DefaultSpecialTabs are rendered through the year-indexed table editor and never broken
// out into child sections.
var DefaultSpecialTabs = []string{"nirf"}

// Project distributes registry entries over tabs. A key belongs to tab T when it equals T
// or starts with "T_". A group-valued T that is not special is broken out into one
// projected section per child, keyed "T/child". Sections keep registry order.
func Project(reg Registry, tabs, special []string) []Tab {
	out := make([]Tab, 0, len(tabs))
	for _, name := range tabs {
		out = append(out, Tab{Name: name, Sections: projectTab(reg, name, slices.Contains(special, name))})
	}
	return out
}

// ProjectTab is Project for a single tab.
func ProjectTab(reg Registry, name string, special []string) Tab {
	return Tab{Name: name, Sections: projectTab(reg, name, slices.Contains(special, name))}
}

func projectTab(reg Registry, name string, special bool) []Projected {
	var out []Projected
	prefix := name + prefixSep

	for key, v := range reg.g.All() {
		switch {
		case key == name && special:
			out = append(out, Projected{Key: key, Title: key, Value: v, Kind: KindYearTable})
		case key == name:
			g, ok := v.(value.Group)
			if !ok {
				out = append(out, Projected{Key: key, Title: key, Value: v})
				continue
			}
			for child, cv := range g.All() {
				out = append(out, Projected{
					Key:    JoinKey(name, child),
					Title:  child,
					Value:  cv,
					Nested: true,
				})
			}
		case strings.HasPrefix(key, prefix):
			out = append(out, Projected{Key: key, Title: strings.TrimPrefix(key, prefix), Value: v})
		}
	}
	return out
}

// Unassigned returns the registry keys that belong to none of tabs.
func Unassigned(reg Registry, tabs []string) []string {
	var out []string
	for _, key := range reg.Keys() {
		if !slices.ContainsFunc(tabs, func(t string) bool { return belongs(key, t) }) {
			out = append(out, key)
		}
	}
	return out
}

func belongs(key, tab string) bool {
	return key == tab || strings.HasPrefix(key, tab+prefixSep)
}

// TabNames returns defaults followed by every registry key that is neither excluded
// nor already listed.
func TabNames(defaults []string, reg Registry, exclude []string) []string {
	out := slices.Clone(defaults)
	for _, key := range reg.Keys() {
		if slices.Contains(exclude, key) || slices.Contains(out, key) {
			continue
		}
		out = append(out, key)
	}
	return out
}

// DisplayTitle humanizes a key or title for display.
func DisplayTitle(title string) string {
	return strings.ReplaceAll(title, "_", " ")
}

// SectionDTO is a lean representation of a projected section.
type SectionDTO struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Kind   string `json:"kind"`
	Shape  string `json:"shape"`
	Nested bool   `json:"nested,omitempty"`
}

// TabDTO is a lean representation of a tab.
type TabDTO struct {
	Name     string        `json:"name"`
	Count    int           `json:"count"`
	Sections []*SectionDTO `json:"sections"`
}

// TabsToDTO converts projected tabs into DTOs.
func TabsToDTO(tabs []Tab) []*TabDTO {
	dtos := make([]*TabDTO, 0, len(tabs))
	for _, tab := range tabs {
		dto := &TabDTO{
			Name:     tab.Name,
			Count:    len(tab.Sections),
			Sections: make([]*SectionDTO, 0, len(tab.Sections)),
		}
		for _, p := range tab.Sections {
			dto.Sections = append(dto.Sections, &SectionDTO{
				Key:    p.Key,
				Title:  DisplayTitle(p.Title),
				Kind:   p.Kind.String(),
				Shape:  editor.ShapeOf(p.Value).String(),
				Nested: p.Nested,
			})
		}
		dtos = append(dtos, dto)
	}
	return dtos
}
