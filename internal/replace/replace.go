// Package replace rewrites text across value trees.
package replace

import (
	"regexp"
	"strings"

	"github.com/edudesk/contentdesk/internal/value"
)

// Replace returns v with every occurrence of search in its string leaves replaced by
// repl. Matching is exact and case-sensitive. Group keys, numbers, booleans and nulls
// are left alone. An empty search returns v unchanged.
func Replace(v value.Value, search, repl string) value.Value {
	if search == "" {
		return v
	}
	return replace(v, search, repl)
}

func replace(v value.Value, search, repl string) value.Value {
	switch tv := v.(type) {
	case value.String:
		return value.String(strings.ReplaceAll(string(tv), search, repl))
	case value.List:
		out := make(value.List, len(tv))
		for i, item := range tv {
			out[i] = replace(item, search, repl)
		}
		return out
	case value.Group:
		pairs := tv.Pairs()
		for i := range pairs {
			pairs[i].Value = replace(pairs[i].Value, search, repl)
		}
		return value.NewGroup(pairs...)
	}
	return v
}

// Count returns the number of occurrences of search across the string leaves of v.
func Count(v value.Value, search string) int {
	if search == "" {
		return 0
	}

	switch tv := v.(type) {
	case value.String:
		return strings.Count(string(tv), search)
	case value.List:
		n := 0
		for _, item := range tv {
			n += Count(item, search)
		}
		return n
	case value.Group:
		n := 0
		for _, item := range tv.All() {
			n += Count(item, search)
		}
		return n
	}
	return 0
}

// Segment is a run of text that either matches the highlighted term or not.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// Highlight splits text around case-insensitive occurrences of search.
func Highlight(text, search string) []Segment {
	if search == "" || text == "" {
		return []Segment{{Text: text}}
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(search))
	var out []Segment
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: text[last:loc[0]]})
		}
		out = append(out, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}
