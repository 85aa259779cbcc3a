package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edudesk/contentdesk/internal/tabular"
	"github.com/edudesk/contentdesk/internal/value"
)

// ContentType selects how the text of a new section is interpreted.
type ContentType string

// Content types for new sections.
const (
	ContentParagraph ContentType = "paragraph"
	ContentPoints    ContentType = "points"
	ContentTable     ContentType = "table"
	ContentJSON      ContentType = "json"
)

var (
	// ErrEmptyContent is returned when a new section has no content.
	ErrEmptyContent = errors.New("section content is empty")
	// ErrBadContent is returned when content cannot be read as the requested type.
	ErrBadContent = errors.New("invalid section content")
)

// BuildContent converts operator text into a section value.
//
// A paragraph is kept verbatim. Points become a list with one trimmed item per
// non-blank line. A table is a JSON array of objects or, failing that, a pasted text
// table. JSON is parsed as is.
func BuildContent(typ ContentType, text string) (value.Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyContent
	}

	switch typ {
	case ContentParagraph, "":
		return value.String(text), nil
	case ContentPoints:
		var points value.List
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				points = append(points, value.String(line))
			}
		}
		return points, nil
	case ContentTable:
		if v, err := value.ParseString(text); err == nil && isRecordList(v) {
			return v, nil
		}
		rows := tabular.ParseSimpleTable(text)
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: expected a JSON array of objects or a text table with a header line", ErrBadContent)
		}
		return rows, nil
	case ContentJSON:
		v, err := value.ParseString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadContent, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: unknown content type %q", ErrBadContent, typ)
}

func isRecordList(v value.Value) bool {
	list, ok := v.(value.List)
	if !ok {
		return false
	}
	for _, item := range list {
		if _, ok := item.(value.Group); !ok {
			return false
		}
	}
	return true
}

// wrapTyped stores content the way exam pages expect new sections: tagged with the
// type they were entered as.
func wrapTyped(typ ContentType, content value.Value) value.Value {
	if typ == "" {
		typ = ContentParagraph
	}
	return value.NewGroup(
		value.Pair{Key: "type", Value: value.String(string(typ))},
		value.Pair{Key: "content", Value: content},
	)
}
