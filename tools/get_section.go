package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/editor"
	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/replace"
	"github.com/edudesk/contentdesk/internal/sections"
	"github.com/edudesk/contentdesk/internal/value"
	"github.com/edudesk/contentdesk/internal/yeartable"
)

// GetSectionTool exposes a tool for retrieving one section of the loaded record.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var GetSectionTool = mcp.NewTool(
	"get_section",
	mcp.WithDescription(
		"Retrieves one section of the loaded record: its content and the editor tree that "+
			"describes it. Every node of the tree carries the 'path' to pass to update_section. "+
			"Returns the open draft when the section is being edited.",
	),
	mcp.WithString(
		"key",
		mcp.Required(),
		mcp.Description("Section key from list_sections (e.g. 'about/overview', 'placements_stats', 'nirf')."),
	),
	mcp.WithString(
		"path",
		mcp.Description("Optional: only return the node at this path inside the section (e.g. 'courses/[2]')."),
	),
	mcp.WithString(
		"find",
		mcp.Description("Optional: count occurrences of this text and highlight it in text nodes."),
	),
)

type getSectionResponse struct {
	Record    string            `json:"record"`
	Key       string            `json:"key"`
	Path      string            `json:"path,omitempty"`
	Kind      string            `json:"kind"`
	Draft     bool              `json:"draft"`
	Value     value.Value       `json:"value"`
	Tree      editor.Node       `json:"tree"`
	YearTable *yearTableDTO     `json:"year_table,omitempty"`
	Matches   *int              `json:"matches,omitempty"`
	Highlight []replace.Segment `json:"highlight,omitempty"`
}

// yearTableDTO is the editing form of a year-keyed section.
type yearTableDTO struct {
	Columns []string      `json:"columns"`
	Rows    []value.Group `json:"rows"`
}

// RegisterGetSectionTool registers the get section tool with the MCP server.
func RegisterGetSectionTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(GetSectionTool, withToolLogger("get_section", newGetSectionHandlerFunc(session)))
}

func newGetSectionHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		key, err := request.RequireString("key")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid key parameter", err)
		}
		path, err := editor.ParsePath(request.GetString("path", ""))
		if err != nil {
			return toolError(ctx, logger, "invalid path parameter", err)
		}
		find := request.GetString("find", "")

		logger.DebugContext(ctx, "Parameters",
			slog.String("key", key),
			slog.String("path", path.String()),
			slog.String("find", find))

		doc, err := session.Document()
		if err != nil {
			return toolError(ctx, logger, "failed to read section", err)
		}
		v, isDraft, err := session.Section(key)
		if err != nil {
			return toolError(ctx, logger, "section not found: "+key+". Use list_sections to find valid keys", err)
		}
		node, err := editor.Get(v, path)
		if err != nil {
			return toolError(ctx, logger, fmt.Sprintf("failed to resolve path %q", path), err)
		}

		kind, err := sectionKind(session, key)
		if err != nil {
			return toolError(ctx, logger, "failed to read section", err)
		}

		resp := getSectionResponse{
			Record: doc.Ref.String(),
			Key:    key,
			Path:   path.String(),
			Kind:   kind.String(),
			Draft:  isDraft,
			Value:  node,
			Tree:   editor.Describe(key, node),
		}
		if g, ok := node.(value.Group); ok && kind == sections.KindYearTable && len(path) == 0 {
			ed := yeartable.NewEditor(g)
			resp.YearTable = &yearTableDTO{Columns: ed.Columns(), Rows: ed.Rows()}
		}
		if find != "" {
			n := replace.Count(node, find)
			resp.Matches = &n
			if value.IsScalar(node) {
				resp.Highlight = replace.Highlight(value.Text(node), find)
			}
		}

		logger.InfoContext(ctx, "Section retrieved successfully",
			slog.String("key", key),
			slog.String("shape", resp.Tree.Shape),
			slog.Bool("draft", isDraft))

		return marshalResponse(ctx, logger, resp)
	}
}

// sectionKind reports how the tab projection shows key. Keys no tab shows are generic.
func sectionKind(session *record.Session, key string) (sections.Kind, error) {
	tabs, err := session.Tabs()
	if err != nil {
		return sections.KindGeneric, err
	}
	for _, tab := range tabs {
		for _, p := range tab.Sections {
			if p.Key == key {
				return p.Kind, nil
			}
		}
	}
	return sections.KindGeneric, nil
}
