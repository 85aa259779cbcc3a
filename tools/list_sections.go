package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/sections"
)

// ListSectionsTool exposes a tool for listing the sections of the loaded record by tab.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var ListSectionsTool = mcp.NewTool(
	"list_sections",
	mcp.WithDescription(
		"Lists the sections of the loaded record grouped by tab. "+
			"Returns compact metadata (no content) to minimize context usage: key, title, "+
			"editor kind and value shape. Use get_section to retrieve a section's content.",
	),
	mcp.WithString(
		"tab",
		mcp.Description("Optional: only list the sections shown under this tab (e.g. 'about', 'Exam Dates')."),
	),
)

// listSectionsResponse is the JSON structure returned by the tool.
type listSectionsResponse struct {
	Record     string             `json:"record"`
	Tabs       []*sections.TabDTO `json:"tabs"`
	Count      int                `json:"count"`
	Unassigned []string           `json:"unassigned,omitempty"`
	Editing    []string           `json:"editing,omitempty"`
	Dirty      bool               `json:"dirty"`
	Tab        string             `json:"tab,omitempty"`
	Usage      string             `json:"usage"`
}

// RegisterListSectionsTool registers the list sections tool with the MCP server.
func RegisterListSectionsTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(ListSectionsTool, withToolLogger("list_sections", newListSectionsHandlerFunc(session)))
}

// newListSectionsHandlerFunc returns an MCP tool handler bound to a session.
func newListSectionsHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)
		tabName := request.GetString("tab", "")

		doc, err := session.Document()
		if err != nil {
			return toolError(ctx, logger, "failed to list sections", err)
		}
		tabs, err := session.Tabs()
		if err != nil {
			return toolError(ctx, logger, "failed to list sections", err)
		}

		resp := listSectionsResponse{
			Record:  doc.Ref.String(),
			Editing: session.Editing(),
			Dirty:   session.Dirty(),
			Usage: "Use the 'key' field with get_section to read a section and with update_section " +
				"to edit it. Sections of kind 'year_table' are edited with the year_* operations.",
		}

		if tabName != "" {
			tab, ok := findTab(tabs, tabName)
			if !ok {
				logger.WarnContext(ctx, "Tab not found", slog.String("tab", tabName))
				return mcp.NewToolResultError(fmt.Sprintf(
					"tab not found: %s. Available tabs: %v", tabName, tabNames(tabs))), nil
			}
			tabs = []sections.Tab{tab}
			resp.Tab = tabName
		} else {
			unassigned, err := session.Unassigned()
			if err != nil {
				return toolError(ctx, logger, "failed to list sections", err)
			}
			resp.Unassigned = unassigned
		}

		resp.Tabs = sections.TabsToDTO(tabs)
		for _, tab := range resp.Tabs {
			resp.Count += tab.Count
		}

		logger.InfoContext(ctx, "Sections listed successfully",
			slog.String("record", resp.Record),
			slog.String("tab", tabName),
			slog.Int("section_count", resp.Count))

		return marshalResponse(ctx, logger, resp)
	}
}

func findTab(tabs []sections.Tab, name string) (sections.Tab, bool) {
	for _, tab := range tabs {
		if tab.Name == name {
			return tab, true
		}
	}
	return sections.Tab{}, false
}

func tabNames(tabs []sections.Tab) []string {
	names := make([]string, len(tabs))
	for i, tab := range tabs {
		names[i] = tab.Name
	}
	return names
}
