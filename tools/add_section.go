package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
)

// AddSectionTool exposes a tool that adds a section to the loaded record.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var AddSectionTool = mcp.NewTool(
	"add_section",
	mcp.WithDescription(
		"Adds a section to the loaded record. With a parent tab (e.g. 'about') the section is "+
			"stored inside that tab's container when it has one, and as '<parent>_<title>' otherwise. "+
			"A key that already exists gets a numeric suffix.",
	),
	mcp.WithString("title", mcp.Required(), mcp.Description("Section title; normalized into the key.")),
	mcp.WithString("content", mcp.Required(), mcp.Description(
		"Section content. paragraph: plain text. points: one point per line. "+
			"table: a JSON array of records, or lines of cells separated by tabs or two spaces "+
			"with the header on the first line. json: any JSON value.",
	)),
	mcp.WithString("type",
		mcp.Enum(string(record.ContentParagraph), string(record.ContentPoints), string(record.ContentTable), string(record.ContentJSON)),
		mcp.DefaultString(string(record.ContentParagraph)),
		mcp.Description("Optional: content type (default: paragraph)."),
	),
	mcp.WithString("parent", mcp.Description("Optional: tab the section belongs to.")),
)

type addSectionResponse struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Dirty bool   `json:"dirty"`
}

// RegisterAddSectionTool registers the add section tool with the MCP server.
func RegisterAddSectionTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(AddSectionTool, withToolLogger("add_section", newAddSectionHandlerFunc(session)))
}

func newAddSectionHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		title, err := request.RequireString("title")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid title parameter", err)
		}
		content, err := request.RequireString("content")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid content parameter", err)
		}
		typ := record.ContentType(request.GetString("type", string(record.ContentParagraph)))
		parent := request.GetString("parent", "")

		key, err := session.AddSection(parent, title, typ, content)
		if err != nil {
			return toolError(ctx, logger, "failed to add section "+title, err)
		}

		logger.InfoContext(ctx, "Section added",
			slog.String("key", key),
			slog.String("parent", parent),
			slog.String("type", string(typ)))

		return marshalResponse(ctx, logger, addSectionResponse{Key: key, Type: string(typ), Dirty: session.Dirty()})
	}
}
