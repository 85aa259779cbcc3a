package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
)

// RenameSectionTool exposes a tool that renames a section of the loaded record.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var RenameSectionTool = mcp.NewTool(
	"rename_section",
	mcp.WithDescription(
		"Renames a section of the loaded record in place; its position is kept. "+
			"Nested sections are renamed within their container ('about/overview' to 'about/summary'). "+
			"Fails when the new key already exists. An open draft of the section is discarded.",
	),
	mcp.WithString("key", mcp.Required(), mcp.Description("Current section key.")),
	mcp.WithString("new_key", mcp.Required(), mcp.Description("New section key.")),
)

type renameSectionResponse struct {
	Key    string `json:"key"`
	NewKey string `json:"new_key"`
	Dirty  bool   `json:"dirty"`
}

// RegisterRenameSectionTool registers the rename section tool with the MCP server.
func RegisterRenameSectionTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(RenameSectionTool, withToolLogger("rename_section", newRenameSectionHandlerFunc(session)))
}

func newRenameSectionHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		key, err := request.RequireString("key")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid key parameter", err)
		}
		newKey, err := request.RequireString("new_key")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid new_key parameter", err)
		}

		if err := session.RenameSection(key, newKey); err != nil {
			return toolError(ctx, logger, "failed to rename section "+key, err)
		}

		logger.InfoContext(ctx, "Section renamed",
			slog.String("key", key),
			slog.String("new_key", newKey))

		return marshalResponse(ctx, logger, renameSectionResponse{Key: key, NewKey: newKey, Dirty: session.Dirty()})
	}
}
