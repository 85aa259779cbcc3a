package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
)

// DeleteSectionTool exposes a tool that deletes a section of the loaded record.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var DeleteSectionTool = mcp.NewTool(
	"delete_section",
	mcp.WithDescription(
		"Deletes a section of the loaded record, including its open draft. "+
			"Without confirm=true only the confirmation prompt is returned; show it to the user first.",
	),
	mcp.WithString("key", mcp.Required(), mcp.Description("Section key from list_sections.")),
	mcp.WithBoolean("confirm", mcp.Description("Confirm the deletion (default: false).")),
)

type deleteSectionResponse struct {
	Key string `json:"key"`
	record.Outcome
	Dirty bool `json:"dirty"`
}

// RegisterDeleteSectionTool registers the delete section tool with the MCP server.
func RegisterDeleteSectionTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(DeleteSectionTool, withToolLogger("delete_section", newDeleteSectionHandlerFunc(session)))
}

func newDeleteSectionHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		key, err := request.RequireString("key")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid key parameter", err)
		}

		out, err := session.DeleteSection(key, request.GetBool("confirm", false))
		if err != nil {
			return toolError(ctx, logger, "failed to delete section "+key, err)
		}

		logger.InfoContext(ctx, "Section delete requested",
			slog.String("key", key),
			slog.Bool("applied", out.Applied))

		return marshalResponse(ctx, logger, deleteSectionResponse{Key: key, Outcome: out, Dirty: session.Dirty()})
	}
}
