package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
)

// MoveSectionTool exposes a tool that reorders the sections of the loaded record.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var MoveSectionTool = mcp.NewTool(
	"move_section",
	mcp.WithDescription(
		"Moves a section onto the position of another one, as a drag and drop would. "+
			"Nested sections can only be moved among the children of the same container.",
	),
	mcp.WithString("key", mcp.Required(), mcp.Description("Key of the section to move.")),
	mcp.WithString("over", mcp.Required(), mcp.Description("Key of the section whose position it takes.")),
)

type moveSectionResponse struct {
	Key   string   `json:"key"`
	Over  string   `json:"over"`
	Order []string `json:"order"`
	Dirty bool     `json:"dirty"`
}

// RegisterMoveSectionTool registers the move section tool with the MCP server.
func RegisterMoveSectionTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(MoveSectionTool, withToolLogger("move_section", newMoveSectionHandlerFunc(session)))
}

func newMoveSectionHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		key, err := request.RequireString("key")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid key parameter", err)
		}
		over, err := request.RequireString("over")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid over parameter", err)
		}

		if err := session.MoveSection(key, over); err != nil {
			return toolError(ctx, logger, "failed to move section "+key, err)
		}
		doc, err := session.Document()
		if err != nil {
			return toolError(ctx, logger, "failed to move section "+key, err)
		}

		logger.InfoContext(ctx, "Section moved",
			slog.String("key", key),
			slog.String("over", over))

		return marshalResponse(ctx, logger, moveSectionResponse{
			Key:   key,
			Over:  over,
			Order: doc.Sections.Keys(),
			Dirty: session.Dirty(),
		})
	}
}
