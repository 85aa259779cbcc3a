package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
)

// SaveRecordTool exposes a tool that writes the loaded record back to its store.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var SaveRecordTool = mcp.NewTool(
	"save_record",
	mcp.WithDescription(
		"Writes the loaded record back, replacing the stored one entirely. "+
			"Only committed sections are written: commit open drafts with update_section first.",
	),
)

type saveRecordResponse struct {
	Record string `json:"record"`
	Saved  bool   `json:"saved"`
	// Uncommitted lists open drafts that were not written.
	Uncommitted []string `json:"uncommitted,omitempty"`
}

// RegisterSaveRecordTool registers the save record tool with the MCP server.
func RegisterSaveRecordTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(SaveRecordTool, withToolLogger("save_record", newSaveRecordHandlerFunc(session)))
}

func newSaveRecordHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		doc, err := session.Document()
		if err != nil {
			return toolError(ctx, logger, "failed to save record", err)
		}
		if err := session.Save(ctx); err != nil {
			return toolError(ctx, logger, "failed to save record "+doc.Ref.String(), err)
		}

		resp := saveRecordResponse{Record: doc.Ref.String(), Saved: true, Uncommitted: session.Editing()}
		logger.InfoContext(ctx, "Record saved",
			slog.String("record", resp.Record),
			slog.Int("uncommitted", len(resp.Uncommitted)))

		return marshalResponse(ctx, logger, resp)
	}
}
