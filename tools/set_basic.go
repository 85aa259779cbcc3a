package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/value"
)

// SetBasicTool exposes a tool that edits one basic data field of the loaded record.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var SetBasicTool = mcp.NewTool(
	"set_basic",
	mcp.WithDescription(
		"Sets one basic data field of the loaded record (name, website, fees and similar). "+
			"New fields are appended. The value is stored as text unless json=true.",
	),
	mcp.WithString("field", mcp.Required(), mcp.Description("Basic data field name.")),
	mcp.WithString("value", mcp.Required(), mcp.Description("New field value.")),
	mcp.WithBoolean("json", mcp.Description("Parse value as JSON (default: false).")),
)

type setBasicResponse struct {
	Field string      `json:"field"`
	Basic value.Group `json:"basic"`
	Dirty bool        `json:"dirty"`
}

// RegisterSetBasicTool registers the set basic tool with the MCP server.
func RegisterSetBasicTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(SetBasicTool, withToolLogger("set_basic", newSetBasicHandlerFunc(session)))
}

func newSetBasicHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		field, err := request.RequireString("field")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid field parameter", err)
		}
		text, err := request.RequireString("value")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid value parameter", err)
		}

		var v value.Value = value.String(text)
		if request.GetBool("json", false) {
			if v, err = value.ParseString(text); err != nil {
				return toolError(ctx, logger, "invalid JSON value", err)
			}
		}

		if err := session.SetBasic(field, v); err != nil {
			return toolError(ctx, logger, "failed to set basic field "+field, err)
		}
		doc, err := session.Document()
		if err != nil {
			return toolError(ctx, logger, "failed to set basic field "+field, err)
		}

		logger.InfoContext(ctx, "Basic field set", slog.String("field", field))

		return marshalResponse(ctx, logger, setBasicResponse{Field: field, Basic: doc.Basic, Dirty: session.Dirty()})
	}
}
