package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/sections"
	"github.com/edudesk/contentdesk/internal/value"
)

// LoadRecordTool exposes a tool that loads a record into the editing session.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var LoadRecordTool = mcp.NewTool(
	"load_record",
	mcp.WithDescription(
		"Loads a college or exam record into the editing session, replacing the current one. "+
			"Returns its basic data and the sections of every tab. "+
			"Refuses to replace a record with unsaved changes unless discard is true.",
	),
	mcp.WithString(
		"record",
		mcp.Required(),
		mcp.Description(
			"Record reference: 'college:<id>:<type>' (e.g. 'college:17:iit'), "+
				"'exam:<uuid>' or 'college-exam:<id>'.",
		),
	),
	mcp.WithBoolean(
		"discard",
		mcp.Description("Optional: drop unsaved changes of the current record (default: false)."),
	),
)

// errUnsaved is reported when loading would silently drop edits.
var errUnsaved = errors.New("the current record has unsaved changes; call save_record or pass discard=true")

type loadRecordResponse struct {
	Record     string             `json:"record"`
	Name       string             `json:"name"`
	Basic      value.Group        `json:"basic"`
	Tabs       []*sections.TabDTO `json:"tabs"`
	Unassigned []string           `json:"unassigned,omitempty"`
	Usage      string             `json:"usage"`
}

// RegisterLoadRecordTool registers the load record tool with the MCP server.
func RegisterLoadRecordTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(LoadRecordTool, withToolLogger("load_record", newLoadRecordHandlerFunc(session)))
}

func newLoadRecordHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		raw, err := request.RequireString("record")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid record parameter", err)
		}
		ref, err := record.ParseRef(raw)
		if err != nil {
			return toolError(ctx, logger, "invalid record reference", err)
		}

		if session.Dirty() && !request.GetBool("discard", false) {
			logger.WarnContext(ctx, "Refusing to drop unsaved changes", slog.String("record", raw))
			return mcp.NewToolResultError(errUnsaved.Error()), nil
		}

		doc, err := session.Load(ctx, ref)
		if err != nil {
			return toolError(ctx, logger, "failed to load record "+ref.String(), err)
		}

		tabs, err := session.Tabs()
		if err != nil {
			return toolError(ctx, logger, "failed to project tabs", err)
		}
		unassigned, err := session.Unassigned()
		if err != nil {
			return toolError(ctx, logger, "failed to project tabs", err)
		}

		return marshalResponse(ctx, logger, loadRecordResponse{
			Record:     ref.String(),
			Name:       doc.Name(),
			Basic:      doc.Basic,
			Tabs:       sections.TabsToDTO(tabs),
			Unassigned: unassigned,
			Usage: "Use get_section with a section 'key' to read it, update_section to edit it, " +
				"and save_record to write the record back.",
		})
	}
}
