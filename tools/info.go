package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/buildinfo"
	"github.com/edudesk/contentdesk/internal/record"
)

// InfoTool exposes runtime information about the server and the editing session.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var InfoTool = mcp.NewTool(
	"info",
	mcp.WithDescription("Get details about the contentdesk server, where records are stored, and the record being edited."),
)

// InfoOptions describes the server setup reported by the info tool.
type InfoOptions struct {
	// BackendURL is the admin backend the server talks to.
	BackendURL string

	// Store is the record store kind: backend or file.
	Store string
}

// RegisterInfoTool registers the info tool with the MCP server.
func RegisterInfoTool(s *server.MCPServer, session *record.Session, opts InfoOptions) {
	s.AddTool(InfoTool, withToolLogger("info", newInfoHandlerFunc(session, opts)))
}

func newInfoHandlerFunc(
	session *record.Session,
	opts InfoOptions,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		response := InfoResponse{
			Version:    buildinfo.Version,
			Commit:     buildinfo.Commit,
			BackendURL: opts.BackendURL,
			Store:      opts.Store,
			Dirty:      session.Dirty(),
			Editing:    session.Editing(),
		}
		if doc, err := session.Document(); err == nil {
			response.Record = doc.Ref.String()
			response.Name = doc.Name()
		}

		jsonResponse, err := json.Marshal(response)
		if err != nil {
			//nolint:nilerr // Error is reported via the MCP error result.
			return mcp.NewToolResultError("Failed to marshal info response; reason: " + err.Error()), nil
		}

		return mcp.NewToolResultText(string(jsonResponse)), nil
	}
}

// InfoResponse is the response to the info tool.
type InfoResponse struct {
	// Version is the version of the contentdesk server.
	Version string `json:"version"`

	// Commit is the source revision the server was built from.
	Commit string `json:"commit"`

	// BackendURL is the admin backend the server talks to.
	BackendURL string `json:"backend_url"`

	// Store is where records are loaded from and saved to.
	Store string `json:"store"`

	// Record is the reference of the loaded record, empty when none is loaded.
	Record string `json:"record,omitempty"`

	// Name is the display name of the loaded record.
	Name string `json:"name,omitempty"`

	// Dirty reports unsaved changes.
	Dirty bool `json:"dirty"`

	// Editing lists the sections with an open draft.
	Editing []string `json:"editing,omitempty"`
}
