package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/replace"
)

// ReplaceTextTool exposes a tool that replaces text across the whole loaded record.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var ReplaceTextTool = mcp.NewTool(
	"replace_text",
	mcp.WithDescription(
		"Replaces every occurrence of a text in the basic data and all sections of the loaded "+
			"record at once (case-sensitive). Without confirm=true it only reports where the text "+
			"occurs and returns the confirmation prompt. Applying it discards open drafts.",
	),
	mcp.WithString("find", mcp.Required(), mcp.Description("Text to search for.")),
	mcp.WithString("replace", mcp.Description("Replacement text (default: empty, which deletes the matches).")),
	mcp.WithBoolean("confirm", mcp.Description("Apply the replacement (default: false).")),
)

// matchCount reports occurrences within one part of a record.
type matchCount struct {
	Key     string `json:"key"`
	Matches int    `json:"matches"`
}

type replaceTextResponse struct {
	record.ReplaceOutcome
	Basic    int          `json:"basic_matches"`
	Sections []matchCount `json:"sections,omitempty"`
	Dirty    bool         `json:"dirty"`
}

// RegisterReplaceTextTool registers the replace text tool with the MCP server.
func RegisterReplaceTextTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(ReplaceTextTool, withToolLogger("replace_text", newReplaceTextHandlerFunc(session)))
}

func newReplaceTextHandlerFunc(
	session *record.Session,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		find, err := request.RequireString("find")
		if err != nil {
			return toolError(ctx, logger, "missing or invalid find parameter", err)
		}
		repl := request.GetString("replace", "")

		// Locate matches on the state the replace runs against.
		doc, err := session.Document()
		if err != nil {
			return toolError(ctx, logger, "failed to replace text", err)
		}
		resp := replaceTextResponse{Basic: replace.Count(doc.Basic, find)}
		for _, sec := range doc.Sections.Sections() {
			if n := replace.Count(sec.Value, find); n > 0 {
				resp.Sections = append(resp.Sections, matchCount{Key: sec.Key, Matches: n})
			}
		}

		out, err := session.ReplaceAll(find, repl, request.GetBool("confirm", false))
		if err != nil {
			return toolError(ctx, logger, "failed to replace text", err)
		}
		resp.ReplaceOutcome = out
		resp.Dirty = session.Dirty()

		logger.InfoContext(ctx, "Replace requested",
			slog.Int("matches", out.Matches),
			slog.Bool("applied", out.Applied))

		return marshalResponse(ctx, logger, resp)
	}
}
