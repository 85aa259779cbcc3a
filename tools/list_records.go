package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/backend"
	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/value"
)

// ListRecordsTool exposes a tool that lists the records available on the backend.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var ListRecordsTool = mcp.NewTool(
	"list_records",
	mcp.WithDescription(
		"Lists the colleges or exams stored on the backend with the reference to pass to "+
			"load_record. Colleges of every type are fetched at once unless a type is given.",
	),
	mcp.WithString("kind",
		mcp.Enum(string(record.KindCollege), string(record.KindExam), string(record.KindCollegeExam)),
		mcp.DefaultString(string(record.KindCollege)),
		mcp.Description("Optional: record kind (default: college)."),
	),
	mcp.WithString("type", mcp.Description("Optional: college type (e.g. 'iit', 'nit').")),
)

// recordSummary identifies one listed record.
type recordSummary struct {
	Record string `json:"record"`
	Name   string `json:"name"`
}

type listRecordsResponse struct {
	Kind    string          `json:"kind"`
	Records []recordSummary `json:"records"`
	Count   int             `json:"count"`
}

// RegisterListRecordsTool registers the list records tool with the MCP server.
func RegisterListRecordsTool(s *server.MCPServer, client *backend.Client, collegeTypes []string) {
	s.AddTool(ListRecordsTool, withToolLogger("list_records", newListRecordsHandlerFunc(client, collegeTypes)))
}

func newListRecordsHandlerFunc(
	client *backend.Client,
	collegeTypes []string,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)
		kind := record.Kind(request.GetString("kind", string(record.KindCollege)))

		var (
			records []recordSummary
			err     error
		)
		switch kind {
		case record.KindCollege:
			types := collegeTypes
			if typ := request.GetString("type", ""); typ != "" {
				types = []string{typ}
			}
			records, err = listColleges(ctx, client, types)
		case record.KindExam:
			records, err = listExams(ctx, client, backend.Exams, kind, "uuid")
		case record.KindCollegeExam:
			records, err = listExams(ctx, client, backend.CollegeExams, kind, "id")
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown record kind: %s", kind)), nil
		}
		if err != nil {
			return toolError(ctx, logger, "failed to list records", err)
		}

		logger.InfoContext(ctx, "Records listed successfully",
			slog.String("kind", string(kind)),
			slog.Int("count", len(records)))

		return marshalResponse(ctx, logger, listRecordsResponse{Kind: string(kind), Records: records, Count: len(records)})
	}
}

func listColleges(ctx context.Context, client *backend.Client, types []string) ([]recordSummary, error) {
	lists, err := client.ListAllColleges(ctx, types)
	if err != nil {
		return nil, err
	}
	var out []recordSummary
	for _, list := range lists {
		for _, g := range list.Colleges {
			out = append(out, summarize(record.Ref{Kind: record.KindCollege, ID: field(g, "id"), Type: list.Type}, g))
		}
	}
	return out, nil
}

func listExams(
	ctx context.Context,
	client *backend.Client,
	coll backend.Collection,
	kind record.Kind,
	idField string,
) ([]recordSummary, error) {
	exams, err := client.ListExams(ctx, coll)
	if err != nil {
		return nil, err
	}
	out := make([]recordSummary, 0, len(exams))
	for _, g := range exams {
		out = append(out, summarize(record.Ref{Kind: kind, ID: field(g, idField)}, g))
	}
	return out, nil
}

func summarize(ref record.Ref, g value.Group) recordSummary {
	return recordSummary{Record: ref.String(), Name: record.Document{Ref: ref, Basic: g}.Name()}
}

func field(g value.Group, key string) string {
	v, _ := g.Get(key)
	return value.Text(v)
}
