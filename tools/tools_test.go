package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/sections"
	"github.com/edudesk/contentdesk/internal/value"
)

var testRef = record.Ref{Kind: record.KindCollege, ID: "17", Type: "iit"}

const testSections = `{
	"about": {"overview": "Founded in 1961 in Old Town.", "campus": ["Library", "Hostels"]},
	"courses_btech": [{"Branch": "CSE", "Seats": "120"}, {"Branch": "EE", "Seats": "90"}],
	"nirf": {"2023": {"Rank": "5", "Score": "80.1"}},
	"legacy_notes": "kept"
}`

type handlerFunc = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// newTestSession returns a session over a file store seeded with one college and
// loaded with it.
func newTestSession(t *testing.T) (*record.Session, *record.FileStore) {
	t.Helper()

	g, err := value.ParseGroup([]byte(testSections))
	require.NoError(t, err)
	basic, err := value.ParseGroup([]byte(`{"college_name":"IIT Old Town","city":"Old Town"}`))
	require.NoError(t, err)

	store := &record.FileStore{Root: t.TempDir()}
	require.NoError(t, store.Save(context.Background(), record.Document{
		Ref:      testRef,
		Basic:    basic,
		Sections: sections.NewRegistry(g),
	}))

	session := record.NewSession(store)
	_, err = session.Load(context.Background(), testRef)
	require.NoError(t, err)
	return session, store
}

func newCallRequest(name string, args map[string]any) mcp.CallToolRequest {
	if args == nil {
		args = map[string]any{}
	}

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// call runs handler and returns the text of a successful result.
func call(t *testing.T, handler handlerFunc, args map[string]any) string {
	t.Helper()

	result, err := handler(context.Background(), newCallRequest("test", args))
	require.NoError(t, err)
	require.NotNil(t, result)
	text := resultText(t, result)
	require.False(t, result.IsError, text)
	return text
}

// callError runs handler and returns the text of a tool error result.
func callError(t *testing.T, handler handlerFunc, args map[string]any) string {
	t.Helper()

	result, err := handler(context.Background(), newCallRequest("test", args))
	require.NoError(t, err)
	require.NotNil(t, result)
	require.True(t, result.IsError)
	return resultText(t, result)
}

func encodeJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)

	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return textContent.Text
}

func TestWithToolLoggerRecoversPanic(t *testing.T) {
	t.Parallel()

	handler := withToolLogger("boom", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("kaboom")
	})

	result, err := handler(context.Background(), newCallRequest("boom", nil))
	require.Nil(t, result)
	require.ErrorContains(t, err, "kaboom")
}

func TestWithToolLoggerPassesThrough(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("transport")
	handler := withToolLogger("plain", func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, sentinel
	})

	_, err := handler(context.Background(), newCallRequest("plain", nil))
	require.ErrorIs(t, err, sentinel)
}

func TestToolsRequireLoadedRecord(t *testing.T) {
	t.Parallel()

	session := record.NewSession(&record.FileStore{Root: t.TempDir()})

	require.Contains(t, callError(t, newListSectionsHandlerFunc(session), nil), "no record loaded")
	require.Contains(t, callError(t, newGetSectionHandlerFunc(session), map[string]any{"key": "about"}), "no record loaded")
	require.Contains(t, callError(t, newSaveRecordHandlerFunc(session), nil), "no record loaded")
	require.Contains(t,
		callError(t, newLoadRecordHandlerFunc(session), map[string]any{"record": "college:1:iit"}),
		"record not found")
	require.Contains(t,
		callError(t, newLoadRecordHandlerFunc(session), map[string]any{"record": "school:1"}),
		"invalid record reference")
}
