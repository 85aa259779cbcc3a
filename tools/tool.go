// Package tools provides the MCP tools that edit a content record through a record session.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/logging"
)

// withToolLogger wraps a tool handler to inject a logger and a request id into context and
// provide panic recovery. The logger is configured with the tool name and made available via
// logging.LoggerFromContext.
func withToolLogger(toolName string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		logger := logging.WithTool(toolName)
		ctx = logging.ContextWithLogger(ctx, logger)
		ctx = logging.ContextWithRequestID(ctx, uuid.New().String())

		start := time.Now()
		logging.RequestStart(ctx, toolName, request.GetArguments())

		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "panic in tool execution",
					slog.String("tool", toolName),
					slog.Any("panic", r))
				result = nil
				err = fmt.Errorf("internal error in tool execution: %s", r)
			}
			logging.RequestEnd(ctx, toolName, err == nil && (result == nil || !result.IsError), time.Since(start), err)
		}()

		return handler(ctx, request)
	}
}

func marshalResponse(ctx context.Context, logger *slog.Logger, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.ErrorContext(ctx, "Failed to marshal response",
			slog.String("error", err.Error()))
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError logs err and reports it as a tool result so the agent can react to it.
func toolError(ctx context.Context, logger *slog.Logger, msg string, err error) (*mcp.CallToolResult, error) {
	logger.WarnContext(ctx, msg, slog.String("error", err.Error()))
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", msg, err)), nil
}
