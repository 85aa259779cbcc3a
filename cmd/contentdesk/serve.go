package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/edudesk/contentdesk/internal/buildinfo"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/tools"
)

// Server instructions give the agent a short overview of the editing workflow. Keep them
// brief, they are sent with every conversation.
const instructions = `
Use list_records to find a record and load_record to open it. Read sections with list_sections
and get_section, edit them with update_section and commit each edited section.
Deletions and record-wide replacements need confirm=true: show the returned prompt to the user
before confirming. Nothing is stored until save_record is called.
`

//nolint:gochecknoglobals // Allows test override for stdio server.
var serveStdio = server.ServeStdio

// serveOptions holds the serve command flags.
type serveOptions struct {
	transport    string
	addr         string
	ssePath      string
	messagesPath string
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP record editing server",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.serve(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.transport, "transport", "stdio", "Transport mode: stdio or http")
	flags.StringVar(&opts.addr, "addr", ":8080", "HTTP address to listen on")
	flags.StringVar(&opts.ssePath, "sse-path", "/sse", "Path for SSE endpoint")
	flags.StringVar(&opts.messagesPath, "messages-path", "/messages", "Path for message posting")
	return cmd
}

func (a *app) serve(opts *serveOptions) error {
	logger := a.logger
	if opts.transport != "stdio" && opts.transport != "http" {
		return fmt.Errorf("unknown transport %q", opts.transport)
	}

	logger.Info("Starting contentdesk MCP server",
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
		slog.String("built_at", buildinfo.Date),
		slog.String("backend_url", a.cfg.Backend.URL),
		slog.String("store", a.cfg.Store.Kind),
	)

	s := a.newMCPServer()

	if opts.transport == "http" {
		// Construct BaseURL from the address
		baseURL := "http://localhost:8080"
		if opts.addr != "" {
			if opts.addr[0] == ':' {
				baseURL = "http://localhost" + opts.addr
			} else {
				baseURL = "http://" + opts.addr
			}
		}

		sseServer := server.NewSSEServer(s,
			server.WithBaseURL(baseURL),
			server.WithSSEEndpoint(opts.ssePath),
			server.WithMessageEndpoint(opts.messagesPath),
		)
		mux := http.NewServeMux()
		mux.Handle(opts.ssePath, sseServer)
		mux.Handle(opts.messagesPath, sseServer)

		logger.Info("Starting MCP server on HTTP",
			slog.String("addr", opts.addr),
			slog.String("sse_path", opts.ssePath),
			slog.String("messages_path", opts.messagesPath),
			slog.String("base_url", baseURL),
		)

		//nolint:gosec // Timeouts would cut long-lived SSE streams.
		if err := http.ListenAndServe(opts.addr, mux); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			return fmt.Errorf("MCP server exited with error: %w", err)
		}
		return nil
	}

	logger.Info("Starting MCP server on stdio")
	if err := serveStdio(s); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
		return fmt.Errorf("MCP server exited with error: %w", err)
	}
	return nil
}

// newMCPServer builds the MCP server with every tool bound to one editing session.
func (a *app) newMCPServer() *server.MCPServer {
	client := a.client()
	session := record.NewSession(a.store(client), a.sessionOptions()...)

	s := server.NewMCPServer(
		"contentdesk",
		buildinfo.Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	tools.RegisterInfoTool(s, session, tools.InfoOptions{BackendURL: client.BaseURL(), Store: a.cfg.Store.Kind})
	tools.RegisterListRecordsTool(s, client, a.cfg.Records.CollegeTypes)
	tools.RegisterLoadRecordTool(s, session)
	tools.RegisterListSectionsTool(s, session)
	tools.RegisterGetSectionTool(s, session)
	tools.RegisterUpdateSectionTool(s, session)
	tools.RegisterAddSectionTool(s, session)
	tools.RegisterDeleteSectionTool(s, session)
	tools.RegisterRenameSectionTool(s, session)
	tools.RegisterMoveSectionTool(s, session)
	tools.RegisterSetBasicTool(s, session)
	tools.RegisterReplaceTextTool(s, session)
	tools.RegisterSaveRecordTool(s, session)

	return s
}
