// Package main provides the contentdesk command: the MCP record editing server and
// offline tools for record files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/edudesk/contentdesk/internal/backend"
	"github.com/edudesk/contentdesk/internal/buildinfo"
	"github.com/edudesk/contentdesk/internal/config"
	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/sections"
)

func main() {
	//nolint:forbidigo // main must exit with the command status code.
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// app is the state shared by every command once the root command has loaded the
// configuration.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "contentdesk",
		Short:         "Edit college and exam content records",
		Long:          "contentdesk edits the content records of the admin backend section by section, as an MCP server or on record files.",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup(stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file merged over the defaults")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(
		newServeCmd(a),
		newSectionsCmd(a),
		newReplaceCmd(a),
		newConvertCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and installs the process logger. Flags win over the
// config file and the environment.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) client() *backend.Client {
	return backend.New(a.cfg.Backend.URL, backend.WithTimeout(a.cfg.Backend.Timeout))
}

func (a *app) store(client *backend.Client) record.Store {
	if a.cfg.Store.Kind == config.StoreFile {
		return &record.FileStore{Root: a.cfg.Store.Root, BasicFields: a.cfg.Records.ExamBasicFields}
	}
	return record.NewBackendStore(client, a.cfg.Records.ExamBasicFields)
}

func (a *app) sessionOptions() []record.SessionOption {
	return []record.SessionOption{
		record.WithReconciler(sections.NewReconciler(a.cfg.Records.Containers)),
		record.WithLayout(record.Layout{
			CollegeTabs: a.cfg.Records.CollegeTabs,
			ExamTabs:    a.cfg.Records.ExamTabs,
			SpecialTabs: a.cfg.Records.SpecialTabs,
		}),
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "contentdesk %s (commit %s, built %s)\n",
				buildinfo.Version, buildinfo.Commit, buildinfo.Date)
			return err
		},
	}
}
