package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edudesk/contentdesk/internal/helpers"
	"github.com/edudesk/contentdesk/internal/tabular"
	"github.com/edudesk/contentdesk/internal/value"
)

type convertOptions struct {
	sheet  string
	filter string
	remote bool
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a CSV or XLSX file into JSON records",
		Long: "Convert a CSV or XLSX file into JSON records on stdout. The header row is detected " +
			"among the first rows. With --remote the backend converts the file instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	flags.BoolVar(&opts.remote, "remote", false, "Let the backend convert the file")
	flags.StringVar(&opts.filter, "filter", "", "Filter name passed to the backend with --remote")
	return cmd
}

func (a *app) convert(ctx context.Context, w io.Writer, path string, opts *convertOptions) error {
	var (
		records value.List
		err     error
	)
	if opts.remote {
		records, err = a.convertRemote(ctx, path, opts.filter)
	} else {
		var ds tabular.Dataset
		ds, err = tabular.ReadFile(path, opts.sheet)
		records = ds.Records
	}
	if err != nil {
		return err
	}

	a.logger.Debug("File converted",
		slog.String("file", path),
		slog.String("path_type", helpers.GetPathType(path)),
		slog.Int("records", len(records)))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func (a *app) convertRemote(ctx context.Context, path, filter string) (value.List, error) {
	if kind := helpers.FileKind(path); kind != helpers.KindCSV {
		return nil, fmt.Errorf("the backend only converts CSV files, got %s", kind)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return a.client().ConvertCSV(ctx, filepath.Base(path), f, filter)
}
