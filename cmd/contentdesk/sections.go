package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/sections"
)

// fileOptions are the flags shared by commands that read a record file.
type fileOptions struct {
	exam bool
}

func (o *fileOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.exam, "exam", false, "Treat the file as an exam record (exam tabs and basic fields)")
}

// readRecord reads a record file in either the {basic_data, full_data} layout or the
// flat layout of exam records.
func (a *app) readRecord(path string, opts fileOptions) (record.Document, error) {
	doc, err := record.ReadFile(path, a.cfg.Records.ExamBasicFields)
	if err != nil {
		return record.Document{}, err
	}
	doc.Ref = record.Ref{Kind: record.KindCollege, ID: path}
	if opts.exam {
		doc.Ref.Kind = record.KindExam
	}
	return doc, nil
}

type sectionsOptions struct {
	fileOptions
	tab      string
	jsonMode bool
}

func newSectionsCmd(a *app) *cobra.Command {
	opts := &sectionsOptions{}
	cmd := &cobra.Command{
		Use:   "sections FILE",
		Short: "Show the sections of a record file grouped by tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sections(cmd.OutOrStdout(), args[0], opts)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.tab, "tab", "", "Only show this tab")
	cmd.Flags().BoolVar(&opts.jsonMode, "json", false, "Print JSON instead of a table")
	return cmd
}

func (a *app) sections(w io.Writer, path string, opts *sectionsOptions) error {
	doc, err := a.readRecord(path, opts.fileOptions)
	if err != nil {
		return err
	}

	session := record.NewSession(nil, a.sessionOptions()...)
	session.Open(doc)
	tabs, err := session.Tabs()
	if err != nil {
		return err
	}
	unassigned, err := session.Unassigned()
	if err != nil {
		return err
	}

	if opts.tab != "" {
		var found []sections.Tab
		for _, tab := range tabs {
			if tab.Name == opts.tab {
				found = append(found, tab)
			}
		}
		if len(found) == 0 {
			return fmt.Errorf("tab not found: %s", opts.tab)
		}
		tabs, unassigned = found, nil
	}

	dtos := sections.TabsToDTO(tabs)
	if opts.jsonMode {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Tabs       []*sections.TabDTO `json:"tabs"`
			Unassigned []string           `json:"unassigned,omitempty"`
		}{dtos, unassigned})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tab := range dtos {
		_, _ = fmt.Fprintf(tw, "%s (%d)\n", tab.Name, tab.Count)
		for _, sec := range tab.Sections {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\n", sec.Key, sec.Shape, sec.Kind)
		}
	}
	if len(unassigned) > 0 {
		_, _ = fmt.Fprintf(tw, "unassigned (%d)\n", len(unassigned))
		for _, key := range unassigned {
			_, _ = fmt.Fprintf(tw, "  %s\n", key)
		}
	}
	return tw.Flush()
}
