package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/replace"
	"github.com/edudesk/contentdesk/internal/value"
)

type replaceOptions struct {
	fileOptions
	find    string
	repl    string
	yes     bool
	outPath string
}

func newReplaceCmd(a *app) *cobra.Command {
	opts := &replaceOptions{}
	cmd := &cobra.Command{
		Use:   "replace FILE",
		Short: "Replace text across the basic data and every section of a record file",
		Long: "Replace text across the basic data and every section of a record file. " +
			"Without --yes the matches are only reported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.replace(cmd.OutOrStdout(), args[0], opts)
		},
	}
	opts.bind(cmd)
	flags := cmd.Flags()
	flags.StringVar(&opts.find, "find", "", "Text to search for (case-sensitive)")
	flags.StringVar(&opts.repl, "replace", "", "Replacement text")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Apply the replacement")
	flags.StringVarP(&opts.outPath, "out", "o", "", "Write the result here instead of over FILE")
	_ = cmd.MarkFlagRequired("find")
	return cmd
}

func (a *app) replace(w io.Writer, path string, opts *replaceOptions) error {
	doc, err := a.readRecord(path, opts.fileOptions)
	if err != nil {
		return err
	}

	matches := record.CountMatches(doc, opts.find)
	if matches == 0 {
		_, err := fmt.Fprintf(w, "No occurrences of %q.\n", opts.find)
		return err
	}

	for field, v := range doc.Basic.All() {
		if value.IsScalar(v) && replace.Count(v, opts.find) > 0 {
			_, _ = fmt.Fprintf(w, "basic %s: %s\n", field, highlight(value.Text(v), opts.find))
		}
	}
	for _, sec := range doc.Sections.Sections() {
		if n := replace.Count(sec.Value, opts.find); n > 0 {
			_, _ = fmt.Fprintf(w, "section %s: %d\n", sec.Key, n)
		}
	}

	pending := record.ReplaceDocument(doc, opts.find, opts.repl)
	if !opts.yes {
		_, err := fmt.Fprintf(w, "%s\nRe-run with --yes to apply.\n", pending.Prompt)
		return err
	}

	out := opts.outPath
	if out == "" {
		out = path
	}
	if err := record.WriteFile(out, pending.Confirm()); err != nil {
		return err
	}

	a.logger.Info("Replacement applied",
		slog.String("file", out),
		slog.Int("matches", matches))
	_, err = fmt.Fprintf(w, "Replaced %d occurrences, wrote %s.\n", matches, out)
	return err
}

// highlight marks matches of search in text with brackets.
func highlight(text, search string) string {
	var b strings.Builder
	for _, seg := range replace.Highlight(text, search) {
		if seg.Match {
			b.WriteString("[[" + seg.Text + "]]")
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
