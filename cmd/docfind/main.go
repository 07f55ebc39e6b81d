package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/docfind/internal/convert"
	"github.com/dgallion1/docfind/internal/dom"
	"github.com/dgallion1/docfind/internal/findbar"
	"github.com/spf13/cobra"
)

type findOptions struct {
	query     string
	next      int
	prev      int
	rulesFile string
	list      bool
	out       string
	verbose   bool
	pdftotext bool
}

var (
	opts findOptions

	rootCmd = &cobra.Command{
		Use:   "docfind <file>",
		Short: "Highlight every occurrence of a query in a document",
		Long: `docfind loads an HTML, Markdown, text, CSV, DOCX or PDF file, marks every
case-insensitive occurrence of --query in its visible text and writes the
highlighted HTML. The focused match carries id="find-current".`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&opts.query, "query", "q", "", "Text to find")
	rootCmd.Flags().IntVar(&opts.next, "next", 0, "Advance the focused match this many times")
	rootCmd.Flags().IntVar(&opts.prev, "prev", 0, "Move the focused match back this many times")
	rootCmd.Flags().StringVar(&opts.rulesFile, "rules", "", "YAML file with extra tags, ids and classes to skip")
	rootCmd.Flags().BoolVar(&opts.list, "list", false, "Print each match instead of the highlighted HTML")
	rootCmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write HTML to this path instead of stdout")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log search passes to stderr")
	rootCmd.Flags().BoolVar(&opts.pdftotext, "pdftotext", true, "Fall back to pdftotext when PDF extraction fails")
	rootCmd.MarkFlagRequired("query")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runFind(path string, o findOptions, stdout, stderr io.Writer) error {
	if o.next < 0 || o.prev < 0 {
		return fmt.Errorf("--next and --prev must not be negative")
	}

	rules := dom.DefaultRules()
	if o.rulesFile != "" {
		extra, err := dom.LoadRules(o.rulesFile)
		if err != nil {
			return err
		}
		rules = rules.Merge(extra)
	}

	conv, err := convert.ForFile(path, convert.Options{PDFFallbackPdftotext: o.pdftotext})
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	doc, err := conv.Convert(f, path)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctrl := findbar.New(doc, findbar.Options{Exclude: rules.Predicate(), Logger: log})
	st := ctrl.Dispatch(findbar.Open(o.query))
	for range o.next {
		st = ctrl.Dispatch(findbar.Next())
	}
	for range o.prev {
		st = ctrl.Dispatch(findbar.Previous())
	}

	if o.list {
		for i, m := range ctrl.Matches() {
			marker := " "
			if i+1 == st.Current {
				marker = "*"
			}
			fmt.Fprintf(stdout, "%s %d\tleaf %d\toffset %d\t%q\n", marker, i+1, m.Leaf, m.Offset, m.Text)
		}
	} else if err := writeHTML(doc, o.out, stdout); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "%s: %s\n", convert.TitleOf(doc, path), st)
	return nil
}

func writeHTML(doc *dom.Document, out string, stdout io.Writer) error {
	if out == "" {
		return doc.Render(stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := doc.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render: %w", err)
	}
	return f.Close()
}
