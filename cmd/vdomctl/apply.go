package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/internal/inspector"
	"github.com/vango-dev/reconcile/internal/treefile"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/reconcile"
	"github.com/vango-dev/reconcile/pkg/render"
)

// passResult is one file's pass in apply's json output.
type passResult struct {
	File      string               `json:"file"`
	Pass      uint64               `json:"pass"`
	Actions   map[string]int       `json:"actions"`
	Mutations []inspector.Mutation `json:"mutations"`
}

type applyOptions struct {
	output  string
	pretty  bool
	journal bool
}

func applyCmd(g *globals) *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply FILE...",
		Short: "Reconcile tree files in order and print the result",
		Long: `Reconcile each tree file in turn into one document.

The first file builds the document; every following file is diffed
against the one before it. The output shows the final document or what
each pass did.

Outputs:
  html    the final document (default)
  stats   one line per pass with its action counts
  json    every pass with its mutations, plus the final document

Examples:
  vdomctl apply before.yaml after.yaml
  vdomctl apply -o stats --journal v1.json v2.json v3.json
  vdomctl apply --pretty page.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), g, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "html", "Output format: html, stats, json")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent HTML output")
	cmd.Flags().BoolVar(&opts.journal, "journal", false, "List every mutation in stats output")

	return cmd
}

func runApply(ctx context.Context, g *globals, files []string, opts applyOptions) error {
	if len(files) == 0 {
		return errors.New("E080").WithSuggestion("vdomctl apply tree.yaml")
	}
	switch opts.output {
	case "html", "stats", "json":
	default:
		return errors.New("E081").WithDetail(fmt.Sprintf("Got %q; use html, stats or json.", opts.output))
	}
	if err := g.load(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var ropts []reconcile.Option
	collector := g.newCollector()
	if collector != nil {
		ropts = append(ropts, reconcile.WithObserver(collector))
	}
	t := g.newTarget(ropts...)

	var journal []inspector.Mutation
	cancel := t.doc.Observe(func(rec dom.MutationRecord) {
		journal = append(journal, inspector.MutationFrom(rec))
		if collector != nil {
			collector.ObserveMutation(rec)
		}
	})
	defer cancel()

	results := make([]passResult, 0, len(files))
	for _, file := range files {
		next, err := treefile.Load(file)
		if err != nil {
			return err
		}
		journal = nil
		stats := t.rec.ReconcileRoot(ctx, t.session, next)

		res := passResult{File: file, Pass: stats.Pass, Actions: map[string]int{}, Mutations: journal}
		for _, a := range reconcile.Actions {
			if n := stats.Count(a); n > 0 {
				res.Actions[a.String()] = n
			}
		}
		results = append(results, res)
		g.logger.Debug("applied", "file", file, "pass", stats.Pass, "mutations", len(journal))

		if opts.output == "stats" {
			fmt.Fprintf(g.stdout, "%s\tpass %d\t%s\n", filepath.Base(file), stats.Pass, formatActions(stats))
			if opts.journal {
				for _, m := range res.Mutations {
					fmt.Fprintf(g.stdout, "\t%s\n", m)
				}
			}
		}
	}

	switch opts.output {
	case "html":
		return writeHTML(g, t.doc.Root(), opts.pretty)
	case "json":
		enc := json.NewEncoder(g.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Passes []passResult `json:"passes"`
			HTML   string       `json:"html"`
		}{results, render.InnerHTML(t.doc.Root())})
	}
	return nil
}

// writeHTML prints the document root's content.
func writeHTML(g *globals, root dom.Element, pretty bool) error {
	if !pretty {
		_, err := fmt.Fprintln(g.stdout, render.InnerHTML(root))
		return err
	}
	r := render.NewRenderer(render.Config{Pretty: true})
	var b strings.Builder
	for _, child := range root.ChildNodes() {
		if err := r.RenderToWriter(&b, child); err != nil {
			return err
		}
		b.WriteByte('\n')
	}
	_, err := fmt.Fprint(g.stdout, b.String())
	return err
}
