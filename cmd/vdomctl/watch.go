package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/internal/treefile"
	"github.com/vango-dev/reconcile/internal/watch"
	"github.com/vango-dev/reconcile/pkg/reconcile"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// applyFunc reconciles a decoded tree into some session.
type applyFunc func(ctx context.Context, next *vdom.VNode) reconcile.PassStats

type watchOptions struct {
	html   bool
	pretty bool
}

func watchCmd(g *globals) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Reconcile a tree file every time it changes",
		Long: `Watch a tree file and reconcile the document on every save.

Each pass prints its action counts. Files that fail to parse are
reported and skipped; the document keeps its last good state.

Examples:
  vdomctl watch page.yaml
  vdomctl watch --html --pretty page.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("E080").WithSuggestion("vdomctl watch tree.yaml")
			}
			if err := g.load(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, g, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "Print the document after every pass")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent printed HTML")

	return cmd
}

func runWatch(ctx context.Context, g *globals, file string, opts watchOptions) error {
	t := g.newTarget()
	apply := func(ctx context.Context, next *vdom.VNode) reconcile.PassStats {
		stats := t.rec.ReconcileRoot(ctx, t.session, next)
		if opts.html {
			if err := writeHTML(g, t.doc.Root(), opts.pretty); err != nil {
				g.warn("Could not print %s: %v", filepath.Base(file), err)
			}
		}
		return stats
	}

	g.info("Watching %s", file)
	return watchFile(ctx, g, file, apply, nil)
}

// watchFile applies file once and then on every change until ctx is done.
// onError, when set, also receives load failures.
func watchFile(ctx context.Context, g *globals, file string, apply applyFunc, onError func(error)) error {
	load := func() {
		next, err := treefile.Load(file)
		if err != nil {
			errors.Print(g.stderr, err)
			if onError != nil {
				onError(err)
			}
			return
		}
		stats := apply(ctx, next)
		g.success("%s pass %d: %s", filepath.Base(file), stats.Pass, formatActions(stats))
	}
	load()

	w := watch.New(watch.Config{
		Paths:    []string{file},
		Debounce: g.cfg.WatchDebounce(),
		Logger:   g.logger,
	})
	w.OnChange(func(c watch.Change) {
		if c.Op == watch.OpRemove {
			g.warn("%s was removed; waiting for it to come back", filepath.Base(c.Path))
			return
		}
		load()
	})

	err := w.Start(ctx)
	if err != nil && ctx.Err() != nil && stderrors.Is(err, ctx.Err()) {
		fmt.Fprintln(g.stderr)
		g.info("Stopped")
		return nil
	}
	return err
}
