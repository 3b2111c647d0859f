package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/inspector"
	"github.com/vango-dev/reconcile/pkg/dom"
)

func serveCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [FILE]",
		Short: "Start the inspector",
		Long: `Start the inspector web UI.

The inspector shows the document and a log of every pass. With a FILE
argument the file is watched and reconciled on every save; trees can
also be POSTed to /tree.

Examples:
  vdomctl serve page.yaml
  vdomctl serve --addr localhost:9000
  curl -X POST --data-binary @page.yaml localhost:7070/tree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := g.load(); err != nil {
				return err
			}
			if addr != "" {
				g.cfg.Inspector.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var file string
			if len(args) > 0 {
				file = args[0]
			}
			return runServe(ctx, g, file)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from reconcile.json)")

	return cmd
}

func runServe(ctx context.Context, g *globals, file string) error {
	insp := inspector.New(dom.NewDocument(g.cfg.Reconcile.Root), inspector.Options{
		Reconcile:   g.cfg.ReconcileOptions(),
		Metrics:     g.newCollector(),
		MetricsPath: g.cfg.Metrics.Path,
		Logger:      g.logger,
	})
	defer insp.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	if file != "" {
		go func() {
			err := watchFile(ctx, g, file, insp.Apply, insp.ReportError)
			if err != nil {
				cancel()
			}
			watchErr <- err
		}()
	}

	g.success("Inspector on http://%s", g.cfg.Inspector.Addr)
	err := insp.Serve(ctx, g.cfg.Inspector.Addr)
	cancel()

	if file != "" {
		if werr := <-watchErr; err == nil {
			err = werr
		}
	}
	return err
}
