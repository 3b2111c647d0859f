package main

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/metrics"
	"github.com/vango-dev/reconcile/pkg/reconcile"
)

// globals holds persistent flags and the resolved configuration.
type globals struct {
	stdout, stderr io.Writer

	configDir string
	logLevel  string
	logFormat string
	propSync  bool

	cfg    *config.Config
	logger *slog.Logger
}

// load resolves reconcile.json and applies flag overrides.
func (g *globals) load() error {
	var (
		cfg *config.Config
		err error
	)
	if g.configDir != "" {
		cfg, err = config.LoadOrDefault(g.configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if g.propSync {
		cfg.Reconcile.PropSync = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g.cfg = cfg
	g.logger = cfg.NewLogger(g.stderr)
	return nil
}

// newCollector returns a metrics collector on a private registry when
// metrics are enabled, and nil otherwise.
func (g *globals) newCollector() *metrics.Collector {
	if !g.cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New(
		metrics.WithNamespace(g.cfg.Metrics.Namespace),
		metrics.WithRegistry(prometheus.NewRegistry()),
	)
}

// target is a document with a session rendering into its root.
type target struct {
	doc     *dom.MemoryDocument
	session *reconcile.Session
	rec     *reconcile.Reconciler
}

func (g *globals) newTarget(opts ...reconcile.Option) *target {
	doc := dom.NewDocument(g.cfg.Reconcile.Root)
	ropts := append([]reconcile.Option{reconcile.WithLogger(g.logger)}, g.cfg.ReconcileOptions()...)
	ropts = append(ropts, opts...)
	return &target{
		doc:     doc,
		session: reconcile.NewSession(doc.Root()),
		rec:     reconcile.New(dom.NewFactory(doc), ropts...),
	}
}

// formatActions renders the non-zero action counts as "name=n" pairs.
func formatActions(stats reconcile.PassStats) string {
	var parts []string
	for _, a := range reconcile.Actions {
		if n := stats.Count(a); n > 0 {
			parts = append(parts, a.String()+"="+strconv.Itoa(n))
		}
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, " ")
}
