package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/reconcile"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestCollectorObservesPasses(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg))

	doc := dom.NewDocument("")
	cancel := doc.Observe(c.ObserveMutation)
	defer cancel()

	s := reconcile.NewSession(doc.Root())
	r := reconcile.New(dom.NewFactory(doc), reconcile.WithObserver(c))

	ctx := context.Background()
	r.ReconcileRoot(ctx, s, vdom.Ul(vdom.Li("a"), vdom.Li("b")))
	r.ReconcileRoot(ctx, s, vdom.Ul(vdom.Li("a")))

	if got := counterValue(t, c.passesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("passes_total(ok) = %v, want 2", got)
	}
	if got := histogramCount(t, c.passDuration); got != 2 {
		t.Errorf("pass_duration_seconds count = %v, want 2", got)
	}
	if got := counterValue(t, c.actionsTotal.WithLabelValues("append")); got != 1 {
		t.Errorf("actions_total(append) = %v, want 1", got)
	}
	if got := counterValue(t, c.actionsTotal.WithLabelValues("remove")); got != 1 {
		t.Errorf("actions_total(remove) = %v, want 1", got)
	}
	if got := counterValue(t, c.mutationsTotal.WithLabelValues("append")); got != 1 {
		t.Errorf("mutations_total(append) = %v, want 1", got)
	}
	if got := counterValue(t, c.mutationsTotal.WithLabelValues("remove")); got != 1 {
		t.Errorf("mutations_total(remove) = %v, want 1", got)
	}
}

func TestCollectorDroppedPass(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))
	c.ObservePass(reconcile.PassStats{Dropped: true})

	if got := counterValue(t, c.passesTotal.WithLabelValues("dropped")); got != 1 {
		t.Errorf("passes_total(dropped) = %v, want 1", got)
	}
	if got := histogramCount(t, c.passDuration); got != 0 {
		t.Errorf("dropped passes should not be timed, count = %v", got)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("test"), WithConstLabels(prometheus.Labels{"app": "x"}))
	c.ObservePass(reconcile.PassStats{})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Result().Body)

	if !strings.Contains(string(body), `test_passes_total{app="x",status="ok"} 1`) {
		t.Errorf("metrics output missing pass counter:\n%s", body)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	New(WithRegistry(reg))
}
