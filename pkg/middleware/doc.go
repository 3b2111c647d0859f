// Package middleware provides net/http middleware for the inspector's HTTP
// surface.
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span for every request. When the handler is
// a chi router the span is named after the matched route pattern:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-inspector"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/metrics"
//	    }),
//	))
//
// The tracer comes from the global provider; without one configured the
// spans are no-ops.
//
// # Prometheus
//
// Prometheus counts requests by method, route and status and observes their
// duration:
//
//	r.Use(middleware.Prometheus(
//	    middleware.WithNamespace("vdom"),
//	    middleware.WithSubsystem("inspector"),
//	    middleware.WithRegistry(reg),
//	))
//
// Long-lived WebSocket requests are counted when they end.
package middleware
