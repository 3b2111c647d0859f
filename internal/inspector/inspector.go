package inspector

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/internal/treefile"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/metrics"
	"github.com/vango-dev/reconcile/pkg/middleware"
	"github.com/vango-dev/reconcile/pkg/reconcile"
	"github.com/vango-dev/reconcile/pkg/render"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// MessageType identifies what a Message carries.
type MessageType string

const (
	TypeSnapshot MessageType = "snapshot"
	TypePass     MessageType = "pass"
	TypeError    MessageType = "error"
)

// Mutation is a MutationRecord in wire form. Nodes are given as HTML.
type Mutation struct {
	Op     string `json:"op"`
	Target string `json:"target"`
	Node   string `json:"node,omitempty"`
	Old    string `json:"old,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

// MutationFrom converts a document mutation record to wire form.
func MutationFrom(rec dom.MutationRecord) Mutation {
	m := Mutation{
		Op:    rec.Op.String(),
		Key:   rec.Key,
		Value: rec.Value,
	}
	if rec.Target != nil {
		m.Target = rec.Target.NodeName()
	}
	if rec.Node != nil {
		m.Node = render.HTML(rec.Node)
	}
	if rec.Old != nil {
		m.Old = render.HTML(rec.Old)
	}
	return m
}

// String formats the mutation as a single line, e.g.
// "replace <ul> <li>b</li> (was <li>a</li>)".
func (m Mutation) String() string {
	var b strings.Builder
	b.WriteString(m.Op + " <" + m.Target + ">")
	switch {
	case m.Key != "" && m.Value == "" && m.Op != "set-attr":
		b.WriteString(" " + m.Key)
	case m.Key != "":
		b.WriteString(" " + m.Key + "=" + strconv.Quote(m.Value))
	case m.Node != "":
		b.WriteString(" " + m.Node)
	}
	if m.Old != "" {
		b.WriteString(" (was " + m.Old + ")")
	}
	return b.String()
}

// Message is sent to browsers via WebSocket.
type Message struct {
	Type       MessageType    `json:"type"`
	Session    string         `json:"session,omitempty"`
	Pass       uint64         `json:"pass,omitempty"`
	Dropped    bool           `json:"dropped,omitempty"`
	DurationMS float64        `json:"durationMs,omitempty"`
	Actions    map[string]int `json:"actions,omitempty"`
	Mutations  []Mutation     `json:"mutations,omitempty"`
	HTML       string         `json:"html,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Options configures an Inspector.
type Options struct {
	// Reconcile are passed to the inspector's reconciler.
	Reconcile []reconcile.Option

	// Metrics, when set, observes every pass and mutation and is served
	// on MetricsPath.
	Metrics     *metrics.Collector
	MetricsPath string

	Logger *slog.Logger
}

// Inspector owns a session over an in-memory document and publishes every
// pass made on it.
type Inspector struct {
	doc     *dom.MemoryDocument
	session *reconcile.Session
	rec     *reconcile.Reconciler
	hub     *Hub
	options Options
	logger  *slog.Logger
	pretty  *render.Renderer

	mu         sync.Mutex
	journal    []Mutation
	last       *Message
	lastPretty string
	cancel     func()

	routerOnce sync.Once
	router     http.Handler
}

// New creates an Inspector for doc. The session renders into the document
// root.
func New(doc *dom.MemoryDocument, opts Options) *Inspector {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	i := &Inspector{
		doc:     doc,
		session: reconcile.NewSession(doc.Root()),
		hub:     NewHub(logger),
		options: opts,
		logger:  logger,
		pretty:  render.NewRenderer(render.Config{Pretty: true}),
	}
	i.hub.hello = i.Last

	ropts := append([]reconcile.Option{reconcile.WithLogger(logger)}, opts.Reconcile...)
	ropts = append(ropts, reconcile.WithObserver(i))
	if opts.Metrics != nil {
		ropts = append(ropts, reconcile.WithObserver(opts.Metrics))
	}
	i.rec = reconcile.New(dom.NewFactory(doc), ropts...)

	i.cancel = doc.Observe(i.record)
	i.snapshot(&Message{Type: TypeSnapshot, Session: i.session.ID})
	return i
}

// Reconciler returns the inspector's reconciler.
func (i *Inspector) Reconciler() *reconcile.Reconciler { return i.rec }

// Session returns the inspected session.
func (i *Inspector) Session() *reconcile.Session { return i.session }

// Hub returns the WebSocket hub.
func (i *Inspector) Hub() *Hub { return i.hub }

// Apply reconciles the session root to next.
func (i *Inspector) Apply(ctx context.Context, next *vdom.VNode) reconcile.PassStats {
	return i.rec.ReconcileRoot(ctx, i.session, next)
}

// ReportError tells connected clients that a tree could not be applied.
func (i *Inspector) ReportError(err error) {
	if err == nil {
		return
	}
	msg := &Message{Type: TypeError, Session: i.session.ID, Error: errors.FromError(err, "E001").FormatCompact()}
	i.hub.Broadcast(msg)
}

// Last returns the most recent message: the last pass, or the initial
// snapshot before any pass.
func (i *Inspector) Last() *Message {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last
}

// ObservePass implements reconcile.Observer. Completed passes run it while
// the session is locked, so the document is stable while it renders.
func (i *Inspector) ObservePass(stats reconcile.PassStats) {
	msg := &Message{
		Type:       TypePass,
		Session:    stats.Session,
		Pass:       stats.Pass,
		Dropped:    stats.Dropped,
		DurationMS: float64(stats.Duration) / float64(time.Millisecond),
		Actions:    make(map[string]int),
	}
	for _, a := range reconcile.Actions {
		if n := stats.Count(a); n > 0 {
			msg.Actions[a.String()] = n
		}
	}

	if stats.Dropped {
		i.hub.Broadcast(msg)
		return
	}

	i.mu.Lock()
	msg.Mutations = i.journal
	i.journal = nil
	i.mu.Unlock()

	i.snapshot(msg)
	i.hub.Broadcast(msg)
}

// snapshot fills in the document HTML and remembers msg as the latest.
func (i *Inspector) snapshot(msg *Message) {
	msg.HTML = render.InnerHTML(i.doc.Root())
	pretty, err := i.pretty.RenderToString(i.doc.Root())
	if err != nil {
		pretty = msg.HTML
	}

	i.mu.Lock()
	i.last = msg
	i.lastPretty = pretty
	i.mu.Unlock()
}

func (i *Inspector) record(rec dom.MutationRecord) {
	if i.options.Metrics != nil {
		i.options.Metrics.ObserveMutation(rec)
	}

	m := MutationFrom(rec)
	i.mu.Lock()
	i.journal = append(i.journal, m)
	i.mu.Unlock()
}

// Handler returns the inspector's HTTP routes. The router is built once;
// its request metrics are registered with the collector's registry.
func (i *Inspector) Handler() http.Handler {
	i.routerOnce.Do(func() { i.router = i.routes() })
	return i.router
}

func (i *Inspector) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(middleware.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != i.options.MetricsPath
	})))
	if c := i.options.Metrics; c != nil {
		r.Use(middleware.Prometheus(
			middleware.WithRegistry(c.Registerer()),
			middleware.WithNamespace(c.Namespace()),
			middleware.WithSubsystem("inspector"),
		))
	}

	r.Get("/", i.handleIndex)
	r.Get("/ws", i.hub.HandleWebSocket)
	r.Get("/tree", i.handleTree)
	r.Post("/tree", i.handleApply)
	r.Get("/stats", i.handleStats)
	if i.options.Metrics != nil {
		r.Handle(i.options.MetricsPath, i.options.Metrics.Handler())
	}
	return r
}

func (i *Inspector) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexPage)
}

func (i *Inspector) handleTree(w http.ResponseWriter, r *http.Request) {
	i.mu.Lock()
	html := i.last.HTML
	if pretty := r.URL.Query().Get("pretty"); pretty != "" && pretty != "0" && pretty != "false" {
		html = i.lastPretty
	}
	i.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

func (i *Inspector) handleApply(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("E002").Wrap(err))
		return
	}

	var codec vdom.Codec = vdom.YAMLCodec{}
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		codec = vdom.JSONCodec{}
	}
	next, err := treefile.Decode("", data, codec)
	if err != nil {
		i.ReportError(err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	i.Apply(r.Context(), next)
	writeJSON(w, http.StatusOK, i.Last())
}

func (i *Inspector) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, i.Last())
}

// Serve listens on addr and serves the inspector until ctx is done.
func (i *Inspector) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.New("E060").
			WithDetail("Could not listen on " + addr).
			WithSuggestion("Pick another address with --addr or inspector.addr").
			Wrap(err)
	}
	return i.ServeListener(ctx, ln)
}

// ServeListener serves the inspector on ln until ctx is done.
func (i *Inspector) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           i.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	i.logger.Info("inspector listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	i.hub.Close()
	return srv.Shutdown(shutdownCtx)
}

// Close stops observing the document and disconnects every client.
func (i *Inspector) Close() {
	i.cancel()
	i.hub.Close()
}
