package reconcile

import (
	"log/slog"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is the instrumentation name used when no tracer is set.
const defaultTracerName = "github.com/vango-dev/reconcile"

// Builder creates unattached live nodes from descriptions. dom.Factory is
// the standard implementation.
type Builder interface {
	Build(node *vdom.VNode, stamp dom.StampFunc) dom.Node
}

// AttributeSync makes a live element's attributes and listeners match props.
type AttributeSync func(props vdom.Props, el dom.Element)

// TextCompare selects what a bare text child is compared against.
type TextCompare uint8

const (
	// CompareLive compares the next text with the live node at the same
	// position and replaces it when the content differs.
	CompareLive TextCompare = iota

	// CompareDescriptions keeps the live node untouched when the previous
	// description at the same position had the same text, and falls back to
	// CompareLive otherwise.
	CompareDescriptions
)

// String returns the string representation of the TextCompare.
func (c TextCompare) String() string {
	switch c {
	case CompareLive:
		return "live"
	case CompareDescriptions:
		return "descriptions"
	default:
		return "unknown"
	}
}

// ParseTextCompare parses "live" or "descriptions". It reports false for
// anything else.
func ParseTextCompare(s string) (TextCompare, bool) {
	switch s {
	case "", "live":
		return CompareLive, true
	case "descriptions":
		return CompareDescriptions, true
	default:
		return CompareLive, false
	}
}

// Config configures a Reconciler.
type Config struct {
	// Logger receives dev warnings and re-entrancy warnings.
	// Default: slog.Default().
	Logger *slog.Logger

	// DevWarnings logs every branch that is skipped because a live node is
	// missing or could not be built. Control flow is unchanged.
	DevWarnings bool

	// PropSync applies props changes in place instead of replacing the
	// element. Tag and key changes still replace.
	PropSync bool

	// TextCompare selects how bare text children are diffed.
	TextCompare TextCompare

	// Sync is the attribute sync routine. Default: dom.ApplyProps.
	Sync AttributeSync

	// TracerName names the OpenTelemetry tracer taken from the global
	// provider when Tracer is nil.
	TracerName string

	// Tracer overrides the global tracer.
	Tracer trace.Tracer

	// Observers are notified after every pass.
	Observers []Observer
}

// Option configures a Reconciler.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithDevWarnings enables warnings for silently skipped branches.
func WithDevWarnings(enabled bool) Option {
	return func(c *Config) {
		c.DevWarnings = enabled
	}
}

// WithPropSync enables in-place props updates.
func WithPropSync(enabled bool) Option {
	return func(c *Config) {
		c.PropSync = enabled
	}
}

// WithTextCompare sets the bare text diff mode.
func WithTextCompare(mode TextCompare) Option {
	return func(c *Config) {
		c.TextCompare = mode
	}
}

// WithAttributeSync replaces the attribute sync routine.
func WithAttributeSync(sync AttributeSync) Option {
	return func(c *Config) {
		c.Sync = sync
	}
}

// WithTracerName sets the name of the tracer taken from the global provider.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer used for pass spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

// WithObserver adds a pass observer.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		if o != nil {
			c.Observers = append(c.Observers, o)
		}
	}
}

func defaultConfig() Config {
	return Config{
		TextCompare: CompareLive,
		TracerName:  defaultTracerName,
	}
}

func (c *Config) resolve() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Sync == nil {
		c.Sync = dom.ApplyProps
	}
	if c.TracerName == "" {
		c.TracerName = defaultTracerName
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(c.TracerName)
	}
}
