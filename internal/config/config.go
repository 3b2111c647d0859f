package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/reconcile"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reconcile.json"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:7070"

	// DefaultDebounce is the default delay between a file write and the pass
	// it triggers.
	DefaultDebounce = 50 * time.Millisecond

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vdom"

	// DefaultRootTag is the tag of the in-memory document root.
	DefaultRootTag = "body"
)

// Config represents the complete reconcile.json configuration.
type Config struct {
	// Log configures the slog handler.
	Log LogConfig `json:"log,omitempty"`

	// Reconcile configures the reconciler.
	Reconcile ReconcileConfig `json:"reconcile,omitempty"`

	// Watch configures vdomctl watch.
	Watch WatchConfig `json:"watch,omitempty"`

	// Inspector configures vdomctl serve.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Metrics configures the Prometheus collector.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// ReconcileConfig contains reconciler settings.
type ReconcileConfig struct {
	// Root is the tag of the in-memory root element.
	Root string `json:"root,omitempty"`

	// DevWarnings logs branches skipped for missing live nodes.
	DevWarnings bool `json:"devWarnings,omitempty"`

	// PropSync updates elements in place when only their props change.
	PropSync bool `json:"propSync,omitempty"`

	// TextCompare is live or descriptions.
	TextCompare string `json:"textCompare,omitempty"`
}

// WatchConfig contains file watching settings.
type WatchConfig struct {
	// Debounce is the quiet period after a write before reconciling
	// (e.g., "50ms").
	Debounce string `json:"debounce,omitempty"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	// Addr is the host:port to listen on.
	Addr string `json:"addr,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the collector and serves Path on the inspector.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`

	// Path is the inspector route for the metrics handler.
	Path string `json:"path,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Reconcile: ReconcileConfig{
			Root:        DefaultRootTag,
			TextCompare: reconcile.CompareLive.String(),
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce.String(),
		},
		Inspector: InspectorConfig{
			Addr: DefaultInspectorAddr,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      "/metrics",
		},
	}
}

// Load reads reconcile.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault reads reconcile.json from dir, or returns the defaults when
// the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E020").
			WithLocation(path, 0, 0).
			WithDetail("Could not read " + path).
			Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New("E020").
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)
		if se, ok := err.(*json.SyntaxError); ok {
			line, col := position(data, se.Offset)
			return nil, e.WithLocation(path, line, col)
		}
		return nil, e.WithLocation(path, 0, 0)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := string(data[:offset])
	line = strings.Count(prefix, "\n") + 1
	col = max(1, len(prefix)-1-strings.LastIndex(prefix, "\n"))
	return line, col
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E020").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E020").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Reconcile.Root == "" {
		c.Reconcile.Root = DefaultRootTag
	}
	if c.Reconcile.TextCompare == "" {
		c.Reconcile.TextCompare = reconcile.CompareLive.String()
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce.String()
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return c.invalid("E021", "got "+quote(c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return c.invalid("E022", "got "+quote(c.Log.Format))
	}
	if _, ok := reconcile.ParseTextCompare(c.Reconcile.TextCompare); !ok {
		return c.invalid("E023", "got "+quote(c.Reconcile.TextCompare))
	}
	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d < 0 {
		return c.invalid("E024", "got "+quote(c.Watch.Debounce))
	}
	if _, _, err := net.SplitHostPort(c.Inspector.Addr); err != nil {
		return c.invalid("E025", err.Error())
	}
	return nil
}

func (c *Config) invalid(code, detail string) error {
	tmpl, _ := errors.GetTemplate(code)
	e := errors.New(code).WithDetail(tmpl.Detail + " (" + detail + ")")
	if c.configPath != "" {
		e = e.WithLocation(c.configPath, 0, 0)
	}
	return e
}

func quote(s string) string {
	return `"` + s + `"`
}

// WatchDebounce returns the parsed debounce duration.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return DefaultDebounce
	}
	return d
}

// ReconcileOptions returns the reconciler options described by the
// configuration.
func (c *Config) ReconcileOptions() []reconcile.Option {
	mode, _ := reconcile.ParseTextCompare(c.Reconcile.TextCompare)
	return []reconcile.Option{
		reconcile.WithDevWarnings(c.Reconcile.DevWarnings),
		reconcile.WithPropSync(c.Reconcile.PropSync),
		reconcile.WithTextCompare(mode),
	}
}

// NewLogger builds a slog logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindRoot walks up from startDir to the first directory containing
// reconcile.json. It reports false when there is none.
func FindRoot(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		if Exists(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest reconcile.json at or above the
// working directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, ok := FindRoot(wd)
	if !ok {
		return New(), nil
	}
	return Load(root)
}
