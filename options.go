package facts

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/facts/config"
	"github.com/zero-day-ai/facts/exec"
	"github.com/zero-day-ai/facts/host"
	"github.com/zero-day-ai/facts/plugin"
)

// Option configures a Collector.
type Option func(*collectorConfig)

// collectorConfig holds configuration for the Collector instance.
type collectorConfig struct {
	config     *config.Config
	configPath string
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	runner     exec.Runner
	files      host.FileSystem
	hasher     host.Hasher
	attributes host.Attributes
	plugins    []plugin.Plugin
}

// WithConfig sets an already loaded configuration.
// It takes precedence over WithConfigFile.
func WithConfig(cfg *config.Config) Option {
	return func(c *collectorConfig) {
		c.config = cfg
	}
}

// WithConfigFile loads the configuration from a facts.yaml file or a
// directory containing one.
func WithConfigFile(path string) Option {
	return func(c *collectorConfig) {
		c.configPath = path
	}
}

// WithLogger sets a custom logger for the collector and its registry.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *collectorConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. Every fact computation gets a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *collectorConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for resolution metrics.
func WithMeter(meter metric.Meter) Option {
	return func(c *collectorConfig) {
		c.meter = meter
	}
}

// WithRunner replaces the shell runner built from the command section.
func WithRunner(runner exec.Runner) Option {
	return func(c *collectorConfig) {
		c.runner = runner
	}
}

// WithFileSystem replaces the real filesystem.
func WithFileSystem(files host.FileSystem) Option {
	return func(c *collectorConfig) {
		c.files = files
	}
}

// WithHasher replaces the MD5 content hasher.
func WithHasher(hasher host.Hasher) Option {
	return func(c *collectorConfig) {
		c.hasher = hasher
	}
}

// WithAttributes replaces the detected host attributes. The attributes
// section of the configuration is still layered on top.
func WithAttributes(attrs host.Attributes) Option {
	return func(c *collectorConfig) {
		c.attributes = attrs
	}
}

// WithPlugins installs additional plugins after the built-in ones.
func WithPlugins(plugins ...plugin.Plugin) Option {
	return func(c *collectorConfig) {
		c.plugins = append(c.plugins, plugins...)
	}
}
