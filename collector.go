package facts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/zero-day-ai/facts/config"
	"github.com/zero-day-ai/facts/fact"
	"github.com/zero-day-ai/facts/host"
	"github.com/zero-day-ai/facts/plugin"
	"github.com/zero-day-ai/facts/puppet"
)

// ExternalPluginName is the plugin holding the configured external facts.
const ExternalPluginName = "external"

// Collector resolves host facts. It is safe for concurrent use; every
// Collect call gets its own run.
type Collector struct {
	config     *config.Config
	registry   *fact.Registry
	attributes host.Static
	plugins    []plugin.Plugin
	logger     *slog.Logger
}

// New builds a Collector with the puppet plugin, the configured external
// facts and any plugins added with WithPlugins.
func New(opts ...Option) (*Collector, error) {
	cfg := &collectorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.config == nil {
		loaded, err := config.LoadOrDefault(cfg.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg.config = loaded
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.runner == nil {
		cfg.runner = cfg.config.Command.Runner()
	}
	if cfg.attributes == nil {
		cfg.attributes = host.System()
	}

	deps := puppet.Deps{Runner: cfg.runner, Files: cfg.files, Hasher: cfg.hasher}
	popts := cfg.config.Puppet.Options()

	builtin, err := puppet.New(deps, popts)
	if err != nil {
		return nil, fmt.Errorf("build puppet plugin: %w", err)
	}
	external, err := externalPlugin(cfg.config.ExternalFacts, deps, popts)
	if err != nil {
		return nil, fmt.Errorf("build external facts: %w", err)
	}
	plugins := append([]plugin.Plugin{builtin, external}, cfg.plugins...)

	registryOpts := []fact.Option{fact.WithLogger(cfg.logger)}
	if cfg.tracer != nil {
		registryOpts = append(registryOpts, fact.WithTracer(cfg.tracer))
	}
	if cfg.meter != nil {
		registryOpts = append(registryOpts, fact.WithMeter(cfg.meter))
	}
	registry := fact.NewRegistry(registryOpts...)
	if err := plugin.Install(registry, plugins...); err != nil {
		return nil, err
	}

	return &Collector{
		config:     cfg.config,
		registry:   registry,
		attributes: host.Merge(cfg.attributes, cfg.config.Attributes),
		plugins:    plugins,
		logger:     cfg.logger.With("component", "collector"),
	}, nil
}

// externalPlugin turns the configured external facts into static
// definitions. puppetversion falls back to asking the agent binary.
func externalPlugin(external map[string]config.ExternalFact, deps puppet.Deps, opts puppet.Options) (plugin.Plugin, error) {
	cfg := plugin.NewConfig()
	cfg.SetName(ExternalPluginName)
	cfg.SetVersion(puppet.Version)
	cfg.SetDescription("facts supplied by the collector")

	for _, name := range slices.Sorted(maps.Keys(external)) {
		def, err := externalFact(name, external[name])
		if err != nil {
			return nil, err
		}
		cfg.AddFact(def)
	}
	if _, ok := external[puppet.FactPuppetVersion]; !ok {
		def, err := puppet.VersionFact(deps, opts)
		if err != nil {
			return nil, err
		}
		cfg.AddFact(def)
	}
	return plugin.New(cfg)
}

func externalFact(name string, ext config.ExternalFact) (*fact.Definition, error) {
	var confines []fact.Confine
	if ext.Confine != "" {
		confine, err := fact.ConfineExpr(ext.Confine)
		if err != nil {
			return nil, fmt.Errorf("external fact %s: %w", name, err)
		}
		confines = append(confines, confine)
	}
	return fact.Static(name, fact.String(ext.Value), confines...)
}

// Config returns the configuration the collector was built from.
func (c *Collector) Config() *config.Config {
	return c.config
}

// Registry returns the registry holding every installed fact.
func (c *Collector) Registry() *fact.Registry {
	return c.registry
}

// Attributes returns the host attributes used for confinement.
func (c *Collector) Attributes() host.Static {
	return host.Static(c.attributes.All())
}

// Plugins returns the installed plugins in installation order.
func (c *Collector) Plugins() []plugin.Plugin {
	return slices.Clone(c.plugins)
}

// NewRun starts a collection run with a fresh memo table.
func (c *Collector) NewRun() *fact.Run {
	return c.registry.NewRun(c.attributes)
}

// Collection is the outcome of one Collect call.
type Collection struct {
	RunID  string
	Values map[string]fact.Value

	// Resolved lists every resolution the run made, including the
	// dependencies of the requested facts, sorted by name.
	Resolved []fact.ResolvedFact
}

// Names returns the collected fact names in sorted order.
func (c *Collection) Names() []string {
	return slices.Sorted(maps.Keys(c.Values))
}

// Struct converts the collection into a protobuf Struct keyed by fact
// name. Unavailable facts become null.
func (c *Collection) Struct() *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(c.Values))
	for name, v := range c.Values {
		fields[name] = v.Proto()
	}
	return &structpb.Struct{Fields: fields}
}

// MarshalYAML renders the collection as a mapping of fact name to value.
func (c *Collection) MarshalYAML() (any, error) {
	return c.Values, nil
}

// Collect resolves the named facts, or every registered fact when no names
// are given, in a new run. Unknown names are reported together in the
// returned error; the facts that were found are still returned.
func (c *Collector) Collect(ctx context.Context, names ...string) (*Collection, error) {
	run := c.NewRun()
	logger := c.logger.With("run_id", run.ID())

	if len(names) == 0 {
		values := run.ResolveAll(ctx)
		logger.Debug("collected facts", "count", len(values))
		return &Collection{RunID: run.ID(), Values: values, Resolved: run.Facts()}, nil
	}

	values := make(map[string]fact.Value, len(names))
	var errs []error
	for _, name := range names {
		v, err := run.Resolve(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[name] = v
	}
	resolved := run.Facts()
	logger.Debug("collected facts", "count", len(values), "resolved", len(resolved), "unknown", len(errs))
	return &Collection{RunID: run.ID(), Values: values, Resolved: resolved}, errors.Join(errs...)
}
