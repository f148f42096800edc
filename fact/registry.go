package fact

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/zero-day-ai/facts/facterr"
	"github.com/zero-day-ai/facts/host"
)

// Registry holds the fact definitions known to a collector. It is built
// explicitly and populated with Register; there is no global registry.
type Registry struct {
	mu        sync.RWMutex
	defs      map[string]*Definition
	logger    *slog.Logger
	telemetry *telemetry
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := &registryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	logger := cfg.logger.With("component", "fact")

	tel, err := newTelemetry(cfg.tracer, cfg.meter)
	if err != nil {
		logger.Warn("fact metrics disabled", "error", err)
	}

	return &Registry{
		defs:      make(map[string]*Definition),
		logger:    logger,
		telemetry: tel,
	}
}

// Register adds a definition. Names must be unique.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return fmt.Errorf("%w: definition cannot be nil", facterr.ErrInvalidDefinition)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name()]; exists {
		return fmt.Errorf("%w: %s", facterr.ErrDuplicateFact, def.Name())
	}
	r.defs[def.Name()] = def
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	return def, ok
}

// Names returns all registered fact names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.defs))
}

// Definitions returns all definitions sorted by name.
func (r *Registry) Definitions() []*Definition {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// NewRun starts a collection pass against a host with attrs. Each Run has
// its own empty memo table.
func (r *Registry) NewRun(attrs host.Attributes) *Run {
	return newRun(r, attrs)
}
