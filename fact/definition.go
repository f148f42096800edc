package fact

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/facts/facterr"
	"github.com/zero-day-ai/facts/host"
)

// Resolver resolves facts by name. A Run is a Resolver; computations use it
// to depend on other facts.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Value, error)
}

// ComputeFunc computes a fact's value. Environmental failures should be
// reported as an error (or as Unavailable); either way the fact resolves to
// Unavailable. Computations must not modify host state.
type ComputeFunc func(ctx context.Context, r Resolver) (Value, error)

// Config holds the configuration for building a fact Definition.
// Use NewConfig to create one, the setters to fill it in, then New to build.
type Config struct {
	name        string
	description string
	confines    []Confine
	compute     ComputeFunc
}

// NewConfig creates an empty fact configuration.
func NewConfig() *Config {
	return &Config{
		confines: make([]Confine, 0),
	}
}

// SetName sets the fact name. Names are unique within a Registry.
func (c *Config) SetName(name string) {
	c.name = name
}

// SetDescription sets a human-readable description.
func (c *Config) SetDescription(desc string) {
	c.description = desc
}

// AddConfine adds a confinement. All confines must allow the host for the
// fact to be computed.
func (c *Config) AddConfine(confine Confine) {
	c.confines = append(c.confines, confine)
}

// SetCompute sets the computation.
func (c *Config) SetCompute(fn ComputeFunc) {
	c.compute = fn
}

// New builds an immutable Definition from the configuration.
func New(cfg *Config) (*Definition, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", facterr.ErrInvalidDefinition)
	}
	if cfg.name == "" {
		return nil, fmt.Errorf("%w: fact name is required", facterr.ErrInvalidDefinition)
	}
	if cfg.compute == nil {
		return nil, fmt.Errorf("%w: fact %s has no compute function", facterr.ErrInvalidDefinition, cfg.name)
	}
	for i, c := range cfg.confines {
		if c == nil {
			return nil, fmt.Errorf("%w: fact %s has nil confine at index %d", facterr.ErrInvalidDefinition, cfg.name, i)
		}
	}

	return &Definition{
		name:        cfg.name,
		description: cfg.description,
		confines:    append([]Confine(nil), cfg.confines...),
		compute:     cfg.compute,
	}, nil
}

// Static returns a Definition that resolves to v on hosts the confines
// allow. Collectors use it to hand facts they own (for example a configured
// agent version) to the computations that depend on them.
func Static(name string, v Value, confines ...Confine) (*Definition, error) {
	cfg := NewConfig()
	cfg.SetName(name)
	cfg.SetDescription("static value")
	for _, c := range confines {
		cfg.AddConfine(c)
	}
	cfg.SetCompute(func(context.Context, Resolver) (Value, error) {
		return v, nil
	})
	return New(cfg)
}

// Definition is a named, confinable, lazily evaluated computation.
type Definition struct {
	name        string
	description string
	confines    []Confine
	compute     ComputeFunc
}

// Name returns the fact name.
func (d *Definition) Name() string {
	return d.name
}

// Description returns the fact description.
func (d *Definition) Description() string {
	return d.description
}

// Confines returns the fact's confinements.
func (d *Definition) Confines() []Confine {
	return append([]Confine(nil), d.confines...)
}

// rejectedBy returns the first confine that does not allow attrs, or nil.
func (d *Definition) rejectedBy(attrs host.Attributes) Confine {
	for _, c := range d.confines {
		if !c.Allows(attrs) {
			return c
		}
	}
	return nil
}
