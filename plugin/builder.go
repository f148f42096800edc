package plugin

import (
	"fmt"

	"github.com/zero-day-ai/facts/fact"
)

// Config holds the configuration for building a plugin.
// Use NewConfig to create a new configuration, then use the setter methods
// to configure the plugin before calling New to build it.
type Config struct {
	name        string
	version     string
	description string
	facts       []*fact.Definition
}

// NewConfig creates a new plugin configuration with default values.
func NewConfig() *Config {
	return &Config{
		facts: make([]*fact.Definition, 0),
	}
}

// SetName sets the plugin name.
func (c *Config) SetName(name string) {
	c.name = name
}

// SetVersion sets the plugin version.
func (c *Config) SetVersion(version string) {
	c.version = version
}

// SetDescription sets the plugin description.
func (c *Config) SetDescription(desc string) {
	c.description = desc
}

// AddFact adds a fact definition to the plugin.
func (c *Config) AddFact(def *fact.Definition) {
	c.facts = append(c.facts, def)
}

// New creates a new Plugin from the configuration.
// Returns an error if the configuration is invalid.
func New(cfg *Config) (Plugin, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.name == "" {
		return nil, fmt.Errorf("plugin name is required")
	}

	if cfg.version == "" {
		return nil, fmt.Errorf("plugin version is required")
	}

	seen := make(map[string]struct{}, len(cfg.facts))
	for _, def := range cfg.facts {
		if def == nil {
			return nil, fmt.Errorf("plugin %s: fact definition cannot be nil", cfg.name)
		}
		if _, exists := seen[def.Name()]; exists {
			return nil, fmt.Errorf("plugin %s: duplicate fact name: %s", cfg.name, def.Name())
		}
		seen[def.Name()] = struct{}{}
	}

	return &factPlugin{
		name:        cfg.name,
		version:     cfg.version,
		description: cfg.description,
		facts:       append([]*fact.Definition(nil), cfg.facts...),
	}, nil
}

// factPlugin is the private implementation of the Plugin interface.
type factPlugin struct {
	name        string
	version     string
	description string
	facts       []*fact.Definition
}

func (p *factPlugin) Name() string {
	return p.name
}

func (p *factPlugin) Version() string {
	return p.version
}

func (p *factPlugin) Description() string {
	return p.description
}

func (p *factPlugin) Facts() []*fact.Definition {
	return append([]*fact.Definition(nil), p.facts...)
}
