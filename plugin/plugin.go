package plugin

import (
	"fmt"

	"github.com/zero-day-ai/facts/fact"
)

// Plugin is a named, versioned collection of fact definitions.
type Plugin interface {
	// Name returns the unique identifier for the plugin.
	Name() string

	// Version returns the semantic version of the plugin.
	Version() string

	// Description returns a human-readable description of the plugin's purpose.
	Description() string

	// Facts returns the definitions the plugin provides, in registration order.
	Facts() []*fact.Definition
}

// Install registers the facts of every plugin into reg.
func Install(reg *fact.Registry, plugins ...Plugin) error {
	for _, p := range plugins {
		for _, def := range p.Facts() {
			if err := reg.Register(def); err != nil {
				return fmt.Errorf("install plugin %s: %w", p.Name(), err)
			}
		}
	}
	return nil
}
