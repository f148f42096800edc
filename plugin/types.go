package plugin

import "github.com/zero-day-ai/facts/fact"

// FactDescriptor describes a fact provided by a plugin.
type FactDescriptor struct {
	// Name is the fact name.
	Name string `json:"name" yaml:"name"`

	// Description explains what the fact reports.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Confines lists the confinements, all of which must hold.
	Confines []string `json:"confines,omitempty" yaml:"confines,omitempty"`
}

// Descriptor describes a plugin's metadata.
type Descriptor struct {
	Name        string           `json:"name" yaml:"name"`
	Version     string           `json:"version" yaml:"version"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Facts       []FactDescriptor `json:"facts" yaml:"facts"`
}

// DescribeFact converts a definition to its descriptor.
func DescribeFact(def *fact.Definition) FactDescriptor {
	d := FactDescriptor{
		Name:        def.Name(),
		Description: def.Description(),
	}
	for _, c := range def.Confines() {
		d.Confines = append(d.Confines, c.String())
	}
	return d
}

// ToDescriptor converts a Plugin to its Descriptor.
func ToDescriptor(p Plugin) Descriptor {
	facts := p.Facts()
	d := Descriptor{
		Name:        p.Name(),
		Version:     p.Version(),
		Description: p.Description(),
		Facts:       make([]FactDescriptor, 0, len(facts)),
	}
	for _, def := range facts {
		d.Facts = append(d.Facts, DescribeFact(def))
	}
	return d
}
