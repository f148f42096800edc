// Package plugin groups fact definitions into named, versioned plugins.
//
// A plugin is the unit a collector installs: it owns a set of related facts
// (for example everything about the Puppet agent on a host) and registers
// them into a fact.Registry in one step.
//
// # Creating a Plugin
//
// Plugins are created using the builder pattern with the Config type:
//
//	cfg := plugin.NewConfig()
//	cfg.SetName("puppet")
//	cfg.SetVersion("1.0.0")
//	cfg.SetDescription("Puppet agent and server facts")
//	cfg.AddFact(agentInstalled)
//	cfg.AddFact(serverVersion)
//
//	p, err := plugin.New(cfg)
//
// # Installing
//
//	reg := fact.NewRegistry()
//	if err := plugin.Install(reg, p); err != nil {
//	    return err
//	}
//
// Install registers every fact of every plugin; a fact name that is already
// registered fails the install.
package plugin
