package puppet

import (
	"github.com/zero-day-ai/facts/fact"
	"github.com/zero-day-ai/facts/plugin"
)

// Version is the version of the puppet fact plugin.
const Version = "1.0.0"

// New builds the puppet fact plugin.
func New(deps Deps, opts Options) (plugin.Plugin, error) {
	deps = deps.withDefaults()
	opts = opts.withDefaults()

	builders := []func() (*fact.Definition, error){
		func() (*fact.Definition, error) { return localCertSignatures(deps, opts) },
		func() (*fact.Definition, error) { return agentInstalled(deps, opts) },
		agentMajorVersion,
		func() (*fact.Definition, error) { return serverVersion(deps, opts) },
		serverMajor,
		func() (*fact.Definition, error) { return userID(deps, opts, FactUserUID, "-u") },
		func() (*fact.Definition, error) { return userID(deps, opts, FactUserGID, "-g") },
	}

	cfg := plugin.NewConfig()
	cfg.SetName("puppet")
	cfg.SetVersion(Version)
	cfg.SetDescription("Puppet agent, server, user and trust store facts")
	for _, build := range builders {
		def, err := build()
		if err != nil {
			return nil, err
		}
		cfg.AddFact(def)
	}
	return plugin.New(cfg)
}
