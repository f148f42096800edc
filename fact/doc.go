// Package fact implements the fact-evaluation contract shared by every host
// fact: a named system property, computed lazily, confined to applicable
// hosts, memoized per collection run and tolerant of absent dependencies.
//
// # Defining facts
//
// A Definition is built the same way plugins are:
//
//	cfg := fact.NewConfig()
//	cfg.SetName("puppet_agent_installed")
//	cfg.AddConfine(fact.ConfineLinux())
//	cfg.SetCompute(func(ctx context.Context, r fact.Resolver) (fact.Value, error) {
//		return fact.Bool(fsys.Exists("/opt/puppetlabs/puppet/bin/puppet")), nil
//	})
//	def, err := fact.New(cfg)
//
// Confinement can also be written as a CEL expression over the host
// attributes with ConfineExpr.
//
// # Resolving facts
//
// A collector builds a Registry, registers definitions, and starts one Run
// per collection pass:
//
//	reg := fact.NewRegistry(fact.WithLogger(logger))
//	_ = reg.Register(def)
//	run := reg.NewRun(host.System())
//	v, err := run.Resolve(ctx, "puppet_agent_installed")
//
// Resolve returns an error only for names that are not registered. A failed
// computation, a missing file, an unmatched pattern or an unsatisfied
// confinement all resolve to Unavailable, and never keep sibling facts from
// resolving.
package fact
