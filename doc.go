// Package facts collects host facts for a configuration-management inventory.
//
// A Collector wires a configuration file, the host collaborators (command
// runner, filesystem, attributes) and the fact plugins into a single
// fact.Registry. Each call to Collect starts a new run: facts are computed
// lazily, confined to applicable hosts and memoized for the length of that
// run only.
//
//	c, err := facts.New(facts.WithConfigFile("/etc/facts.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	collection, err := c.Collect(ctx, "puppet_server_version")
//
// Facts that cannot be determined on a host are reported as unavailable
// rather than as errors. The only error Collect returns is for names no
// plugin defines.
package facts
