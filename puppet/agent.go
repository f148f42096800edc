package puppet

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/facts/fact"
	"github.com/zero-day-ai/facts/facterr"
	"github.com/zero-day-ai/facts/parser"
)

func agentInstalled(deps Deps, opts Options) (*fact.Definition, error) {
	cfg := fact.NewConfig()
	cfg.SetName(FactAgentInstalled)
	cfg.SetDescription("whether " + opts.AgentBinary + " exists")
	cfg.AddConfine(fact.ConfineLinux())
	cfg.SetCompute(func(context.Context, fact.Resolver) (fact.Value, error) {
		return fact.Bool(deps.Files.Exists(opts.AgentBinary)), nil
	})
	return fact.New(cfg)
}

// agentMajorVersion is the leading integer of the puppetversion fact. A
// version that is not dotted major.minor.patch is unavailable.
func agentMajorVersion() (*fact.Definition, error) {
	cfg := fact.NewConfig()
	cfg.SetName(FactAgentMajorVersion)
	cfg.SetDescription("major version of the puppet agent")
	cfg.AddConfine(fact.ConfineLinux())
	cfg.SetCompute(func(ctx context.Context, r fact.Resolver) (fact.Value, error) {
		upstream, err := r.Resolve(ctx, FactPuppetVersion)
		if err != nil {
			return fact.Unavailable(), err
		}
		version, ok := upstream.AsString()
		if !ok {
			return fact.Unavailable(), nil
		}

		major, ok := parser.LeadingInteger(version)
		if !ok {
			return fact.Unavailable(), facterr.New(FactAgentMajorVersion, "parse", facterr.ErrCodeNoMatch,
				fmt.Sprintf("%q is not a major.minor.patch version", version))
		}
		return fact.String(major), nil
	})
	return fact.New(cfg)
}

// VersionFact defines puppetversion by asking the agent binary. The fact
// belongs to the collector: install it only when no other source provides
// the agent version.
func VersionFact(deps Deps, opts Options) (*fact.Definition, error) {
	deps = deps.withDefaults()
	opts = opts.withDefaults()
	command := opts.AgentBinary + " --version 2>/dev/null"

	cfg := fact.NewConfig()
	cfg.SetName(FactPuppetVersion)
	cfg.SetDescription("version reported by " + opts.AgentBinary)
	cfg.AddConfine(fact.ConfineLinux())
	cfg.SetCompute(func(ctx context.Context, _ fact.Resolver) (fact.Value, error) {
		out, err := deps.Runner.Output(ctx, command)
		if err != nil {
			return fact.Unavailable(), facterr.New(FactPuppetVersion, "exec", facterr.ErrCodeCommandFailed,
				"cannot run agent").WithCause(err)
		}
		lines := parser.Lines(out)
		if len(lines) == 0 {
			return fact.Unavailable(), facterr.New(FactPuppetVersion, "parse", facterr.ErrCodeNoMatch, "agent printed nothing")
		}
		return fact.String(parser.StripTrailing(lines[0])), nil
	})
	return fact.New(cfg)
}
