package puppet

import (
	"context"
	"regexp"

	"github.com/zero-day-ai/facts/fact"
	"github.com/zero-day-ai/facts/facterr"
	"github.com/zero-day-ai/facts/parser"
)

const serverVersionPrefix = "puppetserver version: "

var (
	serverVersionLine  = regexp.MustCompile(`^puppetserver version:`)
	serverMajorVersion = regexp.MustCompile(`^([0-9]+)\.[0-9]+\.[0-9]+$`)
)

func serverVersion(deps Deps, opts Options) (*fact.Definition, error) {
	cfg := fact.NewConfig()
	cfg.SetName(FactServerVersion)
	cfg.SetDescription("version reported by " + opts.ServerVersionCommand)
	cfg.AddConfine(fact.ConfineLinux())
	cfg.SetCompute(func(ctx context.Context, _ fact.Resolver) (fact.Value, error) {
		out, err := deps.Runner.Output(ctx, opts.ServerVersionCommand)
		if err != nil {
			return fact.Unavailable(), facterr.New(FactServerVersion, "exec", facterr.ErrCodeCommandFailed,
				"cannot run puppetserver").WithCause(err)
		}
		if out == "" {
			return fact.Unavailable(), facterr.New(FactServerVersion, "exec", facterr.ErrCodeNoMatch, "no output")
		}

		line, ok := parser.FirstLineMatching(parser.Lines(out), serverVersionLine)
		if !ok {
			return fact.Unavailable(), facterr.New(FactServerVersion, "parse", facterr.ErrCodeNoMatch,
				"no version line").WithDetails(map[string]any{"output": out})
		}

		// A bare "puppetserver version:" line has no token and is unavailable,
		// rather than being reported as the whole line.
		version, ok := parser.AfterPrefix(parser.StripTrailing(line), serverVersionPrefix, ' ')
		if !ok {
			return fact.Unavailable(), facterr.New(FactServerVersion, "parse", facterr.ErrCodeNoMatch,
				"version line has no version").WithDetails(map[string]any{"line": line})
		}
		return fact.String(version), nil
	})
	return fact.New(cfg)
}

// serverMajor reduces an N.N.N server version to N. Any other
// version string is reported unchanged, unlike puppet_agent_major_version.
func serverMajor() (*fact.Definition, error) {
	cfg := fact.NewConfig()
	cfg.SetName(FactServerMajorVersion)
	cfg.SetDescription("major version of puppetserver")
	cfg.AddConfine(fact.ConfineLinux())
	cfg.SetCompute(func(ctx context.Context, r fact.Resolver) (fact.Value, error) {
		upstream, err := r.Resolve(ctx, FactServerVersion)
		if err != nil {
			return fact.Unavailable(), err
		}
		version, ok := upstream.AsString()
		if !ok {
			return fact.Unavailable(), nil
		}

		if major, ok := parser.MatchFull(serverMajorVersion, version); ok {
			return fact.String(major), nil
		}
		return fact.String(version), nil
	})
	return fact.New(cfg)
}
