package puppet

import (
	"context"
	"fmt"

	"github.com/zero-day-ai/facts/fact"
	"github.com/zero-day-ai/facts/facterr"
	"github.com/zero-day-ai/facts/parser"
)

// userID defines a fact holding one numeric id of the puppet user, as printed
// by "id <flag> <user>".
func userID(deps Deps, opts Options, name, flag string) (*fact.Definition, error) {
	command := fmt.Sprintf("%s %s %s 2>/dev/null", opts.IDCommand, flag, opts.User)

	cfg := fact.NewConfig()
	cfg.SetName(name)
	cfg.SetDescription("output of " + command)
	cfg.AddConfine(fact.ConfineLinux())
	cfg.SetCompute(func(ctx context.Context, _ fact.Resolver) (fact.Value, error) {
		out, err := deps.Runner.Output(ctx, command)
		if err != nil {
			return fact.Unavailable(), facterr.New(name, "exec", facterr.ErrCodeCommandFailed,
				"cannot run id").WithCause(err)
		}

		id, ok := parser.FirstDigitsLine(out)
		if !ok {
			return fact.Unavailable(), facterr.New(name, "parse", facterr.ErrCodeNoMatch,
				"no numeric id in output").WithDetails(map[string]any{"user": opts.User})
		}
		return fact.String(id), nil
	})
	return fact.New(cfg)
}
