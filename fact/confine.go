package fact

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/zero-day-ai/facts/facterr"
	"github.com/zero-day-ai/facts/host"
)

// Confine restricts a fact to hosts matching some attributes.
type Confine interface {
	// Allows reports whether the fact applies to a host with attrs.
	Allows(attrs host.Attributes) bool

	// String describes the confinement, e.g. "kernel == Linux".
	String() string
}

// ConfineTo allows hosts whose attribute key equals one of values,
// ignoring case. A host without the attribute is rejected.
func ConfineTo(key string, values ...string) Confine {
	return attributeConfine{key: key, values: append([]string(nil), values...)}
}

// ConfineLinux is the confinement shared by most host facts.
func ConfineLinux() Confine {
	return ConfineTo(host.AttrKernel, "Linux")
}

type attributeConfine struct {
	key    string
	values []string
}

func (c attributeConfine) Allows(attrs host.Attributes) bool {
	if attrs == nil {
		return false
	}
	got, ok := attrs.Attribute(c.key)
	if !ok {
		return false
	}
	for _, want := range c.values {
		if strings.EqualFold(got, want) {
			return true
		}
	}
	return false
}

func (c attributeConfine) String() string {
	return fmt.Sprintf("%s == %s", c.key, strings.Join(c.values, " | "))
}

// celEnv declares the single variable confinement expressions see:
// host, a map(string, string) of host attributes.
var celEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("host", cel.MapType(cel.StringType, cel.StringType)),
	)
})

// ConfineExpr compiles a CEL boolean expression over the host attributes,
// for example:
//
//	host.kernel == "Linux" && host.architecture in ["amd64", "arm64"]
//
// A host for which evaluation fails (typically a missing attribute) is rejected.
func ConfineExpr(expr string) (Confine, error) {
	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("create expression environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("%w: confine %q: %v", facterr.ErrInvalidDefinition, expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: confine %q must be boolean, got %s",
			facterr.ErrInvalidDefinition, expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: confine %q: %v", facterr.ErrInvalidDefinition, expr, err)
	}

	return exprConfine{expr: expr, prg: prg}, nil
}

type exprConfine struct {
	expr string
	prg  cel.Program
}

func (c exprConfine) Allows(attrs host.Attributes) bool {
	vars := map[string]string{}
	if attrs != nil {
		vars = attrs.All()
	}
	out, _, err := c.prg.Eval(map[string]any{"host": vars})
	if err != nil {
		return false
	}
	allowed, ok := out.Value().(bool)
	return ok && allowed
}

func (c exprConfine) String() string {
	return c.expr
}
