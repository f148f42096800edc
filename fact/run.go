package fact

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/zero-day-ai/facts/facterr"
	"github.com/zero-day-ai/facts/host"
)

// ResolvedFact is a memoized resolution.
type ResolvedFact struct {
	Name       string
	Value      Value
	RunID      string
	ResolvedAt time.Time
}

// Run is one collection pass. It memoizes every resolution for its lifetime:
// a fact's computation executes at most once per Run. Nothing is shared
// between runs.
//
// Computations resolve their dependencies through the Run synchronously.
// Cyclic dependencies between facts are a caller error and are not
// detected; resolving a fact that depends on itself never returns.
type Run struct {
	id       string
	registry *Registry
	attrs    host.Attributes
	logger   *slog.Logger

	mu    sync.Mutex
	memo  map[string]ResolvedFact
	group singleflight.Group
}

func newRun(r *Registry, attrs host.Attributes) *Run {
	if attrs == nil {
		attrs = host.Static{}
	}
	id := uuid.NewString()
	return &Run{
		id:       id,
		registry: r,
		attrs:    attrs,
		logger:   r.logger.With("run_id", id),
		memo:     make(map[string]ResolvedFact),
	}
}

// ID returns the run identifier.
func (run *Run) ID() string {
	return run.id
}

// Resolve returns the value of the named fact. The only error is an unknown
// fact name (wrapping facterr.ErrUnknownFact); every failure inside a
// computation resolves to Unavailable.
func (run *Run) Resolve(ctx context.Context, name string) (Value, error) {
	def, ok := run.registry.Lookup(name)
	if !ok {
		err := facterr.New(name, "resolve", facterr.ErrCodeUnknownFact, "fact is not registered").
			WithCause(facterr.ErrUnknownFact)
		run.logger.Warn("unknown fact requested", "fact", name, "code", facterr.ErrCodeUnknownFact)
		return Unavailable(), err
	}

	if rf, ok := run.Resolved(name); ok {
		run.registry.telemetry.record(ctx, name, OutcomeMemoized)
		return rf.Value, nil
	}

	v, _, _ := run.group.Do(name, func() (any, error) {
		if rf, ok := run.Resolved(name); ok {
			return rf.Value, nil
		}
		value := run.evaluate(ctx, def)
		run.mu.Lock()
		run.memo[name] = ResolvedFact{
			Name:       name,
			Value:      value,
			RunID:      run.id,
			ResolvedAt: time.Now(),
		}
		run.mu.Unlock()
		return value, nil
	})
	return v.(Value), nil
}

// ResolveAll resolves every registered fact, one after another, and returns
// the values by name.
func (run *Run) ResolveAll(ctx context.Context) map[string]Value {
	names := run.registry.Names()
	values := make(map[string]Value, len(names))
	for _, name := range names {
		// registered names cannot be unknown
		v, _ := run.Resolve(ctx, name)
		values[name] = v
	}
	return values
}

// Resolved returns the memoized resolution of name, if it has been resolved in this run.
func (run *Run) Resolved(name string) (ResolvedFact, bool) {
	run.mu.Lock()
	defer run.mu.Unlock()

	rf, ok := run.memo[name]
	return rf, ok
}

// Facts returns every resolution made so far, sorted by name.
func (run *Run) Facts() []ResolvedFact {
	run.mu.Lock()
	defer run.mu.Unlock()

	names := slices.Sorted(maps.Keys(run.memo))
	facts := make([]ResolvedFact, 0, len(names))
	for _, name := range names {
		facts = append(facts, run.memo[name])
	}
	return facts
}

func (run *Run) evaluate(ctx context.Context, def *Definition) Value {
	tel := run.registry.telemetry
	name := def.Name()
	start := time.Now()
	ctx, span := tel.start(ctx, name, run.id)

	if c := def.rejectedBy(run.attrs); c != nil {
		run.logger.Debug("fact not confined to host",
			"fact", name, "code", facterr.ErrCodeNotConfined, "confine", c.String())
		tel.finish(ctx, span, name, OutcomeNotConfined, time.Since(start), nil, false)
		return Unavailable()
	}

	value, err := run.compute(ctx, def)
	elapsed := time.Since(start)

	if err != nil {
		code := facterr.CodeOf(err)
		failed := code == facterr.ErrCodeComputeFailed
		if failed || !facterr.Recoverable(err) {
			run.logger.Warn("fact computation failed", "fact", name, "code", code, "error", err)
		} else {
			run.logger.Debug("fact unavailable", "fact", name, "code", code, "error", err)
		}
		tel.finish(ctx, span, name, OutcomeUnavailable, elapsed, err, failed)
		return Unavailable()
	}

	outcome := OutcomeAvailable
	if !value.Available() {
		outcome = OutcomeUnavailable
	}
	run.logger.Debug("fact resolved", "fact", name, "value", value.String(), "duration", elapsed)
	tel.finish(ctx, span, name, outcome, elapsed, nil, false)
	return value
}

// compute invokes the definition's computation, converting a panic into an error.
func (run *Run) compute(ctx context.Context, def *Definition) (value Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			value = Unavailable()
			err = facterr.New(def.Name(), "compute", facterr.ErrCodeComputeFailed, "computation panicked").
				WithDetails(map[string]any{"panic": fmt.Sprint(p)})
		}
	}()
	return def.compute(ctx, run)
}
