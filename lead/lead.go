// Package lead is the composition root of ExpertMesh. A Lead owns the expert
// pool, the router, the dispatcher and the synthesizer, and exposes the single
// query entry point Answer. Per-expert failures during parallel and sequential
// dispatch are contained; the only errors a caller sees are a routing failure
// or, under the single strategy, the sole expert's own error.
package lead

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/expert"
	"github.com/hupe1980/expertmesh/logging"
	"github.com/hupe1980/expertmesh/oracle"
	"github.com/hupe1980/expertmesh/router"
	"github.com/hupe1980/expertmesh/synth"
)

// Options configures a Lead instance. Use functional options with New to
// override defaults.
type Options struct {
	// Strategy selects how experts are chosen and invoked.
	Strategy core.DelegationStrategy
	// MaxExperts caps participation for multi-expert strategies.
	MaxExperts int
	// ExpertTimeout bounds each expert invocation. A timed-out expert is an
	// ordinary contained failure, never an unbounded hang of the fan-in.
	ExpertTimeout time.Duration
	// RoutingOracle serves the intelligent strategy's selection call.
	RoutingOracle oracle.Oracle
	// SynthesisOracle serves multi-answer composition; nil selects the
	// deterministic concatenation path.
	SynthesisOracle oracle.Oracle
	Logger          logging.Logger
}

// Lead coordinates a pool of experts to jointly answer queries.
//
// The pool is read-only during query processing. AddExpert and RemoveExpert
// exist for configuration-time pool assembly and are not guarded against
// concurrent use with in-flight queries.
type Lead struct {
	experts         []*expert.Expert
	strategy        core.DelegationStrategy
	maxExperts      int
	expertTimeout   time.Duration
	routingOracle   oracle.Oracle
	synthesisOracle oracle.Oracle
	router          *router.Router
	synthesizer     *synth.Synthesizer
	logger          logging.Logger
}

// New creates a Lead over the given expert pool. An empty pool is a fatal
// construction-time misconfiguration.
func New(experts []*expert.Expert, optFns ...func(o *Options)) (*Lead, error) {
	opts := Options{
		Strategy:      core.StrategyParallel,
		MaxExperts:    3,
		ExpertTimeout: 60 * time.Second,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(experts) == 0 {
		return nil, &core.ConfigurationError{Reason: "expert pool must not be empty"}
	}
	if !opts.Strategy.Valid() {
		return nil, &core.ConfigurationError{Reason: "unknown delegation strategy " + string(opts.Strategy)}
	}
	if opts.MaxExperts < 1 {
		return nil, &core.ConfigurationError{Reason: "max experts must be at least 1"}
	}
	if opts.ExpertTimeout <= 0 {
		return nil, &core.ConfigurationError{Reason: "expert timeout must be positive"}
	}

	pool := make([]*expert.Expert, len(experts))
	copy(pool, experts)

	return &Lead{
		experts:         pool,
		strategy:        opts.Strategy,
		maxExperts:      opts.MaxExperts,
		expertTimeout:   opts.ExpertTimeout,
		routingOracle:   opts.RoutingOracle,
		synthesisOracle: opts.SynthesisOracle,
		router:          router.New(func(o *router.Options) { o.Logger = opts.Logger }),
		synthesizer:     synth.New(func(o *synth.Options) { o.Logger = opts.Logger }),
		logger:          opts.Logger,
	}, nil
}

// Strategy returns the configured delegation strategy.
func (l *Lead) Strategy() core.DelegationStrategy { return l.strategy }

// Experts returns a copy of the current pool for safe iteration.
func (l *Lead) Experts() []*expert.Expert {
	out := make([]*expert.Expert, len(l.experts))
	copy(out, l.experts)
	return out
}

// AddExpert appends an expert to the pool. Pool order matters: it is the
// tie-break order for routing.
func (l *Lead) AddExpert(e *expert.Expert) {
	if e != nil {
		l.experts = append(l.experts, e)
	}
}

// RemoveExpert removes the expert with the given id, reporting whether a
// removal happened.
func (l *Lead) RemoveExpert(id string) bool {
	for i, e := range l.experts {
		if e.ID() == id {
			l.experts = append(l.experts[:i], l.experts[i+1:]...)
			return true
		}
	}
	return false
}

// Answer routes the query to a subset of the pool, dispatches them according
// to the configured strategy and merges their answers. The optional history
// gives experts prior conversation turns.
//
// A query no expert can be routed for fails with *core.RoutingError; a query
// where every invoked expert fails succeeds with a zero-confidence "no data"
// answer. These two outcomes are deliberately kept distinguishable.
func (l *Lead) Answer(ctx context.Context, query string, history []oracle.Message) (*core.FinalAnswer, error) {
	runID := uuid.NewString()
	l.logger.Info("lead.answer.start",
		"run", runID,
		"strategy", l.strategy.String(),
		"pool_size", len(l.experts),
	)

	selected, err := l.router.Select(ctx, query, l.experts, l.strategy, l.maxExperts, l.routingOracle)
	if err != nil {
		l.logger.Warn("lead.answer.routing_failed", "run", runID, "error", err.Error())
		return nil, err
	}

	answers, err := l.dispatch(ctx, runID, selected, query, history)
	if err != nil {
		return nil, err
	}

	final := l.synthesizer.Merge(ctx, query, answers, l.synthesisOracle)

	l.logger.Info("lead.answer.complete",
		"run", runID,
		"selected", len(selected),
		"contributed", len(answers),
		"synthesized", final.Synthesized,
	)
	return final, nil
}
