// Package expertmesh provides a high-level façade over the Lead composition
// root, enabling rapid construction of multi-expert answering systems. Most
// applications interact with this package by:
//  1. Creating experts (expert.New) bound to an oracle backend
//  2. Creating an ExpertMesh via New() with a delegation strategy
//  3. Asking queries via Answer
//
// The façade delegates routing, dispatch and synthesis to lead.Lead while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply real
// oracle backends and a structured logger.
package expertmesh

import (
	"context"
	"time"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/expert"
	"github.com/hupe1980/expertmesh/lead"
	"github.com/hupe1980/expertmesh/logging"
	"github.com/hupe1980/expertmesh/oracle"
)

// Options configures the ExpertMesh instance.
type Options struct {
	// Strategy selects how experts are chosen and invoked. Defaults to parallel.
	Strategy core.DelegationStrategy

	// MaxExperts caps participation for multi-expert strategies.
	MaxExperts int

	// ExpertTimeout bounds each expert invocation.
	ExpertTimeout time.Duration

	// RoutingOracle serves intelligent selection (optional).
	RoutingOracle oracle.Oracle

	// SynthesisOracle serves multi-answer composition (optional).
	SynthesisOracle oracle.Oracle

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ExpertMesh is the high-level façade aggregating the underlying Lead.
type ExpertMesh struct {
	lead *lead.Lead
}

// New creates a new ExpertMesh over the given expert pool with optional overrides.
func New(experts []*expert.Expert, optFns ...func(o *Options)) (*ExpertMesh, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	l, err := lead.New(experts, func(o *lead.Options) {
		if opts.Strategy != "" {
			o.Strategy = opts.Strategy
		}
		if opts.MaxExperts > 0 {
			o.MaxExperts = opts.MaxExperts
		}
		if opts.ExpertTimeout > 0 {
			o.ExpertTimeout = opts.ExpertTimeout
		}
		o.RoutingOracle = opts.RoutingOracle
		o.SynthesisOracle = opts.SynthesisOracle
		if opts.Logger != nil {
			o.Logger = opts.Logger
		}
	})
	if err != nil {
		return nil, err
	}

	return &ExpertMesh{lead: l}, nil
}

// Answer routes, dispatches and synthesizes an answer for the query.
func (m *ExpertMesh) Answer(ctx context.Context, query string, history []oracle.Message) (*core.FinalAnswer, error) {
	return m.lead.Answer(ctx, query, history)
}

// Lead exposes the underlying composition root for pool management.
func (m *ExpertMesh) Lead() *lead.Lead { return m.lead }
