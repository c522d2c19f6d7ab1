// Package router selects which experts answer a query. Selection is pure
// scoring over the pool except for the intelligent strategy, which delegates
// the choice to an oracle and falls back to score-based selection whenever
// that delegated call cannot produce a usable result.
package router

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/expert"
	"github.com/hupe1980/expertmesh/logging"
	"github.com/hupe1980/expertmesh/oracle"
)

// Options configures a Router instance.
type Options struct {
	Logger logging.Logger
	// SelectionTemperature is used for the intelligent-selection oracle call.
	// Kept low so selection stays deterministic-leaning.
	SelectionTemperature float64
	// SelectionMaxTokens caps the selection oracle's reply.
	SelectionMaxTokens int64
}

// Router implements expert selection for all delegation strategies.
type Router struct {
	logger               logging.Logger
	selectionTemperature float64
	selectionMaxTokens   int64
}

// New creates a Router with defaults suitable for production use.
func New(optFns ...func(o *Options)) *Router {
	opts := Options{
		Logger:               logging.NoOpLogger{},
		SelectionTemperature: 0.1,
		SelectionMaxTokens:   256,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{
		logger:               opts.Logger,
		selectionTemperature: opts.SelectionTemperature,
		selectionMaxTokens:   opts.SelectionMaxTokens,
	}
}

// Select returns the ordered subset of experts that should answer the query.
//
// Guarantees:
//   - single: always exactly one expert, the stable argmax by relevance score
//     (pool order wins ties), even when every score is zero.
//   - parallel/sequential: experts with score > 0 sorted descending (stable,
//     pool order preserved on ties), capped at maxParticipants.
//   - intelligent: the selector oracle names participants; on absence,
//     failure or zero matched names the parallel selection applies.
//
// An empty pool or an empty final selection yields a *core.RoutingError.
func (r *Router) Select(
	ctx context.Context,
	query string,
	pool []*expert.Expert,
	strategy core.DelegationStrategy,
	maxParticipants int,
	selector oracle.Oracle,
) ([]*expert.Expert, error) {
	if len(pool) == 0 {
		return nil, &core.RoutingError{Reason: "no experts available"}
	}
	if maxParticipants < 1 {
		return nil, fmt.Errorf("max participants must be at least 1, got %d", maxParticipants)
	}

	var selected []*expert.Expert
	switch strategy {
	case core.StrategySingle:
		selected = []*expert.Expert{r.selectTop(query, pool)}
	case core.StrategyParallel, core.StrategySequential:
		selected = r.selectRanked(query, pool, maxParticipants)
	case core.StrategyIntelligent:
		selected = r.selectIntelligent(ctx, query, pool, maxParticipants, selector)
	default:
		return nil, fmt.Errorf("unknown delegation strategy %q", strategy)
	}

	if len(selected) == 0 {
		return nil, &core.RoutingError{Reason: "no suitable experts found"}
	}
	return selected, nil
}

// selectTop is a stable argmax fold: the first expert with the strictly
// highest score wins, so equal scores resolve to pool order reproducibly.
func (r *Router) selectTop(query string, pool []*expert.Expert) *expert.Expert {
	best := pool[0]
	bestScore := best.RelevanceScore(query)
	for _, e := range pool[1:] {
		if score := e.RelevanceScore(query); score > bestScore {
			best = e
			bestScore = score
		}
	}
	return best
}

// selectRanked sorts by score descending with a stable sort (pool order on
// ties), drops zero scores and caps the result.
func (r *Router) selectRanked(query string, pool []*expert.Expert, maxParticipants int) []*expert.Expert {
	type scored struct {
		expert *expert.Expert
		score  float64
	}

	ranked := make([]scored, 0, len(pool))
	for _, e := range pool {
		if score := e.RelevanceScore(query); score > 0 {
			ranked = append(ranked, scored{expert: e, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > maxParticipants {
		ranked = ranked[:maxParticipants]
	}

	out := make([]*expert.Expert, len(ranked))
	for i, s := range ranked {
		out[i] = s.expert
	}
	return out
}

// selectIntelligent asks the selector oracle to name participating experts.
// The fallback to score-based selection is an explicit step, not exception
// flow, so both paths stay independently testable.
func (r *Router) selectIntelligent(
	ctx context.Context,
	query string,
	pool []*expert.Expert,
	maxParticipants int,
	selector oracle.Oracle,
) []*expert.Expert {
	if selector == nil {
		r.logger.Warn("router.intelligent.no_oracle", "fallback", "parallel")
		return r.selectRanked(query, pool, maxParticipants)
	}

	matched, err := r.askSelector(ctx, query, pool, maxParticipants, selector)
	if err != nil {
		r.logger.Warn("router.intelligent.oracle_error", "error", err.Error(), "fallback", "parallel")
		return r.selectRanked(query, pool, maxParticipants)
	}
	if len(matched) == 0 {
		r.logger.Warn("router.intelligent.no_match", "fallback", "parallel")
		return r.selectRanked(query, pool, maxParticipants)
	}
	return matched
}

func (r *Router) askSelector(
	ctx context.Context,
	query string,
	pool []*expert.Expert,
	maxParticipants int,
	selector oracle.Oracle,
) ([]*expert.Expert, error) {
	resp, err := selector.Generate(ctx, oracle.Request{
		Messages: []oracle.Message{
			{Role: oracle.RoleUser, Content: buildSelectionPrompt(query, pool, maxParticipants)},
		},
		Temperature: r.selectionTemperature,
		MaxTokens:   r.selectionMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return matchNames(resp.Text, pool, maxParticipants), nil
}

// buildSelectionPrompt lists every expert's name, domain and keywords and asks
// the oracle to answer with one expert name per line.
func buildSelectionPrompt(query string, pool []*expert.Expert, maxParticipants int) string {
	var b strings.Builder
	b.WriteString("Select the experts best suited to answer the question below.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\nAvailable experts:\n", query)
	for _, e := range pool {
		fmt.Fprintf(&b, "- %s (domain: %s; expertise: %s)\n", e.Name(), e.Domain(), strings.Join(e.Keywords(), ", "))
	}
	fmt.Fprintf(&b, "\nReply with the names of the experts that should respond, one name per line, at most %d names. Reply with names only.", maxParticipants)
	return b.String()
}

// matchNames maps the oracle's reply back onto the pool, case-insensitively,
// preserving the oracle's listed order and dropping duplicates. Lines that
// match no expert are ignored.
func matchNames(reply string, pool []*expert.Expert, maxParticipants int) []*expert.Expert {
	seen := make(map[string]bool, len(pool))
	var out []*expert.Expert

	for _, line := range strings.Split(reply, "\n") {
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789. "))
		if name == "" {
			continue
		}
		for _, e := range pool {
			if !strings.EqualFold(e.Name(), name) {
				continue
			}
			if seen[e.ID()] {
				break
			}
			seen[e.ID()] = true
			out = append(out, e)
			break
		}
		if len(out) == maxParticipants {
			break
		}
	}

	return out
}
