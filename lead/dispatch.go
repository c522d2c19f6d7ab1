package lead

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/expert"
	"github.com/hupe1980/expertmesh/oracle"
)

// dispatch executes the selected experts according to the configured
// strategy. Intelligent dispatch deliberately collapses into parallel
// dispatch: the intelligence lives entirely in the routing choice of which
// experts to call, not in how they are invoked.
func (l *Lead) dispatch(
	ctx context.Context,
	runID string,
	selected []*expert.Expert,
	query string,
	history []oracle.Message,
) ([]core.ExpertAnswer, error) {
	switch l.strategy {
	case core.StrategySingle:
		return l.runSingle(ctx, runID, selected[0], query, history)
	case core.StrategySequential:
		return l.runSequential(ctx, runID, selected, query, history), nil
	default: // parallel, intelligent
		return l.runParallel(ctx, runID, selected, query, history), nil
	}
}

// invoke runs one expert with the per-invocation timeout applied.
func (l *Lead) invoke(ctx context.Context, e *expert.Expert, query string, history []oracle.Message) (*core.ExpertAnswer, error) {
	invokeCtx, cancel := context.WithTimeout(ctx, l.expertTimeout)
	defer cancel()
	return e.Respond(invokeCtx, expert.Request{Query: query, History: history})
}

// runSingle invokes the sole selected expert. Its failure propagates to the
// caller, wrapped with the query for context; there is nothing to fall back to.
func (l *Lead) runSingle(ctx context.Context, runID string, e *expert.Expert, query string, history []oracle.Message) ([]core.ExpertAnswer, error) {
	answer, err := l.invoke(ctx, e, query, history)
	if err != nil {
		return nil, fmt.Errorf("expert %s failed answering %q: %w", e.Name(), query, err)
	}
	l.logger.Debug("dispatch.single.complete", "run", runID, "expert", e.Name())
	return []core.ExpertAnswer{*answer}, nil
}

// runParallel fans the query out to all selected experts concurrently and
// waits for all to settle. A failed expert is converted to a zero-confidence
// answer carrying the error text; after the fan-in, only answers with
// confidence > 0 are kept. The result preserves selection order so the
// synthesizer's fallback concatenation is deterministic regardless of
// completion order.
func (l *Lead) runParallel(ctx context.Context, runID string, selected []*expert.Expert, query string, history []oracle.Message) []core.ExpertAnswer {
	results := make([]core.ExpertAnswer, len(selected))

	g := new(errgroup.Group)
	for i, e := range selected {
		i, e := i, e
		g.Go(func() error {
			answer, err := l.invoke(ctx, e, query, history)
			if err != nil {
				l.logger.Warn("dispatch.expert.error",
					"run", runID,
					"expert", e.Name(),
					"error", err.Error(),
				)
				results[i] = failedAnswer(e, err)
				return nil
			}
			results[i] = *answer
			return nil
		})
	}
	// Errors are contained per expert; Wait only synchronizes the fan-in.
	_ = g.Wait()

	answers := make([]core.ExpertAnswer, 0, len(results))
	for _, a := range results {
		if a.Confidence > 0 {
			answers = append(answers, a)
		}
	}
	l.logger.Debug("dispatch.parallel.complete", "run", runID, "selected", len(selected), "succeeded", len(answers))
	return answers
}

// runSequential invokes experts one at a time in selection order. Each
// success appends the expert's answer to the shared running history so later
// experts can refine earlier ones. A failed expert is skipped without leaving
// a trace in the shared history; the chain continues.
func (l *Lead) runSequential(ctx context.Context, runID string, selected []*expert.Expert, query string, history []oracle.Message) []core.ExpertAnswer {
	shared := make([]oracle.Message, len(history), len(history)+len(selected))
	copy(shared, history)

	answers := make([]core.ExpertAnswer, 0, len(selected))
	for _, e := range selected {
		answer, err := l.invoke(ctx, e, query, shared)
		if err != nil {
			l.logger.Warn("dispatch.expert.error",
				"run", runID,
				"expert", e.Name(),
				"error", err.Error(),
			)
			continue
		}
		answers = append(answers, *answer)
		shared = append(shared, oracle.Message{
			Role:    oracle.RoleAssistant,
			Content: fmt.Sprintf("%s (%s): %s", answer.ExpertName, answer.Domain, answer.Content),
		})
	}
	l.logger.Debug("dispatch.sequential.complete", "run", runID, "selected", len(selected), "succeeded", len(answers))
	return answers
}

// failedAnswer converts a contained expert failure into a zero-confidence
// answer. It never reaches the synthesizer (filtered by confidence) but keeps
// the failure observable at the dispatch boundary.
func failedAnswer(e *expert.Expert, err error) core.ExpertAnswer {
	return core.ExpertAnswer{
		ID:         uuid.NewString(),
		ExpertID:   e.ID(),
		ExpertName: e.Name(),
		Domain:     e.Domain(),
		Content:    fmt.Sprintf("Error: %v", err),
		Confidence: 0,
	}
}
