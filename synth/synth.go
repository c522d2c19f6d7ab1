// Package synth merges the answers collected from dispatched experts into one
// final, attributable answer. Merging never fails: an oracle-assisted
// composition degrades to deterministic concatenation, and an empty answer
// set produces a valid zero-confidence result rather than an error.
package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/logging"
	"github.com/hupe1980/expertmesh/oracle"
)

// NoAnswerContent is returned when every invoked expert failed. This is a
// terminal state of a successful query, distinguishable from a routing error.
const NoAnswerContent = "No expert was able to provide an answer to this query."

// Options configures a Synthesizer instance.
type Options struct {
	Logger logging.Logger
	// Temperature for the composition oracle call.
	Temperature float64
	// MaxTokens caps the composition oracle's reply.
	MaxTokens int64
}

// Synthesizer merges expert answers into a FinalAnswer.
type Synthesizer struct {
	logger      logging.Logger
	temperature float64
	maxTokens   int64
}

// New creates a Synthesizer with defaults suitable for production use.
func New(optFns ...func(o *Options)) *Synthesizer {
	opts := Options{
		Logger:      logging.NoOpLogger{},
		Temperature: 0.3,
		MaxTokens:   2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Synthesizer{
		logger:      opts.Logger,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// Merge combines the answers into one FinalAnswer.
//
// Path selection: no answers -> empty result; one answer -> verbatim
// passthrough without any oracle call (a single contributor never pays a
// synthesis cost); many answers -> oracle composition when an oracle is
// provided, deterministic concatenation otherwise or when the oracle fails.
// Synthesis failures are always recovered locally and never surface.
func (s *Synthesizer) Merge(ctx context.Context, query string, answers []core.ExpertAnswer, orc oracle.Oracle) *core.FinalAnswer {
	switch len(answers) {
	case 0:
		return &core.FinalAnswer{
			Content:     NoAnswerContent,
			Confidence:  0,
			Synthesized: false,
		}
	case 1:
		a := answers[0]
		return &core.FinalAnswer{
			Content:       a.Content,
			Confidence:    a.Confidence,
			Synthesized:   false,
			ToolResults:   a.ToolResults,
			TokenUsage:    a.TokenUsage,
			ExpertAnswers: answers,
		}
	}

	if orc != nil {
		final, err := s.compose(ctx, query, answers, orc)
		if err == nil {
			return final
		}
		s.logger.Warn("synth.compose.error", "error", err.Error(), "fallback", "concatenate")
	}

	return s.concatenate(answers)
}

// compose asks the oracle for one unified answer across all contributors.
func (s *Synthesizer) compose(ctx context.Context, query string, answers []core.ExpertAnswer, orc oracle.Oracle) (*core.FinalAnswer, error) {
	resp, err := orc.Generate(ctx, oracle.Request{
		Messages: []oracle.Message{
			{Role: oracle.RoleUser, Content: buildCompositionPrompt(query, answers)},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, fmt.Errorf("composition oracle returned empty content")
	}

	usage := sumUsage(answers).Add(&core.TokenUsage{
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	})

	return &core.FinalAnswer{
		Content:       resp.Text,
		Confidence:    meanConfidence(answers),
		Synthesized:   true,
		ToolResults:   flattenToolResults(answers),
		TokenUsage:    usage,
		ExpertAnswers: answers,
	}, nil
}

// concatenate is the deterministic fallback: one labeled block per expert in
// contributing order, prefaced by a disclosure line when more than one expert
// contributed. Output depends only on the answer slice, never on timing.
func (s *Synthesizer) concatenate(answers []core.ExpertAnswer) *core.FinalAnswer {
	var b strings.Builder
	if len(answers) > 1 {
		fmt.Fprintf(&b, "Answers from %d experts:\n\n", len(answers))
	}
	for i, a := range answers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s (%s): %s", a.ExpertName, a.Domain, a.Content)
	}

	return &core.FinalAnswer{
		Content:       b.String(),
		Confidence:    meanConfidence(answers),
		Synthesized:   true,
		ToolResults:   flattenToolResults(answers),
		TokenUsage:    sumUsage(answers),
		ExpertAnswers: answers,
	}
}

// buildCompositionPrompt enumerates each contributing expert's answer with
// name, domain, confidence and tool names so the oracle can weigh sources.
func buildCompositionPrompt(query string, answers []core.ExpertAnswer) string {
	var b strings.Builder
	b.WriteString("You are combining answers from several domain experts into one unified answer.\n\n")
	fmt.Fprintf(&b, "Original question: %s\n\nExpert answers:\n", query)
	for i, a := range answers {
		fmt.Fprintf(&b, "\n%d. %s (domain: %s, confidence: %.2f", i+1, a.ExpertName, a.Domain, a.Confidence)
		if names := toolNames(a.ToolResults); len(names) > 0 {
			fmt.Fprintf(&b, ", tools used: %s", strings.Join(names, ", "))
		}
		fmt.Fprintf(&b, "):\n%s\n", a.Content)
	}
	b.WriteString("\nProduce a single coherent answer. Where experts contradict each other, prefer the higher-confidence expert. Preserve attribution where it helps the reader.")
	return b.String()
}

func toolNames(results []core.ToolResult) []string {
	seen := make(map[string]bool, len(results))
	var names []string
	for _, r := range results {
		if !seen[r.ToolName] {
			seen[r.ToolName] = true
			names = append(names, r.ToolName)
		}
	}
	return names
}

func meanConfidence(answers []core.ExpertAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}
	var sum float64
	for _, a := range answers {
		sum += a.Confidence
	}
	return sum / float64(len(answers))
}

func sumUsage(answers []core.ExpertAnswer) *core.TokenUsage {
	var usage *core.TokenUsage
	for _, a := range answers {
		usage = usage.Add(a.TokenUsage)
	}
	return usage
}

// flattenToolResults preserves expert order, then per-expert tool order.
func flattenToolResults(answers []core.ExpertAnswer) []core.ToolResult {
	var out []core.ToolResult
	for _, a := range answers {
		out = append(out, a.ToolResults...)
	}
	return out
}
