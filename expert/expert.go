// Package expert implements the domain-specialized worker of ExpertMesh: a
// bound combination of keyword capability, static confidence, private tools
// and a reasoning oracle. Experts are immutable after construction and safe
// for concurrent use.
package expert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/logging"
	"github.com/hupe1980/expertmesh/oracle"
	"github.com/hupe1980/expertmesh/tool"
)

// Relevance score weights: keyword overlap dominates, static confidence
// breaks near-ties between equally matching experts.
const (
	keywordWeight    = 0.7
	confidenceWeight = 0.3
)

// Options configures an Expert instance. Use functional options with New to
// override defaults.
type Options struct {
	// ID overrides the generated unique identifier.
	ID string
	// Keywords the expert claims capability for. Stored lowercase; must be non-empty.
	Keywords []string
	// Confidence is the static prior reliability in [0,1].
	Confidence float64
	// Tools available to the expert's oracle.
	Tools []tool.Tool
	// Instruction replaces the generated system instruction.
	Instruction string
	// Temperature for oracle calls.
	Temperature float64
	// MaxTokens caps oracle output per call.
	MaxTokens int64
	// MaxToolRounds bounds the tool-calling loop per invocation.
	MaxToolRounds int
	Logger        logging.Logger
}

// Expert is a domain-specialized worker wrapping a reasoning oracle and a
// private tool set. All fields are fixed at construction.
type Expert struct {
	id            string
	name          string
	domain        string
	keywords      []string
	confidence    float64
	tools         map[string]tool.Tool
	toolOrder     []string
	oracle        oracle.Oracle
	instruction   string
	temperature   float64
	maxTokens     int64
	maxToolRounds int
	logger        logging.Logger
}

// New creates an expert bound to the given oracle. Keywords must be supplied
// via options and non-empty; without them routing degenerates to a zero score
// for every query, so construction fails instead.
func New(name, domain string, orc oracle.Oracle, optFns ...func(o *Options)) (*Expert, error) {
	opts := Options{
		Confidence:    0.8,
		Temperature:   0.7,
		MaxTokens:     2048,
		MaxToolRounds: 5,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if name == "" {
		return nil, &core.ConfigurationError{Reason: "expert name must not be empty"}
	}
	if orc == nil {
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("expert %s has no oracle binding", name)}
	}
	if len(opts.Keywords) == 0 {
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("expert %s must declare at least one keyword", name)}
	}
	if opts.Confidence < 0 || opts.Confidence > 1 {
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("expert %s confidence %v outside [0,1]", name, opts.Confidence)}
	}

	keywords := make([]string, 0, len(opts.Keywords))
	for _, k := range opts.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return nil, &core.ConfigurationError{Reason: fmt.Sprintf("expert %s must declare at least one keyword", name)}
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	instruction := opts.Instruction
	if instruction == "" {
		instruction = fmt.Sprintf(
			"You are %s, a specialist in %s. Answer the question within your domain, using your tools when they help. Be concise and factual.",
			name, domain,
		)
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	toolOrder := make([]string, 0, len(opts.Tools))
	for _, t := range opts.Tools {
		if _, exists := tools[t.Name()]; exists {
			continue
		}
		tools[t.Name()] = t
		toolOrder = append(toolOrder, t.Name())
	}

	return &Expert{
		id:            id,
		name:          name,
		domain:        domain,
		keywords:      keywords,
		confidence:    opts.Confidence,
		tools:         tools,
		toolOrder:     toolOrder,
		oracle:        orc,
		instruction:   instruction,
		temperature:   opts.Temperature,
		maxTokens:     opts.MaxTokens,
		maxToolRounds: opts.MaxToolRounds,
		logger:        opts.Logger,
	}, nil
}

// ID returns the stable unique identifier.
func (e *Expert) ID() string { return e.id }

// Name returns the display name.
func (e *Expert) Name() string { return e.name }

// Domain returns the free-text domain label.
func (e *Expert) Domain() string { return e.domain }

// Confidence returns the static prior reliability.
func (e *Expert) Confidence() float64 { return e.confidence }

// Keywords returns a copy of the capability keyword set.
func (e *Expert) Keywords() []string {
	out := make([]string, len(e.keywords))
	copy(out, e.keywords)
	return out
}

// ToolNames returns the names of the expert's tools in registration order.
func (e *Expert) ToolNames() []string {
	out := make([]string, len(e.toolOrder))
	copy(out, e.toolOrder)
	return out
}

// CanHandle reports whether any capability keyword appears in the query.
func (e *Expert) CanHandle(query string) bool {
	q := strings.ToLower(query)
	for _, k := range e.keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// RelevanceScore rates the query against the expert's capability in [0,1].
// Zero keyword matches yield exactly 0; otherwise the keyword match ratio and
// the static confidence are combined with fixed weights. Matching is
// case-insensitive substring containment, no stemming or fuzzy matching.
func (e *Expert) RelevanceScore(query string) float64 {
	q := strings.ToLower(query)
	matched := 0
	for _, k := range e.keywords {
		if strings.Contains(q, k) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	ratio := float64(matched) / float64(len(e.keywords))
	return ratio*keywordWeight + e.confidence*confidenceWeight
}

// toolDefinitions exposes the tool set as oracle tool schemas, sorted by name
// for deterministic request payloads.
func (e *Expert) toolDefinitions() []oracle.ToolDefinition {
	if len(e.tools) == 0 {
		return nil
	}
	names := make([]string, 0, len(e.tools))
	for name := range e.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]oracle.ToolDefinition, 0, len(names))
	for _, name := range names {
		t := e.tools[name]
		defs = append(defs, oracle.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}
