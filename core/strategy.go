package core

import (
	"fmt"
	"strings"
)

// DelegationStrategy selects how many experts answer a query and how their
// invocations are ordered. The set is closed; callers must not invent values.
type DelegationStrategy string

const (
	// StrategySingle routes the query to the one best-scoring expert.
	StrategySingle DelegationStrategy = "single"
	// StrategyParallel fans the query out to all selected experts concurrently.
	StrategyParallel DelegationStrategy = "parallel"
	// StrategySequential invokes selected experts one after another, each
	// seeing the answers of its predecessors.
	StrategySequential DelegationStrategy = "sequential"
	// StrategyIntelligent delegates expert selection to an oracle, then
	// executes like StrategyParallel.
	StrategyIntelligent DelegationStrategy = "intelligent"
)

// StrategyProperties captures the derived behavior of a strategy variant.
type StrategyProperties struct {
	// UsesMultipleExperts reports whether the strategy may select more than one expert.
	UsesMultipleExperts bool
	// RequiresOracle reports whether selection needs an oracle call.
	RequiresOracle bool
}

var strategyProperties = map[DelegationStrategy]StrategyProperties{
	StrategySingle:      {UsesMultipleExperts: false, RequiresOracle: false},
	StrategyParallel:    {UsesMultipleExperts: true, RequiresOracle: false},
	StrategySequential:  {UsesMultipleExperts: true, RequiresOracle: false},
	StrategyIntelligent: {UsesMultipleExperts: true, RequiresOracle: true},
}

// Properties returns the behavior table entry for the strategy. Unknown
// strategies yield the zero value.
func (s DelegationStrategy) Properties() StrategyProperties { return strategyProperties[s] }

// Valid reports whether s is one of the four known strategies.
func (s DelegationStrategy) Valid() bool {
	_, ok := strategyProperties[s]
	return ok
}

// String implements fmt.Stringer.
func (s DelegationStrategy) String() string { return string(s) }

// ParseStrategy converts a user-supplied string (config file, CLI flag) into a
// DelegationStrategy, accepting any casing and surrounding whitespace.
func ParseStrategy(raw string) (DelegationStrategy, error) {
	s := DelegationStrategy(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown delegation strategy %q", raw)
	}
	return s, nil
}
