package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelegationStrategy_Properties(t *testing.T) {
	tests := []struct {
		strategy            DelegationStrategy
		usesMultipleExperts bool
		requiresOracle      bool
	}{
		{StrategySingle, false, false},
		{StrategyParallel, true, false},
		{StrategySequential, true, false},
		{StrategyIntelligent, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			props := tt.strategy.Properties()
			assert.Equal(t, tt.usesMultipleExperts, props.UsesMultipleExperts)
			assert.Equal(t, tt.requiresOracle, props.RequiresOracle)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("  Parallel ")
	assert.NoError(t, err)
	assert.Equal(t, StrategyParallel, s)

	s, err = ParseStrategy("SEQUENTIAL")
	assert.NoError(t, err)
	assert.Equal(t, StrategySequential, s)

	_, err = ParseStrategy("adaptive")
	assert.Error(t, err)

	_, err = ParseStrategy("")
	assert.Error(t, err)
}

func TestDelegationStrategy_Valid(t *testing.T) {
	assert.True(t, StrategySingle.Valid())
	assert.True(t, StrategyIntelligent.Valid())
	assert.False(t, DelegationStrategy("custom").Valid())
}
