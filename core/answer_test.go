package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenUsage_Add(t *testing.T) {
	a := &TokenUsage{InputTokens: 10, OutputTokens: 20, Cost: 0.5}
	b := &TokenUsage{InputTokens: 1, OutputTokens: 2, Cost: 0.25}

	sum := a.Add(b)
	require.NotNil(t, sum)
	assert.Equal(t, 11, sum.InputTokens)
	assert.Equal(t, 22, sum.OutputTokens)
	assert.InDelta(t, 0.75, sum.Cost, 1e-9)

	// Operands are untouched.
	assert.Equal(t, 10, a.InputTokens)
	assert.Equal(t, 1, b.InputTokens)
}

func TestTokenUsage_Add_NilOperands(t *testing.T) {
	var none *TokenUsage
	assert.Nil(t, none.Add(nil))

	sum := none.Add(&TokenUsage{InputTokens: 3})
	require.NotNil(t, sum)
	assert.Equal(t, 3, sum.InputTokens)

	sum = (&TokenUsage{OutputTokens: 7}).Add(nil)
	require.NotNil(t, sum)
	assert.Equal(t, 7, sum.OutputTokens)
}
