package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/expert"
	"github.com/hupe1980/expertmesh/oracle"
)

func mustExpert(t *testing.T, name, domain string, keywords []string, confidence float64) *expert.Expert {
	t.Helper()
	e, err := expert.New(name, domain, oracle.NewMock(name+"-model"), func(o *expert.Options) {
		o.Keywords = keywords
		o.Confidence = confidence
	})
	require.NoError(t, err)
	return e
}

func testPool(t *testing.T) []*expert.Expert {
	t.Helper()
	return []*expert.Expert{
		mustExpert(t, "WeatherExpert", "meteorology", []string{"weather", "forecast"}, 0.9),
		mustExpert(t, "MathExpert", "mathematics", []string{"calculate", "number"}, 0.95),
		mustExpert(t, "HistoryExpert", "history", []string{"history", "century"}, 0.85),
	}
}

func names(selected []*expert.Expert) []string {
	out := make([]string, len(selected))
	for i, e := range selected {
		out[i] = e.Name()
	}
	return out
}

func TestSelect_EmptyPool(t *testing.T) {
	r := New()
	_, err := r.Select(context.Background(), "anything", nil, core.StrategyParallel, 3, nil)
	require.Error(t, err)

	var routingErr *core.RoutingError
	require.True(t, errors.As(err, &routingErr))
	assert.Equal(t, "no experts available", routingErr.Reason)
}

func TestSelect_InvalidMaxParticipants(t *testing.T) {
	r := New()
	_, err := r.Select(context.Background(), "weather", testPool(t), core.StrategyParallel, 0, nil)
	assert.Error(t, err)
}

func TestSelect_Single_PicksHighestScore(t *testing.T) {
	r := New()
	selected, err := r.Select(context.Background(), "calculate the number", testPool(t), core.StrategySingle, 3, nil)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "MathExpert", selected[0].Name())
}

func TestSelect_Single_ReturnsTopEvenAtZeroScore(t *testing.T) {
	r := New()
	selected, err := r.Select(context.Background(), "completely unrelated", testPool(t), core.StrategySingle, 3, nil)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	// All scores are zero; pool order decides.
	assert.Equal(t, "WeatherExpert", selected[0].Name())
}

func TestSelect_Single_TieBreaksToPoolOrder(t *testing.T) {
	pool := []*expert.Expert{
		mustExpert(t, "First", "a", []string{"topic"}, 0.8),
		mustExpert(t, "Second", "b", []string{"topic"}, 0.8),
	}

	r := New()
	selected, err := r.Select(context.Background(), "topic question", pool, core.StrategySingle, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "First", selected[0].Name())
}

func TestSelect_Parallel_RanksAndDropsZeroScores(t *testing.T) {
	r := New()
	selected, err := r.Select(context.Background(), "calculate the weather number", testPool(t), core.StrategyParallel, 3, nil)
	require.NoError(t, err)

	// MathExpert matches both keywords, WeatherExpert one, HistoryExpert none.
	assert.Equal(t, []string{"MathExpert", "WeatherExpert"}, names(selected))
}

func TestSelect_Parallel_NoMatches(t *testing.T) {
	r := New()
	_, err := r.Select(context.Background(), "completely unrelated", testPool(t), core.StrategyParallel, 3, nil)
	require.Error(t, err)

	var routingErr *core.RoutingError
	require.True(t, errors.As(err, &routingErr))
	assert.Equal(t, "no suitable experts found", routingErr.Reason)
}

func TestSelect_Parallel_CapsAtMaxParticipants(t *testing.T) {
	r := New()
	selected, err := r.Select(context.Background(), "calculate the weather history", testPool(t), core.StrategyParallel, 2, nil)
	require.NoError(t, err)
	assert.Len(t, selected, 2)
}

func TestSelect_Parallel_StableOrderOnTies(t *testing.T) {
	pool := []*expert.Expert{
		mustExpert(t, "First", "a", []string{"topic"}, 0.8),
		mustExpert(t, "Second", "b", []string{"topic"}, 0.8),
		mustExpert(t, "Third", "c", []string{"topic"}, 0.8),
	}

	r := New()
	selected, err := r.Select(context.Background(), "a topic question", pool, core.StrategyParallel, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second", "Third"}, names(selected))
}

func TestSelect_Sequential_UsesRankedSelection(t *testing.T) {
	r := New()
	selected, err := r.Select(context.Background(), "weather and history", testPool(t), core.StrategySequential, 3, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"WeatherExpert", "HistoryExpert"}, names(selected))
}

func TestSelect_Intelligent_UsesSelectorNames(t *testing.T) {
	selector := oracle.NewMock("selector")
	selector.Enqueue(&oracle.Response{Text: "HistoryExpert\nMathExpert"})

	r := New()
	selected, err := r.Select(context.Background(), "anything", testPool(t), core.StrategyIntelligent, 3, selector)
	require.NoError(t, err)

	// The selector's order wins over relevance ranking.
	assert.Equal(t, []string{"HistoryExpert", "MathExpert"}, names(selected))
}

func TestSelect_Intelligent_MatchesCaseInsensitiveAndBullets(t *testing.T) {
	selector := oracle.NewMock("selector")
	selector.Enqueue(&oracle.Response{Text: "1. mathexpert\n- WEATHEREXPERT\nNobodyKnown"})

	r := New()
	selected, err := r.Select(context.Background(), "anything", testPool(t), core.StrategyIntelligent, 3, selector)
	require.NoError(t, err)
	assert.Equal(t, []string{"MathExpert", "WeatherExpert"}, names(selected))
}

func TestSelect_Intelligent_DeduplicatesAndCaps(t *testing.T) {
	selector := oracle.NewMock("selector")
	selector.Enqueue(&oracle.Response{Text: "MathExpert\nMathExpert\nWeatherExpert\nHistoryExpert"})

	r := New()
	selected, err := r.Select(context.Background(), "anything", testPool(t), core.StrategyIntelligent, 2, selector)
	require.NoError(t, err)
	assert.Equal(t, []string{"MathExpert", "WeatherExpert"}, names(selected))
}

func TestSelect_Intelligent_NilSelectorFallsBack(t *testing.T) {
	r := New()
	selected, err := r.Select(context.Background(), "calculate something", testPool(t), core.StrategyIntelligent, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"MathExpert"}, names(selected))
}

func TestSelect_Intelligent_SelectorErrorFallsBack(t *testing.T) {
	selector := oracle.NewMock("selector")
	selector.EnqueueError(errors.New("selector down"))

	r := New()
	selected, err := r.Select(context.Background(), "what is the weather", testPool(t), core.StrategyIntelligent, 3, selector)
	require.NoError(t, err)
	assert.Equal(t, []string{"WeatherExpert"}, names(selected))
}

func TestSelect_Intelligent_NoMatchedNamesFallsBack(t *testing.T) {
	selector := oracle.NewMock("selector")
	selector.Enqueue(&oracle.Response{Text: "SomeoneElse\nAnotherStranger"})

	r := New()
	selected, err := r.Select(context.Background(), "weather forecast", testPool(t), core.StrategyIntelligent, 3, selector)
	require.NoError(t, err)
	assert.Equal(t, []string{"WeatherExpert"}, names(selected))
}

func TestSelect_Intelligent_PromptListsPool(t *testing.T) {
	selector := oracle.NewMock("selector")
	selector.Enqueue(&oracle.Response{Text: "MathExpert"})

	r := New()
	_, err := r.Select(context.Background(), "pick one", testPool(t), core.StrategyIntelligent, 2, selector)
	require.NoError(t, err)

	reqs := selector.Requests()
	require.Len(t, reqs, 1)
	prompt := reqs[0].Messages[0].Content
	assert.Contains(t, prompt, "pick one")
	assert.Contains(t, prompt, "WeatherExpert")
	assert.Contains(t, prompt, "MathExpert")
	assert.Contains(t, prompt, "HistoryExpert")
	assert.Contains(t, prompt, "at most 2 names")
}
