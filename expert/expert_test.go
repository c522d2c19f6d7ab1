package expert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/oracle"
	"github.com/hupe1980/expertmesh/tool"
)

func newWeatherExpert(t *testing.T, orc oracle.Oracle) *Expert {
	t.Helper()
	e, err := New("WeatherExpert", "meteorology", orc, func(o *Options) {
		o.Keywords = []string{"weather", "forecast"}
		o.Confidence = 0.9
	})
	require.NoError(t, err)
	return e
}

func TestNew_Validation(t *testing.T) {
	orc := oracle.NewMock("m")

	_, err := New("X", "d", orc)
	assert.Error(t, err, "missing keywords must fail")

	_, err = New("X", "d", nil, func(o *Options) { o.Keywords = []string{"k"} })
	assert.Error(t, err, "missing oracle must fail")

	_, err = New("", "d", orc, func(o *Options) { o.Keywords = []string{"k"} })
	assert.Error(t, err, "missing name must fail")

	_, err = New("X", "d", orc, func(o *Options) {
		o.Keywords = []string{"k"}
		o.Confidence = 1.5
	})
	assert.Error(t, err, "confidence outside [0,1] must fail")

	var cfgErr *core.ConfigurationError
	_, err = New("X", "d", orc)
	assert.True(t, errors.As(err, &cfgErr))
}

func TestNew_NormalizesKeywords(t *testing.T) {
	e, err := New("X", "d", oracle.NewMock("m"), func(o *Options) {
		o.Keywords = []string{" Weather ", "FORECAST"}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"weather", "forecast"}, e.Keywords())
}

func TestCanHandle(t *testing.T) {
	e := newWeatherExpert(t, oracle.NewMock("m"))

	assert.True(t, e.CanHandle("What is the WEATHER today?"))
	assert.True(t, e.CanHandle("give me the forecast"))
	assert.False(t, e.CanHandle("calculate 2 + 2"))
}

func TestRelevanceScore(t *testing.T) {
	e := newWeatherExpert(t, oracle.NewMock("m"))

	// Zero matches yield exactly zero.
	assert.Equal(t, 0.0, e.RelevanceScore("calculate 2 + 2"))

	// One of two keywords: 0.5*0.7 + 0.9*0.3 = 0.62
	assert.InDelta(t, 0.62, e.RelevanceScore("what is the weather?"), 1e-9)

	// Both keywords: 1.0*0.7 + 0.9*0.3 = 0.97
	assert.InDelta(t, 0.97, e.RelevanceScore("weather forecast please"), 1e-9)
}

func TestRelevanceScore_Bounds(t *testing.T) {
	e, err := New("X", "d", oracle.NewMock("m"), func(o *Options) {
		o.Keywords = []string{"a"}
		o.Confidence = 1.0
	})
	require.NoError(t, err)

	for _, query := range []string{"", "a", "zzz", "a a a"} {
		score := e.RelevanceScore(query)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestRespond_PlainAnswer(t *testing.T) {
	orc := oracle.NewMock("m")
	orc.AddResponse("how is the weather?", "Sunny and mild.")
	e := newWeatherExpert(t, orc)

	answer, err := e.Respond(context.Background(), Request{Query: "how is the weather?"})
	require.NoError(t, err)

	assert.Equal(t, "Sunny and mild.", answer.Content)
	assert.Equal(t, "WeatherExpert", answer.ExpertName)
	assert.Equal(t, "meteorology", answer.Domain)
	assert.Equal(t, 0.9, answer.Confidence)
	assert.Empty(t, answer.ToolResults)
	assert.NotEmpty(t, answer.ID)
	require.NotNil(t, answer.TokenUsage)
	assert.Greater(t, answer.TokenUsage.InputTokens, 0)
}

func TestRespond_ToolLoop(t *testing.T) {
	orc := oracle.NewMock("m")
	orc.Enqueue(&oracle.Response{
		ToolCalls: []oracle.ToolCall{
			{ID: "call-1", Name: tool.NameCalculator, Arguments: `{"operation":"add","a":15,"b":27}`},
		},
		InputTokens:  10,
		OutputTokens: 5,
	})
	orc.Enqueue(&oracle.Response{
		Text:         "15 + 27 = 42.",
		InputTokens:  20,
		OutputTokens: 8,
	})

	e, err := New("MathExpert", "mathematics", orc, func(o *Options) {
		o.Keywords = []string{"calculate"}
		o.Confidence = 0.95
		o.Tools = []tool.Tool{tool.NewCalculator()}
	})
	require.NoError(t, err)

	answer, err := e.Respond(context.Background(), Request{Query: "calculate 15 + 27"})
	require.NoError(t, err)

	assert.Equal(t, "15 + 27 = 42.", answer.Content)
	require.Len(t, answer.ToolResults, 1)
	assert.Equal(t, tool.NameCalculator, answer.ToolResults[0].ToolName)
	assert.True(t, answer.ToolResults[0].Success)
	assert.Equal(t, "42", answer.ToolResults[0].Result)

	// Usage accumulates across both oracle rounds.
	require.NotNil(t, answer.TokenUsage)
	assert.Equal(t, 30, answer.TokenUsage.InputTokens)
	assert.Equal(t, 13, answer.TokenUsage.OutputTokens)

	// The tool result was fed back as a tool turn.
	reqs := orc.Requests()
	require.Len(t, reqs, 2)
	second := reqs[1].Messages
	require.NotEmpty(t, second)
	last := second[len(second)-1]
	assert.Equal(t, oracle.RoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
	assert.Equal(t, "42", last.Content)
}

func TestRespond_UnknownToolIsFedBackAsError(t *testing.T) {
	orc := oracle.NewMock("m")
	orc.Enqueue(&oracle.Response{
		ToolCalls: []oracle.ToolCall{{ID: "call-1", Name: "no_such_tool", Arguments: `{}`}},
	})
	orc.Enqueue(&oracle.Response{Text: "done without the tool"})

	e := newWeatherExpert(t, orc)

	answer, err := e.Respond(context.Background(), Request{Query: "weather?"})
	require.NoError(t, err)

	require.Len(t, answer.ToolResults, 1)
	assert.False(t, answer.ToolResults[0].Success)
	assert.Contains(t, answer.ToolResults[0].Error, "not found")
	assert.Equal(t, "done without the tool", answer.Content)
}

func TestRespond_OracleError(t *testing.T) {
	orc := oracle.NewMock("m")
	orc.EnqueueError(oracle.NewError("mock", oracle.ErrCodeRateLimit, errors.New("throttled")))

	e := newWeatherExpert(t, orc)

	_, err := e.Respond(context.Background(), Request{Query: "weather?"})
	require.Error(t, err)

	var invErr *core.InvocationError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, "WeatherExpert", invErr.ExpertName)

	var oracleErr *oracle.Error
	require.True(t, errors.As(err, &oracleErr))
	assert.True(t, oracleErr.Recoverable)
}

func TestRespond_RoundLimit(t *testing.T) {
	orc := oracle.NewMock("m")
	// Always request another tool call; the loop must still terminate.
	for i := 0; i < 5; i++ {
		orc.Enqueue(&oracle.Response{
			Text:      "still working",
			ToolCalls: []oracle.ToolCall{{Name: tool.NameEcho, Arguments: `{"text":"hi"}`}},
		})
	}

	e, err := New("X", "d", orc, func(o *Options) {
		o.Keywords = []string{"k"}
		o.Tools = []tool.Tool{tool.NewEcho()}
		o.MaxToolRounds = 2
	})
	require.NoError(t, err)

	answer, err := e.Respond(context.Background(), Request{Query: "k"})
	require.NoError(t, err)
	assert.Equal(t, "still working", answer.Content)
	assert.Len(t, answer.ToolResults, 2)
}

func TestRespond_HistoryIsPassedThrough(t *testing.T) {
	orc := oracle.NewMock("m")
	e := newWeatherExpert(t, orc)

	history := []oracle.Message{{Role: oracle.RoleAssistant, Content: "earlier answer"}}
	_, err := e.Respond(context.Background(), Request{Query: "weather?", History: history})
	require.NoError(t, err)

	reqs := orc.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, "earlier answer", reqs[0].Messages[0].Content)
	assert.Equal(t, "weather?", reqs[0].Messages[1].Content)
}
