package expert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/expertmesh/core"
	"github.com/hupe1980/expertmesh/oracle"
)

// Request carries a query plus the running conversation history into an
// expert invocation. The history is read-only from the expert's perspective.
type Request struct {
	Query   string
	History []oracle.Message
}

// Respond answers the query by driving the oracle through a bounded
// tool-calling loop: each requested tool invocation is executed and fed back
// as a tool turn until the oracle stops requesting tools or the round limit
// is reached. Tool results and token usage accumulate into the answer. The
// answer's confidence is copied from the expert, never recomputed.
func (e *Expert) Respond(ctx context.Context, req Request) (*core.ExpertAnswer, error) {
	start := time.Now()

	messages := make([]oracle.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, oracle.Message{Role: oracle.RoleUser, Content: req.Query})

	var (
		toolResults []core.ToolResult
		usage       *core.TokenUsage
		content     string
		modelName   string
		rounds      int
	)

	for round := 0; ; round++ {
		resp, err := e.oracle.Generate(ctx, oracle.Request{
			System:      e.instruction,
			Messages:    messages,
			Tools:       e.toolDefinitions(),
			Temperature: e.temperature,
			MaxTokens:   e.maxTokens,
		})
		if err != nil {
			e.logger.Warn("expert.respond.oracle_error", "expert", e.name, "round", round, "error", err.Error())
			return nil, &core.InvocationError{ExpertID: e.id, ExpertName: e.name, Err: err}
		}

		usage = usage.Add(&core.TokenUsage{InputTokens: resp.InputTokens, OutputTokens: resp.OutputTokens})
		modelName = resp.Model
		rounds = round + 1

		if len(resp.ToolCalls) == 0 || round >= e.maxToolRounds {
			content = resp.Text
			break
		}

		calls := withCallIDs(resp.ToolCalls)
		messages = append(messages, oracle.Message{
			Role:      oracle.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: calls,
		})

		for _, call := range calls {
			result := e.executeToolCall(ctx, call)
			toolResults = append(toolResults, result)

			feedback := result.Result
			if !result.Success {
				feedback = result.Error
			}
			messages = append(messages, oracle.Message{
				Role:       oracle.RoleTool,
				Content:    feedback,
				ToolCallID: call.ID,
				ToolName:   call.Name,
				IsError:    !result.Success,
			})
		}
	}

	e.logger.Debug("expert.respond.complete",
		"expert", e.name,
		"rounds", rounds,
		"tool_calls", len(toolResults),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &core.ExpertAnswer{
		ID:          uuid.NewString(),
		ExpertID:    e.id,
		ExpertName:  e.name,
		Domain:      e.domain,
		Content:     content,
		Confidence:  e.confidence,
		ToolResults: toolResults,
		TokenUsage:  usage,
		Metadata: map[string]any{
			"model":  modelName,
			"rounds": rounds,
		},
	}, nil
}

// executeToolCall runs one requested tool invocation, converting every failure
// mode (unknown tool, bad arguments, execution error) into a ToolResult.
func (e *Expert) executeToolCall(ctx context.Context, call oracle.ToolCall) core.ToolResult {
	t, exists := e.tools[call.Name]
	if !exists {
		return core.ToolResult{
			ToolName: call.Name,
			Success:  false,
			Error:    fmt.Sprintf("tool %s not found", call.Name),
		}
	}

	args := make(map[string]any)
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return core.ToolResult{
				ToolName: call.Name,
				Success:  false,
				Error:    fmt.Sprintf("failed to unmarshal args: %v", err),
			}
		}
	}

	result, err := t.Call(ctx, args)
	if err != nil {
		e.logger.Warn("expert.tool.error", "expert", e.name, "tool", call.Name, "error", err.Error())
		return core.ToolResult{
			ToolName: call.Name,
			Success:  false,
			Error:    err.Error(),
		}
	}

	return core.ToolResult{
		ToolName: call.Name,
		Success:  true,
		Result:   stringifyResult(result),
	}
}

// withCallIDs fills in missing tool call ids so result turns can always be
// correlated with their originating calls.
func withCallIDs(calls []oracle.ToolCall) []oracle.ToolCall {
	out := make([]oracle.ToolCall, len(calls))
	copy(out, calls)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

func stringifyResult(result any) string {
	switch v := result.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", v)
	}
}
