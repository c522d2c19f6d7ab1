package oracle

import (
	"context"
	"fmt"
)

// Message roles used in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall represents a tool invocation requested by an oracle. Unified across
// vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string of arguments
}

// ToolDefinition declaratively exposes a callable function to the oracle.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Message is one turn of conversation history. Assistant turns may carry tool
// calls; tool turns carry the result of one call, keyed by ToolCallID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
	IsError    bool       `json:"is_error,omitempty"`
}

// Request captures the normalized oracle input.
type Request struct {
	System      string           `json:"system,omitempty"`
	Messages    []Message        `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	Temperature float64          `json:"temperature,omitempty"`
	MaxTokens   int64            `json:"max_tokens,omitempty"`
}

// Response is the complete result of one oracle call.
type Response struct {
	Text         string     `json:"text"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	InputTokens  int        `json:"input_tokens"`
	OutputTokens int        `json:"output_tokens"`
	Model        string     `json:"model"`
}

// Info contains metadata about an oracle implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "anthropic", "openai", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Oracle is the minimal interface experts, the router's intelligent path and
// the synthesizer need to drive generation.
type Oracle interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the oracle implementation.
	Info() Info
}

// ErrorCode classifies provider failures.
type ErrorCode string

const (
	// ErrCodeAuth marks authentication or authorization failures (non-recoverable).
	ErrCodeAuth ErrorCode = "auth"
	// ErrCodeRateLimit marks throttling responses (recoverable after backoff).
	ErrCodeRateLimit ErrorCode = "rate_limit"
	// ErrCodeGeneric marks everything else.
	ErrCodeGeneric ErrorCode = "generic"
)

// Error wraps a provider failure with its classification so callers can decide
// whether a retry could help.
type Error struct {
	Provider    string
	Code        ErrorCode
	Recoverable bool
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s oracle error [%s]: %v", e.Provider, e.Code, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// NewError builds a classified provider error. Rate-limit errors are marked
// recoverable, auth errors are not, generic errors are left recoverable so a
// caller may retry once transport conditions change.
func NewError(provider string, code ErrorCode, err error) *Error {
	return &Error{
		Provider:    provider,
		Code:        code,
		Recoverable: code != ErrCodeAuth,
		Err:         err,
	}
}

// ClassifyStatus maps an HTTP status code from a provider SDK to an ErrorCode.
func ClassifyStatus(status int) ErrorCode {
	switch status {
	case 401, 403:
		return ErrCodeAuth
	case 429:
		return ErrCodeRateLimit
	default:
		return ErrCodeGeneric
	}
}
