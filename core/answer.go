package core

// TokenUsage accumulates token counts and cost across oracle calls.
type TokenUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost,omitempty"`
}

// Add returns the sum of u and other. Nil operands count as zero; the result
// is nil only when both operands are nil so "no usage reported" stays
// distinguishable from "zero tokens used".
func (u *TokenUsage) Add(other *TokenUsage) *TokenUsage {
	if u == nil && other == nil {
		return nil
	}
	sum := TokenUsage{}
	if u != nil {
		sum = *u
	}
	if other != nil {
		sum.InputTokens += other.InputTokens
		sum.OutputTokens += other.OutputTokens
		sum.Cost += other.Cost
	}
	return &sum
}

// ToolResult records a single tool invocation made by an expert while
// answering. Order within an answer follows invocation order.
type ToolResult struct {
	ToolName string `json:"tool_name"`
	Success  bool   `json:"success"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ExpertAnswer is the immutable outcome of one expert invocation. Confidence
// is copied from the expert at answer time, not recomputed; a zero confidence
// marks a contained failure.
type ExpertAnswer struct {
	ID          string         `json:"id"`
	ExpertID    string         `json:"expert_id"`
	ExpertName  string         `json:"expert_name"`
	Domain      string         `json:"domain"`
	Content     string         `json:"content"`
	Confidence  float64        `json:"confidence"`
	ToolResults []ToolResult   `json:"tool_results,omitempty"`
	TokenUsage  *TokenUsage    `json:"token_usage,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// FinalAnswer is the merged result returned to the caller. Synthesized is
// false iff exactly one expert answer contributed (or none did). ExpertAnswers
// retains the full contributing set for attribution and auditing.
type FinalAnswer struct {
	Content       string         `json:"content"`
	Confidence    float64        `json:"confidence"`
	Synthesized   bool           `json:"synthesized"`
	ToolResults   []ToolResult   `json:"tool_results,omitempty"`
	TokenUsage    *TokenUsage    `json:"token_usage,omitempty"`
	ExpertAnswers []ExpertAnswer `json:"expert_answers,omitempty"`
}
