package tool

import (
	"context"
	"fmt"
	"strings"
)

// Builtin tool names usable in pool configuration files.
const (
	NameCalculator = "calculate"
	NameLookup     = "lookup"
	NameEcho       = "echo"
)

// NewCalculator returns an arithmetic evaluator tool supporting the four basic
// operations on two operands.
func NewCalculator() *FunctionTool {
	return NewFunctionTool(
		NameCalculator,
		"Perform a basic arithmetic operation (add, subtract, multiply, divide) on two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type":        "string",
					"description": "One of: add, subtract, multiply, divide",
				},
				"a": map[string]any{"type": "number", "description": "First operand"},
				"b": map[string]any{"type": "number", "description": "Second operand"},
			},
			"required": []string{"operation", "a", "b"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			a, aok := toFloat(args["a"])
			b, bok := toFloat(args["b"])
			if !aok || !bok {
				return nil, NewToolError(NameCalculator, "operands must be numbers", "VALIDATION_ERROR")
			}
			op, _ := args["operation"].(string)
			switch strings.ToLower(op) {
			case "add":
				return a + b, nil
			case "subtract":
				return a - b, nil
			case "multiply":
				return a * b, nil
			case "divide":
				if b == 0 {
					return nil, NewToolError(NameCalculator, "division by zero", "EXECUTION_ERROR")
				}
				return a / b, nil
			default:
				return nil, NewToolError(NameCalculator, fmt.Sprintf("unsupported operation %q", op), "VALIDATION_ERROR")
			}
		},
	)
}

// NewLookup returns a key/value lookup tool over the given data set. A nil
// data map falls back to a small canned demo set.
func NewLookup(data map[string]string) *FunctionTool {
	if data == nil {
		data = DefaultLookupData()
	}
	return NewFunctionTool(
		NameLookup,
		"Look up a value for a known key in the reference data set",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"key": map[string]any{"type": "string", "description": "Key to look up"},
			},
			"required": []string{"key"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			key, _ := args["key"].(string)
			value, ok := data[strings.ToLower(strings.TrimSpace(key))]
			if !ok {
				return nil, NewToolError(NameLookup, fmt.Sprintf("no entry for key %q", key), "EXECUTION_ERROR")
			}
			return value, nil
		},
	)
}

// DefaultLookupData is the canned data set used by NewLookup when no data is supplied.
func DefaultLookupData() map[string]string {
	return map[string]string{
		"weather": "Sunny, 22 degrees Celsius with a light breeze",
		"forecast": "Sunny today, scattered clouds tomorrow, rain expected " +
			"on the weekend",
		"population": "8.1 billion people worldwide (2025 estimate)",
	}
}

// NewEcho returns a tool that repeats its input, useful for wiring checks.
func NewEcho() *FunctionTool {
	return NewFunctionTool(
		NameEcho,
		"Echo the provided text back unchanged",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string", "description": "Text to echo"},
			},
			"required": []string{"text"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			text, _ := args["text"].(string)
			return text, nil
		},
	)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
