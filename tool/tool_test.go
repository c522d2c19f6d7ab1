package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator(t *testing.T) {
	calc := NewCalculator()
	ctx := context.Background()

	tests := []struct {
		operation string
		a, b      float64
		want      float64
	}{
		{"add", 15, 27, 42},
		{"subtract", 10, 4, 6},
		{"multiply", 9, 9, 81},
		{"divide", 10, 4, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			result, err := calc.Call(ctx, map[string]any{"operation": tt.operation, "a": tt.a, "b": tt.b})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestCalculator_DivideByZero(t *testing.T) {
	calc := NewCalculator()
	_, err := calc.Call(context.Background(), map[string]any{"operation": "divide", "a": 1.0, "b": 0.0})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
}

func TestCalculator_UnknownOperation(t *testing.T) {
	calc := NewCalculator()
	_, err := calc.Call(context.Background(), map[string]any{"operation": "modulo", "a": 1.0, "b": 2.0})
	assert.Error(t, err)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	calc := NewCalculator()
	_, err := calc.Call(context.Background(), map[string]any{"operation": "add", "a": 1.0})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestLookup(t *testing.T) {
	lookup := NewLookup(map[string]string{"weather": "sunny"})

	result, err := lookup.Call(context.Background(), map[string]any{"key": "Weather"})
	require.NoError(t, err)
	assert.Equal(t, "sunny", result)

	_, err = lookup.Call(context.Background(), map[string]any{"key": "traffic"})
	assert.Error(t, err)
}

func TestLookup_DefaultData(t *testing.T) {
	lookup := NewLookup(nil)
	result, err := lookup.Call(context.Background(), map[string]any{"key": "weather"})
	require.NoError(t, err)
	assert.NotEmpty(t, result)
}

func TestEcho(t *testing.T) {
	echo := NewEcho()
	result, err := echo.Call(context.Background(), map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestFunctionTool_PreservesCustomToolError(t *testing.T) {
	custom := NewFunctionTool("failing", "always fails", map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}, func(context.Context, map[string]any) (any, error) {
		return nil, NewToolError("failing", "boom", "CUSTOM_CODE")
	})

	_, err := custom.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "CUSTOM_CODE", toolErr.Code)
}
