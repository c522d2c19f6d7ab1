package core

import "fmt"

// RoutingError signals that no expert could be selected for a query: either
// the pool is empty or no expert scored above zero and no oracle selection
// succeeded. It is the only error the orchestration core surfaces to callers
// besides a single-strategy expert failure.
type RoutingError struct {
	Reason string
}

func (e *RoutingError) Error() string { return fmt.Sprintf("routing error: %s", e.Reason) }

// ConfigurationError reports a construction-time invariant violation, such as
// a Lead built over an empty expert pool. It is fatal and surfaces immediately.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return fmt.Sprintf("configuration error: %s", e.Reason) }

// InvocationError wraps the failure of a single expert. Under parallel and
// sequential dispatch it is contained and converted; under single dispatch it
// propagates to the caller.
type InvocationError struct {
	ExpertID   string
	ExpertName string
	Err        error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("expert %s failed: %v", e.ExpertName, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *InvocationError) Unwrap() error { return e.Err }
