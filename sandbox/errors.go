package sandbox

import "fmt"

// TimeoutError reports that a run was abandoned after exceeding its
// wall-clock budget.
type TimeoutError struct {
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution timed out after %s", e.Timeout)
}

// RuntimeError wraps an uncaught throw from inside the sandbox, keeping the
// original JS-side stack text alongside the message.
type RuntimeError struct {
	Message string
	Stack   string
}

func (e *RuntimeError) Error() string {
	return e.Message
}
