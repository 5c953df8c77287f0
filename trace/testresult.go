package trace

// TestResult is the outcome of one RunTest call.
type TestResult struct {
	TestID        string         `json:"testId"`
	Passed        bool           `json:"passed"`
	Error         string         `json:"error,omitempty"`
	ExecutionTime float64        `json:"executionTime"`
	Steps         []TraceStep    `json:"steps"`
	ConsoleLogs   []ConsoleEntry `json:"consoleLogs"`
}

// ConsoleEntry is one buffered console.* call intercepted from the sandbox.
type ConsoleEntry struct {
	Level ConsoleLevel `json:"level"`
	Args  []any        `json:"args"`
}

// StepCaptureResult is the outcome of one capture.CaptureSteps call.
type StepCaptureResult struct {
	Success       bool           `json:"success"`
	Result        any            `json:"result,omitempty"`
	Error         string         `json:"error,omitempty"`
	Steps         []TraceStep    `json:"steps"`
	ExecutionTime float64        `json:"executionTime"`
	ConsoleLogs   []ConsoleEntry `json:"consoleLogs"`
}
