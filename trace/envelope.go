// Package trace defines the typed envelope used for all host<->sandbox
// traffic, and the four-layer validation pipeline every envelope must pass
// before the host will act on it.
package trace

import "fmt"

// Type is the discriminant tag of an Envelope.
type Type string

const (
	TypeExecutionComplete Type = "execution-complete"
	TypeExecutionError    Type = "execution-error"
	TypeCaptureStep       Type = "capture-step"
	TypeConsoleLog        Type = "console-log"
	TypeTestResult        Type = "test-result"
)

// allowedTypes is the whitelist consulted by layer 2 of Validate.
var allowedTypes = map[Type]bool{
	TypeExecutionComplete: true,
	TypeExecutionError:    true,
	TypeCaptureStep:       true,
	TypeConsoleLog:        true,
	TypeTestResult:        true,
}

// ConsoleLevel enumerates the intercepted console methods.
type ConsoleLevel string

const (
	ConsoleLog   ConsoleLevel = "log"
	ConsoleWarn  ConsoleLevel = "warn"
	ConsoleError ConsoleLevel = "error"
	ConsoleInfo  ConsoleLevel = "info"
)

// Envelope is the single discriminated message shape exchanged between the
// sandbox host and the execution context. Only the fields relevant to Type
// are populated; the rest are zero values.
type Envelope struct {
	Type          Type   `json:"type"`
	CorrelationID string `json:"correlationId,omitempty"`

	// execution-complete
	Result        any         `json:"result,omitempty"`
	Steps         []TraceStep `json:"steps,omitempty"`
	ExecutionTime float64     `json:"executionTime,omitempty"`

	// execution-error
	Error string `json:"error,omitempty"`
	Stack string `json:"stack,omitempty"`

	// capture-step
	Step *TraceStep `json:"step,omitempty"`

	// console-log
	Level ConsoleLevel `json:"level,omitempty"`
	Args  []any        `json:"args,omitempty"`
}

// Source identifies the origin of a message for layer-4 validation: the
// host only trusts messages that claim to originate from the run it is
// currently tracking.
type Source struct {
	CorrelationID string
}

// Validate runs the four mandatory validation layers: structural, type
// whitelist, per-type schema, and source check. All layers must pass for a
// message to be accepted; a failure at any layer means the message is
// silently discarded by the caller (Validate itself just reports the
// failure, discarding is the caller's job — see the sandbox's capture and
// console bindings).
func (e *Envelope) Validate(expect Source) error {
	// Layer 1: structural. A nil envelope or an empty type string fails.
	if e == nil {
		return fmt.Errorf("trace: nil envelope")
	}
	if e.Type == "" {
		return fmt.Errorf("trace: missing type")
	}

	// Layer 2: type whitelist.
	if !allowedTypes[e.Type] {
		return fmt.Errorf("trace: unknown envelope type %q", e.Type)
	}

	// Layer 3: per-type schema.
	if err := e.validateSchema(); err != nil {
		return err
	}

	// Layer 4: source check. Only enforced when the host has a correlation
	// ID to compare against; a zero-value expectation means "accept any"
	// (used by callers that haven't started tracking a run yet).
	if expect.CorrelationID != "" && e.CorrelationID != expect.CorrelationID {
		return fmt.Errorf("trace: correlation id mismatch: want %q got %q", expect.CorrelationID, e.CorrelationID)
	}

	return nil
}

func (e *Envelope) validateSchema() error {
	switch e.Type {
	case TypeExecutionComplete:
		// result may legitimately be nil/undefined; steps may be empty.
		return nil
	case TypeExecutionError:
		if e.Error == "" {
			return fmt.Errorf("trace: execution-error missing error message")
		}
		return nil
	case TypeCaptureStep:
		if e.Step == nil {
			return fmt.Errorf("trace: capture-step missing step")
		}
		if e.Step.Type == "" {
			return fmt.Errorf("trace: capture-step.step missing operation")
		}
		return nil
	case TypeConsoleLog:
		switch e.Level {
		case ConsoleLog, ConsoleWarn, ConsoleError, ConsoleInfo:
		default:
			return fmt.Errorf("trace: console-log invalid level %q", e.Level)
		}
		if e.Args == nil {
			return fmt.Errorf("trace: console-log missing args")
		}
		return nil
	case TypeTestResult:
		return nil
	default:
		return fmt.Errorf("trace: unknown envelope type %q", e.Type)
	}
}
