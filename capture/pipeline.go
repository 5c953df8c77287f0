// Package capture implements the step-capture pipeline: instrument, execute
// in the sandbox, and aggregate the emitted events into the ordered trace a
// reference-solution run or expected-output generation needs.
package capture

import (
	"time"

	"github.com/algotrace/engine/instrument"
	"github.com/algotrace/engine/internal/obslog"
	"github.com/algotrace/engine/sandbox"
	"github.com/algotrace/engine/trace"
)

// Request is the input to CaptureSteps.
type Request struct {
	Code              string
	Timeout           time.Duration
	MaxLoopIterations int
	MaxRecursionDepth int
	OnStep            func(trace.TraceStep)
	OnConsole         func(trace.ConsoleEntry)
	Logger            obslog.Logger
}

func instrumentOptions(req Request) instrument.Options {
	opts := instrument.DefaultOptions()
	if req.MaxLoopIterations > 0 {
		opts.MaxLoopIterations = req.MaxLoopIterations
	}
	if req.MaxRecursionDepth > 0 {
		opts.MaxRecursionDepth = req.MaxRecursionDepth
	}
	// Tracked collections emit their own capture calls; the legacy inline
	// rewrite stays off so an operation is never recorded twice.
	opts.CaptureOperations = false
	opts.AddErrorBoundaries = true
	return opts
}

func newHost(req Request) *sandbox.Host {
	h := sandbox.New()
	if req.Logger != nil {
		h.Logger = req.Logger
	}
	return h
}

// CaptureSteps runs the instrument-then-execute pipeline for one source and
// aggregates the run's trace, console output, and terminal state.
func CaptureSteps(req Request) trace.StepCaptureResult {
	instrumented := instrument.Instrument(req.Code, instrumentOptions(req))
	if instrumented.Error != "" {
		return trace.StepCaptureResult{
			Success:     false,
			Error:       instrumented.Error,
			Steps:       []trace.TraceStep{},
			ConsoleLogs: []trace.ConsoleEntry{},
		}
	}

	host := newHost(req)
	res := host.Run(sandbox.Request{
		Source:    instrumented.Code,
		Timeout:   req.Timeout,
		OnStep:    req.OnStep,
		OnConsole: req.OnConsole,
	})

	return fromRunResult(res)
}

func fromRunResult(res sandbox.Result) trace.StepCaptureResult {
	steps := res.Steps
	if steps == nil {
		steps = []trace.TraceStep{}
	}
	logs := res.ConsoleLogs
	if logs == nil {
		logs = []trace.ConsoleEntry{}
	}
	return trace.StepCaptureResult{
		Success:       res.Passed,
		Result:        res.Result,
		Error:         res.Error,
		Steps:         steps,
		ExecutionTime: float64(res.ExecutionTime.Milliseconds()),
		ConsoleLogs:   logs,
	}
}

// BatchCaptureSteps runs a sequence of sources in parallel via the sandbox's
// own batch primitive, returning results ordered by input index regardless
// of completion order. Per-request OnStep/OnConsole callbacks keep firing
// against their originating slot, so callers can correlate by closure.
func BatchCaptureSteps(reqs []Request) []trace.StepCaptureResult {
	results := make([]trace.StepCaptureResult, len(reqs))

	sandboxReqs := make([]sandbox.Request, len(reqs))
	failed := make([]bool, len(reqs))

	for i, req := range reqs {
		instrumented := instrument.Instrument(req.Code, instrumentOptions(req))
		if instrumented.Error != "" {
			failed[i] = true
			results[i] = trace.StepCaptureResult{
				Success:     false,
				Error:       instrumented.Error,
				Steps:       []trace.TraceStep{},
				ConsoleLogs: []trace.ConsoleEntry{},
			}
			continue
		}
		sandboxReqs[i] = sandbox.Request{
			Source:    instrumented.Code,
			Timeout:   req.Timeout,
			OnStep:    req.OnStep,
			OnConsole: req.OnConsole,
		}
	}

	var logger obslog.Logger
	for _, req := range reqs {
		if req.Logger != nil {
			logger = req.Logger
			break
		}
	}
	host := sandbox.New()
	if logger != nil {
		host.Logger = logger
	}
	runResults := host.RunBatch(sandboxReqs)

	for i := range reqs {
		if failed[i] {
			continue
		}
		results[i] = fromRunResult(runResults[i])
	}

	return results
}
