// Package orchestrator composes the engine's subsystems into the test loop:
// entry-point inference, collection-bundle selection, optional pattern
// gating, sandbox source assembly, and dispatch through the step-capture
// pipeline.
package orchestrator

import (
	"time"

	"github.com/algotrace/engine/capture"
	"github.com/algotrace/engine/challenge"
	"github.com/algotrace/engine/internal/obslog"
	"github.com/algotrace/engine/pattern"
	"github.com/algotrace/engine/trace"
)

// DefaultTimeout is the wall-clock budget applied when Options carries none.
const DefaultTimeout = 5000 * time.Millisecond

// Options configures one RunTest call. CaptureSteps and CaptureLogs are
// three-valued so the zero Options still captures everything: nil means
// true, and an explicit false strips the corresponding buffer from the
// returned TestResult.
type Options struct {
	Timeout           time.Duration
	MaxLoopIterations int
	MaxRecursionDepth int
	CaptureSteps      *bool
	CaptureLogs       *bool
	OnStep            func(trace.TraceStep)
	OnConsole         func(trace.ConsoleEntry)
	Logger            obslog.Logger
}

func (o Options) logger() obslog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return obslog.NopLogger()
}

func enabled(p *bool) bool {
	return p == nil || *p
}

// RunTest runs one submission against one challenge: infer the entry point,
// gate on the pattern requirement, assemble the sandbox source, and run it
// through the capture pipeline. Failures of any kind come back in the
// TestResult's Error field; RunTest never returns an error itself.
func RunTest(submission string, c challenge.Challenge, opts Options) trace.TestResult {
	logger := opts.logger()

	entryPoint, ok := InferEntryPoint(submission, c.ReferenceSolution)
	if !ok {
		return failedResult(c.ID, "Could not find a function to test. Please define a function in your code.")
	}

	if c.PatternRequirement != nil {
		res := pattern.ValidatePatterns(submission, *c.PatternRequirement)
		if !res.Valid {
			logger.Info("pattern requirement rejected submission", "challengeId", c.ID)
			return failedResult(c.ID, res.Error)
		}
	}

	source, err := buildSandboxSource(submission, c, entryPoint)
	if err != nil {
		return failedResult(c.ID, err.Error())
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger.Debug("starting run", "challengeId", c.ID, "entryPoint", entryPoint, "timeout", timeout)

	captured := capture.CaptureSteps(capture.Request{
		Code:              source,
		Timeout:           timeout,
		MaxLoopIterations: opts.MaxLoopIterations,
		MaxRecursionDepth: opts.MaxRecursionDepth,
		OnStep:            opts.OnStep,
		OnConsole:         opts.OnConsole,
		Logger:            opts.Logger,
	})

	steps := captured.Steps
	if steps == nil || !enabled(opts.CaptureSteps) {
		steps = []trace.TraceStep{}
	}
	logs := captured.ConsoleLogs
	if logs == nil || !enabled(opts.CaptureLogs) {
		logs = []trace.ConsoleEntry{}
	}

	logger.Info("run finished", "challengeId", c.ID, "passed", captured.Success,
		"steps", len(steps), "executionTimeMs", captured.ExecutionTime)

	return trace.TestResult{
		TestID:        c.ID,
		Passed:        captured.Success,
		Error:         captured.Error,
		ExecutionTime: captured.ExecutionTime,
		Steps:         steps,
		ConsoleLogs:   logs,
	}
}

// RunTests runs each challenge sequentially, in order.
func RunTests(submission string, challenges []challenge.Challenge, opts Options) []trace.TestResult {
	results := make([]trace.TestResult, len(challenges))
	for i, c := range challenges {
		results[i] = RunTest(submission, c, opts)
	}
	return results
}

// RunTestsByDifficulty filters challenges to one difficulty tier before
// running them sequentially.
func RunTestsByDifficulty(submission string, challenges []challenge.Challenge, difficulty challenge.Difficulty, opts Options) []trace.TestResult {
	var filtered []challenge.Challenge
	for _, c := range challenges {
		if c.Difficulty == difficulty {
			filtered = append(filtered, c)
		}
	}
	return RunTests(submission, filtered, opts)
}

func failedResult(testID, errMsg string) trace.TestResult {
	return trace.TestResult{
		TestID:      testID,
		Passed:      false,
		Error:       errMsg,
		Steps:       []trace.TraceStep{},
		ConsoleLogs: []trace.ConsoleEntry{},
	}
}
