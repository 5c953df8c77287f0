// Package engine is the root facade for embedding callers (the UI, its
// backing store, or any other host): the small set of functions a caller
// needs, re-exported from the packages that implement them so callers don't
// need to know the layout underneath.
package engine

import (
	"time"

	"github.com/algotrace/engine/capture"
	"github.com/algotrace/engine/challenge"
	"github.com/algotrace/engine/instrument"
	"github.com/algotrace/engine/orchestrator"
	"github.com/algotrace/engine/pattern"
	"github.com/algotrace/engine/trace"
)

// Options holds the per-run knobs a caller may override. CaptureSteps and
// CaptureLogs are nil-means-true, so a zero Options captures everything.
type Options struct {
	Timeout           time.Duration
	MaxLoopIterations int
	MaxRecursionDepth int
	CaptureSteps      *bool
	CaptureLogs       *bool
	OnStep            func(trace.TraceStep)
	OnConsole         func(trace.ConsoleEntry)
}

func (o Options) toOrchestrator() orchestrator.Options {
	return orchestrator.Options{
		Timeout:           o.Timeout,
		MaxLoopIterations: o.MaxLoopIterations,
		MaxRecursionDepth: o.MaxRecursionDepth,
		CaptureSteps:      o.CaptureSteps,
		CaptureLogs:       o.CaptureLogs,
		OnStep:            o.OnStep,
		OnConsole:         o.OnConsole,
	}
}

// RunTest runs submission against one challenge and returns its TestResult.
func RunTest(submission string, c challenge.Challenge, opts Options) trace.TestResult {
	return orchestrator.RunTest(submission, c, opts.toOrchestrator())
}

// RunTests runs submission against every challenge in challenges, in order.
func RunTests(submission string, challenges []challenge.Challenge, opts Options) []trace.TestResult {
	return orchestrator.RunTests(submission, challenges, opts.toOrchestrator())
}

// RunTestsByDifficulty runs submission against the subset of challenges
// matching difficulty.
func RunTestsByDifficulty(submission string, challenges []challenge.Challenge, difficulty challenge.Difficulty, opts Options) []trace.TestResult {
	return orchestrator.RunTestsByDifficulty(submission, challenges, difficulty, opts.toOrchestrator())
}

// ValidateUserCode is the pre-flight check run before execution: non-empty,
// has some function, balanced braces/parens.
func ValidateUserCode(submission string) (valid bool, errMsg string) {
	return instrument.Validate(submission)
}

// ValidatePatterns checks submission against a pattern requirement.
func ValidatePatterns(submission string, requirement challenge.PatternRequirement) (valid bool, errMsg string) {
	res := pattern.ValidatePatterns(submission, requirement)
	return res.Valid, res.Error
}

// CaptureStepsRequest is the input to CaptureSteps.
type CaptureStepsRequest struct {
	Code              string
	Timeout           time.Duration
	MaxLoopIterations int
	MaxRecursionDepth int
	OnStep            func(trace.TraceStep)
	OnConsole         func(trace.ConsoleEntry)
}

// CaptureSteps runs the step-capture pipeline directly, for reference-
// solution runs and expected-output generation.
func CaptureSteps(req CaptureStepsRequest) trace.StepCaptureResult {
	return capture.CaptureSteps(capture.Request{
		Code:              req.Code,
		Timeout:           req.Timeout,
		MaxLoopIterations: req.MaxLoopIterations,
		MaxRecursionDepth: req.MaxRecursionDepth,
		OnStep:            req.OnStep,
		OnConsole:         req.OnConsole,
	})
}
