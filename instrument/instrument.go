// Package instrument rewrites submitted source to bound loops and recursion
// before it ever reaches the sandbox.
package instrument

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/algotrace/engine/internal/jsscan"
)

// Options configures one instrumentation pass.
type Options struct {
	MaxLoopIterations  int
	MaxRecursionDepth  int
	CaptureOperations  bool // legacy inline capture hook; off for the main path
	AddErrorBoundaries bool
}

// DefaultOptions returns the engine-wide default caps.
func DefaultOptions() Options {
	return Options{
		MaxLoopIterations:  100000,
		MaxRecursionDepth:  1000,
		CaptureOperations:  false,
		AddErrorBoundaries: false,
	}
}

// Result is the instrumenter's output. On failure Code is empty and Error
// carries the reason.
type Result struct {
	Code  string
	Error string
}

// Instrument runs the full rewrite pipeline: syntax validation, loop
// instrumentation, recursion instrumentation, and an optional error
// boundary. Every failure is reported via Result.Error; Instrument never
// panics into the caller.
func Instrument(src string, opts Options) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Error: fmt.Sprintf("instrumentation panic: %v", r)}
		}
	}()

	if err := CheckSyntax(src); err != nil {
		return Result{Error: err.Error()}
	}

	withLoops, err := instrumentLoops(src, opts.MaxLoopIterations)
	if err != nil {
		return Result{Error: err.Error()}
	}

	if opts.CaptureOperations {
		withLoops = instrumentLegacyCapture(withLoops)
	}

	prelude := recursionPrelude(opts.MaxRecursionDepth)
	code := prelude + withLoops

	if opts.AddErrorBoundaries {
		code = wrapErrorBoundary(code)
	}

	return Result{Code: code}
}

// CheckSyntax validates src is parseable JavaScript. It prefers goja's own
// compiler (a real parser, and the same engine the sandbox will eventually
// run the code in); if that call itself panics unexpectedly it falls back
// to a bracket-balance check plus a scan for assignments with an empty
// right-hand side.
func CheckSyntax(src string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fallbackSyntaxCheck(src)
		}
	}()
	if _, compileErr := goja.Compile("submission.js", src, false); compileErr != nil {
		return fmt.Errorf("syntax error: %w", compileErr)
	}
	return nil
}

func fallbackSyntaxCheck(src string) error {
	if !jsscan.Balanced(src) {
		return fmt.Errorf("syntax error: unbalanced brackets")
	}
	if hasEmptyRHSAssignment(src) {
		return fmt.Errorf("syntax error: assignment with empty right-hand side")
	}
	return nil
}

func hasEmptyRHSAssignment(src string) bool {
	i := 0
	for i < len(src) {
		j := jsscan.SkipNonCode(src, i)
		if j != i {
			i = j
			continue
		}
		if src[i] == '=' && (i == 0 || src[i-1] != '=' && src[i-1] != '!' && src[i-1] != '<' && src[i-1] != '>') &&
			(i+1 >= len(src) || src[i+1] != '=') {
			rest := jsscan.SkipWhitespace(src, i+1)
			if rest >= len(src) || src[rest] == ';' || src[rest] == '\n' || src[rest] == ')' || src[rest] == '}' {
				return true
			}
		}
		i++
	}
	return false
}

// Validate is the cheap pre-flight check run before any instrumentation or
// execution: non-empty source, at least one function, balanced brackets.
func Validate(src string) (valid bool, errMsg string) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return false, "Submission is empty"
	}
	if !jsscan.Balanced(src) {
		return false, "Unbalanced brackets in submission"
	}
	if !strings.Contains(src, "function") && !strings.Contains(src, "=>") {
		return false, "Could not find a function to test. Please define a function in your code."
	}
	return true, ""
}
