// Package sandbox provides the isolated execution context untrusted
// submissions run in: one goja.Runtime per run, with no capability to reach
// the host's mutable state beyond the bound capture/console/error globals,
// a wall-clock timeout enforced via goja's own Runtime.Interrupt, and
// guaranteed cleanup on every terminal path.
package sandbox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/algotrace/engine/internal/obslog"
	"github.com/algotrace/engine/trace"
)

// DefaultTimeout is the wall-clock budget applied when a Request carries
// none of its own.
const DefaultTimeout = 5000 * time.Millisecond

// Request describes one run.
type Request struct {
	// CorrelationID ties every message from this run together; if empty,
	// Run mints one.
	CorrelationID string
	Source        string
	Timeout       time.Duration
	OnStep        func(trace.TraceStep)
	OnConsole     func(trace.ConsoleEntry)
}

// Result is what the host reports once a run reaches a terminal state:
// execution-complete, execution-error, or timeout.
type Result struct {
	CorrelationID string
	Passed        bool // true only for execution-complete; assertions run inside Source, so a failing one arrives as Error
	Result        any
	Error         string
	Steps         []trace.TraceStep
	ConsoleLogs   []trace.ConsoleEntry
	ExecutionTime time.Duration
	TimedOut      bool
}

// Host runs sandboxed JavaScript. It holds no per-run state; every field is
// configuration shared across runs (a logger), never a thing a run mutates.
type Host struct {
	Logger obslog.Logger
}

// New returns a Host with a no-op logger. Use Host{Logger: l} directly to
// supply one.
func New() *Host {
	return &Host{Logger: obslog.NopLogger()}
}

type runOutcome struct {
	value goja.Value
	err   error
}

// Run evaluates req.Source in a fresh, isolated goja.Runtime and returns the
// terminal outcome. Run never panics into the caller: all sandbox-side
// panics (including goja's own panic-based exception propagation) are
// recovered at this boundary and converted into a Result.
func (h *Host) Run(req Request) Result {
	logger := h.Logger
	if logger == nil {
		logger = obslog.NopLogger()
	}

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = newCorrelationID()
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	vm := goja.New()

	var mu sync.Mutex // guards steps/consoleLogs against the rare case a
	// late capture call races the timeout path; the steady-state producer
	// (the run goroutine) and consumer (this method, post-channel-receive)
	// never overlap, but a message emitted in the same instant Interrupt
	// fires could still be mid-append when we start reading, so we keep
	// the lock cheap rather than rely purely on happens-before.
	var steps []trace.TraceStep
	var consoleLogs []trace.ConsoleEntry
	var timedOut bool

	start := time.Now()

	bindGlobals(vm, bindings{
		correlationID: correlationID,
		since:         func() float64 { return float64(time.Since(start).Milliseconds()) },
		onStep: func(step trace.TraceStep) {
			mu.Lock()
			if !timedOut {
				steps = append(steps, step)
			}
			mu.Unlock()
			if req.OnStep != nil {
				req.OnStep(step)
			}
		},
		onConsole: func(entry trace.ConsoleEntry) {
			mu.Lock()
			if !timedOut {
				consoleLogs = append(consoleLogs, entry)
			}
			mu.Unlock()
			if req.OnConsole != nil {
				req.OnConsole(entry)
			}
		},
	})

	done := make(chan runOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- runOutcome{err: fmt.Errorf("sandbox panic: %v", r)}
			}
		}()
		prog, err := goja.Compile("submission.js", req.Source, false)
		if err != nil {
			done <- runOutcome{err: err}
			return
		}
		v, err := vm.RunProgram(prog)
		done <- runOutcome{value: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var outcome runOutcome
	select {
	case outcome = <-done:
	case <-timer.C:
		logger.Warn("sandbox run exceeded wall-clock timeout", "correlationId", correlationID, "timeout", timeout)
		mu.Lock()
		timedOut = true
		mu.Unlock()
		vm.Interrupt(fmt.Sprintf("timeout after %s", timeout))
		outcome = <-done // drain so the run goroutine is never leaked
	}

	executionTime := time.Since(start)

	mu.Lock()
	finalSteps := steps
	finalConsole := consoleLogs
	wasTimedOut := timedOut
	mu.Unlock()

	if wasTimedOut {
		logger.Info("sandbox run timed out", "correlationId", correlationID, "steps", len(finalSteps))
		return Result{
			CorrelationID: correlationID,
			Error:         (&TimeoutError{Timeout: timeout.String()}).Error(),
			Steps:         finalSteps,
			ConsoleLogs:   finalConsole,
			ExecutionTime: executionTime,
			TimedOut:      true,
		}
	}

	if outcome.err != nil {
		logger.Info("sandbox run errored", "correlationId", correlationID, "error", outcome.err.Error())
		return Result{
			CorrelationID: correlationID,
			Error:         outcome.err.Error(),
			Steps:         finalSteps,
			ConsoleLogs:   finalConsole,
			ExecutionTime: executionTime,
		}
	}

	resultValue := vm.Get("result")
	var exported any
	if resultValue != nil && !goja.IsUndefined(resultValue) && !goja.IsNull(resultValue) {
		exported = resultValue.Export()
	}

	logger.Debug("sandbox run completed", "correlationId", correlationID, "steps", len(finalSteps))
	return Result{
		CorrelationID: correlationID,
		Passed:        true,
		Result:        exported,
		Steps:         finalSteps,
		ConsoleLogs:   finalConsole,
		ExecutionTime: executionTime,
	}
}

// RunBatch starts N runs concurrently and awaits all of them. Order of the
// returned slice matches reqs; each run owns its own runtime and
// correlation ID.
func (h *Host) RunBatch(reqs []Request) []Result {
	results := make([]Result, len(reqs))
	var wg sync.WaitGroup
	wg.Add(len(reqs))
	for i, req := range reqs {
		i, req := i, req
		go func() {
			defer wg.Done()
			results[i] = h.Run(req)
		}()
	}
	wg.Wait()
	return results
}

func newCorrelationID() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return "run-" + hex.EncodeToString(buf)
}
