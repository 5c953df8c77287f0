package sandbox

import (
	"github.com/dop251/goja"

	"github.com/algotrace/engine/trace"
)

// bindings carries the callbacks Run wires into a fresh goja.Runtime. Every
// capture and console value reaching the host passes through an Envelope and
// its four validation layers before a callback ever sees it, even though the
// transport here is an in-process Go closure rather than a literal
// postMessage: the validation contract is part of what makes a message
// trustworthy, not an artifact of the transport it happens to use.
type bindings struct {
	correlationID string
	since         func() float64
	onStep        func(trace.TraceStep)
	onConsole     func(trace.ConsoleEntry)
}

func bindGlobals(vm *goja.Runtime, b bindings) {
	source := trace.Source{CorrelationID: b.correlationID}

	// Local step buffer, visible to assertion snippets as `steps`. Every
	// accepted capture call appends its canonical step here in addition to
	// posting it to the host.
	stepsArr := vm.NewArray()
	_ = vm.Set("steps", stepsArr)

	_ = vm.Set("capture", func(call goja.FunctionCall) goja.Value {
		raw := buildCaptureRaw(call, b.since())
		env := &trace.Envelope{
			Type:          trace.TypeCaptureStep,
			CorrelationID: b.correlationID,
		}
		step := trace.Normalize(raw)
		env.Step = &step
		if err := env.Validate(source); err != nil {
			// An invalid capture call is dropped, not surfaced to the
			// submission: a malformed trace step must never abort a run.
			return goja.Undefined()
		}
		appendStep(vm, stepsArr, *env.Step)
		if b.onStep != nil {
			b.onStep(*env.Step)
		}
		return goja.Undefined()
	})

	console := vm.NewObject()
	_ = console.Set("log", consoleMethod(vm, b, trace.ConsoleLog))
	_ = console.Set("warn", consoleMethod(vm, b, trace.ConsoleWarn))
	_ = console.Set("error", consoleMethod(vm, b, trace.ConsoleError))
	_ = console.Set("info", consoleMethod(vm, b, trace.ConsoleInfo))
	_ = vm.Set("console", console)

	_ = vm.Set("__reportError", func(call goja.FunctionCall) goja.Value {
		// The instrumenter's optional error boundary forwards uncaught
		// throws here before letting them propagate. The hook discards the
		// value; Run reports the eventual thrown error from RunProgram.
		return goja.Undefined()
	})
}

// appendStep pushes the canonical step onto the sandbox-local `steps` array.
// Runs on the VM goroutine (capture is only callable from executing script),
// so touching the runtime here is safe.
func appendStep(vm *goja.Runtime, arr *goja.Object, step trace.TraceStep) {
	push, ok := goja.AssertFunction(arr.Get("push"))
	if !ok {
		return
	}
	_, _ = push(arr, vm.ToValue(map[string]any{
		"type":      step.Type,
		"target":    string(step.Target),
		"args":      step.Args,
		"result":    step.Result,
		"timestamp": step.Timestamp,
		"metadata":  step.Metadata,
	}))
}

func consoleMethod(vm *goja.Runtime, b bindings, level trace.ConsoleLevel) func(goja.FunctionCall) goja.Value {
	source := trace.Source{CorrelationID: b.correlationID}
	return func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = a.Export()
		}
		env := &trace.Envelope{
			Type:          trace.TypeConsoleLog,
			CorrelationID: b.correlationID,
			Level:         level,
			Args:          args,
		}
		if err := env.Validate(source); err != nil {
			return goja.Undefined()
		}
		if b.onConsole != nil {
			b.onConsole(trace.ConsoleEntry{Level: level, Args: args})
		}
		return goja.Undefined()
	}
}

// buildCaptureRaw adapts the two call shapes the sandbox's `capture` global
// accepts: capture(type, target, args, result, metadata) or
// capture({type, target, args, result, metadata}).
func buildCaptureRaw(call goja.FunctionCall, timestamp float64) map[string]any {
	raw := map[string]any{"timestamp": timestamp}

	if len(call.Arguments) == 1 {
		if obj, ok := call.Arguments[0].Export().(map[string]any); ok {
			for k, v := range obj {
				raw[k] = v
			}
			if _, hasTS := obj["timestamp"]; !hasTS {
				raw["timestamp"] = timestamp
			}
			return raw
		}
	}

	if len(call.Arguments) > 0 {
		raw["type"] = call.Arguments[0].Export()
	}
	if len(call.Arguments) > 1 {
		raw["target"] = call.Arguments[1].Export()
	}
	if len(call.Arguments) > 2 {
		if args, ok := call.Arguments[2].Export().([]any); ok {
			raw["args"] = args
		} else {
			raw["args"] = []any{call.Arguments[2].Export()}
		}
	}
	if len(call.Arguments) > 3 {
		raw["result"] = call.Arguments[3].Export()
	}
	if len(call.Arguments) > 4 {
		if md, ok := call.Arguments[4].Export().(map[string]any); ok {
			raw["metadata"] = md
		}
	}

	return raw
}
