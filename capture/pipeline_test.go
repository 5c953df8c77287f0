package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algotrace/engine/trace"
)

func TestCaptureSteps_Success(t *testing.T) {
	res := CaptureSteps(Request{
		Code: `
			function run() {
				result = 10;
			}
			run();
		`,
	})
	require.Empty(t, res.Error)
	assert.True(t, res.Success)
}

func TestCaptureSteps_InstrumentationFailure(t *testing.T) {
	res := CaptureSteps(Request{
		Code: `function( { not valid`,
	})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Steps)
	assert.Equal(t, float64(0), res.ExecutionTime)
}

func TestCaptureSteps_CollectsStepsAndLogs(t *testing.T) {
	var seenSteps int
	res := CaptureSteps(Request{
		Code: `
			console.log("tracing");
			capture("push", "array", [1], [1], {});
		`,
		OnStep: func(_ trace.TraceStep) { seenSteps++ },
	})
	require.Empty(t, res.Error)
	require.Len(t, res.Steps, 1)
	require.Len(t, res.ConsoleLogs, 1)
	assert.Equal(t, 1, seenSteps)
}

func TestBatchCaptureSteps_PreservesOrder(t *testing.T) {
	reqs := []Request{
		{Code: `result = 1;`},
		{Code: `not valid (`},
		{Code: `result = 3;`},
	}
	results := BatchCaptureSteps(reqs)
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, results[2].Success)
}
