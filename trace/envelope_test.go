package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeValidate_StructuralAndWhitelist(t *testing.T) {
	var nilEnv *Envelope
	require.Error(t, nilEnv.Validate(Source{}))

	empty := &Envelope{}
	require.Error(t, empty.Validate(Source{}))

	unknown := &Envelope{Type: "bogus"}
	require.Error(t, unknown.Validate(Source{}))
}

func TestEnvelopeValidate_PerTypeSchema(t *testing.T) {
	cases := []struct {
		name    string
		env     Envelope
		wantErr bool
	}{
		{"execution-complete ok", Envelope{Type: TypeExecutionComplete}, false},
		{"execution-error missing message", Envelope{Type: TypeExecutionError}, true},
		{"execution-error ok", Envelope{Type: TypeExecutionError, Error: "boom"}, false},
		{"capture-step missing step", Envelope{Type: TypeCaptureStep}, true},
		{"capture-step missing operation", Envelope{Type: TypeCaptureStep, Step: &TraceStep{}}, true},
		{"capture-step ok", Envelope{Type: TypeCaptureStep, Step: &TraceStep{Type: "push", Target: TargetStack}}, false},
		{"console-log bad level", Envelope{Type: TypeConsoleLog, Level: "trace", Args: []any{}}, true},
		{"console-log missing args", Envelope{Type: TypeConsoleLog, Level: ConsoleLog}, true},
		{"console-log ok", Envelope{Type: TypeConsoleLog, Level: ConsoleLog, Args: []any{"hi"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.env.Validate(Source{})
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvelopeValidate_SourceCheck(t *testing.T) {
	env := &Envelope{Type: TypeExecutionComplete, CorrelationID: "run-a"}

	require.NoError(t, env.Validate(Source{CorrelationID: "run-a"}))
	require.Error(t, env.Validate(Source{CorrelationID: "run-b"}))
	// No expectation set yet: accepted regardless.
	require.NoError(t, env.Validate(Source{}))
}

func TestNormalize_ObjectAndLegacyOperationShapes(t *testing.T) {
	fromObject := Normalize(map[string]any{
		"type":     "push",
		"target":   "stack",
		"args":     []any{1.0},
		"result":   []any{1.0},
		"metadata": map[string]any{"index": 0.0},
	})
	assert.Equal(t, "push", fromObject.Type)
	assert.Equal(t, TargetStack, fromObject.Target)

	fromLegacyOperation := Normalize(map[string]any{
		"operation": "pop",
		"target":    "stack",
	})
	assert.Equal(t, "pop", fromLegacyOperation.Type)
}
