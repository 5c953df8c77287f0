package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algotrace/engine/challenge"
)

func TestFacade_RunTest(t *testing.T) {
	c := challenge.Challenge{
		ID:          "array-sort-easy",
		InitialData: []any{2.0, 1.0},
		Assertions:  `expect(result).toEqual([1, 2]);`,
	}
	submission := `
		function sortArray(arr) {
			if (arr[0] > arr[1]) {
				arr.swap(0, 1);
			}
			return arr;
		}
	`
	res := RunTest(submission, c, Options{})
	require.Empty(t, res.Error)
	assert.True(t, res.Passed)
}

func TestFacade_ValidateUserCode(t *testing.T) {
	valid, _ := ValidateUserCode(`function f() {}`)
	assert.True(t, valid)

	valid, errMsg := ValidateUserCode(``)
	assert.False(t, valid)
	assert.NotEmpty(t, errMsg)
}

func TestFacade_ValidatePatterns(t *testing.T) {
	req := challenge.PatternRequirement{AnyOf: []string{"iteration"}, ErrorMessage: "need a loop"}
	valid, _ := ValidatePatterns(`for (let i = 0; i < 10; i++) {}`, req)
	assert.True(t, valid)
}

func TestFacade_CaptureSteps(t *testing.T) {
	res := CaptureSteps(CaptureStepsRequest{
		Code: `capture("push", "array", [1], [1], {});`,
	})
	assert.True(t, res.Success)
	assert.Len(t, res.Steps, 1)
}
