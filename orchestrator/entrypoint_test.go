package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferEntryPoint_PrefersReferenceNameWhenSubmissionDefinesIt(t *testing.T) {
	ref := `function twoSum(nums, target) { return []; }`
	submission := `
		function helper() {}
		function twoSum(nums, target) {
			return [0, 1];
		}
	`
	name, ok := InferEntryPoint(submission, ref)
	require.True(t, ok)
	assert.Equal(t, "twoSum", name)
}

func TestInferEntryPoint_FallsBackToFirstSubmissionFunction(t *testing.T) {
	ref := `function twoSum(nums, target) { return []; }`
	submission := `
		function solve(nums, target) {
			return [0, 1];
		}
	`
	name, ok := InferEntryPoint(submission, ref)
	require.True(t, ok)
	assert.Equal(t, "solve", name)
}

func TestInferEntryPoint_ArrowFunctionSubmission(t *testing.T) {
	submission := `const solve = (nums) => nums.length;`
	name, ok := InferEntryPoint(submission, "")
	require.True(t, ok)
	assert.Equal(t, "solve", name)
}

func TestInferEntryPoint_NoFunctionFails(t *testing.T) {
	_, ok := InferEntryPoint(`const x = 1;`, "")
	assert.False(t, ok)
}
