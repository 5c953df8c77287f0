package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algotrace/engine/challenge"
)

func TestBuildSandboxSource_OrderedSections(t *testing.T) {
	c := challenge.Challenge{
		ID:          "array-sort-easy",
		InitialData: []any{3.0, 1.0},
		Assertions:  `expect(result).toEqual([1, 3]);`,
	}
	submission := `function sortArray(arr) { return arr; }`

	src, err := buildSandboxSource(submission, c, "sortArray")
	require.NoError(t, err)

	// The prelude order is load-bearing: shim, then collections, then the
	// submission, then the harness that invokes it.
	shimIdx := strings.Index(src, "this.expect = expect")
	bundleIdx := strings.Index(src, "createTrackedArray")
	submissionIdx := strings.Index(src, "function sortArray")
	initialIdx := strings.Index(src, "var initialData = [3,1];")
	invokeIdx := strings.Index(src, "sortArray.apply")
	assertIdx := strings.Index(src, "expect(finalResult)")

	for _, idx := range []int{shimIdx, bundleIdx, submissionIdx, initialIdx, invokeIdx, assertIdx} {
		require.GreaterOrEqual(t, idx, 0)
	}
	assert.Less(t, shimIdx, bundleIdx)
	assert.Less(t, bundleIdx, submissionIdx)
	assert.Less(t, submissionIdx, initialIdx)
	assert.Less(t, initialIdx, invokeIdx)
	assert.Less(t, invokeIdx, assertIdx)
}

func TestBuildSandboxSource_RewritesResultToFinalResult(t *testing.T) {
	c := challenge.Challenge{
		ID:          "array-sort-easy",
		InitialData: []any{1.0},
		Assertions:  `expect(result).toEqual([1]); expect(results).toBeUndefined();`,
	}
	src, err := buildSandboxSource(`function f(a) { return a; }`, c, "f")
	require.NoError(t, err)
	assert.Contains(t, src, "expect(finalResult).toEqual([1]);")
	// Only the whole-word identifier is rewritten.
	assert.Contains(t, src, "expect(results).toBeUndefined();")
}

func TestBuildSandboxSource_GraphInputUsesFromFactory(t *testing.T) {
	c := challenge.Challenge{
		ID: "graph-bfs-easy",
		InitialData: map[string]any{
			"vertices": []any{"a"},
			"edges":    []any{},
			"directed": true,
		},
		Assertions: `expect(result).toBeDefined();`,
	}
	src, err := buildSandboxSource(`function f(g) { return g.getVertices(); }`, c, "f")
	require.NoError(t, err)
	assert.Contains(t, src, "TrackedGraph.from(initialData.vertices, initialData.edges, !!initialData.directed, capture)")
}

func TestBuildSandboxSource_RawInputFamilies(t *testing.T) {
	// Stack, queue, stackqueue, and hashmap submissions construct their own
	// tracked collections; initialData reaches them unwrapped.
	cases := []struct {
		id          string
		initialData any
	}{
		{"stack-reverse-easy", []any{1.0, 2.0}},
		{"queue-drain-easy", []any{1.0, 2.0}},
		{"stackqueue-mixed-medium", []any{1.0, 2.0}},
		{"hashmap-count-easy", map[string]any{"k": 1.0}},
	}
	for _, tc := range cases {
		c := challenge.Challenge{
			ID:          tc.id,
			InitialData: tc.initialData,
			Assertions:  `expect(result).toBeDefined();`,
		}
		src, err := buildSandboxSource(`function f(data) { return data; }`, c, "f")
		require.NoError(t, err, tc.id)
		assert.Contains(t, src, "var input = initialData;", tc.id)
		assert.NotContains(t, src, "var input = createTrackedStack(", tc.id)
		assert.NotContains(t, src, "var input = createTrackedQueue(", tc.id)
	}
}

func TestBuildSandboxSource_AdditionalArgsDefaultToEmpty(t *testing.T) {
	c := challenge.Challenge{
		ID:          "array-sum-easy",
		InitialData: []any{1.0},
		Assertions:  `expect(result).toBeDefined();`,
	}
	src, err := buildSandboxSource(`function f(a) { return a; }`, c, "f")
	require.NoError(t, err)
	assert.Contains(t, src, "var additionalArgs = [];")
}
