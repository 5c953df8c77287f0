package collections

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedStep records the (type, target) of each operation callback fired
// while a test script runs.
type capturedStep struct {
	Type   string
	Target string
}

// newCollectionsVM loads the given families' bundles into a fresh runtime
// with a `capture` global that records every operation callback.
func newCollectionsVM(t *testing.T, families ...Family) (*goja.Runtime, *[]capturedStep) {
	t.Helper()
	vm := goja.New()
	steps := &[]capturedStep{}
	err := vm.Set("capture", func(call goja.FunctionCall) goja.Value {
		*steps = append(*steps, capturedStep{
			Type:   call.Argument(0).String(),
			Target: call.Argument(1).String(),
		})
		return goja.Undefined()
	})
	require.NoError(t, err)
	for _, f := range families {
		_, err := vm.RunString(Bundle(f))
		require.NoError(t, err, "loading bundle %s", f)
	}
	return vm, steps
}

func runJSON(t *testing.T, vm *goja.Runtime, script string) string {
	t.Helper()
	v, err := vm.RunString("JSON.stringify(" + script + ")")
	require.NoError(t, err)
	return v.String()
}

func TestTrackedStack_PushPopRoundTrip(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyStack)
	out := runJSON(t, vm, `(function () {
		var s = createTrackedStack([], capture);
		s.push(1); s.push(2); s.push(3);
		return [s.pop(), s.pop(), s.pop()];
	})()`)
	assert.Equal(t, "[3,2,1]", out)

	var types []string
	for _, s := range *steps {
		assert.Equal(t, "stack", s.Target)
		types = append(types, s.Type)
	}
	assert.Equal(t, []string{"push", "push", "push", "pop", "pop", "pop"}, types)
}

func TestTrackedStack_UnderflowThrows(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyStack)
	_, err := vm.RunString(`createTrackedStack([], capture).pop();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stack underflow")
}

func TestTrackedStack_FromPreloadsSilently(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyStack)
	out := runJSON(t, vm, `TrackedStack.from([1, 2, 3]).toArray()`)
	assert.Equal(t, "[1,2,3]", out)
	assert.Empty(t, *steps)
}

func TestTrackedQueue_FIFORoundTrip(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyQueue)
	out := runJSON(t, vm, `(function () {
		var q = createTrackedQueue([], capture);
		q.enqueue("a"); q.enqueue("b"); q.enqueue("c");
		return [q.dequeue(), q.dequeue(), q.dequeue()];
	})()`)
	assert.Equal(t, `["a","b","c"]`, out)

	vm2, _ := newCollectionsVM(t, FamilyQueue)
	_, err := vm2.RunString(`createTrackedQueue([], capture).dequeue();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Queue underflow")
}

func TestTrackedLinkedList_ReverseTwiceRestores(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyLinkedList)
	out := runJSON(t, vm, `(function () {
		var l = createTrackedLinkedList([10, 20, 30, 40, 50], capture);
		l.reverse();
		var reversed = l.toArray();
		l.reverse();
		return { reversed: reversed, restored: l.toArray() };
	})()`)
	assert.Equal(t, `{"reversed":[50,40,30,20,10],"restored":[10,20,30,40,50]}`, out)
}

func TestTrackedLinkedList_FindEmitsPerNodeVisited(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyLinkedList)
	out := runJSON(t, vm, `createTrackedLinkedList([5, 6, 7], capture).find(7)`)
	assert.Equal(t, "2", out)
	// One step per visited node: 5, 6, then the match at 7.
	assert.Len(t, *steps, 3)
	for _, s := range *steps {
		assert.Equal(t, "find", s.Type)
	}
}

func TestTrackedLinkedList_NoCycleOnAppendOnlyList(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyLinkedList)
	out := runJSON(t, vm, `(function () {
		var l = createTrackedLinkedList([], capture);
		l.append(1); l.prepend(0); l.append(2);
		return l.hasCycle();
	})()`)
	assert.Equal(t, "false", out)
}

func TestTrackedLinkedList_InsertAtOutOfBoundsThrows(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyLinkedList)
	_, err := vm.RunString(`createTrackedLinkedList([1], capture).insertAt(5, 9);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Index out of bounds")
}

func TestTrackedBinaryTree_InorderIsSortedAndDuplicatesRejected(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyBinaryTree)
	out := runJSON(t, vm, `(function () {
		var bt = createTrackedBinaryTree([], capture);
		[8, 3, 10, 1, 6, 14, 4, 7].forEach(function (v) { bt.insert(v); });
		bt.insert(6);
		return bt.inorderTraversal();
	})()`)
	assert.Equal(t, "[1,3,4,6,7,8,10,14]", out)

	inserts := 0
	for _, s := range *steps {
		if s.Type == "insert" {
			inserts++
		}
	}
	// Eight live inserts plus the rejected duplicate still emit one step each.
	assert.Equal(t, 9, inserts)
}

func TestTrackedBinaryTree_DeleteThreeCases(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyBinaryTree)
	out := runJSON(t, vm, `(function () {
		var bt = createTrackedBinaryTree([8, 3, 10, 1, 6, 14, 4, 7], capture);
		bt.delete(1);  // leaf
		bt.delete(10); // one child
		bt.delete(6);  // two children, replaced by in-order successor
		return bt.inorderTraversal();
	})()`)
	assert.Equal(t, "[3,4,7,8,14]", out)
}

func TestTrackedGraph_TraversalsAndCycles(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyGraph)
	out := runJSON(t, vm, `(function () {
		var g = TrackedGraph.from(
			["a", "b", "c", "d"],
			[{from: "a", to: "b"}, {from: "b", to: "c"}, {from: "c", to: "d"}],
			false,
			capture
		);
		return {
			bfs: g.bfs("a"),
			path: g.shortestPath("a", "d"),
			cycle: g.hasCycle(),
		};
	})()`)
	assert.Equal(t, `{"bfs":["a","b","c","d"],"path":["a","b","c","d"],"cycle":false}`, out)
}

func TestTrackedGraph_FromPreloadsSilently(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyGraph)
	out := runJSON(t, vm, `(function () {
		var g = TrackedGraph.from(
			["a", "b"],
			[{from: "a", to: "b"}],
			false,
			capture
		);
		return { vertices: g.getVertices(), neighbors: g.getNeighbors("a") };
	})()`)
	assert.Equal(t, `{"vertices":["a","b"],"neighbors":["b"]}`, out)
	assert.Empty(t, *steps)
}

func TestTrackedGraph_UndirectedCycleNeedsBackEdgeBeyondParent(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyGraph)
	out := runJSON(t, vm, `(function () {
		var g = createTrackedGraph(false, capture);
		g.addEdge("a", "b");
		g.addEdge("b", "c");
		g.addEdge("c", "a");
		return g.hasCycle();
	})()`)
	assert.Equal(t, "true", out)
}

func TestTrackedGraph_DirectedCycleDetection(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyGraph)
	out := runJSON(t, vm, `(function () {
		var acyclic = createTrackedGraph(true, capture);
		acyclic.addEdge("a", "b");
		acyclic.addEdge("b", "c");
		var cyclic = createTrackedGraph(true, capture);
		cyclic.addEdge("a", "b");
		cyclic.addEdge("b", "a");
		return [acyclic.hasCycle(), cyclic.hasCycle()];
	})()`)
	assert.Equal(t, "[false,true]", out)
}

func TestTrackedHashMap_SetGetDeleteRoundTrip(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyHashMap)
	out := runJSON(t, vm, `(function () {
		var m = createTrackedHashMap({}, capture);
		m.set("x", 1);
		m.set("y", 2);
		m.set("x", 3);
		m.delete("y");
		return { x: m.get("x"), hasY: m.has("y"), size: m.getSize() };
	})()`)
	assert.Equal(t, `{"x":3,"hasY":false,"size":1}`, out)
}

func TestTrackedHashMap_CapacityOneResizesOnFirstInserts(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyHashMap)
	out := runJSON(t, vm, `(function () {
		var m = createTrackedHashMap({}, capture, 1, 0.75);
		m.set("a", 1);
		m.set("b", 2);
		return { a: m.get("a"), b: m.get("b") };
	})()`)
	assert.Equal(t, `{"a":1,"b":2}`, out)

	resizes := 0
	for _, s := range *steps {
		if s.Type == "resize" {
			resizes++
		}
	}
	assert.Equal(t, 2, resizes)
}

func TestTrackedArray_SwapAndPartition(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyArray)
	out := runJSON(t, vm, `(function () {
		var a = createTrackedArray([3, 1, 4], capture);
		a.swap(0, 1);
		var p = a.partition(0, 2);
		return { data: a.getData(), pivot: p };
	})()`)
	assert.Equal(t, `{"data":[1,3,4],"pivot":2}`, out)

	var sawSwap, sawPartition bool
	for _, s := range *steps {
		switch s.Type {
		case "swap":
			sawSwap = true
		case "partition":
			sawPartition = true
		}
	}
	assert.True(t, sawSwap)
	assert.True(t, sawPartition)
}

func TestTrackedArray_IndexedAccessAndLength(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyArray)
	out := runJSON(t, vm, `(function () {
		var a = createTrackedArray([9, 8, 7], capture);
		a[1] = 5;
		return { at: a[1], len: a.length };
	})()`)
	assert.Equal(t, `{"at":5,"len":3}`, out)
	require.Len(t, *steps, 1)
	assert.Equal(t, "set", (*steps)[0].Type)
}

func TestTrackedArray_SwapOutOfBoundsThrows(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyArray)
	_, err := vm.RunString(`createTrackedArray([1], capture).swap(0, 4);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Index out of bounds")
}

func TestReadsEmitNoSteps(t *testing.T) {
	vm, steps := newCollectionsVM(t, FamilyArray, FamilyHashMap, FamilyStack)
	_, err := vm.RunString(`
		var a = createTrackedArray([1, 2], capture);
		a.getData(); a.toArray();
		var m = createTrackedHashMap({k: 1}, capture);
		m.get("k"); m.keys(); m.values(); m.entries(); m.getSize(); m.isEmpty(); m.has("k");
		var s = createTrackedStack([1], capture);
		s.getSize(); s.isEmpty(); s.toArray();
	`)
	require.NoError(t, err)
	assert.Empty(t, *steps)
}

func TestGetDataReturnsSnapshotNotAlias(t *testing.T) {
	vm, _ := newCollectionsVM(t, FamilyArray)
	out := runJSON(t, vm, `(function () {
		var a = createTrackedArray([1, 2], capture);
		var snapshot = a.getData();
		snapshot.push(99);
		return a.getData();
	})()`)
	assert.Equal(t, "[1,2]", out)
}
