// Package collections holds the seven tracked data-structure modules as
// embedded JavaScript source: each is a self-contained string that gets
// concatenated into the sandbox payload, never interpreted by Go itself.
// This package's job is purely selection and concatenation.
package collections

import (
	_ "embed"
	"strings"
)

//go:embed array.js
var arraySource string

//go:embed linkedlist.js
var linkedListSource string

//go:embed stack.js
var stackSource string

//go:embed queue.js
var queueSource string

//go:embed binarytree.js
var binaryTreeSource string

//go:embed graph.js
var graphSource string

//go:embed hashmap.js
var hashMapSource string

// Family names the collection kind a Challenge ID's prefix selects.
type Family string

const (
	FamilyArray      Family = "array"
	FamilyLinkedList Family = "linkedlist"
	FamilyStack      Family = "stack"
	FamilyQueue      Family = "queue"
	FamilyBinaryTree Family = "binarytree"
	FamilyTree       Family = "tree"
	FamilyGraph      Family = "graph"
	FamilyHashMap    Family = "hashmap"
	FamilyStackQueue Family = "stackqueue"
)

// sources maps each family to the single JS module it needs.
var sources = map[Family]string{
	FamilyArray:      arraySource,
	FamilyLinkedList: linkedListSource,
	FamilyStack:      stackSource,
	FamilyQueue:      queueSource,
	FamilyBinaryTree: binaryTreeSource,
	FamilyTree:       binaryTreeSource,
	FamilyGraph:      graphSource,
	FamilyHashMap:    hashMapSource,
}

// FamilyFromChallengeID extracts the collection family from a challenge ID
// of the form {family}-{operation}-{difficulty}. An unrecognized or absent
// prefix returns ("", false); callers fall back to FamilyArray.
func FamilyFromChallengeID(id string) (Family, bool) {
	idx := strings.IndexByte(id, '-')
	prefix := id
	if idx >= 0 {
		prefix = id[:idx]
	}
	f := Family(strings.ToLower(prefix))
	switch f {
	case FamilyArray, FamilyLinkedList, FamilyStack, FamilyQueue,
		FamilyBinaryTree, FamilyTree, FamilyGraph, FamilyHashMap, FamilyStackQueue:
		return f, true
	default:
		return "", false
	}
}

// Bundle selects and concatenates the JS source for one or more families.
// Stack- and queue-prefixed challenges get both bundles (cross-problems use
// each other, e.g. implementing a queue with two stacks), and the
// stackqueue prefix is handled the same way rather than falling through to
// the unknown-prefix default.
func Bundle(family Family) string {
	switch family {
	case FamilyStack:
		return sources[FamilyStack] + "\n" + sources[FamilyQueue]
	case FamilyQueue:
		return sources[FamilyQueue] + "\n" + sources[FamilyStack]
	case FamilyStackQueue:
		return sources[FamilyStack] + "\n" + sources[FamilyQueue]
	default:
		if src, ok := sources[family]; ok {
			return src
		}
		return sources[FamilyArray]
	}
}

// BundleForChallengeID is the convenience form orchestrator.RunTest uses:
// resolve the family from a challenge ID, defaulting to FamilyArray for any
// unrecognized prefix.
func BundleForChallengeID(id string) string {
	family, ok := FamilyFromChallengeID(id)
	if !ok {
		family = FamilyArray
	}
	return Bundle(family)
}
