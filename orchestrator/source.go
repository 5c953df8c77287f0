package orchestrator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/algotrace/engine/assertshim"
	"github.com/algotrace/engine/challenge"
	"github.com/algotrace/engine/collections"
)

// buildSandboxSource assembles the full program handed to the sandbox, in
// fixed order: assertion shim, collection bundle, submission, literal
// initial data and args, an entry-point invocation, a result unwrap, and
// the challenge's assertions with `result` rewritten to `finalResult`.
// Assertion snippets rely on this ordering for the identifiers `result`,
// `finalResult`, and `steps`.
func buildSandboxSource(submission string, c challenge.Challenge, entryPoint string) (string, error) {
	initialDataJSON, err := json.Marshal(c.InitialData)
	if err != nil {
		return "", fmt.Errorf("orchestrator: marshaling initialData: %w", err)
	}
	additionalArgs := c.AdditionalArgs
	if additionalArgs == nil {
		additionalArgs = []any{}
	}
	additionalArgsJSON, err := json.Marshal(additionalArgs)
	if err != nil {
		return "", fmt.Errorf("orchestrator: marshaling additionalArgs: %w", err)
	}

	family, _ := collections.FamilyFromChallengeID(c.ID)
	bundle := collections.BundleForChallengeID(c.ID)

	var b strings.Builder
	b.WriteString(assertshim.Source())
	b.WriteString("\n")
	b.WriteString(bundle)
	b.WriteString("\n")
	b.WriteString(submission)
	b.WriteString("\n")

	fmt.Fprintf(&b, "var initialData = %s;\n", initialDataJSON)
	fmt.Fprintf(&b, "var additionalArgs = %s;\n", additionalArgsJSON)

	b.WriteString(inputExpression(family))
	b.WriteString("\n")

	fmt.Fprintf(&b, "var result = %s.apply(null, [input].concat(additionalArgs));\n", entryPoint)
	b.WriteString(finalResultExpression(family))
	b.WriteString("\n")

	assertions := rewriteResultIdentifier(c.Assertions)
	b.WriteString(assertions)
	b.WriteString("\n")

	return b.String(), nil
}

// inputExpression builds the `input` binding: a graph-family challenge
// reconstructs via TrackedGraph.from, array/linkedlist/tree families wrap an
// array initialData in a fresh tracked instance, and stack/queue/hashmap
// challenges receive initialData raw — their submissions construct the
// tracked collection themselves via the createTracked* factories (which is
// also what the stackUsage/queueUsage/twoStacks pattern detectors look for).
func inputExpression(family collections.Family) string {
	switch family {
	case collections.FamilyGraph:
		return `var input = TrackedGraph.from(initialData.vertices, initialData.edges, !!initialData.directed, capture);`
	case collections.FamilyStack, collections.FamilyQueue, collections.FamilyStackQueue, collections.FamilyHashMap:
		return `var input = initialData;`
	case collections.FamilyLinkedList:
		return `var input = Array.isArray(initialData) ? createTrackedLinkedList(initialData, capture) : initialData;`
	case collections.FamilyBinaryTree, collections.FamilyTree:
		return `var input = Array.isArray(initialData) ? createTrackedBinaryTree(initialData, capture) : initialData;`
	default:
		return `var input = Array.isArray(initialData) ? createTrackedArray(initialData, capture) : initialData;`
	}
}

// finalResultExpression unwraps a tracked collection result via its
// getData()/toArray() accessor when the entry point handed one back,
// passing scalars and plain objects through unchanged.
func finalResultExpression(family collections.Family) string {
	return `var finalResult = (result && typeof result.getData === "function") ? result.getData()
  : (result && typeof result.toArray === "function") ? result.toArray()
  : result;`
}

var resultIdentRe = regexp.MustCompile(`\bresult\b`)

// rewriteResultIdentifier globally renames the `result` identifier to
// `finalResult` in assertion text, so assertions compare against the
// unwrapped value rather than a tracked-collection instance.
func rewriteResultIdentifier(assertions string) string {
	return resultIdentRe.ReplaceAllString(assertions, "finalResult")
}
