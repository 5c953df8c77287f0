// Package pattern implements the pattern validator: a fixed catalog of
// syntactic detectors that gate execution on a submission exhibiting at
// least one required algorithmic shape.
//
// Detectors are syntactic, not semantic — false positives are tolerated, a
// submission that merely names a slow/fast pair passes twoPointers. Every
// detector operates on the submission text directly via regexp and jsscan's
// bracket/string-skipping helpers; the shapes being detected (a loop inside
// a loop's body, a function calling its own name) only need lexical
// containment, not a full AST.
package pattern

import (
	"regexp"

	"github.com/algotrace/engine/internal/jsscan"
)

// Detector reports whether its pattern is present anywhere in src.
type Detector func(src string) bool

// Catalog is the full set of named detectors. Registering a new detector
// here makes it available to any pattern requirement that names it.
var Catalog = map[string]Detector{
	"nestedLoops":         nestedLoops,
	"swapCalls":           regexDetector(`\.swap\s*\(`),
	"recursion":           recursion,
	"partitionCalls":      regexDetector(`(\.partition\s*\()|(\bpartition\s*\()`),
	"twoPointers":         twoPointers,
	"pointerManipulation": regexDetector(`\.next\s*=[^=]`),
	"dfs":                 dfs,
	"bfs":                 bfs,
	"divideAndConquer":    divideAndConquer,
	"stackUsage":          regexDetector(`\bcreateTrackedStack\s*\(`),
	"queueUsage":          regexDetector(`\bcreateTrackedQueue\s*\(`),
	"hashMapUsage":        regexDetector(`\bcreateTrackedHashMap\s*\(`),
	"twoStacks":           twoStacks,
	"iteration":           iteration,
}

func regexDetector(pattern string) Detector {
	re := regexp.MustCompile(pattern)
	return func(src string) bool { return re.MatchString(src) }
}

var loopKeywordRe = regexp.MustCompile(`\b(for|while|do)\b`)

// loopOccurrences returns the start index and keyword of every for/while/do
// token in src that isn't inside a string or comment.
func loopOccurrences(src string) []struct {
	idx int
	kw  string
} {
	var out []struct {
		idx int
		kw  string
	}
	i := 0
	for i < len(src) {
		j := jsscan.SkipNonCode(src, i)
		if j != i {
			i = j
			continue
		}
		if loc := loopKeywordRe.FindStringIndex(src[i:]); loc != nil && loc[0] == 0 {
			kw := src[i : i+loc[1]]
			out = append(out, struct {
				idx int
				kw  string
			}{i, kw})
			i += loc[1]
			continue
		}
		i++
	}
	return out
}

// loopBodyRange returns the [start, end) span of the loop body starting at
// the token kw found at idx, best-effort for brace-less single-statement
// bodies.
func loopBodyRange(src string, idx int, kw string) (start, end int, ok bool) {
	i := idx + len(kw)
	if kw == "do" {
		i = jsscan.SkipWhitespace(src, i)
		if i < len(src) && src[i] == '{' {
			close, matched := jsscan.MatchBracket(src, i)
			if !matched {
				return 0, 0, false
			}
			return i + 1, close, true
		}
		end := simpleStatementEnd(src, i)
		return i, end, true
	}

	// for / while: skip to the condition's parens.
	i = jsscan.SkipWhitespace(src, i)
	if i >= len(src) || src[i] != '(' {
		return 0, 0, false
	}
	closeParen, matched := jsscan.MatchBracket(src, i)
	if !matched {
		return 0, 0, false
	}
	bodyStart := jsscan.SkipWhitespace(src, closeParen+1)
	if bodyStart < len(src) && src[bodyStart] == '{' {
		closeBrace, matched := jsscan.MatchBracket(src, bodyStart)
		if !matched {
			return 0, 0, false
		}
		return bodyStart + 1, closeBrace, true
	}
	end = simpleStatementEnd(src, bodyStart)
	return bodyStart, end, true
}

// simpleStatementEnd returns the index just past the next top-level ';' (or
// end of src), skipping strings/comments and nested brackets.
func simpleStatementEnd(src string, i int) int {
	depth := 0
	for i < len(src) {
		j := jsscan.SkipNonCode(src, i)
		if j != i {
			i = j
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return len(src)
}

// nestedLoops reports a loop whose body contains another loop occurrence.
func nestedLoops(src string) bool {
	loops := loopOccurrences(src)
	for _, l := range loops {
		start, end, ok := loopBodyRange(src, l.idx, l.kw)
		if !ok {
			continue
		}
		for _, inner := range loops {
			if inner.idx == l.idx {
				continue
			}
			if inner.idx > start && inner.idx < end {
				return true
			}
		}
	}
	return false
}

var (
	funcDeclRe = regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)\s*\(`)
	funcVarRe  = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*function\b`)
)

// recursion reports a named function whose body contains a call to itself.
func recursion(src string) bool {
	for _, m := range funcDeclRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		if functionCallsItself(src, m[1], name) {
			return true
		}
	}
	for _, m := range funcVarRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		if functionCallsItself(src, m[1], name) {
			return true
		}
	}
	return false
}

// functionCallsItself finds the `{` opening the function body starting
// search from from (just past the parameter list's opening, or just
// past "function" for the var form) and checks whether the body contains a
// word-boundary call to name.
func functionCallsItself(src string, from int, name string) bool {
	braceIdx := -1
	i := from
	depthParen := 0
	for i < len(src) {
		j := jsscan.SkipNonCode(src, i)
		if j != i {
			i = j
			continue
		}
		switch src[i] {
		case '(':
			depthParen++
		case ')':
			depthParen--
		case '{':
			if depthParen <= 0 {
				braceIdx = i
			}
		}
		if braceIdx != -1 {
			break
		}
		i++
	}
	if braceIdx == -1 {
		return false
	}
	closeBrace, ok := jsscan.MatchBracket(src, braceIdx)
	if !ok {
		return false
	}
	body := src[braceIdx+1 : closeBrace]
	callRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
	return callRe.MatchString(body)
}

var pointerPairs = [][2]string{
	{"slow", "fast"},
	{"p1", "p2"},
	{"left", "right"},
	{"first", "second"},
	{"prev", "curr"},
	{"current", "next"},
}

// twoPointers reports whether any known pointer-name pair is both declared
// as a local binding (var/let/const or a function parameter) anywhere in
// the submission.
func twoPointers(src string) bool {
	for _, pair := range pointerPairs {
		if declaresBinding(src, pair[0]) && declaresBinding(src, pair[1]) {
			return true
		}
	}
	return false
}

func declaresBinding(src, name string) bool {
	declRe := regexp.MustCompile(`\b(?:var|let|const)\s+` + regexp.QuoteMeta(name) + `\b`)
	if declRe.MatchString(src) {
		return true
	}
	paramRe := regexp.MustCompile(`[(,]\s*` + regexp.QuoteMeta(name) + `\s*[,)]`)
	return paramRe.MatchString(src)
}

var (
	stackVarRe     = regexp.MustCompile(`\bstack\w*\b`)
	queueVarRe     = regexp.MustCompile(`\bqueue\w*\b`)
	dfsCallRe      = regexp.MustCompile(`\b(dfs|depthFirstSearch|depthFirst)\s*\(`)
	bfsCallRe      = regexp.MustCompile(`\b(bfs|breadthFirstSearch|breadthFirst)\s*\(`)
	pushCallRe     = regexp.MustCompile(`\.push\s*\(`)
	popCallRe      = regexp.MustCompile(`\.pop\s*\(`)
	enqueueCallRe  = regexp.MustCompile(`\.enqueue\s*\(`)
	shiftDequeueRe = regexp.MustCompile(`\.(shift|dequeue)\s*\(`)
	leftRightArgRe = regexp.MustCompile(`\.(left|right)\b`)
)

// dfs matches any of: a call to dfs/depthFirst[Search], a stack-named
// variable used with both push and pop, or a recursive function passing
// .left/.right in its own recursive call.
func dfs(src string) bool {
	if dfsCallRe.MatchString(src) {
		return true
	}
	if stackVarRe.MatchString(src) && pushCallRe.MatchString(src) && popCallRe.MatchString(src) {
		return true
	}
	// recursive function passing .left/.right of a parameter in its own call.
	for _, m := range funcDeclRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		if recursiveCallCarriesChildAccess(src, m[1], name) {
			return true
		}
	}
	for _, m := range funcVarRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		if recursiveCallCarriesChildAccess(src, m[1], name) {
			return true
		}
	}
	return false
}

func recursiveCallCarriesChildAccess(src string, from int, name string) bool {
	braceIdx := -1
	i := from
	depthParen := 0
	for i < len(src) {
		j := jsscan.SkipNonCode(src, i)
		if j != i {
			i = j
			continue
		}
		switch src[i] {
		case '(':
			depthParen++
		case ')':
			depthParen--
		case '{':
			if depthParen <= 0 {
				braceIdx = i
			}
		}
		if braceIdx != -1 {
			break
		}
		i++
	}
	if braceIdx == -1 {
		return false
	}
	closeBrace, ok := jsscan.MatchBracket(src, braceIdx)
	if !ok {
		return false
	}
	body := src[braceIdx+1 : closeBrace]
	callRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(([^)]*)\)`)
	for _, call := range callRe.FindAllStringSubmatch(body, -1) {
		if leftRightArgRe.MatchString(call[1]) {
			return true
		}
	}
	return false
}

// bfs matches a call to bfs/breadthFirst[Search], or a queue-named variable
// with both an enqueue-side and a dequeue-side method call.
func bfs(src string) bool {
	if bfsCallRe.MatchString(src) {
		return true
	}
	hasEnqueue := pushCallRe.MatchString(src) || enqueueCallRe.MatchString(src)
	return queueVarRe.MatchString(src) && hasEnqueue && shiftDequeueRe.MatchString(src)
}

var (
	floorHalfRe   = regexp.MustCompile(`Math\.floor\s*\(\s*\([^)]*\+[^)]*\)\s*/\s*2\s*\)`)
	shiftHalfRe   = regexp.MustCompile(`>>\s*1\b`)
	divideByTwoRe = regexp.MustCompile(`/\s*2\b`)
	midBindingRe  = regexp.MustCompile(`\b(?:var|let|const)\s+(mid|middle|midpoint)\b`)
	sliceCallRe   = regexp.MustCompile(`\.slice\s*\(`)
)

// divideAndConquer matches midpoint arithmetic (floor of a sum over 2, a
// >>1 shift, any division by 2, or a mid/middle/midpoint binding), or
// slice() combined with recursion.
func divideAndConquer(src string) bool {
	if floorHalfRe.MatchString(src) || shiftHalfRe.MatchString(src) || divideByTwoRe.MatchString(src) || midBindingRe.MatchString(src) {
		return true
	}
	return sliceCallRe.MatchString(src) && recursion(src)
}

var twoStacksCreateRe = regexp.MustCompile(`\bcreateTrackedStack\s*\(`)

func twoStacks(src string) bool {
	return len(twoStacksCreateRe.FindAllStringIndex(src, -1)) >= 2
}

var (
	loopKeywordOnlyRe = regexp.MustCompile(`\b(for|while|do)\b`)
	forOfInRe         = regexp.MustCompile(`\bfor\s*\(\s*(?:const|let|var)\s+\w+\s+(of|in)\s+`)
	iterMethRe        = regexp.MustCompile(`\.(forEach|entries|keys|values)\s*\(`)
)

// iteration matches any loop keyword or a forEach/entries/keys/values call.
func iteration(src string) bool {
	return loopKeywordOnlyRe.MatchString(src) || forOfInRe.MatchString(src) || iterMethRe.MatchString(src)
}
