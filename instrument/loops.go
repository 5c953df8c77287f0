package instrument

import (
	"fmt"
	"strings"

	"github.com/algotrace/engine/internal/jsscan"
)

// instrumentLoops gives every while/for/do-while loop head in src its own
// iteration counter. It is a source-level rewriter, not an AST transform: it
// scans for loop keywords outside of strings/comments, locates the loop's
// condition and body by bracket matching, and injects a counter bump as the
// first statement of the body (wrapping single-statement bodies in braces
// where necessary). Each loop gets a uniquely numbered counter, and the scan
// resumes inside the loop body so nested loops are instrumented too.
func instrumentLoops(src string, maxIter int) (string, error) {
	type insertion struct {
		offset int
		text   string
	}
	var insertions []insertion
	var declarations strings.Builder

	// Trailing `while (...)` keywords that belong to an already-processed
	// do-while; the scanner must not mistake them for a fresh while loop.
	skipWhile := make(map[int]bool)

	add := func(decl string, ins bodyInsertion) {
		declarations.WriteString(decl)
		insertions = append(insertions, insertion{ins.offset, ins.text})
		if ins.closeOffset >= 0 {
			insertions = append(insertions, insertion{ins.closeOffset, ins.closeText})
		}
	}

	loopIndex := 0
	i := 0
	for i < len(src) {
		j := jsscan.SkipNonCode(src, i)
		if j != i {
			i = j
			continue
		}

		switch {
		case jsscan.IsWordBoundaryMatch(src, "do", i):
			resume, decl, bodyIns, whileIdx, ok := processDoWhile(src, i, loopIndex, maxIter)
			if ok {
				add(decl, bodyIns)
				skipWhile[whileIdx] = true
				loopIndex++
				i = resume
				continue
			}
		case jsscan.IsWordBoundaryMatch(src, "while", i):
			if skipWhile[i] {
				open := jsscan.SkipWhitespace(src, i+5)
				if open < len(src) && src[open] == '(' {
					if condClose, found := jsscan.MatchBracket(src, open); found {
						i = condClose + 1
						continue
					}
				}
				i += 5
				continue
			}
			resume, decl, bodyIns, ok := processHeaderLoop(src, i, "while", loopIndex, maxIter)
			if ok {
				add(decl, bodyIns)
				loopIndex++
				i = resume
				continue
			}
		case jsscan.IsWordBoundaryMatch(src, "for", i):
			resume, decl, bodyIns, ok := processHeaderLoop(src, i, "for", loopIndex, maxIter)
			if ok {
				add(decl, bodyIns)
				loopIndex++
				i = resume
				continue
			}
		}
		i++
	}

	// Insertion sort keeps equal offsets in discovery order, which matters
	// when an outer single-statement body and its inner loop both close at
	// the same statement end.
	for a := 1; a < len(insertions); a++ {
		for b := a; b > 0 && insertions[b-1].offset > insertions[b].offset; b-- {
			insertions[b-1], insertions[b] = insertions[b], insertions[b-1]
		}
	}

	var out strings.Builder
	if declarations.Len() > 0 {
		out.WriteString(declarations.String())
	}
	pos := 0
	for _, ins := range insertions {
		if ins.offset < pos || ins.offset > len(src) {
			return "", fmt.Errorf("instrument: invalid insertion offset")
		}
		out.WriteString(src[pos:ins.offset])
		out.WriteString(ins.text)
		pos = ins.offset
	}
	out.WriteString(src[pos:])
	return out.String(), nil
}

type bodyInsertion struct {
	offset      int
	text        string
	closeOffset int // -1 if no closing-brace insertion needed
	closeText   string
}

func counterBump(name string, maxIter int) string {
	return fmt.Sprintf(
		" %s++; if (%s > %d) { throw new Error(%q); } ",
		name, name, maxIter, "Infinite loop detected: exceeded maximum iterations",
	)
}

// processHeaderLoop handles `for (...) body` and `while (...) body`. The
// returned resume index points just inside the loop body, so the caller's
// scan picks up nested loops.
func processHeaderLoop(src string, kwIdx int, keyword string, loopIndex, maxIter int) (resume int, decl string, ins bodyInsertion, ok bool) {
	kwEnd := kwIdx + len(keyword)
	afterKw := jsscan.SkipWhitespace(src, kwEnd)
	if afterKw >= len(src) || src[afterKw] != '(' {
		return 0, "", bodyInsertion{}, false
	}
	condClose, found := jsscan.MatchBracket(src, afterKw)
	if !found {
		return 0, "", bodyInsertion{}, false
	}

	bodyStart := jsscan.SkipWhitespace(src, condClose+1)
	counterName := fmt.Sprintf("__loopCounter_%d", loopIndex)
	bump := counterBump(counterName, maxIter)
	decl = fmt.Sprintf("var %s = 0;\n", counterName)

	if bodyStart < len(src) && src[bodyStart] == '{' {
		if _, found := jsscan.MatchBracket(src, bodyStart); !found {
			return 0, "", bodyInsertion{}, false
		}
		return bodyStart + 1, decl, bodyInsertion{
			offset:      bodyStart + 1,
			text:        bump,
			closeOffset: -1,
		}, true
	}

	// Single-statement body: wrap it in braces. Resume at the statement
	// itself so a nested single-statement loop is still found.
	stmtEnd := findStatementEnd(src, bodyStart)
	return bodyStart, decl, bodyInsertion{
		offset:      bodyStart,
		text:        "{" + bump,
		closeOffset: stmtEnd,
		closeText:   "}",
	}, true
}

// processDoWhile handles `do body while (...) ;`. whileIdx is the index of
// the trailing `while` keyword, which the caller must skip when its scan
// reaches it. A `do` with no trailing while is not a do-while statement and
// is left untouched.
func processDoWhile(src string, kwIdx int, loopIndex, maxIter int) (resume int, decl string, ins bodyInsertion, whileIdx int, ok bool) {
	kwEnd := kwIdx + 2 // len("do")
	bodyStart := jsscan.SkipWhitespace(src, kwEnd)
	counterName := fmt.Sprintf("__loopCounter_%d", loopIndex)
	bump := counterBump(counterName, maxIter)
	decl = fmt.Sprintf("var %s = 0;\n", counterName)

	var afterBody int
	var bIns bodyInsertion
	if bodyStart < len(src) && src[bodyStart] == '{' {
		bodyClose, found := jsscan.MatchBracket(src, bodyStart)
		if !found {
			return 0, "", bodyInsertion{}, 0, false
		}
		afterBody = bodyClose + 1
		bIns = bodyInsertion{offset: bodyStart + 1, text: bump, closeOffset: -1}
		resume = bodyStart + 1
	} else {
		stmtEnd := findStatementEnd(src, bodyStart)
		afterBody = stmtEnd
		bIns = bodyInsertion{offset: bodyStart, text: "{" + bump, closeOffset: stmtEnd, closeText: "}"}
		resume = bodyStart
	}

	whileIdx = jsscan.SkipWhitespace(src, afterBody)
	if !jsscan.IsWordBoundaryMatch(src, "while", whileIdx) {
		return 0, "", bodyInsertion{}, 0, false
	}
	afterWhileKw := jsscan.SkipWhitespace(src, whileIdx+5)
	if afterWhileKw >= len(src) || src[afterWhileKw] != '(' {
		return 0, "", bodyInsertion{}, 0, false
	}
	if _, found := jsscan.MatchBracket(src, afterWhileKw); !found {
		return 0, "", bodyInsertion{}, 0, false
	}
	return resume, decl, bIns, whileIdx, true
}

// findStatementEnd returns the index just past the single statement
// starting at i: the next top-level semicolon (inclusive), or, if the
// statement is itself brace-delimited (a nested block/if/for/while without
// an enclosing semicolon), the end of that structure.
func findStatementEnd(src string, i int) int {
	j := i
	for j < len(src) {
		k := jsscan.SkipNonCode(src, j)
		if k != j {
			j = k
			continue
		}
		switch src[j] {
		case '{':
			close, ok := jsscan.MatchBracket(src, j)
			if !ok {
				return len(src)
			}
			after := jsscan.SkipWhitespace(src, close+1)
			if jsscan.IsWordBoundaryMatch(src, "else", after) ||
				jsscan.IsWordBoundaryMatch(src, "catch", after) ||
				jsscan.IsWordBoundaryMatch(src, "finally", after) ||
				jsscan.IsWordBoundaryMatch(src, "while", after) {
				j = close + 1
				continue
			}
			return close + 1
		case '(', '[':
			close, ok := jsscan.MatchBracket(src, j)
			if !ok {
				return len(src)
			}
			j = close + 1
			continue
		case ';':
			return j + 1
		}
		j++
	}
	return len(src)
}
