package orchestrator

import (
	"regexp"
	"strings"
)

var (
	funcDeclRe = regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)\s*\(`)
	arrowVarRe = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`)
	funcVarRe  = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*function\b`)
)

// InferEntryPoint determines the entry-point function name: parse the
// reference solution for its function name, prefer that name if the
// submission also defines it, and fall back to the first function the
// submission itself defines.
func InferEntryPoint(submission, referenceSolution string) (name string, ok bool) {
	if refName, found := firstFunctionName(referenceSolution); found {
		if submissionDefines(submission, refName) {
			return refName, true
		}
	}
	return firstFunctionName(submission)
}

// firstFunctionName returns the name of the first function declaration,
// named function expression bound to a variable, or arrow function bound to
// a variable, in source order.
func firstFunctionName(src string) (string, bool) {
	best := -1
	bestName := ""
	consider := func(loc []int, name string) {
		if loc == nil {
			return
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			bestName = name
		}
	}

	if m := funcDeclRe.FindStringSubmatchIndex(src); m != nil {
		consider(m, src[m[2]:m[3]])
	}
	if m := arrowVarRe.FindStringSubmatchIndex(src); m != nil {
		consider(m, src[m[2]:m[3]])
	}
	if m := funcVarRe.FindStringSubmatchIndex(src); m != nil {
		consider(m, src[m[2]:m[3]])
	}

	if best == -1 {
		return "", false
	}
	return bestName, true
}

// submissionDefines reports whether submission declares name as a function
// declaration or as a const/let/var binding. The binding's initializer is
// not checked, so a variable of that name counts even if it is no function.
func submissionDefines(submission, name string) bool {
	declRe := regexp.MustCompile(`\bfunction\s+` + regexp.QuoteMeta(name) + `\s*\(`)
	if declRe.MatchString(submission) {
		return true
	}
	varRe := regexp.MustCompile(`\b(?:const|let|var)\s+` + regexp.QuoteMeta(name) + `\s*=`)
	return varRe.MatchString(submission) && strings.Contains(submission, name)
}
