package instrument

import (
	"regexp"
	"strings"

	"github.com/algotrace/engine/internal/jsscan"
)

// legacyCaptureMethods are the array methods the inert shallow hook
// rewrites.
var legacyCaptureMethods = regexp.MustCompile(`(\b[A-Za-z_$][A-Za-z0-9_$]*)\.(push|pop|shift|unshift|sort|reverse)\(`)

// legacyCapturePrelude defines the single-invocation wrapper the rewritten
// calls route through. The original call is never re-executed, only
// redirected, so a method invocation can't be captured twice.
const legacyCapturePrelude = `function __legacyCapture(obj, method, args) {
  var result = obj[method].apply(obj, args);
  if (typeof capture === "function") {
    capture(method, "array", args, result, {});
  }
  return result;
}
`

// instrumentLegacyCapture is an optional, disabled-by-default rewrite kept
// for the reference-solution runner. The test orchestrator's main path never
// enables it, because tracked collections already emit their own
// capture-step events.
func instrumentLegacyCapture(src string) string {
	matches := legacyCaptureMethods.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src
	}

	var out strings.Builder
	out.WriteString(legacyCapturePrelude)

	pos := 0
	for _, m := range matches {
		matchStart, matchEnd := m[0], m[1]
		if matchStart < pos {
			continue // overlapping match already consumed
		}
		ident := src[m[2]:m[3]]
		method := src[m[4]:m[5]]
		openParen := matchEnd - 1
		closeParen, ok := jsscan.MatchBracket(src, openParen)
		if !ok {
			continue
		}
		args := src[openParen+1 : closeParen]

		out.WriteString(src[pos:matchStart])
		out.WriteString("__legacyCapture(")
		out.WriteString(ident)
		out.WriteString(", \"")
		out.WriteString(method)
		out.WriteString("\", [")
		out.WriteString(args)
		out.WriteString("])")
		// Drop the trailing ')' that originally closed the method call —
		// __legacyCapture's own closing paren above already balances it.
		pos = closeParen + 1
	}
	out.WriteString(src[pos:])
	return out.String()
}
