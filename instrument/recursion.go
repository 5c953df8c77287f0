package instrument

import "fmt"

// recursionPrelude declares the run-scoped recursion depth counter and the
// opt-in wrapper helper. The depth counter is a plain global rather than
// hidden inside the wrapper's closure, so code outside the wrapper can use
// it directly; none of the bundled tracked-collection modules references it.
func recursionPrelude(maxDepth int) string {
	return fmt.Sprintf(`var __recursionDepth = 0;
var __maxRecursionDepth = %d;
function __withRecursionGuard(fn) {
  return function() {
    __recursionDepth++;
    if (__recursionDepth > __maxRecursionDepth) {
      __recursionDepth--;
      throw new Error("Maximum recursion depth exceeded");
    }
    try {
      return fn.apply(this, arguments);
    } finally {
      __recursionDepth--;
    }
  };
}
`, maxDepth)
}

// wrapErrorBoundary wraps code so any uncaught error is forwarded to an
// injected __reportError function before being rethrown.
// __reportError is expected to be bound by the sandbox host; its
// absence is tolerated (the typeof guard keeps this safe to use outside a
// sandbox, e.g. in unit tests of the instrumenter alone).
func wrapErrorBoundary(code string) string {
	return "try {\n" + code + "\n} catch (__boundaryErr) {\n" +
		"  if (typeof __reportError === \"function\") { __reportError(__boundaryErr); }\n" +
		"  throw __boundaryErr;\n" +
		"}\n"
}
