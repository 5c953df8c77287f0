// Package assertshim embeds the fluent assertion surface injected into
// every sandbox run so challenge assertions can call expect(...) without a
// full test framework inside the VM.
package assertshim

import _ "embed"

//go:embed assert.js
var source string

// Source returns the assertion shim's JavaScript source text.
func Source() string {
	return source
}
