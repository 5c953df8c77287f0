package pattern

import (
	"github.com/algotrace/engine/challenge"
	"github.com/algotrace/engine/internal/jsscan"
)

// Result reports whether a submission satisfied a pattern requirement.
type Result struct {
	Valid bool
	Error string
}

// ValidatePatterns runs the detector catalog against code and reports
// whether any detector named in requirement.AnyOf matched. Detectors not
// present in Catalog are treated as non-matching rather than an error: a
// requirement naming an unknown pattern simply can't be satisfied by it.
func ValidatePatterns(code string, requirement challenge.PatternRequirement) Result {
	if !jsscan.Balanced(code) {
		return Result{Valid: false, Error: "Failed to parse code"}
	}

	for _, name := range requirement.AnyOf {
		detector, ok := Catalog[name]
		if !ok {
			continue
		}
		if detector(code) {
			return Result{Valid: true}
		}
	}

	return Result{Valid: false, Error: requirement.ErrorMessage}
}
