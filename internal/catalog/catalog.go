// Package catalog loads challenge definitions from JSON files on disk for
// the CLI front-end. The engine library itself never touches a
// filesystem; this package exists purely to give `cmd/algotrace` something
// concrete to point at.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/algotrace/engine/challenge"
)

// LoadChallenge reads a single challenge definition from a JSON file.
func LoadChallenge(path string) (challenge.Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	var c challenge.Challenge
	if err := json.Unmarshal(data, &c); err != nil {
		return challenge.Challenge{}, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}
	return c, nil
}

// LoadChallenges reads a JSON array of challenge definitions from a single
// file, for `algotrace run-all`.
func LoadChallenges(path string) ([]challenge.Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	var cs []challenge.Challenge
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}
	return cs, nil
}

// LoadSubmission reads raw JavaScript submission source from a file.
func LoadSubmission(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	return string(data), nil
}
