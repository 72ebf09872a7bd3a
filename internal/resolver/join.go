package resolver

import (
	"fmt"
	"os"
	"strings"

	"bennypowers.dev/cssremap/internal/log"
)

// DefaultJoin trusts the naive join of the original directory and the url
// path: it returns the first candidate whether or not the file exists on
// disk. Existence-based search is an explicit opt-in via SearchJoin or a
// custom strategy.
func DefaultJoin(originalDir, urlPath string, candidates []string) (string, error) {
	joined := candidates[0]
	if _, err := os.Stat(joined); err != nil {
		log.Debug("resolved %q to %s (not present on disk)", urlPath, joined)
	}
	return joined, nil
}

// SearchJoin probes each candidate in order and returns the first that
// exists on disk. It fails when none do.
func SearchJoin(originalDir, urlPath string, candidates []string) (string, error) {
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no candidate for %q exists, tried %s", urlPath, strings.Join(candidates, ", "))
}
