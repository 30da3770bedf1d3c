package source

import (
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Exclusions is a list of user filters. An entry matches a target when it is
// a glob that matches the whole target, or when the target contains it.
type Exclusions []string

// Match reports whether any entry matches target.
func (x Exclusions) Match(target string) bool {
	for _, pattern := range x {
		if pattern == "" {
			continue
		}
		if strings.Contains(target, pattern) {
			return true
		}
		if ok, err := doublestar.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}
