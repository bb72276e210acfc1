package utils

import (
	"strings"
)

// Dedup drops empty and repeated entries, keeping first-seen order.
// Trailing slashes are trimmed so endpoint URLs compare equal.
func Dedup(in []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range in {
		e = strings.TrimRight(strings.TrimSpace(e), "/")
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
