package handlers

import (
	"iter"
	"strings"
)

// commandLines yields the lines of a websocket message, trimmed, without
// allocating a slice for them.
func commandLines(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		found := true
		var line string
		for found {
			line, s, found = strings.Cut(s, "\n")
			if !yield(strings.TrimSpace(line)) {
				return
			}
		}
	}
}
