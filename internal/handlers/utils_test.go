package handlers

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandLines(t *testing.T) {
	testCases := []struct {
		input string
		lines []string
	}{
		{"g", []string{"g"}},
		{"o 1 2\r\nf 0 0 ", []string{"o 1 2", "f 0 0"}},
		{"o 1 1\n\nn", []string{"o 1 1", "", "n"}},
		{"", []string{""}},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.lines, slices.Collect(commandLines(tc.input)), tc.input)
	}

	var first []string
	for line := range commandLines("a\nb\nc") {
		first = append(first, line)
		break
	}
	assert.Equal(t, []string{"a"}, first)
}
