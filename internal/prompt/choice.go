package prompt

import (
	"strconv"
	"strings"
)

// Choice is the parsed answer to a numbered menu.
type Choice struct {
	// Indices are the picked menu indices. A single-choice menu yields
	// exactly one index when Valid.
	Indices []int
	Valid   bool
}

// ParseChoice interprets a menu answer for a menu of n entries.
//
// An empty answer picks def. A single-choice answer must be one index in
// range, anything else is invalid. A multiple-choice answer is a comma
// separated list; entries that are not in-range indices are dropped and the
// result is always valid, possibly empty.
func ParseChoice(input string, n, def int, multiple bool) Choice {
	input = strings.TrimSpace(input)
	if input == "" {
		if def < 0 || def >= n {
			return Choice{}
		}
		return Choice{Indices: []int{def}, Valid: true}
	}

	if !multiple {
		idx, ok := parseIndex(input, n)
		if !ok {
			return Choice{}
		}
		return Choice{Indices: []int{idx}, Valid: true}
	}

	seen := make(map[int]bool)
	var indices []int
	for _, field := range strings.Split(input, ",") {
		idx, ok := parseIndex(strings.TrimSpace(field), n)
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	return Choice{Indices: indices, Valid: true}
}

// parseIndex accepts only plain decimal digits, so "+1" and "-0" are rejected.
func parseIndex(s string, n int) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(s)
	if err != nil || idx >= n {
		return 0, false
	}
	return idx, true
}

// Pick maps indices back to menu entries.
func Pick(options []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(options) {
			out = append(out, options[i])
		}
	}
	return out
}
