// Package fuzzy scores catalog names against free-text queries using
// case-insensitive Levenshtein edit distance.
package fuzzy

import (
	"sort"
	"strings"
)

// Distance returns the edit distance between a and b, ignoring case.
// Costs are 1 for insert, delete and substitute.
func Distance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Keep the shorter string on the row axis so the two rolling rows
	// stay O(min(|a|,|b|)).
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Rank orders candidates by edit distance to query, closest first, and
// returns at most limit of them. Ties keep their original relative order;
// callers depend on that for deterministic result ordering.
func Rank(query string, candidates []string, limit int) []string {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	type scored struct {
		name string
		dist int
	}
	scoredAll := make([]scored, len(candidates))
	for i, c := range candidates {
		scoredAll[i] = scored{name: c, dist: Distance(query, c)}
	}

	sort.SliceStable(scoredAll, func(i, j int) bool {
		return scoredAll[i].dist < scoredAll[j].dist
	})

	if limit > len(scoredAll) {
		limit = len(scoredAll)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = scoredAll[i].name
	}
	return out
}
