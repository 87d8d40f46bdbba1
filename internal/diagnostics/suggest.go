// Package diagnostics renders non-fresh references and computes the
// candidate suggestions of §4.8 for SymbolNotFound failures.
package diagnostics

import (
	"sort"
	"strings"
)

// Suggest returns up to 5 candidates from names ranked by Levenshtein
// distance to query on a normalized form (generics stripped, lowercased),
// ties broken by source order (candidates is assumed to already be in
// source order; sort.SliceStable preserves that on ties).
func Suggest(candidates []string, query string) []string {
	if len(candidates) == 0 {
		return nil
	}
	needle := normalize(query)

	type scored struct {
		name     string
		distance int
		order    int
	}

	scoredCandidates := make([]scored, 0, len(candidates))
	for i, name := range candidates {
		scoredCandidates = append(scoredCandidates, scored{
			name:     name,
			distance: levenshteinDistance(needle, normalize(name)),
			order:    i,
		})
	}

	sort.SliceStable(scoredCandidates, func(i, j int) bool {
		return scoredCandidates[i].distance < scoredCandidates[j].distance
	})

	limit := 5
	if len(scoredCandidates) < limit {
		limit = len(scoredCandidates)
	}

	out := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, scoredCandidates[i].name)
	}
	return out
}

// normalize strips a trailing "<...>" generic parameter list, then
// lowercases, per §4.8.
func normalize(name string) string {
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToLower(name)
}

// levenshteinDistance is the classic two-row edit-distance DP.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current := make([]int, len(b)+1)
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			ins := current[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost
			current[j] = minInt(ins, minInt(del, sub))
		}
		prev = current
	}

	return prev[len(b)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
