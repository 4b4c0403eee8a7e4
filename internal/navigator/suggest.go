package navigator

import (
	"sort"

	"github.com/jcdickinson/rustnav/internal/rustdoc"
)

// maxSuggestDistance bounds the "did you mean" edit distance so an
// unrelated path never gets suggested just because the corpus is
// small (SPEC_FULL.md §7, the "did you mean" list on NotFound).
const maxSuggestDistance = 4

// Suggest returns up to max locally-defined paths in cd within
// maxSuggestDistance edits of target, closest first, grounded on
// original_source/navigator.rs's suggest_similar_paths (Levenshtein
// over the crate's known path index rather than a fuzzy external
// library, since the corpus carries no such dependency for this).
func (n *Navigator) Suggest(cd *rustdoc.CrateData, target string, max int) []string {
	type scored struct {
		path string
		dist int
	}
	var candidates []scored
	for _, p := range cd.AllPaths() {
		d := levenshtein(target, p)
		if d <= maxSuggestDistance {
			candidates = append(candidates, scored{p, d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].path < candidates[j].path
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.path
	}
	return out
}

// levenshtein computes single-character edit distance with the
// classic two-row DP; inputs here are short identifier-shaped
// strings, so O(len(a)*len(b)) is comfortably cheap.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
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
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
