package search

import (
	"math"
	"sort"
	"strings"

	"github.com/jcdickinson/rustnav/internal/rustdoc"
)

// BM25Params holds the tunable constants (DESIGN.md's Open
// Question resolutions: follow spec.md's literal values rather than
// original_source/search/indexer.rs's empirically-tuned b=0 /
// 20x-name-weight variant; see DESIGN.md).
type BM25Params struct {
	K1 float64
	B  float64
}

// DefaultBM25Params matches SPEC_FULL.md §4.6: "Standard BM25
// (k1~1.2, b~0.75)".
var DefaultBM25Params = BM25Params{K1: 1.2, B: 0.75}

// ScoredResult is one ranked hit from a multi-crate search.
type ScoredResult struct {
	CrateName string
	IDPath    []rustdoc.ID
	Score     float64
	Relevance float64
	Authority int
}

// Path resolves the result's own "::"-joined item path within cd (the
// loaded CrateData named by CrateName), using the last element of
// IDPath — the matched item's own id, the rest being the ancestor
// chain the traversal reached it through. Returns ok=false if cd has
// no ItemSummary entry for that id (can't happen for a traversed item,
// but guards against a stale index surviving a crate re-fetch).
func (r ScoredResult) Path(cd *rustdoc.CrateData) (string, bool) {
	if len(r.IDPath) == 0 {
		return "", false
	}
	id := r.IDPath[len(r.IDPath)-1]
	summary, ok := cd.Summary(id)
	if !ok {
		return "", false
	}
	out := ""
	for i, s := range summary.Path {
		if i > 0 {
			out += "::"
		}
		out += s
	}
	return out, true
}

// Score computes global BM25 scores across every crate's QueryResults
// at once — document frequency and average document length are pooled
// globally before IDF is computed, so a term's rarity is judged across
// the whole searched set, not per crate (SPEC_FULL.md §4.6 "Multi-crate
// search"). The final per-document score folds in inbound-link
// authority as `BM25 * (1 + log(1 + authority))`, per spec.md's
// literal formula (original_source's indexer.rs instead normalizes
// authority 0..1 by the crate's own max and combines multiplicatively
// without a log; spec.md's literal text wins here).
func Score(byCrate map[string]QueryResults, params BM25Params) []ScoredResult {
	var globalTotalDocs, globalTotalLength int
	for _, r := range byCrate {
		globalTotalDocs += r.TotalDocs
		globalTotalLength += r.TotalDocLength
	}
	if globalTotalDocs == 0 {
		return nil
	}
	avgdl := float64(globalTotalLength) / float64(globalTotalDocs)

	globalDocFreq := make(map[string]int)
	for _, r := range byCrate {
		for term, df := range r.TermDocFreqs {
			globalDocFreq[term] += df
		}
	}
	idf := make(map[string]float64, len(globalDocFreq))
	for term, df := range globalDocFreq {
		idf[term] = math.Log((float64(globalTotalDocs)-float64(df)+0.5)/(float64(df)+0.5) + 1)
	}

	var out []ScoredResult
	for crateName, r := range byCrate {
		for _, res := range r.Results {
			docLenNorm := 0.0
			if avgdl > 0 {
				docLenNorm = float64(res.DocLength) / avgdl
			}

			var relevance float64
			for term, count := range res.TermCounts {
				tf := float64(count)
				numerator := tf * (params.K1 + 1)
				denominator := tf + params.K1*(1-params.B+params.B*docLenNorm)
				relevance += idf[term] * (numerator / denominator)
			}

			score := relevance * (1 + math.Log(1+float64(res.Authority)))
			out = append(out, ScoredResult{
				CrateName: crateName,
				IDPath:    res.IDPath,
				Score:     score,
				Relevance: relevance,
				Authority: res.Authority,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if len(out[i].IDPath) != len(out[j].IDPath) {
			return len(out[i].IDPath) < len(out[j].IDPath)
		}
		return idPathString(out[i].IDPath) < idPathString(out[j].IDPath)
	})
	return out
}

// DropOff is the score-drop-off cutoff of SPEC_FULL.md §4.6: walk the
// (already score-descending) results, stop after the first gap
// exceeding fraction*topScore, and never return more than max.
func DropOff(results []ScoredResult, max int, fraction float64) []ScoredResult {
	if len(results) == 0 {
		return nil
	}
	top := results[0].Score
	threshold := fraction * top
	out := results[:1]
	for i := 1; i < len(results); i++ {
		if max > 0 && len(out) >= max {
			break
		}
		if results[i-1].Score-results[i].Score > threshold {
			break
		}
		out = append(out, results[i])
	}
	return out
}

func idPathString(path []rustdoc.ID) string {
	segs := make([]string, len(path))
	for i, id := range path {
		segs[i] = string(id)
	}
	return strings.Join(segs, "/")
}
