package search

import (
	"context"
	"log"

	"github.com/jcdickinson/rustnav/internal/cache"
	"github.com/jcdickinson/rustnav/internal/navigator"
	"github.com/jcdickinson/rustnav/internal/semver"
)

// Options configures a multi-crate search (SPEC_FULL.md §10's
// search-tuning config: DropOffFraction, BM25 k1/b overrides).
type Options struct {
	BM25            BM25Params
	DropOffFraction float64 // 0 disables the cutoff
	MaxResults      int
}

// DefaultOptions matches SPEC_FULL.md §9's documented default: a
// drop-off fraction of 0.3.
var DefaultOptions = Options{
	BM25:            DefaultBM25Params,
	DropOffFraction: 0.3,
	MaxResults:      50,
}

// SearchCrates is the multi-crate search entry point (SPEC_FULL.md
// §4.6 "Multi-crate search"): load-or-build each crate's index,
// skipping any crate whose index fails to build without aborting the
// whole search, run query against each surviving index, merge and
// rank globally, and apply the score-drop-off cutoff.
func SearchCrates(ctx context.Context, nav *navigator.Navigator, c *cache.DiskCache, crateNames []string, query string, opts Options) []ScoredResult {
	byCrate := make(map[string]QueryResults)
	for _, name := range crateNames {
		latest, _ := semver.ParseConstraint("latest")
		cd, found, err := nav.LoadCrate(ctx, name, latest)
		if err != nil || !found {
			log.Printf("search: skipping crate %s: not loaded (err=%v)", name, err)
			continue // a single crate's failure never aborts the whole search
		}
		idx, err := LoadOrBuild(ctx, nav, c, cd)
		if err != nil {
			log.Printf("search: skipping crate %s: %v", name, err)
			continue
		}
		byCrate[cd.Name] = idx.Query(query)
	}

	scored := Score(byCrate, opts.BM25)
	if opts.DropOffFraction <= 0 {
		if opts.MaxResults > 0 && len(scored) > opts.MaxResults {
			scored = scored[:opts.MaxResults]
		}
		return scored
	}
	return DropOff(scored, opts.MaxResults, opts.DropOffFraction)
}
