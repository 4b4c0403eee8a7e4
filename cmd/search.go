package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jcdickinson/rustnav/internal/config"
	"github.com/jcdickinson/rustnav/internal/search"
	"github.com/jcdickinson/rustnav/internal/semver"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search crate documentation",
	Example: `  rustnav search --crate serde "derive macro"
  rustnav search --crate tokio --crate tokio-util --limit 5 "async runtime"`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

var (
	searchCrateNames []string
	searchLimit      int
)

func init() {
	searchCmd.Flags().StringSliceVar(&searchCrateNames, "crate", nil, "crate to search (repeatable, required)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "max results")
	searchCmd.MarkFlagRequired("crate")
}

func runSearch(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	nav, diskCache, err := buildNavigator(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize providers: %v", err)
	}

	opts := searchOptions(cfg)
	if searchLimit > 0 {
		opts.MaxResults = searchLimit
	}

	results := search.SearchCrates(ctx, nav, diskCache, searchCrateNames, args[0], opts)
	if len(results) == 0 {
		fmt.Println("no results")
		return
	}

	latest, _ := semver.ParseConstraint("latest")
	for i, r := range results {
		path := r.CrateName
		if cd, found, err := nav.LoadCrate(ctx, r.CrateName, latest); err == nil && found {
			if p, ok := r.Path(cd); ok {
				path = r.CrateName + "::" + p
			}
		}
		fmt.Printf("%d. [%.2f] %s\n", i+1, r.Score, path)
	}
}
